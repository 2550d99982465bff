package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leozw/domainhub/internal/core"
	"github.com/leozw/domainhub/internal/registrar"
)

// Connections serialize without apiKey and apiSecret.
func (h *Handler) ListRegistrars(c *gin.Context) {
	conns, err := h.domains.ListConnections(c.Request.Context(), userID(c))
	if err != nil {
		h.fail(c, err, "Failed to fetch registrar connections")
		return
	}
	c.JSON(http.StatusOK, conns)
}

func (h *Handler) CreateRegistrar(c *gin.Context) {
	var in core.NewConnectionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	in.UserID = userID(c)

	conn, err := h.domains.CreateConnection(c.Request.Context(), in)
	if errors.Is(err, registrar.ErrUnsupportedRegistrar) {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if err != nil {
		h.fail(c, err, "Failed to create registrar connection")
		return
	}
	c.JSON(http.StatusCreated, conn)
}

func (h *Handler) UpdateRegistrar(c *gin.Context) {
	var patch core.ConnectionPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	conn, err := h.domains.UpdateConnection(c.Request.Context(), userID(c), c.Param("id"), patch)
	if err != nil {
		h.fail(c, err, "Failed to update registrar connection")
		return
	}
	c.JSON(http.StatusOK, conn)
}

func (h *Handler) DeleteRegistrar(c *gin.Context) {
	if err := h.domains.DeleteConnection(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		h.fail(c, err, "Failed to delete registrar connection")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Registrar connection deleted successfully"})
}

func (h *Handler) SyncRegistrar(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	// Ownership check before any registrar traffic.
	owned := false
	conns, err := h.domains.ListConnections(ctx, userID(c))
	if err != nil {
		h.fail(c, err, "Failed to sync domains")
		return
	}
	for _, conn := range conns {
		if conn.ID == id {
			owned = true
			break
		}
	}
	if !owned {
		c.JSON(http.StatusNotFound, gin.H{"message": "Registrar connection not found"})
		return
	}

	result, err := h.syncer.Sync(ctx, id)
	if err != nil {
		h.fail(c, err, "Failed to sync domains")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     "Sync completed successfully",
		"syncedCount": result.SyncedCount,
		"created":     result.Created,
		"updated":     result.Updated,
	})
}

func (h *Handler) SyncAll(c *gin.Context) {
	results, err := h.syncer.SyncAll(c.Request.Context(), userID(c))
	if err != nil {
		h.fail(c, err, "Failed to sync domains")
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}
