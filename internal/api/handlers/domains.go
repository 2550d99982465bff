package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leozw/domainhub/internal/core"
	"github.com/leozw/domainhub/internal/domains"
)

type UpdateNameserversRequest struct {
	Nameservers []string `json:"nameservers"`
}

type BulkUpdateRequest struct {
	DomainIDs []string          `json:"domainIds"`
	Updates   domains.BulkPatch `json:"updates"`
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.domains.Stats(c.Request.Context(), userID(c))
	if err != nil {
		h.fail(c, err, "Failed to fetch domain statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) ListDomains(c *gin.Context) {
	filters := core.DomainFilters{
		Registrar: c.Query("registrar"),
		Status:    c.Query("status"),
		Search:    c.Query("search"),
	}

	list, err := h.domains.List(c.Request.Context(), userID(c), filters)
	if err != nil {
		h.fail(c, err, "Failed to fetch domains")
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetDomain(c *gin.Context) {
	d, err := h.domains.Get(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to fetch domain")
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) UpdateNameservers(c *gin.Context) {
	var req UpdateNameserversRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	d, err := h.domains.UpdateNameservers(c.Request.Context(), userID(c), c.Param("id"), req.Nameservers)
	if err != nil {
		h.fail(c, err, "Failed to update nameservers")
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) BulkUpdate(c *gin.Context) {
	var req BulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	updated, err := h.domains.BulkUpdate(c.Request.Context(), userID(c), req.DomainIDs, req.Updates)
	if err != nil {
		h.fail(c, err, "Failed to bulk update domains")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) GetDelegation(c *gin.Context) {
	d, err := h.domains.Delegation(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to resolve nameservers")
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) GetWhois(c *gin.Context) {
	report, err := h.domains.Whois(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to fetch whois record")
		return
	}
	c.JSON(http.StatusOK, report)
}
