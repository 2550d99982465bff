package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/leozw/domainhub/internal/core"
	"github.com/leozw/domainhub/internal/search"
)

type BulkSearchRequest struct {
	DomainNames []string `json:"domainNames"`
	Registrar   string   `json:"registrar"`
}

// SearchDomain answers {registrar, result} when a registrar is named and
// {results: [...]} otherwise.
func (h *Handler) SearchDomain(c *gin.Context) {
	showPrice, _ := strconv.ParseBool(c.DefaultQuery("showPrice", "false"))
	req := search.Request{
		DomainName: c.Param("domainName"),
		Registrar:  core.Registrar(c.Query("registrar")),
		ShowPrice:  showPrice,
		Currency:   c.DefaultQuery("currency", "USD"),
	}

	results, err := h.search.Search(c.Request.Context(), userID(c), req)
	if err != nil {
		h.fail(c, err, "Failed to search domain")
		return
	}

	if req.Registrar != "" && len(results) == 1 {
		c.JSON(http.StatusOK, results[0])
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (h *Handler) BulkSearch(c *gin.Context) {
	var req BulkSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.DomainNames == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "domainNames must be an array"})
		return
	}

	results, err := h.search.BulkSearch(c.Request.Context(), userID(c), search.BulkRequest{
		DomainNames: req.DomainNames,
		Registrar:   core.Registrar(req.Registrar),
	})
	if err != nil {
		h.fail(c, err, "Failed to perform bulk search")
		return
	}

	if req.Registrar != "" && len(results) == 1 {
		c.JSON(http.StatusOK, results[0])
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}
