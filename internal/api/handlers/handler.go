package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/leozw/domainhub/internal/api/middleware"
	"github.com/leozw/domainhub/internal/core"
	"github.com/leozw/domainhub/internal/domains"
	"github.com/leozw/domainhub/internal/registrar"
	"github.com/leozw/domainhub/internal/search"
	"github.com/leozw/domainhub/internal/storage"
	"github.com/leozw/domainhub/internal/syncer"
)

// Check is one readiness probe, such as a database ping.
type Check func(ctx context.Context) error

type Handler struct {
	domains *domains.Service
	search  *search.Service
	syncer  *syncer.Service
	checks  map[string]Check
	logger  *zap.Logger
}

func NewHandler(d *domains.Service, s *search.Service, sy *syncer.Service, checks map[string]Check, logger *zap.Logger) *Handler {
	return &Handler{
		domains: d,
		search:  s,
		syncer:  sy,
		checks:  checks,
		logger:  logger,
	}
}

func userID(c *gin.Context) string {
	return c.GetString(middleware.UserIDKey)
}

// fail maps service errors onto status codes. fallback is the message used
// for unexpected errors, which are logged and not shown to the caller.
func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	var ve *core.ValidationError
	switch {
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"message": ve.Error()})
	case errors.Is(err, storage.ErrInUse):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Registrar connection still has domains"})
	case errors.Is(err, domains.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid API credentials"})
	case errors.Is(err, domains.ErrRegistrarRejected):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to update nameservers with registrar"})
	case errors.Is(err, registrar.ErrUpstream):
		c.JSON(http.StatusBadRequest, gin.H{
			"message":  "Failed to communicate with registrar API",
			"category": registrar.CategoryOf(err),
		})
	default:
		h.logger.Error(fallback, zap.Error(err), zap.String("path", c.FullPath()))
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": fallback})
	}
}
