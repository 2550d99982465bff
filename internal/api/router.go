package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/leozw/domainhub/internal/api/handlers"
	"github.com/leozw/domainhub/internal/api/middleware"
	"github.com/leozw/domainhub/internal/config"
	"github.com/leozw/domainhub/internal/domains"
	"github.com/leozw/domainhub/internal/search"
	"github.com/leozw/domainhub/internal/syncer"
)

type Services struct {
	Domains *domains.Service
	Search  *search.Service
	Syncer  *syncer.Service
}

type Server struct {
	Config   *config.Config
	Router   *gin.Engine
	Logger   *zap.Logger
	Registry *prometheus.Registry
	handler  *handlers.Handler
}

// NewServer wires the HTTP surface. reg may be nil, in which case /metrics is
// not mounted.
func NewServer(cfg *config.Config, svc Services, checks map[string]handlers.Check, reg *prometheus.Registry, logger *zap.Logger) *Server {
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()

	router.Use(middleware.Logger(logger))
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())

	server := &Server{
		Config:   cfg,
		Router:   router,
		Logger:   logger,
		Registry: reg,
		handler:  handlers.NewHandler(svc.Domains, svc.Search, svc.Syncer, checks, logger),
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	h := s.handler

	s.Router.GET("/health", h.Health)
	s.Router.GET("/ready", h.Ready)
	if s.Registry != nil {
		s.Router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.Registry, promhttp.HandlerOpts{})))
	}

	api := s.Router.Group("/api")
	api.Use(middleware.UserContext(s.Config.Demo.DefaultUserID))

	// Literal segments go before :id.
	{
		api.GET("/domains/stats", h.GetStats)
		api.GET("/domains/search/:domainName", h.SearchDomain)
		api.POST("/domains/bulk-search", h.BulkSearch)
		api.PATCH("/domains/bulk", h.BulkUpdate)
		api.GET("/domains", h.ListDomains)
		api.GET("/domains/:id", h.GetDomain)
		api.PATCH("/domains/:id/nameservers", h.UpdateNameservers)
		api.GET("/domains/:id/delegation", h.GetDelegation)
		api.GET("/domains/:id/whois", h.GetWhois)
	}

	{
		api.GET("/registrars", h.ListRegistrars)
		api.POST("/registrars", h.CreateRegistrar)
		api.POST("/registrars/sync", h.SyncAll)
		api.PATCH("/registrars/:id", h.UpdateRegistrar)
		api.DELETE("/registrars/:id", h.DeleteRegistrar)
		api.POST("/registrars/:id/sync", h.SyncRegistrar)
	}
}
