package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"go.uber.org/zap"

	"fitexport/internal/auth"
	"fitexport/internal/config"
	"fitexport/internal/database"
	"fitexport/internal/handler"
	"fitexport/internal/middleware"
)

type Server struct {
	*gin.Engine
	cfg *config.Config
}

// New registers provider with goth, points gothic at sessionStore and wires the routes.
func New(cfg *config.Config, db database.TokenStore, sessionStore sessions.Store, provider goth.Provider, exporter handler.Exporter, log *zap.SugaredLogger) *Server {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  cfg.CORSOrigins,
			AllowMethods:  []string{"GET"},
			AllowHeaders:  []string{"Origin", middleware.RequestIDHeader},
			ExposeHeaders: []string{middleware.RequestIDHeader},
			MaxAge:        12 * time.Hour,
		}))
	}

	goth.UseProviders(provider)
	auth.UseStore(sessionStore)

	h := handler.New(db, cfg, auth.NewGothicAuthenticator(), exporter, log)

	r.GET("/", h.Callback)
	r.GET("/authorize", h.Authorize)
	r.GET("/healthz", h.Health)
	r.GET("/write-data", h.WriteData)
	r.GET("/fitbit/write-data", h.WriteData)

	return &Server{r, cfg}
}

// Run listens on the configured address, with TLS when enabled.
func (s *Server) Run() error {
	if s.cfg.TLSEnabled {
		return s.Engine.RunTLS(s.cfg.ListenAddr, s.cfg.TLSCertFile, s.cfg.TLSKeyFile)
	}
	return s.Engine.Run(s.cfg.ListenAddr)
}
