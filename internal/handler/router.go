package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mirna-salem/petprofiles/internal/auth"
	"github.com/mirna-salem/petprofiles/internal/platform/health"
	"github.com/mirna-salem/petprofiles/internal/platform/middleware"
)

// RouterDeps holds everything NewRouter wires into the engine.
type RouterDeps struct {
	Profiles       *ProfileHandler
	Images         *ImageHandler
	Health         *health.Handler
	Authenticator  auth.Authenticator
	AuthHeader     string
	AllowedOrigins []string
	Logger         *zap.Logger
}

// NewRouter builds the gin engine. Health probes are public; everything under
// /api/v1 requires authentication.
func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(d.Logger),
		middleware.Logger(d.Logger),
		middleware.CORS(d.AllowedOrigins, d.AuthHeader),
		middleware.SecurityHeaders(),
	)

	if d.Health != nil {
		d.Health.RegisterRoutes(r)
	}

	api := r.Group("/api/v1")
	api.Use(middleware.RequireAuth(d.Authenticator, d.Logger))
	d.Profiles.RegisterRoutes(api)
	d.Images.RegisterRoutes(api)

	return r
}
