package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Checker reports whether a dependency is reachable.
type Checker func(ctx context.Context) error

// Handler serves liveness and readiness probes.
type Handler struct {
	checks  map[string]Checker
	timeout time.Duration
	logger  *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{
		checks:  make(map[string]Checker),
		timeout: 2 * time.Second,
		logger:  logger,
	}
}

// Add registers a named readiness check.
func (h *Handler) Add(name string, check Checker) *Handler {
	h.checks[name] = check
	return h
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/health")
	g.GET("/live", h.Live)
	g.GET("/ready", h.Ready)
}

func (h *Handler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready runs every check; any failure answers 503.
func (h *Handler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.Error("readiness check failed", zap.String("check", name), zap.Error(err))
			results[name] = "error"
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "unavailable"
	}
	c.JSON(status, gin.H{"status": overall, "checks": results})
}
