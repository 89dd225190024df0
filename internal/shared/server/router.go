package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"grantwriter-backend/internal/grants"
	"grantwriter-backend/internal/letters"
	"grantwriter-backend/internal/onboarding"
	"grantwriter-backend/internal/shared/config"
	"grantwriter-backend/internal/shared/metrics"
	"grantwriter-backend/internal/shared/server/middleware"
	"grantwriter-backend/internal/shared/server/respond"
)

// RouterDeps carries the handlers the router wires up.
type RouterDeps struct {
	Config            config.Config
	OnboardingHandler *onboarding.Handler
	GrantsHandler     *grants.Handler
	LettersHandler    *letters.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	if deps.OnboardingHandler != nil {
		deps.OnboardingHandler.RegisterRoutes(api)
	}
	if deps.GrantsHandler != nil {
		deps.GrantsHandler.RegisterRoutes(api)
	}
	if deps.LettersHandler != nil {
		deps.LettersHandler.RegisterRoutes(api)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
