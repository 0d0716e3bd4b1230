package httpapi

import (
	"net/http"
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
)

// NewRouter wires the middleware chain and all routes.
//
//	GET  /                    liveness text
//	GET  /health              health check
//	POST /api/auth/register   create an account
//	POST /api/auth/login      exchange credentials for a token
//	GET  /api/user/profile    bearer-protected
func NewRouter(h *Handler, tokens TokenVerifier, l logging.Logger, origins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger(l))

	corsConfig := cors.DefaultConfig()
	if len(origins) == 0 || slices.Contains(origins, "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
	}
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Type",
		"Accept",
		common.AuthorizationHeaderName,
		common.RequestIDHeaderName,
	}
	corsConfig.ExposeHeaders = []string{common.RequestIDHeaderName}
	router.Use(cors.New(corsConfig))

	router.GET("/", h.Root)
	router.GET("/health", h.Health)

	api := router.Group("/api")
	{
		authRoutes := api.Group("/auth")
		authRoutes.POST("/register", h.Register)
		authRoutes.POST("/login", h.Login)

		protected := api.Group("/user")
		protected.Use(RequireAuth(tokens, l))
		protected.GET("/profile", h.Profile)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	})

	return router
}
