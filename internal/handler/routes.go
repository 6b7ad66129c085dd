package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/user-service/internal/service"
)

// Routes groups what RegisterRoutes mounts
type Routes struct {
	Auth        *AuthHandler
	Users       *UserHandler
	AuthService service.AuthService
	// AuthLimit guards login and register; nil disables rate limiting
	AuthLimit gin.HandlerFunc
}

// RegisterRoutes mounts the /auth and /users groups
func RegisterRoutes(router gin.IRouter, r Routes) {
	limit := r.AuthLimit
	if limit == nil {
		limit = func(c *gin.Context) { c.Next() }
	}
	requireAuth := AuthMiddleware(r.AuthService)

	auth := router.Group("/auth")
	{
		auth.POST("/register", limit, r.Auth.Register)
		auth.POST("/login", limit, r.Auth.Login)
		auth.POST("/refresh", r.Auth.Refresh)
		auth.GET("/validate", requireAuth, r.Auth.Validate)
		auth.GET("/me", requireAuth, r.Auth.GetMe)
	}

	users := router.Group("/users", requireAuth)
	{
		users.GET("", r.Users.List)
		users.POST("", r.Users.Create)
		users.GET("/list", r.Users.ListPage)
		users.GET("/search", r.Users.Search)
		users.GET("/export", r.Users.Export)
		users.POST("/filter", r.Users.Filter)
		users.GET("/filter/options", r.Users.FilterOptions)
		users.GET("/:id", r.Users.Get)
		users.PATCH("/:id/status", r.Users.UpdateStatus)
	}
}
