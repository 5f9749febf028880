package routes

import (
	"civicreport-be/middlewares"

	"github.com/gin-gonic/gin"
)

// AuthRoutes sets up the authentication routes
func AuthRoutes(r *gin.Engine, d Deps) {
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", d.Auth.RegisterUser)
		auth.POST("/login", d.Auth.LoginUser)
		auth.POST("/logout", d.Auth.LogoutUser)
		auth.GET("/me", middlewares.RequireAuth(d.Resolver), d.Auth.GetMe)
	}
}
