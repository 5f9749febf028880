package routes

import (
	"civicreport-be/middlewares"

	"github.com/gin-gonic/gin"
)

// UserRoutes sets up the views scoped to the caller
func UserRoutes(r *gin.Engine, d Deps) {
	issues := r.Group("/api/issues")
	{
		issues.GET("/user", middlewares.RequireAuth(d.Resolver), d.Issues.GetUserIssues)
		issues.GET("/dashboard", middlewares.OptionalAuth(d.Resolver), d.Issues.GetDashboard)
	}
}
