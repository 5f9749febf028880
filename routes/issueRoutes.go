package routes

import (
	"civicreport-be/middlewares"

	"github.com/gin-gonic/gin"
)

// IssueRoutes sets up the issue routes
func IssueRoutes(r *gin.Engine, d Deps) {
	requireAuth := middlewares.RequireAuth(d.Resolver)
	optionalAuth := middlewares.OptionalAuth(d.Resolver)
	engage := middlewares.EngagementSession()

	issue := r.Group("/api/issues")
	{
		issue.GET("/public", d.Issues.GetPublicIssues)
		issue.GET("/map", d.Issues.GetIssueMap)

		issue.POST("/:id/like", optionalAuth, engage, d.Issues.LikeIssue)
		issue.POST("/:id/comment", optionalAuth, engage, d.Issues.AddComment)
		issue.GET("/:id/comments", d.Issues.GetComments)

		issue.POST("", requireAuth, middlewares.IssueRateLimiter(d.RateLimit), d.Issues.CreateIssue)
		issue.GET("", optionalAuth, d.Issues.GetAllIssues)
		issue.GET("/:id", requireAuth, d.Issues.GetIssue)
		issue.PUT("/:id", requireAuth, d.Issues.UpdateIssue)
		issue.DELETE("/:id", requireAuth, d.Issues.DeleteIssue)
	}
}
