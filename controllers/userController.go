package controllers

import (
	"net/http"

	"civicreport-be/middlewares"

	"github.com/gin-gonic/gin"
)

// Views scoped to the caller.

// GetMe returns the authenticated user
func (ac *AuthController) GetMe(c *gin.Context) {
	user, err := ac.auth.Me(c.Request.Context(), middlewares.IdentityFrom(c))
	if err != nil {
		respondError(c, ac.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetUserIssues lists the caller's own issues, resolved ones included
func (ic *IssueController) GetUserIssues(c *gin.Context) {
	issues, err := ic.issues.ListOwn(c.Request.Context(), middlewares.IdentityFrom(c))
	if err != nil {
		respondError(c, ic.log, err)
		return
	}
	c.JSON(http.StatusOK, issues)
}

// GetDashboard returns aggregates over the caller's dashboard scope
func (ic *IssueController) GetDashboard(c *gin.Context) {
	dash, err := ic.issues.Dashboard(c.Request.Context(), middlewares.IdentityFrom(c))
	if err != nil {
		respondError(c, ic.log, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}
