package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"civicreport-be/services"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var kindStatus = map[services.Kind]int{
	services.KindValidation:      http.StatusBadRequest,
	services.KindUnauthenticated: http.StatusUnauthorized,
	services.KindForbidden:       http.StatusForbidden,
	services.KindNotFound:        http.StatusNotFound,
	services.KindConflict:        http.StatusConflict,
	services.KindPersistence:     http.StatusInternalServerError,
}

// respondError writes a service error. Causes of server errors are logged
// and reported, never sent to the client.
func respondError(c *gin.Context, log *slog.Logger, err error) {
	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		svcErr = &services.Error{Kind: services.KindPersistence, Message: "Server error", Err: err}
	}

	status := kindStatus[svcErr.Kind]
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		log.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "err", err)
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.WithScope(func(scope *sentry.Scope) {
				scope.SetTag("path", c.FullPath())
				hub.CaptureException(err)
			})
		}
	}

	body := gin.H{"message": svcErr.Message}
	if svcErr.Field != "" {
		body["field"] = svcErr.Field
	}
	c.JSON(status, body)
}

// badRequest reports a payload the binder rejected.
func badRequest(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		c.JSON(http.StatusBadRequest, gin.H{
			"message": describeField(fe),
			"field":   lowerFirst(fe.Field()),
		})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
}

func describeField(fe validator.FieldError) string {
	name := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "email":
		return "Invalid email address"
	case "min":
		return name + " must be at least " + fe.Param() + " characters"
	case "max":
		return name + " must be at most " + fe.Param() + " characters"
	case "specialization":
		return "Invalid specialization"
	case "role":
		return "Invalid role"
	case "status":
		return "Invalid status"
	}
	return "Invalid " + name
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
