package middlewares

import (
	"civicreport-be/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionHeader carries the anonymous engagement token both ways.
const SessionHeader = "X-Session-Id"

const engagerKey = "engager"

// EngagementSession resolves who is liking or commenting. Run it after
// OptionalAuth. A freshly generated token is echoed in the response.
func EngagementSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		who, generated := services.ResolveEngager(IdentityFrom(c), c.GetHeader(SessionHeader), uuid.NewString)
		if generated {
			c.Header(SessionHeader, who.Token)
		}
		c.Set(engagerKey, who)
		c.Next()
	}
}

// EngagerFrom returns the engager set by EngagementSession.
func EngagerFrom(c *gin.Context) services.Engager {
	v, _ := c.Get(engagerKey)
	who, _ := v.(services.Engager)
	return who
}
