package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const actorIDKey = "actorId"

// ActorHeader carries the submitting actor's identifier, set by the admin front end.
const ActorHeader = "X-User-Id"

// Actor stores the caller-supplied actor identifier in context, if present.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := strings.TrimSpace(c.GetHeader(ActorHeader)); id != "" {
			c.Set(actorIDKey, id)
		}
		c.Next()
	}
}

// ActorFromContext returns the actor id stored by Actor, or "".
func ActorFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(actorIDKey)
}
