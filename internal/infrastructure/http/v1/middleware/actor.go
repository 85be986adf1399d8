package middleware

import (
	"github.com/gin-gonic/gin"

	"stockledger/internal/core/actor"
)

const (
	// HeaderActorID identifies who performs the operation.
	// The value is opaque: it ends up in createdBy and the audit trail.
	HeaderActorID = "X-Actor-ID"

	// HeaderActorName is an optional display name for the actor.
	HeaderActorName = "X-Actor-Name"
)

// Actor middleware extracts the acting user from request headers.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := c.GetHeader(HeaderActorID)
		if actorID == "" {
			c.Next()
			return
		}

		ctx := actor.WithActor(c.Request.Context(), &actor.Actor{
			ID:   actorID,
			Name: c.GetHeader(HeaderActorName),
		})
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
