// Package httpkit provides HTTP utilities including identity abstraction.
package httpkit

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Identity represents the caller's identity for a request.
// Search endpoints accept anonymous callers, so the identity may be empty;
// handlers use it only to scope per-user enrichment.
type Identity struct {
	userID        uuid.UUID
	authenticated bool
}

// UserID returns the authenticated user's ID, or uuid.Nil for anonymous callers.
func (i Identity) UserID() uuid.UUID {
	return i.userID
}

// IsAuthenticated returns true if the request carried a valid token.
func (i Identity) IsAuthenticated() bool {
	return i.authenticated
}

// GetIdentity extracts the Identity from a Gin context.
// Returns an anonymous identity when no user was resolved by the middleware.
func GetIdentity(c *gin.Context) Identity {
	value, ok := c.Get(ContextUserIDKey)
	if !ok {
		return Identity{}
	}

	userID, ok := value.(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return Identity{}
	}

	return Identity{userID: userID, authenticated: true}
}
