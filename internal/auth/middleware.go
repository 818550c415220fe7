package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const identityKey = "auth.user"

// Gate resolves the acting user from a bearer token. It is the single
// authorization chokepoint: handlers never inspect roles themselves.
type Gate struct {
	secret []byte
	users  *Store
}

// NewGate returns a Gate over the users store.
func NewGate(secret []byte, users *Store) *Gate {
	return &Gate{secret: secret, users: users}
}

// RequireUser authenticates the request and stores the resolved user in the
// request context. Aborts with 401 on a missing/invalid token or a token for
// a user that no longer exists.
func (g *Gate) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := g.resolve(c)
		if !ok {
			return
		}
		c.Set(identityKey, user)
		c.Next()
	}
}

// RequireAdmin authenticates and additionally requires the admin role,
// aborting with 403 otherwise.
func (g *Gate) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := g.resolve(c)
		if !ok {
			return
		}
		if !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin_required"})
			return
		}
		c.Set(identityKey, user)
		c.Next()
	}
}

// CurrentUser returns the user placed in the context by the gate, or nil on
// an unauthenticated route.
func CurrentUser(c *gin.Context) *User {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	u, _ := v.(*User)
	return u
}

func (g *Gate) resolve(c *gin.Context) (*User, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_token"})
		return nil, false
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")

	claims, err := ParseToken(g.secret, tokenString)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
		return nil, false
	}

	user, err := g.users.GetByEmail(c.Request.Context(), claims.Email)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "auth_lookup_failed"})
		return nil, false
	}
	if user == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown_user"})
		return nil, false
	}
	return user, true
}
