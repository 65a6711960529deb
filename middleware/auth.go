package middleware

import (
	"github.com/gin-gonic/gin"

	"tau-journal/helper"
	"tau-journal/identity"
)

var HTTPHelper = &helper.HTTPHelper{}

const contextIdentity = "identity"

// Auth resolves the caller identity through the configured strategy
// (bearer verification or trusted forwarded headers) and aborts with 401
// when it fails.
func Auth(resolver identity.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := resolver.Resolve(c.Request)
		if err != nil {
			HTTPHelper.SendUnauthorized(c, "Invalid token")
			c.Abort()
			return
		}
		c.Set(contextIdentity, id)
		c.Next()
	}
}

// OptionalAuth resolves the caller identity when credentials are present
// but lets anonymous requests through. Routes behind it must enforce
// their own access rules.
func OptionalAuth(resolver identity.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, err := resolver.Resolve(c.Request); err == nil {
			c.Set(contextIdentity, id)
		}
		c.Next()
	}
}

// RequireRole aborts with 403 unless the resolved identity carries at least
// one of the given roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := CurrentIdentity(c)
		if id == nil {
			HTTPHelper.SendUnauthorized(c, "Invalid token")
			c.Abort()
			return
		}
		for _, role := range roles {
			if id.HasRole(role) {
				c.Next()
				return
			}
		}
		HTTPHelper.SendForbidden(c, "Insufficient permissions")
		c.Abort()
	}
}

// CurrentIdentity returns the identity set by Auth, or nil on
// unauthenticated routes.
func CurrentIdentity(c *gin.Context) *identity.Identity {
	val, exists := c.Get(contextIdentity)
	if !exists {
		return nil
	}
	id, ok := val.(*identity.Identity)
	if !ok {
		return nil
	}
	return id
}
