// internal/middleware/helpers.go
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// MustGetJTI gets the portal session JTI from context or panics; only
// valid behind Auth().
func MustGetJTI(c *gin.Context) string {
	jti, ok := c.Get("jti")
	if !ok {
		panic("jti not found in context")
	}
	return jti.(string)
}

// GetBranchID gets the token's branch binding from context.
func GetBranchID(c *gin.Context) (int64, bool) {
	v, ok := c.Get("branch_id")
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// GetTokenExpiry gets the token expiry from context, used when
// blacklisting on sign-out.
func GetTokenExpiry(c *gin.Context) time.Time {
	v, ok := c.Get("token_expiry")
	if !ok {
		return time.Time{}
	}
	t, _ := v.(time.Time)
	return t
}
