// internal/pkg/token/claims.go
package token

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by a staff portal token. The token identifies a portal
// session, not a user: staff authenticate per branch with a shared secret.
type Claims struct {
	RestaurantID int64 `json:"restaurant_id"`
	BranchID     int64 `json:"branch_id"`
	jwt.RegisteredClaims
}

// VerifyAudience checks if the expected audience is listed in the claims.
func (c *Claims) VerifyAudience(audience string) bool {
	for _, aud := range c.Audience {
		if aud == audience {
			return true
		}
	}
	return false
}
