package identity

import (
	"context"

	"github.com/GregMSThompson/fintrack/internal/errs"
	"github.com/GregMSThompson/fintrack/internal/models"
)

// RoleClaim is the custom token claim the auth middleware reads the role from.
const RoleClaim = "role"

type claimsSetter interface {
	SetCustomUserClaims(ctx context.Context, uid string, customClaims map[string]interface{}) error
}

type roleClaims struct {
	client claimsSetter
}

// NewRoleClaims takes a Firebase *auth.Client.
func NewRoleClaims(client claimsSetter) *roleClaims {
	return &roleClaims{client: client}
}

// SetRole replaces the user's custom claims. The new role reaches the user's
// requests once their ID token is refreshed.
func (c *roleClaims) SetRole(ctx context.Context, uid string, role models.Role) error {
	if err := c.client.SetCustomUserClaims(ctx, uid, map[string]interface{}{RoleClaim: string(role)}); err != nil {
		return errs.NewExternalServiceError("firebase_auth", false, err)
	}
	return nil
}
