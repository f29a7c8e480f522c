// Package policy holds the per-request authorization decisions.
//
// Owner scoping is enforced structurally by the repository queries
// (every read/write is keyed on owner_id); this package covers the role
// gate for the admin endpoints.
package policy

import (
	"context"
	"errors"

	"github.com/avelasco/taskapi/internal/middleware"
	"github.com/avelasco/taskapi/internal/models"
	"github.com/avelasco/taskapi/internal/repository"
)

// ErrNotAuthorized is the single merged kind for "no valid identity" and
// "wrong role". Both map to 401 at the boundary so the role check leaks
// nothing to the client.
var ErrNotAuthorized = errors.New("policy: not authorized")

// UserFinder resolves a stored user by id.
type UserFinder interface {
	FindByID(ctx context.Context, id int64) (models.User, error)
}

type Authorizer struct {
	users UserFinder
}

func NewAuthorizer(users UserFinder) *Authorizer {
	return &Authorizer{users: users}
}

// RequireAdmin checks that the caller's stored role is admin. Token
// claims carry only {sub, id, exp}, so the role comes from the user row
// on every call; requests are independent and nothing is cached.
func (a *Authorizer) RequireAdmin(ctx context.Context, ident middleware.Identity) error {
	u, err := a.users.FindByID(ctx, ident.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotAuthorized
		}
		return err
	}

	if !models.ParseRole(u.Role).IsAdmin() {
		return ErrNotAuthorized
	}

	return nil
}
