// Package guard turns a raw access token into a verified identity and
// checks that identity against a required role.
package guard

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/Skotchmaster/projects_api/internal/logging"
	"github.com/Skotchmaster/projects_api/internal/models"
	"github.com/Skotchmaster/projects_api/internal/tokens"
)

var (
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrIdentityNotFound = errors.New("identity not found")
	ErrForbidden        = errors.New("forbidden")
)

type UserStore interface {
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
}

type Guard struct {
	Tokens *tokens.Service
	Users  UserStore
}

func New(ts *tokens.Service, users UserStore) *Guard {
	return &Guard{Tokens: ts, Users: users}
}

// Resolve loads the identity named by a token subject. Subjects that cannot
// name a stored user are reported as ErrIdentityNotFound.
func (g *Guard) Resolve(ctx context.Context, subject string) (*models.User, error) {
	id, err := strconv.ParseUint(subject, 10, 0)
	if err != nil || id == 0 {
		return nil, fmt.Errorf("%w: subject %q", ErrIdentityNotFound, subject)
	}

	user, err := g.Users.GetUserByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: subject %q", ErrIdentityNotFound, subject)
		}
		return nil, fmt.Errorf("resolve identity: %w", err)
	}
	return user, nil
}

func (g *Guard) Authenticate(ctx context.Context, raw string) (*models.User, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: missing token", ErrUnauthenticated)
	}

	claims, err := g.Tokens.Inspect(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	user, err := g.Resolve(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}

	if user.Role != claims.Role {
		logging.FromContext(ctx).Debug("token_role_mismatch",
			"user_id", user.ID,
			"token_role", claims.Role.String(),
			"stored_role", user.Role.String(),
		)
	}
	return user, nil
}

// Authorize uses the stored role of an already authenticated user.
func (g *Guard) Authorize(user *models.User, required models.Role) (*models.User, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}
	if !user.Role.Satisfies(required) {
		return nil, fmt.Errorf("%w: role %s, required %s", ErrForbidden, user.Role, required)
	}
	return user, nil
}
