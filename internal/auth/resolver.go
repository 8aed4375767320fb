package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"gorm.io/gorm"
)

// Principal is the authenticated identity attached to a request. Its fields
// are unexported so that one can only be obtained from Resolver.Resolve.
type Principal struct {
	userID   uint64
	username string
	email    string
}

func (p Principal) UserID() uint64   { return p.userID }
func (p Principal) Username() string { return p.username }
func (p Principal) Email() string    { return p.email }

// IsZero reports whether p was not produced by a resolver.
func (p Principal) IsZero() bool { return p.userID == 0 }

// SubjectLookup loads the user a token refers to.
type SubjectLookup interface {
	FindByID(ctx context.Context, id uint64) (*models.User, error)
}

// Resolver turns an Authorization header into a Principal. It keeps no
// state between calls; every request is verified from scratch.
type Resolver struct {
	tokens *TokenService
	users  SubjectLookup
}

// NewResolver creates a Resolver.
func NewResolver(tokens *TokenService, users SubjectLookup) *Resolver {
	return &Resolver{
		tokens: tokens,
		users:  users,
	}
}

// Resolve extracts and verifies the bearer token and re-loads its subject.
func (r *Resolver) Resolve(ctx context.Context, authorizationHeader string) (Principal, error) {
	token, err := ExtractBearerToken(authorizationHeader)
	if err != nil {
		return Principal{}, err
	}

	claims, err := r.tokens.Verify(token)
	if err != nil {
		return Principal{}, err
	}

	userID, err := claims.UserID()
	if err != nil {
		return Principal{}, ErrTokenInvalid
	}

	user, err := r.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Principal{}, ErrUnknownSubject
		}
		return Principal{}, fmt.Errorf("failed to resolve token subject: %w", err)
	}

	return Principal{
		userID:   user.ID,
		username: user.Username,
		email:    user.Email,
	}, nil
}

// ExtractBearerToken returns the token of a "Bearer <token>" header value.
// The scheme is matched case-insensitively.
func ExtractBearerToken(header string) (string, error) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, constants.BearerScheme) {
		return "", ErrMissingToken
	}

	token = strings.TrimSpace(token)
	if token == "" || strings.Contains(token, " ") {
		return "", ErrMissingToken
	}
	return token, nil
}
