// Package identity turns an Authorization header into a domain.Identity.
package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"safaribook/internal/domain"
	"safaribook/internal/pkg/jwt"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid bearer token")
)

type TokenVerifier interface {
	ValidateToken(tokenStr string) (*jwt.Claims, error)
}

type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type Resolver struct {
	tokens TokenVerifier
	users  UserLookup
	log    logrus.FieldLogger
}

func NewResolver(tokens TokenVerifier, users UserLookup, log logrus.FieldLogger) *Resolver {
	return &Resolver{tokens: tokens, users: users, log: log}
}

// Authenticate is the strict variant: the header must carry a valid token.
func (r *Resolver) Authenticate(header string) (domain.Member, error) {
	token, ok := BearerToken(header)
	if !ok {
		return domain.Member{}, ErrMissingToken
	}
	claims, err := r.tokens.ValidateToken(token)
	if err != nil {
		return domain.Member{}, ErrInvalidToken
	}
	return domain.Member{ID: claims.UserID, IsAdmin: claims.IsAdmin}, nil
}

// Resolve is the tolerant variant: anything short of a valid token is a
// Guest. A valid token yields a Member carrying the stored email and name.
func (r *Resolver) Resolve(ctx context.Context, header string) domain.Identity {
	member, err := r.Authenticate(header)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			r.log.Debug("invalid token, continuing as guest")
		}
		return domain.Guest{}
	}

	user, err := r.users.GetByID(ctx, member.ID)
	if err != nil {
		r.log.WithError(err).WithField("user_id", member.ID).Warn("identity: profile lookup failed")
		return member
	}
	member.Email = user.Email
	member.Name = user.Name
	return member
}

// BearerToken extracts the token from "Bearer <token>".
func BearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return "", false
	}
	token := strings.TrimSpace(header[7:])
	return token, token != ""
}
