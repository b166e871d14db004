package auth

import (
	"context"

	"safaribook/internal/domain"
)

// UserRepository is the subset of the user store auth needs.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type TokenIssuer interface {
	GenerateToken(userID int64, isAdmin bool) (string, error)
}

type WelcomeMailer interface {
	Welcome(ctx context.Context, u *domain.User) error
}
