package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"safaribook/internal/domain"
	"safaribook/internal/pkg/logger"
	"safaribook/internal/repository"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	if args.Error(0) == nil {
		u.ID = 1
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

type MockJWT struct {
	mock.Mock
}

func (m *MockJWT) GenerateToken(userID int64, isAdmin bool) (string, error) {
	args := m.Called(userID, isAdmin)
	return args.String(0), args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Welcome(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func newAuth() (*Service, *MockUserRepository, *MockJWT, *MockMailer) {
	users := new(MockUserRepository)
	jwt := new(MockJWT)
	mailer := new(MockMailer)
	return NewService(users, jwt, mailer, logger.Discard()), users, jwt, mailer
}

func TestSignup_Success(t *testing.T) {
	svc, users, jwt, mailer := newAuth()
	ctx := context.Background()

	users.On("ExistsByEmail", ctx, "asha@example.com").Return(false, nil)
	users.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "asha@example.com" && !u.IsAdmin &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret123")) == nil
	})).Return(nil)
	jwt.On("GenerateToken", int64(1), false).Return("token-1", nil)
	mailer.On("Welcome", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

	res, err := svc.Signup(ctx, SignupRequest{Name: "Asha", Email: " Asha@Example.com ", Password: "secret123"})

	require.NoError(t, err)
	assert.Equal(t, "token-1", res.Token)
	assert.Empty(t, res.User.PasswordHash)
	mailer.AssertExpectations(t)
}

func TestSignup_EmailTaken(t *testing.T) {
	svc, users, _, _ := newAuth()
	ctx := context.Background()

	users.On("ExistsByEmail", ctx, "asha@example.com").Return(true, nil)

	_, err := svc.Signup(ctx, SignupRequest{Name: "Asha", Email: "asha@example.com", Password: "secret123"})

	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSignup_WelcomeFailureIgnored(t *testing.T) {
	svc, users, jwt, mailer := newAuth()
	ctx := context.Background()

	users.On("ExistsByEmail", ctx, "asha@example.com").Return(false, nil)
	users.On("Create", ctx, mock.Anything).Return(nil)
	jwt.On("GenerateToken", int64(1), false).Return("token-1", nil)
	mailer.On("Welcome", ctx, mock.Anything).Return(assert.AnError)

	_, err := svc.Signup(ctx, SignupRequest{Name: "Asha", Email: "asha@example.com", Password: "secret123"})

	assert.NoError(t, err)
}

func TestLogin(t *testing.T) {
	svc, users, jwt, _ := newAuth()
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	users.On("GetByEmail", ctx, "admin@example.com").
		Return(&domain.User{ID: 9, Email: "admin@example.com", PasswordHash: string(hash), IsAdmin: true}, nil)
	users.On("GetByEmail", ctx, "nobody@example.com").Return(nil, repository.ErrNotFound)
	jwt.On("GenerateToken", int64(9), true).Return("admin-token", nil)

	res, err := svc.Login(ctx, LoginRequest{Email: "admin@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "admin-token", res.Token)
	assert.True(t, res.User.IsAdmin)

	_, err = svc.Login(ctx, LoginRequest{Email: "admin@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
