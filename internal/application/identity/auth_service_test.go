package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/retailops/backend/internal/domain/identity"
	"github.com/retailops/backend/internal/domain/shared"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

var _ identity.UserRepository = (*MockUserRepository)(nil)

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// MockTokenIssuer is a mock implementation of TokenIssuer
type MockTokenIssuer struct {
	mock.Mock
}

var _ TokenIssuer = (*MockTokenIssuer)(nil)

func (m *MockTokenIssuer) GeneratePair(userID uuid.UUID, email string) (*TokenPair, error) {
	args := m.Called(userID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TokenPair), args.Error(1)
}

func (m *MockTokenIssuer) Refresh(refreshToken string) (*TokenPair, error) {
	args := m.Called(refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TokenPair), args.Error(1)
}

func testUser(t *testing.T, password string) *identity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	user, err := identity.NewUser("Ada Lovelace", "ada@example.com", string(hash))
	assert.NoError(t, err)
	return user
}

func TestAuthService_Login(t *testing.T) {
	repo := new(MockUserRepository)
	tokens := new(MockTokenIssuer)
	service := NewAuthService(repo, tokens, zap.NewNop())
	ctx := context.Background()

	user := testUser(t, "correct horse")
	repo.On("FindByEmail", ctx, "ada@example.com").Return(user, nil)
	tokens.On("GeneratePair", user.ID, user.Email).Return(&TokenPair{
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresIn:    900,
	}, nil)

	resp, err := service.Login(ctx, LoginRequest{Email: "Ada@Example.com", Password: "correct horse"})

	assert.NoError(t, err)
	assert.Equal(t, "access", resp.AccessToken)
	assert.Equal(t, "refresh", resp.RefreshToken)
	assert.Equal(t, user.ID, resp.User.ID)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := new(MockUserRepository)
	tokens := new(MockTokenIssuer)
	service := NewAuthService(repo, tokens, zap.NewNop())
	ctx := context.Background()

	user := testUser(t, "correct horse")
	repo.On("FindByEmail", ctx, "ada@example.com").Return(user, nil)

	_, err := service.Login(ctx, LoginRequest{Email: "ada@example.com", Password: "wrong"})

	assert.ErrorIs(t, err, shared.ErrUnauthorized)
	tokens.AssertNotCalled(t, "GeneratePair", mock.Anything, mock.Anything)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	repo := new(MockUserRepository)
	tokens := new(MockTokenIssuer)
	service := NewAuthService(repo, tokens, zap.NewNop())
	ctx := context.Background()

	repo.On("FindByEmail", ctx, "ghost@example.com").Return(nil, shared.ErrNotFound)

	_, err := service.Login(ctx, LoginRequest{Email: "ghost@example.com", Password: "anything"})

	// indistinguishable from a wrong password
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestAuthService_Register(t *testing.T) {
	repo := new(MockUserRepository)
	tokens := new(MockTokenIssuer)
	service := NewAuthService(repo, tokens, zap.NewNop())
	ctx := context.Background()

	repo.On("ExistsByEmail", ctx, "ada@example.com").Return(false, nil)
	repo.On("Save", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

	resp, err := service.Register(ctx, RegisterRequest{
		Name:     "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "correct horse battery",
	})

	assert.NoError(t, err)
	assert.Equal(t, "ada@example.com", resp.Email)
	repo.AssertExpectations(t)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := new(MockUserRepository)
	tokens := new(MockTokenIssuer)
	service := NewAuthService(repo, tokens, zap.NewNop())
	ctx := context.Background()

	repo.On("ExistsByEmail", ctx, "ada@example.com").Return(true, nil)

	_, err := service.Register(ctx, RegisterRequest{
		Name:     "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "correct horse battery",
	})

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
}

func TestAuthService_Me(t *testing.T) {
	repo := new(MockUserRepository)
	tokens := new(MockTokenIssuer)
	service := NewAuthService(repo, tokens, zap.NewNop())
	ctx := context.Background()

	user := testUser(t, "correct horse")
	repo.On("FindByID", ctx, user.ID).Return(user, nil)

	resp, err := service.Me(ctx, user.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", resp.Name)
}
