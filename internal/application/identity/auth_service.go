package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/retailops/backend/internal/domain/identity"
	"github.com/retailops/backend/internal/domain/shared"
)

// TokenPair holds an issued access/refresh token pair
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// TokenIssuer signs token pairs for authenticated users
type TokenIssuer interface {
	GeneratePair(userID uuid.UUID, email string) (*TokenPair, error)
	Refresh(refreshToken string) (*TokenPair, error)
}

// AuthService handles login, registration and token refresh
type AuthService struct {
	repo   identity.UserRepository
	tokens TokenIssuer
	logger *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(repo identity.UserRepository, tokens TokenIssuer, logger *zap.Logger) *AuthService {
	return &AuthService{
		repo:   repo,
		tokens: tokens,
		logger: logger,
	}
}

// Login authenticates a user by email and password and issues tokens.
// Wrong email and wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("login rejected", zap.String("email", email))
		return nil, shared.ErrUnauthorized
	}

	pair, err := s.tokens.GeneratePair(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID.String()))

	return &LoginResponse{
		User:         ToUserResponse(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}

// Register creates a new user account
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A user with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := identity.NewUser(req.Name, email, string(hash))
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID.String()))

	response := ToUserResponse(user)
	return &response, nil
}

// Refresh rotates a refresh token into a new token pair
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*TokenPair, error) {
	pair, err := s.tokens.Refresh(req.RefreshToken)
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Me returns the profile of the authenticated user
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}
