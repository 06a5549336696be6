package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmynk/divvy/internal/auth"
	"github.com/mmynk/divvy/internal/models"
	"github.com/mmynk/divvy/internal/storage"
)

// AuthService implements account registration, login and profile operations.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	store         storage.Store
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, store storage.Store, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		store:         store,
		logger:        logger,
	}
}

// Session is the result of a successful registration or login.
type Session struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Register creates a new user account and returns a signed session token.
func (s *AuthService) Register(ctx context.Context, email, username, password string) (*Session, error) {
	s.logger.Info("Register request", "email", email)

	user, err := s.authenticator.Register(ctx, email, username, password)
	if err != nil {
		s.logger.Warn("Registration failed", "email", email, "error", err)
		if errors.Is(err, auth.ErrEmailExists) || errors.Is(err, storage.ErrDuplicateEmail) {
			return nil, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		if errors.Is(err, auth.ErrWeakPassword) || errors.Is(err, auth.ErrInvalidEmail) || errors.Is(err, auth.ErrInvalidUsername) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	s.logger.Info("User registered", "user_id", user.ID, "email", user.Email)
	return &Session{User: user, Token: token}, nil
}

// Login authenticates a user and returns a signed session token.
// Failures are reported uniformly so callers cannot probe for accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	s.logger.Info("Login request", "email", email)

	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		s.logger.Warn("Login failed", "email", email)
		return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	s.logger.Info("User logged in", "user_id", user.ID)
	return &Session{User: user, Token: token}, nil
}

// Me returns the profile of the authenticated user.
func (s *AuthService) Me(ctx context.Context, userID int64) (*models.User, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: actor identity required", ErrUnauthorized)
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}

	return user, nil
}

// ChangeUsername updates the authenticated user's display name.
func (s *AuthService) ChangeUsername(ctx context.Context, userID int64, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if userID <= 0 {
		return nil, fmt.Errorf("%w: actor identity required", ErrUnauthorized)
	}

	if err := s.store.UpdateUsername(ctx, userID, username); err != nil {
		s.logger.Error("ChangeUsername failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	s.logger.Info("Username changed", "user_id", userID)
	return s.Me(ctx, userID)
}

// searchLimit caps member-search results; the invite UI only shows a handful.
const searchLimit = 5

// SearchUsers returns users whose email contains the fragment,
// case-insensitively, for the invite flow.
func (s *AuthService) SearchUsers(ctx context.Context, fragment string) ([]*models.Member, error) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return nil, fmt.Errorf("%w: email fragment is required", ErrInvalidInput)
	}

	users, err := s.store.SearchUsersByEmail(ctx, fragment, searchLimit)
	if err != nil {
		s.logger.Error("SearchUsers failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	results := make([]*models.Member, 0, len(users))
	for _, u := range users {
		results = append(results, &models.Member{ID: u.ID, Username: u.Username, Email: u.Email})
	}

	return results, nil
}
