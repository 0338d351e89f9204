package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/huracan-ai/huracan/internal/domain"
	"github.com/huracan-ai/huracan/internal/security"
	"github.com/rs/zerolog/log"
)

// AuthService handles registration, login, and the session lifecycle. It is
// the sole gate for all authenticated operations.
type AuthService struct {
	userRepo    domain.UserRepository
	sessionRepo domain.SessionRepository
	sessionTTL  time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo domain.UserRepository, sessionRepo domain.SessionRepository, sessionTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		sessionTTL:  sessionTTL,
	}
}

// Signup creates a new user account and opens a session for it
func (s *AuthService) Signup(ctx context.Context, input domain.UserSignup) (*domain.User, string, error) {
	exists, err := s.userRepo.EmailExists(ctx, input.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, "", fmt.Errorf("email %q: %w", input.Email, domain.ErrConflict)
	}

	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		ID:           uuid.New(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.CreateSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Login authenticates credentials and opens a new session
func (s *AuthService) Login(ctx context.Context, input domain.UserLogin) (*domain.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || !security.CheckPassword(input.Password, user.PasswordHash) {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.CreateSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// CreateSession generates an unguessable opaque token and persists it with
// an absolute expiry of now + TTL
func (s *AuthService) CreateSession(ctx context.Context, userID uuid.UUID) (string, error) {
	now := time.Now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	return session.ID, nil
}

// ValidateSession resolves a cookie token to its owning user. An expired
// session is purged as a side effect and treated as absent. Returns nil
// when the request is unauthenticated.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, nil
	}

	session, err := s.sessionRepo.Get(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	if session == nil {
		return nil, nil
	}

	if session.Expired(time.Now()) {
		// Lazy purge; a failure here must not block the 401
		if err := s.sessionRepo.Delete(ctx, token); err != nil {
			log.Error().Err(err).Msg("failed to purge expired session")
		}
		return nil, nil
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session user: %w", err)
	}
	return user, nil
}

// DestroySession deletes the session record backing a token. Idempotent:
// destroying an absent session is not an error, and store failures are
// swallowed so logout always succeeds from the caller's perspective.
func (s *AuthService) DestroySession(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if err := s.sessionRepo.Delete(ctx, token); err != nil {
		log.Error().Err(err).Msg("failed to delete session on logout")
	}
}

// SessionTTL returns the configured session lifetime
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}
