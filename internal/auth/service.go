package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/atlas-admin/atlas-admin/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo       Repository
	tokens     *TokenManager
	bcryptCost int
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *TokenManager, bcryptCost int) *Service {
	if bcryptCost < bcrypt.DefaultCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{repo: repo, tokens: tokens, bcryptCost: bcryptCost}
}

// Login validates credentials and issues a token. Unknown accounts,
// disabled accounts and bad passwords all collapse to the same error so
// callers cannot probe which usernames exist.
func (s *Service) Login(ctx context.Context, login, password string) (*User, string, time.Time, error) {
	user, err := s.repo.FindByLogin(ctx, login)
	if err != nil {
		return nil, "", time.Time{}, shared.ErrInvalidCredentials
	}
	if !user.Enabled() {
		return nil, "", time.Time{}, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", time.Time{}, shared.ErrInvalidCredentials
	}
	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, expiresAt, nil
}

// TrackLogin records login time and origin. Failures here must not fail
// the login; callers log and continue.
func (s *Service) TrackLogin(ctx context.Context, userID int64, ip string) error {
	return s.repo.TrackLogin(ctx, userID, time.Now(), ip)
}

// Register provisions a self-service account.
func (s *Service) Register(ctx context.Context, username, email, password, nickname string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return s.repo.CreateAccount(ctx, User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Nickname:     nickname,
	})
}

// ChangePassword verifies the old credential before storing a new hash.
// Previously issued tokens remain valid until they expire.
func (s *Service) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrUnauthenticated
		}
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return fmt.Errorf("%w: old password does not match", shared.ErrInvalidArgument)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.repo.UpdatePassword(ctx, userID, string(hash))
}

// Identify resolves a verified token to a live, enabled account.
func (s *Service) Identify(ctx context.Context, claims *Claims) (*User, error) {
	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown user", shared.ErrUnauthenticated)
		}
		return nil, err
	}
	if !user.Enabled() {
		return nil, fmt.Errorf("%w: account disabled", shared.ErrUnauthenticated)
	}
	return user, nil
}
