// Package users implements registration, listing and login over the
// in-process record store.
package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/crucial707/userapi/internal/auth"
	"github.com/crucial707/userapi/internal/metrics"
	"github.com/crucial707/userapi/internal/models"
	"github.com/crucial707/userapi/internal/repo"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost matches the 10 rounds used for stored digests.
const DefaultBcryptCost = 10

type Service struct {
	repo   *repo.UserRepo
	tokens *auth.TokenIssuer
	cost   int
	logger *slog.Logger
	now    func() time.Time

	dummyOnce sync.Once
	dummyHash []byte
}

// NewService wires the store and token issuer into a Service. A cost
// outside bcrypt's accepted range falls back to DefaultBcryptCost.
func NewService(r *repo.UserRepo, tokens *auth.TokenIssuer, cost int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		logger.Warn("bcrypt cost out of range, using default", "cost", cost, "default", DefaultBcryptCost)
		cost = DefaultBcryptCost
	}
	return &Service{
		repo:   r,
		tokens: tokens,
		cost:   cost,
		logger: logger,
		now:    time.Now,
	}
}

// List returns every stored user with the password hash stripped.
func (s *Service) List(ctx context.Context) []models.PublicUser {
	stored := s.repo.List(ctx)
	out := make([]models.PublicUser, 0, len(stored))
	for _, u := range stored {
		out = append(out, u.Public())
	}
	return out
}

// Get returns a single user by id.
func (s *Service) Get(ctx context.Context, id string) (models.PublicUser, error) {
	u, ok := s.repo.GetByID(ctx, id)
	if !ok {
		return models.PublicUser{}, ErrUserNotFound
	}
	return u.Public(), nil
}

// Create validates in, stores a new user with a hashed password and
// returns its public view. Emails are not checked for uniqueness.
func (s *Service) Create(ctx context.Context, in CreateInput) (models.PublicUser, error) {
	if err := in.Validate(); err != nil {
		return models.PublicUser{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return models.PublicUser{}, &ValidationError{
			Field:   "password",
			Message: `"password" must be at most 72 bytes long`,
		}
	}
	if err != nil {
		return models.PublicUser{}, fmt.Errorf("hash password: %w", err)
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return models.PublicUser{}, fmt.Errorf("generate user id: %w", err)
	}

	user := models.User{
		ID:           id.String(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		CreatedAt:    s.now().Format(models.CreatedAtLayout),
	}
	s.repo.Append(ctx, user)
	metrics.IncUsersCreated()

	s.logger.InfoContext(ctx, "user created", "id", user.ID)

	return user.Public(), nil
}

// Authenticate checks email and password against the first user with that
// exact email and returns a signed session token.
func (s *Service) Authenticate(ctx context.Context, email, password string) (string, error) {
	user, ok := s.repo.FindByEmail(ctx, email)
	if !ok {
		// Unknown emails take as long as wrong passwords.
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		metrics.IncLogins("failure")
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		metrics.IncLogins("failure")
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	metrics.IncLogins("success")
	return token, nil
}

func (s *Service) dummy() []byte {
	s.dummyOnce.Do(func() {
		h, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.cost)
		if err != nil {
			s.logger.Error("generate dummy hash", "error", err)
			return
		}
		s.dummyHash = h
	})
	return s.dummyHash
}
