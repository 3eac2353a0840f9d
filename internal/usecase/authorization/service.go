package authorization

import (
	"context"
	"errors"
	"strings"
	"time"

	domain "foodie/backend/internal/domain/authorization"
	"foodie/backend/internal/logging"

	"github.com/google/uuid"
)

// Service coordinates the authorization workflows: registration, login
// with token issuance, and per-request token verification. It holds no
// cross-request mutable state.
type Service struct {
	users   domain.UserRepository
	tokens  TokenManager
	hasher  PasswordHasher
	log     logging.Logger
	nowFunc func() time.Time
}

// NewService constructs an authorization service.
func NewService(users domain.UserRepository, tokens TokenManager, hasher PasswordHasher, log logging.Logger) *Service {
	return &Service{
		users:   users,
		tokens:  tokens,
		hasher:  hasher,
		log:     log,
		nowFunc: time.Now,
	}
}

// Register hashes the password, builds a new user with a fresh identity,
// and delegates persistence. The returned projection never carries the
// hash. Duplicate emails surface as ErrUserAlreadyExists; the storage
// adapter creates either one record or none.
func (s *Service) Register(ctx context.Context, name, email, password string) (*domain.FilteredUser, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		s.log.Error(ctx, "password hashing failed", "error", err)
		return nil, domain.ErrPasswordHash
	}

	now := s.nowFunc().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
		Role:         domain.RoleUser,
		Photo:        domain.DefaultPhoto,
		Verified:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return nil, domain.ErrUserAlreadyExists
		}
		s.log.Error(ctx, "user insert failed", "error", err)
		return nil, domain.ErrInternal
	}

	return user.Filtered(), nil
}

// Login verifies the credentials and issues a signed token. Unknown
// emails and wrong passwords collapse into ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, creds domain.Credentials) (string, error) {
	email := strings.TrimSpace(strings.ToLower(creds.Email))
	if email == "" || creds.Password == "" {
		return "", domain.ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		s.log.Error(ctx, "user lookup failed", "error", err)
		return "", domain.ErrInternal
	}

	ok, err := s.hasher.Compare(creds.Password, user.PasswordHash)
	if err != nil {
		// A stored hash that cannot be parsed is indistinguishable from
		// a mismatch as far as the caller is concerned.
		s.log.Warn(ctx, "password verification failed", "error", err)
		return "", domain.ErrInvalidCredentials
	}
	if !ok {
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		s.log.Error(ctx, "token signing failed", "error", err)
		return "", domain.ErrTokenEncoding
	}
	return token, nil
}

// VerifyToken validates a token's signature and expiry, then resolves
// the subject to a live user. The token is stateless: a user deleted
// after issuance is only detected here, per request.
func (s *Service) VerifyToken(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, domain.ErrTokenDecoding
	}

	if _, err := uuid.Parse(claims.Subject); err != nil {
		// Signed but structurally broken subject points at a claim-shape
		// bug, not at tampering.
		s.log.Error(ctx, "token subject is not a valid uuid", "sub", claims.Subject, "error", err)
		return nil, domain.ErrInternal
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		s.log.Error(ctx, "user lookup failed", "error", err)
		return nil, domain.ErrInternal
	}
	return user, nil
}
