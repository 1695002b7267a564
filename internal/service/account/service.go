package account

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/iamasit07/5-in-a-row/backend/internal/domain"
	"github.com/iamasit07/5-in-a-row/backend/pkg/auth"
	"go.uber.org/zap"
)

const minPasswordLength = 6

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)

type UserStore interface {
	CreateUser(ctx context.Context, username, passwordHash string) (*domain.UserStats, error)
	FindAccount(ctx context.Context, username string) (*domain.Account, error)
}

// Blocklist remembers revoked token ids until they would have expired anyway.
type Blocklist interface {
	Block(ctx context.Context, tokenID string, ttl time.Duration) error
	IsBlocked(ctx context.Context, tokenID string) (bool, error)
}

type Options struct {
	Secret     string
	TokenTTL   time.Duration
	BcryptCost int
	Now        func() time.Time
}

// Session is what a successful register or login hands back to the client.
type Session struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expiresAt"`
	User      domain.UserStats `json:"user"`
}

type Service struct {
	users     UserStore
	blocklist Blocklist
	log       *zap.Logger
	secret    string
	ttl       time.Duration
	cost      int
	now       func() time.Time
}

func NewService(users UserStore, blocklist Blocklist, log *zap.Logger, opts Options) *Service {
	s := &Service{
		users:     users,
		blocklist: blocklist,
		log:       log,
		secret:    opts.Secret,
		ttl:       opts.TokenTTL,
		cost:      opts.BcryptCost,
		now:       opts.Now,
	}
	if s.ttl <= 0 {
		s.ttl = 72 * time.Hour
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func ValidateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return domain.ErrInvalidUsername
	}
	return nil
}

func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return domain.ErrInvalidPassword
	}
	return nil
}

func storageErr(err error) error {
	if domain.KindOf(err) != domain.KindUnknown {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrStorage, err)
}

// Register creates an account with default stats and signs the user in.
func (s *Service) Register(ctx context.Context, username, password string) (*Session, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	stats, err := s.users.CreateUser(ctx, username, hash)
	if err != nil {
		return nil, storageErr(err)
	}

	s.log.Info("account registered", zap.String("user", username))
	return s.issue(*stats)
}

func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	acc, err := s.users.FindAccount(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrBadCredentials
	}
	if err != nil {
		return nil, storageErr(err)
	}

	if !auth.CheckPasswordHash(password, acc.PasswordHash) {
		return nil, domain.ErrBadCredentials
	}
	if acc.Banned {
		return nil, domain.ErrBanned
	}
	return s.issue(acc.UserStats)
}

func (s *Service) issue(user domain.UserStats) (*Session, error) {
	token, claims, err := auth.GenerateToken(s.secret, s.ttl, user.Username, s.now())
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Session{Token: token, ExpiresAt: claims.ExpiresAt.Time, User: user}, nil
}

// Authenticate resolves a token to its username. Revoked tokens and banned
// accounts are refused.
func (s *Service) Authenticate(ctx context.Context, token string) (string, error) {
	claims, err := s.validate(ctx, token)
	if err != nil {
		return "", err
	}

	acc, err := s.users.FindAccount(ctx, claims.Username)
	if errors.Is(err, domain.ErrUserNotFound) {
		return "", domain.ErrUnauthorized
	}
	if err != nil {
		return "", storageErr(err)
	}
	if acc.Banned {
		return "", domain.ErrBanned
	}
	return claims.Username, nil
}

func (s *Service) validate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := auth.ValidateToken(s.secret, token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	if s.blocklist == nil {
		return claims, nil
	}

	blocked, err := s.blocklist.IsBlocked(ctx, claims.ID)
	if err != nil {
		// fail open
		s.log.Warn("blocklist lookup failed", zap.Error(err))
		return claims, nil
	}
	if blocked {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

// Logout revokes token for the rest of its lifetime and returns its owner.
func (s *Service) Logout(ctx context.Context, token string) (string, error) {
	claims, err := s.validate(ctx, token)
	if err != nil {
		return "", err
	}
	if s.blocklist == nil {
		return claims.Username, nil
	}

	ttl := claims.ExpiresAt.Time.Sub(s.now())
	if ttl <= 0 {
		return claims.Username, nil
	}
	if err := s.blocklist.Block(ctx, claims.ID, ttl); err != nil {
		return "", storageErr(err)
	}
	return claims.Username, nil
}
