package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/argon2"

	"github.com/gosuda/actionfeed/internal/domain"
)

// Sentinel errors for the auth package.
var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials") //nolint:gochecknoglobals // sentinel error
	ErrUserNotFound       = errors.New("auth: user not found")       //nolint:gochecknoglobals // sentinel error
)

// argon2id parameters following OWASP recommendations.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024 // 64 MiB
	argonThreads = 4
	argonKeyLen  = 32
	argonSaltLen = 16
)

// Tokens is the result of a successful sign-in.
type Tokens struct {
	AccessToken  string
	RefreshToken string
	User         *domain.User
}

// Service signs users in and out and records the session events in the activity log.
type Service struct {
	companies  domain.CompanyRepository
	users      domain.UserRepository
	logs       domain.LogRepository
	jwtSecret  string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewService creates a new auth service.
func NewService(companies domain.CompanyRepository, users domain.UserRepository, logs domain.LogRepository,
	jwtSecret string, accessTTL, refreshTTL time.Duration,
) *Service {
	return &Service{
		companies:  companies,
		users:      users,
		logs:       logs,
		jwtSecret:  jwtSecret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// Login validates email/password and returns access + refresh JWT tokens. Only
// ACTIVE members can sign in.
func (s *Service) Login(ctx context.Context, companyID uuid.UUID, email, password string) (*Tokens, error) {
	user, err := s.users.GetByEmail(ctx, companyID, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, fmt.Errorf("auth.Login: %w", ErrInvalidCredentials)
	}

	if user.Status != domain.ItemStatusActive || !verifyPassword(password, user.PasswordHash) {
		return nil, fmt.Errorf("auth.Login: %w", ErrInvalidCredentials)
	}

	access, err := IssueAccessToken(s.jwtSecret, user, s.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("auth.Login: %w", err)
	}

	refresh, err := IssueRefreshToken(s.jwtSecret, user, s.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("auth.Login: %w", err)
	}

	s.record(ctx, user.CompanyID, user.ID, user.Ref(), domain.LogActionSignIn)

	return &Tokens{AccessToken: access, RefreshToken: refresh, User: user}, nil
}

// Logout records the end of the viewer's session. Tokens are stateless and simply
// expire.
func (s *Service) Logout(ctx context.Context, viewer domain.CurrentUser) error {
	user, err := s.users.GetByID(ctx, viewer.CompanyID, viewer.ID)
	if err != nil {
		return fmt.Errorf("auth.Logout: %w", ErrUserNotFound)
	}

	s.record(ctx, user.CompanyID, user.ID, user.Ref(), domain.LogActionSignOut)
	return nil
}

// RefreshToken validates a refresh token and issues a new access token carrying the
// user's current permissions.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := ValidateToken(s.jwtSecret, refreshToken)
	if err != nil {
		return "", fmt.Errorf("auth.RefreshToken: %w", err)
	}

	if claims.TokenType != tokenTypeRefresh {
		return "", fmt.Errorf("auth.RefreshToken: %w", ErrInvalidToken)
	}

	viewer, err := claims.CurrentUser()
	if err != nil {
		return "", fmt.Errorf("auth.RefreshToken: %w", err)
	}

	user, err := s.users.GetByID(ctx, viewer.CompanyID, viewer.ID)
	if err != nil || user.Status != domain.ItemStatusActive {
		return "", fmt.Errorf("auth.RefreshToken: %w", ErrUserNotFound)
	}

	newAccess, err := IssueAccessToken(s.jwtSecret, user, s.accessTTL)
	if err != nil {
		return "", fmt.Errorf("auth.RefreshToken: %w", err)
	}

	return newAccess, nil
}

// EnsureAdmin creates the company and an ACTIVE member holding every permission
// unless a member with that email already exists.
func (s *Service) EnsureAdmin(ctx context.Context, company *domain.Company, email, password, name string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := s.companies.GetByID(ctx, company.ID); errors.Is(err, domain.ErrNotFound) {
		if err := s.companies.Create(ctx, company); err != nil {
			return nil, fmt.Errorf("auth.EnsureAdmin: create company: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("auth.EnsureAdmin: %w", err)
	}

	if existing, err := s.users.GetByEmail(ctx, company.ID, email); err == nil {
		return existing, nil
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("auth.EnsureAdmin: %w", err)
	}

	now := s.now()
	user := &domain.User{
		ID:           uuid.New(),
		CompanyID:    company.ID,
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Status:       domain.ItemStatusActive,
		Permissions:  domain.AllPermissions(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("auth.EnsureAdmin: %w", err)
	}

	return user, nil
}

// record writes a session log entry. A failed write is logged and never blocks
// the sign-in itself.
func (s *Service) record(ctx context.Context, companyID, userID uuid.UUID, who *domain.Ref, action domain.LogAction) {
	rec := &domain.LogRecord{
		ID:         uuid.New(),
		CompanyID:  companyID,
		UserID:     userID,
		EntityType: domain.EntityTypeAuth,
		Action:     action,
		Info:       domain.LogInfo{Author: who, User: who},
		CreatedAt:  s.now().Unix(),
	}
	if err := s.logs.Record(ctx, rec); err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Str("action", string(action)).
			Msg("auth: failed to record session log")
	}
}

// HashPassword generates an argon2id hash with a random salt.
// Format: hex(salt) + "$" + hex(hash)
func HashPassword(password string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("auth.HashPassword: generating salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return hex.EncodeToString(salt) + "$" + hex.EncodeToString(hash), nil
}

// verifyPassword checks a password against an argon2id hash.
func verifyPassword(password, encoded string) bool {
	saltHex, hashHex, ok := strings.Cut(encoded, "$")
	if !ok || saltHex == "" || hashHex == "" {
		return false
	}

	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}

	expectedHash, err := hex.DecodeString(hashHex)
	if err != nil {
		return false
	}

	computed := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return subtle.ConstantTimeCompare(computed, expectedHash) == 1
}
