package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/gosuda/actionfeed/internal/domain"
)

// Claims holds the JWT token payload. The permission list is a snapshot taken at
// sign-in time.
type Claims struct {
	jwt.RegisteredClaims
	CompanyID   string   `json:"cid"`
	UserID      string   `json:"uid"`
	Name        string   `json:"name,omitempty"`
	Permissions []string `json:"perms"`
	TokenType   string   `json:"typ"` // "access" or "refresh"
}

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
	issuer           = "actionfeed"
)

// ErrInvalidToken is returned when a JWT cannot be parsed or has expired.
var ErrInvalidToken = errors.New("auth: invalid or expired token") //nolint:gochecknoglobals // sentinel error

// IssueAccessToken creates a signed JWT access token for u.
func IssueAccessToken(secret string, u *domain.User, ttl time.Duration) (string, error) {
	return issueToken(secret, u, tokenTypeAccess, ttl)
}

// IssueRefreshToken creates a signed JWT refresh token for u.
func IssueRefreshToken(secret string, u *domain.User, ttl time.Duration) (string, error) {
	return issueToken(secret, u, tokenTypeRefresh, ttl)
}

func issueToken(secret string, u *domain.User, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	perms := make([]string, len(u.Permissions))
	for i, p := range u.Permissions {
		perms[i] = string(p)
	}

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    issuer,
			Subject:   u.ID.String(),
		},
		CompanyID:   u.CompanyID.String(),
		UserID:      u.ID.String(),
		Name:        u.Name,
		Permissions: perms,
		TokenType:   tokenType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("auth.issueToken: %w", err)
	}

	return signed, nil
}

// ValidateToken parses and validates a JWT token string. Returns the embedded claims.
func ValidateToken(secret, tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithIssuer(issuer))
	if err != nil {
		return nil, fmt.Errorf("auth.ValidateToken: %w", ErrInvalidToken)
	}

	if !token.Valid {
		return nil, fmt.Errorf("auth.ValidateToken: %w", ErrInvalidToken)
	}

	return claims, nil
}

// ValidateAccessToken validates tokenString and rejects refresh tokens.
func ValidateAccessToken(secret, tokenString string) (*Claims, error) {
	claims, err := ValidateToken(secret, tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenTypeAccess {
		return nil, fmt.Errorf("auth.ValidateAccessToken: %w", ErrInvalidToken)
	}
	return claims, nil
}

// CurrentUser converts the claims into the viewing user. A token always carries a
// loaded (possibly empty) permission set.
func (c *Claims) CurrentUser() (domain.CurrentUser, error) {
	companyID, err := uuid.Parse(c.CompanyID)
	if err != nil {
		return domain.CurrentUser{}, fmt.Errorf("auth.Claims.CurrentUser: company id: %w", ErrInvalidToken)
	}
	userID, err := uuid.Parse(c.UserID)
	if err != nil {
		return domain.CurrentUser{}, fmt.Errorf("auth.Claims.CurrentUser: user id: %w", ErrInvalidToken)
	}

	perms := make([]domain.Permission, len(c.Permissions))
	for i, p := range c.Permissions {
		perms[i] = domain.Permission(p)
	}

	return domain.CurrentUser{
		ID:          userID,
		CompanyID:   companyID,
		Name:        c.Name,
		Permissions: perms,
	}, nil
}

// ParseUnverified reads the claims of tokenString without checking its signature.
// Clients use it to learn who they are signed in as; servers must use
// ValidateAccessToken.
func ParseUnverified(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("auth.ParseUnverified: %w", ErrInvalidToken)
	}
	return claims, nil
}
