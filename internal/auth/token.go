package auth

import (
	"strings"
	"time"

	"blog-platform/internal/authz"
	"blog-platform/internal/db"
	"blog-platform/internal/types"
	"blog-platform/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const bearerScheme = "Bearer"

// Claims is the identity snapshot carried by a token. It is fixed at
// issuance: later changes to the stored user are not reflected until a new
// token is issued.
type Claims struct {
	UserID  string `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

func (c *Claims) Actor() *authz.Actor {
	return &authz.Actor{ID: c.UserID, Email: c.Email, IsAdmin: c.IsAdmin}
}

type TokenService struct {
	signKey []byte
	ttl     time.Duration
	clock   utils.Clock
}

// NewTokenService signs with HS256 and signKey. A ttl of zero issues
// tokens without an expiry.
func NewTokenService(signKey []byte, ttl time.Duration, clock utils.Clock) *TokenService {
	return &TokenService{signKey: signKey, ttl: ttl, clock: clock}
}

func (s *TokenService) Issue(user *db.User) (string, error) {
	now := s.clock.NowUtc()
	claims := Claims{
		UserID:  user.ID,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  user.ID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.signKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token failed")
	}
	return signed, nil
}

// Verify accepts a raw token or an Authorization header value with the
// Bearer scheme.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	raw := strings.TrimSpace(tokenString)
	if scheme, rest, _ := strings.Cut(raw, " "); strings.EqualFold(scheme, bearerScheme) {
		raw = strings.TrimSpace(rest)
	}
	if raw == "" {
		return nil, types.ErrMissingToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.NowUtc),
	}
	if s.ttl > 0 {
		opts = append(opts, jwt.WithExpirationRequired())
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return s.signKey, nil
	}, opts...)
	if err != nil {
		return nil, errors.Wrap(types.ErrInvalidToken, err.Error())
	}
	if claims.UserID == "" {
		return nil, errors.Wrap(types.ErrInvalidToken, "token has no id claim")
	}
	return claims, nil
}
