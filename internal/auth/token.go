package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken covers parse and signature failures.
	ErrInvalidToken = errors.New("auth: invalid token")
	// ErrTokenExpired means the signature checked out but exp is in the past.
	ErrTokenExpired = errors.New("auth: token expired")
	// ErrMalformedClaims means sub or id is missing/empty.
	ErrMalformedClaims = errors.New("auth: malformed claims")
)

// Claims is the resolved identity carried by a verified token.
type Claims struct {
	Username string
	UserID   int64
}

type tokenClaims struct {
	UserID int64 `json:"id"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 bearer tokens. The secret and
// TTL are fixed at startup; verification is stateless so any process
// holding the same secret can validate any issued token.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token with claims {sub, id, exp} expiring after the
// configured TTL.
func (s *TokenService) Issue(username string, userID int64) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("auth: secret not configured")
	}

	now := time.Now()
	claims := tokenClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses and checks the token, returning the identity claims.
// Failures map to ErrTokenExpired, ErrMalformedClaims or ErrInvalidToken.
func (s *TokenService) Verify(raw string) (Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))

	var tc tokenClaims
	_, err := parser.ParseWithClaims(raw, &tc, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrInvalidToken
	}

	if tc.ExpiresAt == nil || time.Until(tc.ExpiresAt.Time) <= 0 {
		return Claims{}, ErrTokenExpired
	}

	if tc.Subject == "" || tc.UserID <= 0 {
		return Claims{}, ErrMalformedClaims
	}

	return Claims{Username: tc.Subject, UserID: tc.UserID}, nil
}
