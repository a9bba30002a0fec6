// Package session issues and validates the anonymous bearer tokens that stand
// in for the browser-local identity of the original app. A token carries only
// a random subject ID; there are no accounts or credentials.
package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	id "wellbuddie/pkg/domain"
	dErrors "wellbuddie/pkg/domain-errors"
	sessionmw "wellbuddie/pkg/platform/middleware/session"
)

const (
	Issuer   = "wellbuddie"
	Audience = "wellbuddie-api"
)

// Claims are the JWT claims of a session token.
type Claims struct {
	SubjectID string `json:"sub_id"`
	jwt.RegisteredClaims
}

// Token is an issued session.
type Token struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	SubjectID   id.SubjectID `json:"subject_id"`
}

// TokenService signs and validates HS256 session tokens.
type TokenService struct {
	signingKey []byte
	ttl        time.Duration
	now        func() time.Time
}

// Option configures a TokenService.
type Option func(*TokenService)

func WithClock(now func() time.Time) Option {
	return func(s *TokenService) {
		if now != nil {
			s.now = now
		}
	}
}

func NewTokenService(signingKey string, ttl time.Duration, opts ...Option) *TokenService {
	s := &TokenService{
		signingKey: []byte(signingKey),
		ttl:        ttl,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue mints a token for a fresh random subject.
func (s *TokenService) Issue() (*Token, error) {
	return s.IssueFor(id.NewSubjectID())
}

// IssueFor mints a token for an existing subject.
func (s *TokenService) IssueFor(subjectID id.SubjectID) (*Token, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		SubjectID: subjectID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    Issuer,
			Audience:  []string{Audience},
			ID:        uuid.NewString(),
		},
	})
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "sign session token")
	}
	return &Token{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		SubjectID:   subjectID,
	}, nil
}

// ValidateToken checks signature, expiry, issuer and audience.
func (s *TokenService) ValidateToken(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	},
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(Audience),
		jwt.WithTimeFunc(s.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	return claims, nil
}

// MiddlewareValidator adapts TokenService to the session middleware.
type MiddlewareValidator struct {
	service *TokenService
}

func NewMiddlewareValidator(service *TokenService) *MiddlewareValidator {
	return &MiddlewareValidator{service: service}
}

func (a *MiddlewareValidator) ValidateToken(tokenString string) (*sessionmw.Claims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &sessionmw.Claims{SubjectID: claims.SubjectID, TokenID: claims.ID}, nil
}
