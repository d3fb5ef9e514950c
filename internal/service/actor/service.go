package actor

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"foodtruck-ordering/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)

type claims struct {
	Role string `json:"role"`
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Service verifies bearer tokens and maps them to actors. Tokens are
// HS256 JWTs carrying sub and role claims.
type Service struct {
	secret []byte
	now    func() time.Time
}

func New(secret string) *Service {
	return &Service{secret: []byte(secret), now: time.Now}
}

// Enabled reports whether a signing secret is configured. Without one
// every caller is anonymous.
func (s *Service) Enabled() bool {
	return len(s.secret) > 0
}

// Resolve maps an Authorization header value to an actor. An empty header
// yields the anonymous actor.
func (s *Service) Resolve(header string) (domain.Actor, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return domain.Anonymous, nil
	}
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return domain.Actor{}, ErrInvalidToken
	}
	if !s.Enabled() {
		return domain.Actor{}, ErrInvalidToken
	}

	var c claims
	_, err := jwt.ParseWithClaims(strings.TrimSpace(raw), &c, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	role := domain.ParseRole(c.Role)
	if role == domain.RoleAnonymous || c.Subject == "" {
		return domain.Actor{}, ErrInvalidToken
	}
	return domain.Actor{ID: c.Subject, Name: c.Name, Role: role}, nil
}

// Issue signs a token for a; used by operator tooling and tests.
func (s *Service) Issue(a domain.Actor, ttl time.Duration) (string, error) {
	if !s.Enabled() {
		return "", errors.New("jwt secret not configured")
	}
	if a.ID == "" || a.Role == domain.RoleAnonymous {
		return "", errors.New("actor id and role required")
	}
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: string(a.Role),
		Name: a.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   a.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return token.SignedString(s.secret)
}
