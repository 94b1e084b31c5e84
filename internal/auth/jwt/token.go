package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Roles carried in tokens.
const (
	RoleAdmin       = "admin"
	RoleParticipant = "participant"
)

// Claims for JWT tokens.
type Claims struct {
	ParticipantID uuid.UUID `json:"participant_id"`
	DisplayName   string    `json:"display_name"`
	Role          string    `json:"role"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the token may drive quiz transitions.
func (c *Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrUnknownRole  = errors.New("unknown role")
)

// TokenConfig holds JWT signing configuration.
type TokenConfig struct {
	Secret []byte
	TTL    time.Duration // default: 4 hours
	Issuer string
}

// Manager handles JWT token generation and validation.
type Manager struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewManager creates a JWT token manager.
func NewManager(cfg TokenConfig) *Manager {
	if cfg.TTL == 0 {
		cfg.TTL = 4 * time.Hour
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "livequiz"
	}

	return &Manager{
		secret: cfg.Secret,
		ttl:    cfg.TTL,
		issuer: cfg.Issuer,
		now:    time.Now,
	}
}

// Subject identifies who a token is issued to.
type Subject struct {
	ID          uuid.UUID
	DisplayName string
	Role        string
}

// Issue signs a token for subject.
func (m *Manager) Issue(subject Subject) (string, error) {
	if subject.Role != RoleAdmin && subject.Role != RoleParticipant {
		return "", ErrUnknownRole
	}

	now := m.now()
	claims := Claims{
		ParticipantID: subject.ID,
		DisplayName:   subject.DisplayName,
		Role:          subject.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   subject.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Validate parses and validates a token.
func (m *Manager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithTimeFunc(m.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Role != RoleAdmin && claims.Role != RoleParticipant {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
