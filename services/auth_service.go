package services

import (
	"errors"
	"strings"
	"time"

	"github.com/Harish-hex/SIH-HealthTwin/config"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// AuthService checks credentials against a provider and issues signed tokens
// that carry the caller's role.
type AuthService struct {
	jwtSecret  []byte
	expiryH    int
	provider   AuthProvider
	dashboards config.AuthConfig
}

func NewAuthService(cfg config.JWTConfig, provider AuthProvider, dashboards config.AuthConfig) *AuthService {
	return &AuthService{
		jwtSecret:  []byte(cfg.Secret),
		expiryH:    cfg.ExpiryHours,
		provider:   provider,
		dashboards: dashboards,
	}
}

type LoginResult struct {
	User         Identity
	DashboardURL string
	Token        string
}

// Login trims the supplied credentials, authenticates them and returns the
// identity, the dashboard for its role and a fresh token.
func (s *AuthService) Login(username, password string) (*LoginResult, error) {
	id, ok := s.provider.Authenticate(strings.TrimSpace(username), strings.TrimSpace(password))
	if !ok {
		return nil, ErrInvalidCredentials
	}
	token, err := s.GenerateToken(*id)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		User:         *id,
		DashboardURL: DashboardURL(s.dashboards, id.Role),
		Token:        token,
	}, nil
}

type Claims struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	WorkerID string `json:"worker_id"`
	jwt.RegisteredClaims
}

func (c *Claims) Identity() Identity {
	return Identity{Username: c.Username, Name: c.Name, Role: c.Role, WorkerID: c.WorkerID}
}

func (s *AuthService) GenerateToken(id Identity) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: id.Username,
		Name:     id.Name,
		Role:     id.Role,
		WorkerID: id.WorkerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Username,
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.expiryH) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return s.jwtSecret, nil
		},
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
