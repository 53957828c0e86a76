package service

import (
	"crypto/subtle"
	"errors"
	"time"

	"screener/config"
	"screener/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrLoginDisabled      = errors.New("admin login is not configured")
)

// AuthService handles admin (host) authentication
type AuthService struct {
	hostUsername string
	hostPassword string
	jwtSecret    []byte
	tokenTTL     time.Duration
	now          func() time.Time
}

// NewAuthService creates a new auth service. Without a configured secret a
// random one is generated, so issued tokens do not survive a restart.
func NewAuthService(cfg config.AuthConfig) *AuthService {
	secret := cfg.JWTSecret
	if secret == "" {
		secret = uuid.New().String() + uuid.New().String()
	}

	return &AuthService{
		hostUsername: cfg.Username,
		hostPassword: cfg.Password,
		jwtSecret:    []byte(secret),
		tokenTTL:     cfg.TokenTTL,
		now:          time.Now,
	}
}

// Login validates credentials and returns a signed host token
func (s *AuthService) Login(username, password string) (*model.LoginResponse, error) {
	if s.hostPassword == "" {
		return nil, ErrLoginDisabled
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.hostUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.hostPassword)) == 1
	if !userOK || !passOK {
		return nil, ErrInvalidCredentials
	}

	hostID := "host_" + uuid.New().String()[:8]
	now := s.now()

	claims := &model.HostClaims{
		HostID: hostID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
			Subject:  username,
		},
	}
	var expiresAt int64
	if s.tokenTTL > 0 {
		exp := now.Add(s.tokenTTL)
		claims.ExpiresAt = jwt.NewNumericDate(exp)
		expiresAt = exp.Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token:     tokenString,
		HostID:    hostID,
		ExpiresAt: expiresAt,
	}, nil
}

// ValidateHostToken validates a host JWT and returns claims
func (s *AuthService) ValidateHostToken(tokenString string) (*model.HostClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.HostClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.HostClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
