package service

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// ErrInvalidCredentials indicates that provided login credentials are incorrect.
var ErrInvalidCredentials = errors.New("invalid credentials")

// The demo credential pair stands in for a real identity backend.
// TODO: replace ValidateUser with a lookup against the user store once
// passwords are hashed at rest.
const (
	demoUsername = "demo"
	demoPassword = "demo123"

	roleUser = "User"
)

// TokenClaims are the claims carried by issued bearer tokens.
type TokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService validates credentials and issues signed bearer tokens.
type AuthService interface {
	ValidateUser(username, password string) bool
	IssueToken(username, password string) (string, error)
	ParseToken(token string) (*TokenClaims, error)
}

// AuthConfig holds the token signing settings. All fields are required.
type AuthConfig struct {
	SecretKey     string
	Issuer        string
	Audience      string
	ExpiryMinutes int
}

type authService struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	logger   *logrus.Logger
}

// NewAuthService validates the signing settings once; a missing setting is a
// configuration error surfaced at construction, not per call.
func NewAuthService(cfg AuthConfig, logger *logrus.Logger) (AuthService, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("auth secret key is required")
	}
	if cfg.Issuer == "" {
		return nil, errors.New("auth issuer is required")
	}
	if cfg.Audience == "" {
		return nil, errors.New("auth audience is required")
	}
	if cfg.ExpiryMinutes <= 0 {
		return nil, errors.New("auth expiry minutes must be positive")
	}

	return &authService{
		secret:   []byte(cfg.SecretKey),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      time.Duration(cfg.ExpiryMinutes) * time.Minute,
		logger:   logger,
	}, nil
}

// ValidateUser reports whether the credential pair is accepted. The decision
// is a bare boolean; logging is the only side channel.
func (s *authService) ValidateUser(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(demoUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(demoPassword)) == 1

	if userOK && passOK {
		s.logger.Infof("user validated successfully: %s", username)
		return true
	}
	s.logger.Warnf("invalid credentials for user: %s", username)
	return false
}

// IssueToken validates the credentials and, on success, returns a signed
// time-bounded token carrying the user's identity claims.
func (s *authService) IssueToken(username, password string) (string, error) {
	if !s.ValidateUser(username, password) {
		return "", ErrInvalidCredentials
	}

	now := time.Now().UTC()
	claims := TokenClaims{
		Role: roleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token for %s: %w", username, err)
	}

	s.logger.Infof("token generated for user: %s", username)
	return signed, nil
}

// ParseToken verifies signature, issuer, audience and lifetime, returning the
// embedded claims.
func (s *authService) ParseToken(tokenStr string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
