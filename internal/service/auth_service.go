package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"timekeeper/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = 12 * time.Hour

// Domain errors for auth flows.
var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrOwnerNotSet     = errors.New("owner not set up")
	ErrOwnerExists     = errors.New("owner already set up")
	ErrInvalidToken    = errors.New("invalid token")
	ErrEmptyPassword   = errors.New("password is empty")
)

// AuthService guards the single local owner account.
type AuthService struct {
	authRepo   repository.Authorization
	signingKey []byte
	tokenTTL   time.Duration
	now        func() time.Time
}

func NewAuthService(repo repository.Authorization, signingKey string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &AuthService{
		authRepo:   repo,
		signingKey: []byte(signingKey),
		tokenTTL:   tokenTTL,
		now:        time.Now,
	}
}

// SetupOwner stores the owner password on first run.
func (s *AuthService) SetupOwner(ctx context.Context, password string) error {
	existing, err := s.authRepo.GetOwner(ctx)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrOwnerExists
	}
	hash, err := hashPassword(password)
	if err != nil {
		return fmt.Errorf("invalid password: %w", err)
	}
	return s.authRepo.SetOwner(ctx, hash)
}

// Claims defines JWT claims
type Claims struct {
	jwt.RegisteredClaims
	UserID int `json:"user_id"`
}

// GenerateToken validates the password and returns a JWT
func (s *AuthService) GenerateToken(ctx context.Context, password string) (string, error) {
	o, err := s.authRepo.GetOwner(ctx)
	if err != nil {
		return "", err
	}
	if o == nil {
		return "", ErrOwnerNotSet
	}

	if err := verifyPassword(o.PasswordHash, password); err != nil {
		return "", ErrInvalidPassword
	}

	return s.issueToken(o.ID)
}

// ParseToken parses JWT and returns the owner id
func (s *AuthService) ParseToken(accessToken string) (int, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return 0, ErrInvalidToken
	}

	return claims.UserID, nil
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// helper: issue a signed JWT for the owner
func (s *AuthService) issueToken(ownerID int) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: ownerID,
	})
	return token.SignedString(s.signingKey)
}
