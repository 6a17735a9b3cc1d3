package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ecofinds/marketplace/internal/hash"
	"github.com/ecofinds/marketplace/internal/logging"
	"github.com/ecofinds/marketplace/internal/models"
	"github.com/ecofinds/marketplace/internal/repo"
)

const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

type TokenService struct {
	DB            *gorm.DB
	JWTSecret     []byte
	RefreshSecret []byte
}

type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *TokenService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Email == "" {
		return nil, fmt.Errorf("%w: username and email are required", ErrValidation)
	}
	if len(in.Password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}

	users := &repo.UserRepo{DB: s.DB}
	if _, err := users.ByUsername(ctx, in.Username); err == nil {
		return nil, fmt.Errorf("user %q already exists: %w", in.Username, ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	passwordHash, err := hash.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: passwordHash,
		Role:         "user",
	}
	if err := users.Create(ctx, &user); err != nil {
		return nil, err
	}

	logging.FromContext(ctx).With("svc", "token.register").
		Info("user registered", "user_id", user.ID, "username", user.Username)
	return &user, nil
}

func (s *TokenService) Login(ctx context.Context, username, password string) (*models.User, *TokenPair, error) {
	users := &repo.UserRepo{DB: s.DB}

	user, err := users.ByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
	}
	if err != nil {
		return nil, nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		logging.FromContext(ctx).With("svc", "token.login", "username", username).
			Warn("password mismatch")
		return nil, nil, fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
	}

	pair, err := s.issue(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh rotates the refresh token: the presented token is revoked and a
// fresh pair is issued.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (*models.User, *TokenPair, error) {
	users := &repo.UserRepo{DB: s.DB}

	stored, err := users.RefreshToken(ctx, s.hashRefresh(refreshToken))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("unknown refresh token: %w", ErrUnauthorized)
	}
	if err != nil {
		return nil, nil, err
	}
	if stored.Revoked || time.Now().After(stored.ExpiresAt) {
		return nil, nil, fmt.Errorf("refresh token expired or revoked: %w", ErrUnauthorized)
	}

	user, err := users.Get(ctx, stored.UserID)
	if err != nil {
		return nil, nil, err
	}

	if err := users.RevokeRefreshToken(ctx, s.hashRefresh(refreshToken)); err != nil {
		return nil, nil, err
	}

	pair, err := s.issue(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *TokenService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	users := &repo.UserRepo{DB: s.DB}
	return users.RevokeRefreshToken(ctx, s.hashRefresh(refreshToken))
}

// ParseAccess validates an access token and returns the subject user id and
// role claim.
func (s *TokenService) ParseAccess(tokenString string) (uint, string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.JWTSecret, nil
	})
	if err != nil || !token.Valid {
		return 0, "", fmt.Errorf("invalid token: %w", ErrUnauthorized)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", fmt.Errorf("invalid token claims: %w", ErrUnauthorized)
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		return 0, "", fmt.Errorf("invalid subject claim: %w", ErrUnauthorized)
	}
	role, _ := claims["role"].(string)

	return uint(sub), role, nil
}

func (s *TokenService) issue(ctx context.Context, user *models.User) (*TokenPair, error) {
	accessExp := time.Now().Add(AccessTokenTTL)
	accessClaims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"exp":  accessExp.Unix(),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString(s.JWTSecret)
	if err != nil {
		return nil, err
	}

	refreshExp := time.Now().Add(RefreshTokenTTL)
	refresh := uuid.NewString()

	users := &repo.UserRepo{DB: s.DB}
	if err := users.SaveRefreshToken(ctx, &models.RefreshToken{
		Token:     s.hashRefresh(refresh),
		UserID:    user.ID,
		ExpiresAt: refreshExp,
	}); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// hashRefresh keys the stored refresh token with the refresh secret, so a
// leaked refresh_tokens table holds no usable tokens.
func (s *TokenService) hashRefresh(token string) string {
	mac := hmac.New(sha256.New, s.RefreshSecret)
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}
