package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ecofinds/marketplace/internal/models"
)

func TestRegisterValidation(t *testing.T) {
	db := newTestDB(t)
	tokens := &TokenService{DB: db, JWTSecret: []byte("jwt"), RefreshSecret: []byte("refresh")}
	ctx := context.Background()

	_, err := tokens.Register(ctx, RegisterInput{Email: "a@b.c", Password: "secret1"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = tokens.Register(ctx, RegisterInput{Username: "ann", Password: "secret1"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = tokens.Register(ctx, RegisterInput{Username: "ann", Email: "a@b.c", Password: "short"})
	require.ErrorIs(t, err, ErrValidation)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	tokens := &TokenService{DB: db, JWTSecret: []byte("jwt"), RefreshSecret: []byte("refresh")}
	ctx := context.Background()

	user, err := tokens.Register(ctx, RegisterInput{Username: "ann", Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)
	require.Equal(t, "user", user.Role)
	require.NotEqual(t, "secret1", user.PasswordHash)

	_, err = tokens.Register(ctx, RegisterInput{Username: "ann", Email: "other@example.com", Password: "secret1"})
	require.ErrorIs(t, err, ErrConflict)
}

func TestLoginAndParseAccess(t *testing.T) {
	db := newTestDB(t)
	tokens := &TokenService{DB: db, JWTSecret: []byte("jwt"), RefreshSecret: []byte("refresh")}
	ctx := context.Background()

	registered, err := tokens.Register(ctx, RegisterInput{Username: "ann", Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, _, err = tokens.Login(ctx, "ann", "wrong-password")
	require.ErrorIs(t, err, ErrUnauthorized)

	_, _, err = tokens.Login(ctx, "nobody", "secret1")
	require.ErrorIs(t, err, ErrUnauthorized)

	user, pair, err := tokens.Login(ctx, "ann", "secret1")
	require.NoError(t, err)
	require.Equal(t, registered.ID, user.ID)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	id, role, err := tokens.ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, id)
	require.Equal(t, "user", role)

	// A token signed with a different secret must be rejected.
	other := &TokenService{DB: db, JWTSecret: []byte("not-the-secret"), RefreshSecret: []byte("refresh")}
	_, _, err = other.ParseAccess(pair.AccessToken)
	require.ErrorIs(t, err, ErrUnauthorized)

	_, _, err = tokens.ParseAccess("not.a.token")
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestRefreshRotation(t *testing.T) {
	db := newTestDB(t)
	tokens := &TokenService{DB: db, JWTSecret: []byte("jwt"), RefreshSecret: []byte("refresh")}
	ctx := context.Background()

	_, err := tokens.Register(ctx, RegisterInput{Username: "ann", Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)
	_, pair, err := tokens.Login(ctx, "ann", "secret1")
	require.NoError(t, err)

	_, rotated, err := tokens.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// The presented token was revoked by the rotation.
	_, _, err = tokens.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrUnauthorized)

	_, _, err = tokens.Refresh(ctx, "never-issued")
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestRefreshTokenStoredKeyed(t *testing.T) {
	db := newTestDB(t)
	tokens := &TokenService{DB: db, JWTSecret: []byte("jwt"), RefreshSecret: []byte("refresh")}
	ctx := context.Background()

	_, err := tokens.Register(ctx, RegisterInput{Username: "ann", Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)
	_, pair, err := tokens.Login(ctx, "ann", "secret1")
	require.NoError(t, err)

	// The raw token never hits the database, only its keyed digest does.
	var stored models.RefreshToken
	err = db.Where("token = ?", pair.RefreshToken).First(&stored).Error
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	var count int64
	require.NoError(t, db.Model(&models.RefreshToken{}).Count(&count).Error)
	require.EqualValues(t, 1, count)

	// A service holding a different refresh secret cannot resolve the token.
	other := &TokenService{DB: db, JWTSecret: []byte("jwt"), RefreshSecret: []byte("not-the-secret")}
	_, _, err = other.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrUnauthorized)

	_, _, err = tokens.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	db := newTestDB(t)
	tokens := &TokenService{DB: db, JWTSecret: []byte("jwt"), RefreshSecret: []byte("refresh")}
	ctx := context.Background()

	_, err := tokens.Register(ctx, RegisterInput{Username: "ann", Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)
	_, pair, err := tokens.Login(ctx, "ann", "secret1")
	require.NoError(t, err)

	require.NoError(t, tokens.Logout(ctx, pair.RefreshToken))
	_, _, err = tokens.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrUnauthorized)

	// Logging out without a token is a no-op.
	require.NoError(t, tokens.Logout(ctx, ""))
}
