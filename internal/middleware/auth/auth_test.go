package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ecofinds/marketplace/internal/database"
	"github.com/ecofinds/marketplace/internal/service"
)

func newTokens(t *testing.T) *service.TokenService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	return &service.TokenService{DB: db, JWTSecret: []byte("jwt"), RefreshSecret: []byte("refresh")}
}

func loginPair(t *testing.T, tokens *service.TokenService) *service.TokenPair {
	t.Helper()
	ctx := httptest.NewRequest(http.MethodGet, "/", nil).Context()
	_, err := tokens.Register(ctx, service.RegisterInput{
		Username: "ann", Email: "ann@example.com", Password: "secret1",
	})
	require.NoError(t, err)
	_, pair, err := tokens.Login(ctx, "ann", "secret1")
	require.NoError(t, err)
	return pair
}

func TestRequireLogin(t *testing.T) {
	tokens := newTokens(t)
	pair := loginPair(t, tokens)
	e := echo.New()

	var gotID uint
	handler := RequireLogin(tokens)(func(c echo.Context) error {
		gotID = UserID(c)
		return c.NoContent(http.StatusOK)
	})

	// No cookie.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	err := handler(e.NewContext(req, httptest.NewRecorder()))
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusUnauthorized, httpErr.Code)

	// Garbage token.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: "garbage"})
	err = handler(e.NewContext(req, httptest.NewRecorder()))
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusUnauthorized, httpErr.Code)

	// Valid token.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: pair.AccessToken})
	require.NoError(t, handler(e.NewContext(req, httptest.NewRecorder())))
	require.NotZero(t, gotID)
}

func TestOptionalLogin(t *testing.T) {
	tokens := newTokens(t)
	pair := loginPair(t, tokens)
	e := echo.New()

	var gotID uint
	handler := OptionalLogin(tokens)(func(c echo.Context) error {
		gotID = UserID(c)
		return c.NoContent(http.StatusOK)
	})

	// Anonymous requests pass through with a zero identity.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, handler(e.NewContext(req, httptest.NewRecorder())))
	require.Zero(t, gotID)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: pair.AccessToken})
	require.NoError(t, handler(e.NewContext(req, httptest.NewRecorder())))
	require.NotZero(t, gotID)
}

func TestAdminOnly(t *testing.T) {
	e := echo.New()
	handler := AdminOnly(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.Set(ContextUserID, uint(1))
	c.Set(ContextRole, "user")
	err := handler(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusForbidden, httpErr.Code)

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.Set(ContextUserID, uint(1))
	c.Set(ContextRole, "admin")
	require.NoError(t, handler(c))
}

func TestActorHelpers(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	require.Zero(t, UserID(c))
	require.Empty(t, Role(c))

	c.Set(ContextUserID, uint(42))
	c.Set(ContextRole, "admin")
	actor := Actor(c)
	require.Equal(t, uint(42), actor.UserID)
	require.Equal(t, "admin", actor.Role)
}
