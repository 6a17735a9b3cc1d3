package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ecofinds/marketplace/internal/events"
	mwauth "github.com/ecofinds/marketplace/internal/middleware/auth"
	"github.com/ecofinds/marketplace/internal/service"
)

type AuthHandler struct {
	Tokens   *service.TokenService
	Producer *events.Producer
}

func createCookie(name, value, path string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  expires,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *AuthHandler) publish(c echo.Context, topic string, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, topic, fmt.Sprint(event["user_id"]), event); err != nil {
		c.Logger().Errorf("kafka publish error: %v", err)
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req service.RegisterInput
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	user, err := h.Tokens.Register(c.Request().Context(), req)
	if err != nil {
		return serviceError(c, err)
	}

	h.publish(c, events.TopicUserEvents, map[string]any{
		"type":     "user_registered",
		"user_id":  user.ID,
		"username": user.Username,
	})

	return success(c, http.StatusCreated, "User registered successfully", user)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	user, pair, err := h.Tokens.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "invalid username or password")
	}

	c.SetCookie(createCookie(mwauth.AccessCookie, pair.AccessToken, "/", pair.AccessExpiresAt))
	c.SetCookie(createCookie(mwauth.RefreshCookie, pair.RefreshToken, "/", pair.RefreshExpiresAt))

	h.publish(c, events.TopicUserEvents, map[string]any{
		"type":    "user_logged_in",
		"user_id": user.ID,
	})

	return success(c, http.StatusOK, "Login successful", map[string]any{
		"user":          user,
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(mwauth.RefreshCookie)
	if err != nil || cookie.Value == "" {
		return fail(c, http.StatusUnauthorized, "missing refresh token")
	}

	_, pair, err := h.Tokens.Refresh(c.Request().Context(), cookie.Value)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "invalid refresh token")
	}

	c.SetCookie(createCookie(mwauth.AccessCookie, pair.AccessToken, "/", pair.AccessExpiresAt))
	c.SetCookie(createCookie(mwauth.RefreshCookie, pair.RefreshToken, "/", pair.RefreshExpiresAt))

	return success(c, http.StatusOK, "Token refreshed", map[string]any{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(mwauth.RefreshCookie); err == nil {
		if err := h.Tokens.Logout(c.Request().Context(), cookie.Value); err != nil {
			c.Logger().Errorf("logout revoke error: %v", err)
		}
	}

	expired := time.Now().Add(-time.Hour)
	c.SetCookie(createCookie(mwauth.AccessCookie, "", "/", expired))
	c.SetCookie(createCookie(mwauth.RefreshCookie, "", "/", expired))

	return success(c, http.StatusOK, "Logged out", nil)
}
