package auth

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Handler serves the login/logout/me endpoints backing the dashboard's
// session cookie flow.
type Handler struct {
	authn        *Authenticator
	store        SessionStore
	ttl          time.Duration
	secureCookie bool
	logger       zerolog.Logger
}

func NewHandler(authn *Authenticator, store SessionStore, ttl time.Duration, secureCookie bool, logger zerolog.Logger) *Handler {
	return &Handler{
		authn:        authn,
		store:        store,
		ttl:          ttl,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/auth/login", h.Login)
	api.POST("/auth/logout", h.Logout)
	api.GET("/auth/me", h.Me)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Requisição inválida"})
	}

	user := h.authn.Authenticate(req.Username, req.Password)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Usuário ou senha inválidos"})
	}

	token, err := h.store.Create(c.Request().Context(), *user)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to create session")
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Erro ao fazer login"})
	}

	c.SetCookie(h.sessionCookie(token, h.ttl))
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

func (h *Handler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		if err := h.store.Delete(c.Request().Context(), cookie.Value); err != nil {
			h.logger.Error().Err(err).Msg("failed to delete session")
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Erro ao fazer logout"})
		}
	}
	// Expire the cookie regardless of whether a session existed.
	c.SetCookie(h.sessionCookie("", -time.Hour))
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) Me(c echo.Context) error {
	cookie, err := c.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Não autenticado"})
	}
	user, err := h.store.Get(c.Request().Context(), cookie.Value)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Não autenticado"})
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) sessionCookie(token string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}
