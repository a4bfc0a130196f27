package auth

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

const userContextKey = "session_user"

// RequireSession is the gate in front of every data endpoint: no valid
// session means no query runs. Store failures other than a missing session
// deliberately surface as 401 rather than 500 — the caller cannot act on the
// distinction and the login flow is the recovery path either way.
func RequireSession(store SessionStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Não autenticado")
			}
			user, err := store.Get(c.Request().Context(), cookie.Value)
			if err != nil {
				if !errors.Is(err, ErrNoSession) {
					c.Logger().Error(err)
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "Não autenticado")
			}
			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// UserFromContext returns the authenticated session user, or nil when the
// request did not pass through RequireSession.
func UserFromContext(c echo.Context) *User {
	user, _ := c.Get(userContextKey).(*User)
	return user
}
