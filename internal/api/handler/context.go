package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxIdentity extracts the identity injected by the Auth middleware and
// performs a fast-fail check before any service call: a non-empty user_id
// proves the middleware ran.
func ctxIdentity(c echo.Context) (userID string, isSeller bool, err error) {
	userID, _ = c.Get("user_id").(string)
	if userID == "" {
		return "", false, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	isSeller, _ = c.Get("is_seller").(bool)
	return userID, isSeller, nil
}
