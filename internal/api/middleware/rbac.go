package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// SellerOnly rejects callers whose token does not carry the seller role.
// Guards routes that mutate seller-owned state (deliveries, status updates).
func SellerOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			isSeller, _ := c.Get("is_seller").(bool)
			if !isSeller {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
