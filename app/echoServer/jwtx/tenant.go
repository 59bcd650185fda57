package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// TenantIDFromContext reads the tenant claim off the verified token. Every
// core operation takes this value explicitly; there is no ambient tenant.
func TenantIDFromContext(c echo.Context) (int64, error) {
	if tid, ok := c.Get("tenant_id").(int64); ok && tid > 0 {
		return tid, nil
	}

	tok, ok := c.Get("user").(*jwt.Token)
	if !ok || tok == nil {
		return 0, errors.New("no jwt token in context")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid jwt claims")
	}
	if f, ok := claims["tid"].(float64); ok && f > 0 {
		return int64(f), nil
	}
	return 0, errors.New("tid missing in claims")
}
