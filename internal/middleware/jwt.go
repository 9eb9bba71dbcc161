// Package middleware contains reusable HTTP middleware.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/rmiras/personal-site-api/internal/model"
)

// UserResolver loads the account a token subject refers to.
type UserResolver interface {
	GetByID(ctx context.Context, id uint64) (*model.User, error)
}

// JWTAuth returns an Echo middleware that validates a Bearer access token,
// resolves its subject to an active user and injects the user id into the
// request context as "user_id". Every protected route runs through it before
// any repository call; a missing or invalid credential, or a subject that no
// longer resolves to an active account, fails the whole request with 401.
func JWTAuth(secret string, users UserResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				// only HS256 tokens are ever issued; reject other methods
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}
			sub, ok := claims["sub"].(float64)
			if !ok || sub <= 0 {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}
			userID := uint64(sub)

			// a signature alone is not enough: the account behind the token
			// may have been deactivated or deleted since issuance
			user, err := users.GetByID(c.Request().Context(), userID)
			if err != nil || !user.IsActive {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			c.Set("user_id", userID)
			return next(c)
		}
	}
}
