package middleware

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"picktrack/internal/common"
)

// JWTCustomClaims carries the operator identity the audit recorder needs.
// Subject holds the user id; Username is what gets stamped onto audit rows.
type JWTCustomClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// JWTConfig builds the echo-jwt configuration for protected routes. On
// success the authenticated identity is copied into the request context so
// handlers read it through common rather than from echo internals.
func JWTConfig(secret string) echojwt.Config {
	return echojwt.Config{
		SigningKey: []byte(secret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(JWTCustomClaims)
		},
		SuccessHandler: func(c echo.Context) {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return
			}
			claims, ok := token.Claims.(*JWTCustomClaims)
			if !ok {
				return
			}
			ctx := common.WithIdentity(c.Request().Context(), claims.Subject, claims.Username)
			c.SetRequest(c.Request().WithContext(ctx))
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusUnauthorized, common.DetailResponse{Detail: "Invalid or missing token"})
		},
	}
}
