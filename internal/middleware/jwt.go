// Package middleware contains reusable HTTP middleware: JWT authentication,
// role checks, the Redis response cache and the Redis token-bucket rate
// limiter.
package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// parseBearer validates a Bearer token from the Authorization header and
// returns its claims. The boolean is false when the header is missing or the
// token does not verify.
func parseBearer(c echo.Context, secret string) (jwt.MapClaims, bool) {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return nil, false
	}
	raw := strings.TrimPrefix(auth, "Bearer ")

	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.ErrUnauthorized
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return nil, false
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, false
	}
	return claims, true
}

func setIdentity(c echo.Context, claims jwt.MapClaims) {
	if sub, ok := claims["sub"].(string); ok {
		c.Set("username", sub)
	}
	var roles []string
	if raw, ok := claims["roles"].([]interface{}); ok {
		for _, r := range raw {
			if s, ok := r.(string); ok {
				roles = append(roles, s)
			}
		}
	}
	c.Set("roles", roles)
}

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the token's subject and role claims into the request context.
// Handlers behind it read the authenticated user via `c.Get("username")`
// and `c.Get("roles")`.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := parseBearer(c, secret)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or missing token"})
			}
			setIdentity(c, claims)
			return next(c)
		}
	}
}

// OptionalJWTAuth injects the caller's identity when a valid Bearer token is
// present but lets anonymous requests through. Listing endpoints use it so
// guests see public notes while owners also see their private ones.
func OptionalJWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if claims, ok := parseBearer(c, secret); ok {
				setIdentity(c, claims)
			}
			return next(c)
		}
	}
}

// RequireRole enforces that the authenticated user has one of the given
// roles. It assumes JWTAuth already stored the roles slice in context;
// requests without a matching role are rejected with 403.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			got, _ := c.Get("roles").([]string)
			for _, r := range got {
				if allowed[r] {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
	}
}

// Username returns the authenticated username from context, or "" for
// anonymous requests.
func Username(c echo.Context) string {
	if v, ok := c.Get("username").(string); ok {
		return v
	}
	return ""
}

// HasRole reports whether the authenticated user carries the given role.
func HasRole(c echo.Context, role string) bool {
	roles, _ := c.Get("roles").([]string)
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
