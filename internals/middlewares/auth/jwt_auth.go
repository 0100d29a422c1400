package auth

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	helpersAuth "bibliothek_backend/internals/helpers/auth"
)

const TokenCookie = "token"

type AuthJWTOpts struct {
	Secret              string
	BlacklistChecker    func(c *fiber.Ctx, rawToken string) (bool, error) // true if revoked
	AllowCookieFallback bool                                              // read the token cookie when no Bearer header
}

// AuthJWT verifies an HS256 token and stores the caller Identity in Locals.
func AuthJWT(o AuthJWTOpts) fiber.Handler {
	secret := strings.TrimSpace(o.Secret)
	if secret == "" {
		panic("AuthJWT: Secret is required")
	}

	return func(c *fiber.Ctx) error {
		raw := ExtractToken(c, o.AllowCookieFallback)
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - no token provided")
		}

		if o.BlacklistChecker != nil {
			revoked, err := o.BlacklistChecker(c, raw)
			if err != nil {
				log.Printf("[AUTH] blacklist check failed: %v", err)
				return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
			}
			if revoked {
				return fiber.NewError(fiber.StatusUnauthorized, "Token revoked")
			}
		}

		id, err := ParseIdentity(raw, secret)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}

		helpersAuth.SetIdentity(c, id)
		c.Locals(helpersAuth.LocRawToken, raw)
		return c.Next()
	}
}

// ParseIdentity validates signature, algorithm and exp, then reads the identity claims.
func ParseIdentity(raw, secret string) (helpersAuth.Identity, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return helpersAuth.Identity{}, err
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return helpersAuth.Identity{}, jwt.ErrTokenMalformed
	}
	return helpersAuth.IdentityFromClaims(claims)
}

// ExtractToken reads "Authorization: Bearer x", then the token cookie when allowed.
func ExtractToken(c *fiber.Ctx, allowCookie bool) string {
	authz := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if fields := strings.Fields(authz); len(fields) == 2 && strings.EqualFold(fields[0], "Bearer") {
		return strings.Trim(fields[1], "\"'")
	}
	if allowCookie {
		return strings.TrimSpace(c.Cookies(TokenCookie))
	}
	return ""
}
