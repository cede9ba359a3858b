package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/samber/lo"

	"github.com/Alijeyrad/transfers_backend/config"
	"github.com/Alijeyrad/transfers_backend/pkg/reqctx"
)

const (
	DefaultAPIKeyHeader = "X-API-Key"
	LocalsPrincipal     = "principal"
)

// APIKeyAuth rejects requests without a configured API key. On success the
// caller is stored as a *reqctx.Principal in Locals and in the request
// context.
func APIKeyAuth(cfg config.AuthConfig) fiber.Handler {
	return apiKey(cfg, true)
}

// OptionalAPIKey identifies the caller when a key is sent and lets
// anonymous requests through. A key that is sent but unknown is still
// rejected.
func OptionalAPIKey(cfg config.AuthConfig) fiber.Handler {
	return apiKey(cfg, false)
}

func apiKey(cfg config.AuthConfig, required bool) fiber.Handler {
	header := lo.CoalesceOrEmpty(cfg.APIKeyHeader, DefaultAPIKeyHeader)
	keys := cfg.APIKeys

	return func(c fiber.Ctx) error {
		key := presentedKey(c, header)
		if key == "" {
			if required {
				return fiber.ErrUnauthorized
			}
			return c.Next()
		}

		k, found := matchKey(keys, key)
		if !found {
			return fiber.ErrUnauthorized
		}

		p := &reqctx.Principal{Name: k.Name, Role: k.Role, PartnerID: k.PartnerID}
		c.Locals(LocalsPrincipal, p)
		c.SetContext(reqctx.WithPrincipal(c.Context(), p))
		return c.Next()
	}
}

// presentedKey reads the key header, falling back to a Bearer token.
func presentedKey(c fiber.Ctx, header string) string {
	if key := strings.TrimSpace(c.Get(header)); key != "" {
		return key
	}
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// matchKey compares against every configured key in constant time.
func matchKey(keys []config.APIKeyConfig, key string) (config.APIKeyConfig, bool) {
	var (
		match config.APIKeyConfig
		found bool
	)
	for _, k := range keys {
		if subtle.ConstantTimeCompare([]byte(k.Key), []byte(key)) == 1 {
			match, found = k, true
		}
	}
	return match, found
}

// PrincipalFromFiber returns the authenticated caller, or nil.
func PrincipalFromFiber(c fiber.Ctx) *reqctx.Principal {
	p, _ := c.Locals(LocalsPrincipal).(*reqctx.Principal)
	return p
}
