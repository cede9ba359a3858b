package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/Alijeyrad/transfers_backend/pkg/authorize"
)

// RequirePermission checks the authenticated API key against the sys
// domain. Must run after APIKeyAuth.
func RequirePermission(auth authorize.IAuthorization, resource authorize.Resource, action authorize.Action) fiber.Handler {
	return func(c fiber.Ctx) error {
		return enforce(c, auth, authorize.DomainSys, resource, action)
	}
}

// RequirePartnerPermission checks the key against the domain of the partner
// named by the :id route param, so partner keys only reach their own data.
func RequirePartnerPermission(auth authorize.IAuthorization, resource authorize.Resource, action authorize.Action) fiber.Handler {
	return func(c fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid partner id")
		}
		return enforce(c, auth, authorize.PartnerDomain(id.String()), resource, action)
	}
}

func enforce(c fiber.Ctx, auth authorize.IAuthorization, domain authorize.Domain, resource authorize.Resource, action authorize.Action) error {
	p := PrincipalFromFiber(c)
	if p == nil {
		return fiber.ErrUnauthorized
	}

	subject := authorize.APIKeySubject(p.Name)
	if err := auth.MustEnforce(c.Context(), subject, domain, resource, action); err != nil {
		if errors.Is(err, authorize.ErrForbidden) {
			return fiber.ErrForbidden
		}
		return err
	}

	return c.Next()
}
