package authorize

import (
	"context"
	"errors"

	"github.com/Alijeyrad/transfers_backend/pkg/reqctx"
)

var ErrNoSubjectInContext = errors.New("no subject found in context")

// SubjectFromContext returns the casbin subject of the authenticated API key.
func SubjectFromContext(ctx context.Context) (GroupSubject, error) {
	p := reqctx.PrincipalFromContext(ctx)
	if p == nil || p.Name == "" {
		return "", ErrNoSubjectInContext
	}
	return APIKeySubject(p.Name), nil
}

// DomainForPartner returns the partner domain when a partner id is given,
// and sys otherwise.
func DomainForPartner(partnerID string) Domain {
	if partnerID == "" {
		return DomainSys
	}
	return PartnerDomain(partnerID)
}
