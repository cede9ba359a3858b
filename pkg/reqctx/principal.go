package reqctx

import "context"

// Principal is the caller identified by an API key.
type Principal struct {
	// Name is the configured label of the key, used in logs and audits.
	Name string
	// Role is the casbin role the key is bound to.
	Role string
	// PartnerID scopes partner keys to one partner. Empty otherwise.
	PartnerID string
}

func (p *Principal) IsPartner() bool {
	return p != nil && p.PartnerID != ""
}

// WithPrincipal stores the authenticated caller in the context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, keyPrincipal, p)
}

// PrincipalFromContext returns the caller, or nil for anonymous requests.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(keyPrincipal).(*Principal)
	return p
}
