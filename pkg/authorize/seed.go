package authorize

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Alijeyrad/transfers_backend/config"
)

// DefaultPolicies is the baseline permission set. Admins are not listed:
// RoleAdmin in sys bypasses enforcement.
var DefaultPolicies = []PermissionPolicy{
	{RoleAdmin, DomainSys, WildcardResource, WildcardAction, EffectAllow},

	// scheduled jobs (cron, k8s CronJob)
	{RoleScheduler, DomainSys, ResourceJob, ActionExecute, EffectAllow},

	// the web app and payment webhooks
	{RoleService, DomainSys, ResourceBooking, ActionCreate, EffectAllow},
	{RoleService, DomainSys, ResourceBooking, ActionUpdate, EffectAllow},
	{RoleService, DomainSys, ResourcePayment, ActionUpdate, EffectAllow},
	{RoleService, DomainSys, ResourceQuote, ActionRead, EffectAllow},

	// partner portal, scoped by the partner:<id> domain of the grouping row
	{RolePartner, WildcardDomain, ResourcePartner, ActionRead, EffectAllow},
}

// SeedDefaultPolicies adds DefaultPolicies. Existing rows are left alone.
func SeedDefaultPolicies(ctx context.Context, auth IAuthorization) error {
	added := 0
	for _, p := range DefaultPolicies {
		ok, err := auth.AddPermission(ctx, p.Subject, p.Domain, p.Object, p.Action, p.Effect)
		if err != nil {
			return fmt.Errorf("seed policy %s %s %s: %w", p.Subject, p.Object, p.Action, err)
		}
		if ok {
			added++
		}
	}
	slog.InfoContext(ctx, "seeded default RBAC policies", "count", len(DefaultPolicies), "added", added)
	return nil
}

// GroupingForAPIKey returns the g row binding a configured key to its role.
// Partner keys are bound inside their partner domain.
func GroupingForAPIKey(k config.APIKeyConfig) (GroupingPolicy, error) {
	role, ok := RoleFromName(k.Role)
	if !ok {
		return GroupingPolicy{}, fmt.Errorf("%w: unknown role %q for key %q", ErrInvalidArgs, k.Role, k.Name)
	}
	domain := DomainSys
	if role == RolePartner {
		domain = PartnerDomain(k.PartnerID)
	}
	return GroupingPolicy{Subject: APIKeySubject(k.Name), Role: role, Domain: domain}, nil
}

// AssignAPIKeyRoles groups every configured key into its role.
func AssignAPIKeyRoles(ctx context.Context, auth IAuthorization, keys []config.APIKeyConfig) error {
	for _, k := range keys {
		g, err := GroupingForAPIKey(k)
		if err != nil {
			return err
		}
		if _, err := auth.AddRoleForUserInDomain(ctx, g.Subject, g.Role, g.Domain); err != nil {
			return fmt.Errorf("assign role for key %q: %w", k.Name, err)
		}
	}
	return nil
}
