package authorize

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	casbin "github.com/casbin/casbin/v2"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/transfers_backend/config"
	"github.com/Alijeyrad/transfers_backend/pkg/reqctx"
)

const partnerA = "0190a1b2-c3d4-7e5f-8a9b-0c1d2e3f4a5b"
const partnerB = "0190a1b2-c3d4-7e5f-8a9b-0c1d2e3f4a5c"

// newTestEnforcer uses the repository model with an empty file policy.
func newTestEnforcer(t *testing.T) *casbin.DistributedEnforcer {
	t.Helper()
	dir := t.TempDir()
	policyPath := filepath.Join(dir, "policy.csv")
	require.NoError(t, os.WriteFile(policyPath, nil, 0o644))

	e, err := casbin.NewDistributedEnforcer(filepath.Join("..", "..", "casbin_model.conf"), fileadapter.NewAdapter(policyPath))
	require.NoError(t, err)
	e.EnableAutoSave(false)
	return e
}

func newSeededAuth(t *testing.T) IAuthorization {
	t.Helper()
	ctx := context.Background()
	auth, err := NewAuthorization(newTestEnforcer(t))
	require.NoError(t, err)
	require.NoError(t, SeedDefaultPolicies(ctx, auth))
	require.NoError(t, AssignAPIKeyRoles(ctx, auth, []config.APIKeyConfig{
		{Name: "ops", Role: "admin"},
		{Name: "cron", Role: "scheduler"},
		{Name: "web", Role: "service"},
		{Name: "portal-a", Role: "partner", PartnerID: partnerA},
	}))
	return auth
}

func TestNewAuthorization_NilEnforcer(t *testing.T) {
	_, err := NewAuthorization(nil)
	assert.ErrorIs(t, err, ErrInvalidArgs)
}

func TestEnforce_Roles(t *testing.T) {
	auth := newSeededAuth(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		key     string
		domain  Domain
		object  Resource
		action  Action
		allowed bool
	}{
		{"scheduler runs jobs", "cron", DomainSys, ResourceJob, ActionExecute, true},
		{"scheduler cannot confirm payments", "cron", DomainSys, ResourcePayment, ActionUpdate, false},
		{"service creates bookings", "web", DomainSys, ResourceBooking, ActionCreate, true},
		{"service confirms payments", "web", DomainSys, ResourcePayment, ActionUpdate, true},
		{"service cannot run jobs", "web", DomainSys, ResourceJob, ActionExecute, false},
		{"partner reads own stats", "portal-a", PartnerDomain(partnerA), ResourcePartner, ActionRead, true},
		{"partner cannot read other partner", "portal-a", PartnerDomain(partnerB), ResourcePartner, ActionRead, false},
		{"partner has nothing in sys", "portal-a", DomainSys, ResourcePartner, ActionRead, false},
		{"admin bypasses everything", "ops", PartnerDomain(partnerB), ResourcePartner, ActionRead, true},
		{"unknown key", "nobody", DomainSys, ResourceBooking, ActionRead, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := auth.Enforce(ctx, APIKeySubject(tt.key), tt.domain, tt.object, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.allowed, ok)
		})
	}
}

func TestMustEnforce(t *testing.T) {
	auth := NewAuditedAuthorization(newSeededAuth(t), nil)
	ctx := context.Background()

	assert.NoError(t, auth.MustEnforce(ctx, APIKeySubject("cron"), DomainSys, ResourceJob, ActionExecute))
	assert.ErrorIs(t, auth.MustEnforce(ctx, APIKeySubject("web"), DomainSys, ResourceJob, ActionExecute), ErrForbidden)
}

func TestEnforce_InvalidArgs(t *testing.T) {
	auth := newSeededAuth(t)
	ctx := context.Background()

	_, err := auth.Enforce(ctx, "", DomainSys, ResourceJob, ActionExecute)
	assert.ErrorIs(t, err, ErrInvalidArgs)
	_, err = auth.Enforce(ctx, APIKeySubject("cron"), "partner:not-a-uuid", ResourceJob, ActionExecute)
	assert.ErrorIs(t, err, ErrInvalidArgs)
	_, err = auth.Enforce(ctx, APIKeySubject("cron"), DomainSys, "driver", ActionExecute)
	assert.ErrorIs(t, err, ErrInvalidArgs)
	_, err = auth.Enforce(ctx, APIKeySubject("cron"), DomainSys, ResourceJob, "delete")
	assert.ErrorIs(t, err, ErrInvalidArgs)
}

func TestRoleManagement(t *testing.T) {
	auth := newSeededAuth(t)
	ctx := context.Background()
	sub := APIKeySubject("web")

	roles, err := auth.GetRolesForUserInDomain(ctx, sub, DomainSys)
	require.NoError(t, err)
	assert.Equal(t, []Role{RoleService}, roles)

	removed, err := auth.RemoveRoleForUserInDomain(ctx, sub, RoleService, DomainSys)
	require.NoError(t, err)
	assert.True(t, removed)

	ok, err := auth.Enforce(ctx, sub, DomainSys, ResourceBooking, ActionCreate)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = auth.AddRoleForUserInDomain(ctx, sub, "role:fleet:owner", DomainSys)
	assert.ErrorIs(t, err, ErrInvalidArgs)
	_, err = auth.AddPermission(ctx, RoleService, DomainSys, ResourceBooking, ActionRead, "maybe")
	assert.ErrorIs(t, err, ErrInvalidArgs)
}

func TestSeedIsIdempotent(t *testing.T) {
	auth := newSeededAuth(t)
	require.NoError(t, SeedDefaultPolicies(context.Background(), auth))
	policies, err := auth.Raw().GetPolicy()
	require.NoError(t, err)
	assert.Len(t, policies, len(DefaultPolicies))
}

func TestGroupingForAPIKey(t *testing.T) {
	g, err := GroupingForAPIKey(config.APIKeyConfig{Name: "portal-a", Role: "Partner", PartnerID: partnerA})
	require.NoError(t, err)
	assert.Equal(t, GroupingPolicy{Subject: "apikey:portal-a", Role: RolePartner, Domain: PartnerDomain(partnerA)}, g)

	_, err = GroupingForAPIKey(config.APIKeyConfig{Name: "x", Role: "owner"})
	assert.ErrorIs(t, err, ErrInvalidArgs)
}

func TestDomains(t *testing.T) {
	assert.True(t, IsValidDomain(DomainSys))
	assert.True(t, IsValidDomain(WildcardDomain))
	assert.True(t, IsValidDomain(PartnerDomain(partnerA)))
	assert.False(t, IsValidDomain("partner:"))
	assert.False(t, IsValidDomain("fleet:"+partnerA))
	assert.Equal(t, DomainSys, DomainForPartner(""))
	assert.Equal(t, PartnerDomain(partnerA), DomainForPartner(partnerA))
}

func TestSubjectFromContext(t *testing.T) {
	_, err := SubjectFromContext(context.Background())
	assert.ErrorIs(t, err, ErrNoSubjectInContext)

	ctx := reqctx.WithPrincipal(context.Background(), &reqctx.Principal{Name: "cron", Role: "scheduler"})
	sub, err := SubjectFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, GroupSubject("apikey:cron"), sub)
}
