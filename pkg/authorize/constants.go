package authorize

import (
	"regexp"
	"strings"
)

type Action string
type Resource string
type Role string
type Domain string

const (
	ActionCreate  Action = "create"
	ActionRead    Action = "read"
	ActionUpdate  Action = "update"
	ActionList    Action = "list"
	ActionManage  Action = "manage"
	ActionExecute Action = "execute"

	WildcardAction Action = "*"
)

var KnownActions = map[Action]struct{}{
	ActionCreate: {}, ActionRead: {}, ActionUpdate: {}, ActionList: {},
	ActionManage: {}, ActionExecute: {},
}

const (
	WildcardResource Resource = "*"

	ResourceBooking Resource = "booking"
	ResourcePayment Resource = "payment"
	ResourceJob     Resource = "job"
	ResourcePartner Resource = "partner"
	ResourceQuote   Resource = "quote"
)

var KnownResources = map[Resource]struct{}{
	ResourceBooking: {}, ResourcePayment: {}, ResourceJob: {}, ResourcePartner: {}, ResourceQuote: {},
}

// Roles are the policy subjects API keys are grouped into.
const (
	WildcardRole Role = "*"

	RoleAdmin     Role = "role:admin"
	RoleScheduler Role = "role:scheduler"
	RoleService   Role = "role:service"
	RolePartner   Role = "role:partner"
)

var KnownRoles = map[Role]struct{}{
	RoleAdmin: {}, RoleScheduler: {}, RoleService: {}, RolePartner: {},
}

// RoleFromName maps the role names used in configuration ("admin",
// "partner", ...) to casbin roles.
func RoleFromName(name string) (Role, bool) {
	r := Role("role:" + strings.ToLower(strings.TrimSpace(name)))
	_, ok := KnownRoles[r]
	return r, ok
}

const (
	DomainSys      Domain = "sys"
	WildcardDomain Domain = "*"

	DomainPrefixPartner = "partner:"
)

var reUUID = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

func PartnerDomain(partnerID string) Domain {
	return Domain(DomainPrefixPartner + partnerID)
}

// IsValidDomain accepts sys, the wildcard and partner:<uuid>.
func IsValidDomain(d Domain) bool {
	if d == DomainSys || d == WildcardDomain {
		return true
	}
	id, ok := strings.CutPrefix(string(d), DomainPrefixPartner)
	return ok && reUUID.MatchString(id)
}

type PolicyEffect string

const (
	EffectAllow PolicyEffect = "allow"
	EffectDeny  PolicyEffect = "deny"
)

// GroupSubject is the g.sub in casbin: one API key principal.
type GroupSubject string

// APIKeySubject names the casbin subject of a configured API key.
func APIKeySubject(name string) GroupSubject {
	return GroupSubject("apikey:" + name)
}

// Grouping rows: g, subject, role, domain
type GroupingPolicy struct {
	Subject GroupSubject
	Role    Role
	Domain  Domain
}

// Permission rows: p, role, domain, resource, action, eft
type PermissionPolicy struct {
	Subject Role
	Domain  Domain
	Object  Resource
	Action  Action
	Effect  PolicyEffect
}
