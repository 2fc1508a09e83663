package business

// PortalType identifies which portal a request originates from
type PortalType string

const (
	PortalManagementAdmin PortalType = "management-admin"
	PortalISPAdmin        PortalType = "isp-admin"
	PortalCustomer        PortalType = "customer"
	PortalReseller        PortalType = "reseller"
	PortalTechnician      PortalType = "technician"
)

// Permissions checked by the revenue engine
const (
	PermissionRevenueRead         = "revenue:read"
	PermissionCustomerRead        = "customer:read"
	PermissionCommissionRead      = "commission:read"
	PermissionPartnerRead         = "partner:read"
	PermissionPlatformRevenueRead = "platform:revenue:read"
	PermissionTenantAnalyticsRead = "tenant:analytics:read"
)

// KnownPortalTypes lists every portal the factory can configure
var KnownPortalTypes = []PortalType{
	PortalManagementAdmin,
	PortalISPAdmin,
	PortalCustomer,
	PortalReseller,
	PortalTechnician,
}

// IsValid reports whether the portal type is one the platform recognises
func (p PortalType) IsValid() bool {
	for _, known := range KnownPortalTypes {
		if p == known {
			return true
		}
	}
	return false
}

// PortalContext is the access-control scope an engine is bound to. It is
// fixed at engine construction and never mutated afterwards.
type PortalContext struct {
	PortalType  PortalType        `json:"portal_type"`
	UserID      string            `json:"user_id"`
	TenantID    string            `json:"tenant_id,omitempty"`
	Permissions []string          `json:"permissions"`
	Preferences map[string]string `json:"preferences,omitempty"`
}

// HasPermission reports whether the context carries the given permission
func (c PortalContext) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// HasAnyPermission reports whether the context carries at least one of the
// given permissions
func (c PortalContext) HasAnyPermission(permissions ...string) bool {
	for _, p := range permissions {
		if c.HasPermission(p) {
			return true
		}
	}
	return false
}
