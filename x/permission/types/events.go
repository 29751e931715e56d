package types

// Event types and attributes
const (
	EventTypeCreatePermission = "create_permission"

	EventAttrPermission   = "permission"
	EventAttrPermissioned = "permissioned"
	EventAttrOwner        = "owner"
	EventAttrMembers      = "members"
)
