package auth

// Roles carried in the token's role claim.
const (
	// RoleAdmin maps to a superuser caller.
	RoleAdmin = "admin"
	// RoleMember is an ordinary signed-in user.
	RoleMember = "member"
)
