package domain

// Role is the caller's role as asserted by the API gateway
type Role string

const (
	RoleCustomer Role = "customer"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

// IsValid returns true for a known role
func (r Role) IsValid() bool {
	return r == RoleCustomer || r == RoleProvider || r == RoleAdmin
}

// Actor identifies the authenticated caller of an operation
type Actor struct {
	UserID int64
	Role   Role
}

// IsAdmin returns true for platform operators
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
