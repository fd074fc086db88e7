package domain

// Role is the caller's role as asserted by the auth collaborator
type Role string

const (
	RoleAdmin Role = "admin"
	RoleHost  Role = "host"
)

// Identity is the authenticated caller handed in by the request layer.
// The core never looks up users itself; it only checks the role.
type Identity struct {
	HostID string
	Role   Role
}

// Authorize fails closed unless the caller carries a host or admin role.
// Every mutating operation runs this before touching any state.
func (id Identity) Authorize() error {
	if id.HostID == "" {
		return ErrUnauthorized
	}
	if id.Role != RoleAdmin && id.Role != RoleHost {
		return ErrUnauthorized
	}
	return nil
}

// IsAdmin reports whether the caller may use the admin-only surfaces
func (id Identity) IsAdmin() bool {
	return id.Role == RoleAdmin
}
