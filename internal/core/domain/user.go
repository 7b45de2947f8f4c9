package domain

// AdminFilter narrows a credential lookup by the user's admin flag.
type AdminFilter int

const (
	AnyUser AdminFilter = iota
	AdminUser
	EmployeeUser
)

// Matches reports whether a user with the given admin flag passes the filter.
func (f AdminFilter) Matches(isAdmin bool) bool {
	switch f {
	case AdminUser:
		return isAdmin
	case EmployeeUser:
		return !isAdmin
	default:
		return true
	}
}

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// User models a login account. Admin users carry no EmployeeID; every
// non-admin user is paired with exactly one Employee.
type User struct {
	ID         int    `json:"id"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	IsAdmin    bool   `json:"isAdmin"`
	EmployeeID *int   `json:"employeeId,omitempty"`
}

// Identity returns the public projection of u (no password).
func (u User) Identity() Identity {
	id := Identity{ID: u.ID, Username: u.Username, IsAdmin: u.IsAdmin}
	if u.EmployeeID != nil {
		eid := *u.EmployeeID
		id.EmployeeID = &eid
	}
	return id
}

// Identity is what a session knows about its authenticated user.
type Identity struct {
	ID         int    `json:"id"`
	Username   string `json:"username"`
	IsAdmin    bool   `json:"isAdmin"`
	EmployeeID *int   `json:"employeeId,omitempty"`
}

// Role maps the admin flag onto the role names used for access control.
func (i Identity) Role() string {
	if i.IsAdmin {
		return RoleAdmin
	}
	return RoleEmployee
}
