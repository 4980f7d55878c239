package entity

// Role is the closed set of authorization roles an account can hold.
type Role string

const (
	RoleStudent           Role = "student"
	RolePendingInstructor Role = "pending-instructor"
	RoleInstructor        Role = "instructor"
	RoleAdmin             Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RolePendingInstructor, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }
