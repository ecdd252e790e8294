package core

// Roles, as issued by the identity provider.
const (
	RoleHOD     = "hod"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// Actor is the authenticated caller on whose behalf an operation runs.
// It is resolved from the identity provider's claims and is required
// non-empty before any domain operation.
type Actor struct {
	UID        string
	Name       string
	Role       string
	Department string
}

// IsStaff reports whether the actor may publish and manage assignments.
func (a Actor) IsStaff() bool {
	return a.Role == RoleHOD || a.Role == RoleTeacher
}

func (a Actor) IsZero() bool {
	return a.UID == "" || a.Department == ""
}
