package enums

import "strings"

type Role string

const (
	RoleStudent Role = "student"
	RoleTutor   Role = "tutor"
)

func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleStudent:
		return RoleStudent, true
	case RoleTutor:
		return RoleTutor, true
	default:
		return "", false
	}
}

func (r Role) IsValid() bool {
	return r == RoleStudent || r == RoleTutor
}

// Opposite returns the role scored against this one in a match request.
func (r Role) Opposite() Role {
	if r == RoleStudent {
		return RoleTutor
	}
	return RoleStudent
}
