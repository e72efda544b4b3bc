package domain

type Role string

const (
	RoleCandidate Role = "candidate"
	RoleRecruiter Role = "recruiter"
)

// ParseRole reports whether s names a dashboard role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleCandidate, RoleRecruiter:
		return Role(s), true
	}
	return "", false
}

// DashboardPath is where a signed-in user of this role lands.
// Unknown roles go back to the login page.
func (r Role) DashboardPath() string {
	switch r {
	case RoleCandidate:
		return "/candidate/profile"
	case RoleRecruiter:
		return "/recruiter/profile"
	default:
		return "/login"
	}
}

// Session is the signed-in identity kept in the session cookie.
// It is created on login, updated on profile change and dropped on sign-out.
type Session struct {
	Token    string
	UserID   string
	Username string
	Email    string
	Role     Role
}

// Valid reports whether the session carries a token. Safe on nil.
func (s *Session) Valid() bool {
	return s != nil && s.Token != ""
}

// Apply merges the non-empty fields of a profile update.
func (s *Session) Apply(u ProfileUpdate) {
	if u.Username != "" {
		s.Username = u.Username
	}
	if u.Email != "" {
		s.Email = u.Email
	}
}
