package viewmodel

import (
	"resume-ranker/internal/delivery/http/session"
	"resume-ranker/internal/domain"
)

// User is the signed-in identity exposed to templates.
type User struct {
	ID       string
	Username string
	Email    string
	Role     string
}

// NavItem is one sidebar entry.
type NavItem struct {
	Label  string
	Path   string
	Active bool
}

// Alert is an inline message rendered by the page itself.
type Alert struct {
	Kind    string
	Message string
}

// Layout captures shared chrome metadata (titles, navigation, messages).
type Layout struct {
	Title       string
	PageTitle   string
	CurrentPage string
	CSRFToken   string
	RequestID   string
	User        *User
	Dashboard   string
	Nav         []NavItem
	Flashes     []session.Flash
	Alerts      []Alert
}

// LayoutProvider exposes layout metadata for renderer utilities.
type LayoutProvider interface {
	LayoutData() *Layout
}

func (l *Layout) LayoutData() *Layout { return l }

func (l *Layout) IsAuthenticated() bool { return l.User != nil }

// Alert appends an inline message.
func (l *Layout) Alert(kind, message string) {
	l.Alerts = append(l.Alerts, Alert{Kind: kind, Message: message})
}

var candidateNav = []NavItem{
	{Label: "Profile", Path: "/candidate/profile"},
	{Label: "Resume Management", Path: "/candidate/resume"},
}

var recruiterNav = []NavItem{
	{Label: "Profile", Path: "/recruiter/profile"},
	{Label: "Create Job", Path: "/recruiter/jobs/new"},
	{Label: "Search Jobs", Path: "/recruiter/jobs"},
	{Label: "Search Candidates", Path: "/recruiter/candidates"},
	{Label: "Rank Candidates", Path: "/recruiter/rank"},
}

// NewLayout builds the chrome for a page at current. A nil sess renders the
// signed-out chrome.
func NewLayout(pageTitle, current string, sess *domain.Session) *Layout {
	l := &Layout{
		Title:       "Resume Ranker",
		PageTitle:   pageTitle,
		CurrentPage: current,
	}
	if sess == nil {
		return l
	}

	l.User = &User{ID: sess.UserID, Username: sess.Username, Email: sess.Email, Role: string(sess.Role)}
	var nav []NavItem
	switch sess.Role {
	case domain.RoleCandidate:
		l.Dashboard = "Candidate Dashboard"
		nav = candidateNav
	case domain.RoleRecruiter:
		l.Dashboard = "Recruiter Dashboard"
		nav = recruiterNav
	}
	for _, item := range nav {
		item.Active = item.Path == current
		l.Nav = append(l.Nav, item)
	}
	return l
}
