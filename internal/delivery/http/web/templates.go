package web

import (
	"embed"
	"html/template"
	"strings"
	"unicode"

	"resume-ranker/internal/delivery/http/viewmodel"
	"resume-ranker/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded page set. Every page shares the partials
// defined in partials.html.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"titleCase": titleCase,
		"card":      candidateCard,
	}).ParseFS(templateFS, "templates/*.html")
}

func candidateCard(c domain.Candidate, ranked bool) viewmodel.CandidateCard {
	return viewmodel.CandidateCard{Candidate: c, Ranked: ranked}
}

// titleCase upper-cases the first letter of every word and lower-cases the
// rest. A word starts after any non-letter, so "date_of_birth" becomes
// "Date_Of_Birth".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) && prevLetter:
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsLetter(r):
			b.WriteRune(unicode.ToUpper(r))
		default:
			b.WriteRune(r)
		}
		prevLetter = unicode.IsLetter(r)
	}
	return b.String()
}
