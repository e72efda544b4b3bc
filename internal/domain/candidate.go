package domain

import "sort"

// Candidate is a search or ranking hit.
type Candidate struct {
	ID           Scalar            `json:"id"`
	ParsedResume *ParsedResume     `json:"parsed_resume"`
	MatchScores  map[string]Scalar `json:"match_scores"`
}

// ScoreNames returns the match score keys in display order.
func (c Candidate) ScoreNames() []string {
	names := make([]string, 0, len(c.MatchScores))
	for name := range c.MatchScores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SearchParams is the candidate search filter. All three keys are always
// sent; the API rejects a query where none of them narrows the search.
type SearchParams struct {
	Skills     string `form:"skills" validate:"max=500,skill_list"`
	Experience int    `form:"experience" validate:"gte=0,lte=60"`
	Location   string `form:"location" validate:"max=200"`
}

// RankParams selects candidates ranked against a job. Nil MinScore or
// Limit are left out of the query.
type RankParams struct {
	JobID    string   `form:"job_id" validate:"required,max=100"`
	MinScore *float64 `form:"min_score" validate:"omitempty,gte=0,lte=100"`
	Limit    *int     `form:"limit" validate:"omitempty,gte=1,lte=100"`
}

const (
	DefaultRankMinScore = 0.0
	DefaultRankLimit    = 10
)

type SearchOutcome string

const (
	SearchFound      SearchOutcome = "found"      // 2xx list of candidates
	SearchRejected   SearchOutcome = "rejected"   // the API refused the query
	SearchUnexpected SearchOutcome = "unexpected" // 2xx body of another shape
	SearchFailed     SearchOutcome = "failed"     // transport failure
)

// SearchResult is the tagged outcome of a candidate search.
type SearchResult struct {
	Outcome    SearchOutcome
	Candidates []Candidate
	Reason     string
}

// APIClients builds per-request clients bound to a bearer token.
// An empty token yields an unauthenticated client.
type APIClients interface {
	Auth(token string) AuthClient
	Candidate(token string) CandidateClient
	Job(token string) JobClient
}
