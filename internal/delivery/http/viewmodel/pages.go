package viewmodel

import "resume-ranker/internal/domain"

type AuthPage struct {
	*Layout
	Username string
	Email    string
	UserType string
}

type ProfilePage struct {
	*Layout
	ActionPath string
}

type ResumeUploadPage struct {
	*Layout
	Accept string
}

type ResumeViewPage struct {
	*Layout
	CandidateID string
	Resume      *domain.Resume
}

type JobFormPage struct {
	*Layout
	Input domain.JobInput
}

type JobLookupPage struct {
	*Layout
	JobID string
	Job   *domain.Job
}

type SearchPage struct {
	*Layout
	Params     domain.SearchParams
	Searched   bool
	Candidates []domain.Candidate
}

// CandidateCard is one expandable search or ranking hit. Ranked cards also
// list the match scores.
type CandidateCard struct {
	domain.Candidate
	Ranked bool
}

type RankPage struct {
	*Layout
	JobID      string
	MinScore   float64
	Limit      int
	Ranked     bool
	Candidates []domain.Candidate
	ExportURL  string
}
