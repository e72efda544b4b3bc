package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
)

type JobInput struct {
	Title              string `json:"title" form:"title" validate:"required,max=200,no_emoji"`
	Company            string `json:"company" form:"company" validate:"required,max=200,no_emoji"`
	Location           string `json:"location" form:"location" validate:"required,max=200,no_emoji"`
	RequiredExperience int    `json:"required_experience" form:"required_experience" validate:"gte=0,lte=60"`
	Description        string `json:"job_description" form:"job_description" validate:"required"`
}

type Job struct {
	ID                 Scalar    `json:"id"`
	Title              string    `json:"title"`
	Company            string    `json:"company"`
	Location           string    `json:"location"`
	RequiredExperience Scalar    `json:"required_experience"`
	Description        string    `json:"job_description"`
	ParsedJD           *ParsedJD `json:"parsed_jd"`
}

// JDCategory is one parsed job-description section. List values land in
// Items, anything else in Text.
type JDCategory struct {
	Name  string
	Items TextList
	Text  string
}

// ParsedJD is the parsed job description: named sections plus skills.
type ParsedJD struct {
	Categories []JDCategory
	Skills     Skills
}

// UnmarshalJSON splits the parsed_jd object into skills and the remaining
// categories, ordered by name. A skills value that is not an object is kept
// as an ordinary category.
func (p *ParsedJD) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := ParsedJD{}
	for name, value := range raw {
		trimmed := bytes.TrimSpace(value)
		if name == "skills" && len(trimmed) > 0 && trimmed[0] == '{' {
			if err := json.Unmarshal(trimmed, &out.Skills); err != nil {
				return err
			}
			continue
		}

		cat := JDCategory{Name: name}
		if len(trimmed) > 0 && trimmed[0] == '[' {
			if err := cat.Items.UnmarshalJSON(trimmed); err != nil {
				return err
			}
		} else {
			var text Scalar
			if err := text.UnmarshalJSON(value); err != nil {
				return err
			}
			cat.Text = text.String()
		}
		out.Categories = append(out.Categories, cat)
	}

	sort.Slice(out.Categories, func(i, j int) bool {
		return out.Categories[i].Name < out.Categories[j].Name
	})
	*p = out
	return nil
}

type JobClient interface {
	CreateJob(ctx context.Context, input JobInput) (*Job, error)
	GetJob(ctx context.Context, jobID string) (*Job, error)
	SearchCandidates(ctx context.Context, params SearchParams) (*SearchResult, error)
	RankCandidates(ctx context.Context, params RankParams) ([]Candidate, error)
	SetToken(token string)
}

type RecruiterUsecase interface {
	CreateJob(ctx context.Context, sess *Session, input JobInput) (*Job, error)
	GetJob(ctx context.Context, sess *Session, jobID string) (*Job, error)
	SearchCandidates(ctx context.Context, sess *Session, params SearchParams) (*SearchResult, error)
	RankCandidates(ctx context.Context, sess *Session, params RankParams) ([]Candidate, error)
	ExportRanking(ctx context.Context, sess *Session, params RankParams) ([]byte, string, error)
}
