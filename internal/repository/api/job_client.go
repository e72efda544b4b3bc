package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"resume-ranker/internal/domain"
	"resume-ranker/pkg/apperror"
	"resume-ranker/pkg/logger"

	"go.uber.org/zap"
)

// JobClient talks to the job endpoints and to the candidate search and
// ranking endpoints used by recruiters.
type JobClient struct {
	*Client
}

func NewJobClient(baseURL string, httpClient *http.Client) *JobClient {
	defaults := http.Header{headerContentType: []string{contentTypeJSON}}
	c := &JobClient{Client: newClient(baseURL, httpClient, logger.Named("JobClient"), defaults)}
	c.log.Debug("JobClient initialized", zap.String("base_url", c.baseURL))
	return c
}

func (c *JobClient) CreateJob(ctx context.Context, input domain.JobInput) (*domain.Job, error) {
	c.log.Info("Creating new job", zap.String("title", input.Title))

	body, err := encodeJSON(input)
	if err != nil {
		return nil, err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/job/create_job", nil, body, "")
	if err != nil {
		return nil, err
	}

	_, raw, err := c.do(req)
	if err != nil {
		c.log.Error("Job creation failed", append(errorFields(err), zap.String("title", input.Title))...)
		return nil, err
	}
	out, err := decodeJSON[domain.Job](raw)
	if err != nil {
		c.log.Error("Job creation failed", append(errorFields(err), zap.String("title", input.Title))...)
		return nil, err
	}

	c.log.Info("Job created successfully", zap.String("job_id", out.ID.String()))
	return out, nil
}

func (c *JobClient) GetJob(ctx context.Context, jobID string) (*domain.Job, error) {
	if jobID == "" {
		return nil, apperror.Precondition("Job ID is required")
	}
	c.log.Info("Fetching job details", zap.String("job_id", jobID))

	req, err := c.newRequest(ctx, http.MethodGet, "/job/jobs/"+url.PathEscape(jobID), nil, nil, "")
	if err != nil {
		return nil, err
	}

	_, raw, err := c.do(req)
	if err != nil {
		c.log.Error("Job retrieval failed", append(errorFields(err), zap.String("job_id", jobID))...)
		return nil, err
	}
	out, err := decodeJSON[domain.Job](raw)
	if err != nil {
		c.log.Error("Job retrieval failed", append(errorFields(err), zap.String("job_id", jobID))...)
		return nil, err
	}

	c.log.Info("Job details retrieved successfully", zap.String("job_id", jobID))
	return out, nil
}

// SearchCandidates queries candidates by skills, experience and location.
// The returned result is never nil; err is nil only for SearchFound.
func (c *JobClient) SearchCandidates(ctx context.Context, params domain.SearchParams) (*domain.SearchResult, error) {
	query := url.Values{}
	query.Set("skills", params.Skills)
	query.Set("experience", strconv.Itoa(params.Experience))
	query.Set("location", params.Location)

	fields := []zap.Field{
		zap.String("skills", params.Skills),
		zap.Int("experience", params.Experience),
		zap.String("location", params.Location),
	}
	c.log.Info("Searching candidates", fields...)

	req, err := c.newRequest(ctx, http.MethodGet, "/candidate/search", query, nil, "")
	if err != nil {
		return &domain.SearchResult{Outcome: domain.SearchFailed, Reason: err.Error()}, err
	}

	status, raw, err := c.do(req)
	if err != nil {
		c.log.Error("Candidate search failed", append(errorFields(err), fields...)...)
		if apperror.Is(err, apperror.KindStatus) {
			return &domain.SearchResult{Outcome: domain.SearchRejected, Reason: err.Error()}, err
		}
		return &domain.SearchResult{Outcome: domain.SearchFailed, Reason: err.Error()}, err
	}

	res, err := classifySearch(status, raw)
	if err != nil {
		c.log.Error("Candidate search failed", append(errorFields(err), append(fields, zap.String("outcome", string(res.Outcome)))...)...)
		return res, err
	}

	c.log.Info("Candidate search completed successfully", zap.Int("count", len(res.Candidates)))
	return res, nil
}

// classifySearch tags a 2xx search body: a list is a hit set, an object
// with "error" is a rejection, anything else is unexpected.
func classifySearch(status int, raw []byte) (*domain.SearchResult, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 {
		switch trimmed[0] {
		case '[':
			var candidates []domain.Candidate
			if err := json.Unmarshal(trimmed, &candidates); err == nil {
				return &domain.SearchResult{Outcome: domain.SearchFound, Candidates: candidates}, nil
			}
		case '{':
			if reason, ok := errorMember(trimmed); ok {
				return &domain.SearchResult{Outcome: domain.SearchRejected, Reason: reason}, apperror.Status(status, reason)
			}
		}
	}
	err := apperror.Decode(errors.New("unexpected response format from search"))
	return &domain.SearchResult{Outcome: domain.SearchUnexpected, Reason: string(raw)}, err
}

// RankCandidates returns the ranked candidates exactly as the API lists
// them. The body may be a bare list or an object with "candidates".
func (c *JobClient) RankCandidates(ctx context.Context, params domain.RankParams) ([]domain.Candidate, error) {
	if params.JobID == "" {
		return nil, apperror.Precondition("Job ID is required")
	}

	query := url.Values{}
	query.Set("job_id", params.JobID)
	fields := []zap.Field{zap.String("job_id", params.JobID)}
	if params.MinScore != nil {
		query.Set("min_score", strconv.FormatFloat(*params.MinScore, 'f', -1, 64))
		fields = append(fields, zap.Float64("min_score", *params.MinScore))
	}
	if params.Limit != nil {
		query.Set("limit", strconv.Itoa(*params.Limit))
		fields = append(fields, zap.Int("limit", *params.Limit))
	}
	c.log.Info("Ranking candidates", fields...)

	req, err := c.newRequest(ctx, http.MethodGet, "/candidate/rank_candidates", query, nil, "")
	if err != nil {
		return nil, err
	}

	status, raw, err := c.do(req)
	if err != nil {
		c.log.Error("Candidate ranking failed", append(errorFields(err), fields...)...)
		return nil, err
	}
	candidates, err := decodeRanking(status, raw)
	if err != nil {
		c.log.Error("Candidate ranking failed", append(errorFields(err), fields...)...)
		return nil, err
	}

	c.log.Info("Candidates ranked successfully", zap.String("job_id", params.JobID), zap.Int("count", len(candidates)))
	return candidates, nil
}

func decodeRanking(status int, raw []byte) ([]domain.Candidate, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var candidates []domain.Candidate
		if err := json.Unmarshal(trimmed, &candidates); err != nil {
			return nil, apperror.Decode(err)
		}
		return candidates, nil
	}
	if len(trimmed) > 0 && trimmed[0] == '{' {
		if reason, ok := errorMember(trimmed); ok {
			return nil, apperror.Status(status, reason)
		}
		var wrapped struct {
			Candidates []domain.Candidate `json:"candidates"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, apperror.Decode(err)
		}
		if wrapped.Candidates == nil {
			return []domain.Candidate{}, nil
		}
		return wrapped.Candidates, nil
	}
	return nil, apperror.Decode(errors.New("unexpected response format from ranking"))
}

// errorMember returns the "error" member of a JSON object as text.
func errorMember(obj []byte) (string, bool) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(obj, &m); err != nil {
		return "", false
	}
	raw, ok := m["error"]
	if !ok {
		return "", false
	}
	var reason domain.Scalar
	if err := reason.UnmarshalJSON(raw); err != nil {
		return string(raw), true
	}
	return reason.String(), true
}

var _ domain.JobClient = (*JobClient)(nil)
