package api

import (
	"net/http"

	"resume-ranker/internal/domain"
)

// Factory hands out fresh clients bound to a bearer token. The underlying
// http.Client (and its connection pool) is shared; client state is not.
type Factory struct {
	baseURL    string
	httpClient *http.Client
}

func NewFactory(baseURL string, httpClient *http.Client) *Factory {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Factory{baseURL: baseURL, httpClient: httpClient}
}

func (f *Factory) Auth(token string) domain.AuthClient {
	c := NewAuthClient(f.baseURL, f.httpClient)
	c.SetToken(token)
	return c
}

func (f *Factory) Candidate(token string) domain.CandidateClient {
	c := NewCandidateClient(f.baseURL, f.httpClient)
	c.SetToken(token)
	return c
}

func (f *Factory) Job(token string) domain.JobClient {
	c := NewJobClient(f.baseURL, f.httpClient)
	c.SetToken(token)
	return c
}

var _ domain.APIClients = (*Factory)(nil)
