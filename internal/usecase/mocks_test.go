package usecase_test

import (
	"context"
	"io"

	"resume-ranker/internal/domain"
	"resume-ranker/pkg/security/antivirus"

	"github.com/stretchr/testify/mock"
)

// MockClients hands out the same mock clients for every token and records
// the token each one was requested with.
type MockClients struct {
	mock.Mock
	auth      *MockAuthClient
	candidate *MockCandidateClient
	job       *MockJobClient
}

func newMockClients() *MockClients {
	return &MockClients{
		auth:      new(MockAuthClient),
		candidate: new(MockCandidateClient),
		job:       new(MockJobClient),
	}
}

func (m *MockClients) Auth(token string) domain.AuthClient {
	m.auth.token = token
	return m.auth
}

func (m *MockClients) Candidate(token string) domain.CandidateClient {
	m.candidate.token = token
	return m.candidate
}

func (m *MockClients) Job(token string) domain.JobClient {
	m.job.token = token
	return m.job
}

type MockAuthClient struct {
	mock.Mock
	token string
}

func (m *MockAuthClient) Register(ctx context.Context, input domain.RegisterInput) (*domain.RegisterResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RegisterResult), args.Error(1)
}

func (m *MockAuthClient) Login(ctx context.Context, username, password string) (*domain.LoginResult, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoginResult), args.Error(1)
}

func (m *MockAuthClient) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (*domain.Profile, error) {
	args := m.Called(ctx, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockAuthClient) SetToken(token string) { m.token = token }
func (m *MockAuthClient) Authenticated() bool  { return m.token != "" }

type MockCandidateClient struct {
	mock.Mock
	token string
}

func (m *MockCandidateClient) UploadResume(ctx context.Context, filePath, userID string) (*domain.UploadResult, error) {
	args := m.Called(ctx, filePath, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadResult), args.Error(1)
}

func (m *MockCandidateClient) GetResume(ctx context.Context, userID string) (*domain.Resume, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resume), args.Error(1)
}

func (m *MockCandidateClient) SetToken(token string) { m.token = token }

type MockJobClient struct {
	mock.Mock
	token string
}

func (m *MockJobClient) CreateJob(ctx context.Context, input domain.JobInput) (*domain.Job, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *MockJobClient) GetJob(ctx context.Context, jobID string) (*domain.Job, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *MockJobClient) SearchCandidates(ctx context.Context, params domain.SearchParams) (*domain.SearchResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SearchResult), args.Error(1)
}

func (m *MockJobClient) RankCandidates(ctx context.Context, params domain.RankParams) ([]domain.Candidate, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Candidate), args.Error(1)
}

func (m *MockJobClient) SetToken(token string) { m.token = token }

// stubScanner returns a fixed verdict and remembers what it saw.
type stubScanner struct {
	result  antivirus.ScanResult
	scanned string
}

func (s *stubScanner) Scan(ctx context.Context, filename string, data io.Reader) antivirus.ScanResult {
	b, _ := io.ReadAll(data)
	s.scanned = string(b)
	return s.result
}

func (s *stubScanner) Name() string { return "stub" }

func (s *stubScanner) Ping(ctx context.Context) error { return nil }
