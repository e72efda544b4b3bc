package web_test

import (
	"context"

	"resume-ranker/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockAuthUsecase struct {
	mock.Mock
}

func (m *MockAuthUsecase) Register(ctx context.Context, input domain.RegisterInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

func (m *MockAuthUsecase) Login(ctx context.Context, input domain.LoginInput) (*domain.Session, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockAuthUsecase) UpdateProfile(ctx context.Context, sess *domain.Session, update domain.ProfileUpdate) error {
	args := m.Called(ctx, sess, update)
	return args.Error(0)
}

type MockCandidateUsecase struct {
	mock.Mock
}

func (m *MockCandidateUsecase) UploadResume(ctx context.Context, sess *domain.Session, upload domain.ResumeUpload) (*domain.UploadResult, error) {
	args := m.Called(ctx, sess, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadResult), args.Error(1)
}

func (m *MockCandidateUsecase) GetResume(ctx context.Context, sess *domain.Session) (*domain.Resume, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resume), args.Error(1)
}

type MockRecruiterUsecase struct {
	mock.Mock
}

func (m *MockRecruiterUsecase) CreateJob(ctx context.Context, sess *domain.Session, input domain.JobInput) (*domain.Job, error) {
	args := m.Called(ctx, sess, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *MockRecruiterUsecase) GetJob(ctx context.Context, sess *domain.Session, jobID string) (*domain.Job, error) {
	args := m.Called(ctx, sess, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *MockRecruiterUsecase) SearchCandidates(ctx context.Context, sess *domain.Session, params domain.SearchParams) (*domain.SearchResult, error) {
	args := m.Called(ctx, sess, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SearchResult), args.Error(1)
}

func (m *MockRecruiterUsecase) RankCandidates(ctx context.Context, sess *domain.Session, params domain.RankParams) ([]domain.Candidate, error) {
	args := m.Called(ctx, sess, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Candidate), args.Error(1)
}

func (m *MockRecruiterUsecase) ExportRanking(ctx context.Context, sess *domain.Session, params domain.RankParams) ([]byte, string, error) {
	args := m.Called(ctx, sess, params)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

type stubHealth map[string]string

func (s stubHealth) Check(ctx context.Context) map[string]string { return s }
