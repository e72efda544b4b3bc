package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"resume-ranker/internal/domain"
	"resume-ranker/internal/repository/api"
	"resume-ranker/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginSetsBearerForLaterCalls(t *testing.T) {
	var profileAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/token":
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Empty(t, r.Header.Get("Authorization"))
			assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "alice", r.PostForm.Get("username"))
			assert.Equal(t, "pw", r.PostForm.Get("password"))
			_, _ = io.WriteString(w, `{"access_token":"T","token_type":"bearer","user_type":"candidate","user_id":1,"email":"a@x.com"}`)
		case "/auth/users/me":
			assert.Equal(t, http.MethodPut, r.Method)
			profileAuth = r.Header.Get("Authorization")
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, map[string]any{"username": "x"}, body)
			_, _ = io.WriteString(w, `{"username":"x","email":"a@x.com"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := api.NewAuthClient(srv.URL, srv.Client())
	assert.False(t, client.Authenticated())

	res, err := client.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, "T", res.AccessToken)
	assert.Equal(t, "candidate", res.UserType)
	assert.Equal(t, "1", res.UserID.String())
	assert.True(t, client.Authenticated())
	assert.Equal(t, "T", client.Token())

	_, err = client.UpdateProfile(context.Background(), domain.ProfileUpdate{Username: "x"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer T", profileAuth)
}

func TestLoginWithoutTokenIsDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"token_type":"bearer"}`)
	}))
	defer srv.Close()

	client := api.NewAuthClient(srv.URL, srv.Client())
	_, err := client.Login(context.Background(), "alice", "pw")

	assert.True(t, apperror.Is(err, apperror.KindDecode))
	assert.False(t, client.Authenticated())
}

func TestRegisterSendsJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/register", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{
			"username":  "bob",
			"email":     "b@x.com",
			"password":  "secret1",
			"user_type": "recruiter",
		}, body)
		_, _ = io.WriteString(w, `{"id":7,"username":"bob","email":"b@x.com","user_type":"recruiter"}`)
	}))
	defer srv.Close()

	client := api.NewAuthClient(srv.URL, srv.Client())
	res, err := client.Register(context.Background(), domain.RegisterInput{
		Username: "bob", Email: "b@x.com", Password: "secret1", UserType: "recruiter",
	})
	require.NoError(t, err)
	assert.Equal(t, "7", res.ID.String())
	assert.False(t, client.Authenticated())
}

func TestSetTokenEmptyRemovesHeader(t *testing.T) {
	client := api.NewAuthClient("http://unused", nil)
	client.SetToken("abc")
	assert.True(t, client.Authenticated())
	client.SetToken("")
	assert.False(t, client.Authenticated())
}

func TestNonSuccessStatusKeepsRawBody(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"detail":"Username already registered"}`)
	}))
	defer srv.Close()

	ctx := context.Background()
	factory := api.NewFactory(srv.URL, srv.Client())
	tmp := writeTempResume(t)

	calls := map[string]func() error{
		"register": func() error {
			_, err := factory.Auth("").Register(ctx, domain.RegisterInput{Username: "bob"})
			return err
		},
		"login": func() error {
			_, err := factory.Auth("").Login(ctx, "bob", "pw")
			return err
		},
		"update profile": func() error {
			_, err := factory.Auth("T").UpdateProfile(ctx, domain.ProfileUpdate{Email: "b@x.com"})
			return err
		},
		"upload resume": func() error {
			_, err := factory.Candidate("T").UploadResume(ctx, tmp, "1")
			return err
		},
		"get resume": func() error {
			_, err := factory.Candidate("T").GetResume(ctx, "1")
			return err
		},
		"create job": func() error {
			_, err := factory.Job("T").CreateJob(ctx, domain.JobInput{Title: "Go dev"})
			return err
		},
		"get job": func() error {
			_, err := factory.Job("T").GetJob(ctx, "J1")
			return err
		},
		"search candidates": func() error {
			_, err := factory.Job("T").SearchCandidates(ctx, domain.SearchParams{Skills: "go"})
			return err
		},
		"rank candidates": func() error {
			_, err := factory.Job("T").RankCandidates(ctx, domain.RankParams{JobID: "J1"})
			return err
		},
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			err := call()
			appErr, ok := apperror.As(err)
			require.True(t, ok, "expected *AppError, got %v", err)
			assert.Equal(t, apperror.KindStatus, appErr.Kind)
			assert.Equal(t, http.StatusBadRequest, appErr.Code)
			assert.Equal(t, `{"detail":"Username already registered"}`, appErr.Message)
		})
	}
	assert.Equal(t, int32(len(calls)), atomic.LoadInt32(&hits))
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	client := api.NewAuthClient(base, nil)
	_, err := client.Login(context.Background(), "alice", "pw")

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindTransport, appErr.Kind)
	assert.Equal(t, appErr.Err.Error(), appErr.Message)
	assert.True(t, strings.Contains(appErr.Message, "/auth/token"))
}
