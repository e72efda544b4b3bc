package api_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"resume-ranker/internal/domain"
	"resume-ranker/internal/repository/api"
	"resume-ranker/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempResume(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "alice_cv.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 resume"), 0o600))
	return path
}

func TestUploadResumeMissingFile(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	client := api.NewCandidateClient(srv.URL, srv.Client())
	client.SetToken("T")

	_, err := client.UploadResume(context.Background(), filepath.Join(t.TempDir(), "nope.pdf"), "1")

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindPrecondition, appErr.Kind)
	assert.Equal(t, "File not found", appErr.Message)
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestUploadResumeSendsMultipart(t *testing.T) {
	path := writeTempResume(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/candidate/upload_resume", r.URL.Path)
		assert.Equal(t, "Bearer T", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "1", r.FormValue("user_id"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "alice_cv.pdf", header.Filename)
		content, _ := io.ReadAll(file)
		assert.Equal(t, "%PDF-1.4 resume", string(content))

		_, _ = io.WriteString(w, `{"message":"Resume uploaded","candidate_id":"c-1"}`)
	}))
	defer srv.Close()

	client := api.NewCandidateClient(srv.URL, srv.Client())
	client.SetToken("T")

	res, err := client.UploadResume(context.Background(), path, "1")
	require.NoError(t, err)
	assert.Equal(t, "c-1", res.CandidateID.String())
}

func TestGetResumeDecodesParsedResume(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/candidate/resume", r.URL.Path)
		assert.Equal(t, "Bearer T", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{
			"parsed_resume": {
				"personal_info": {"name": "Alice", "phone": null},
				"experience": [{"title": "Engineer", "company": "Acme", "period": "2020-2023", "responsibilities": ["APIs"]}],
				"education": [],
				"skills": {"technical": ["go"], "soft": []},
				"certifications": null,
				"languages": ["English"]
			},
			"raw_text": "Alice Engineer",
			"total_experience": 3
		}`)
	}))
	defer srv.Close()

	client := api.NewCandidateClient(srv.URL, srv.Client())
	client.SetToken("T")

	res, err := client.GetResume(context.Background(), "1")
	require.NoError(t, err)
	require.NotNil(t, res.ParsedResume)
	assert.Equal(t, "Alice", res.ParsedResume.PersonalInfo["name"].String())
	assert.Equal(t, "Acme", res.ParsedResume.Experience[0].Company.String())
	assert.Equal(t, "3", res.TotalExperience.String())
	assert.Equal(t, "Alice Engineer", res.RawText)
}

func TestGetResumeAcceptsLooseLeaves(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{
			"parsed_resume": {
				"experience": [
					{"title": "Engineer", "company": null, "period": 2},
					{"title": 42, "company": "Acme", "period": null}
				],
				"education": [{"degree": "BSc", "institution": null, "period": 2019}],
				"skills": ["go", "sql"]
			}
		}`)
	}))
	defer srv.Close()

	res, err := api.NewCandidateClient(srv.URL, srv.Client()).GetResume(context.Background(), "1")
	require.NoError(t, err)
	require.NotNil(t, res.ParsedResume)

	exp := res.ParsedResume.Experience
	require.Len(t, exp, 2)
	assert.Equal(t, "2", exp[0].Period.String())
	assert.Empty(t, exp[0].Company.String())
	assert.Equal(t, "42", exp[1].Title.String())
	assert.Empty(t, exp[1].Period.String())

	edu := res.ParsedResume.Education
	require.Len(t, edu, 1)
	assert.Equal(t, "2019", edu[0].Period.String())
	assert.Empty(t, edu[0].Institution.String())

	assert.Equal(t, domain.TextList{"go", "sql"}, res.ParsedResume.Skills.Technical)
}

func TestGetResumeBadBodyIsDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html>oops</html>`)
	}))
	defer srv.Close()

	_, err := api.NewCandidateClient(srv.URL, srv.Client()).GetResume(context.Background(), "1")
	assert.True(t, apperror.Is(err, apperror.KindDecode))
}
