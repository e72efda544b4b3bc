package web_test

import (
	"net/http"
	"testing"

	"resume-ranker/internal/domain"
	"resume-ranker/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestResumeUpload(t *testing.T) {
	pdf := []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n%%EOF\n")

	t.Run("Should forward the file and flash success", func(t *testing.T) {
		a := newApp(t)
		b := a.browser(t)
		b.signIn(alice())
		b.get("/candidate/resume")
		a.candidate.On("UploadResume", mock.Anything, mock.Anything, mock.MatchedBy(func(u domain.ResumeUpload) bool {
			return u.Filename == "cv.pdf" && u.Size == int64(len(pdf)) && u.Content != nil
		})).Return(&domain.UploadResult{Message: "ok", CandidateID: "1"}, nil).Once()

		w := b.upload("/candidate/resume", "cv.pdf", pdf)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/candidate/resume", w.Header().Get("Location"))

		w = b.get("/candidate/resume")
		assert.Contains(t, w.Body.String(), "Resume uploaded successfully!")
		a.candidate.AssertExpectations(t)
	})

	t.Run("Should show the upload error", func(t *testing.T) {
		a := newApp(t)
		b := a.browser(t)
		b.signIn(alice())
		b.get("/candidate/resume")
		a.candidate.On("UploadResume", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, apperror.BadRequest("Invalid resume file: file extension not allowed: .txt (allowed: .docx, .pdf)")).Once()

		b.upload("/candidate/resume", "notes.txt", []byte("hello"))
		w := b.get("/candidate/resume")
		assert.Contains(t, w.Body.String(), "Invalid resume file: file extension not allowed: .txt")
	})

	t.Run("Should offer only pdf and docx", func(t *testing.T) {
		b := newApp(t).browser(t)
		b.signIn(alice())

		w := b.get("/candidate/resume")
		assert.Contains(t, w.Body.String(), `accept=".docx,.pdf"`)
	})
}

func TestResumeView(t *testing.T) {
	t.Run("Should render the parsed resume", func(t *testing.T) {
		a := newApp(t)
		b := a.browser(t)
		b.signIn(alice())
		a.candidate.On("GetResume", mock.Anything, mock.Anything).Return(&domain.Resume{
			ParsedResume: &domain.ParsedResume{
				PersonalInfo: map[string]domain.Scalar{"full_name": "Alice Doe", "phone": ""},
				Experience: []domain.Experience{{
					Title:            "Engineer",
					Company:          "Acme",
					Period:           "2019-2023",
					Responsibilities: domain.TextList{"Built APIs"},
				}},
				Skills: domain.Skills{Technical: domain.TextList{"go"}},
			},
			RawText:         "Alice Doe Engineer",
			TotalExperience: "4",
		}, nil).Once()

		w := b.get("/candidate/resume/view")
		body := w.Body.String()
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, body, "Candidate ID: 1")
		assert.Contains(t, body, "<strong>Full_Name:</strong> Alice Doe")
		assert.NotContains(t, body, "Phone:")
		assert.Contains(t, body, "Engineer at Acme")
		assert.Contains(t, body, "Built APIs")
		assert.Contains(t, body, "4 years")
		assert.Contains(t, body, "<code>go</code>")
		assert.Contains(t, body, "Alice Doe Engineer</textarea>")
	})

	t.Run("Should report a failed load", func(t *testing.T) {
		a := newApp(t)
		b := a.browser(t)
		b.signIn(alice())
		a.candidate.On("GetResume", mock.Anything, mock.Anything).Return(nil, apperror.Status(http.StatusNotFound, `{"detail":"Resume not found"}`)).Once()

		w := b.get("/candidate/resume/view")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Failed to load resume")
	})
}
