package web

import (
	"strings"

	"resume-ranker/internal/delivery/http/middleware"
	"resume-ranker/internal/delivery/http/session"
	"resume-ranker/internal/delivery/http/viewmodel"
	"resume-ranker/internal/domain"
	"resume-ranker/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const resumePath = "/candidate/resume"

type CandidateHandler struct {
	candidateUC domain.CandidateUsecase
	log         *zap.Logger
}

func NewCandidateHandler(group *gin.RouterGroup, candidateUC domain.CandidateUsecase, log *zap.Logger, uploadLimit gin.HandlerFunc) {
	handler := &CandidateHandler{
		candidateUC: candidateUC,
		log:         log,
	}

	group.GET("/resume", handler.UploadForm)
	group.POST("/resume", uploadLimit, handler.Upload)
	group.GET("/resume/view", handler.View)
}

func (h *CandidateHandler) UploadForm(c *gin.Context) {
	render(c, "resume_upload.html", &viewmodel.ResumeUploadPage{
		Layout: newLayout(c, "Resume Management", resumePath, middleware.CurrentSession(c)),
		Accept: strings.Join(security.AllowedExtensions(), ","),
	})
}

func (h *CandidateHandler) Upload(c *gin.Context) {
	sess := middleware.CurrentSession(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		session.AddFlash(c, session.FlashWarning, "Please choose a PDF or DOCX file")
		redirect(c, resumePath)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.log.Error("Failed to open uploaded file", zap.String("filename", fileHeader.Filename), zap.Error(err))
		session.AddFlash(c, session.FlashError, "Could not read the uploaded file")
		redirect(c, resumePath)
		return
	}
	defer file.Close()

	result, err := h.candidateUC.UploadResume(c.Request.Context(), sess, domain.ResumeUpload{
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
		Content:  file,
	})
	if err != nil {
		h.log.Error("Resume upload failed", zap.String("user_id", sess.UserID), zap.String("filename", fileHeader.Filename), zap.Error(err))
		session.AddFlash(c, session.FlashError, userMessage(err))
		redirect(c, resumePath)
		return
	}

	h.log.Info("Resume uploaded", zap.String("user_id", sess.UserID), zap.String("candidate_id", result.CandidateID.String()))
	session.AddFlash(c, session.FlashSuccess, "Resume uploaded successfully!")
	redirect(c, resumePath)
}

func (h *CandidateHandler) View(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	page := &viewmodel.ResumeViewPage{
		Layout:      newLayout(c, "Resume Management", resumePath, sess),
		CandidateID: sess.UserID,
	}

	resume, err := h.candidateUC.GetResume(c.Request.Context(), sess)
	if err != nil {
		h.log.Error("Failed to load resume", zap.String("user_id", sess.UserID), zap.Error(err))
		page.Alert(session.FlashError, "Failed to load resume")
	} else {
		page.Resume = resume
	}
	render(c, "resume_view.html", page)
}
