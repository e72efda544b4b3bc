package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"resume-ranker/internal/domain"
	"resume-ranker/pkg/apperror"
	"resume-ranker/pkg/security"
	"resume-ranker/pkg/security/antivirus"

	"github.com/google/uuid"
)

type candidateUsecase struct {
	clients  domain.APIClients
	scanner  antivirus.Scanner
	tempDir  string
	maxBytes int64
}

// NewCandidateUsecase stages uploads under tempDir. A nil scanner skips the
// malware check.
func NewCandidateUsecase(clients domain.APIClients, scanner antivirus.Scanner, tempDir string, maxBytes int64) domain.CandidateUsecase {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	if scanner == nil {
		scanner = antivirus.NewNoOpScanner()
	}
	return &candidateUsecase{clients: clients, scanner: scanner, tempDir: tempDir, maxBytes: maxBytes}
}

// UploadResume validates the upload, stages it in a private temp directory
// and forwards it. The staged copy is removed whatever the outcome.
func (u *candidateUsecase) UploadResume(ctx context.Context, sess *domain.Session, upload domain.ResumeUpload) (*domain.UploadResult, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	if upload.Content == nil {
		return nil, apperror.BadRequest("Please choose a PDF or DOCX file")
	}
	if u.maxBytes > 0 && upload.Size > u.maxBytes {
		return nil, apperror.BadRequest(fmt.Sprintf("File is too large (max %d MB)", u.maxBytes>>20))
	}

	head := make([]byte, security.SniffLength)
	n, err := io.ReadFull(upload.Content, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, apperror.BadRequest("Could not read the uploaded file")
	}
	head = head[:n]

	check := security.ValidateResume(upload.Filename, head)
	if !check.Valid {
		return nil, apperror.BadRequest("Invalid resume file: " + check.Error)
	}

	dir := filepath.Join(u.tempDir, "resume-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, apperror.Internal(err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, baseName(upload.Filename, check.Extension))
	if err := u.stage(path, io.MultiReader(bytes.NewReader(head), upload.Content)); err != nil {
		return nil, err
	}
	if err := u.scan(ctx, path); err != nil {
		return nil, err
	}

	return u.clients.Candidate(sess.Token).UploadResume(ctx, path, sess.UserID)
}

func (u *candidateUsecase) stage(path string, content io.Reader) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return apperror.Internal(err)
	}
	defer f.Close()

	if u.maxBytes > 0 {
		content = io.LimitReader(content, u.maxBytes+1)
	}
	written, err := io.Copy(f, content)
	if err != nil {
		return apperror.Internal(err)
	}
	if u.maxBytes > 0 && written > u.maxBytes {
		return apperror.BadRequest(fmt.Sprintf("File is too large (max %d MB)", u.maxBytes>>20))
	}
	return nil
}

func (u *candidateUsecase) scan(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return apperror.Internal(err)
	}
	defer f.Close()

	res := u.scanner.Scan(ctx, filepath.Base(path), f)
	switch {
	case res.Error != nil:
		return apperror.New(http.StatusServiceUnavailable, "The virus scan is unavailable. Please try again later.", res.Error)
	case res.Infected:
		return apperror.BadRequest("Invalid resume file: rejected by virus scan (" + res.ThreatName + ")")
	}
	return nil
}

func (u *candidateUsecase) GetResume(ctx context.Context, sess *domain.Session) (*domain.Resume, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	return u.clients.Candidate(sess.Token).GetResume(ctx, sess.UserID)
}

// baseName strips any client-side directory from an uploaded file name.
func baseName(name, ext string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	if name == "." || name == "/" || strings.HasPrefix(name, ".") {
		return "resume" + ext
	}
	return name
}
