package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"resume-ranker/internal/domain"
	"resume-ranker/pkg/apperror"
	"resume-ranker/pkg/logger"

	"go.uber.org/zap"
)

// CandidateClient talks to the resume endpoints. It has no default
// Content-Type; multipart requests set their own boundary.
type CandidateClient struct {
	*Client
}

func NewCandidateClient(baseURL string, httpClient *http.Client) *CandidateClient {
	c := &CandidateClient{Client: newClient(baseURL, httpClient, logger.Named("CandidateClient"), nil)}
	c.log.Debug("CandidateClient initialized", zap.String("base_url", c.baseURL))
	return c
}

// UploadResume posts the file at filePath as multipart part "file" along
// with the user_id field. A missing file fails before any request is made.
func (c *CandidateClient) UploadResume(ctx context.Context, filePath, userID string) (*domain.UploadResult, error) {
	if _, err := os.Stat(filePath); err != nil {
		c.log.Error("File not found", zap.String("path", filePath), zap.Error(err))
		return nil, apperror.Precondition("File not found")
	}

	body, contentType, err := multipartResume(filePath, userID)
	if err != nil {
		c.log.Error("Resume upload error", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	c.log.Info("Attempting to upload resume", zap.String("user_id", userID))
	req, err := c.newRequest(ctx, http.MethodPost, "/candidate/upload_resume", nil, body, contentType)
	if err != nil {
		return nil, err
	}

	_, raw, err := c.do(req)
	if err != nil {
		c.log.Error("Resume upload failed", append(errorFields(err), zap.String("user_id", userID))...)
		return nil, err
	}
	out, err := decodeJSON[domain.UploadResult](raw)
	if err != nil {
		c.log.Error("Resume upload failed", append(errorFields(err), zap.String("user_id", userID))...)
		return nil, err
	}

	c.log.Info("Successfully uploaded resume", zap.String("user_id", userID))
	return out, nil
}

// GetResume fetches the signed-in candidate's parsed resume. userID only
// identifies the call in the logs; the API resolves the owner from the token.
func (c *CandidateClient) GetResume(ctx context.Context, userID string) (*domain.Resume, error) {
	c.log.Info("Fetching resume", zap.String("user_id", userID))

	req, err := c.newRequest(ctx, http.MethodGet, "/candidate/resume", nil, nil, "")
	if err != nil {
		return nil, err
	}

	_, raw, err := c.do(req)
	if err != nil {
		c.log.Error("Resume retrieval failed", append(errorFields(err), zap.String("user_id", userID))...)
		return nil, err
	}
	out, err := decodeJSON[domain.Resume](raw)
	if err != nil {
		c.log.Error("Resume retrieval failed", append(errorFields(err), zap.String("user_id", userID))...)
		return nil, err
	}

	c.log.Info("Successfully retrieved resume", zap.String("user_id", userID))
	return out, nil
}

func multipartResume(filePath, userID string) (io.Reader, string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", apperror.Precondition("File not found")
		}
		return nil, "", apperror.Precondition(fmt.Sprintf("cannot open file: %v", err))
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return nil, "", apperror.Precondition(err.Error())
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", apperror.Precondition(fmt.Sprintf("cannot read file: %v", err))
	}
	if err := w.WriteField("user_id", userID); err != nil {
		return nil, "", apperror.Precondition(err.Error())
	}
	if err := w.Close(); err != nil {
		return nil, "", apperror.Precondition(err.Error())
	}
	return &buf, w.FormDataContentType(), nil
}

var _ domain.CandidateClient = (*CandidateClient)(nil)
