package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
)

type Experience struct {
	Title            Scalar   `json:"title"`
	Company          Scalar   `json:"company"`
	Period           Scalar   `json:"period"`
	Responsibilities TextList `json:"responsibilities"`
}

type Education struct {
	Degree      Scalar `json:"degree"`
	Institution Scalar `json:"institution"`
	Period      Scalar `json:"period"`
}

type Skills struct {
	Technical TextList `json:"technical"`
	Soft      TextList `json:"soft"`
}

// UnmarshalJSON accepts the technical/soft object or, failing that, a bare
// list or value taken as technical skills.
func (s *Skills) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var v struct {
			Technical TextList `json:"technical"`
			Soft      TextList `json:"soft"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = Skills{Technical: v.Technical, Soft: v.Soft}
		return nil
	}
	var technical TextList
	if err := technical.UnmarshalJSON(data); err != nil {
		return err
	}
	*s = Skills{Technical: technical}
	return nil
}

// ParsedResume is the structured resume produced by the API parser.
type ParsedResume struct {
	PersonalInfo   map[string]Scalar `json:"personal_info"`
	Experience     []Experience      `json:"experience"`
	Education      []Education       `json:"education"`
	Skills         Skills            `json:"skills"`
	Certifications TextList          `json:"certifications"`
	Languages      TextList          `json:"languages"`
}

type Resume struct {
	ParsedResume    *ParsedResume `json:"parsed_resume"`
	RawText         string        `json:"raw_text"`
	TotalExperience Scalar        `json:"total_experience"`
}

type UploadResult struct {
	Message     string `json:"message"`
	CandidateID Scalar `json:"candidate_id"`
}

// ResumeUpload is a file received from the upload form.
type ResumeUpload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

type CandidateClient interface {
	UploadResume(ctx context.Context, filePath, userID string) (*UploadResult, error)
	GetResume(ctx context.Context, userID string) (*Resume, error)
	SetToken(token string)
}

type CandidateUsecase interface {
	UploadResume(ctx context.Context, sess *Session, upload ResumeUpload) (*UploadResult, error)
	GetResume(ctx context.Context, sess *Session) (*Resume, error)
}
