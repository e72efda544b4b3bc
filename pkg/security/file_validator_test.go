package security_test

import (
	"archive/zip"
	"bytes"
	"testing"

	"resume-ranker/pkg/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docxBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("[Content_Types].xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0"?><Types></Types>`))
	require.NoError(t, err)
	w, err = zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<w:document/>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestValidateResume(t *testing.T) {
	pdf := []byte("%PDF-1.7\n1 0 obj\n<< /Type /Catalog >>\nendobj\n")

	t.Run("Should accept a PDF", func(t *testing.T) {
		res := security.ValidateResume("cv.PDF", pdf)
		assert.True(t, res.Valid, res.Error)
		assert.Equal(t, ".pdf", res.Extension)
		assert.Equal(t, "application/pdf", res.DetectedMIME)
	})

	t.Run("Should accept a DOCX", func(t *testing.T) {
		res := security.ValidateResume("cv.docx", docxBytes(t))
		assert.True(t, res.Valid, res.Error)
	})

	t.Run("Should reject other extensions", func(t *testing.T) {
		res := security.ValidateResume("cv.txt", []byte("plain text resume"))
		assert.False(t, res.Valid)
		assert.Contains(t, res.Error, "file extension not allowed: .txt")
	})

	t.Run("Should reject spoofed content", func(t *testing.T) {
		res := security.ValidateResume("cv.pdf", []byte("MZ\x90\x00 windows binary"))
		assert.False(t, res.Valid)
		assert.Contains(t, res.Error, "does not match extension")
	})

	t.Run("Should reject files without extension", func(t *testing.T) {
		res := security.ValidateResume("resume", pdf)
		assert.Equal(t, "file has no extension", res.Error)
	})
}

func TestAllowedExtensions(t *testing.T) {
	assert.Equal(t, []string{".docx", ".pdf"}, security.AllowedExtensions())
}
