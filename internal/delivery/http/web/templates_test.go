package web

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTitleCase(t *testing.T) {
	tests := map[string]string{
		"name":          "Name",
		"date_of_birth": "Date_Of_Birth",
		"LINKEDIN url":  "Linkedin Url",
		"e-mail":        "E-Mail",
		"":              "",
	}
	for in, want := range tests {
		assert.Equal(t, want, titleCase(in), in)
	}
}

func TestTemplatesParse(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	for _, name := range []string{"login.html", "register.html", "profile.html", "resume_upload.html", "resume_view.html", "job_new.html", "job_lookup.html", "candidates.html", "rank.html", "error.html"} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}
