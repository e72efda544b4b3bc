package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"

	"resume-ranker/internal/delivery/http/response"
	"resume-ranker/internal/delivery/http/session"
	"resume-ranker/internal/domain"

	"github.com/gin-gonic/gin"
)

const (
	// CSRFFormField is the hidden form field carrying the token
	CSRFFormField = "csrf_token"
	// CSRFTokenHeaderName is accepted instead of the form field
	CSRFTokenHeaderName = "X-CSRF-Token"
	// CSRFTokenLength is the length of the generated token in bytes (32 bytes = 64 hex chars)
	CSRFTokenLength = 32
)

// generateCSRFToken creates a cryptographically secure random token
func generateCSRFToken() (string, error) {
	bytes := make([]byte, CSRFTokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// CSRFMiddleware implements the synchronizer token pattern for the HTML forms.
//
// How it works:
// 1. Every session gets a random token, exposed to templates under CSRFToken
// 2. Forms echo it back in the csrf_token field (or the X-CSRF-Token header)
// 3. State-changing requests (POST, PUT, DELETE, PATCH) are rejected when the
//    submitted token does not match the session token
//
// The session cookie is signed and encrypted, so the token cannot be read or
// forged from another origin.
func CSRFMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := session.CSRFToken(c, generateCSRFToken)
		if err != nil {
			response.ErrorPage(c, http.StatusInternalServerError, "Failed to generate security token")
			c.Abort()
			return
		}
		c.Set(string(domain.KeyCSRFToken), token)

		// For safe methods, no validation needed
		method := c.Request.Method
		if method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions {
			c.Next()
			return
		}

		submitted, err := submittedCSRFToken(c)
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				response.ErrorPage(c, http.StatusRequestEntityTooLarge, "The uploaded file is too large.")
				c.Abort()
				return
			}
			response.ErrorPage(c, http.StatusBadRequest, "Malformed form submission")
			c.Abort()
			return
		}

		if submitted == "" {
			response.ErrorPage(c, http.StatusForbidden, "Missing CSRF token")
			c.Abort()
			return
		}

		if subtle.ConstantTimeCompare([]byte(submitted), []byte(token)) != 1 {
			response.ErrorPage(c, http.StatusForbidden, "Invalid CSRF token")
			c.Abort()
			return
		}

		c.Next()
	}
}

// CSRFToken returns the token set by CSRFMiddleware.
func CSRFToken(c *gin.Context) string {
	return c.GetString(string(domain.KeyCSRFToken))
}

func submittedCSRFToken(c *gin.Context) (string, error) {
	if h := c.GetHeader(CSRFTokenHeaderName); h != "" {
		return h, nil
	}
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		form, err := c.MultipartForm()
		if err != nil {
			return "", err
		}
		if v := form.Value[CSRFFormField]; len(v) > 0 {
			return v[0], nil
		}
		return "", nil
	}
	if err := c.Request.ParseForm(); err != nil {
		return "", err
	}
	return c.Request.PostForm.Get(CSRFFormField), nil
}

// BodyLimit caps request bodies at n bytes.
func BodyLimit(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}
