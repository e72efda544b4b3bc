package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response standardizes the JSON response
type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Error     interface{} `json:"error,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// GenericErrorMessage is shown for any failure we do not explain to users.
const GenericErrorMessage = "An unexpected error occurred. Please try again later."

// ErrorTemplate is the page rendered by ErrorPage.
const ErrorTemplate = "error.html"

func requestID(c *gin.Context) string {
	reqID, _ := c.Get("RequestID")
	idStr, _ := reqID.(string) // Safe type assertion
	return idStr
}

// Success sends a success response
func Success(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Response{
		Success:   true,
		Message:   message,
		Data:      data,
		RequestID: requestID(c),
	})
}

// Error sends an error response
func Error(c *gin.Context, code int, message string, err interface{}) {
	c.JSON(code, Response{
		Success:   false,
		Message:   message,
		Error:     err,
		RequestID: requestID(c),
	})
}

// Page renders an HTML template.
func Page(c *gin.Context, code int, name string, data interface{}) {
	c.HTML(code, name, data)
}

// ErrorPage renders the standalone error page, or JSON for clients that
// asked for it.
func ErrorPage(c *gin.Context, code int, message string) {
	if c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON {
		Error(c, code, message, nil)
		return
	}
	c.HTML(code, ErrorTemplate, gin.H{
		"Title":      "Resume Ranker",
		"Status":     code,
		"StatusText": http.StatusText(code),
		"Message":    message,
		"RequestID":  requestID(c),
	})
}
