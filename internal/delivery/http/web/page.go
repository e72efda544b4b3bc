package web

import (
	"net/http"
	"net/url"

	"resume-ranker/internal/delivery/http/middleware"
	"resume-ranker/internal/delivery/http/response"
	"resume-ranker/internal/delivery/http/session"
	"resume-ranker/internal/delivery/http/viewmodel"
	"resume-ranker/internal/domain"
	"resume-ranker/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// newLayout fills the shared chrome for the current request and pops any
// queued flashes.
func newLayout(c *gin.Context, pageTitle, current string, sess *domain.Session) *viewmodel.Layout {
	l := viewmodel.NewLayout(pageTitle, current, sess)
	l.CSRFToken = middleware.CSRFToken(c)
	l.RequestID = c.GetString(string(domain.KeyRequestID))
	l.Flashes = session.Flashes(c)
	return l
}

func render(c *gin.Context, name string, data interface{}) {
	response.Page(c, http.StatusOK, name, data)
}

// redirect sends the browser to path after a form post.
func redirect(c *gin.Context, path string) {
	c.Redirect(http.StatusSeeOther, path)
}

func redirectWithQuery(c *gin.Context, path string, q url.Values) {
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	redirect(c, path)
}

// userMessage is the text shown for err. Unclassified errors never leak.
func userMessage(err error) string {
	if appErr, ok := apperror.As(err); ok {
		return appErr.Message
	}
	return response.GenericErrorMessage
}

// isInputError reports whether err was raised by form checks in this service
// rather than by the upstream API.
func isInputError(err error) bool {
	appErr, ok := apperror.As(err)
	return ok && appErr.Kind == apperror.KindApp && appErr.Code == http.StatusBadRequest
}
