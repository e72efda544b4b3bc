package middleware

import (
	"errors"
	"io"
	"net/http"

	"resume-ranker/internal/delivery/http/response"
	"resume-ranker/pkg/apperror"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler renders errors attached with c.Error when the handler wrote
// nothing itself. AppErrors raised here show their message; anything else
// shows the generic page.
func ErrorHandler(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Kind == apperror.KindApp {
			response.ErrorPage(c, appErr.Code, appErr.Message)
			return
		}

		// Never expose internal error details; log them instead.
		log.Error("Unhandled error", zap.Error(err), zap.String("path", c.Request.URL.Path))
		response.ErrorPage(c, http.StatusInternalServerError, response.GenericErrorMessage)
	}
}

// Recovery turns a panic into the generic error page.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		log.Error("Application error",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString("RequestID")),
			zap.Stack("stack"),
		)
		response.ErrorPage(c, http.StatusInternalServerError, response.GenericErrorMessage)
		c.Abort()
	})
}
