package middleware

import (
	"net/http"
	"time"

	"resume-ranker/internal/delivery/http/session"
	"resume-ranker/internal/domain"
	"resume-ranker/pkg/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const loginPath = "/login"

// RequireSession admits requests carrying a live session of one of roles
// (any role when none are given). Missing or expired sessions go to the
// login page; a signed-in user of another role goes to their own dashboard.
func RequireSession(log *zap.Logger, roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := session.Load(c)
		if !sess.Valid() {
			redirect(c, loginPath)
			return
		}

		if auth.Expired(sess.Token, time.Now()) {
			log.Info("Session token expired", zap.String("username", sess.Username))
			_ = session.Clear(c)
			session.AddFlash(c, session.FlashInfo, "Your session has expired. Please login again.")
			redirect(c, loginPath)
			return
		}

		if len(roles) > 0 && !hasRole(roles, sess.Role) {
			if _, known := domain.ParseRole(string(sess.Role)); !known {
				log.Info("User type not recognized", zap.String("username", sess.Username), zap.String("role", string(sess.Role)))
				_ = session.Clear(c)
				redirect(c, loginPath)
				return
			}
			redirect(c, sess.Role.DashboardPath())
			return
		}

		c.Set(string(domain.KeySession), sess)
		c.Next()
	}
}

// CurrentSession returns the session admitted by RequireSession.
func CurrentSession(c *gin.Context) *domain.Session {
	v, ok := c.Get(string(domain.KeySession))
	if !ok {
		return nil
	}
	sess, _ := v.(*domain.Session)
	return sess
}

func hasRole(roles []domain.Role, role domain.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func redirect(c *gin.Context, path string) {
	c.Redirect(http.StatusSeeOther, path)
	c.Abort()
}
