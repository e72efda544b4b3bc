package web

import (
	"fmt"
	"math"
	"strings"
	"time"

	"resume-ranker/internal/delivery/http/middleware"
	"resume-ranker/internal/delivery/http/session"
	"resume-ranker/internal/delivery/http/viewmodel"
	"resume-ranker/internal/domain"
	"resume-ranker/pkg/apperror"
	"resume-ranker/pkg/logger"
	"resume-ranker/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authUC   domain.AuthUsecase
	failures *security.LoginTracker
	log      *zap.Logger
}

func NewAuthHandler(public *gin.RouterGroup, authUC domain.AuthUsecase, failures *security.LoginTracker, limit gin.HandlerFunc) {
	handler := &AuthHandler{
		authUC:   authUC,
		failures: failures,
		log:      logger.Named("AuthPage"),
	}

	public.GET("/", handler.Home)
	public.GET("/login", handler.LoginForm)
	public.POST("/login", limit, handler.Login)
	public.GET("/register", handler.RegisterForm)
	public.POST("/register", limit, handler.Register)
	public.POST("/logout", handler.Logout)
}

// Home sends the visitor to the dashboard of their role.
func (h *AuthHandler) Home(c *gin.Context) {
	sess := session.Load(c)
	if !sess.Valid() {
		redirect(c, "/login")
		return
	}
	if _, known := domain.ParseRole(string(sess.Role)); !known {
		h.log.Info("User type not recognized - rendering auth page", zap.String("role", string(sess.Role)))
		_ = session.Clear(c)
	}
	redirect(c, sess.Role.DashboardPath())
}

func (h *AuthHandler) LoginForm(c *gin.Context) {
	if sess := session.Load(c); sess.Valid() {
		if _, known := domain.ParseRole(string(sess.Role)); known {
			redirect(c, sess.Role.DashboardPath())
			return
		}
	}
	render(c, "login.html", &viewmodel.AuthPage{Layout: newLayout(c, "Login", "/login", nil)})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input domain.LoginInput
	_ = c.ShouldBind(&input)

	ctx := c.Request.Context()
	page := &viewmodel.AuthPage{Layout: newLayout(c, "Login", "/login", nil), Username: input.Username}

	left, err := h.failures.BlockedFor(ctx, input.Username)
	if err != nil {
		h.log.Error("Login block check failed", zap.String("username", input.Username), zap.Error(err))
	}
	if left > 0 {
		h.log.Warn("Login attempt while blocked", zap.String("username", input.Username), zap.String("ip", c.ClientIP()))
		page.Alert(session.FlashError, blockedMessage(left))
		render(c, "login.html", page)
		return
	}

	sess, err := h.authUC.Login(ctx, input)
	if err != nil {
		h.log.Error("Login failed", zap.String("username", input.Username), zap.Error(err))
		// Only rejected credentials count towards a block.
		if apperror.Is(err, apperror.KindStatus) {
			if blocked, _, trackErr := h.failures.RecordFailedAttempt(ctx, input.Username); trackErr != nil {
				h.log.Error("Failed to record login failure", zap.Error(trackErr))
			} else if blocked {
				page.Alert(session.FlashError, blockedMessage(h.failures.BlockDuration()))
				render(c, "login.html", page)
				return
			}
		}
		page.Alert(session.FlashError, userMessage(err))
		render(c, "login.html", page)
		return
	}
	if err := h.failures.ClearAttempts(ctx, input.Username); err != nil {
		h.log.Error("Failed to clear login failures", zap.Error(err))
	}

	if _, known := domain.ParseRole(string(sess.Role)); !known {
		h.log.Info("User type not recognized - rendering auth page", zap.String("username", sess.Username), zap.String("role", string(sess.Role)))
		page.Alert(session.FlashError, "User type not recognized")
		render(c, "login.html", page)
		return
	}

	// A fresh cookie on sign-in, so nothing from the anonymous session survives.
	_ = session.Clear(c)
	if err := session.Save(c, sess); err != nil {
		c.Error(err)
		return
	}
	h.log.Info("User logged in successfully", zap.String("username", sess.Username), zap.String("role", string(sess.Role)))
	session.AddFlash(c, session.FlashSuccess, "Successfully logged in!")
	redirect(c, sess.Role.DashboardPath())
}

func blockedMessage(left time.Duration) string {
	minutes := int(math.Ceil(left.Minutes()))
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("Too many failed login attempts. Please try again in %d minute(s).", minutes)
}

func (h *AuthHandler) RegisterForm(c *gin.Context) {
	render(c, "register.html", &viewmodel.AuthPage{
		Layout:   newLayout(c, "Register", "/register", nil),
		UserType: string(domain.RoleCandidate),
	})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input domain.RegisterInput
	_ = c.ShouldBind(&input)

	if err := h.authUC.Register(c.Request.Context(), input); err != nil {
		h.log.Error("Registration failed", zap.String("username", input.Username), zap.Error(err))
		page := &viewmodel.AuthPage{
			Layout:   newLayout(c, "Register", "/register", nil),
			Username: input.Username,
			Email:    input.Email,
			UserType: input.UserType,
		}
		page.Alert(session.FlashError, userMessage(err))
		render(c, "register.html", page)
		return
	}

	h.log.Info("User registered successfully", zap.String("username", input.Username), zap.String("user_type", input.UserType))
	session.AddFlash(c, session.FlashSuccess, "Successfully registered! Please login.")
	redirect(c, "/login")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if sess := session.Load(c); sess != nil {
		h.log.Info("User logged out", zap.String("username", sess.Username))
	}
	_ = session.Clear(c)
	redirect(c, "/login")
}

// ProfileHandler serves the profile section shared by both dashboards.
type ProfileHandler struct {
	authUC domain.AuthUsecase
	log    *zap.Logger
}

func NewProfileHandler(group *gin.RouterGroup, authUC domain.AuthUsecase, log *zap.Logger) {
	handler := &ProfileHandler{authUC: authUC, log: log}

	group.GET("/profile", handler.Show)
	group.POST("/profile", handler.Update)
}

func (h *ProfileHandler) Show(c *gin.Context) {
	path := c.FullPath()
	render(c, "profile.html", &viewmodel.ProfilePage{
		Layout:     newLayout(c, "My Profile", path, middleware.CurrentSession(c)),
		ActionPath: path,
	})
}

func (h *ProfileHandler) Update(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	path := c.FullPath()

	var update domain.ProfileUpdate
	_ = c.ShouldBind(&update)

	err := h.authUC.UpdateProfile(c.Request.Context(), sess, update)
	switch {
	case err == nil:
		if err := session.Save(c, sess); err != nil {
			c.Error(err)
			return
		}
		h.log.Info("Profile updated", zap.String("user_id", sess.UserID))
		session.AddFlash(c, session.FlashSuccess, "Profile updated successfully!")
	case isInputError(err) && emptyUpdate(update):
		session.AddFlash(c, session.FlashInfo, userMessage(err))
	default:
		h.log.Error("Profile update failed", zap.String("user_id", sess.UserID), zap.Error(err))
		session.AddFlash(c, session.FlashError, "Profile update failed: "+userMessage(err))
	}
	redirect(c, path)
}

func emptyUpdate(u domain.ProfileUpdate) bool {
	return domain.ProfileUpdate{
		Username: strings.TrimSpace(u.Username),
		Email:    strings.TrimSpace(u.Email),
	}.Empty()
}
