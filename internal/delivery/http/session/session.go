package session

import (
	"crypto/sha256"
	"encoding/gob"
	"net/http"

	"resume-ranker/internal/domain"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const (
	identityKey = "identity"
	csrfKey     = "csrf"
	flashKey    = "_flash"
)

// Flash kinds, rendered as alert styles.
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashWarning = "warning"
	FlashError   = "error"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Kind    string
	Message string
}

func init() {
	gob.Register(domain.Session{})
	gob.Register(Flash{})
}

// Options configures the session cookie.
type Options struct {
	Name   string
	Secret []byte
	MaxAge int
	Secure bool
}

// Middleware installs the cookie store. The cookie is signed with Secret and
// encrypted with a key derived from it, since it carries the bearer token.
// Nothing is written to disk.
func Middleware(o Options) gin.HandlerFunc {
	encKey := sha256.Sum256(append([]byte("session-encryption:"), o.Secret...))
	store := cookie.NewStore(o.Secret, encKey[:])
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   o.MaxAge,
		Secure:   o.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions(o.Name, store)
}

// Load returns the signed-in identity, or nil.
func Load(c *gin.Context) *domain.Session {
	v := sessions.Default(c).Get(identityKey)
	sess, ok := v.(domain.Session)
	if !ok {
		return nil
	}
	return &sess
}

// Save stores sess as the signed-in identity.
func Save(c *gin.Context, sess *domain.Session) error {
	s := sessions.Default(c)
	s.Set(identityKey, *sess)
	return s.Save()
}

// Clear drops the identity and everything else kept in the session.
func Clear(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	return s.Save()
}

// CSRFToken returns the token bound to this session, creating it with
// generate when missing.
func CSRFToken(c *gin.Context, generate func() (string, error)) (string, error) {
	s := sessions.Default(c)
	if token, ok := s.Get(csrfKey).(string); ok && token != "" {
		return token, nil
	}
	token, err := generate()
	if err != nil {
		return "", err
	}
	s.Set(csrfKey, token)
	return token, s.Save()
}

// AddFlash queues a message for the next page.
func AddFlash(c *gin.Context, kind, message string) {
	s := sessions.Default(c)
	s.AddFlash(Flash{Kind: kind, Message: message}, flashKey)
	_ = s.Save()
}

// Flashes pops the queued messages.
func Flashes(c *gin.Context) []Flash {
	s := sessions.Default(c)
	raw := s.Flashes(flashKey)
	if len(raw) == 0 {
		return nil
	}
	_ = s.Save()

	out := make([]Flash, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(Flash); ok {
			out = append(out, f)
		}
	}
	return out
}
