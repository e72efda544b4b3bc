package web_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"regexp"
	"strings"
	"testing"

	"resume-ranker/config"
	"resume-ranker/internal/delivery/http/web"
	"resume-ranker/internal/domain"
	"resume-ranker/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	dir, err := os.MkdirTemp("", "web-logs")
	if err != nil {
		panic(err)
	}
	_ = logger.Init(logger.Options{Dir: dir, Level: "debug"})

	code := m.Run()

	logger.Sync()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

var csrfField = regexp.MustCompile(`name="csrf_token" value="([0-9a-f]+)"`)

type app struct {
	auth      *MockAuthUsecase
	candidate *MockCandidateUsecase
	recruiter *MockRecruiterUsecase
	router    *gin.Engine
}

func newApp(t *testing.T) *app {
	t.Helper()
	a := &app{
		auth:      new(MockAuthUsecase),
		candidate: new(MockCandidateUsecase),
		recruiter: new(MockRecruiterUsecase),
	}
	router, err := web.NewRouter(web.RouterDeps{
		AuthUC:      a.auth,
		CandidateUC: a.candidate,
		RecruiterUC: a.recruiter,
		HealthUC:    stubHealth{"status": "ok"},
		Config: &config.Config{
			SessionName:            "test_session",
			SessionSecret:          "0123456789abcdef0123456789abcdef",
			SessionMaxAgeSeconds:   3600,
			MaxUploadMB:            1,
			RateLimitWindowSeconds: 60,
		},
	})
	require.NoError(t, err)
	a.router = router
	return a
}

// browser keeps cookies and the last CSRF token between requests.
type browser struct {
	t       *testing.T
	app     *app
	cookies map[string]*http.Cookie
	csrf    string
}

func (a *app) browser(t *testing.T) *browser {
	return &browser{t: t, app: a, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	for _, ck := range b.cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	b.app.router.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		b.cookies[ck.Name] = ck
	}
	if m := csrfField.FindStringSubmatch(w.Body.String()); m != nil {
		b.csrf = m[1]
	}
	return w
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	if b.csrf == "" {
		b.get("/login")
	}
	form.Set("csrf_token", b.csrf)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) upload(path, filename string, content []byte) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(b.t, mw.WriteField("csrf_token", b.csrf))
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(b.t, err)
	_, err = part.Write(content)
	require.NoError(b.t, err)
	require.NoError(b.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return b.do(req)
}

// signIn logs in as sess and loads its dashboard so the browser holds a
// fresh CSRF token.
func (b *browser) signIn(sess *domain.Session) {
	b.t.Helper()
	b.app.auth.On("Login", mock.Anything, domain.LoginInput{Username: sess.Username, Password: "pw"}).Return(sess, nil).Once()

	w := b.post("/login", url.Values{"username": {sess.Username}, "password": {"pw"}})
	require.Equal(b.t, http.StatusSeeOther, w.Code)
	require.Equal(b.t, sess.Role.DashboardPath(), w.Header().Get("Location"))

	w = b.get(sess.Role.DashboardPath())
	require.Equal(b.t, http.StatusOK, w.Code)
}

func alice() *domain.Session {
	return &domain.Session{Token: "T", UserID: "1", Username: "alice", Email: "a@x.com", Role: domain.RoleCandidate}
}

func bob() *domain.Session {
	return &domain.Session{Token: "R", UserID: "7", Username: "bob", Email: "b@x.com", Role: domain.RoleRecruiter}
}
