package api

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aimarketer/aimarketer/internal/api/auth"
	"github.com/aimarketer/aimarketer/internal/api/handler"
	"github.com/aimarketer/aimarketer/internal/config"
	"github.com/aimarketer/aimarketer/internal/database"
	"github.com/aimarketer/aimarketer/internal/password"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		Listen:    "127.0.0.1:0",
		ServerURL: "http://localhost:3000",
		PagesDir:  filepath.Join("..", "..", "web", "pages"),
		Session: &config.SessionConfig{
			Key:    "test-secret",
			Name:   "aimarketer_session",
			Store:  config.SessionStoreMemory,
			MaxAge: 3600,
		},
		Auth:    &config.AuthConfig{BcryptCost: bcrypt.MinCost},
		Gzip:    &config.GzipConfig{Enabled: true},
		Metrics: &config.MetricsConfig{Enabled: true, Path: "/metrics"},
		Email:   &config.EmailConfig{},
	}
}

type APITestSuite struct {
	suite.Suite
	db     *database.Client
	ts     *httptest.Server
	client *http.Client
}

func (s *APITestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db, err := database.New(filepath.Join(s.T().TempDir(), "site.db"))
	s.Require().NoError(err)
	s.db = db

	hash, err := password.New(bcrypt.MinCost).Hash("admin123")
	s.Require().NoError(err)
	_, err = db.CreateUser(s.T().Context(), "admin", hash, database.RoleAdmin)
	s.Require().NoError(err)

	server, err := New(testConfig(), db, true)
	s.Require().NoError(err)
	s.ts = httptest.NewServer(server.Handler())

	s.client = s.newClient()
}

func (s *APITestSuite) TearDownTest() {
	s.ts.Close()
	_ = s.db.Close()
}

func (s *APITestSuite) newClient() *http.Client {
	jar, err := cookiejar.New(nil)
	s.Require().NoError(err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (s *APITestSuite) get(client *http.Client, path string) (*http.Response, string) {
	resp, err := client.Get(s.ts.URL + path)
	s.Require().NoError(err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp, string(body)
}

func (s *APITestSuite) post(client *http.Client, path string, form url.Values) (*http.Response, string) {
	resp, err := client.PostForm(s.ts.URL+path, form)
	s.Require().NoError(err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp, string(body)
}

func (s *APITestSuite) login(client *http.Client, username, plain string) *http.Response {
	resp, _ := s.post(client, "/login", url.Values{"username": {username}, "password": {plain}})
	return resp
}

func (s *APITestSuite) TestRegisterThenLogin() {
	resp, body := s.post(s.client, "/register", url.Values{"username": {"jane"}, "password": {"secret"}})
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, auth.MsgRegistered)

	resp = s.login(s.client, "jane", "secret")
	s.Equal(http.StatusFound, resp.StatusCode)
	s.Equal("/", resp.Header.Get("Location"))

	_, body = s.get(s.client, "/")
	s.Contains(body, "Welcome, jane")
	s.NotContains(body, `href="/feedback-summary"`)

	user, err := s.db.GetUserByUsername(s.T().Context(), "jane")
	s.Require().NoError(err)
	s.Equal(database.RoleUser, user.Role)
}

func (s *APITestSuite) TestRegisterDuplicateKeepsOriginal() {
	before, err := s.db.CountUsers(s.T().Context(), nil)
	s.Require().NoError(err)

	resp, body := s.post(s.client, "/register", url.Values{"username": {"admin"}, "password": {"x"}})
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Contains(body, auth.MsgRegisterFailed)

	after, err := s.db.CountUsers(s.T().Context(), nil)
	s.Require().NoError(err)
	s.Equal(before, after)

	s.Equal(http.StatusFound, s.login(s.client, "admin", "admin123").StatusCode)
}

func (s *APITestSuite) TestLoginFailures() {
	resp, body := s.post(s.client, "/login", url.Values{"username": {"nobody"}, "password": {"x"}})
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	s.Contains(body, auth.MsgInvalidCredentials)

	resp, body = s.post(s.client, "/login", url.Values{"username": {"admin"}, "password": {"wrong"}})
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	s.Contains(body, auth.MsgInvalidCredentials)
}

func (s *APITestSuite) TestAnonymousVisitGetsNoSession() {
	resp, body := s.get(s.client, "/")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Empty(resp.Cookies())
	s.Contains(body, `href="/login"`)
	s.Contains(body, `href="/register"`)
}

func (s *APITestSuite) TestStaticPages() {
	for _, path := range []string{"/", "/feedback", "/products", "/register", "/login"} {
		resp, body := s.get(s.client, path)
		s.Equal(http.StatusOK, resp.StatusCode, path)
		s.NotContains(body, "WELCOME_PLACEHOLDER", path)
	}
}

func (s *APITestSuite) TestFeedbackSummaryRequiresAdmin() {
	resp, body := s.get(s.client, "/feedback-summary")
	s.Equal(http.StatusForbidden, resp.StatusCode)
	s.Equal("Access denied", body)

	s.post(s.client, "/register", url.Values{"username": {"jane"}, "password": {"secret"}})
	s.login(s.client, "jane", "secret")
	resp, _ = s.get(s.client, "/feedback-summary")
	s.Equal(http.StatusForbidden, resp.StatusCode)

	admin := s.newClient()
	s.login(admin, "admin", "admin123")
	resp, body = s.get(admin, "/feedback-summary")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, "No feedback submitted yet.")

	_, body = s.get(admin, "/")
	s.Contains(body, `href="/feedback-summary"`)
}

func (s *APITestSuite) TestFeedbackSubmission() {
	ctx := s.T().Context()
	valid := url.Values{"name": {"Jane"}, "email": {"j@x.com"}, "phone": {"1234567890"}, "query": {"Hi"}}

	for _, field := range []string{"name", "email", "phone", "query"} {
		form := url.Values{}
		for k, v := range valid {
			form[k] = v
		}
		form.Set(field, "")
		resp, body := s.post(s.client, "/feedback", form)
		s.Equal(http.StatusBadRequest, resp.StatusCode, field)
		s.Contains(body, handler.MsgFieldsRequired, field)
	}
	count, err := s.db.CountFeedback(ctx)
	s.Require().NoError(err)
	s.Zero(count)

	resp, body := s.post(s.client, "/feedback", valid)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, handler.MsgFeedbackSaved)

	count, err = s.db.CountFeedback(ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), count)

	admin := s.newClient()
	s.login(admin, "admin", "admin123")
	_, body = s.get(admin, "/feedback-summary")
	s.Contains(body, "j@x.com")
	s.Contains(body, "1234567890")
}

func (s *APITestSuite) TestLogoutTwice() {
	s.login(s.client, "admin", "admin123")

	for range 2 {
		resp, _ := s.get(s.client, "/logout")
		s.Equal(http.StatusFound, resp.StatusCode)
		s.Equal("/", resp.Header.Get("Location"))
	}

	resp, _ := s.get(s.client, "/feedback-summary")
	s.Equal(http.StatusForbidden, resp.StatusCode)
}

func (s *APITestSuite) TestHealthzWithClosedStore() {
	s.Require().NoError(s.db.Close())

	resp, body := s.get(s.client, "/healthz")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, "ok")
	s.Empty(resp.Cookies())
}

func (s *APITestSuite) TestMetrics() {
	s.get(s.client, "/healthz")

	resp, body := s.get(s.client, "/metrics")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, `aimarketer_http_requests_total{method="GET",path="/healthz",status="200"} 1`)
}

func (s *APITestSuite) TestStaticAssets() {
	resp, body := s.get(s.client, "/static/js/feedback.js")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(body, "queryForm")
	s.Empty(resp.Cookies())
}

func (s *APITestSuite) TestRequestID() {
	resp, _ := s.get(s.client, "/healthz")
	s.NotEmpty(resp.Header.Get("X-Request-ID"))
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}

func TestNew_Validation(t *testing.T) {
	db, err := database.New(filepath.Join(t.TempDir(), "site.db"))
	require.NoError(t, err)
	defer db.Close()

	_, err = New(nil, db, true)
	assert.Error(t, err)

	cfg := testConfig()
	cfg.Session = nil
	_, err = New(cfg, db, true)
	assert.Error(t, err)

	_, err = New(testConfig(), nil, true)
	assert.Error(t, err)
}

func TestGzipResponses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, err := database.New(filepath.Join(t.TempDir(), "site.db"))
	require.NoError(t, err)
	defer db.Close()

	server, err := New(testConfig(), db, true)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
	assert.False(t, strings.Contains(w.Body.String(), "<html"))
}
