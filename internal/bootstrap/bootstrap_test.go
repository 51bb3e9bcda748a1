package bootstrap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/studentportal/internal/config"
	"github.com/yigit/studentportal/internal/db/dbtest"
	"github.com/yigit/studentportal/internal/seed"
)

type portal struct {
	t      *testing.T
	router *gin.Engine
}

func newPortal(t *testing.T, configure func(cfg *config.Config)) *portal {
	t.Helper()

	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	cfg.Server.Mode = "production"
	cfg.Database.Driver = config.DriverSQLite
	if configure != nil {
		configure(cfg)
	}

	database := dbtest.Open(t)
	require.NoError(t, seed.CreateDefaultData(context.Background(), database, cfg.Auth.PasswordMode, zerolog.Nop()))

	deps, err := BuildDependencies(cfg, database, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { deps.Close() })

	return &portal{t: t, router: SetupRouter(cfg, deps, zerolog.Nop())}
}

func (p *portal) do(method, path, body, token string) (int, map[string]interface{}) {
	p.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	p.router.ServeHTTP(w, req)

	var decoded map[string]interface{}
	require.NoError(p.t, json.Unmarshal(w.Body.Bytes(), &decoded), w.Body.String())
	return w.Code, decoded
}

func names(list interface{}) []string {
	out := []string{}
	for _, item := range list.([]interface{}) {
		out = append(out, item.(map[string]interface{})["name"].(string))
	}
	return out
}

func TestHealthEndpoints(t *testing.T) {
	p := newPortal(t, nil)

	for _, path := range []string{"/test", "/api/test"} {
		status, body := p.do(http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "Server OK", body["message"])
		assert.Equal(t, float64(2), body["database"])
	}

	status, body := p.do(http.MethodGet, "/ping", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "pong", body["message"])

	status, body = p.do(http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Route not found", body["message"])
}

func TestLoginFlow(t *testing.T) {
	p := newPortal(t, nil)

	status, body := p.do(http.MethodPost, "/login", `{"username":"asha","password":"asha123"}`, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Login successful", body["message"])

	user := body["user"].(map[string]interface{})
	assert.Equal(t, "asha", user["username"])
	assert.Equal(t, "asha@example.edu", user["Emailid"])
	assert.Equal(t, "1", user["name_contactid"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, body, "token")

	status, body = p.do(http.MethodPost, "/api/login", `{"username":"asha","password":"bad"}`, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, false, body["success"])
	assert.NotContains(t, body, "user")

	status, body = p.do(http.MethodPost, "/login", `{"username":"asha"}`, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "password", body["field"])
}

func TestLoginRateLimited(t *testing.T) {
	p := newPortal(t, func(cfg *config.Config) {
		cfg.Server.LoginRatePerSecond = 0.001
		cfg.Server.LoginBurst = 1
	})

	status, _ := p.do(http.MethodPost, "/login", `{"username":"asha","password":"bad"}`, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = p.do(http.MethodPost, "/login", `{"username":"asha","password":"asha123"}`, "")
	assert.Equal(t, http.StatusTooManyRequests, status)
}

func TestCourseEndpoints(t *testing.T) {
	p := newPortal(t, nil)

	status, body := p.do(http.MethodGet, "/courses/pursuing?name_contactid=1", "", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"M.Tech"}, names(body["courses"]))

	status, body = p.do(http.MethodGet, "/api/courses/completed?studentId=2", "", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"MBA"}, names(body["courses"]))

	status, body = p.do(http.MethodGet, "/courses/completed?studentId=1", "", "")
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["courses"])

	status, body = p.do(http.MethodGet, "/courses/pending?studentId=1", "", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"Data Structures"}, names(body["courses"]))

	status, body = p.do(http.MethodGet, "/courses/pending?studentId=999", "", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Student not found", body["message"])

	status, body = p.do(http.MethodGet, "/courses/pending", "", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "studentId query parameter is required", body["message"])

	status, _ = p.do(http.MethodGet, "/courses/completed?studentId=abc", "", "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCourseDetailsEndpoint(t *testing.T) {
	p := newPortal(t, nil)

	status, body := p.do(http.MethodGet, "/api/courses/details?name_contactid=1&course=B.Tech", "", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])

	data := body["data"].(map[string]interface{})
	assert.Equal(t, []string{"Mathematics"}, names(data["completedSubjects"]))
	assert.Equal(t, []string{"Physics", "Chemistry"}, names(data["pursuingSubjects"]))
	assert.Equal(t, []string{"Data Structures"}, names(data["pendingSubjects"]))

	status, _ = p.do(http.MethodGet, "/courses/details?studentId=1&course=Astrology", "", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSessionsProtectCourses(t *testing.T) {
	p := newPortal(t, func(cfg *config.Config) {
		cfg.Session.Enabled = true
		cfg.Session.Secret = "test-secret"
		cfg.Auth.RequireSession = true
		cfg.Auth.PasswordMode = config.PasswordModeBcrypt
	})

	status, _ := p.do(http.MethodGet, "/courses/pending?studentId=1", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := p.do(http.MethodPost, "/login", `{"username":"asha","password":"asha123"}`, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Bearer", body["tokenType"])
	assert.Equal(t, float64(86400), body["expiresIn"])
	token := body["token"].(string)

	status, _ = p.do(http.MethodGet, "/courses/pending?studentId=1", "", token)
	assert.Equal(t, http.StatusOK, status)

	status, _ = p.do(http.MethodGet, "/courses/pending?studentId=2", "", token)
	assert.Equal(t, http.StatusForbidden, status)

	status, body = p.do(http.MethodGet, "/me", "", token)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "asha", body["user"].(map[string]interface{})["username"])

	status, _ = p.do(http.MethodPost, "/logout", "", token)
	assert.Equal(t, http.StatusOK, status)

	status, _ = p.do(http.MethodGet, "/me", "", token)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestCorsConfig(t *testing.T) {
	all := corsConfig([]string{"*"})
	assert.True(t, all.AllowAllOrigins)

	some := corsConfig([]string{"http://localhost:3000"})
	assert.False(t, some.AllowAllOrigins)
	assert.Equal(t, []string{"http://localhost:3000"}, some.AllowOrigins)
	assert.Contains(t, some.AllowHeaders, "Authorization")
}
