package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/studentportal/internal/app/models"
	"github.com/yigit/studentportal/internal/app/models/dto"
	"github.com/yigit/studentportal/internal/middleware"
	"github.com/yigit/studentportal/internal/pkg/apperrors"
	"github.com/yigit/studentportal/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeCourseService struct {
	lastStudent  int64
	lastSelector string
	err          error
}

func (f *fakeCourseService) PursuingCourses(_ context.Context, id int64) ([]models.Course, error) {
	f.lastStudent = id
	return []models.Course{{ID: 2, Name: "M.Tech"}}, f.err
}

func (f *fakeCourseService) CompletedCourses(_ context.Context, id int64) ([]models.Course, error) {
	f.lastStudent = id
	return nil, f.err
}

func (f *fakeCourseService) PendingSubjects(_ context.Context, id int64) ([]models.Subject, error) {
	f.lastStudent = id
	return []models.Subject{{ID: 3, Name: "Chem"}}, f.err
}

func (f *fakeCourseService) CourseDetails(_ context.Context, id int64, selector string) (*dto.CourseDetails, error) {
	f.lastStudent = id
	f.lastSelector = selector
	if f.err != nil {
		return nil, f.err
	}
	return &dto.CourseDetails{
		PursuingSubjects:  []dto.CourseItem{},
		CompletedSubjects: []dto.CourseItem{{ID: 1, Name: "Math"}},
		PendingSubjects:   []dto.CourseItem{},
	}, nil
}

type fakeAuthService struct {
	result *dto.LoginResult
	err    error
	token  string
}

func (f *fakeAuthService) Login(_ context.Context, username, password, _ string) (*dto.LoginResult, error) {
	return f.result, f.err
}

func (f *fakeAuthService) Logout(_ context.Context, token string) error {
	f.token = token
	return f.err
}

func (f *fakeAuthService) Authenticate(context.Context, string) (*auth.Session, error) {
	return nil, f.err
}

func (f *fakeAuthService) CurrentStudent(_ context.Context, token string) (*models.Student, error) {
	f.token = token
	if f.err != nil {
		return nil, f.err
	}
	return &models.Student{ID: 1, Username: "asha"}, nil
}

func perform(router *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func courseRouter(svc *fakeCourseService, expose bool) *gin.Engine {
	c := NewCourseController(svc)
	router := gin.New()
	router.Use(middleware.ErrorExposure(expose))
	router.GET("/courses/pursuing", c.GetPursuingCourses)
	router.GET("/courses/completed", c.GetCompletedCourses)
	router.GET("/courses/pending", c.GetPendingCourses)
	router.GET("/courses/details", c.GetCourseDetails)
	return router
}

func TestCourseControllerStudentParameter(t *testing.T) {
	svc := &fakeCourseService{}
	router := courseRouter(svc, false)

	w := perform(router, http.MethodGet, "/courses/pursuing?name_contactid=5", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(5), svc.lastStudent)
	assert.JSONEq(t, `{"courses":[{"id":2,"name":"M.Tech"}]}`, w.Body.String())

	w = perform(router, http.MethodGet, "/courses/completed?name_contactid=6", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(6), svc.lastStudent)
	assert.JSONEq(t, `{"courses":[]}`, w.Body.String())

	w = perform(router, http.MethodGet, "/courses/pursuing", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "name_contactid query parameter is required")

	w = perform(router, http.MethodGet, "/courses/pending?studentId=-3", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "studentId must be a positive integer")
}

func TestCourseControllerDetails(t *testing.T) {
	svc := &fakeCourseService{}
	router := courseRouter(svc, false)

	w := perform(router, http.MethodGet, "/courses/details?studentId=1&course=MBA", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MBA", svc.lastSelector)

	var body dto.CourseDetailsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, []dto.CourseItem{{ID: 1, Name: "Math"}}, body.Data.CompletedSubjects)
}

func TestCourseControllerStoreFailure(t *testing.T) {
	svc := &fakeCourseService{err: apperrors.NewStoreError("x", errors.New("ER_NO_SUCH_TABLE"))}

	w := perform(courseRouter(svc, true), http.MethodGet, "/courses/pending?studentId=1", "", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "ER_NO_SUCH_TABLE")

	w = perform(courseRouter(svc, false), http.MethodGet, "/courses/pending?studentId=1", "", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "ER_NO_SUCH_TABLE")
}

func authRouter(svc *fakeAuthService) *gin.Engine {
	c := NewAuthController(svc, zerolog.Nop())
	router := gin.New()
	router.POST("/login", c.Login)
	router.POST("/logout", c.Logout)
	router.GET("/me", c.Me)
	return router
}

func TestAuthControllerLogin(t *testing.T) {
	svc := &fakeAuthService{result: &dto.LoginResult{Student: &models.Student{ID: 1, Username: "asha", Password: "secret"}}}
	router := authRouter(svc)

	w := perform(router, http.MethodPost, "/login", `{"username":"asha","password":"secret"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "secret")
	assert.NotContains(t, w.Body.String(), "token")

	svc.result.Token = "tok"
	svc.result.ExpiresIn = 60
	w = perform(router, http.MethodPost, "/login", `{"username":"asha","password":"secret"}`, nil)
	var body dto.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "tok", body.Token)
	assert.Equal(t, "Bearer", body.TokenType)
	assert.Equal(t, int64(60), body.ExpiresIn)

	w = perform(router, http.MethodPost, "/login", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.err = apperrors.ErrInvalidCredentials
	w = perform(router, http.MethodPost, "/login", `{"username":"asha","password":"x"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, w.Body.String(), `"user":`)
}

func TestAuthControllerSessionRoutes(t *testing.T) {
	svc := &fakeAuthService{}
	router := authRouter(svc)

	w := perform(router, http.MethodGet, "/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = perform(router, http.MethodGet, "/me", "", map[string]string{"Authorization": "Bearer abc"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc", svc.token)

	w = perform(router, http.MethodPost, "/logout", "", map[string]string{"Authorization": "Bearer def"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "def", svc.token)

	svc.err = apperrors.ErrTokenExpired
	w = perform(router, http.MethodPost, "/logout", "", map[string]string{"Authorization": "Bearer def"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
