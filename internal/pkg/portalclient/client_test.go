package portalclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/studentportal/internal/app/models/dto"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func fakePortal(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		var req dto.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "asha123" {
			writeJSON(w, http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeInvalidCredentials, "Invalid username or password"))
			return
		}
		writeJSON(w, http.StatusOK, dto.LoginResponse{Success: true, Message: "Login successful", Token: "tok", TokenType: "Bearer"})
	})

	mux.HandleFunc("/api/logout", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			writeJSON(w, http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeUnauthorized, "Authentication required"))
			return
		}
		writeJSON(w, http.StatusOK, dto.MessageResponse{Success: true, Message: "Logged out"})
	})

	mux.HandleFunc("/api/courses/pursuing", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("name_contactid"))
		writeJSON(w, http.StatusOK, dto.CoursesResponse{Courses: []dto.CourseItem{{ID: 2, Name: "M.Tech"}}})
	})

	mux.HandleFunc("/api/courses/pending", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, dto.NewErrorResponse(dto.ErrorCodeResourceNotFound, "Student not found"))
	})

	mux.HandleFunc("/api/courses/details", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "B.Tech", r.URL.Query().Get("course"))
		writeJSON(w, http.StatusOK, dto.CourseDetailsResponse{Success: true, Data: &dto.CourseDetails{
			CompletedSubjects: []dto.CourseItem{{ID: 1, Name: "Math"}},
		}})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientLoginKeepsToken(t *testing.T) {
	c := New(fakePortal(t).URL)
	ctx := context.Background()

	_, err := c.Login(ctx, "asha", "bad")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid username or password", apiErr.Message)
	assert.Empty(t, c.Token())

	resp, err := c.Login(ctx, "asha", "asha123")
	require.NoError(t, err)
	assert.Equal(t, "Login successful", resp.Message)
	assert.Equal(t, "tok", c.Token())

	require.NoError(t, c.Logout(ctx))
	assert.Empty(t, c.Token())
	assert.Error(t, c.Logout(ctx))
}

func TestClientCourses(t *testing.T) {
	c := New(fakePortal(t).URL, WithToken("tok"))
	ctx := context.Background()

	courses, err := c.PursuingCourses(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []dto.CourseItem{{ID: 2, Name: "M.Tech"}}, courses)

	_, err = c.PendingCourses(ctx, 1)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, dto.ErrorCodeResourceNotFound, apiErr.Code)

	details, err := c.CourseDetails(ctx, 1, "B.Tech")
	require.NoError(t, err)
	assert.Equal(t, "Math", details.CompletedSubjects[0].Name)
}

func TestClientCustomHTTPClientKeepsSettings(t *testing.T) {
	var accepts []string
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		accepts = append(accepts, r.Header.Get("Accept"))
		mu.Unlock()
		if r.URL.Query().Get("studentId") == "2" {
			time.Sleep(200 * time.Millisecond)
		}
		writeJSON(w, http.StatusOK, dto.CoursesResponse{Courses: []dto.CourseItem{}})
	}))
	t.Cleanup(srv.Close)
	ctx := context.Background()

	for name, opts := range map[string][]Option{
		"timeout first": {WithTimeout(50 * time.Millisecond), WithHTTPClient(&http.Client{})},
		"timeout last":  {WithHTTPClient(&http.Client{}), WithTimeout(50 * time.Millisecond)},
	} {
		t.Run(name, func(t *testing.T) {
			c := New(srv.URL, opts...)

			_, err := c.CompletedCourses(ctx, 1)
			require.NoError(t, err)

			_, err = c.CompletedCourses(ctx, 2)
			assert.Error(t, err)
		})
	}

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, accepts)
	for _, accept := range accepts {
		assert.Equal(t, "application/json", accept)
	}
}
