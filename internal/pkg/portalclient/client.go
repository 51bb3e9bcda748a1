// Package portalclient talks to the student portal HTTP API and drives the
// terminal course view.
package portalclient

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/yigit/studentportal/internal/app/models/dto"
)

// APIError is a non-2xx answer from the portal
type APIError struct {
	Status  int
	Code    dto.ErrorCode
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("portal returned HTTP %d", e.Status)
	}
	return fmt.Sprintf("portal returned HTTP %d: %s", e.Status, e.Message)
}

// Client is a thin typed wrapper over the portal endpoints
type Client struct {
	http  *resty.Client
	token string
}

const defaultTimeout = 10 * time.Second

type options struct {
	timeout    time.Duration
	token      string
	httpClient *http.Client
}

// Option configures a Client
type Option func(*options)

// WithTimeout bounds every request
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithToken presents a session token on every request
func WithToken(token string) Option {
	return func(o *options) { o.token = token }
}

// WithHTTPClient sends requests through hc. Its own Timeout is kept unless
// WithTimeout is given too.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// New creates a client for the portal served at baseURL
func New(baseURL string, opts ...Option) *Client {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var rc *resty.Client
	if o.httpClient != nil {
		rc = resty.NewWithClient(o.httpClient)
		if o.timeout > 0 {
			rc.SetTimeout(o.timeout)
		}
	} else {
		timeout := o.timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		rc = resty.New().SetTimeout(timeout)
	}

	return &Client{
		http:  rc.SetBaseURL(baseURL).SetHeader("Accept", "application/json"),
		token: o.token,
	}
}

// Token returns the session token in use, if any
func (c *Client) Token() string {
	return c.token
}

func (c *Client) request(ctx context.Context) *resty.Request {
	r := c.http.R().SetContext(ctx)
	if c.token != "" {
		r.SetAuthToken(c.token)
	}
	return r
}

func check(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if resp.IsSuccess() {
		return nil
	}
	apiErr := &APIError{Status: resp.StatusCode()}
	if body, ok := resp.Error().(*dto.ErrorResponse); ok && body != nil {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
	}
	return apiErr
}

// Login verifies credentials. When the server issues a token it is kept for
// later calls.
func (c *Client) Login(ctx context.Context, username, password string) (*dto.LoginResponse, error) {
	var out dto.LoginResponse
	resp, err := c.request(ctx).
		SetBody(dto.LoginRequest{Username: username, Password: password}).
		SetResult(&out).
		SetError(&dto.ErrorResponse{}).
		Post("/api/login")
	if err := check(resp, err); err != nil {
		return nil, err
	}

	if out.Token != "" {
		c.token = out.Token
	}
	return &out, nil
}

// Logout revokes the current session token
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.request(ctx).
		SetError(&dto.ErrorResponse{}).
		Post("/api/logout")
	if err := check(resp, err); err != nil {
		return err
	}
	c.token = ""
	return nil
}

func (c *Client) courses(ctx context.Context, path, param string, studentID int64) ([]dto.CourseItem, error) {
	var out dto.CoursesResponse
	resp, err := c.request(ctx).
		SetQueryParam(param, strconv.FormatInt(studentID, 10)).
		SetResult(&out).
		SetError(&dto.ErrorResponse{}).
		Get(path)
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return out.Courses, nil
}

// PursuingCourses lists courses the faculty marked as pursuing
func (c *Client) PursuingCourses(ctx context.Context, studentID int64) ([]dto.CourseItem, error) {
	return c.courses(ctx, "/api/courses/pursuing", "name_contactid", studentID)
}

// CompletedCourses lists completed courses
func (c *Client) CompletedCourses(ctx context.Context, studentID int64) ([]dto.CourseItem, error) {
	return c.courses(ctx, "/api/courses/completed", "studentId", studentID)
}

// PendingCourses lists pending subjects of the student's course
func (c *Client) PendingCourses(ctx context.Context, studentID int64) ([]dto.CourseItem, error) {
	return c.courses(ctx, "/api/courses/pending", "studentId", studentID)
}

// CourseDetails fetches the three subject lists of a course
func (c *Client) CourseDetails(ctx context.Context, studentID int64, course string) (*dto.CourseDetails, error) {
	var out dto.CourseDetailsResponse
	r := c.request(ctx).
		SetQueryParam("name_contactid", strconv.FormatInt(studentID, 10)).
		SetResult(&out).
		SetError(&dto.ErrorResponse{})
	if course != "" {
		r.SetQueryParam("course", course)
	}

	resp, err := r.Get("/api/courses/details")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	if !out.Success || out.Data == nil {
		return nil, fmt.Errorf("portal returned no course data")
	}
	return out.Data, nil
}
