package portalclient

import (
	"context"
	"sync"

	"github.com/yigit/studentportal/internal/app/models/dto"
)

// ViewState is the lifecycle of the course view
type ViewState int

const (
	StateIdle ViewState = iota
	StateLoading
	StateReady
	StateError
)

func (s ViewState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// DetailsFetcher loads the subject breakdown of a course
type DetailsFetcher interface {
	CourseDetails(ctx context.Context, studentID int64, course string) (*dto.CourseDetails, error)
}

// Snapshot is a consistent copy of the view for rendering
type Snapshot struct {
	State   ViewState
	Course  string
	Details *dto.CourseDetails
	Err     error
}

// CourseView holds the subject lists of the selected course for one student.
// Only the response to the latest selection is applied; failures are not
// retried and nothing is cached between selections.
type CourseView struct {
	mu        sync.Mutex
	fetcher   DetailsFetcher
	studentID int64

	seq     uint64
	state   ViewState
	course  string
	details *dto.CourseDetails
	err     error
}

// NewCourseView creates an idle view
func NewCourseView(fetcher DetailsFetcher, studentID int64) *CourseView {
	return &CourseView{fetcher: fetcher, studentID: studentID}
}

// Select switches to course and loads it. An empty course returns the view to
// idle. The returned error is the fetch error, or nil when the result was
// applied or superseded by a newer Select.
func (v *CourseView) Select(ctx context.Context, course string) error {
	if course == "" {
		v.mu.Lock()
		defer v.mu.Unlock()
		v.seq++
		v.course = ""
		v.err = nil
		v.state = StateIdle
		v.details = nil
		return nil
	}
	return v.load(ctx, course)
}

// SelectPrimary loads the student's primary course, the one the portal picks
// when no course is named.
func (v *CourseView) SelectPrimary(ctx context.Context) error {
	return v.load(ctx, "")
}

func (v *CourseView) load(ctx context.Context, course string) error {
	v.mu.Lock()
	v.seq++
	seq := v.seq
	v.course = course
	v.err = nil
	v.state = StateLoading
	v.mu.Unlock()

	details, err := v.fetcher.CourseDetails(ctx, v.studentID, course)

	v.mu.Lock()
	defer v.mu.Unlock()
	if seq != v.seq {
		return nil
	}
	if err != nil {
		v.state = StateError
		v.err = err
		v.details = nil
		return err
	}
	v.state = StateReady
	v.details = details
	return nil
}

// Snapshot returns the current state
func (v *CourseView) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Snapshot{State: v.state, Course: v.course, Details: v.details, Err: v.err}
}
