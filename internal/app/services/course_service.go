package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yigit/studentportal/internal/app/models"
	"github.com/yigit/studentportal/internal/app/models/dto"
)

// CourseService defines the course status operations
type CourseService interface {
	PursuingCourses(ctx context.Context, studentID int64) ([]models.Course, error)
	CompletedCourses(ctx context.Context, studentID int64) ([]models.Course, error)
	PendingSubjects(ctx context.Context, studentID int64) ([]models.Subject, error)
	CourseDetails(ctx context.Context, studentID int64, course string) (*dto.CourseDetails, error)
}

// completedSource is one independent provider of completed courses
type completedSource func(ctx context.Context, studentID int64) ([]models.Course, error)

// courseServiceImpl implements the CourseService interface
type courseServiceImpl struct {
	students  StudentStore
	courses   CourseStore
	subjects  SubjectStore
	completed []completedSource
	logger    zerolog.Logger
}

// NewCourseService creates a new course service instance
func NewCourseService(students StudentStore, courses CourseStore, subjects SubjectStore, logger zerolog.Logger) CourseService {
	return &courseServiceImpl{
		students: students,
		courses:  courses,
		subjects: subjects,
		// faculty assignments first, so their names win on duplicate ids
		completed: []completedSource{
			courses.FacultyCompletedCourses,
			courses.PrimaryCompletedCourses,
		},
		logger: logger,
	}
}

// PursuingCourses returns the courses assigned as pursuing, one entry per course
func (s *courseServiceImpl) PursuingCourses(ctx context.Context, studentID int64) ([]models.Course, error) {
	courses, err := s.courses.PursuingCourses(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return MergeCourses(courses), nil
}

// CompletedCourses merges every completed-course provider
func (s *courseServiceImpl) CompletedCourses(ctx context.Context, studentID int64) ([]models.Course, error) {
	sources := make([][]models.Course, 0, len(s.completed))
	for _, source := range s.completed {
		courses, err := source(ctx, studentID)
		if err != nil {
			return nil, err
		}
		sources = append(sources, courses)
	}
	return MergeCourses(sources...), nil
}

// PendingSubjects returns the subjects of the student's course that are
// neither completed nor pursued
func (s *courseServiceImpl) PendingSubjects(ctx context.Context, studentID int64) ([]models.Subject, error) {
	courseID, err := s.students.GetCourseID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	buckets, err := s.classify(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}
	return buckets.Pending, nil
}

// CourseDetails classifies the subjects of a course for the student. An empty
// selector means the student's primary course; otherwise it is a course id or
// an exact course name.
func (s *courseServiceImpl) CourseDetails(ctx context.Context, studentID int64, selector string) (*dto.CourseDetails, error) {
	courseID, err := s.students.GetCourseID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	course, err := s.resolveCourse(ctx, courseID, strings.TrimSpace(selector))
	if err != nil {
		return nil, err
	}

	buckets, err := s.classify(ctx, studentID, course.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Int64("studentID", studentID).
		Int64("courseID", course.ID).
		Int("pursuing", len(buckets.Pursuing)).
		Int("completed", len(buckets.Completed)).
		Int("pending", len(buckets.Pending)).
		Msg("Course details classified")

	return &dto.CourseDetails{
		CourseID:          course.ID,
		CourseName:        course.Name,
		PursuingSubjects:  dto.FromSubjects(buckets.Pursuing),
		CompletedSubjects: dto.FromSubjects(buckets.Completed),
		PendingSubjects:   dto.FromSubjects(buckets.Pending),
	}, nil
}

func (s *courseServiceImpl) resolveCourse(ctx context.Context, primaryID int64, selector string) (*models.Course, error) {
	if selector == "" {
		if primaryID == 0 {
			// no primary course: every bucket is empty
			return &models.Course{}, nil
		}
		return s.courses.GetByID(ctx, primaryID)
	}

	if id, err := strconv.ParseInt(selector, 10, 64); err == nil {
		return s.courses.GetByID(ctx, id)
	}
	return s.courses.GetByName(ctx, selector)
}

func (s *courseServiceImpl) classify(ctx context.Context, studentID, courseID int64) (SubjectBuckets, error) {
	if courseID == 0 {
		return ClassifySubjects(nil, nil, nil), nil
	}

	subjects, err := s.subjects.ListByCourse(ctx, courseID)
	if err != nil {
		return SubjectBuckets{}, err
	}

	completed, err := s.subjects.CompletedSubjectIDs(ctx, studentID)
	if err != nil {
		return SubjectBuckets{}, err
	}

	pursuing, err := s.subjects.PursuingSubjectIDs(ctx, studentID)
	if err != nil {
		return SubjectBuckets{}, err
	}

	return ClassifySubjects(subjects, completed, pursuing), nil
}
