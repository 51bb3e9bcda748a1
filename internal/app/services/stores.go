package services

import (
	"context"

	"github.com/yigit/studentportal/internal/app/models"
)

// StudentStore is the student lookup surface the services depend on
type StudentStore interface {
	GetByCredentials(ctx context.Context, username, password string) (*models.Student, error)
	GetByUsername(ctx context.Context, username string) (*models.Student, error)
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	GetCourseID(ctx context.Context, id int64) (int64, error)
}

// CourseStore reads courses and faculty assignments
type CourseStore interface {
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	GetByName(ctx context.Context, name string) (*models.Course, error)
	PursuingCourses(ctx context.Context, studentID int64) ([]models.Course, error)
	FacultyCompletedCourses(ctx context.Context, studentID int64) ([]models.Course, error)
	PrimaryCompletedCourses(ctx context.Context, studentID int64) ([]models.Course, error)
}

// SubjectStore reads subjects and per-student subject status
type SubjectStore interface {
	ListByCourse(ctx context.Context, courseID int64) ([]models.Subject, error)
	CompletedSubjectIDs(ctx context.Context, studentID int64) ([]int64, error)
	PursuingSubjectIDs(ctx context.Context, studentID int64) ([]int64, error)
}

// HealthChecker runs the store liveness query
type HealthChecker interface {
	Check(ctx context.Context) (int, error)
}
