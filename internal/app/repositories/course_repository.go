package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/yigit/studentportal/internal/app/models"
	"github.com/yigit/studentportal/internal/db"
	"github.com/yigit/studentportal/internal/pkg/apperrors"
	"github.com/yigit/studentportal/internal/pkg/logger"
)

// CourseRepository handles course lookups and the faculty assignment relation
type CourseRepository struct {
	db *sqlx.DB
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(database *db.Database) *CourseRepository {
	return &CourseRepository{
		db: database.Conn,
		sb: database.Builder(),
	}
}

func (r *CourseRepository) selectCourses(ctx context.Context, op string, q squirrel.SelectBuilder) ([]models.Course, error) {
	query, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Str("op", op).Msg("Error building course SQL")
		return nil, fmt.Errorf("failed to build %s query: %w", op, err)
	}

	courses := []models.Course{}
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		logger.Error().Err(err).Str("op", op).Msg("Error querying courses")
		return nil, apperrors.NewStoreError(op, err)
	}
	return courses, nil
}

func (r *CourseRepository) getCourse(ctx context.Context, op string, where squirrel.Eq) (*models.Course, error) {
	query, args, err := r.sb.Select("id", "name").
		From("course").
		Where(where).
		OrderBy("id").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s query: %w", op, err)
	}

	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Str("op", op).Msg("Error querying course")
		return nil, apperrors.NewStoreError(op, err)
	}
	return &course, nil
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	return r.getCourse(ctx, "course.get_by_id", squirrel.Eq{"id": id})
}

// GetByName retrieves a course by its exact name
func (r *CourseRepository) GetByName(ctx context.Context, name string) (*models.Course, error) {
	return r.getCourse(ctx, "course.get_by_name", squirrel.Eq{"name": name})
}

func (r *CourseRepository) facultyCourses(ctx context.Context, op string, studentID int64, status string) ([]models.Course, error) {
	q := r.sb.Select("f.course_id AS id", "c.name").
		From("faculty_student f").
		Join("course c ON c.id = f.course_id").
		Where(squirrel.Eq{"f.student_id": studentID, "f.status": status}).
		OrderBy("f.id")
	return r.selectCourses(ctx, op, q)
}

// PursuingCourses lists faculty assignments in the pursuing state
func (r *CourseRepository) PursuingCourses(ctx context.Context, studentID int64) ([]models.Course, error) {
	return r.facultyCourses(ctx, "course.pursuing", studentID, models.FacultyStatusPursuing)
}

// FacultyCompletedCourses lists faculty assignments in the completed state
func (r *CourseRepository) FacultyCompletedCourses(ctx context.Context, studentID int64) ([]models.Course, error) {
	return r.facultyCourses(ctx, "course.faculty_completed", studentID, models.FacultyStatusCompleted)
}

// PrimaryCompletedCourses returns the student's primary course when its completed flag is set
func (r *CourseRepository) PrimaryCompletedCourses(ctx context.Context, studentID int64) ([]models.Course, error) {
	q := r.sb.Select("s.course_id AS id", "c.name").
		From("student s").
		Join("course c ON c.id = s.course_id").
		Where(squirrel.Eq{"s.id": studentID, "s.completed": true})
	return r.selectCourses(ctx, "course.primary_completed", q)
}
