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

// profileColumns is every student column except the password; NULLs read as ""
var profileColumns = []string{
	"id",
	"username",
	"COALESCE(name, '') AS name",
	"COALESCE(contact, '') AS contact",
	"COALESCE(branch, '') AS branch",
	"COALESCE(course, '') AS course",
	"COALESCE(emailid, '') AS emailid",
	"COALESCE(name_contactid, '') AS name_contactid",
	"COALESCE(course_id, 0) AS course_id",
}

// StudentRepository handles student database operations
type StudentRepository struct {
	db *sqlx.DB
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(database *db.Database) *StudentRepository {
	return &StudentRepository{
		db: database.Conn,
		sb: database.Builder(),
	}
}

func (r *StudentRepository) getOne(ctx context.Context, op string, q squirrel.SelectBuilder) (*models.Student, error) {
	query, args, err := q.Limit(1).ToSql()
	if err != nil {
		logger.Error().Err(err).Str("op", op).Msg("Error building student SQL")
		return nil, fmt.Errorf("failed to build %s query: %w", op, err)
	}

	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Str("op", op).Msg("Error querying student")
		return nil, apperrors.NewStoreError(op, err)
	}
	return &student, nil
}

// GetByCredentials returns the student whose username and password both match,
// compared as stored in a single predicate.
func (r *StudentRepository) GetByCredentials(ctx context.Context, username, password string) (*models.Student, error) {
	q := r.sb.Select(profileColumns...).
		From("student").
		Where(squirrel.Eq{"username": username, "password": password})
	return r.getOne(ctx, "student.get_by_credentials", q)
}

// GetByUsername returns the student including the stored password value
func (r *StudentRepository) GetByUsername(ctx context.Context, username string) (*models.Student, error) {
	columns := append([]string{"password"}, profileColumns...)
	q := r.sb.Select(columns...).
		From("student").
		Where(squirrel.Eq{"username": username})
	return r.getOne(ctx, "student.get_by_username", q)
}

// GetByID retrieves a student profile by ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	q := r.sb.Select(profileColumns...).
		From("student").
		Where(squirrel.Eq{"id": id})
	return r.getOne(ctx, "student.get_by_id", q)
}

// GetCourseID resolves the primary course of a student. A student without a
// course yields 0.
func (r *StudentRepository) GetCourseID(ctx context.Context, id int64) (int64, error) {
	query, args, err := r.sb.Select("COALESCE(course_id, 0)").
		From("student").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build get course id query: %w", err)
	}

	var courseID int64
	if err := r.db.GetContext(ctx, &courseID, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error resolving student course")
		return 0, apperrors.NewStoreError("student.get_course_id", err)
	}
	return courseID, nil
}
