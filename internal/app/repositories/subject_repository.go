package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/yigit/studentportal/internal/app/models"
	"github.com/yigit/studentportal/internal/db"
	"github.com/yigit/studentportal/internal/pkg/apperrors"
	"github.com/yigit/studentportal/internal/pkg/logger"
)

// SubjectRepository reads subjects and the per-student status relations
type SubjectRepository struct {
	db *sqlx.DB
	sb squirrel.StatementBuilderType
}

// NewSubjectRepository creates a new SubjectRepository
func NewSubjectRepository(database *db.Database) *SubjectRepository {
	return &SubjectRepository{
		db: database.Conn,
		sb: database.Builder(),
	}
}

// ListByCourse returns the subjects of a course ordered by subject id
func (r *SubjectRepository) ListByCourse(ctx context.Context, courseID int64) ([]models.Subject, error) {
	query, args, err := r.sb.Select("id", "name", "course_id").
		From("subject").
		Where(squirrel.Eq{"course_id": courseID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list subjects query: %w", err)
	}

	subjects := []models.Subject{}
	if err := r.db.SelectContext(ctx, &subjects, query, args...); err != nil {
		logger.Error().Err(err).Int64("courseID", courseID).Msg("Error listing subjects")
		return nil, apperrors.NewStoreError("subject.list_by_course", err)
	}
	return subjects, nil
}

func (r *SubjectRepository) subjectIDs(ctx context.Context, table string, studentID int64) ([]int64, error) {
	query, args, err := r.sb.Select("subject_id").
		From(table).
		Where(squirrel.Eq{"student_id": studentID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s query: %w", table, err)
	}

	ids := []int64{}
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		logger.Error().Err(err).Str("table", table).Int64("studentID", studentID).Msg("Error reading subject status")
		return nil, apperrors.NewStoreError(table, err)
	}
	return ids, nil
}

// CompletedSubjectIDs returns the ids in completed_subjects for the student
func (r *SubjectRepository) CompletedSubjectIDs(ctx context.Context, studentID int64) ([]int64, error) {
	return r.subjectIDs(ctx, "completed_subjects", studentID)
}

// PursuingSubjectIDs returns the ids in pursuing_subjects for the student
func (r *SubjectRepository) PursuingSubjectIDs(ctx context.Context, studentID int64) ([]int64, error) {
	return r.subjectIDs(ctx, "pursuing_subjects", studentID)
}
