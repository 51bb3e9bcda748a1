package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/yigit/studentportal/internal/db"
	"github.com/yigit/studentportal/internal/pkg/apperrors"
)

// HealthRepository runs the liveness query against the store
type HealthRepository struct {
	db *sqlx.DB
}

// NewHealthRepository creates a new HealthRepository
func NewHealthRepository(database *db.Database) *HealthRepository {
	return &HealthRepository{db: database.Conn}
}

// Check asks the store to compute 1+1 and returns the answer
func (r *HealthRepository) Check(ctx context.Context) (int, error) {
	var result int
	if err := r.db.GetContext(ctx, &result, "SELECT 1+1 AS result"); err != nil {
		return 0, apperrors.NewStoreError("health.check", err)
	}
	return result, nil
}
