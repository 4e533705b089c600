package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/healthrec-api/internal/model"
	"github.com/jwalitptl/healthrec-api/internal/repository"
)

type statsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) repository.StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) DashboardCounts(ctx context.Context) (*model.DashboardCounts, error) {
	query := `
		SELECT
			(SELECT count(*) FROM clients)  AS clients,
			(SELECT count(*) FROM programs) AS programs,
			(SELECT count(*) FROM enrollments WHERE status = 'active') AS active_enrollments
	`
	var counts model.DashboardCounts
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("failed to get dashboard counts: %w", err)
	}
	return &counts, nil
}
