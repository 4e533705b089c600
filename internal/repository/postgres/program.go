package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	apperrors "github.com/jwalitptl/healthrec-api/pkg/errors"

	"github.com/jwalitptl/healthrec-api/internal/model"
	"github.com/jwalitptl/healthrec-api/internal/repository"
)

type programRepository struct {
	db *sqlx.DB
}

func NewProgramRepository(db *sqlx.DB) repository.ProgramRepository {
	return &programRepository{db: db}
}

func (r *programRepository) Create(ctx context.Context, program *model.Program) error {
	query := `
		INSERT INTO programs (id, name, description, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		program.ID,
		program.Name,
		program.Description,
		program.CreatedAt,
		program.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to create program: %w", err)
	}
	return nil
}

func (r *programRepository) Get(ctx context.Context, id uuid.UUID) (*model.Program, error) {
	query := `SELECT * FROM programs WHERE id = $1`
	var program model.Program
	if err := r.db.GetContext(ctx, &program, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("program", err)
		}
		return nil, fmt.Errorf("failed to get program: %w", err)
	}
	return &program, nil
}

func (r *programRepository) Update(ctx context.Context, program *model.Program) error {
	// created_by is immutable.
	query := `UPDATE programs SET name = $1, description = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, program.Name, program.Description, program.ID)
	if err != nil {
		return fmt.Errorf("failed to update program: %w", err)
	}
	return checkAffected(res, "program")
}

func (r *programRepository) List(ctx context.Context, filters *model.ProgramFilters) ([]*model.Program, error) {
	query := `SELECT * FROM programs WHERE 1=1`
	args := []interface{}{}

	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		n := len(args)
		query += fmt.Sprintf(` AND (name ILIKE $%d OR description ILIKE $%d)`, n, n)
	}

	filters.Normalize()
	args = append(args, filters.PageSize, filters.Offset())
	query += fmt.Sprintf(` ORDER BY name ASC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	programs := []*model.Program{}
	if err := r.db.SelectContext(ctx, &programs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}
	return programs, nil
}

func (r *programRepository) ListAvailableForClient(ctx context.Context, clientID uuid.UUID) ([]*model.Program, error) {
	// Any enrollment record, whatever its status, removes the program
	// from the selection set.
	query := `
		SELECT p.* FROM programs p
		WHERE NOT EXISTS (
			SELECT 1 FROM enrollments e
			WHERE e.program_id = p.id AND e.client_id = $1
		)
		ORDER BY p.name ASC
	`
	programs := []*model.Program{}
	if err := r.db.SelectContext(ctx, &programs, query, clientID); err != nil {
		return nil, fmt.Errorf("failed to list available programs: %w", err)
	}
	return programs, nil
}

func (r *programRepository) Stats(ctx context.Context, programID uuid.UUID) (*model.ProgramStats, error) {
	query := `
		SELECT
			count(*) FILTER (WHERE status = 'active')     AS active,
			count(*) FILTER (WHERE status = 'completed')  AS completed,
			count(*) FILTER (WHERE status = 'terminated') AS terminated
		FROM enrollments
		WHERE program_id = $1
	`
	var stats model.ProgramStats
	if err := r.db.GetContext(ctx, &stats, query, programID); err != nil {
		return nil, fmt.Errorf("failed to get program stats: %w", err)
	}
	return &stats, nil
}
