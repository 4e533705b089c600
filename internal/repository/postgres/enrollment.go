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

type enrollmentRepository struct {
	db *sqlx.DB
}

func NewEnrollmentRepository(db *sqlx.DB) repository.EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) Create(ctx context.Context, enrollment *model.Enrollment) error {
	query := `
		INSERT INTO enrollments (id, client_id, program_id, enrollment_date,
			status, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		enrollment.ID,
		enrollment.ClientID,
		enrollment.ProgramID,
		enrollment.EnrollmentDate,
		enrollment.Status,
		enrollment.CreatedAt,
		enrollment.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("client is already enrolled in this program", err)
		}
		return fmt.Errorf("failed to create enrollment: %w", err)
	}
	return nil
}

func (r *enrollmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Enrollment, error) {
	query := `SELECT * FROM enrollments WHERE id = $1`
	var enrollment model.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("enrollment", err)
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}
	return &enrollment, nil
}

func (r *enrollmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.EnrollmentStatus) error {
	// Status is the only mutable attribute of an enrollment.
	res, err := r.db.ExecContext(ctx, `UPDATE enrollments SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update enrollment status: %w", err)
	}
	return checkAffected(res, "enrollment")
}

func (r *enrollmentRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*model.Enrollment, error) {
	query := `SELECT * FROM enrollments WHERE client_id = $1`
	enrollments := []*model.Enrollment{}
	if err := r.db.SelectContext(ctx, &enrollments, query, clientID); err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	return enrollments, nil
}

func (r *enrollmentRepository) ListProgramsForClient(ctx context.Context, clientID uuid.UUID) ([]model.EnrolledProgram, error) {
	query := `
		SELECT p.id AS program_id, p.name, p.description,
		       e.id AS enrollment_id, e.status, e.enrollment_date
		FROM enrollments e
		JOIN programs p ON p.id = e.program_id
		WHERE e.client_id = $1
		ORDER BY e.enrollment_date DESC
	`
	rows := []model.EnrolledProgram{}
	if err := r.db.SelectContext(ctx, &rows, query, clientID); err != nil {
		return nil, fmt.Errorf("failed to list client programs: %w", err)
	}
	return rows, nil
}
