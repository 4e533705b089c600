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

type clientRepository struct {
	db *sqlx.DB
}

func NewClientRepository(db *sqlx.DB) repository.ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(ctx context.Context, client *model.Client) error {
	query := `
		INSERT INTO clients (id, first_name, last_name, date_of_birth, gender,
			contact_number, email, address, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		client.ID,
		client.FirstName,
		client.LastName,
		client.DateOfBirth,
		client.Gender,
		client.ContactNumber,
		client.Email,
		client.Address,
		client.CreatedAt,
		client.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

func (r *clientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	query := `SELECT * FROM clients WHERE id = $1`
	var client model.Client
	if err := r.db.GetContext(ctx, &client, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("client", err)
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return &client, nil
}

func (r *clientRepository) Update(ctx context.Context, client *model.Client) error {
	query := `
		UPDATE clients
		SET first_name = $1, last_name = $2, date_of_birth = $3, gender = $4,
		    contact_number = $5, email = $6, address = $7
		WHERE id = $8
	`
	res, err := r.db.ExecContext(ctx, query,
		client.FirstName,
		client.LastName,
		client.DateOfBirth,
		client.Gender,
		client.ContactNumber,
		client.Email,
		client.Address,
		client.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	return checkAffected(res, "client")
}

func (r *clientRepository) List(ctx context.Context, filters *model.ClientFilters) ([]*model.Client, error) {
	query := `SELECT * FROM clients WHERE 1=1`
	args := []interface{}{}

	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		n := len(args)
		query += fmt.Sprintf(` AND (first_name ILIKE $%d OR last_name ILIKE $%d OR contact_number ILIKE $%d)`, n, n, n)
	}
	if filters.Gender != "" {
		args = append(args, filters.Gender)
		query += fmt.Sprintf(` AND gender = $%d`, len(args))
	}

	filters.Normalize()
	args = append(args, filters.PageSize, filters.Offset())
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	clients := []*model.Client{}
	if err := r.db.SelectContext(ctx, &clients, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

func (r *clientRepository) ListRecent(ctx context.Context, limit int) ([]*model.Client, error) {
	if limit <= 0 {
		limit = 5
	}
	query := `SELECT * FROM clients ORDER BY created_at DESC LIMIT $1`
	clients := []*model.Client{}
	if err := r.db.SelectContext(ctx, &clients, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list recent clients: %w", err)
	}
	return clients, nil
}
