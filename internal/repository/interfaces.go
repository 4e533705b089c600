package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/healthrec-api/internal/model"
)

// All repository interfaces in one file
type (
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		Update(ctx context.Context, user *model.User) error
		UpdateRole(ctx context.Context, id uuid.UUID, role string) error
		List(ctx context.Context) ([]*model.User, error)
	}

	ClientRepository interface {
		Create(ctx context.Context, client *model.Client) error
		Get(ctx context.Context, id uuid.UUID) (*model.Client, error)
		Update(ctx context.Context, client *model.Client) error
		List(ctx context.Context, filters *model.ClientFilters) ([]*model.Client, error)
		ListRecent(ctx context.Context, limit int) ([]*model.Client, error)
	}

	ProgramRepository interface {
		Create(ctx context.Context, program *model.Program) error
		Get(ctx context.Context, id uuid.UUID) (*model.Program, error)
		Update(ctx context.Context, program *model.Program) error
		List(ctx context.Context, filters *model.ProgramFilters) ([]*model.Program, error)
		// ListAvailableForClient returns programs the client has no
		// enrollment record for, regardless of that record's status,
		// ordered by name.
		ListAvailableForClient(ctx context.Context, clientID uuid.UUID) ([]*model.Program, error)
		Stats(ctx context.Context, programID uuid.UUID) (*model.ProgramStats, error)
	}

	EnrollmentRepository interface {
		Create(ctx context.Context, enrollment *model.Enrollment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Enrollment, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.EnrollmentStatus) error
		ListByClient(ctx context.Context, clientID uuid.UUID) ([]*model.Enrollment, error)
		// ListProgramsForClient resolves the enrollment/program join
		// into explicit read records.
		ListProgramsForClient(ctx context.Context, clientID uuid.UUID) ([]model.EnrolledProgram, error)
	}

	APIKeyRepository interface {
		Create(ctx context.Context, key *model.APIKey) error
		GetByHash(ctx context.Context, hash string) (*model.APIKey, error)
		List(ctx context.Context) ([]*model.APIKey, error)
		Revoke(ctx context.Context, id uuid.UUID) error
	}

	StatsRepository interface {
		DashboardCounts(ctx context.Context) (*model.DashboardCounts, error)
	}

	// TokenStore tracks revoked access tokens until they expire.
	TokenStore interface {
		Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
		IsRevoked(ctx context.Context, tokenID string) (bool, error)
	}
)
