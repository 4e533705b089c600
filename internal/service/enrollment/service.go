// Package enrollment owns the association between a client and a
// program: how it is created, and how its status moves through the
// one-way lifecycle active -> completed | terminated.
package enrollment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/jwalitptl/healthrec-api/pkg/errors"

	"github.com/jwalitptl/healthrec-api/internal/model"
	"github.com/jwalitptl/healthrec-api/internal/repository"
)

type Service struct {
	repo        repository.EnrollmentRepository
	clientRepo  repository.ClientRepository
	programRepo repository.ProgramRepository
}

func NewService(repo repository.EnrollmentRepository, clientRepo repository.ClientRepository,
	programRepo repository.ProgramRepository) *Service {
	return &Service{
		repo:        repo,
		clientRepo:  clientRepo,
		programRepo: programRepo,
	}
}

// Enroll creates an active enrollment of the client in the program,
// dated now and attributed to the acting user. Both references must
// resolve; a second enrollment for the same (client, program) pair is
// rejected as a conflict, backed by a unique constraint in the store.
func (s *Service) Enroll(ctx context.Context, clientID, programID uuid.UUID, actor *model.User) (*model.Enrollment, error) {
	if _, err := s.clientRepo.Get(ctx, clientID); err != nil {
		return nil, err
	}
	if _, err := s.programRepo.Get(ctx, programID); err != nil {
		return nil, err
	}

	now := time.Now()
	enrollment := &model.Enrollment{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		ClientID:       clientID,
		ProgramID:      programID,
		EnrollmentDate: now,
		Status:         model.EnrollmentStatusActive,
		CreatedBy:      actor.ID,
	}

	if err := s.repo.Create(ctx, enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

// UpdateStatus moves an active enrollment to completed or terminated.
// Both target states are terminal: once an enrollment has left active
// there is no way back, not even for admins.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status model.EnrollmentStatus, actor *model.User) (*model.Enrollment, error) {
	if !status.Valid() || !status.Terminal() {
		return nil, apperrors.BadRequest(fmt.Sprintf("cannot transition to status %q", status), nil)
	}

	enrollment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if enrollment.Status.Terminal() {
		return nil, apperrors.Conflict(
			fmt.Sprintf("enrollment is already %s", enrollment.Status), nil)
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	enrollment.Status = status
	return enrollment, nil
}

// ListAvailablePrograms is the selection source for Enroll: every
// program the client holds no enrollment record for, in any status,
// ordered by name.
func (s *Service) ListAvailablePrograms(ctx context.Context, clientID uuid.UUID) ([]*model.Program, error) {
	if _, err := s.clientRepo.Get(ctx, clientID); err != nil {
		return nil, err
	}
	return s.programRepo.ListAvailableForClient(ctx, clientID)
}

// ListForClient returns the client's raw enrollment records.
func (s *Service) ListForClient(ctx context.Context, clientID uuid.UUID) ([]*model.Enrollment, error) {
	if _, err := s.clientRepo.Get(ctx, clientID); err != nil {
		return nil, err
	}
	return s.repo.ListByClient(ctx, clientID)
}
