// Package profile materializes the composite read view of a client and
// its program history, shared by the console and the external read API.
package profile

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwalitptl/healthrec-api/internal/model"
	"github.com/jwalitptl/healthrec-api/internal/repository"
)

type Service struct {
	clientRepo     repository.ClientRepository
	enrollmentRepo repository.EnrollmentRepository
}

func NewService(clientRepo repository.ClientRepository, enrollmentRepo repository.EnrollmentRepository) *Service {
	return &Service{
		clientRepo:     clientRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

// Project fetches the client and merges each enrollment's status and
// date onto its program. Performs no writes. A client with no
// enrollments projects an empty programs list; an unknown client is a
// not-found error, never a partial view.
func (s *Service) Project(ctx context.Context, clientID uuid.UUID) (*model.ClientProfile, error) {
	client, err := s.clientRepo.Get(ctx, clientID)
	if err != nil {
		return nil, err
	}

	programs, err := s.enrollmentRepo.ListProgramsForClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if programs == nil {
		programs = []model.EnrolledProgram{}
	}

	return &model.ClientProfile{
		Client:   *client,
		Programs: programs,
	}, nil
}
