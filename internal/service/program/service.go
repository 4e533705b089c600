package program

import (
	"context"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/jwalitptl/healthrec-api/pkg/errors"

	"github.com/jwalitptl/healthrec-api/internal/model"
	"github.com/jwalitptl/healthrec-api/internal/repository"
)

type Service struct {
	repo repository.ProgramRepository
}

func NewService(repo repository.ProgramRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req *model.CreateProgramRequest, actor *model.User) (*model.Program, error) {
	program := &model.Program{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   actor.ID,
	}

	if err := s.repo.Create(ctx, program); err != nil {
		return nil, err
	}
	return program, nil
}

// Get returns the program together with its enrollment breakdown.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.ProgramDetail, error) {
	program, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	stats, err := s.repo.Stats(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.ProgramDetail{Program: *program, Enrollments: *stats}, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateProgramRequest, actor *model.User) (*model.Program, error) {
	program, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() && program.CreatedBy != actor.ID {
		return nil, apperrors.Forbidden("only the creator or an admin can edit this program", nil)
	}

	if req.Name != nil {
		program.Name = *req.Name
	}
	if req.Description != nil {
		program.Description = *req.Description
	}
	if program.Name == "" {
		return nil, apperrors.BadRequest("program name is required", nil)
	}

	if err := s.repo.Update(ctx, program); err != nil {
		return nil, err
	}
	return program, nil
}

func (s *Service) List(ctx context.Context, filters *model.ProgramFilters) ([]*model.Program, error) {
	if filters == nil {
		filters = &model.ProgramFilters{}
	}
	return s.repo.List(ctx, filters)
}
