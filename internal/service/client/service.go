package client

import (
	"context"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/jwalitptl/healthrec-api/pkg/errors"

	"github.com/jwalitptl/healthrec-api/internal/model"
	"github.com/jwalitptl/healthrec-api/internal/repository"
)

type Service struct {
	repo repository.ClientRepository
}

func NewService(repo repository.ClientRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req *model.CreateClientRequest, actor *model.User) (*model.Client, error) {
	client := &model.Client{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		DateOfBirth:   req.DateOfBirth,
		Gender:        req.Gender,
		ContactNumber: req.ContactNumber,
		Email:         req.Email,
		Address:       req.Address,
		CreatedBy:     actor.ID,
	}

	if err := s.repo.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	return s.repo.Get(ctx, id)
}

// Update applies the non-nil fields of req. Only the record's creator
// or an admin may edit it.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateClientRequest, actor *model.User) (*model.Client, error) {
	client, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() && client.CreatedBy != actor.ID {
		return nil, apperrors.Forbidden("only the creator or an admin can edit this client", nil)
	}

	if req.FirstName != nil {
		client.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		client.LastName = *req.LastName
	}
	if req.DateOfBirth != nil {
		client.DateOfBirth = *req.DateOfBirth
	}
	if req.Gender != nil {
		client.Gender = *req.Gender
	}
	if req.ContactNumber != nil {
		client.ContactNumber = *req.ContactNumber
	}
	if req.Email != nil {
		client.Email = req.Email
	}
	if req.Address != nil {
		client.Address = *req.Address
	}

	if client.FirstName == "" || client.LastName == "" {
		return nil, apperrors.BadRequest("first and last name are required", nil)
	}

	if err := s.repo.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *Service) List(ctx context.Context, filters *model.ClientFilters) ([]*model.Client, error) {
	if filters == nil {
		filters = &model.ClientFilters{}
	}
	return s.repo.List(ctx, filters)
}
