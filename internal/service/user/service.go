package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/jwalitptl/healthrec-api/pkg/errors"

	"github.com/jwalitptl/healthrec-api/internal/email"
	"github.com/jwalitptl/healthrec-api/internal/model"
	"github.com/jwalitptl/healthrec-api/internal/repository"
	"github.com/jwalitptl/healthrec-api/pkg/logger"
	"github.com/jwalitptl/healthrec-api/pkg/security"
)

// Service manages operator accounts. Every operation takes the acting
// user explicitly; only admins may get past the guard.
type Service struct {
	repo     repository.UserRepository
	hasher   security.PasswordHasher
	emailSvc email.Service
	log      *logger.Logger
}

func NewService(repo repository.UserRepository, hasher security.PasswordHasher,
	emailSvc email.Service, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		hasher:   hasher,
		emailSvc: emailSvc,
		log:      log,
	}
}

func (s *Service) Create(ctx context.Context, req *model.CreateUserRequest, actor *model.User) (*model.User, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.Forbidden("only admins can create users", nil)
	}

	tempPassword, err := security.GeneratePassword(16)
	if err != nil {
		return nil, fmt.Errorf("failed to generate password: %w", err)
	}
	hash, err := s.hasher.Hash(tempPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Role:         req.Role,
		Status:       model.UserStatusActive,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	// Mail failures must not undo the account; the operator can resend.
	if err := s.emailSvc.SendInvitation(ctx, user.Email, tempPassword); err != nil {
		s.log.Error(err, "failed to send invitation email", "email", user.Email)
	}

	return user, nil
}

// EnsureAdmin creates the initial admin account when no users exist
// yet. Called on startup; a populated user table makes it a no-op.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	users, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to check existing users: %w", err)
	}
	if len(users) > 0 {
		return nil
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash bootstrap password: %w", err)
	}

	admin := &model.User{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		Status:       model.UserStatusActive,
	}

	if err := s.repo.Create(ctx, admin); err != nil {
		return err
	}
	s.log.Info("created bootstrap admin account", "email", admin.Email)
	return nil
}

func (s *Service) List(ctx context.Context, actor *model.User) ([]*model.User, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.Forbidden("only admins can list users", nil)
	}
	return s.repo.List(ctx)
}

func (s *Service) UpdateRole(ctx context.Context, id uuid.UUID, role string, actor *model.User) error {
	if !actor.IsAdmin() {
		return apperrors.Forbidden("only admins can change roles", nil)
	}
	if role != model.RoleAdmin && role != model.RoleDoctor {
		return apperrors.BadRequest("unknown role", nil)
	}
	if actor.ID == id && role != model.RoleAdmin {
		return apperrors.BadRequest("admins cannot demote themselves", nil)
	}
	return s.repo.UpdateRole(ctx, id, role)
}
