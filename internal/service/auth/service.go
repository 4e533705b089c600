package auth

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/jwalitptl/healthrec-api/pkg/errors"

	"github.com/jwalitptl/healthrec-api/internal/model"
	"github.com/jwalitptl/healthrec-api/internal/repository"
	"github.com/jwalitptl/healthrec-api/pkg/auth"
	"github.com/jwalitptl/healthrec-api/pkg/security"
)

const (
	maxLoginAttempts = 5
	lockoutDuration  = 15 * time.Minute
)

type Service struct {
	userRepo   repository.UserRepository
	jwtSvc     auth.JWTService
	tokenStore repository.TokenStore
	hasher     security.PasswordHasher
}

func NewService(userRepo repository.UserRepository, jwtSvc auth.JWTService,
	tokenStore repository.TokenStore, hasher security.PasswordHasher) *Service {
	return &Service{
		userRepo:   userRepo,
		jwtSvc:     jwtSvc,
		tokenStore: tokenStore,
		hasher:     hasher,
	}
}

func (s *Service) Login(ctx context.Context, email, password string) (*model.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid credentials", err)
	}

	if user.Status == model.UserStatusLocked {
		if user.LastLoginAttempt != nil && time.Since(*user.LastLoginAttempt) < lockoutDuration {
			return nil, apperrors.Unauthorized("account is locked, please try again later", nil)
		}
		user.Status = model.UserStatusActive
		user.LoginAttempts = 0
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		user.LoginAttempts++
		now := time.Now()
		user.LastLoginAttempt = &now
		if user.LoginAttempts >= maxLoginAttempts {
			user.Status = model.UserStatusLocked
		}
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to update login attempts: %w", err)
		}
		return nil, apperrors.Unauthorized("invalid credentials", nil)
	}

	// Reset login attempts on successful login
	if user.LoginAttempts != 0 || user.Status != model.UserStatusActive {
		user.LoginAttempts = 0
		user.Status = model.UserStatusActive
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to reset login attempts: %w", err)
		}
	}

	token, claims, err := s.jwtSvc.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &model.TokenResponse{
		AccessToken: token,
		ExpiresIn:   int64(time.Until(claims.ExpiresAt.Time).Seconds()),
	}, nil
}

// Logout revokes the presented token for the rest of its lifetime.
func (s *Service) Logout(ctx context.Context, claims *model.TokenClaims) error {
	return s.tokenStore.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
}

// ResolveUser binds validated token claims to the current user record.
// A valid token whose profile row no longer exists is revoked on the
// spot and rejected: an identity without a profile gets no access.
func (s *Service) ResolveUser(ctx context.Context, claims *model.TokenClaims) (*model.User, error) {
	revoked, err := s.tokenStore.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		return nil, apperrors.Unauthorized("token revoked", nil)
	}

	user, err := s.userRepo.Get(ctx, claims.UserID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			_ = s.tokenStore.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
			return nil, apperrors.Unauthorized("user profile not found", err)
		}
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	if user.Status == model.UserStatusLocked {
		return nil, apperrors.Unauthorized("account is locked", nil)
	}

	return user, nil
}

func (s *Service) ValidateToken(_ context.Context, token string) (*model.TokenClaims, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid token", err)
	}
	return claims, nil
}
