// Package apikey issues and verifies the bearer credentials for the
// external read API.
package apikey

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	apperrors "github.com/jwalitptl/healthrec-api/pkg/errors"

	"github.com/jwalitptl/healthrec-api/internal/model"
	"github.com/jwalitptl/healthrec-api/internal/repository"
	"github.com/jwalitptl/healthrec-api/pkg/security"
)

// Verified keys are memoized briefly so the hot read path does not hit
// the store on every call. Revocation therefore takes up to cacheTTL to
// propagate.
const (
	cacheTTL        = time.Minute
	cacheSweepEvery = 5 * time.Minute
)

type Service struct {
	repo  repository.APIKeyRepository
	cache *gocache.Cache
}

func NewService(repo repository.APIKeyRepository) *Service {
	return &Service{
		repo:  repo,
		cache: gocache.New(cacheTTL, cacheSweepEvery),
	}
}

// Create issues a new key. The plaintext is part of the response and is
// never recoverable afterwards.
func (s *Service) Create(ctx context.Context, req *model.CreateAPIKeyRequest, actor *model.User) (*model.CreatedAPIKey, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.Forbidden("only admins can manage api keys", nil)
	}

	plaintext, hash, err := security.GenerateAPIKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate api key: %w", err)
	}

	key := &model.APIKey{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		Name:      req.Name,
		KeyHash:   hash,
		CreatedBy: actor.ID,
	}

	if err := s.repo.Create(ctx, key); err != nil {
		return nil, err
	}

	return &model.CreatedAPIKey{APIKey: *key, Key: plaintext}, nil
}

func (s *Service) List(ctx context.Context, actor *model.User) ([]*model.APIKey, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.Forbidden("only admins can manage api keys", nil)
	}
	return s.repo.List(ctx)
}

func (s *Service) Revoke(ctx context.Context, id uuid.UUID, actor *model.User) error {
	if !actor.IsAdmin() {
		return apperrors.Forbidden("only admins can manage api keys", nil)
	}
	if err := s.repo.Revoke(ctx, id); err != nil {
		return err
	}
	s.cache.Flush()
	return nil
}

// Verify checks a presented bearer token against the issued keys.
// Every failure mode collapses to unauthorized so callers cannot probe
// which keys exist.
func (s *Service) Verify(ctx context.Context, presented string) (*model.APIKey, error) {
	if !security.ValidAPIKeyFormat(presented) {
		return nil, apperrors.Unauthorized("invalid api key", nil)
	}

	hash := security.HashAPIKey(presented)
	if cached, found := s.cache.Get(hash); found {
		return cached.(*model.APIKey), nil
	}

	key, err := s.repo.GetByHash(ctx, hash)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.Unauthorized("invalid api key", err)
		}
		return nil, err
	}
	if key.Revoked() {
		return nil, apperrors.Unauthorized("api key revoked", nil)
	}

	s.cache.Set(hash, key, gocache.DefaultExpiration)
	return key, nil
}
