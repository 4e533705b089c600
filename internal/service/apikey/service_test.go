package apikey

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jwalitptl/healthrec-api/pkg/errors"

	"github.com/jwalitptl/healthrec-api/internal/model"
)

// In-memory stub repository keyed by hash, mirroring the unique index
// on key_hash.
type stubAPIKeyRepo struct {
	keys    map[string]*model.APIKey
	getByID map[uuid.UUID]*model.APIKey
	gets    int
}

func newStubAPIKeyRepo() *stubAPIKeyRepo {
	return &stubAPIKeyRepo{
		keys:    make(map[string]*model.APIKey),
		getByID: make(map[uuid.UUID]*model.APIKey),
	}
}

func (r *stubAPIKeyRepo) Create(_ context.Context, key *model.APIKey) error {
	clone := *key
	r.keys[key.KeyHash] = &clone
	r.getByID[key.ID] = &clone
	return nil
}

func (r *stubAPIKeyRepo) GetByHash(_ context.Context, hash string) (*model.APIKey, error) {
	r.gets++
	key, ok := r.keys[hash]
	if !ok {
		return nil, apperrors.NotFound("api key", nil)
	}
	clone := *key
	return &clone, nil
}

func (r *stubAPIKeyRepo) List(_ context.Context) ([]*model.APIKey, error) {
	out := []*model.APIKey{}
	for _, k := range r.keys {
		clone := *k
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubAPIKeyRepo) Revoke(_ context.Context, id uuid.UUID) error {
	key, ok := r.getByID[id]
	if !ok {
		return apperrors.NotFound("api key", nil)
	}
	if key.RevokedAt != nil {
		return apperrors.NotFound("api key", nil)
	}
	now := time.Now()
	key.RevokedAt = &now
	return nil
}

func admin() *model.User {
	return &model.User{Base: model.Base{ID: uuid.New()}, Role: model.RoleAdmin}
}

func doctor() *model.User {
	return &model.User{Base: model.Base{ID: uuid.New()}, Role: model.RoleDoctor}
}

func TestCreateReturnsPlaintextOnce(t *testing.T) {
	repo := newStubAPIKeyRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), &model.CreateAPIKeyRequest{Name: "reporting"}, admin())
	require.NoError(t, err)

	assert.NotEmpty(t, created.Key)
	assert.NotEqual(t, created.Key, created.KeyHash)

	// The stored record never carries the plaintext.
	stored := repo.keys[created.KeyHash]
	require.NotNil(t, stored)
	assert.Equal(t, "reporting", stored.Name)
}

func TestCreateRequiresAdmin(t *testing.T) {
	svc := NewService(newStubAPIKeyRepo())

	_, err := svc.Create(context.Background(), &model.CreateAPIKeyRequest{Name: "reporting"}, doctor())
	assert.True(t, apperrors.IsForbidden(err))
}

func TestVerifyAcceptsIssuedKey(t *testing.T) {
	repo := newStubAPIKeyRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), &model.CreateAPIKeyRequest{Name: "reporting"}, admin())
	require.NoError(t, err)

	key, err := svc.Verify(context.Background(), created.Key)
	require.NoError(t, err)
	assert.Equal(t, created.ID, key.ID)
}

func TestVerifyRejectsMalformedAndUnknownKeys(t *testing.T) {
	svc := NewService(newStubAPIKeyRepo())

	for _, presented := range []string{
		"",
		"hrk_short",
		"nothrk_0000000000000000000000000000000000000000000000000000000000000000",
		"hrk_zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz",
		"hrk_0000000000000000000000000000000000000000000000000000000000000000",
	} {
		_, err := svc.Verify(context.Background(), presented)
		assert.True(t, apperrors.IsUnauthorized(err), "key %q should be rejected", presented)
	}
}

func TestVerifyRejectsRevokedKey(t *testing.T) {
	repo := newStubAPIKeyRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), &model.CreateAPIKeyRequest{Name: "reporting"}, admin())
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(context.Background(), created.ID, admin()))

	_, err = svc.Verify(context.Background(), created.Key)
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestVerifyMemoizesLookups(t *testing.T) {
	repo := newStubAPIKeyRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), &model.CreateAPIKeyRequest{Name: "reporting"}, admin())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := svc.Verify(context.Background(), created.Key)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, repo.gets)
}

func TestRevokeFlushesCache(t *testing.T) {
	repo := newStubAPIKeyRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), &model.CreateAPIKeyRequest{Name: "reporting"}, admin())
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), created.Key)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(context.Background(), created.ID, admin()))

	// The cached entry must not outlive the revocation.
	_, err = svc.Verify(context.Background(), created.Key)
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestRevokeRequiresAdmin(t *testing.T) {
	repo := newStubAPIKeyRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), &model.CreateAPIKeyRequest{Name: "reporting"}, admin())
	require.NoError(t, err)

	err = svc.Revoke(context.Background(), created.ID, doctor())
	assert.True(t, apperrors.IsForbidden(err))
}
