package user

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jwalitptl/healthrec-api/pkg/errors"

	"github.com/jwalitptl/healthrec-api/internal/model"
	"github.com/jwalitptl/healthrec-api/pkg/logger"
	"github.com/jwalitptl/healthrec-api/pkg/security"
)

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return apperrors.Conflict("email already in use", nil)
		}
	}
	clone := *u
	r.users[u.ID] = &clone
	return nil
}

func (r *stubUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.NotFound("user", nil)
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, apperrors.NotFound("user", nil)
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	clone := *u
	r.users[u.ID] = &clone
	return nil
}

func (r *stubUserRepo) UpdateRole(_ context.Context, id uuid.UUID, role string) error {
	u, ok := r.users[id]
	if !ok {
		return apperrors.NotFound("user", nil)
	}
	u.Role = role
	return nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*model.User, error) {
	out := []*model.User{}
	for _, u := range r.users {
		clone := *u
		out = append(out, &clone)
	}
	return out, nil
}

// stubEmailService records invitations instead of sending them.
type stubEmailService struct {
	sent []string
	err  error
}

func (s *stubEmailService) SendInvitation(_ context.Context, to, _ string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, to)
	return nil
}

func newTestService() (*Service, *stubUserRepo, *stubEmailService) {
	repo := newStubUserRepo()
	mail := &stubEmailService{}
	svc := NewService(repo, security.NewBcryptHasher(4), mail, logger.NewNop())
	return svc, repo, mail
}

func admin() *model.User {
	return &model.User{Base: model.Base{ID: uuid.New()}, Role: model.RoleAdmin}
}

func doctor() *model.User {
	return &model.User{Base: model.Base{ID: uuid.New()}, Role: model.RoleDoctor}
}

func TestCreateSendsInvitation(t *testing.T) {
	svc, repo, mail := newTestService()

	created, err := svc.Create(context.Background(), &model.CreateUserRequest{
		Email: "  New.Doctor@Clinic.Test ",
		Role:  model.RoleDoctor,
	}, admin())
	require.NoError(t, err)

	assert.Equal(t, "new.doctor@clinic.test", created.Email)
	assert.Equal(t, model.RoleDoctor, created.Role)
	assert.Equal(t, model.UserStatusActive, created.Status)
	assert.NotEmpty(t, created.PasswordHash)

	require.Len(t, mail.sent, 1)
	assert.Equal(t, "new.doctor@clinic.test", mail.sent[0])

	_, err = repo.Get(context.Background(), created.ID)
	assert.NoError(t, err)
}

func TestCreateSurvivesMailFailure(t *testing.T) {
	svc, repo, mail := newTestService()
	mail.err = errors.New("smtp unreachable")

	created, err := svc.Create(context.Background(), &model.CreateUserRequest{
		Email: "new.doctor@clinic.test",
		Role:  model.RoleDoctor,
	}, admin())
	require.NoError(t, err)

	_, err = repo.Get(context.Background(), created.ID)
	assert.NoError(t, err)
}

func TestCreateRequiresAdmin(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Create(context.Background(), &model.CreateUserRequest{
		Email: "new.doctor@clinic.test",
		Role:  model.RoleDoctor,
	}, doctor())
	assert.True(t, apperrors.IsForbidden(err))
}

func TestEnsureAdminSeedsEmptyTable(t *testing.T) {
	svc, repo, _ := newTestService()

	require.NoError(t, svc.EnsureAdmin(context.Background(), "root@clinic.test", "bootstrap-secret"))

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "root@clinic.test", users[0].Email)
	assert.Equal(t, model.RoleAdmin, users[0].Role)
}

func TestEnsureAdminSkipsPopulatedTable(t *testing.T) {
	svc, repo, _ := newTestService()
	require.NoError(t, repo.Create(context.Background(), doctor()))

	require.NoError(t, svc.EnsureAdmin(context.Background(), "root@clinic.test", "bootstrap-secret"))

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestEnsureAdminNoopWithoutConfig(t *testing.T) {
	svc, repo, _ := newTestService()

	require.NoError(t, svc.EnsureAdmin(context.Background(), "", ""))

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestListRequiresAdmin(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.List(context.Background(), doctor())
	assert.True(t, apperrors.IsForbidden(err))

	_, err = svc.List(context.Background(), admin())
	assert.NoError(t, err)
}

func TestUpdateRole(t *testing.T) {
	svc, repo, _ := newTestService()
	actor := admin()

	target := doctor()
	require.NoError(t, repo.Create(context.Background(), target))

	require.NoError(t, svc.UpdateRole(context.Background(), target.ID, model.RoleAdmin, actor))

	stored, err := repo.Get(context.Background(), target.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, stored.Role)
}

func TestUpdateRoleRejectsUnknownRole(t *testing.T) {
	svc, repo, _ := newTestService()

	target := doctor()
	require.NoError(t, repo.Create(context.Background(), target))

	err := svc.UpdateRole(context.Background(), target.ID, "superuser", admin())
	assert.True(t, apperrors.IsBadRequest(err))
}

func TestUpdateRoleBlocksSelfDemotion(t *testing.T) {
	svc, repo, _ := newTestService()
	actor := admin()
	require.NoError(t, repo.Create(context.Background(), actor))

	err := svc.UpdateRole(context.Background(), actor.ID, model.RoleDoctor, actor)
	assert.True(t, apperrors.IsBadRequest(err))
}

func TestUpdateRoleRequiresAdmin(t *testing.T) {
	svc, repo, _ := newTestService()

	target := doctor()
	require.NoError(t, repo.Create(context.Background(), target))

	err := svc.UpdateRole(context.Background(), target.ID, model.RoleAdmin, doctor())
	assert.True(t, apperrors.IsForbidden(err))
}
