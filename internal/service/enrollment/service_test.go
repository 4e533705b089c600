package enrollment

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jwalitptl/healthrec-api/pkg/errors"

	"github.com/jwalitptl/healthrec-api/internal/model"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubClientRepo struct {
	clients map[uuid.UUID]*model.Client
}

func newStubClientRepo() *stubClientRepo {
	return &stubClientRepo{clients: make(map[uuid.UUID]*model.Client)}
}

func (r *stubClientRepo) Create(_ context.Context, c *model.Client) error {
	clone := *c
	r.clients[c.ID] = &clone
	return nil
}

func (r *stubClientRepo) Get(_ context.Context, id uuid.UUID) (*model.Client, error) {
	c, ok := r.clients[id]
	if !ok {
		return nil, apperrors.NotFound("client", nil)
	}
	clone := *c
	return &clone, nil
}

func (r *stubClientRepo) Update(_ context.Context, c *model.Client) error {
	if _, ok := r.clients[c.ID]; !ok {
		return apperrors.NotFound("client", nil)
	}
	clone := *c
	r.clients[c.ID] = &clone
	return nil
}

func (r *stubClientRepo) List(_ context.Context, _ *model.ClientFilters) ([]*model.Client, error) {
	out := []*model.Client{}
	for _, c := range r.clients {
		clone := *c
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubClientRepo) ListRecent(_ context.Context, _ int) ([]*model.Client, error) {
	return r.List(nil, nil)
}

type stubProgramRepo struct {
	programs    map[uuid.UUID]*model.Program
	enrollments *stubEnrollmentRepo
}

func (r *stubProgramRepo) Create(_ context.Context, p *model.Program) error {
	clone := *p
	r.programs[p.ID] = &clone
	return nil
}

func (r *stubProgramRepo) Get(_ context.Context, id uuid.UUID) (*model.Program, error) {
	p, ok := r.programs[id]
	if !ok {
		return nil, apperrors.NotFound("program", nil)
	}
	clone := *p
	return &clone, nil
}

func (r *stubProgramRepo) Update(_ context.Context, p *model.Program) error {
	if _, ok := r.programs[p.ID]; !ok {
		return apperrors.NotFound("program", nil)
	}
	clone := *p
	r.programs[p.ID] = &clone
	return nil
}

func (r *stubProgramRepo) List(_ context.Context, _ *model.ProgramFilters) ([]*model.Program, error) {
	out := []*model.Program{}
	for _, p := range r.programs {
		clone := *p
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ListAvailableForClient mirrors the real query: any enrollment record
// removes the program, whatever its status.
func (r *stubProgramRepo) ListAvailableForClient(_ context.Context, clientID uuid.UUID) ([]*model.Program, error) {
	enrolled := make(map[uuid.UUID]bool)
	for _, e := range r.enrollments.enrollments {
		if e.ClientID == clientID {
			enrolled[e.ProgramID] = true
		}
	}

	out := []*model.Program{}
	for _, p := range r.programs {
		if enrolled[p.ID] {
			continue
		}
		clone := *p
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubProgramRepo) Stats(_ context.Context, programID uuid.UUID) (*model.ProgramStats, error) {
	stats := &model.ProgramStats{}
	for _, e := range r.enrollments.enrollments {
		if e.ProgramID != programID {
			continue
		}
		switch e.Status {
		case model.EnrollmentStatusActive:
			stats.Active++
		case model.EnrollmentStatusCompleted:
			stats.Completed++
		case model.EnrollmentStatusTerminated:
			stats.Terminated++
		}
	}
	return stats, nil
}

type stubEnrollmentRepo struct {
	enrollments map[uuid.UUID]*model.Enrollment
}

func newStubEnrollmentRepo() *stubEnrollmentRepo {
	return &stubEnrollmentRepo{enrollments: make(map[uuid.UUID]*model.Enrollment)}
}

// Create enforces the same unique (client, program) constraint the real
// table carries.
func (r *stubEnrollmentRepo) Create(_ context.Context, e *model.Enrollment) error {
	for _, existing := range r.enrollments {
		if existing.ClientID == e.ClientID && existing.ProgramID == e.ProgramID {
			return apperrors.Conflict("client is already enrolled in this program", nil)
		}
	}
	clone := *e
	r.enrollments[e.ID] = &clone
	return nil
}

func (r *stubEnrollmentRepo) Get(_ context.Context, id uuid.UUID) (*model.Enrollment, error) {
	e, ok := r.enrollments[id]
	if !ok {
		return nil, apperrors.NotFound("enrollment", nil)
	}
	clone := *e
	return &clone, nil
}

func (r *stubEnrollmentRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.EnrollmentStatus) error {
	e, ok := r.enrollments[id]
	if !ok {
		return apperrors.NotFound("enrollment", nil)
	}
	e.Status = status
	return nil
}

func (r *stubEnrollmentRepo) ListByClient(_ context.Context, clientID uuid.UUID) ([]*model.Enrollment, error) {
	out := []*model.Enrollment{}
	for _, e := range r.enrollments {
		if e.ClientID == clientID {
			clone := *e
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubEnrollmentRepo) ListProgramsForClient(_ context.Context, _ uuid.UUID) ([]model.EnrolledProgram, error) {
	return nil, nil
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

type fixture struct {
	svc         *Service
	clients     *stubClientRepo
	programs    *stubProgramRepo
	enrollments *stubEnrollmentRepo
	actor       *model.User
}

func newFixture() *fixture {
	enrollments := newStubEnrollmentRepo()
	clients := newStubClientRepo()
	programs := &stubProgramRepo{
		programs:    make(map[uuid.UUID]*model.Program),
		enrollments: enrollments,
	}
	return &fixture{
		svc:         NewService(enrollments, clients, programs),
		clients:     clients,
		programs:    programs,
		enrollments: enrollments,
		actor: &model.User{
			Base: model.Base{ID: uuid.New()},
			Role: model.RoleDoctor,
		},
	}
}

func (f *fixture) addClient(t *testing.T) *model.Client {
	t.Helper()
	c := &model.Client{
		Base:      model.Base{ID: uuid.New(), CreatedAt: time.Now()},
		FirstName: "Jane",
		LastName:  "Doe",
		Gender:    model.GenderFemale,
	}
	require.NoError(t, f.clients.Create(context.Background(), c))
	return c
}

func (f *fixture) addProgram(t *testing.T, name string) *model.Program {
	t.Helper()
	p := &model.Program{
		Base: model.Base{ID: uuid.New(), CreatedAt: time.Now()},
		Name: name,
	}
	require.NoError(t, f.programs.Create(context.Background(), p))
	return p
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestEnrollCreatesActiveEnrollment(t *testing.T) {
	f := newFixture()
	client := f.addClient(t)
	program := f.addProgram(t, "Diabetes Management")

	before := time.Now()
	enrollment, err := f.svc.Enroll(context.Background(), client.ID, program.ID, f.actor)
	require.NoError(t, err)

	assert.Equal(t, client.ID, enrollment.ClientID)
	assert.Equal(t, program.ID, enrollment.ProgramID)
	assert.Equal(t, model.EnrollmentStatusActive, enrollment.Status)
	assert.Equal(t, f.actor.ID, enrollment.CreatedBy)
	assert.False(t, enrollment.EnrollmentDate.Before(before))
	assert.False(t, enrollment.EnrollmentDate.After(time.Now()))
	assert.Len(t, f.enrollments.enrollments, 1)
}

func TestEnrollUnknownReferences(t *testing.T) {
	f := newFixture()
	client := f.addClient(t)
	program := f.addProgram(t, "Diabetes Management")

	_, err := f.svc.Enroll(context.Background(), uuid.New(), program.ID, f.actor)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = f.svc.Enroll(context.Background(), client.ID, uuid.New(), f.actor)
	assert.True(t, apperrors.IsNotFound(err))

	assert.Empty(t, f.enrollments.enrollments)
}

func TestEnrollDuplicateIsConflict(t *testing.T) {
	f := newFixture()
	client := f.addClient(t)
	program := f.addProgram(t, "Diabetes Management")

	_, err := f.svc.Enroll(context.Background(), client.ID, program.ID, f.actor)
	require.NoError(t, err)

	_, err = f.svc.Enroll(context.Background(), client.ID, program.ID, f.actor)
	assert.True(t, apperrors.IsConflict(err))
	assert.Len(t, f.enrollments.enrollments, 1)
}

func TestListAvailableProgramsExcludesAllEnrolledStatuses(t *testing.T) {
	f := newFixture()
	client := f.addClient(t)
	enrolled := f.addProgram(t, "Diabetes Management")
	terminated := f.addProgram(t, "Antenatal Care")
	open := f.addProgram(t, "TB Treatment")

	_, err := f.svc.Enroll(context.Background(), client.ID, enrolled.ID, f.actor)
	require.NoError(t, err)

	e2, err := f.svc.Enroll(context.Background(), client.ID, terminated.ID, f.actor)
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(context.Background(), e2.ID, model.EnrollmentStatusTerminated, f.actor)
	require.NoError(t, err)

	available, err := f.svc.ListAvailablePrograms(context.Background(), client.ID)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, open.ID, available[0].ID)
}

func TestListAvailableProgramsOrderedByName(t *testing.T) {
	f := newFixture()
	client := f.addClient(t)
	f.addProgram(t, "TB Treatment")
	f.addProgram(t, "Antenatal Care")
	f.addProgram(t, "Diabetes Management")

	available, err := f.svc.ListAvailablePrograms(context.Background(), client.ID)
	require.NoError(t, err)
	require.Len(t, available, 3)
	assert.Equal(t, "Antenatal Care", available[0].Name)
	assert.Equal(t, "Diabetes Management", available[1].Name)
	assert.Equal(t, "TB Treatment", available[2].Name)
}

func TestUpdateStatusLeavesOtherEnrollmentsAlone(t *testing.T) {
	f := newFixture()
	client := f.addClient(t)
	p1 := f.addProgram(t, "Diabetes Management")
	p2 := f.addProgram(t, "Antenatal Care")

	e1, err := f.svc.Enroll(context.Background(), client.ID, p1.ID, f.actor)
	require.NoError(t, err)
	e2, err := f.svc.Enroll(context.Background(), client.ID, p2.ID, f.actor)
	require.NoError(t, err)

	updated, err := f.svc.UpdateStatus(context.Background(), e1.ID, model.EnrollmentStatusCompleted, f.actor)
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentStatusCompleted, updated.Status)

	stored2, err := f.enrollments.Get(context.Background(), e2.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentStatusActive, stored2.Status)
}

func TestUpdateStatusRejectsNonTerminalTargets(t *testing.T) {
	f := newFixture()
	client := f.addClient(t)
	program := f.addProgram(t, "Diabetes Management")

	e, err := f.svc.Enroll(context.Background(), client.ID, program.ID, f.actor)
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(context.Background(), e.ID, model.EnrollmentStatusActive, f.actor)
	assert.True(t, apperrors.IsBadRequest(err))

	_, err = f.svc.UpdateStatus(context.Background(), e.ID, model.EnrollmentStatus("paused"), f.actor)
	assert.True(t, apperrors.IsBadRequest(err))
}

func TestUpdateStatusFromTerminalStateIsConflict(t *testing.T) {
	f := newFixture()
	client := f.addClient(t)
	program := f.addProgram(t, "Diabetes Management")

	e, err := f.svc.Enroll(context.Background(), client.ID, program.ID, f.actor)
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(context.Background(), e.ID, model.EnrollmentStatusCompleted, f.actor)
	require.NoError(t, err)

	// No reactivation, and no crossing between terminal states.
	_, err = f.svc.UpdateStatus(context.Background(), e.ID, model.EnrollmentStatusTerminated, f.actor)
	assert.True(t, apperrors.IsConflict(err))
}

func TestUpdateStatusUnknownEnrollment(t *testing.T) {
	f := newFixture()
	_, err := f.svc.UpdateStatus(context.Background(), uuid.New(), model.EnrollmentStatusCompleted, f.actor)
	assert.True(t, apperrors.IsNotFound(err))
}
