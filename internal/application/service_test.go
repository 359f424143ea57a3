package application

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/abhishek622/intellihire/internal/repository"
	"github.com/abhishek622/intellihire/pkg/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu   sync.Mutex
	now  time.Time
	user map[uuid.UUID]model.User
	jobs map[uuid.UUID]model.JobOpening
	apps map[uuid.UUID]model.Application

	// beforeUpdate runs inside UpdateApplication before the version check.
	beforeUpdate func(stored *model.Application)
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		now:  time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
		user: map[uuid.UUID]model.User{},
		jobs: map[uuid.UUID]model.JobOpening{},
		apps: map[uuid.UUID]model.Application{},
	}
}

func (m *memoryStore) tick() time.Time {
	m.now = m.now.Add(time.Minute)
	return m.now
}

func (m *memoryStore) addUser(role model.UserRole, resume string) uuid.UUID {
	id := uuid.New()
	m.user[id] = model.User{UserID: id, Role: role, Email: id.String() + "@example.com", ResumeText: resume}
	return id
}

func (m *memoryStore) GetUserByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.user[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (m *memoryStore) GetUsersByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[uuid.UUID]*model.User{}
	for _, id := range ids {
		if u, ok := m.user[id]; ok {
			out[id] = &u
		}
	}
	return out, nil
}

func (m *memoryStore) CreateJob(_ context.Context, job *model.JobOpening) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	job.CreatedAt = m.tick()
	m.jobs[job.JobID] = *job
	return nil
}

func (m *memoryStore) GetJob(_ context.Context, id uuid.UUID) (*model.JobOpening, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &j, nil
}

func (m *memoryStore) GetJobsByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.JobOpening, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[uuid.UUID]*model.JobOpening{}
	for _, id := range ids {
		if j, ok := m.jobs[id]; ok {
			out[id] = &j
		}
	}
	return out, nil
}

func (m *memoryStore) listJobs(keep func(model.JobOpening) bool) []model.JobOpening {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.JobOpening
	for _, j := range m.jobs {
		if keep(j) {
			out = append(out, j)
		}
	}
	slices.SortFunc(out, func(a, b model.JobOpening) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out
}

func (m *memoryStore) ListOpenJobs(context.Context) ([]model.JobOpening, error) {
	return m.listJobs(func(j model.JobOpening) bool { return j.Status == model.JobStatusOpen }), nil
}

func (m *memoryStore) ListJobsByCompany(_ context.Context, companyID uuid.UUID) ([]model.JobOpening, error) {
	return m.listJobs(func(j model.JobOpening) bool { return j.CompanyID == companyID }), nil
}

func (m *memoryStore) CreateApplication(_ context.Context, app *model.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.apps {
		if a.JobID == app.JobID && a.CandidateID == app.CandidateID {
			return repository.ErrDuplicate
		}
	}
	app.Version = 1
	app.CreatedAt = m.tick()
	m.apps[app.ApplicationID] = *app
	return nil
}

func (m *memoryStore) GetApplication(_ context.Context, id uuid.UUID) (*model.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.apps[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	a.History = slices.Clone(a.History)
	return &a, nil
}

func (m *memoryStore) FindApplication(_ context.Context, jobID, candidateID uuid.UUID) (*model.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.apps {
		if a.JobID == jobID && a.CandidateID == candidateID {
			return &a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryStore) UpdateApplication(_ context.Context, app *model.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.apps[app.ApplicationID]
	if !ok {
		return repository.ErrNotFound
	}
	if m.beforeUpdate != nil {
		m.beforeUpdate(&stored)
		m.apps[app.ApplicationID] = stored
	}
	if stored.Version != app.Version {
		return repository.ErrVersionConflict
	}
	app.Version++
	m.apps[app.ApplicationID] = *app
	return nil
}

func (m *memoryStore) filterApps(keep func(model.Application) bool) []model.Application {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Application
	for _, a := range m.apps {
		if keep(a) {
			out = append(out, a)
		}
	}
	slices.SortFunc(out, func(a, b model.Application) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out
}

func (m *memoryStore) ListApplicationsByCandidate(_ context.Context, id uuid.UUID) ([]model.Application, error) {
	return m.filterApps(func(a model.Application) bool { return a.CandidateID == id }), nil
}

func (m *memoryStore) ListApplicationsByJob(_ context.Context, id uuid.UUID) ([]model.Application, error) {
	return m.filterApps(func(a model.Application) bool { return a.JobID == id }), nil
}

func (m *memoryStore) ListApplicationsByJobs(_ context.Context, ids []uuid.UUID) ([]model.Application, error) {
	return m.filterApps(func(a model.Application) bool { return slices.Contains(ids, a.JobID) }), nil
}

type transitionLog struct {
	moves []string
}

func (l *transitionLog) ObserveTransition(from, to string) {
	l.moves = append(l.moves, from+"->"+to)
}

type fixture struct {
	store     *memoryStore
	svc       *Service
	log       *transitionLog
	company   Actor
	candidate Actor
	job       *model.JobOpening
}

func newFixture(t *testing.T, rounds int) *fixture {
	t.Helper()
	store := newMemoryStore()
	log := &transitionLog{}
	f := &fixture{
		store:     store,
		svc:       NewService(store, log, nil),
		log:       log,
		company:   Actor{ID: store.addUser(model.UserRoleCompany, ""), Role: model.UserRoleCompany},
		candidate: Actor{ID: store.addUser(model.UserRoleStudent, "Go developer, 3 years"), Role: model.UserRoleStudent},
	}

	req := model.CreateJobReq{Title: "Backend Engineer", Description: "Payments APIs", Skills: []string{" Go ", "", "SQL"}}
	for i := rounds; i >= 1; i-- {
		req.Rounds = append(req.Rounds, model.Round{RoundNumber: i, Type: model.RoundTypeTechnical, Difficulty: model.DifficultyMedium})
	}
	job, err := f.svc.CreateJob(context.Background(), f.company.ID, req)
	require.NoError(t, err)
	f.job = job
	return f
}

func (f *fixture) apply(t *testing.T) *model.Application {
	t.Helper()
	app, err := f.svc.Apply(context.Background(), f.candidate.ID, f.job.JobID)
	require.NoError(t, err)
	return app
}

func (f *fixture) stored(t *testing.T, id uuid.UUID) model.Application {
	t.Helper()
	a, err := f.store.GetApplication(context.Background(), id)
	require.NoError(t, err)
	return *a
}

func TestService_CreateJob(t *testing.T) {
	f := newFixture(t, 3)
	assert.Equal(t, model.JobStatusOpen, f.job.Status)
	assert.Equal(t, []string{"Go", "SQL"}, f.job.Skills)
	for i, r := range f.job.Rounds {
		assert.Equal(t, i+1, r.RoundNumber)
	}

	bad := []model.CreateJobReq{
		{Title: "x", Description: "y"},
		{Title: "x", Description: "y", Rounds: []model.Round{{RoundNumber: 1, Type: "coding", Difficulty: model.DifficultyEasy}}},
		{Title: "x", Description: "y", Rounds: []model.Round{{RoundNumber: 1, Type: model.RoundTypeHR, Difficulty: "extreme"}}},
		{Title: "x", Description: "y", Rounds: []model.Round{
			{RoundNumber: 1, Type: model.RoundTypeHR, Difficulty: model.DifficultyEasy},
			{RoundNumber: 1, Type: model.RoundTypeHR, Difficulty: model.DifficultyEasy},
		}},
		{Title: " ", Description: "y", Rounds: []model.Round{{RoundNumber: 1, Type: model.RoundTypeHR, Difficulty: model.DifficultyEasy}}},
	}
	for _, req := range bad {
		_, err := f.svc.CreateJob(context.Background(), f.company.ID, req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestService_EndToEnd(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 2)

	app := f.apply(t)
	assert.Equal(t, model.ApplicationStatusApplied, app.Status)
	assert.Equal(t, 0, app.CurrentRound)
	assert.Equal(t, "Go developer, 3 years", app.ResumeText)

	app, err := f.svc.UpdateStatus(ctx, f.company.ID, app.ApplicationID, model.ApplicationStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusInProgress, app.Status)

	interviewID := uuid.New()
	app, err = f.svc.SubmitRoundResult(ctx, f.candidate, app.ApplicationID, model.RoundResultReq{
		RoundNumber: 1, InterviewID: &interviewID, Result: "success", Feedback: "clear answers",
	})
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusInProgress, app.Status)
	assert.Equal(t, 1, app.CurrentRound)

	app, err = f.svc.SubmitRoundResult(ctx, f.company, app.ApplicationID, model.RoundResultReq{RoundNumber: 2, Result: "success"})
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusSelected, app.Status)
	assert.Equal(t, 2, app.CurrentRound)

	app, err = f.svc.UpdateStatus(ctx, f.company.ID, app.ApplicationID, model.ApplicationStatusFinalSelected)
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusFinalSelected, app.Status)

	stored := f.stored(t, app.ApplicationID)
	assert.Equal(t, model.ApplicationStatusFinalSelected, stored.Status)
	require.Len(t, stored.History, 2)
	assert.Equal(t, &interviewID, stored.History[0].InterviewID)
	assert.Equal(t, 5, stored.Version)
	assert.Equal(t, []string{
		"applied->in-progress",
		"in-progress->in-progress",
		"in-progress->selected",
		"selected->final-selected",
	}, f.log.moves)
}

func TestService_FailureRejects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 3)
	app := f.apply(t)
	_, err := f.svc.UpdateStatus(ctx, f.company.ID, app.ApplicationID, model.ApplicationStatusInProgress)
	require.NoError(t, err)

	app, err = f.svc.SubmitRoundResult(ctx, f.company, app.ApplicationID, model.RoundResultReq{RoundNumber: 1, Result: "failure"})
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusRejected, app.Status)
	assert.Equal(t, 0, app.CurrentRound)

	_, err = f.svc.SubmitRoundResult(ctx, f.company, app.ApplicationID, model.RoundResultReq{RoundNumber: 2, Result: "success"})
	assert.ErrorIs(t, err, ErrNotInProgress)
}

func TestService_RejectedSubmissionLeavesRecordUnchanged(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 2)
	app := f.apply(t)
	_, err := f.svc.UpdateStatus(ctx, f.company.ID, app.ApplicationID, model.ApplicationStatusInProgress)
	require.NoError(t, err)
	before := f.stored(t, app.ApplicationID)

	testCases := []struct {
		name    string
		actor   Actor
		req     model.RoundResultReq
		wantErr error
	}{
		{name: "bad result", actor: f.candidate, req: model.RoundResultReq{RoundNumber: 1, Result: "passed"}, wantErr: ErrInvalidResult},
		{name: "zero round", actor: f.candidate, req: model.RoundResultReq{Result: "success"}, wantErr: ErrInvalidRound},
		{name: "round past job", actor: f.candidate, req: model.RoundResultReq{RoundNumber: 3, Result: "success"}, wantErr: ErrInvalidRound},
		{name: "other candidate", actor: Actor{ID: uuid.New(), Role: model.UserRoleStudent}, req: model.RoundResultReq{RoundNumber: 1, Result: "success"}, wantErr: ErrForbidden},
		{name: "other company", actor: Actor{ID: uuid.New(), Role: model.UserRoleCompany}, req: model.RoundResultReq{RoundNumber: 1, Result: "success"}, wantErr: ErrForbidden},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.SubmitRoundResult(ctx, tc.actor, app.ApplicationID, tc.req)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, before, f.stored(t, app.ApplicationID))
		})
	}

	_, err = f.svc.SubmitRoundResult(ctx, f.candidate, uuid.New(), model.RoundResultReq{RoundNumber: 1, Result: "success"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_DuplicateRound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 3)
	app := f.apply(t)
	_, err := f.svc.UpdateStatus(ctx, f.company.ID, app.ApplicationID, model.ApplicationStatusInProgress)
	require.NoError(t, err)
	_, err = f.svc.SubmitRoundResult(ctx, f.candidate, app.ApplicationID, model.RoundResultReq{RoundNumber: 2, Result: "success"})
	require.NoError(t, err)

	_, err = f.svc.SubmitRoundResult(ctx, f.candidate, app.ApplicationID, model.RoundResultReq{RoundNumber: 2, Result: "failure"})
	assert.ErrorIs(t, err, ErrDuplicateRound)
	stored := f.stored(t, app.ApplicationID)
	assert.Equal(t, model.ApplicationStatusInProgress, stored.Status)
	assert.Equal(t, 2, stored.CurrentRound)
}

func TestService_VersionConflict(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 2)
	app := f.apply(t)
	_, err := f.svc.UpdateStatus(ctx, f.company.ID, app.ApplicationID, model.ApplicationStatusInProgress)
	require.NoError(t, err)

	// A concurrent writer records round 1 between our read and our write.
	f.store.beforeUpdate = func(stored *model.Application) {
		stored.History = append(stored.History, model.RoundResult{RoundNumber: 1, Result: model.RoundOutcomeSuccess})
		stored.CurrentRound = 1
		stored.Version++
	}
	_, err = f.svc.SubmitRoundResult(ctx, f.candidate, app.ApplicationID, model.RoundResultReq{RoundNumber: 1, Result: "failure"})
	assert.ErrorIs(t, err, ErrConflict)
	f.store.beforeUpdate = nil

	stored := f.stored(t, app.ApplicationID)
	assert.Equal(t, model.ApplicationStatusInProgress, stored.Status)
	require.Len(t, stored.History, 1)
	assert.Equal(t, model.RoundOutcomeSuccess, stored.History[0].Result)
}

func TestService_Apply(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1)
	first := f.apply(t)

	_, err := f.svc.Apply(ctx, f.candidate.ID, f.job.JobID)
	assert.ErrorIs(t, err, ErrAlreadyApplied)
	mine, err := f.svc.ListMine(ctx, f.candidate.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first.ApplicationID, mine[0].ApplicationID)
	assert.Equal(t, f.job.Title, mine[0].Job.Title)

	_, err = f.svc.Apply(ctx, f.candidate.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	closed, err := f.svc.CreateJob(ctx, f.company.ID, model.CreateJobReq{
		Title: "Closed", Description: "n/a", Status: model.JobStatusClosed,
		Rounds: []model.Round{{RoundNumber: 1, Type: model.RoundTypeHR, Difficulty: model.DifficultyEasy}},
	})
	require.NoError(t, err)
	_, err = f.svc.Apply(ctx, f.candidate.ID, closed.JobID)
	assert.ErrorIs(t, err, ErrJobClosed)
}

func TestService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 2)
	app := f.apply(t)

	_, err := f.svc.UpdateStatus(ctx, f.company.ID, app.ApplicationID, "hired")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.svc.UpdateStatus(ctx, f.company.ID, app.ApplicationID, model.ApplicationStatusSelected)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = f.svc.UpdateStatus(ctx, uuid.New(), app.ApplicationID, model.ApplicationStatusRejected)
	assert.ErrorIs(t, err, ErrForbidden)

	same, err := f.svc.UpdateStatus(ctx, f.company.ID, app.ApplicationID, model.ApplicationStatusApplied)
	require.NoError(t, err)
	assert.Equal(t, 1, same.Version)

	rejected, err := f.svc.UpdateStatus(ctx, f.company.ID, app.ApplicationID, model.ApplicationStatusRejected)
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusRejected, rejected.Status)
	assert.Equal(t, []string{"applied->rejected"}, f.log.moves)
}

func TestService_UpdateStatus_RejectAfterFinalSelection(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1)
	app := f.apply(t)

	_, err := f.svc.UpdateStatus(ctx, f.company.ID, app.ApplicationID, model.ApplicationStatusInProgress)
	require.NoError(t, err)
	app, err = f.svc.SubmitRoundResult(ctx, f.company, app.ApplicationID, model.RoundResultReq{RoundNumber: 1, Result: "success"})
	require.NoError(t, err)
	require.Equal(t, model.ApplicationStatusSelected, app.Status)
	_, err = f.svc.UpdateStatus(ctx, f.company.ID, app.ApplicationID, model.ApplicationStatusFinalSelected)
	require.NoError(t, err)

	rejected, err := f.svc.UpdateStatus(ctx, f.company.ID, app.ApplicationID, model.ApplicationStatusRejected)
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusRejected, rejected.Status)
	assert.Equal(t, model.ApplicationStatusRejected, f.stored(t, app.ApplicationID).Status)

	_, err = f.svc.UpdateStatus(ctx, f.company.ID, app.ApplicationID, model.ApplicationStatusFinalSelected)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestService_GetAndListForJob(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1)
	app := f.apply(t)

	detail, err := f.svc.Get(ctx, f.company, app.ApplicationID)
	require.NoError(t, err)
	assert.Equal(t, f.job.JobID, detail.Job.JobID)
	require.NotNil(t, detail.Candidate)
	assert.Equal(t, f.candidate.ID, detail.Candidate.UserID)

	_, err = f.svc.Get(ctx, Actor{ID: uuid.New(), Role: model.UserRoleStudent}, app.ApplicationID)
	assert.ErrorIs(t, err, ErrForbidden)

	job, list, err := f.svc.ListForJob(ctx, f.company.ID, f.job.JobID)
	require.NoError(t, err)
	assert.Equal(t, f.job.JobID, job.JobID)
	require.Len(t, list, 1)
	assert.Equal(t, f.candidate.ID, list[0].Candidate.UserID)

	_, _, err = f.svc.ListForJob(ctx, uuid.New(), f.job.JobID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestService_Dashboard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1)

	var last uuid.UUID
	for i := 0; i < 7; i++ {
		student := f.store.addUser(model.UserRoleStudent, "")
		app, err := f.svc.Apply(ctx, student, f.job.JobID)
		require.NoError(t, err)
		last = app.ApplicationID
		if i%3 == 0 {
			_, err = f.svc.UpdateStatus(ctx, f.company.ID, app.ApplicationID, model.ApplicationStatusRejected)
			require.NoError(t, err)
		}
	}

	d, err := f.svc.Dashboard(ctx, f.company.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, d.TotalJobs)
	assert.Equal(t, 7, d.TotalApplications)
	assert.Equal(t, model.StatusCounts{Applied: 4, Rejected: 3}, d.Stats)
	require.Len(t, d.RecentApplications, 5)
	assert.Equal(t, last, d.RecentApplications[0].ApplicationID)
	assert.Equal(t, f.job.Title, d.RecentApplications[0].Job.Title)

	empty, err := f.svc.Dashboard(ctx, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, empty.TotalApplications)
	assert.Empty(t, empty.RecentApplications)
}
