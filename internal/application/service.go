package application

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/abhishek622/intellihire/internal/repository"
	"github.com/abhishek622/intellihire/pkg"
	"github.com/abhishek622/intellihire/pkg/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("not allowed for this user")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidResult     = errors.New("result must be success or failure")
	ErrInvalidRound      = errors.New("invalid round number")
	ErrDuplicateRound    = errors.New("round result already recorded")
	ErrNotInProgress     = errors.New("application is not in progress")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrAlreadyApplied    = errors.New("already applied to this job")
	ErrJobClosed         = errors.New("job is not accepting applications")
	ErrConflict          = errors.New("application was modified concurrently, retry")
)

const recentApplications = 5

type UserStore interface {
	GetUserByID(ctx context.Context, userID uuid.UUID) (*model.User, error)
	GetUsersByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.User, error)
}

type JobStore interface {
	CreateJob(ctx context.Context, job *model.JobOpening) error
	GetJob(ctx context.Context, jobID uuid.UUID) (*model.JobOpening, error)
	GetJobsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.JobOpening, error)
	ListOpenJobs(ctx context.Context) ([]model.JobOpening, error)
	ListJobsByCompany(ctx context.Context, companyID uuid.UUID) ([]model.JobOpening, error)
}

type ApplicationStore interface {
	CreateApplication(ctx context.Context, app *model.Application) error
	GetApplication(ctx context.Context, applicationID uuid.UUID) (*model.Application, error)
	FindApplication(ctx context.Context, jobID, candidateID uuid.UUID) (*model.Application, error)
	UpdateApplication(ctx context.Context, app *model.Application) error
	ListApplicationsByCandidate(ctx context.Context, candidateID uuid.UUID) ([]model.Application, error)
	ListApplicationsByJob(ctx context.Context, jobID uuid.UUID) ([]model.Application, error)
	ListApplicationsByJobs(ctx context.Context, jobIDs []uuid.UUID) ([]model.Application, error)
}

type Store interface {
	UserStore
	JobStore
	ApplicationStore
}

type TransitionObserver interface {
	ObserveTransition(from, to string)
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   uuid.UUID
	Role model.UserRole
}

func (a Actor) isStudent() bool { return a.Role == model.UserRoleStudent }
func (a Actor) isCompany() bool { return a.Role == model.UserRoleCompany }

// Service owns job openings and the candidate pipeline attached to them.
type Service struct {
	store    Store
	observer TransitionObserver
	logger   *zap.Logger
}

func NewService(store Store, observer TransitionObserver, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, observer: observer, logger: logger}
}

func notFound(what string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}

func (s *Service) CreateJob(ctx context.Context, companyID uuid.UUID, req model.CreateJobReq) (*model.JobOpening, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" || strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("%w: title and description are required", ErrInvalidInput)
	}
	if len(req.Rounds) == 0 {
		return nil, fmt.Errorf("%w: at least one round is required", ErrInvalidInput)
	}

	rounds := slices.Clone(req.Rounds)
	seen := make(map[int]bool, len(rounds))
	for _, r := range rounds {
		if !r.Type.Valid() {
			return nil, fmt.Errorf("%w: unknown round type %q", ErrInvalidInput, r.Type)
		}
		if !r.Difficulty.Valid() {
			return nil, fmt.Errorf("%w: unknown difficulty %q", ErrInvalidInput, r.Difficulty)
		}
		if r.RoundNumber < 1 || seen[r.RoundNumber] {
			return nil, fmt.Errorf("%w: round numbers must be positive and unique", ErrInvalidInput)
		}
		seen[r.RoundNumber] = true
	}
	slices.SortFunc(rounds, func(a, b model.Round) int { return a.RoundNumber - b.RoundNumber })

	status := req.Status
	if status == "" {
		status = model.JobStatusOpen
	}
	if status != model.JobStatusOpen && status != model.JobStatusClosed {
		return nil, fmt.Errorf("%w: unknown job status %q", ErrInvalidInput, status)
	}

	job := &model.JobOpening{
		JobID:       uuid.New(),
		CompanyID:   companyID,
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Skills:      pkg.CleanList(req.Skills),
		Rounds:      rounds,
		Status:      status,
	}
	if err := s.store.CreateJob(ctx, job); err != nil {
		return nil, err
	}
	s.logger.Info("job created", zap.String("job_id", job.JobID.String()), zap.Int("rounds", len(rounds)))
	return job, nil
}

func (s *Service) GetJob(ctx context.Context, jobID uuid.UUID) (*model.JobOpening, error) {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, notFound("job", err)
	}
	return job, nil
}

func (s *Service) ListOpenJobs(ctx context.Context) ([]model.JobOpening, error) {
	return s.store.ListOpenJobs(ctx)
}

func (s *Service) ListCompanyJobs(ctx context.Context, companyID uuid.UUID) ([]model.JobOpening, error) {
	return s.store.ListJobsByCompany(ctx, companyID)
}

// ownedJob loads a job and checks companyID posted it.
func (s *Service) ownedJob(ctx context.Context, companyID, jobID uuid.UUID) (*model.JobOpening, error) {
	job, err := s.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.CompanyID != companyID {
		return nil, ErrForbidden
	}
	return job, nil
}

// Apply creates the candidate's application, snapshotting their current
// résumé. A candidate applies to a job at most once.
func (s *Service) Apply(ctx context.Context, candidateID, jobID uuid.UUID) (*model.Application, error) {
	job, err := s.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != model.JobStatusOpen {
		return nil, ErrJobClosed
	}

	_, err = s.store.FindApplication(ctx, jobID, candidateID)
	switch {
	case err == nil:
		return nil, ErrAlreadyApplied
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	candidate, err := s.store.GetUserByID(ctx, candidateID)
	if err != nil {
		return nil, notFound("candidate", err)
	}

	app := &model.Application{
		ApplicationID: uuid.New(),
		JobID:         jobID,
		CandidateID:   candidateID,
		ResumeText:    candidate.ResumeText,
		CurrentRound:  0,
		Status:        model.ApplicationStatusApplied,
		History:       []model.RoundResult{},
	}
	if err := s.store.CreateApplication(ctx, app); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyApplied
		}
		return nil, err
	}
	s.logger.Info("application created",
		zap.String("application_id", app.ApplicationID.String()),
		zap.String("job_id", jobID.String()))
	return app, nil
}

// load fetches an application and the job it belongs to, and checks that
// actor is its candidate or the company that posted the job.
func (s *Service) load(ctx context.Context, actor Actor, applicationID uuid.UUID) (*model.Application, *model.JobOpening, error) {
	app, err := s.store.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, nil, notFound("application", err)
	}
	job, err := s.GetJob(ctx, app.JobID)
	if err != nil {
		return nil, nil, err
	}
	switch {
	case actor.isStudent() && app.CandidateID == actor.ID:
	case actor.isCompany() && job.CompanyID == actor.ID:
	default:
		return nil, nil, ErrForbidden
	}
	return app, job, nil
}

func (s *Service) Get(ctx context.Context, actor Actor, applicationID uuid.UUID) (*model.ApplicationDetail, error) {
	app, job, err := s.load(ctx, actor, applicationID)
	if err != nil {
		return nil, err
	}
	detail := &model.ApplicationDetail{Application: *app, Job: job}
	if candidate, err := s.store.GetUserByID(ctx, app.CandidateID); err == nil {
		pub := candidate.Public()
		detail.Candidate = &pub
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return detail, nil
}

// ListMine returns the candidate's applications with their jobs attached.
func (s *Service) ListMine(ctx context.Context, candidateID uuid.UUID) ([]model.ApplicationDetail, error) {
	apps, err := s.store.ListApplicationsByCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(apps))
	for _, a := range apps {
		ids = append(ids, a.JobID)
	}
	jobs, err := s.store.GetJobsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]model.ApplicationDetail, 0, len(apps))
	for _, a := range apps {
		out = append(out, model.ApplicationDetail{Application: a, Job: jobs[a.JobID]})
	}
	return out, nil
}

// ListForJob returns a job's applications with candidate profiles, for the
// company that posted it.
func (s *Service) ListForJob(ctx context.Context, companyID, jobID uuid.UUID) (*model.JobOpening, []model.ApplicationDetail, error) {
	job, err := s.ownedJob(ctx, companyID, jobID)
	if err != nil {
		return nil, nil, err
	}
	apps, err := s.store.ListApplicationsByJob(ctx, jobID)
	if err != nil {
		return nil, nil, err
	}
	details, err := s.withCandidates(ctx, apps, nil)
	if err != nil {
		return nil, nil, err
	}
	return job, details, nil
}

func (s *Service) withCandidates(ctx context.Context, apps []model.Application, jobs map[uuid.UUID]*model.JobOpening) ([]model.ApplicationDetail, error) {
	ids := make([]uuid.UUID, 0, len(apps))
	for _, a := range apps {
		ids = append(ids, a.CandidateID)
	}
	users, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]model.ApplicationDetail, 0, len(apps))
	for _, a := range apps {
		d := model.ApplicationDetail{Application: a, Job: jobs[a.JobID]}
		if u, ok := users[a.CandidateID]; ok {
			pub := u.Public()
			d.Candidate = &pub
		}
		out = append(out, d)
	}
	return out, nil
}

// UpdateStatus applies a manual status change by the company owning the job.
func (s *Service) UpdateStatus(ctx context.Context, companyID, applicationID uuid.UUID, status model.ApplicationStatus) (*model.Application, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	app, _, err := s.load(ctx, Actor{ID: companyID, Role: model.UserRoleCompany}, applicationID)
	if err != nil {
		return nil, err
	}
	from := app.Status
	if !CanTransition(from, status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, from, status)
	}
	if from == status {
		return app, nil
	}

	next := *app
	next.Status = status
	if err := s.save(ctx, &next); err != nil {
		return nil, err
	}
	s.transitioned(next.ApplicationID, from, status)
	return &next, nil
}

// SubmitRoundResult records the outcome of one interview round and advances
// the pipeline: a failure rejects the candidate, a success on the last round
// selects them.
func (s *Service) SubmitRoundResult(ctx context.Context, actor Actor, applicationID uuid.UUID, req model.RoundResultReq) (*model.Application, error) {
	rr, err := parseRoundResult(req)
	if err != nil {
		return nil, err
	}
	app, job, err := s.load(ctx, actor, applicationID)
	if err != nil {
		return nil, err
	}

	from := app.Status
	next := *app
	if err := ApplyRoundResult(&next, len(job.Rounds), rr); err != nil {
		return nil, err
	}
	if err := s.save(ctx, &next); err != nil {
		return nil, err
	}
	s.transitioned(next.ApplicationID, from, next.Status)
	return &next, nil
}

func (s *Service) save(ctx context.Context, app *model.Application) error {
	err := s.store.UpdateApplication(ctx, app)
	switch {
	case errors.Is(err, repository.ErrVersionConflict):
		return ErrConflict
	case err != nil:
		return notFound("application", err)
	}
	return nil
}

func (s *Service) transitioned(id uuid.UUID, from, to model.ApplicationStatus) {
	if s.observer != nil {
		s.observer.ObserveTransition(string(from), string(to))
	}
	s.logger.Info("application status changed",
		zap.String("application_id", id.String()),
		zap.String("from", string(from)),
		zap.String("to", string(to)))
}

// Dashboard summarises a company's jobs and the applications they received.
func (s *Service) Dashboard(ctx context.Context, companyID uuid.UUID) (*model.CompanyDashboard, error) {
	jobs, err := s.store.ListJobsByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(jobs))
	byID := make(map[uuid.UUID]*model.JobOpening, len(jobs))
	for i := range jobs {
		ids = append(ids, jobs[i].JobID)
		byID[jobs[i].JobID] = &jobs[i]
	}
	apps, err := s.store.ListApplicationsByJobs(ctx, ids)
	if err != nil {
		return nil, err
	}

	var stats model.StatusCounts
	for _, a := range apps {
		switch a.Status {
		case model.ApplicationStatusApplied:
			stats.Applied++
		case model.ApplicationStatusInProgress:
			stats.InProgress++
		case model.ApplicationStatusSelected:
			stats.Selected++
		case model.ApplicationStatusFinalSelected:
			stats.FinalSelected++
		case model.ApplicationStatusRejected:
			stats.Rejected++
		}
	}

	slices.SortStableFunc(apps, func(a, b model.Application) int { return b.CreatedAt.Compare(a.CreatedAt) })
	recent, err := s.withCandidates(ctx, apps[:min(recentApplications, len(apps))], byID)
	if err != nil {
		return nil, err
	}
	return &model.CompanyDashboard{
		TotalJobs:          len(jobs),
		TotalApplications:  len(apps),
		Stats:              stats,
		Jobs:               jobs,
		RecentApplications: recent,
	}, nil
}
