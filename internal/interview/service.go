package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abhishek622/intellihire/internal/fetcher"
	"github.com/abhishek622/intellihire/internal/llm"
	"github.com/abhishek622/intellihire/internal/repository"
	"github.com/abhishek622/intellihire/pkg/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrEmptyTranscript = errors.New("transcript has no questions to evaluate")
	ErrInvalidInput    = errors.New("invalid interview input")
	ErrProvider        = errors.New("generative provider failed")
	ErrNotFound        = errors.New("interview not found")
)

type Store interface {
	CreateInterview(ctx context.Context, iv *model.Interview) error
	ListInterviewsByUser(ctx context.Context, userID uuid.UUID) ([]model.Interview, error)
	GetInterviewByID(ctx context.Context, interviewID, userID uuid.UUID) (*model.Interview, error)
}

type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*fetcher.Page, error)
}

type VerdictObserver interface {
	ObserveVerdict(interviewType, result string)
}

type Deps struct {
	Provider         llm.Provider
	Store            Store
	Pages            PageFetcher
	Observer         VerdictObserver
	Logger           *zap.Logger
	ChunkConcurrency int

	// MaxPairs caps the transcript Conclude accepts; zero means no cap.
	MaxPairs int
}

// Service runs interview sessions: it asks questions while the session is
// live and turns the finished transcript into a persisted verdict.
type Service struct {
	provider    llm.Provider
	store       Store
	pages       PageFetcher
	observer    VerdictObserver
	logger      *zap.Logger
	concurrency int
	maxPairs    int
	now         func() time.Time
}

func NewService(d Deps) *Service {
	if d.ChunkConcurrency < 1 {
		d.ChunkConcurrency = 1
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return &Service{
		provider:    d.Provider,
		store:       d.Store,
		pages:       d.Pages,
		observer:    d.Observer,
		logger:      d.Logger,
		concurrency: d.ChunkConcurrency,
		maxPairs:    d.MaxPairs,
		now:         time.Now,
	}
}

func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	out, err := s.provider.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrProvider, err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("%w: %w", ErrProvider, llm.ErrEmptyCompletion)
	}
	return out, nil
}

// Start returns the interviewer's opening message. Nothing is stored.
func (s *Service) Start(ctx context.Context, setup Setup) (string, error) {
	if strings.TrimSpace(setup.Role) == "" {
		return "", fmt.Errorf("%w: role is required", ErrInvalidInput)
	}
	return s.generate(ctx, startPrompt(setup))
}

// Respond returns the next question given the conversation so far. The
// caller owns the transcript and resends it every turn.
func (s *Service) Respond(ctx context.Context, setup Setup, history []model.Exchange, answer string) (string, error) {
	if strings.TrimSpace(answer) == "" {
		return "", fmt.Errorf("%w: answer is required", ErrInvalidInput)
	}
	return s.generate(ctx, respondPrompt(setup, formatExchanges(history), answer))
}

type ConcludeInput struct {
	History     []model.ChatEntry
	ResumeText  string
	RoleSummary string
	RoundType   string
	CustomTopic string
	Difficulty  string
	Type        model.InterviewType
}

// Conclude evaluates the transcript in chunks, asks for an overall verdict
// and stores the interview. A failure at any provider call stores nothing.
func (s *Service) Conclude(ctx context.Context, userID uuid.UUID, in ConcludeInput) (*model.Interview, error) {
	if in.Type == "" {
		in.Type = model.InterviewTypePractice
	}
	if in.Type != model.InterviewTypePractice && in.Type != model.InterviewTypeCompany {
		return nil, fmt.Errorf("%w: unknown interview type %q", ErrInvalidInput, in.Type)
	}

	pairs := PairTranscript(in.History)
	if len(pairs) == 0 {
		return nil, ErrEmptyTranscript
	}
	if s.maxPairs > 0 && len(pairs) > s.maxPairs {
		return nil, fmt.Errorf("%w: transcript has %d questions, at most %d are evaluated", ErrInvalidInput, len(pairs), s.maxPairs)
	}
	chunks := Chunk(pairs, ChunkSize)

	feedbacks, err := s.evaluateChunks(ctx, in, chunks)
	if err != nil {
		return nil, err
	}

	summary, err := s.generate(ctx, finalPrompt(in, feedbacks))
	if err != nil {
		return nil, fmt.Errorf("final evaluation: %w", err)
	}
	result := ParseVerdict(summary)

	iv := &model.Interview{
		InterviewID:   uuid.New(),
		UserID:        userID,
		ChatHistory:   in.History,
		FinalFeedback: summary,
		Result:        result,
		Feedbacks:     feedbacks,
		Type:          in.Type,
		Difficulty:    in.Difficulty,
		ResumeText:    in.ResumeText,
		RoleSummary:   in.RoleSummary,
		RoundType:     in.RoundType,
		CustomTopic:   in.CustomTopic,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.store.CreateInterview(ctx, iv); err != nil {
		return nil, fmt.Errorf("save interview: %w", err)
	}

	if s.observer != nil {
		s.observer.ObserveVerdict(string(iv.Type), string(iv.Result))
	}
	s.logger.Info("interview concluded",
		zap.String("interview_id", iv.InterviewID.String()),
		zap.String("user_id", userID.String()),
		zap.Int("pairs", len(pairs)),
		zap.Int("chunks", len(chunks)),
		zap.String("result", string(result)))
	return iv, nil
}

// ConcludeBudget is the longest Conclude can wait on the provider for a
// transcript of maxPairs pairs: one wave of chunk prompts per concurrency
// slot, then the final prompt.
func ConcludeBudget(timeout time.Duration, concurrency, maxPairs int) time.Duration {
	if concurrency < 1 {
		concurrency = 1
	}
	chunks := (maxPairs + ChunkSize - 1) / ChunkSize
	waves := (chunks + concurrency - 1) / concurrency
	return time.Duration(waves+1) * timeout
}

// evaluateChunks asks for one feedback per chunk. Chunks never see each
// other, so they run concurrently; the result keeps chunk order.
func (s *Service) evaluateChunks(ctx context.Context, in ConcludeInput, chunks [][]QAPair) ([]string, error) {
	feedbacks := make([]string, len(chunks))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.concurrency)
	for i, chunk := range chunks {
		eg.Go(func() error {
			out, err := s.generate(egCtx, chunkPrompt(in, i+1, len(chunks), chunk))
			if err != nil {
				return fmt.Errorf("chunk %d: %w", i+1, err)
			}
			feedbacks[i] = out
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return feedbacks, nil
}

func (s *Service) FormatResume(ctx context.Context, resume string) (string, error) {
	if strings.TrimSpace(resume) == "" {
		return "", fmt.Errorf("%w: resume text is required", ErrInvalidInput)
	}
	return s.generate(ctx, formatResumePrompt(resume))
}

// SummarizeRole condenses a role description. With a url the posting is
// fetched and summarised, with prompt as an extra instruction; without one
// the prompt is sent as is.
func (s *Service) SummarizeRole(ctx context.Context, prompt, pageURL string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if pageURL == "" {
		if prompt == "" {
			return "", fmt.Errorf("%w: prompt or url is required", ErrInvalidInput)
		}
		return s.generate(ctx, prompt)
	}
	if s.pages == nil {
		return "", fmt.Errorf("%w: page fetching is disabled", ErrInvalidInput)
	}

	page, err := s.pages.Fetch(ctx, pageURL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return s.generate(ctx, summarizePagePrompt(page.Title, page.Content, prompt))
}

func (s *Service) ListMine(ctx context.Context, userID uuid.UUID) ([]model.Interview, error) {
	return s.store.ListInterviewsByUser(ctx, userID)
}

func (s *Service) Get(ctx context.Context, userID, interviewID uuid.UUID) (*model.Interview, error) {
	iv, err := s.store.GetInterviewByID(ctx, interviewID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return iv, err
}
