package app

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"probability-quiz-service/internal/domain"
)

// DefaultCatalogID is the built-in probability question set.
const DefaultCatalogID = "probability"

// SessionRepository abstracts where live sessions are kept (in-memory, Redis, etc).
type SessionRepository interface {
	GetOrCreate(sessionID string, catalog domain.Catalog, opts ...SessionOption) *Session
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
	// Sync is called after every command so a store can mirror the session state.
	Sync(ctx context.Context, session *Session) error
	// Sweep drops sessions that outlived their TTL, closes them and reports how many.
	Sweep(ctx context.Context) int
}

// CatalogRepository loads question catalogs (from cache/backing store).
type CatalogRepository interface {
	GetCatalog(ctx context.Context, catalogID string) (domain.Catalog, error)
}

// Option configures a QuizService.
type Option func(*QuizService)

// WithCatalogID selects the catalog new sessions are started with.
func WithCatalogID(id string) Option {
	return func(s *QuizService) { s.catalogID = id }
}

// WithShareQRURL sets the QR image URL attached to session views.
func WithShareQRURL(url string) Option {
	return func(s *QuizService) { s.shareQR = url }
}

// WithLogger sets the service logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *QuizService) { s.logger = logger }
}

// WithIDGenerator replaces uuid-based session IDs.
func WithIDGenerator(gen func() string) Option {
	return func(s *QuizService) { s.newID = gen }
}

// QuizService contains the quiz use cases.
type QuizService struct {
	sessions  SessionRepository
	catalogs  CatalogRepository
	catalogID string
	shareQR   string
	logger    zerolog.Logger
	newID     func() string
}

// NewQuizService wires the quiz use cases over a session store and a catalog source.
func NewQuizService(store SessionRepository, catalogs CatalogRepository, opts ...Option) *QuizService {
	s := &QuizService{
		sessions:  store,
		catalogs:  catalogs,
		catalogID: DefaultCatalogID,
		logger:    zerolog.Nop(),
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ShareQR returns the QR image URL for sharing the quiz page.
func (s *QuizService) ShareQR() string {
	return s.shareQR
}

// Start begins a new attempt, or resumes the live one when sessionID is known.
func (s *QuizService) Start(ctx context.Context, sessionID string) (domain.SessionView, error) {
	if sessionID != "" {
		if session, ok := s.sessions.Get(sessionID); ok {
			return session.View(), nil
		}
	} else {
		sessionID = s.newID()
	}

	catalog, err := s.catalogs.GetCatalog(ctx, s.catalogID)
	if err != nil {
		return domain.SessionView{}, err
	}

	session := s.sessions.GetOrCreate(sessionID, catalog, WithShareQR(s.shareQR))
	s.sync(ctx, session)
	s.logger.Debug().Str("session", sessionID).Str("catalog", catalog.ID).Int("questions", catalog.Len()).Msg("session started")
	return session.View(), nil
}

// View returns the current snapshot of a session.
func (s *QuizService) View(_ context.Context, sessionID string) (domain.SessionView, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionView{}, domain.ErrSessionNotFound
	}
	return session.View(), nil
}

// SubmitAnswer records an answer for the current question. The returned result is
// nil when the question had already been answered.
func (s *QuizService) SubmitAnswer(ctx context.Context, sessionID string, option int) (domain.SessionView, *domain.AnswerResult, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionView{}, nil, domain.ErrSessionNotFound
	}

	view, result, err := session.submit(option)
	if err != nil {
		s.logger.Warn().Err(err).Str("session", sessionID).Int("option", option).Msg("answer rejected")
		return view, nil, err
	}
	if result == nil {
		s.logger.Debug().Str("session", sessionID).Int("question", view.QuestionNumber).Msg("question already answered")
		return view, nil, nil
	}
	s.sync(ctx, session)
	s.logger.Debug().Str("session", sessionID).Int("question", result.QuestionID).Bool("correct", result.Correct).Int("score", view.Score).Msg("answer recorded")
	return view, result, nil
}

// Advance moves to the next question or finishes the quiz.
func (s *QuizService) Advance(ctx context.Context, sessionID string) (domain.SessionView, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionView{}, domain.ErrSessionNotFound
	}
	view := session.advance()
	s.sync(ctx, session)
	if view.Finished {
		s.logger.Debug().Str("session", sessionID).Int("score", view.Score).Int("percent", view.FinalPercent).Msg("quiz finished")
	}
	return view, nil
}

// Reset restarts the attempt from the first question.
func (s *QuizService) Reset(ctx context.Context, sessionID string) (domain.SessionView, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionView{}, domain.ErrSessionNotFound
	}
	view := session.reset()
	s.sync(ctx, session)
	s.logger.Debug().Str("session", sessionID).Msg("session reset")
	return view, nil
}

// Subscribe returns a channel of state and result events for a session.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *QuizService) Subscribe(_ context.Context, sessionID string) (<-chan Event, func(), error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := session.subscribe()
	return ch, cancel, nil
}

// End drops a session and closes its subscribers.
func (s *QuizService) End(_ context.Context, sessionID string) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return
	}
	s.sessions.Delete(sessionID)
	session.Close()
	s.logger.Debug().Str("session", sessionID).Msg("session ended")
}

// Sweep evicts expired sessions once.
func (s *QuizService) Sweep(ctx context.Context) int {
	n := s.sessions.Sweep(ctx)
	if n > 0 {
		s.logger.Debug().Int("sessions", n).Msg("expired sessions evicted")
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *QuizService) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

func (s *QuizService) sync(ctx context.Context, session *Session) {
	if err := s.sessions.Sync(ctx, session); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn().Err(err).Str("session", session.ID()).Msg("session sync failed")
	}
}
