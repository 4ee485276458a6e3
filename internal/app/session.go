package app

import (
	"sync"
	"time"

	"probability-quiz-service/internal/domain"
)

// EventType names what a subscriber is being told about.
type EventType string

const (
	// EventState carries a fresh snapshot after every command.
	EventState EventType = "state"
	// EventResult is the fire-and-forget outcome of a recorded answer.
	EventResult EventType = "result"
)

// Event is delivered to session subscribers. Result is set only for EventResult.
type Event struct {
	Type   EventType
	View   domain.SessionView
	Result *domain.AnswerResult
}

// SessionOption customises a new Session.
type SessionOption func(*Session)

// WithClock overrides time.Now, for deterministic timestamps in tests.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// WithShareQR sets the QR image URL included in every view.
func WithShareQR(url string) SessionOption {
	return func(s *Session) { s.shareQR = url }
}

// Session is the controller for a single quiz attempt. It owns the attempt's
// State and serialises every command on it.
type Session struct {
	id        string
	catalog   domain.Catalog
	shareQR   string
	createdAt time.Time
	now       func() time.Time

	mu          sync.RWMutex
	state       domain.State
	updatedAt   time.Time
	subscribers map[chan Event]struct{}
}

// NewSession starts a fresh attempt over catalog.
func NewSession(id string, catalog domain.Catalog, opts ...SessionOption) *Session {
	s := &Session{
		id:          id,
		catalog:     catalog,
		now:         time.Now,
		state:       domain.NewState(catalog.Len()),
		subscribers: make(map[chan Event]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.createdAt = s.now()
	s.updatedAt = s.createdAt
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// CreatedAt returns when the session was started.
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// UpdatedAt returns when the last command changed the session.
func (s *Session) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

// State returns a copy of the current state.
func (s *Session) State() domain.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// View returns the presentation snapshot of the session.
func (s *Session) View() domain.SessionView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewLocked()
}

func (s *Session) submit(option int) (domain.SessionView, *domain.AnswerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, result, err := s.state.Submit(s.catalog, option)
	if err != nil || result == nil {
		return s.viewLocked(), nil, err
	}
	s.state = next
	s.updatedAt = s.now()

	view := s.viewLocked()
	s.broadcastLocked(Event{Type: EventResult, View: view, Result: result})
	s.broadcastLocked(Event{Type: EventState, View: view})
	return view, result, nil
}

func (s *Session) advance() domain.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.Advance(s.catalog)
	s.updatedAt = s.now()
	return s.publishLocked()
}

func (s *Session) reset() domain.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.Reset(s.catalog)
	s.updatedAt = s.now()
	return s.publishLocked()
}

func (s *Session) subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := Event{Type: EventState, View: s.viewLocked()}
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// Close drops every subscriber, closing their channels. Calling it again is a no-op.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
}

func (s *Session) publishLocked() domain.SessionView {
	view := s.viewLocked()
	s.broadcastLocked(Event{Type: EventState, View: view})
	return view
}

func (s *Session) broadcastLocked(ev Event) {
	for ch := range s.subscribers {
		select {
		case ch <- ev:
		default:
			// Slow subscriber: drop its oldest pending event to make room.
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	}
}

func (s *Session) viewLocked() domain.SessionView {
	st := s.state
	n := s.catalog.Len()
	view := domain.SessionView{
		SessionID:       s.id,
		CatalogID:       s.catalog.ID,
		Title:           s.catalog.Title,
		TotalQuestions:  n,
		SelectedAnswer:  st.SelectedAnswer,
		Answered:        st.IsCurrentAnswered(),
		Score:           st.Score,
		ProgressPercent: st.ProgressPercent(s.catalog),
		Finished:        st.Finished,
		FinalPercent:    st.FinalPercent(s.catalog),
		ShareQR:         s.shareQR,
		UpdatedAt:       s.updatedAt,
	}
	if n == 0 {
		return view
	}
	view.QuestionNumber = st.CurrentIndex + 1
	view.IsLast = st.CurrentIndex == n-1
	if !st.Finished {
		q := s.catalog.Questions[st.CurrentIndex]
		qv := &domain.QuestionView{
			ID:       q.ID,
			Category: q.Category,
			Prompt:   q.Prompt,
			Options:  q.Options,
		}
		if view.Answered {
			correct := q.CorrectAnswer
			qv.CorrectAnswer = &correct
			qv.Explanation = q.Explanation
		}
		view.Question = qv
	}
	return view
}
