// Package examclient drives a single exam sitting on the client side: it
// loads the questions, tracks answers and position, runs the countdown and
// submits once, either on request or when time runs out.
package examclient

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/stemsi/exam-platform/internal/model"
)

// Duration is the time allowed for one sitting.
const Duration = 30 * time.Minute

// State is a step in the session lifecycle.
type State string

const (
	StateLoading    State = "loading"
	StateInProgress State = "in_progress"
	StateSubmitting State = "submitting"
	StateCompleted  State = "completed"
	StateError      State = "error"
)

// TimerLevel classifies the remaining time for display.
type TimerLevel string

const (
	TimerOK      TimerLevel = "ok"
	TimerWarning TimerLevel = "warning"
	TimerDanger  TimerLevel = "danger"
)

var (
	ErrNotInProgress    = errors.New("exam is not in progress")
	ErrSubmitInFlight   = errors.New("submission already in progress")
	ErrNotFinalQuestion = errors.New("submit is only available on the final question")
	ErrUnknownQuestion  = errors.New("unknown question")
	ErrInvalidOption    = errors.New("option out of range")
	ErrOutOfRange       = errors.New("question index out of range")
)

// API is the part of the exam backend the session talks to.
type API interface {
	Questions(ctx context.Context) ([]model.PublicQuestion, error)
	Submit(ctx context.Context, answers map[string]int, timeTaken int) (*model.SubmitResult, error)
}

// Progress is a snapshot of how far the candidate has got.
type Progress struct {
	Current  int // zero-based index of the question on screen
	Total    int
	Answered int
}

// Session is safe for concurrent use; Run ticks from its own goroutine while
// the caller navigates and answers.
type Session struct {
	api API

	mu        sync.Mutex
	state     State
	questions []model.PublicQuestion
	index     int
	answers   map[string]int
	remaining int
	result    *model.SubmitResult
	err       error
	done      chan struct{}
}

// NewSession returns a session in the loading state.
func NewSession(api API) *Session {
	return &Session{
		api:       api,
		state:     StateLoading,
		answers:   make(map[string]int),
		remaining: int(Duration / time.Second),
		done:      make(chan struct{}),
	}
}

// Load fetches the questions and starts the countdown.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateLoading {
		s.mu.Unlock()
		return ErrNotInProgress
	}
	s.mu.Unlock()

	questions, err := s.api.Questions(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.fail(fmt.Errorf("load questions: %w", err))
		return s.err
	}
	s.questions = questions
	s.state = StateInProgress
	return nil
}

// Run ticks the countdown once per second until the session finishes or
// ctx is cancelled. Expiry submits automatically.
func (s *Session) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.done:
			return nil
		case <-ticker.C:
			if err := s.Tick(ctx); err != nil && !errors.Is(err, ErrSubmitInFlight) && !errors.Is(err, ErrNotInProgress) {
				return err
			}
		}
	}
}

// Tick advances the countdown by one second. When it reaches zero the
// answers are submitted through the same path as Submit.
func (s *Session) Tick(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateInProgress || s.remaining == 0 {
		s.mu.Unlock()
		return nil
	}
	s.remaining--
	expired := s.remaining == 0
	s.mu.Unlock()

	if !expired {
		return nil
	}
	_, err := s.submit(ctx)
	return err
}

// Select records an answer locally. Nothing is sent until submission.
func (s *Session) Select(questionID string, option int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateInProgress {
		return ErrNotInProgress
	}
	for _, q := range s.questions {
		if q.ID.String() != questionID {
			continue
		}
		if option < 0 || option >= len(q.Options) {
			return ErrInvalidOption
		}
		s.answers[questionID] = option
		return nil
	}
	return ErrUnknownQuestion
}

// Next moves forward one question, stopping at the last.
func (s *Session) Next() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index < len(s.questions)-1 {
		s.index++
	}
}

// Prev moves back one question, stopping at the first.
func (s *Session) Prev() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index > 0 {
		s.index--
	}
}

// Jump moves to question i.
func (s *Session) Jump(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.questions) {
		return ErrOutOfRange
	}
	s.index = i
	return nil
}

// Submit sends the answers. It is only offered on the final question.
func (s *Session) Submit(ctx context.Context) (*model.SubmitResult, error) {
	s.mu.Lock()
	if s.state == StateInProgress && len(s.questions) > 0 && s.index != len(s.questions)-1 {
		s.mu.Unlock()
		return nil, ErrNotFinalQuestion
	}
	s.mu.Unlock()
	return s.submit(ctx)
}

// submit is shared by manual submission and expiry. Leaving in_progress
// under the lock is what makes it run at most once.
func (s *Session) submit(ctx context.Context) (*model.SubmitResult, error) {
	s.mu.Lock()
	switch s.state {
	case StateInProgress:
	case StateSubmitting:
		s.mu.Unlock()
		return nil, ErrSubmitInFlight
	default:
		s.mu.Unlock()
		return nil, ErrNotInProgress
	}
	s.state = StateSubmitting
	answers := make(map[string]int, len(s.answers))
	for k, v := range s.answers {
		answers[k] = v
	}
	timeTaken := int(Duration/time.Second) - s.remaining
	s.mu.Unlock()

	res, err := s.api.Submit(ctx, answers, timeTaken)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.fail(fmt.Errorf("submit exam: %w", err))
		return nil, s.err
	}
	s.result = res
	s.state = StateCompleted
	close(s.done)
	return res, nil
}

// fail must be called with mu held.
func (s *Session) fail(err error) {
	s.err = err
	s.state = StateError
	close(s.done)
}

// Done is closed once the session is completed or has failed.
func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err is the failure that moved the session into the error state.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Session) Result() *model.SubmitResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Remaining is the time left on the countdown.
func (s *Session) Remaining() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Duration(s.remaining) * time.Second
}

// Current returns the question on screen and the answer chosen for it, if any.
func (s *Session) Current() (q model.PublicQuestion, selected int, answered bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.questions) == 0 {
		return model.PublicQuestion{}, 0, false
	}
	q = s.questions[s.index]
	selected, answered = s.answers[q.ID.String()]
	return q, selected, answered
}

func (s *Session) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Progress{Current: s.index, Total: len(s.questions), Answered: len(s.answers)}
}

func (s *Session) TimerLevel() TimerLevel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return LevelFor(s.remaining)
}

// LevelFor classifies a number of remaining seconds.
func LevelFor(seconds int) TimerLevel {
	switch {
	case seconds <= 300:
		return TimerDanger
	case seconds <= 600:
		return TimerWarning
	default:
		return TimerOK
	}
}

// FormatRemaining renders seconds as MM:SS.
func FormatRemaining(d time.Duration) string {
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
