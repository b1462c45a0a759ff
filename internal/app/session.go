package app

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"blockchainiq/internal/domain"
)

// MaxNameLength bounds a participant's display name, in runes.
const MaxNameLength = 50

// State is a step of the session lifecycle.
type State string

const (
	NotStarted     State = "not_started"
	AwaitingAnswer State = "awaiting_answer"
	Completed      State = "completed"
)

// QuestionView is the current question as shown to a participant; it omits the answer.
type QuestionView struct {
	ID         int               `json:"id"`
	Number     int               `json:"number"`
	Prompt     string            `json:"prompt"`
	Options    []string          `json:"options"`
	Difficulty domain.Difficulty `json:"difficulty"`
	Category   domain.Category   `json:"category"`
}

// Snapshot is a read-only view of a session for presentation adapters.
type Snapshot struct {
	SessionID    string         `json:"sessionId"`
	State        State          `json:"state"`
	Name         string         `json:"name,omitempty"`
	CurrentIndex int            `json:"currentIndex"`
	Total        int            `json:"total"`
	Question     *QuestionView  `json:"question,omitempty"`
	Result       *domain.Result `json:"result,omitempty"`
}

// SessionState is the storable form of a session.
type SessionState struct {
	ID          string            `json:"id"`
	State       State             `json:"state"`
	Name        string            `json:"name,omitempty"`
	Questions   []domain.Question `json:"questions,omitempty"`
	Answers     []int             `json:"answers,omitempty"`
	Result      *domain.Result    `json:"result,omitempty"`
	StartedAt   time.Time         `json:"startedAt,omitempty"`
	CompletedAt time.Time         `json:"completedAt,omitempty"`
	Certificate *Certificate      `json:"certificate,omitempty"`
}

// Session drives one participant through start, answers, and completion.
// It is owned by a single caller and holds no locks.
type Session struct {
	id          string
	now         func() time.Time
	state       State
	name        string
	questions   []domain.Question
	answers     []int
	result      *domain.Result
	startedAt   time.Time
	completedAt time.Time
	certificate *Certificate
}

// NewSession returns a session in the NotStarted state.
func NewSession(id string) *Session {
	return NewSessionWithClock(id, time.Now)
}

// NewSessionWithClock allows deterministic timestamps in tests.
func NewSessionWithClock(id string, now func() time.Time) *Session {
	return &Session{id: id, now: now, state: NotStarted}
}

// RestoreSession rebuilds a session from stored state after checking its invariants.
func RestoreSession(st SessionState, now func() time.Time) (*Session, error) {
	if err := checkState(st); err != nil {
		return nil, err
	}
	s := NewSessionWithClock(st.ID, now)
	s.state = st.State
	s.name = st.Name
	s.questions = st.Questions
	s.answers = st.Answers
	s.result = st.Result
	s.startedAt = st.StartedAt
	s.completedAt = st.CompletedAt
	if st.Certificate != nil {
		cert := *st.Certificate
		s.certificate = &cert
	}
	return s, nil
}

func checkState(st SessionState) error {
	bad := func(reason string) error {
		return fmt.Errorf("%w: session %s: %s", domain.ErrCorruptSession, st.ID, reason)
	}
	switch st.State {
	case NotStarted:
		if len(st.Questions) != 0 || len(st.Answers) != 0 || st.Result != nil {
			return bad("not started but holds quiz data")
		}
	case AwaitingAnswer:
		if len(st.Questions) == 0 || len(st.Answers) >= len(st.Questions) || st.Result != nil {
			return bad("awaiting answer with inconsistent progress")
		}
	case Completed:
		if len(st.Questions) == 0 || len(st.Answers) != len(st.Questions) || st.Result == nil {
			return bad("completed without a full answer sequence")
		}
	default:
		return bad("unknown state " + string(st.State))
	}
	passed := st.State == Completed && st.Result.Passed
	if passed != (st.Certificate != nil) {
		return bad("certificate does not match result")
	}
	return nil
}

func (s *Session) ID() string { return s.id }
func (s *Session) State() State { return s.state }

// CurrentIndex is the index of the question awaiting an answer; it equals the number of answers given.
func (s *Session) CurrentIndex() int { return len(s.answers) }

// Start validates name, samples the session's questions, and awaits the first answer.
func (s *Session) Start(name string, sampler Sampler) error {
	if s.state != NotStarted {
		return fmt.Errorf("%w: start from %s", domain.ErrInvalidTransition, s.state)
	}
	name, err := normalizeName(name)
	if err != nil {
		return err
	}
	questions, err := sampler.Sample()
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		return domain.ErrNoQuestions
	}
	s.name = name
	s.questions = questions
	s.answers = make([]int, 0, len(questions))
	s.startedAt = s.now()
	s.state = AwaitingAnswer
	return nil
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is empty", domain.ErrInvalidName)
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", fmt.Errorf("%w: name longer than %d characters", domain.ErrInvalidName, MaxNameLength)
	}
	return name, nil
}

// SubmitAnswer records optionIndex for the current question and advances.
// The final answer scores the session and completes it.
func (s *Session) SubmitAnswer(optionIndex int) (domain.Feedback, error) {
	if s.state != AwaitingAnswer {
		return domain.Feedback{}, fmt.Errorf("%w: answer from %s", domain.ErrInvalidTransition, s.state)
	}
	q := s.questions[len(s.answers)]
	if optionIndex < 0 || optionIndex >= len(q.Options) {
		return domain.Feedback{}, fmt.Errorf("%w: %d not in [0, %d)", domain.ErrOptionOutOfRange, optionIndex, len(q.Options))
	}

	s.answers = append(s.answers, optionIndex)
	feedback := domain.Feedback{
		QuestionID:    q.ID,
		Selected:      optionIndex,
		CorrectOption: q.Correct,
		Correct:       optionIndex == q.Correct,
	}

	if len(s.answers) == len(s.questions) {
		result, err := Evaluate(s.questions, s.answers)
		if err != nil {
			panic(fmt.Sprintf("session %s: scoring a completed session: %v", s.id, err))
		}
		s.result = &result
		s.completedAt = s.now()
		s.state = Completed
		if result.Passed {
			cert := NewCertificate(s.name, result.ScorePercent, s.completedAt)
			s.certificate = &cert
		}
	}
	return feedback, nil
}

// Restart discards all session data and returns to NotStarted. Valid from any state.
func (s *Session) Restart() {
	s.state = NotStarted
	s.name = ""
	s.questions = nil
	s.answers = nil
	s.result = nil
	s.startedAt = time.Time{}
	s.completedAt = time.Time{}
	s.certificate = nil
}

// Result returns the computed result once the session is completed.
func (s *Session) Result() (domain.Result, bool) {
	if s.state != Completed || s.result == nil {
		return domain.Result{}, false
	}
	return *s.result, true
}

// Certificate returns the certificate issued when the session completed with a pass.
func (s *Session) Certificate() (Certificate, bool) {
	if s.certificate == nil {
		return Certificate{}, false
	}
	return *s.certificate, true
}

// Review lists every question with the chosen and correct options.
func (s *Session) Review() ([]domain.ReviewItem, error) {
	if s.state != Completed {
		return nil, domain.ErrNotCompleted
	}
	items := make([]domain.ReviewItem, len(s.questions))
	for i, q := range s.questions {
		items[i] = domain.ReviewItem{
			QuestionID:    q.ID,
			Prompt:        q.Prompt,
			Options:       q.Options,
			Selected:      s.answers[i],
			CorrectOption: q.Correct,
			Correct:       s.answers[i] == q.Correct,
		}
	}
	return items, nil
}

// Snapshot returns the presentation view of the session.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		SessionID:    s.id,
		State:        s.state,
		Name:         s.name,
		CurrentIndex: len(s.answers),
		Total:        len(s.questions),
	}
	switch s.state {
	case AwaitingAnswer:
		q := s.questions[len(s.answers)]
		snap.Question = &QuestionView{
			ID:         q.ID,
			Number:     len(s.answers) + 1,
			Prompt:     q.Prompt,
			Options:    q.Options,
			Difficulty: q.Difficulty,
			Category:   q.Category,
		}
	case Completed:
		result := *s.result
		snap.Result = &result
	}
	return snap
}

// Export returns the storable state of the session.
func (s *Session) Export() SessionState {
	st := SessionState{
		ID:          s.id,
		State:       s.state,
		Name:        s.name,
		Questions:   s.questions,
		StartedAt:   s.startedAt,
		CompletedAt: s.completedAt,
	}
	if s.answers != nil {
		st.Answers = append([]int(nil), s.answers...)
	}
	if s.result != nil {
		result := *s.result
		st.Result = &result
	}
	if s.certificate != nil {
		cert := *s.certificate
		st.Certificate = &cert
	}
	return st
}
