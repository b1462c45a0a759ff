package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"blockchainiq/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionRepository abstracts how quiz sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	Save(ctx context.Context, state SessionState) error
	Load(ctx context.Context, sessionID string) (SessionState, error)
	Delete(ctx context.Context, sessionID string) error
}

// BankRepository loads question banks (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context, bankID string) (domain.Bank, error)
}

// Option customises a QuizService.
type Option func(*QuizService)

func WithBankID(id string) Option {
	return func(s *QuizService) { s.bankID = id }
}

func WithSampleSize(n int) Option {
	return func(s *QuizService) { s.sampleSize = n }
}

// WithSeedSource replaces the clock-and-entropy seeding, e.g. with FixedSeed in tests.
func WithSeedSource(src SeedSource) Option {
	return func(s *QuizService) { s.seeds = src }
}

func WithClock(now func() time.Time) Option {
	return func(s *QuizService) { s.now = now }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *QuizService) { s.logger = l }
}

// QuizService hosts independent quiz sessions, one per participant.
type QuizService struct {
	sessions   SessionRepository
	banks      BankRepository
	bankID     string
	sampleSize int
	seeds      SeedSource
	now        func() time.Time
	logger     *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewQuizService(store SessionRepository, banks BankRepository, opts ...Option) *QuizService {
	s := &QuizService{
		sessions:   store,
		banks:      banks,
		bankID:     "blockchain",
		sampleSize: DefaultSampleSize,
		now:        time.Now,
		logger:     zap.NewNop(),
		locks:      make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.seeds == nil {
		s.seeds = NewClockSeed(s.now)
	}
	return s
}

// Open creates a new NotStarted session and returns its snapshot.
func (s *QuizService) Open(ctx context.Context) (Snapshot, error) {
	session := NewSessionWithClock(uuid.NewString(), s.now)
	if err := s.sessions.Save(ctx, session.Export()); err != nil {
		return Snapshot{}, err
	}
	s.logger.Debug("session opened", zap.String("sessionId", session.ID()))
	return session.Snapshot(), nil
}

// Get returns the current snapshot of a session.
func (s *QuizService) Get(ctx context.Context, sessionID string) (Snapshot, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	return session.Snapshot(), nil
}

// Start begins the quiz for name with a freshly sampled question set.
func (s *QuizService) Start(ctx context.Context, sessionID, name string) (Snapshot, error) {
	var snap Snapshot
	err := s.mutate(ctx, sessionID, func(session *Session) error {
		bank, err := s.banks.GetBank(ctx, s.bankID)
		if err != nil {
			return err
		}
		sampler := BankSampler{Questions: bank.Questions, Size: s.sampleSize, Seeds: s.seeds}
		if err := session.Start(name, sampler); err != nil {
			return err
		}
		snap = session.Snapshot()
		return nil
	})
	if err != nil {
		s.logRejected("start", sessionID, err)
		return Snapshot{}, err
	}
	s.logger.Info("quiz started",
		zap.String("sessionId", sessionID),
		zap.String("name", snap.Name),
		zap.Int("questions", snap.Total))
	return snap, nil
}

// SubmitAnswer records an answer for the current question of a session.
func (s *QuizService) SubmitAnswer(ctx context.Context, sessionID string, optionIndex int) (Snapshot, domain.Feedback, error) {
	var (
		snap     Snapshot
		feedback domain.Feedback
	)
	err := s.mutate(ctx, sessionID, func(session *Session) error {
		fb, err := session.SubmitAnswer(optionIndex)
		if err != nil {
			return err
		}
		feedback = fb
		snap = session.Snapshot()
		return nil
	})
	if err != nil {
		s.logRejected("answer", sessionID, err)
		return Snapshot{}, domain.Feedback{}, err
	}
	if snap.Result != nil {
		s.logger.Info("quiz completed",
			zap.String("sessionId", sessionID),
			zap.Int("correct", snap.Result.CorrectCount),
			zap.Int("score", snap.Result.ScorePercent),
			zap.Bool("passed", snap.Result.Passed))
	}
	return snap, feedback, nil
}

// Restart discards the session's quiz and returns it to NotStarted.
func (s *QuizService) Restart(ctx context.Context, sessionID string) (Snapshot, error) {
	var snap Snapshot
	err := s.mutate(ctx, sessionID, func(session *Session) error {
		session.Restart()
		snap = session.Snapshot()
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	s.logger.Debug("session restarted", zap.String("sessionId", sessionID))
	return snap, nil
}

// Review returns the per-question review of a completed session.
func (s *QuizService) Review(ctx context.Context, sessionID string) ([]domain.ReviewItem, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return session.Review()
}

// Award returns the certificate for a passed session, if any.
func (s *QuizService) Award(ctx context.Context, sessionID string) (Certificate, bool, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return Certificate{}, false, err
	}
	result, ok := session.Result()
	if !ok {
		return Certificate{}, false, domain.ErrNotCompleted
	}
	if !result.Passed {
		return Certificate{}, false, nil
	}
	cert, _ := session.Certificate()
	return cert, true, nil
}

// Close removes a session entirely.
func (s *QuizService) Close(ctx context.Context, sessionID string) error {
	lock := s.lockFor(sessionID)
	lock.Lock()
	err := s.sessions.Delete(ctx, sessionID)
	lock.Unlock()

	s.dropLock(sessionID, lock)
	return err
}

func (s *QuizService) load(ctx context.Context, sessionID string) (*Session, error) {
	st, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return RestoreSession(st, s.now)
}

// mutate serialises load-modify-save for one session.
func (s *QuizService) mutate(ctx context.Context, sessionID string, fn func(*Session) error) error {
	lock := s.lockFor(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.load(ctx, sessionID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		s.dropLock(sessionID, lock)
		return err
	}
	if err != nil {
		return err
	}
	if err := fn(session); err != nil {
		return err
	}
	return s.sessions.Save(ctx, session.Export())
}

func (s *QuizService) lockFor(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[sessionID] = lock
	}
	return lock
}

func (s *QuizService) dropLock(sessionID string, lock *sync.Mutex) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locks[sessionID] == lock {
		delete(s.locks, sessionID)
	}
}

func (s *QuizService) logRejected(op, sessionID string, err error) {
	if errors.Is(err, domain.ErrInvalidName) || errors.Is(err, domain.ErrSessionNotFound) {
		s.logger.Debug("request rejected", zap.String("op", op), zap.String("sessionId", sessionID), zap.Error(err))
		return
	}
	s.logger.Warn("request failed", zap.String("op", op), zap.String("sessionId", sessionID), zap.Error(err))
}
