package app

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"blockchainiq/internal/domain"
	"github.com/google/uuid"
)

// DefaultSampleSize is the number of questions drawn for one session.
const DefaultSampleSize = 15

const (
	lcgMultiplier = 9301
	lcgIncrement  = 49297
	lcgModulus    = 233280
)

var errInvalidSampleSize = errors.New("sample size must be positive")

// lcg is a per-session linear congruential generator. Instances are never shared.
type lcg struct {
	state int64
}

func newLCG(seed int64) *lcg {
	s := seed % lcgModulus
	if s < 0 {
		s += lcgModulus
	}
	return &lcg{state: s}
}

// next returns a value in [0, 1).
func (g *lcg) next() float64 {
	g.state = (g.state*lcgMultiplier + lcgIncrement) % lcgModulus
	return float64(g.state) / lcgModulus
}

// SampleSession returns sampleSize distinct questions from bank in shuffled order.
// The bank slice is never modified.
func SampleSession(bank []domain.Question, sampleSize int, seed int64) ([]domain.Question, error) {
	if sampleSize <= 0 {
		return nil, fmt.Errorf("%w: got %d", errInvalidSampleSize, sampleSize)
	}
	if len(bank) < sampleSize {
		return nil, fmt.Errorf("%w: have %d, need %d", domain.ErrInsufficientBankSize, len(bank), sampleSize)
	}

	shuffled := make([]domain.Question, len(bank))
	copy(shuffled, bank)

	rng := newLCG(seed)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := int(rng.next() * float64(i+1))
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled[:sampleSize:sampleSize], nil
}

// SeedSource supplies seed material for one sampling call.
type SeedSource interface {
	Seed() int64
}

// SeedFunc adapts a function to SeedSource.
type SeedFunc func() int64

func (f SeedFunc) Seed() int64 { return f() }

// FixedSeed always returns the same seed; used to reproduce a shuffle.
func FixedSeed(seed int64) SeedSource {
	return SeedFunc(func() int64 { return seed })
}

// ClockSeed mixes a fresh random identifier with the current time on every call.
type ClockSeed struct {
	now func() time.Time
}

func NewClockSeed(now func() time.Time) *ClockSeed {
	if now == nil {
		now = time.Now
	}
	return &ClockSeed{now: now}
}

func (c *ClockSeed) Seed() int64 {
	id := uuid.New()
	h := fnv.New64a()
	_, _ = h.Write(id[:])
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(c.now().UnixNano()))
	_, _ = h.Write(ts[:])
	return int64(h.Sum64() >> 1)
}

// Sampler draws one session's questions.
type Sampler interface {
	Sample() ([]domain.Question, error)
}

// BankSampler samples from a fixed bank with fresh seed material per call.
type BankSampler struct {
	Questions []domain.Question
	Size      int
	Seeds     SeedSource
}

func (s BankSampler) Sample() ([]domain.Question, error) {
	return SampleSession(s.Questions, s.Size, s.Seeds.Seed())
}
