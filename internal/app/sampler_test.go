package app_test

import (
	"testing"
	"time"

	"blockchainiq/internal/app"
	"blockchainiq/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleSessionReturnsDistinctBankMembers(t *testing.T) {
	bank := makeBank(80)
	inBank := make(map[int]bool)
	for _, q := range bank.Questions {
		inBank[q.ID] = true
	}

	for seed := int64(0); seed < 200; seed++ {
		got, err := app.SampleSession(bank.Questions, app.DefaultSampleSize, seed)
		require.NoError(t, err)
		require.Len(t, got, app.DefaultSampleSize)

		seen := make(map[int]bool)
		for _, q := range got {
			assert.True(t, inBank[q.ID], "seed %d returned unknown id %d", seed, q.ID)
			assert.False(t, seen[q.ID], "seed %d repeated id %d", seed, q.ID)
			seen[q.ID] = true
		}
	}
}

func TestSampleSessionIsReproducibleFromSeed(t *testing.T) {
	bank := makeBank(80)
	a, err := app.SampleSession(bank.Questions, 15, 42)
	require.NoError(t, err)
	b, err := app.SampleSession(bank.Questions, 15, 42)
	require.NoError(t, err)
	assert.Equal(t, ids(a), ids(b))
}

func TestSampleSessionVariesAcrossSeeds(t *testing.T) {
	bank := makeBank(80)
	first, err := app.SampleSession(bank.Questions, 15, 1)
	require.NoError(t, err)

	differs := false
	for seed := int64(2); seed <= 21; seed++ {
		got, err := app.SampleSession(bank.Questions, 15, seed)
		require.NoError(t, err)
		if !assert.ObjectsAreEqual(ids(first), ids(got)) {
			differs = true
			break
		}
	}
	assert.True(t, differs, "20 seeds produced identical samples")
}

func TestSampleSessionLeavesBankUntouched(t *testing.T) {
	bank := makeBank(20)
	before := ids(bank.Questions)
	_, err := app.SampleSession(bank.Questions, 15, 99)
	require.NoError(t, err)
	assert.Equal(t, before, ids(bank.Questions))
}

func TestSampleSessionWholeBank(t *testing.T) {
	bank := makeBank(15)
	got, err := app.SampleSession(bank.Questions, 15, -7)
	require.NoError(t, err)
	assert.ElementsMatch(t, ids(bank.Questions), ids(got))
}

func TestSampleSessionInsufficientBank(t *testing.T) {
	bank := makeBank(14)
	_, err := app.SampleSession(bank.Questions, 15, 1)
	assert.ErrorIs(t, err, domain.ErrInsufficientBankSize)
}

func TestSampleSessionRejectsNonPositiveSize(t *testing.T) {
	bank := makeBank(10)
	_, err := app.SampleSession(bank.Questions, 0, 1)
	assert.Error(t, err)
}

func TestClockSeedDiffersPerCall(t *testing.T) {
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	src := app.NewClockSeed(func() time.Time { return fixed })

	seen := make(map[int64]bool)
	for i := 0; i < 20; i++ {
		s := src.Seed()
		assert.GreaterOrEqual(t, s, int64(0))
		seen[s] = true
	}
	assert.Greater(t, len(seen), 1, "random identifier should vary the seed even at a fixed time")
}

func TestBankSamplerUsesFreshSeedEachCall(t *testing.T) {
	bank := makeBank(80)
	calls := 0
	sampler := app.BankSampler{
		Questions: bank.Questions,
		Size:      15,
		Seeds: app.SeedFunc(func() int64 {
			calls++
			return int64(calls)
		}),
	}
	_, err := sampler.Sample()
	require.NoError(t, err)
	_, err = sampler.Sample()
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func ids(qs []domain.Question) []int {
	out := make([]int, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}
