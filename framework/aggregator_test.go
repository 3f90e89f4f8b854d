package framework

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func outcome(suite, name string, index int, status Status) Outcome {
	return Outcome{ID: TestID{Suite: suite, Case: name}, Index: index, Status: status}
}

func TestAggregatorCounts(t *testing.T) {
	a := NewAggregator()
	require.NoError(t, a.Record(outcome("S", "a", 0, StatusPassed)))
	require.NoError(t, a.Record(outcome("S", "b", 1, StatusFailed)))
	require.NoError(t, a.Record(outcome("S", "c", 2, StatusErrored)))
	require.NoError(t, a.Record(outcome("S", "d", 3, StatusSkipped)))
	require.NoError(t, a.Record(outcome("S", "e", 4, StatusPassed)))

	r := a.Finalize()
	assert.Equal(t, Counts{Total: 5, Passed: 2, Failed: 1, Errored: 1, Skipped: 1}, r.Counts)
	assert.Len(t, r.Outcomes, 5)
	assert.NotEmpty(t, r.RunID)
	assert.False(t, r.OK())
	assert.Equal(t, "1 passed, 1 failed, 1 errored, 1 skipped, 5 total", Counts{
		Total: 5, Passed: 1, Failed: 1, Errored: 1, Skipped: 1,
	}.String())
}

func TestFinalizeIsIdempotent(t *testing.T) {
	a := NewAggregator()
	require.NoError(t, a.Record(outcome("S", "a", 0, StatusPassed)))
	r1 := a.Finalize()
	r2 := a.Finalize()
	assert.Equal(t, r1, r2)
	assert.Equal(t, 1, r2.Counts.Total)
}

func TestRecordAfterFinalizeFails(t *testing.T) {
	a := NewAggregator()
	a.Finalize()
	assert.ErrorIs(t, a.Record(outcome("S", "a", 0, StatusPassed)), ErrReportFinalized)
	assert.Equal(t, 0, a.Finalize().Counts.Total)
}

func TestFinalizeKeepsRecordedOrder(t *testing.T) {
	a := NewAggregator()
	require.NoError(t, a.Record(outcome("S", "c", 2, StatusPassed)))
	require.NoError(t, a.Record(outcome("S", "a", 0, StatusPassed)))
	require.NoError(t, a.Record(outcome("S", "b", 1, StatusPassed)))

	var names []string
	for _, o := range a.Finalize().Outcomes {
		names = append(names, o.ID.Case)
	}
	assert.Equal(t, []string{"c", "a", "b"}, names)
}

func TestSeveralRunsIntoOneAggregator(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("A", "one", noop)
	r.MustRegister("A", "two", noop)
	r.MustRegister("B", "one", noop)
	r.MustRegister("B", "two", noop)
	units := r.All()

	a := NewAggregator()
	e := &Executor{}
	require.NoError(t, e.RunAll(context.Background(), units[:2], a))
	require.NoError(t, e.RunAll(context.Background(), units[2:], a))

	var ids []string
	for _, o := range a.Finalize().Outcomes {
		ids = append(ids, o.ID.String())
	}
	assert.Equal(t, []string{"A.one", "A.two", "B.one", "B.two"}, ids)
}

func TestConcurrentRecord(t *testing.T) {
	a := NewAggregator()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = a.Record(outcome("S", "x", i, StatusPassed))
		}(i)
	}
	wg.Wait()
	r := a.Finalize()
	assert.Equal(t, 50, r.Counts.Total)
	seen := make(map[int]bool)
	for _, o := range r.Outcomes {
		seen[o.Index] = true
	}
	assert.Len(t, seen, 50)
}

func TestReportNotPassed(t *testing.T) {
	a := NewAggregator()
	_ = a.Record(outcome("S", "a", 0, StatusPassed))
	_ = a.Record(outcome("S", "b", 1, StatusFailed))
	_ = a.Record(outcome("S", "c", 2, StatusSkipped))
	_ = a.Record(outcome("S", "d", 3, StatusErrored))
	var ids []string
	for _, o := range a.Finalize().NotPassed() {
		ids = append(ids, o.ID.String())
	}
	assert.Equal(t, []string{"S.b", "S.d"}, ids)
}
