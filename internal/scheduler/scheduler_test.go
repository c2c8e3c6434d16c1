package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Plantrich-blimp/plantrich-app/pkg/logger"
)

type fakeJob struct {
	name     string
	schedule string
	failures int32
	runs     atomic.Int32
}

func (j *fakeJob) Name() string     { return j.name }
func (j *fakeJob) Schedule() string { return j.schedule }

func (j *fakeJob) Run(ctx context.Context) error {
	n := j.runs.Add(1)
	if n <= j.failures {
		return errors.New("transient failure")
	}
	return nil
}

func testOptions() Options {
	return Options{MaxRetries: 2, RetryDelay: time.Millisecond, RunTimeout: time.Second}
}

func TestScheduler_AddRemove(t *testing.T) {
	s := New(logger.Nop(), testOptions())

	require.NoError(t, s.AddJob(&fakeJob{name: "b", schedule: "@hourly"}))
	require.NoError(t, s.AddJob(&fakeJob{name: "a", schedule: "0 */5 * * * *"}))
	assert.Equal(t, []string{"a", "b"}, s.Jobs())

	assert.Error(t, s.AddJob(&fakeJob{name: "a", schedule: "@hourly"}), "duplicate name")
	assert.Error(t, s.AddJob(&fakeJob{name: "c", schedule: "not a schedule"}))

	require.NoError(t, s.RemoveJob("a"))
	assert.Equal(t, []string{"b"}, s.Jobs())
	assert.Error(t, s.RemoveJob("a"))
}

func TestScheduler_RunNowRetries(t *testing.T) {
	s := New(logger.Nop(), testOptions())
	job := &fakeJob{name: "flaky", schedule: "@hourly", failures: 2}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunNow(context.Background(), "flaky")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 3, result.Attempts)

	history, err := s.History("flaky")
	require.NoError(t, err)
	require.Len(t, history.Results, 1)

	stats := s.Stats()["flaky"]
	assert.Equal(t, 1, stats.TotalRuns)
	assert.Equal(t, 1.0, stats.SuccessRate)
	assert.NotNil(t, stats.LastSuccess)
}

func TestScheduler_RunNowGivesUp(t *testing.T) {
	s := New(logger.Nop(), testOptions())
	require.NoError(t, s.AddJob(&fakeJob{name: "broken", schedule: "@hourly", failures: 100}))

	result, err := s.RunNow(context.Background(), "broken")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, "transient failure", result.Error)

	stats := s.Stats()["broken"]
	assert.Equal(t, 1, stats.FailureCount)
	assert.NotNil(t, stats.LastFailure)

	_, err = s.RunNow(context.Background(), "missing")
	assert.Error(t, err)
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(logger.Nop(), testOptions())
	require.NoError(t, s.AddJob(&fakeJob{name: "tick", schedule: "@hourly"}))

	s.Start()
	s.Stop()
}

func TestJobHistory(t *testing.T) {
	var h JobHistory
	for i := 0; i < maxHistory+5; i++ {
		h.AddResult(JobResult{Success: i%2 == 0})
	}

	assert.Len(t, h.Results, maxHistory)
	assert.Len(t, h.Latest(3), 3)
	assert.Empty(t, h.Latest(0))
	assert.InDelta(t, 0.5, h.SuccessRate(), 0.01)
}
