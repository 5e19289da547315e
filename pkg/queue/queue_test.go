package queue

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	echoRuns atomic.Int32
	failRuns atomic.Int32
)

type echoJob struct {
	Val string `json:"val"`
}

func (j *echoJob) Handle() error {
	echoRuns.Add(1)
	return nil
}

type failJob struct{}

func (j *failJob) Handle() error {
	failRuns.Add(1)
	return errors.New("always fails")
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestDispatchAndProcess(t *testing.T) {
	Register("echo", func() Job { return &echoJob{} })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartWorkers(ctx, 2)

	require.NoError(t, Dispatch("echo", &echoJob{Val: "hello"}))
	waitFor(t, func() bool { return echoRuns.Load() >= 1 })
}

func TestFailingJobIsRetried(t *testing.T) {
	Register("fail", func() Job { return &failJob{} })
	SetMaxRetry(2)
	defer SetMaxRetry(3)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartWorkers(ctx, 1)

	require.NoError(t, Dispatch("fail", &failJob{}))
	waitFor(t, func() bool { return failRuns.Load() >= 2 })
}

func TestUnregisteredJobIsDropped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartWorkers(ctx, 1)

	before := echoRuns.Load()
	require.NoError(t, Dispatch("unknown-type", &echoJob{}))
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, before, echoRuns.Load())
}

func TestMemoryDriverPopRespectsContext(t *testing.T) {
	d := NewMemoryDriver()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := d.Pop(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
