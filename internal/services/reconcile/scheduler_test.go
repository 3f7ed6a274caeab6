package reconcile

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	apperrors "agency/internal/errors"
	"agency/internal/repositories/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubJob struct {
	name  string
	runs  atomic.Int32
	err   error
	panic any
}

func (j *stubJob) Name() string { return j.name }

func (j *stubJob) Run(context.Context) (Summary, error) {
	j.runs.Add(1)
	if j.panic != nil {
		panic(j.panic)
	}
	return Summary{Job: j.name, Processed: 1}, j.err
}

func TestScheduler_Register(t *testing.T) {
	s := NewScheduler()

	require.NoError(t, s.Register("0 0 1 * *", &stubJob{name: "a"}))
	assert.Error(t, s.Register("0 0 1 * *", &stubJob{name: "a"}), "duplicate name")
	assert.Error(t, s.Register("every month", &stubJob{name: "b"}))
}

func TestScheduler_RunNow(t *testing.T) {
	s := NewScheduler()
	job := &stubJob{name: "a"}
	require.NoError(t, s.Register("0 0 1 * *", job))

	sum, err := s.RunNow(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Processed)
	assert.Equal(t, int32(1), job.runs.Load())

	_, err = s.RunNow(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrUnknownJob)
}

func TestScheduler_RecoversPanics(t *testing.T) {
	s := NewScheduler()
	boom := &stubJob{name: "boom", panic: "nil map write"}
	ok := &stubJob{name: "ok"}
	require.NoError(t, s.Register("0 0 1 * *", boom))
	require.NoError(t, s.Register("0 0 1 * *", ok))

	_, err := s.RunNow(context.Background(), "boom")
	require.ErrorIs(t, err, ErrJobPanicked)

	_, err = s.RunNow(context.Background(), "ok")
	assert.NoError(t, err, "scheduler keeps serving after a panic")
}

func TestScheduler_RunAll(t *testing.T) {
	s := NewScheduler()
	a := &stubJob{name: "a"}
	b := &stubJob{name: "b", err: errors.New("store unavailable")}
	require.NoError(t, s.Register("0 0 1 * *", b))
	require.NoError(t, s.Register("0 0 1 * *", a))

	summaries, err := s.RunAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store unavailable")
	require.Len(t, summaries, 2)
	assert.Equal(t, "a", summaries[0].Job)
	assert.Equal(t, "b", summaries[1].Job)
	assert.Equal(t, int32(1), a.runs.Load())
	assert.Equal(t, int32(1), b.runs.Load())
}

func TestScheduler_SkipsOverlappingSweep(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	cards := memory.NewCardStore(seedCards()...)
	var once atomic.Bool
	cards.OnWrite = func(string, uint) {
		if once.CompareAndSwap(false, true) {
			close(started)
			<-release
		}
	}

	s := NewScheduler()
	require.NoError(t, s.Register("0 0 1 * *", newCardJob(t, cards, memory.NewStatusStore(), memory.NewCache())))

	done := make(chan error, 1)
	go func() {
		_, err := s.RunNow(context.Background(), CardJobName)
		done <- err
	}()
	<-started

	_, err := s.RunNow(context.Background(), CardJobName)
	assert.ErrorIs(t, err, apperrors.ErrSweepInProgress)

	close(release)
	require.NoError(t, <-done)
}

func TestScheduler_StartStop(t *testing.T) {
	loc, err := time.LoadLocation("America/Mexico_City")
	require.NoError(t, err)

	s := NewScheduler(WithLocation(loc))
	require.NoError(t, s.Register("0 0 1 * *", &stubJob{name: "a"}))
	s.Start()

	jobs := s.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, "a", jobs[0].Name)
	assert.Equal(t, 1, jobs[0].Next.In(loc).Day())
	assert.Equal(t, 0, jobs[0].Next.In(loc).Hour())
	assert.True(t, jobs[0].Next.After(time.Now()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}
