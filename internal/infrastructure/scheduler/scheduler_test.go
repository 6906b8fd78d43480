package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu   sync.Mutex
	runs map[string]string
}

func (r *recorder) JobRun(job, result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[job] = result
}

func (r *recorder) get(job string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runs[job]
}

func TestOnce_Next(t *testing.T) {
	at := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	o := Once(at)
	assert.Equal(t, at, o.Next(at.Add(-time.Minute)))
	assert.True(t, o.Next(at).IsZero())
	assert.True(t, o.Next(at.Add(time.Second)).IsZero())
}

func TestScheduleAt_EjecutaUnaVez(t *testing.T) {
	rec := &recorder{runs: map[string]string{}}
	s, err := New("UTC", zerolog.Nop(), WithRecorder(rec))
	require.NoError(t, err)
	s.Start()
	defer s.Stop(context.Background())

	var calls atomic.Int32
	require.NoError(t, s.ScheduleAt("departure:s1", time.Now().Add(1100*time.Millisecond), func(context.Context) {
		calls.Add(1)
	}))
	assert.Equal(t, 1, s.Pending())

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 4*time.Second, 50*time.Millisecond)
	assert.Eventually(t, func() bool { return s.Pending() == 0 }, time.Second, 20*time.Millisecond)
	assert.Equal(t, ResultOK, rec.get("departure"))
	time.Sleep(1200 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestScheduleAt_ReemplazaYCancela(t *testing.T) {
	s, err := New("", zerolog.Nop())
	require.NoError(t, err)

	at := time.Now().Add(time.Hour)
	require.NoError(t, s.ScheduleAt("arrival:s1", at, func(context.Context) {}))
	require.NoError(t, s.ScheduleAt("arrival:s1", at.Add(time.Minute), func(context.Context) {}))
	assert.Equal(t, 1, s.Pending())
	assert.Len(t, s.c.Entries(), 1)

	s.Cancel("arrival:s1")
	s.Cancel("arrival:s1")
	assert.Equal(t, 0, s.Pending())
	assert.Empty(t, s.c.Entries())
}

func TestScheduleAt_HoraPasada(t *testing.T) {
	s, err := New("", zerolog.Nop())
	require.NoError(t, err)
	fixed := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	assert.Error(t, s.ScheduleAt("otif-check:s1", fixed, func(context.Context) {}))
	assert.Error(t, s.ScheduleAt("", fixed.Add(time.Hour), func(context.Context) {}))
}

func TestWrap_RecuperaPanic(t *testing.T) {
	rec := &recorder{runs: map[string]string{}}
	s, err := New("", zerolog.Nop(), WithRecorder(rec))
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		s.wrap("sweep", func(context.Context) { panic("boom") }, nil).Run()
	})
	assert.Equal(t, ResultPanic, rec.get("sweep"))
}

func TestWrap_Timeout(t *testing.T) {
	rec := &recorder{runs: map[string]string{}}
	s, err := New("", zerolog.Nop(), WithRecorder(rec), WithJobTimeout(10*time.Millisecond))
	require.NoError(t, err)

	s.wrap("slow", func(ctx context.Context) { <-ctx.Done() }, nil).Run()
	assert.Equal(t, ResultTimedOut, rec.get("slow"))
}

func TestAddFunc_SpecInvalido(t *testing.T) {
	s, err := New("America/Bogota", zerolog.Nop())
	require.NoError(t, err)
	assert.Error(t, s.AddFunc("no es cron", "expiry", func(context.Context) {}))
	assert.NoError(t, s.AddFunc("*/15 * * * *", "expiry", func(context.Context) {}))
	assert.NoError(t, s.AddFunc("@daily", "overdue", func(context.Context) {}))
	assert.Len(t, s.c.Entries(), 2)
}

func TestNew_ZonaInvalida(t *testing.T) {
	_, err := New("Marte/Olympus", zerolog.Nop())
	assert.Error(t, err)
}

func TestJobName(t *testing.T) {
	assert.Equal(t, "otif-check", jobName("otif-check:abc"))
	assert.Equal(t, "expiry", jobName("expiry"))
}
