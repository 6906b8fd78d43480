// Package scheduler ejecuta los trabajos en segundo plano sobre robfig/cron: barridos
// periódicos (vencimiento de RFQs/ofertas, facturas vencidas) y trabajos de una sola
// ejecución por clave (recordatorios de embarques).
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Resultados de ejecución (etiqueta de métricas).
const (
	ResultOK       = "ok"
	ResultPanic    = "panic"
	ResultTimedOut = "timeout"
)

// Recorder registra cada ejecución (métricas).
type Recorder interface {
	JobRun(job, result string)
}

type nopRecorder struct{}

func (nopRecorder) JobRun(string, string) {}

// Scheduler implementa shipment.JobScheduler.
type Scheduler struct {
	mu       sync.Mutex
	c        *cron.Cron
	parser   cron.Parser
	loc      *time.Location
	once     map[string]cron.EntryID
	ctx      context.Context
	cancel   context.CancelFunc
	timeout  time.Duration
	recorder Recorder
	log      zerolog.Logger
	now      func() time.Time
}

// Option configura el Scheduler.
type Option func(*Scheduler)

// WithRecorder registra las ejecuciones en r.
func WithRecorder(r Recorder) Option {
	return func(s *Scheduler) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithJobTimeout tope de duración de cada ejecución (por defecto 5 minutos).
func WithJobTimeout(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// New crea el scheduler en la zona horaria tz ("" = UTC). Los specs aceptan 5 o 6 campos
// y descriptores (@daily, @every 1h).
func New(tz string, log zerolog.Logger, opts ...Option) (*Scheduler, error) {
	loc := time.UTC
	if tz = strings.TrimSpace(tz); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("scheduler: zona horaria %q: %w", tz, err)
		}
		loc = l
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		parser:   cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		loc:      loc,
		once:     map[string]cron.EntryID{},
		ctx:      ctx,
		cancel:   cancel,
		timeout:  5 * time.Minute,
		recorder: nopRecorder{},
		log:      log.With().Str("component", "scheduler").Logger(),
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	s.c = cron.New(cron.WithParser(s.parser), cron.WithLocation(loc))
	return s, nil
}

// AddFunc agenda fn con un spec de cron. name identifica el trabajo en logs y métricas.
func (s *Scheduler) AddFunc(spec, name string, fn func(ctx context.Context)) error {
	sched, err := s.parser.Parse(spec)
	if err != nil {
		return fmt.Errorf("scheduler: spec %q de %s: %w", spec, name, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.Schedule(sched, s.wrap(name, fn, nil))
	s.log.Info().Str("job", name).Str("spec", spec).Msg("scheduler: trabajo periódico registrado")
	return nil
}

// ScheduleAt agenda fn para ejecutarse una vez en at. Reemplaza el trabajo previo de la clave.
func (s *Scheduler) ScheduleAt(key string, at time.Time, fn func(ctx context.Context)) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("scheduler: clave vacía")
	}
	if !at.After(s.now()) {
		return fmt.Errorf("scheduler: %s ya pasó (%s)", key, at.Format(time.RFC3339))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.once[key]; ok {
		s.c.Remove(id)
	}
	var id cron.EntryID
	id = s.c.Schedule(Once(at), s.wrap(jobName(key), fn, func() {
		s.mu.Lock()
		if cur, ok := s.once[key]; ok && cur == id {
			delete(s.once, key)
			s.c.Remove(id)
		}
		s.mu.Unlock()
	}))
	s.once[key] = id
	return nil
}

// Cancel elimina el trabajo de una sola ejecución; no hace nada si no existe.
func (s *Scheduler) Cancel(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.once[key]; ok {
		s.c.Remove(id)
		delete(s.once, key)
	}
}

// Pending cantidad de trabajos de una sola ejecución agendados.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.once)
}

// Start inicia el disparo de trabajos.
func (s *Scheduler) Start() {
	s.c.Start()
	s.log.Info().Str("tz", s.loc.String()).Msg("scheduler: iniciado")
}

// Stop detiene el disparo, cancela el contexto de los trabajos en curso y espera a que
// terminen o a que ctx expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.c.Stop().Done()
	s.cancel()
	select {
	case <-done:
	case <-ctx.Done():
		s.log.Warn().Msg("scheduler: trabajos aún en curso al detener")
	}
	s.log.Info().Msg("scheduler: detenido")
}

// wrap protege el trabajo: contexto con tope, recover de panics y métrica del resultado.
func (s *Scheduler) wrap(name string, fn func(ctx context.Context), after func()) cron.Job {
	return cron.FuncJob(func() {
		if after != nil {
			defer after()
		}
		ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
		defer cancel()
		start := s.now()
		result := ResultOK
		defer func() {
			if r := recover(); r != nil {
				result = ResultPanic
				s.log.Error().Str("job", name).Interface("panic", r).Msg("scheduler: el trabajo entró en pánico")
			}
			if result == ResultOK && ctx.Err() == context.DeadlineExceeded {
				result = ResultTimedOut
			}
			s.recorder.JobRun(name, result)
			s.log.Debug().Str("job", name).Str("result", result).Dur("took", s.now().Sub(start)).Msg("scheduler: trabajo ejecutado")
		}()
		fn(ctx)
	})
}

// jobName etiqueta de métricas: el tipo del trabajo sin el id ("departure:abc" → "departure").
func jobName(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}

// Once cron.Schedule que dispara una sola vez en at. Después devuelve la hora cero,
// que cron interpreta como "sin próxima ejecución".
type Once time.Time

// Next implementa cron.Schedule.
func (o Once) Next(t time.Time) time.Time {
	at := time.Time(o)
	if t.Before(at) {
		return at
	}
	return time.Time{}
}
