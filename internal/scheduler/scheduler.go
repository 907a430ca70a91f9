package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"propapi/internal/config"
	"propapi/internal/service"
)

const defaultJobTimeout = 10 * time.Minute

// Billing is the subset of the invoice service the background jobs drive.
type Billing interface {
	GenerateForPeriod(ctx context.Context, month time.Time) (service.GenerateResult, error)
	MarkOverdue(ctx context.Context, now time.Time) (int, error)
}

// Scheduler runs the recurring billing jobs on cron specs.
type Scheduler struct {
	cron    *cron.Cron
	billing Billing
	log     zerolog.Logger
	timeout time.Duration
	now     func() time.Time
}

// New registers the invoice generation and overdue scan jobs. Specs use the
// standard five-field cron format and are evaluated in loc.
func New(cfg config.SchedulerConfig, billing Billing, loc *time.Location, logger zerolog.Logger) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	log := logger.With().Str("component", "scheduler").Logger()
	s := &Scheduler{
		billing: billing,
		log:     log,
		timeout: defaultJobTimeout,
		now:     func() time.Time { return time.Now().In(loc) },
	}
	s.cron = cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.Recover(cronLogger{log}), cron.SkipIfStillRunning(cronLogger{log})),
	)

	if _, err := s.cron.AddFunc(cfg.InvoiceSpec, s.GenerateInvoices); err != nil {
		return nil, fmt.Errorf("invoice spec %q: %w", cfg.InvoiceSpec, err)
	}
	if _, err := s.cron.AddFunc(cfg.OverdueSpec, s.MarkOverdue); err != nil {
		return nil, fmt.Errorf("overdue spec %q: %w", cfg.OverdueSpec, err)
	}
	return s, nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Str("event", "scheduler_started").Int("jobs", len(s.cron.Entries())).Msg("")
}

// Stop prevents new runs and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.log.Info().Str("event", "scheduler_stopped").Msg("")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GenerateInvoices bills every active lease for the current month.
func (s *Scheduler) GenerateInvoices() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	s.log.Info().Str("event", "job_start").Str("job", "generate_invoices").Msg("")
	res, err := s.billing.GenerateForPeriod(ctx, s.now())
	if err != nil {
		s.log.Error().Str("event", "job_failed").Str("job", "generate_invoices").
			Str("error_message", err.Error()).
			Int64("duration_ms", time.Since(start).Milliseconds()).Msg("")
		return
	}
	s.log.Info().Str("event", "job_finish").Str("job", "generate_invoices").
		Int("created", res.Created).Int("skipped", res.Skipped).Int("failed", res.Failed).
		Int64("duration_ms", time.Since(start).Milliseconds()).Msg("")
}

// MarkOverdue flags invoices past their due date.
func (s *Scheduler) MarkOverdue() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	s.log.Info().Str("event", "job_start").Str("job", "mark_overdue").Msg("")
	n, err := s.billing.MarkOverdue(ctx, s.now())
	if err != nil {
		s.log.Error().Str("event", "job_failed").Str("job", "mark_overdue").
			Str("error_message", err.Error()).
			Int64("duration_ms", time.Since(start).Milliseconds()).Msg("")
		return
	}
	s.log.Info().Str("event", "job_finish").Str("job", "mark_overdue").
		Int("marked", n).
		Int64("duration_ms", time.Since(start).Milliseconds()).Msg("")
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Str("event", "job_panic").Str("error_message", err.Error()).Fields(keysAndValues).Msg(msg)
}
