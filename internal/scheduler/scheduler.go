// Package scheduler runs recurring background jobs on fixed intervals.
package scheduler

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"stocktracker/internal/logger"

	"github.com/robfig/cron/v3"
)

// Job is a unit of recurring work.
type Job interface {
	Name() string
	Run() error
}

// IntervalRunner runs a single job every interval until stopped.
// Ticks of the same runner never overlap: a tick that arrives while the
// previous one is still executing is skipped. Stop cancels future ticks
// and waits for an in-flight tick to complete.
type IntervalRunner struct {
	job  Job
	mu   sync.Mutex
	cron *cron.Cron
	busy atomic.Bool
	wg   sync.WaitGroup
}

// NewIntervalRunner creates a stopped runner for job.
func NewIntervalRunner(job Job) *IntervalRunner {
	return &IntervalRunner{job: job}
}

// Running reports whether the runner has been started and not yet stopped.
func (r *IntervalRunner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cron != nil
}

// Start runs the job once immediately, then on every interval tick.
// Starting an already-running runner is a no-op with a warning.
func (r *IntervalRunner) Start(interval time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cron != nil {
		logger.Get().Warnw("runner already started", "job", r.job.Name())
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", interval), r.tick); err != nil {
		return fmt.Errorf("scheduling %s: %w", r.job.Name(), err)
	}

	r.cron = c
	c.Start()

	// First run happens right away rather than one interval from now.
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.tick()
	}()

	logger.Get().Infow("runner started", "job", r.job.Name(), "interval", interval.String())
	return nil
}

// Stop cancels the recurring schedule and blocks until any in-flight
// tick has finished. Stopping a stopped runner is a no-op.
func (r *IntervalRunner) Stop() {
	r.mu.Lock()
	c := r.cron
	r.cron = nil
	r.mu.Unlock()

	if c == nil {
		return
	}

	ctx := c.Stop()
	<-ctx.Done()
	r.wg.Wait()

	logger.Get().Infow("runner stopped", "job", r.job.Name())
}

// tick executes one job run, skipping if the previous run is still going.
func (r *IntervalRunner) tick() {
	if !r.busy.CompareAndSwap(false, true) {
		logger.Get().Debugw("skipping tick, previous run still in progress", "job", r.job.Name())
		return
	}
	defer r.busy.Store(false)

	if err := r.job.Run(); err != nil {
		logger.Get().Errorw("job failed", "job", r.job.Name(), "error", err)
	}
}
