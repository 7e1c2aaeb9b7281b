package scheduler

import (
	"sync/atomic"
	"testing"
	"time"
)

// countingJob counts runs and optionally blocks until released.
type countingJob struct {
	runs  atomic.Int64
	block chan struct{}
}

func (j *countingJob) Name() string { return "counting" }

func (j *countingJob) Run() error {
	j.runs.Add(1)
	if j.block != nil {
		<-j.block
	}
	return nil
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestIntervalRunnerStart(t *testing.T) {
	t.Run("runs_immediately", func(t *testing.T) {
		job := &countingJob{}
		r := NewIntervalRunner(job)

		// Long interval: only the immediate run should happen.
		if err := r.Start(time.Hour); err != nil {
			t.Fatalf("start failed: %v", err)
		}
		defer r.Stop()

		waitFor(t, time.Second, func() bool { return job.runs.Load() == 1 })
	})

	t.Run("double_start_is_noop", func(t *testing.T) {
		job := &countingJob{}
		r := NewIntervalRunner(job)

		if err := r.Start(time.Hour); err != nil {
			t.Fatalf("start failed: %v", err)
		}
		defer r.Stop()

		if err := r.Start(time.Hour); err != nil {
			t.Fatalf("second start errored: %v", err)
		}

		waitFor(t, time.Second, func() bool { return job.runs.Load() == 1 })
		time.Sleep(20 * time.Millisecond)
		if job.runs.Load() != 1 {
			t.Errorf("expected 1 run after double start, got %d", job.runs.Load())
		}
	})

	t.Run("running_reports_state", func(t *testing.T) {
		r := NewIntervalRunner(&countingJob{})
		if r.Running() {
			t.Error("expected stopped before Start")
		}
		if err := r.Start(time.Hour); err != nil {
			t.Fatalf("start failed: %v", err)
		}
		if !r.Running() {
			t.Error("expected running after Start")
		}
		r.Stop()
		if r.Running() {
			t.Error("expected stopped after Stop")
		}
	})
}

func TestIntervalRunnerStop(t *testing.T) {
	t.Run("waits_for_inflight_run", func(t *testing.T) {
		job := &countingJob{block: make(chan struct{})}
		r := NewIntervalRunner(job)

		if err := r.Start(time.Hour); err != nil {
			t.Fatalf("start failed: %v", err)
		}
		waitFor(t, time.Second, func() bool { return job.runs.Load() == 1 })

		stopped := make(chan struct{})
		go func() {
			r.Stop()
			close(stopped)
		}()

		select {
		case <-stopped:
			t.Fatal("Stop returned while the job was still running")
		case <-time.After(50 * time.Millisecond):
		}

		close(job.block)
		select {
		case <-stopped:
		case <-time.After(time.Second):
			t.Fatal("Stop did not return after the job finished")
		}
	})

	t.Run("stop_without_start_is_noop", func(t *testing.T) {
		r := NewIntervalRunner(&countingJob{})
		r.Stop()
		r.Stop()
	})
}

func TestIntervalRunnerSkipsOverlap(t *testing.T) {
	job := &countingJob{block: make(chan struct{})}
	r := NewIntervalRunner(job)

	if err := r.Start(time.Hour); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	waitFor(t, time.Second, func() bool { return job.runs.Load() == 1 })

	// A tick arriving while the first run is blocked must be skipped.
	r.tick()
	if job.runs.Load() != 1 {
		t.Errorf("expected overlapping tick to be skipped, got %d runs", job.runs.Load())
	}

	close(job.block)
	r.Stop()
}
