package organize

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"os/exec"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	"curator/internal/interpret"
	"curator/internal/report"
	"curator/internal/services"
)

// Run supervises one engine process. The record stream is safe for exactly
// one consumer; summaries may be polled from any goroutine.
type Run struct {
	cmd   *exec.Cmd
	mode  Mode
	grace time.Duration
	log   *slog.Logger

	mu        sync.Mutex
	cond      *sync.Cond
	interp    *interpret.Interpreter
	summary   *report.RunSummary
	pending   []report.ActionRecord
	cancelled bool
	closed    bool
	final     report.RunSummary

	records chan report.ActionRecord
	done    chan struct{}
	started time.Time
}

func newRun(cmd *exec.Cmd, mode Mode, grace time.Duration, log *slog.Logger) *Run {
	r := &Run{
		cmd:     cmd,
		mode:    mode,
		grace:   grace,
		log:     log,
		interp:  interpret.New(mode.Simulated()),
		summary: report.NewRunSummary(),
		records: make(chan report.ActionRecord, 64),
		done:    make(chan struct{}),
		started: time.Now(),
	}
	r.cond = sync.NewCond(&r.mu)
	return r
}

// Mode returns the invocation mode of this run.
func (r *Run) Mode() Mode {
	return r.mode
}

// Records exposes the ordered, append-only record stream. The channel closes
// once the process has terminated and all buffered output is interpreted.
func (r *Run) Records() <-chan report.ActionRecord {
	return r.records
}

// Done is closed when the run reaches a terminal state.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Summary returns a point-in-time copy of the aggregate state. Safe to call
// from any goroutine while the run is live.
func (r *Run) Summary() report.RunSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return r.final
	}
	return r.summary.Clone()
}

// Wait blocks until the process has terminated and returns the frozen
// summary.
func (r *Run) Wait() report.RunSummary {
	<-r.done
	return r.final
}

// Cancel requests cooperative termination: the engine process group receives
// SIGTERM, then SIGKILL once the grace period elapses without exit. Output
// arriving after cancellation is drained but no longer emitted as records,
// and the terminal status is Cancelled regardless of the engine's own exit
// code. Cancel returns immediately.
func (r *Run) Cancel() {
	r.mu.Lock()
	if r.cancelled || r.closed {
		r.mu.Unlock()
		return
	}
	r.cancelled = true
	r.mu.Unlock()

	proc := r.cmd.Process
	if proc == nil {
		return
	}
	r.signalGroup(proc.Pid, unix.SIGTERM)
	go func() {
		select {
		case <-r.done:
		case <-time.After(r.grace):
			r.signalGroup(proc.Pid, unix.SIGKILL)
		}
	}()
}

func (r *Run) signalGroup(pid int, sig unix.Signal) {
	// Negative pid addresses the process group created at spawn. Fall back
	// to the single process if the group is already gone.
	if err := unix.Kill(-pid, sig); err != nil {
		if err := unix.Kill(pid, sig); err != nil && !errors.Is(err, unix.ESRCH) {
			r.log.Warn("signal engine process", "signal", sig.String(), "error", err)
		}
	}
}

// supervise starts the per-stream readers, the record pump, and the
// completion watcher.
func (r *Run) supervise(stdout, stderr io.Reader) {
	var readers errgroup.Group
	readers.Go(func() error { return r.drain(stdout, "stdout") })
	readers.Go(func() error { return r.drain(stderr, "stderr") })

	go r.pump()

	go func() {
		if err := readers.Wait(); err != nil {
			// A failed stream read is a premature end of that stream,
			// not a run failure; the other reader was unaffected.
			r.log.Warn("engine output truncated", "error", err)
		}
		r.finish(r.cmd.Wait())
	}()
}

// drain consumes one stream line by line. Records are only constructed from
// complete lines; a read failure ends this stream without touching the other.
func (r *Run) drain(stream io.Reader, name string) error {
	scanner := bufio.NewScanner(stream)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		r.ingest(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return services.Wrap(services.ErrStream, "organize", name, "read", err)
	}
	return nil
}

// ingest classifies one line under the shared sink lock. Interpretation stays
// strictly ordered here; attribution would be corrupted otherwise.
func (r *Run) ingest(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancelled || r.closed {
		return
	}
	rec := r.interp.Interpret(line)
	r.summary.Observe(rec)
	r.pending = append(r.pending, rec)
	r.cond.Signal()
}

// pump forwards queued records to the consumer channel. Producers never wait
// on the consumer: they only append to the pending queue.
func (r *Run) pump() {
	for {
		r.mu.Lock()
		for len(r.pending) == 0 && !r.closed {
			r.cond.Wait()
		}
		if len(r.pending) == 0 && r.closed {
			r.mu.Unlock()
			close(r.records)
			return
		}
		rec := r.pending[0]
		r.pending = r.pending[1:]
		r.mu.Unlock()
		r.records <- rec
	}
}

func (r *Run) finish(waitErr error) {
	exitCode := 0
	if waitErr != nil {
		var exitError *exec.ExitError
		if errors.As(waitErr, &exitError) {
			exitCode = exitError.ExitCode()
		} else {
			exitCode = -1
			r.log.Warn("wait for engine", "error", waitErr)
		}
	}

	r.mu.Lock()
	r.summary.ExitCode = exitCode
	r.summary.DurationTicks = int64(time.Since(r.started) / time.Millisecond)
	switch {
	case r.cancelled:
		r.summary.Status = report.StatusCancelled
	case exitCode == 0 && r.summary.Count(report.KindError) == 0:
		r.summary.Status = report.StatusCompleted
	default:
		r.summary.Status = report.StatusFailed
	}
	r.final = r.summary.Clone()
	r.closed = true
	r.cond.Broadcast()
	r.mu.Unlock()

	close(r.done)
}
