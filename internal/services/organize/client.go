package organize

import (
	"context"
	"log/slog"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"curator/internal/services"
)

var commandContext = exec.CommandContext

// Mode selects the engine invocation: a dry run that reports what would
// happen, or a real execution that moves files.
type Mode string

const (
	Simulate Mode = "sim"
	Execute  Mode = "run"
)

// Simulated reports whether records produced under this mode describe
// hypothetical effects only.
func (m Mode) Simulated() bool {
	return m == Simulate
}

// DefaultBinary is the engine executable resolved from PATH when no explicit
// path is configured.
const DefaultBinary = "organize"

// DefaultGracePeriod is how long Cancel waits after the termination signal
// before force-killing the process group.
const DefaultGracePeriod = 5 * time.Second

// Option configures the client.
type Option func(*Client)

// WithBinary overrides the engine executable name or path.
func WithBinary(binary string) Option {
	return func(c *Client) {
		if strings.TrimSpace(binary) != "" {
			c.binary = binary
		}
	}
}

// WithGracePeriod overrides the cancellation grace period.
func WithGracePeriod(grace time.Duration) Option {
	return func(c *Client) {
		if grace > 0 {
			c.grace = grace
		}
	}
}

// WithVerbose passes the engine's verbose flag on every invocation.
func WithVerbose(verbose bool) Option {
	return func(c *Client) {
		c.verbose = verbose
	}
}

// WithLogger attaches a logger for stream diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client wraps organize engine invocations.
//
// Only one run should be active per rule file at a time; two engine processes
// racing on the same source directories corrupt each other's view. The client
// does not enforce this itself; callers hold a runlock.Lock for the rule file
// around Start/Wait.
type Client struct {
	binary  string
	grace   time.Duration
	verbose bool
	logger  *slog.Logger
}

// NewClient constructs an engine client using defaults.
func NewClient(opts ...Option) *Client {
	client := &Client{
		binary: DefaultBinary,
		grace:  DefaultGracePeriod,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Start launches the engine against the given rule file and returns a live
// handle. It fails only when the process cannot be spawned; everything the
// engine reports after launch, including a non-zero exit, is delivered
// through the handle instead. Start never blocks beyond process creation.
func (c *Client) Start(ctx context.Context, mode Mode, configPath string) (*Run, error) {
	if strings.TrimSpace(configPath) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "organize", "start", "rule file path required", nil)
	}
	switch mode {
	case Simulate, Execute:
	default:
		return nil, services.Wrap(services.ErrConfiguration, "organize", "start", "unknown mode "+string(mode), nil)
	}

	args := []string{string(mode), "--config", configPath}
	if c.verbose {
		args = append(args, "--verbose")
	}

	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	// Own process group so cancellation signals reach engine children too.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, services.Wrap(services.ErrLaunch, "organize", "start", "stdout pipe", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, services.Wrap(services.ErrLaunch, "organize", "start", "stderr pipe", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, services.Wrap(services.ErrLaunch, "organize", "start", "spawn "+c.binary, err)
	}

	run := newRun(cmd, mode, c.grace, c.logger)
	run.supervise(stdout, stderr)
	return run, nil
}
