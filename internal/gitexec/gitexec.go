// Package gitexec runs the installed git binary against a working
// directory, centralizing timeout, retry, and stderr-capture concerns so
// every higher layer is free of them.
package gitexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/buildkite/roko"
	"github.com/buildkite/shellwords"
	"github.com/levmat/version-finder/internal/verrors"
	"github.com/levmat/version-finder/logger"
)

// Config is the Executor's configuration: a positive per-invocation
// timeout, a non-negative retry budget, and a positive retry delay.
type Config struct {
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration

	// ExtraArgs is an optional passthrough of trusted global git flags
	// (e.g. "-c protocol.version=2"), split into argv tokens with
	// shellwords and prepended to every invocation.
	ExtraArgs string
}

// DefaultConfig returns the defaults: a 30 second timeout, no retries,
// and a 1 second delay between retries when they are enabled.
func DefaultConfig() Config {
	return Config{
		Timeout:    30 * time.Second,
		MaxRetries: 0,
		RetryDelay: 1 * time.Second,
	}
}

// Validate rejects non-positive timeout/retry_delay and negative max_retries.
func (c Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("gitexec: timeout must be positive, got %s", c.Timeout)
	}
	if c.RetryDelay <= 0 {
		return fmt.Errorf("gitexec: retry delay must be positive, got %s", c.RetryDelay)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("gitexec: max retries must not be negative, got %d", c.MaxRetries)
	}
	return nil
}

// Executor invokes "git <args...>" in a fixed working directory.
type Executor struct {
	dir       string
	cfg       Config
	log       logger.Logger
	extraArgs []string
}

// New constructs an Executor rooted at dir. It fails with a
// verrors.GitNotInstalled error if the git binary isn't on PATH.
func New(dir string, cfg Config, log logger.Logger) (*Executor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if _, err := exec.LookPath("git"); err != nil {
		return nil, verrors.Wrap(verrors.GitNotInstalled, err, "git binary not found on PATH")
	}

	var extra []string
	if cfg.ExtraArgs != "" {
		split, err := shellwords.Split(cfg.ExtraArgs)
		if err != nil {
			return nil, fmt.Errorf("gitexec: parsing extra-git-args %q: %w", cfg.ExtraArgs, err)
		}
		extra = split
	}

	if log == nil {
		log = logger.Discard
	}

	return &Executor{dir: dir, cfg: cfg, log: log, extraArgs: extra}, nil
}

// Execute runs "git <args...>" and returns raw stdout. On any failure
// (nonzero exit, timeout, spawn failure) it retries up to cfg.MaxRetries
// times with cfg.RetryDelay between attempts, finally surfacing a
// verrors.GitCommandError carrying the last exit code and stderr.
func (e *Executor) Execute(ctx context.Context, args ...string) ([]byte, error) {
	retrier := roko.NewRetrier(
		roko.WithMaxAttempts(e.cfg.MaxRetries+1),
		roko.WithStrategy(roko.Constant(e.cfg.RetryDelay)),
	)

	return roko.DoFunc(ctx, retrier, func(r *roko.Retrier) ([]byte, error) {
		start := time.Now()
		out, exitCode, stderr, runErr := e.run(ctx, args)
		e.log.Debug("git %s (dir=%s, exit=%d, took=%s)", strings.Join(args, " "), e.dir, exitCode, time.Since(start))
		if runErr == nil {
			return out, nil
		}
		gitErr := verrors.Wrap(verrors.GitCommandError, runErr,
			"git %s exited %d: %s", strings.Join(args, " "), exitCode, strings.TrimSpace(stderr))
		gitErr.ExitCode = exitCode
		gitErr.Stderr = stderr
		return nil, gitErr
	})
}

// Predicate runs "git <args...>" for its exit status alone. It never
// retries, and never returns an error for a nonzero exit, only when the
// process did not run to completion (it could not be spawned, or the
// timeout killed it). Used for ancestry tests like
// "merge-base --is-ancestor", where a nonzero exit carries meaning rather
// than failure.
func (e *Executor) Predicate(ctx context.Context, args ...string) (bool, error) {
	start := time.Now()
	_, exitCode, _, runErr := e.run(ctx, args)
	e.log.Debug("git %s (dir=%s, predicate, exit=%d, took=%s)", strings.Join(args, " "), e.dir, exitCode, time.Since(start))

	if runErr != nil && exitCode < 0 {
		// The process never ran to completion (spawn failure, or the
		// context deadline killed it before it could exit).
		return false, runErr
	}
	return exitCode == 0, nil
}

// run executes one attempt of "git <args...>" and returns stdout, the
// process's exit code (-1 if it never produced one), captured stderr, and
// an error for any failure.
func (e *Executor) run(ctx context.Context, args []string) (stdout []byte, exitCode int, stderr string, err error) {
	callCtx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	full := append(append([]string{}, e.extraArgs...), args...)
	cmd := exec.CommandContext(callCtx, "git", full...)
	cmd.Dir = e.dir

	var errBuf bytes.Buffer
	cmd.Stderr = &errBuf

	out, runErr := cmd.Output()
	stderr = errBuf.String()

	var exitErr *exec.ExitError
	switch {
	case runErr == nil:
		return out, 0, stderr, nil
	case errors.As(runErr, &exitErr):
		return nil, exitErr.ExitCode(), stderr, runErr
	default:
		// Spawn failure, or the context deadline fired before the
		// process produced an exit code.
		return nil, -1, stderr, runErr
	}
}
