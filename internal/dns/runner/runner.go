// Package runner executes the external dig and whois binaries and feeds
// their output to the parser. It is the only part of the system that
// launches processes; everything below it works on text.
package runner

import (
	"context"
	"errors"
	"os/exec"
	"sync"
	"time"

	"diggercli/digger/internal/dns/command"
	"diggercli/digger/internal/dns/domain"
	"diggercli/digger/internal/dns/parser"
	"diggercli/digger/internal/retry"
	"diggercli/digger/internal/util"
)

const (
	digBinary   = "dig"
	whoisBinary = "whois"

	// DefaultTimeout bounds one tool invocation.
	DefaultTimeout = 30 * time.Second
)

// structuredOutputFlags make dig emit section headers, comments and stats,
// which is what the parser keys on. They are appended to exec argv only;
// the displayed command stays the minimal generated form. +short and
// +trace requests skip them, since those modes deliberately reshape the
// output.
var structuredOutputFlags = []string{
	"+noall", "+answer", "+authority", "+additional", "+stats", "+comments", "+cmd",
}

// runFunc executes one external command and returns its combined output,
// exit code, and any launch or wait error. Tests replace it to stay
// process-free.
type runFunc func(ctx context.Context, name string, args ...string) (output string, exitCode int, err error)

// Runner invokes the external lookup tools with per-query timeouts.
type Runner struct {
	timeout     time.Duration
	whoisPolicy retry.Policy

	run  runFunc
	look func(file string) (string, error)

	probeOnce sync.Once
	digFound  bool
}

// New returns a Runner with the given per-query timeout. A non-positive
// timeout falls back to DefaultTimeout.
func New(timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Runner{
		timeout:     timeout,
		whoisPolicy: retry.Default(),
		run:         runCommand,
		look:        exec.LookPath,
	}
}

// Available reports whether the dig binary is on PATH. The probe runs once
// and is cached for the Runner's lifetime.
func (r *Runner) Available() bool {
	r.probeOnce.Do(func() {
		_, err := r.look(digBinary)
		r.digFound = err == nil
	})
	return r.digFound
}

// Query runs one resolver lookup and parses the outcome. It never returns
// an error: validation failures, timeouts and missing binaries all come
// back as a QueryResult with the matching status, so a batch always yields
// one result per spec.
func (r *Runner) Query(ctx context.Context, spec domain.QuerySpec) *domain.QueryResult {
	if !spec.Reverse {
		if err := util.ValidateDomain(spec.Domain); err != nil {
			return parser.ParseQuery(parser.Input{InvalidDomain: true}, spec)
		}
	}

	args, err := execArgs(spec)
	if err != nil {
		return parser.ParseQuery(parser.Input{InvalidDomain: true}, spec)
	}

	qctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	output, exitCode, runErr := r.run(qctx, args[0], args[1:]...)
	elapsed := time.Since(start)

	in := parser.Input{
		Output:   output,
		ExitCode: exitCode,
		TimedOut: qctx.Err() != nil,
		Elapsed:  elapsed,
	}
	if output == "" && runErr != nil {
		// Surface launch failures in Raw so the exec error text reaches
		// the tool-missing classifier.
		in.Output = runErr.Error()
	}

	return parser.ParseQuery(in, spec)
}

// execArgs builds the argv actually executed: the generated tokens plus the
// structured-output flags. Verbose shaping is a display-only concern and is
// dropped here.
func execArgs(spec domain.QuerySpec) ([]string, error) {
	spec.Verbose = false
	args, err := command.Args(spec)
	if err != nil {
		return nil, err
	}
	if !spec.Short && !spec.Trace {
		args = append(args, structuredOutputFlags...)
	}
	return args, nil
}

// runCommand is the real exec path. Launch failures (binary not on PATH)
// are reported with the shell's exit 127 convention so classification works
// the same for both stubbed and real execution.
func runCommand(ctx context.Context, name string, args ...string) (string, int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err == nil {
		return string(out), 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return string(out), exitErr.ExitCode(), err
	}
	return string(out), 127, err
}
