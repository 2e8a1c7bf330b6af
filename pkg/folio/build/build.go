// Package build runs the site's production build, the first step of a
// bundle audit.
package build

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"

	"github.com/jamesainslie/folio/pkg/folio/logging"
)

// ErrBuildFailed is the sentinel every build failure unwraps to.
var ErrBuildFailed = errors.New("build failed")

// Result describes a completed build.
type Result struct {
	Command  string
	Output   []byte
	Duration time.Duration
}

// Runner runs a build to completion.
type Runner interface {
	Run() (Result, error)
}

// Error reports a build that could not be started or exited non-zero.
type Error struct {
	// Command is the command line that was run.
	Command string

	// ExitCode is the process exit status, or -1 if it never ran.
	ExitCode int

	// Output is the combined stdout and stderr of the build.
	Output []byte

	Err error
}

func (e *Error) Error() string {
	if e.ExitCode < 0 {
		return fmt.Sprintf("build failed: %s: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("build failed: %s exited with status %d", e.Command, e.ExitCode)
}

// Unwrap exposes both ErrBuildFailed and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrBuildFailed}
	}
	return []error{ErrBuildFailed, e.Err}
}

// ShellRunner runs an external command through stave's sh package.
type ShellRunner struct {
	Command string
	Args    []string

	// Env adds variables to the inherited environment.
	Env map[string]string

	// Echo, if set, receives build output as it is produced in addition
	// to the captured copy.
	Echo io.Writer
}

var _ Runner = (*ShellRunner)(nil)

// NewShellRunner returns a runner for command and args.
func NewShellRunner(command string, args ...string) *ShellRunner {
	return &ShellRunner{Command: command, Args: args}
}

// CommandLine returns the command as it would be typed in a shell.
func (r *ShellRunner) CommandLine() string {
	return strings.TrimSpace(r.Command + " " + strings.Join(r.Args, " "))
}

// Run executes the build and blocks until it exits.
func (r *ShellRunner) Run() (Result, error) {
	log := logging.Get("build")
	cmdline := r.CommandLine()

	if r.Command == "" {
		return Result{}, &Error{Command: cmdline, ExitCode: -1, Err: errors.New("no build command configured")}
	}

	var out bytes.Buffer
	var w io.Writer = &out
	if r.Echo != nil {
		w = io.MultiWriter(&out, r.Echo)
	}

	log.Info("running build", "command", cmdline)
	start := time.Now()
	ran, err := sh.Exec(r.Env, nil, w, w, r.Command, r.Args...)
	result := Result{Command: cmdline, Output: out.Bytes(), Duration: time.Since(start)}

	if err != nil {
		code := -1
		if ran {
			code = sh.ExitStatus(err)
		}
		log.Error("build failed", "command", cmdline, "exit", code, "elapsed", result.Duration)
		return result, &Error{Command: cmdline, ExitCode: code, Output: result.Output, Err: err}
	}

	log.Info("build finished", "elapsed", result.Duration)
	return result, nil
}
