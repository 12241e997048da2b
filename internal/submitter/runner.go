// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package submitter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/matt-FFFFFF/splitrun/internal/ctxlog"
)

const (
	// GOOSWindows is the string constant for Windows OS from the runtime package.
	GOOSWindows          = "windows"
	commandSwitchWindows = "/C"
	commandSwitchUnix    = "-c"
	winSystem32          = "System32"
	cmdExe               = "cmd.exe"
	binSh                = "/bin/sh"
	winSystemRootEnv     = "SystemRoot"
	shellEnv             = "SHELL"
	maxBufferSize        = 1024 * 1024 // 1MB per stream
)

var (
	// ErrCouldNotStartProcess is returned when the shell could not be started.
	ErrCouldNotStartProcess = errors.New("could not start process")
	// ErrNonZeroExit is returned when the submit command exits with a non-zero code.
	ErrNonZeroExit = errors.New("submit command failed")
	// ErrAborted is returned for submissions interrupted or skipped because the context ended.
	ErrAborted = errors.New("submission aborted")
)

// Runner runs one composed command line.
type Runner interface {
	Run(ctx context.Context, commandLine string) *Result
}

var _ Runner = (*ShellRunner)(nil)

// ShellRunner runs command lines with the user's shell, or /bin/sh when SHELL is unset.
type ShellRunner struct {
	Shell string // Overrides the shell, mainly for tests.
}

// Run implements Runner. It waits for the command to finish.
func (s *ShellRunner) Run(ctx context.Context, commandLine string) *Result {
	shell := s.Shell
	if shell == "" {
		shell = defaultShell(ctx)
	}

	switchArg := commandSwitchUnix
	if runtime.GOOS == GOOSWindows {
		switchArg = commandSwitchWindows
	}

	res := &Result{
		Command: commandLine,
		Status:  StatusUnknown,
	}

	stdout := newCappedBuffer(maxBufferSize)
	stderr := newCappedBuffer(maxBufferSize)

	cmd := exec.CommandContext(ctx, shell, switchArg, commandLine)
	cmd.Stdin = nil
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	start := time.Now()
	err := cmd.Run()
	res.Duration = time.Since(start)
	res.StdOut = stdout.Bytes()
	res.StdErr = stderr.Bytes()

	if stdout.truncated || stderr.truncated {
		ctxlog.Debug(ctx, "submit command output truncated", "maxBytes", maxBufferSize)
	}

	var exitErr *exec.ExitError

	switch {
	case err == nil:
		res.ExitCode = 0
		res.Status = StatusSubmitted
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
		res.Error = fmt.Errorf("%w: exit code %d", ErrNonZeroExit, res.ExitCode)
		res.Status = StatusFailed
	default:
		res.ExitCode = -1
		res.Error = errors.Join(ErrCouldNotStartProcess, err)
		res.Status = StatusFailed
	}

	if ctx.Err() != nil {
		res.Error = errors.Join(res.Error, ErrAborted, ctx.Err())
		res.Status = StatusFailed

		if res.ExitCode == 0 {
			res.ExitCode = -1
		}
	}

	return res
}

func defaultShell(ctx context.Context) string {
	if runtime.GOOS == GOOSWindows {
		systemRoot := os.Getenv(winSystemRootEnv)
		if systemRoot == "" {
			systemRoot = `C:\Windows`
		}

		return fmt.Sprintf(`%s\%s\%s`, systemRoot, winSystem32, cmdExe)
	}

	if shell := os.Getenv(shellEnv); shell != "" {
		ctxlog.Debug(ctx, "using SHELL environment variable", "shell", shell)
		return shell
	}

	return binSh
}

// cappedBuffer keeps the first max bytes written to it and discards the rest.
type cappedBuffer struct {
	buf       []byte
	limit     int
	truncated bool
}

func newCappedBuffer(limit int) *cappedBuffer {
	return &cappedBuffer{limit: limit}
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	room := b.limit - len(b.buf)
	if room < len(p) {
		b.truncated = true

		if room > 0 {
			b.buf = append(b.buf, p[:room]...)
		}

		return len(p), nil
	}

	b.buf = append(b.buf, p...)

	return len(p), nil
}

func (b *cappedBuffer) Bytes() []byte {
	return b.buf
}
