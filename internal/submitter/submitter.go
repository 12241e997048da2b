// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package submitter

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/matt-FFFFFF/splitrun/internal/ctxlog"
	"github.com/matt-FFFFFF/splitrun/internal/generator"
	"github.com/spf13/afero"
)

var (
	// ErrListFolder is returned when the folder cannot be read.
	ErrListFolder = errors.New("failed to list folder")
	// ErrNoFolder is returned when no folder is given.
	ErrNoFolder = errors.New("folder not set")
)

// ListWrappers returns the names of the wrapper scripts in folder, sorted lexically.
// Because job indices are zero padded this is also job order.
func ListWrappers(fs afero.Fs, folder string) ([]string, error) {
	infos, err := afero.ReadDir(fs, folder)
	if err != nil {
		return nil, errors.Join(ErrListFolder, err)
	}

	var names []string

	// afero.ReadDir sorts by name.
	for _, fi := range infos {
		if fi.IsDir() || !strings.HasSuffix(fi.Name(), generator.WrapperExt) {
			continue
		}

		names = append(names, fi.Name())
	}

	return names, nil
}

// Submit runs the submit command once for every wrapper script in opts.Folder,
// sequentially and in lexical order.
//
// The returned error is only set when the folder cannot be listed. A failing
// submission is recorded in its Result and the remaining scripts are still submitted.
// Once ctx is done the remaining scripts are reported as skipped.
func Submit(ctx context.Context, fs afero.Fs, opts *Options) (Results, error) {
	if opts.Folder == "" {
		return nil, ErrNoFolder
	}

	logger := ctxlog.Logger(ctx).With("component", "submitter", "folder", opts.Folder)

	scripts, err := ListWrappers(fs, opts.Folder)
	if err != nil {
		return nil, err
	}

	prefix := ComposeCommand(opts.Command, opts.Folder, opts.SetOutputFolder)
	logger.Debug("submitting scripts", "count", len(scripts), "command", prefix, "dryRun", opts.DryRun)

	runner := opts.Runner
	if runner == nil {
		runner = &ShellRunner{}
	}

	results := make(Results, 0, len(scripts))

	for _, name := range scripts {
		script := filepath.Join(opts.Folder, name)
		line := prefix + " " + script

		var res *Result

		switch {
		case ctx.Err() != nil:
			res = &Result{Status: StatusSkipped, ExitCode: -1, Error: errors.Join(ErrAborted, ctx.Err())}
		case opts.DryRun:
			res = &Result{Status: StatusSkipped}
		default:
			res = runner.Run(ctx, line)
			res.JobID = ParseJobID(res.StdOut)
		}

		res.Label = name
		res.Script = script
		res.Command = line

		if res.Status == StatusFailed {
			logger.Warn("submission failed", "script", name, "exitCode", res.ExitCode, "error", res.Error)
		} else {
			logger.Info("submission", "script", name, "status", res.Status.String(), "jobID", res.JobID)
		}

		results = append(results, res)
	}

	return results, nil
}
