// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main contains the splitrun command-line interface (CLI).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/splitrun"
	"github.com/matt-FFFFFF/splitrun/cmd/splitrun/example"
	"github.com/matt-FFFFFF/splitrun/cmd/splitrun/generate"
	"github.com/matt-FFFFFF/splitrun/cmd/splitrun/show"
	"github.com/matt-FFFFFF/splitrun/cmd/splitrun/submit"
	"github.com/matt-FFFFFF/splitrun/internal/ctxlog"
	"github.com/matt-FFFFFF/splitrun/internal/signalbroker"
	"github.com/urfave/cli/v3"
)

// rootCmd is the root command for the CLI.
var rootCmd = newRootCmd()

func newRootCmd() *cli.Command {
	return &cli.Command{
		Commands: []*cli.Command{
			generate.GenerateCmd,
			submit.SubmitCmd,
			show.ShowCmd,
			example.ExampleCmd,
		},
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		Name:      "splitrun",
		Description: `splitrun fans a unit of work out as independent cluster jobs.
It writes one small launcher script per run list entry, each calling the same
Python function with a different argument, and submits the wrapper scripts to
a batch scheduler such as Grid Engine, Slurm or PBS.

Set ` + ctxlog.LevelEnvName() + ` to DEBUG, INFO, WARN or ERROR to control logging.`,
		Usage:     "splitrun generate -f job.yaml --submit",
		Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
		Authors: []any{
			"Matt White (matt-FFFFFF)",
		},
		DisableSliceFlagSeparator: true,
		EnableShellCompletion:     true,
	}
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)
	defer cancel()

	sigCh := signalbroker.New(ctx)

	go signalbroker.Watch(ctx, sigCh, cancel)

	rootCmd.Version = fmt.Sprintf("%s (commit: %s)", splitrun.Version, splitrun.Commit)

	err := rootCmd.Run(ctx, os.Args) // Err is handled by cli framework

	if ctx.Err() != nil {
		ctxlog.Logger(ctx).Error("command terminated due to cancellation", "error", ctx.Err())
		os.Exit(1)
	}

	if err != nil {
		ctxlog.Logger(ctx).Error("command execution failed", "error", err)
		os.Exit(1)
	}

	ctxlog.Logger(ctx).Info("command completed successfully")
}
