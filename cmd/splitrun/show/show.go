// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package show contains the show command, which prints a saved submission report.
package show

import (
	"context"
	"errors"
	"fmt"

	"github.com/matt-FFFFFF/splitrun/internal/submitter"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

const (
	fileArg            = "file"
	outputStdOutFlag   = "output-stdout"
	noOutputStdErrFlag = "no-output-stderr"
)

var (
	// ErrReadFile is returned when the file cannot be read.
	ErrReadFile = errors.New("failed to read file")
	// ErrWriteResults is returned when the results cannot be written.
	ErrWriteResults = errors.New("failed to write results")
)

// FsFactory returns the filesystem reports are read from.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// ShowCmd is the command that shows a report written by submit --out.
var ShowCmd = NewCmd()

// NewCmd returns a new show command.
func NewCmd() *cli.Command {
	return &cli.Command{
		Name:        "show",
		Usage:       "Show a saved submission report",
		Description: "Show a submission report previously written with --out.",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:      fileArg,
				UsageText: "FILE",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        outputStdOutFlag,
				Aliases:     []string{"stdout"},
				Usage:       "Include the scheduler's stdout in the results",
				DefaultText: "false",
				OnlyOnce:    true,
			},
			&cli.BoolFlag{
				Name:        noOutputStdErrFlag,
				Aliases:     []string{"no-stderr"},
				Usage:       "Exclude the scheduler's stderr from the results",
				DefaultText: "false",
				OnlyOnce:    true,
			},
		},
		Action: actionFunc,
	}
}

func actionFunc(_ context.Context, cmd *cli.Command) error {
	name := cmd.StringArg(fileArg)
	if name == "" {
		return cli.Exit("Please specify the report file to show.", 1)
	}

	f, err := FsFactory().Open(name)
	if err != nil {
		return errors.Join(ErrReadFile, err)
	}

	defer f.Close() //nolint:errcheck

	folder, results, err := submitter.ReadYAML(f)
	if err != nil {
		return err
	}

	w := cmd.Root().Writer

	if _, err := fmt.Fprintf(w, "Submissions from %s\n", folder); err != nil {
		return errors.Join(ErrWriteResults, err)
	}

	opts := submitter.DefaultOutputOptions()
	opts.IncludeStdOut = cmd.Bool(outputStdOutFlag)
	opts.IncludeStdErr = !cmd.Bool(noOutputStdErrFlag)
	opts.ShowCommand = true

	if err := results.WriteText(w, opts); err != nil {
		return errors.Join(ErrWriteResults, err)
	}

	return nil
}
