// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package submit contains the submit command, which hands every wrapper script
// in a folder to the cluster scheduler.
package submit

import (
	"context"
	"errors"
	"fmt"

	"github.com/matt-FFFFFF/splitrun/internal/ctxlog"
	"github.com/matt-FFFFFF/splitrun/internal/submitter"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

const (
	commandFlag        = "command"
	noOutputFolderFlag = "no-output-folder"
	dryRunFlag         = "dry-run"
	outFlag            = "out"
	outputStdOutFlag   = "output-stdout"
	noOutputStdErrFlag = "no-output-stderr"
	showCommandFlag    = "show-command"
	folderArg          = "folder"
	cliExitStr         = ""
)

// ErrWriteReport is returned when the YAML report cannot be written.
var ErrWriteReport = errors.New("failed to write submission report")

// FsFactory returns the filesystem scripts are listed from and reports are written to.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// RunnerFactory returns the runner used for submissions. A nil runner means the shell.
var RunnerFactory = func() submitter.Runner {
	return nil
}

// SubmitCmd is the command that submits a folder of wrapper scripts.
var SubmitCmd = NewCmd()

// NewCmd returns a new submit command.
func NewCmd() *cli.Command {
	return &cli.Command{
		Name:  "submit",
		Usage: "Submit every wrapper script in a folder to the scheduler",
		Description: `Submit every .sh file in FOLDER, in lexical order, one at a time.
Each script is submitted as: <command> [-o FOLDER -e FOLDER] FOLDER/<script>.
A failed submission is reported and the remaining scripts are still submitted.`,
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:      folderArg,
				UsageText: "FOLDER",
			},
		},
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:     commandFlag,
				Aliases:  []string{"c"},
				Usage:    "Submit command, the script path is appended",
				Value:    submitter.DefaultCommand,
				OnlyOnce: true,
			},
			&cli.BoolFlag{
				Name:        noOutputFolderFlag,
				Usage:       "Do not send the scheduler's output files to the folder",
				DefaultText: "false",
				OnlyOnce:    true,
			},
			&cli.BoolFlag{
				Name:        dryRunFlag,
				Usage:       "Print the commands without running them",
				DefaultText: "false",
				OnlyOnce:    true,
			},
		}, ReportFlags()...),
		Action: actionFunc,
	}
}

// ReportFlags returns the flags that control how submission results are reported.
func ReportFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:      outFlag,
			Usage:     "Write a YAML report of the submissions to this file",
			TakesFile: true,
			OnlyOnce:  true,
		},
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
		&cli.BoolFlag{
			Name:        showCommandFlag,
			Usage:       "Include the command line of each submission in the results",
			DefaultText: "false",
			OnlyOnce:    true,
		},
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	logger := ctxlog.Logger(ctx).With("command", cmd.Name)

	folder := cmd.StringArg(folderArg)
	if folder == "" {
		logger.Error("Please specify the folder holding the scripts to submit.")
		return cli.Exit(cliExitStr, 1)
	}

	opts := submitter.NewOptions(folder)
	opts.Command = cmd.String(commandFlag)
	opts.SetOutputFolder = !cmd.Bool(noOutputFolderFlag)
	opts.DryRun = cmd.Bool(dryRunFlag)

	return Run(ctx, cmd, opts)
}

// Run submits the scripts described by opts and reports the results using the
// report flags of cmd. It returns a cli exit error when any submission failed.
func Run(ctx context.Context, cmd *cli.Command, opts *submitter.Options) error {
	logger := ctxlog.Logger(ctx).With("command", cmd.Name)

	if opts.Runner == nil {
		opts.Runner = RunnerFactory()
	}

	fs := FsFactory()

	res, err := submitter.Submit(ctx, fs, opts)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to submit: %s", err.Error()))
		return cli.Exit(cliExitStr, 1)
	}

	if len(res) == 0 {
		logger.Warn(fmt.Sprintf("No scripts found in %s", opts.Folder))
	}

	if out := cmd.String(outFlag); out != "" {
		if err := writeReport(fs, out, opts.Folder, res); err != nil {
			logger.Error(err.Error())
			return cli.Exit(cliExitStr, 1)
		}

		logger.Info(fmt.Sprintf("Report written to %s", out))
	}

	outOpts := submitter.DefaultOutputOptions()
	outOpts.IncludeStdOut = cmd.Bool(outputStdOutFlag)
	outOpts.IncludeStdErr = !cmd.Bool(noOutputStdErrFlag)
	outOpts.ShowCommand = opts.DryRun || cmd.Bool(showCommandFlag)

	if err := res.WriteText(cmd.Root().Writer, outOpts); err != nil {
		logger.Error(fmt.Sprintf("Failed to write results: %s", err.Error()))
		return cli.Exit(cliExitStr, 1)
	}

	if res.HasError() {
		logger.Error("Some submissions failed. See above for details.")
		return cli.Exit(cliExitStr, 1)
	}

	return nil
}

func writeReport(fs afero.Fs, name, folder string, res submitter.Results) (err error) {
	f, err := fs.Create(name)
	if err != nil {
		return errors.Join(ErrWriteReport, err)
	}

	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Join(ErrWriteReport, cerr)
		}
	}()

	if err := res.WriteYAML(f, folder); err != nil {
		return errors.Join(ErrWriteReport, err)
	}

	return nil
}
