// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package generate contains the generate command, which writes one launcher and
// wrapper script per run list entry and can submit them straight away.
package generate

import (
	"context"
	"fmt"

	"github.com/matt-FFFFFF/splitrun/cmd/splitrun/submit"
	"github.com/matt-FFFFFF/splitrun/internal/color"
	"github.com/matt-FFFFFF/splitrun/internal/ctxlog"
	"github.com/matt-FFFFFF/splitrun/internal/generator"
	"github.com/matt-FFFFFF/splitrun/internal/jobfile"
	"github.com/matt-FFFFFF/splitrun/internal/runlist"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

const (
	fileFlag           = "file"
	moduleFlag         = "module"
	functionFlag       = "function"
	outputFlag         = "output"
	runFlag            = "run"
	labelFlag          = "label"
	deriveLabelsFlag   = "derive-labels"
	interpreterFlag    = "interpreter"
	relativeFlag       = "relative"
	noWrapperFlag      = "no-wrapper"
	atomicFlag         = "atomic"
	submitFlag         = "submit"
	submitCommandFlag  = "submit-command"
	noOutputFolderFlag = "no-output-folder"
	dryRunFlag         = "dry-run"
	cliExitStr         = ""
)

// FsFactory returns the filesystem the scripts are written to.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// GenerateCmd is the command that generates the launcher scripts.
var GenerateCmd = NewCmd()

// NewCmd returns a new generate command.
func NewCmd() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Generate one launcher script per run list entry",
		Description: `Generate a launcher for every entry of the run list. Each launcher imports
the work module and calls the function with its entry as the only argument.
Unless --no-wrapper is given, a bash wrapper that runs the launcher is written next to it.

The output directory is removed and recreated on every run.

Settings can be read from a YAML or HCL job file (-f). The file location uses
Hashicorp's go-getter syntax, see https://github.com/hashicorp/go-getter.
Flags override the values in the job file.

Run values are YAML flow values: --run 3 --run a --run '[2, b]'.`,
		DisableSliceFlagSeparator: true,
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:     fileFlag,
				Aliases:  []string{"f"},
				Usage:    "URL of a YAML or HCL job file, supports go-getter syntax",
				OnlyOnce: true,
			},
			&cli.StringFlag{
				Name:      moduleFlag,
				Aliases:   []string{"m"},
				Usage:     "Path to the Python file that defines the function",
				TakesFile: true,
				OnlyOnce:  true,
			},
			&cli.StringFlag{
				Name:     functionFlag,
				Aliases:  []string{"F"},
				Usage:    "Name of the function every launcher calls",
				OnlyOnce: true,
			},
			&cli.StringFlag{
				Name:      outputFlag,
				Aliases:   []string{"o"},
				Usage:     "Output directory, it is wiped before generation",
				TakesFile: true,
				OnlyOnce:  true,
			},
			&cli.StringSliceFlag{
				Name:    runFlag,
				Aliases: []string{"r"},
				Usage:   "Run list entry as a YAML flow value, specify once per entry",
			},
			&cli.StringSliceFlag{
				Name:    labelFlag,
				Aliases: []string{"l"},
				Usage:   "Label for the matching run list entry, specify once per entry",
			},
			&cli.BoolFlag{
				Name:        deriveLabelsFlag,
				Usage:       "Derive labels from the run list entries",
				DefaultText: "false",
				OnlyOnce:    true,
			},
			&cli.StringFlag{
				Name:     interpreterFlag,
				Usage:    "Interpreter command used by the wrappers",
				Value:    generator.DefaultInterpreter,
				OnlyOnce: true,
			},
			&cli.BoolFlag{
				Name:        relativeFlag,
				Usage:       "Locate the module and launchers relative to the generated files",
				DefaultText: "false",
				OnlyOnce:    true,
			},
			&cli.BoolFlag{
				Name:        noWrapperFlag,
				Usage:       "Do not write bash wrappers",
				DefaultText: "false",
				OnlyOnce:    true,
			},
			&cli.BoolFlag{
				Name:        atomicFlag,
				Usage:       "Generate into a temporary directory and move it into place when complete",
				DefaultText: "false",
				OnlyOnce:    true,
			},
			&cli.BoolFlag{
				Name:        submitFlag,
				Usage:       "Submit the wrappers to the scheduler after generation",
				DefaultText: "false",
				OnlyOnce:    true,
			},
			&cli.StringFlag{
				Name:     submitCommandFlag,
				Usage:    "Submit command, the script path is appended",
				OnlyOnce: true,
			},
			&cli.BoolFlag{
				Name:        noOutputFolderFlag,
				Usage:       "Do not send the scheduler's output files to the output directory",
				DefaultText: "false",
				OnlyOnce:    true,
			},
			&cli.BoolFlag{
				Name:        dryRunFlag,
				Usage:       "Print the submit commands without running them",
				DefaultText: "false",
				OnlyOnce:    true,
			},
		}, submit.ReportFlags()...),
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	logger := ctxlog.Logger(ctx).With("command", cmd.Name)
	logger.Debug("Running generate command")

	def := &jobfile.Definition{}

	if url := cmd.String(fileFlag); url != "" {
		var err error

		if def, err = jobfile.Load(ctx, url); err != nil {
			logger.Error(fmt.Sprintf("Failed to load job file %s: %s", url, err.Error()))
			return cli.Exit(cliExitStr, 1)
		}
	}

	if err := applyFlags(cmd, def); err != nil {
		logger.Error(err.Error())
		return cli.Exit(cliExitStr, 1)
	}

	m, err := generator.Generate(ctx, FsFactory(), def.GeneratorOptions())
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to generate scripts: %s", err.Error()))
		return cli.Exit(cliExitStr, 1)
	}

	w := cmd.Root().Writer
	fmt.Fprintf(w, "%s %d job(s) in %s\n", color.Render(color.Success, "Generated"), len(m.Artifacts), m.OutputDir) //nolint:errcheck

	if !cmd.Bool(submitFlag) {
		return nil
	}

	if len(m.Wrappers()) == 0 {
		logger.Warn("Nothing to submit, no wrapper scripts were generated.")
		return nil
	}

	opts := def.SubmitterOptions()
	opts.Folder = m.OutputDir

	if cmd.IsSet(submitCommandFlag) {
		opts.Command = cmd.String(submitCommandFlag)
	}

	if cmd.IsSet(noOutputFolderFlag) {
		opts.SetOutputFolder = !cmd.Bool(noOutputFolderFlag)
	}

	opts.DryRun = cmd.Bool(dryRunFlag)

	return submit.Run(ctx, cmd, opts)
}

// applyFlags overrides the job file values with the flags that were set.
func applyFlags(cmd *cli.Command, def *jobfile.Definition) error {
	setString := func(flag string, dst *string) {
		if cmd.IsSet(flag) {
			*dst = cmd.String(flag)
		}
	}

	setBool := func(flag string, dst *bool) {
		if cmd.IsSet(flag) {
			*dst = cmd.Bool(flag)
		}
	}

	setString(moduleFlag, &def.Module)
	setString(functionFlag, &def.Function)
	setString(outputFlag, &def.Output)
	setString(interpreterFlag, &def.Interpreter)
	setBool(deriveLabelsFlag, &def.DeriveLabels)
	setBool(relativeFlag, &def.RelativePaths)
	setBool(atomicFlag, &def.Atomic)

	if cmd.IsSet(noWrapperFlag) {
		wrapper := !cmd.Bool(noWrapperFlag)
		def.Wrapper = &wrapper
	}

	if cmd.IsSet(labelFlag) {
		def.Labels = cmd.StringSlice(labelFlag)
	}

	if cmd.IsSet(runFlag) {
		values := cmd.StringSlice(runFlag)
		runs := make(runlist.RunList, len(values))

		for i, s := range values {
			v, err := jobfile.ParseValue(s)
			if err != nil {
				return err
			}

			runs[i] = v
		}

		def.Runs = runs
	}

	return nil
}
