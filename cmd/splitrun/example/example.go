// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package example contains the example command, which prints a sample job file.
package example

import (
	"context"
	"embed"
	"fmt"

	"github.com/urfave/cli/v3"
)

const (
	formatFlag = "format"
	formatYAML = "yaml"
	formatHCL  = "hcl"
)

//go:embed examples/*
var examples embed.FS

// ExampleCmd is the command that prints a sample job file.
var ExampleCmd = NewCmd()

// NewCmd returns a new example command.
func NewCmd() *cli.Command {
	return &cli.Command{
		Name:        "example",
		Usage:       "Print a sample job file",
		Description: "Print a commented sample job file to use with generate -f.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        formatFlag,
				Usage:       "Job file format: yaml or hcl",
				DefaultText: formatYAML,
				Value:       formatYAML,
				OnlyOnce:    true,
			},
		},
		Action: actionFunc,
	}
}

func actionFunc(_ context.Context, cmd *cli.Command) error {
	b, err := Job(cmd.String(formatFlag))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	_, err = cmd.Root().Writer.Write(b)

	return err
}

// Job returns the sample job file in the given format.
func Job(format string) ([]byte, error) {
	switch format {
	case formatYAML, formatHCL:
		return examples.ReadFile("examples/job." + format)
	default:
		return nil, fmt.Errorf("invalid format: %s, valid formats: %s, %s", format, formatYAML, formatHCL)
	}
}
