// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package submitter

import "strings"

const (
	// DefaultCommand is used when no submit command is configured.
	DefaultCommand = "qsub "
	outputFlag     = " -o "
	errorFlag      = " -e "
)

// Options configures a submission run.
type Options struct {
	Folder          string // Folder holding the wrapper scripts.
	Command         string // Submit command, the script path is appended. Defaults to DefaultCommand.
	SetOutputFolder bool   // Point the scheduler's stdout and stderr files at Folder.
	DryRun          bool   // Compose and report the commands without running them.
	Runner          Runner // Runs each command line, defaults to a ShellRunner.
}

// NewOptions returns options for folder with the scheduler output redirected into it.
func NewOptions(folder string) *Options {
	return &Options{
		Folder:          folder,
		SetOutputFolder: true,
	}
}

// ComposeCommand returns the command line prefix used for every script in folder.
// When setOutputFolder is true and command has neither an -o nor an -e flag,
// flags sending the scheduler's stdout and stderr captures to folder are appended.
func ComposeCommand(command, folder string, setOutputFolder bool) string {
	if command == "" {
		command = DefaultCommand
	}

	if setOutputFolder && !strings.Contains(command, outputFlag) && !strings.Contains(command, errorFlag) {
		command += outputFlag + folder + errorFlag + folder
	}

	return command
}
