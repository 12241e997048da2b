// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package submitter

import (
	"fmt"
	"io"
	"strings"

	"github.com/matt-FFFFFF/splitrun/internal/color"
)

// OutputOptions controls what WriteText prints.
type OutputOptions struct {
	IncludeStdOut      bool // Print the scheduler's stdout.
	IncludeStdErr      bool // Print the scheduler's stderr.
	ShowSuccessDetails bool // Print output for successful submissions too.
	ShowCommand        bool // Print the command line of each submission.
}

// DefaultOutputOptions returns a default set of output options.
func DefaultOutputOptions() *OutputOptions {
	return &OutputOptions{
		IncludeStdErr: true,
	}
}

// WriteText writes a human readable summary of r to w.
func (r Results) WriteText(w io.Writer, options *OutputOptions) error {
	if options == nil {
		options = DefaultOutputOptions()
	}

	for _, res := range r {
		if err := writeResult(w, res, options); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "%d submitted, %d failed, %d skipped\n",
		r.Count(StatusSubmitted), r.Count(StatusFailed), r.Count(StatusSkipped))

	return err
}

func writeResult(w io.Writer, r *Result, options *OutputOptions) error {
	var symbol string

	style := color.Unknown

	switch r.Status {
	case StatusSubmitted:
		symbol, style = "✓", color.Success
	case StatusFailed:
		symbol, style = "✗", color.Failure
	case StatusSkipped:
		symbol, style = "~", color.Skipped
	default:
		symbol = "?"
	}

	label := r.Label
	if label == "" {
		label = "[unnamed]"
	}

	sb := strings.Builder{}
	sb.WriteString(color.Render(style, symbol+" "+label))

	if r.JobID != "" {
		sb.WriteString(" (job " + r.JobID + ")")
	}

	if r.ExitCode != 0 {
		fmt.Fprintf(&sb, " (exit code: %d)", r.ExitCode)
	}

	sb.WriteString("\n")

	if options.ShowCommand && r.Command != "" {
		sb.WriteString("  ➜ Command: " + r.Command + "\n")
	}

	if r.Error != nil {
		sb.WriteString("  " + color.Render(style, "➜ Error:") + " " + r.Error.Error() + "\n")
	}

	showDetails := r.Status == StatusFailed || options.ShowSuccessDetails

	if showDetails && options.IncludeStdOut && len(r.StdOut) > 0 {
		sb.WriteString("  ➜ Output:\n")
		sb.WriteString(indent(r.StdOut, "     "))
	}

	if showDetails && options.IncludeStdErr && len(r.StdErr) > 0 {
		sb.WriteString("  " + color.Render(color.Alert, "➜ Error Output:") + "\n")
		sb.WriteString(indent(r.StdErr, "     "))
	}

	_, err := io.WriteString(w, sb.String())

	return err
}

// indent prefixes every non-empty line of output with prefix.
func indent(output []byte, prefix string) string {
	lines := strings.Split(strings.TrimRight(string(output), "\n"), "\n")
	sb := strings.Builder{}
	sb.Grow(len(output) + len(lines)*len(prefix))

	for _, line := range lines {
		if line != "" {
			sb.WriteString(prefix)
			sb.WriteString(line)
		}

		sb.WriteString("\n")
	}

	return sb.String()
}
