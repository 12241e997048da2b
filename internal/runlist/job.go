// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runlist

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/zclconf/go-cty/cty"
)

// IDPrefix starts every job identifier.
const IDPrefix = "p"

// ErrLabelCount is returned when the number of labels does not match the number of runs.
var ErrLabelCount = errors.New("label count does not match run list length")

// Job is a single entry of the run list together with its position and identifier.
type Job struct {
	Index int       // Position in the run list.
	ID    string    // File name stem, e.g. p03_a.
	Label string    // Label, empty when the batch is unlabelled.
	Entry cty.Value // The argument passed to the function.
}

// IndexWidth returns the number of digits needed for the largest index of a run list
// of length n. Ten entries need one digit (0-9), eleven need two (00-10).
func IndexWidth(n int) int {
	if n <= 1 {
		return 1
	}

	return len(strconv.Itoa(n - 1))
}

// FormatIndex zero pads i to width digits.
func FormatIndex(i, width int) string {
	return fmt.Sprintf("%0*d", width, i)
}

// JobID returns the identifier for index i of a run list of length n.
// Lexical order of the identifiers matches list order.
func JobID(i, n int, label string, labelled bool) string {
	id := IDPrefix + FormatIndex(i, IndexWidth(n))
	if labelled {
		id += LabelSeparator + label
	}

	return id
}

// Jobs pairs each run with its identifier. A nil labels slice means the jobs are unlabelled.
func Jobs(runs RunList, labels []string) ([]Job, error) {
	labelled := labels != nil
	if labelled && len(labels) != len(runs) {
		return nil, fmt.Errorf("%w: %d labels for %d runs", ErrLabelCount, len(labels), len(runs))
	}

	jobs := make([]Job, len(runs))

	for i, entry := range runs {
		var label string
		if labelled {
			label = labels[i]
		}

		jobs[i] = Job{
			Index: i,
			ID:    JobID(i, len(runs), label, labelled),
			Label: label,
			Entry: entry,
		}
	}

	return jobs, nil
}
