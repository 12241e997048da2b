// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package submitter

import (
	"regexp"
	"strings"
	"time"
)

// Status is the outcome of one submission.
type Status int

const (
	// StatusUnknown means the submission has not completed.
	StatusUnknown Status = iota
	// StatusSubmitted means the submit command exited with code 0.
	StatusSubmitted
	// StatusFailed means the submit command failed or could not be started.
	StatusFailed
	// StatusSkipped means the command was not run, because of a dry run or an abort.
	StatusSkipped
)

var statusNames = map[Status]string{
	StatusUnknown:   "unknown",
	StatusSubmitted: "submitted",
	StatusFailed:    "failed",
	StatusSkipped:   "skipped",
}

func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}

	return statusNames[StatusUnknown]
}

// ParseStatus is the inverse of Status.String.
func ParseStatus(s string) Status {
	for k, v := range statusNames {
		if v == s {
			return k
		}
	}

	return StatusUnknown
}

// Result is the outcome of submitting one wrapper script.
type Result struct {
	Label    string        // Wrapper file name.
	Script   string        // Wrapper path as passed to the scheduler.
	Command  string        // Full command line run through the shell.
	ExitCode int           // Exit code of the command, -1 when it could not run.
	JobID    string        // Job id reported by the scheduler, if recognised.
	StdOut   []byte        // Captured stdout.
	StdErr   []byte        // Captured stderr.
	Error    error         // Error, if any.
	Status   Status        // Outcome.
	Duration time.Duration // Time the command took.
}

// Results is the ordered list of submissions of one run.
type Results []*Result

// HasError reports whether any submission failed.
func (r Results) HasError() bool {
	for _, v := range r {
		if v.Status == StatusFailed || (v.Error != nil && v.Status != StatusSkipped) {
			return true
		}
	}

	return false
}

// Count returns the number of results with status s.
func (r Results) Count(s Status) int {
	n := 0

	for _, v := range r {
		if v.Status == s {
			n++
		}
	}

	return n
}

// JobIDs returns the scheduler job ids that were recognised, in submission order.
func (r Results) JobIDs() []string {
	var ids []string

	for _, v := range r {
		if v.JobID != "" {
			ids = append(ids, v.JobID)
		}
	}

	return ids
}

var jobIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`Your job(?:-array)? (\d+(?:\.\d+-\d+:\d+)?)`), // grid engine
	regexp.MustCompile(`Submitted batch job (\d+)`),                  // slurm
	regexp.MustCompile(`Job <(\d+)> is submitted`),                   // lsf
	regexp.MustCompile(`(?m)^\s*(\d+(?:\[\])?\.[\w.-]+)\s*$`),        // pbs / torque
}

// ParseJobID extracts the job id from a scheduler's submit acknowledgement.
// It returns an empty string when the output is not recognised.
func ParseJobID(stdout []byte) string {
	out := strings.TrimSpace(string(stdout))

	for _, re := range jobIDPatterns {
		if m := re.FindStringSubmatch(out); m != nil {
			return m[1]
		}
	}

	return ""
}
