// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package submitter

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJobID(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want string
	}{
		{name: "grid engine", out: `Your job 4711 ("p00.sh") has been submitted`, want: "4711"},
		{name: "grid engine array", out: `Your job-array 4712.1-10:1 ("p.sh") has been submitted`, want: "4712.1-10:1"},
		{name: "slurm", out: "Submitted batch job 49229449\n", want: "49229449"},
		{name: "lsf", out: "Job <1234> is submitted to default queue <normal>.", want: "1234"},
		{name: "pbs", out: "5678.pbs-server.cluster\n", want: "5678.pbs-server.cluster"},
		{name: "unrecognised", out: "ok", want: ""},
		{name: "empty", out: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseJobID([]byte(tt.out)))
		})
	}
}

func TestStatus(t *testing.T) {
	for _, s := range []Status{StatusUnknown, StatusSubmitted, StatusFailed, StatusSkipped} {
		assert.Equal(t, s, ParseStatus(s.String()))
	}

	assert.Equal(t, "unknown", Status(99).String())
	assert.Equal(t, StatusUnknown, ParseStatus("bogus"))
}

func TestResults_WriteText(t *testing.T) {
	results := Results{
		{Label: "p0.sh", Status: StatusSubmitted, JobID: "1", StdOut: []byte("Your job 1")},
		{
			Label:    "p1.sh",
			Status:   StatusFailed,
			ExitCode: 127,
			Error:    errors.New("submit command failed: exit code 127"),
			StdErr:   []byte("sh: qsub: not found\n"),
		},
		{Label: "p2.sh", Status: StatusSkipped, Command: "qsub  p2.sh"},
	}

	buf := &bytes.Buffer{}
	opts := DefaultOutputOptions()
	opts.ShowCommand = true

	require.NoError(t, results.WriteText(buf, opts))

	out := buf.String()
	assert.Contains(t, out, "p0.sh")
	assert.Contains(t, out, " (job 1)\n")
	assert.Contains(t, out, " (exit code: 127)\n")
	assert.Contains(t, out, "submit command failed: exit code 127")
	assert.Contains(t, out, "     sh: qsub: not found\n")
	assert.Contains(t, out, "➜ Command: qsub  p2.sh")
	assert.NotContains(t, out, "Your job 1", "stdout is excluded by default")
	assert.Contains(t, out, "1 submitted, 1 failed, 1 skipped\n")
}

func TestResults_YAMLRoundTrip(t *testing.T) {
	results := Results{
		{
			Label:    "p0.sh",
			Command:  "qsub  -o /f -e /f /f/p0.sh",
			Status:   StatusSubmitted,
			JobID:    "12",
			StdOut:   []byte("Your job 12"),
			Duration: 1500 * time.Millisecond,
		},
		{
			Label:    "p1.sh",
			Status:   StatusFailed,
			ExitCode: 2,
			Error:    errors.New("boom"),
		},
	}

	buf := &bytes.Buffer{}
	require.NoError(t, results.WriteYAML(buf, "/f"))
	assert.Contains(t, buf.String(), "status: submitted")

	folder, got, err := ReadYAML(buf)
	require.NoError(t, err)
	assert.Equal(t, "/f", folder)
	require.Len(t, got, 2)
	assert.Equal(t, "12", got[0].JobID)
	assert.Equal(t, 1500*time.Millisecond, got[0].Duration)
	assert.Equal(t, StatusFailed, got[1].Status)
	assert.EqualError(t, got[1].Error, "boom")
	assert.True(t, got.HasError())
}
