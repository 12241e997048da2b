// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package submitter

import (
	"errors"
	"io"
	"time"

	"github.com/goccy/go-yaml"
)

var (
	// ErrEncodeReport is returned when results cannot be written as a report.
	ErrEncodeReport = errors.New("failed to encode submission report")
	// ErrDecodeReport is returned when a report cannot be read back.
	ErrDecodeReport = errors.New("failed to decode submission report")
)

type report struct {
	Folder      string        `yaml:"folder"`
	Submissions []reportEntry `yaml:"submissions"`
}

type reportEntry struct {
	Script   string `yaml:"script"`
	Command  string `yaml:"command"`
	Status   string `yaml:"status"`
	ExitCode int    `yaml:"exit_code"`
	JobID    string `yaml:"job_id,omitempty"`
	Error    string `yaml:"error,omitempty"`
	StdOut   string `yaml:"stdout,omitempty"`
	StdErr   string `yaml:"stderr,omitempty"`
	Duration string `yaml:"duration,omitempty"`
}

// WriteYAML writes r as a YAML report for folder.
func (r Results) WriteYAML(w io.Writer, folder string) error {
	rep := report{
		Folder:      folder,
		Submissions: make([]reportEntry, len(r)),
	}

	for i, res := range r {
		e := reportEntry{
			Script:   res.Label,
			Command:  res.Command,
			Status:   res.Status.String(),
			ExitCode: res.ExitCode,
			JobID:    res.JobID,
			StdOut:   string(res.StdOut),
			StdErr:   string(res.StdErr),
		}

		if res.Error != nil {
			e.Error = res.Error.Error()
		}

		if res.Duration > 0 {
			e.Duration = res.Duration.String()
		}

		rep.Submissions[i] = e
	}

	b, err := yaml.Marshal(rep)
	if err != nil {
		return errors.Join(ErrEncodeReport, err)
	}

	if _, err := w.Write(b); err != nil {
		return errors.Join(ErrEncodeReport, err)
	}

	return nil
}

// ReadYAML reads a report written by WriteYAML. It returns the folder and the results.
func ReadYAML(r io.Reader) (string, Results, error) {
	var rep report
	if err := yaml.NewDecoder(r).Decode(&rep); err != nil {
		return "", nil, errors.Join(ErrDecodeReport, err)
	}

	res := make(Results, len(rep.Submissions))

	for i, e := range rep.Submissions {
		v := &Result{
			Label:    e.Script,
			Command:  e.Command,
			Status:   ParseStatus(e.Status),
			ExitCode: e.ExitCode,
			JobID:    e.JobID,
			StdOut:   []byte(e.StdOut),
			StdErr:   []byte(e.StdErr),
		}

		if e.Error != "" {
			v.Error = errors.New(e.Error)
		}

		if e.Duration != "" {
			d, err := time.ParseDuration(e.Duration)
			if err != nil {
				return "", nil, errors.Join(ErrDecodeReport, err)
			}

			v.Duration = d
		}

		res[i] = v
	}

	return rep.Folder, res, nil
}
