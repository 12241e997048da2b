// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package example

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/matt-FFFFFF/splitrun/internal/jobfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func TestJob_Decodes(t *testing.T) {
	for _, format := range []string{formatYAML, formatHCL} {
		t.Run(format, func(t *testing.T) {
			b, err := Job(format)
			require.NoError(t, err)

			def, err := jobfile.Decode("job."+format, b)
			require.NoError(t, err)

			assert.Equal(t, "./work.py", def.Module)
			assert.Equal(t, "test_aux", def.Function)
			assert.Len(t, def.Runs, 4)
			assert.True(t, def.DeriveLabels)
			require.NotNil(t, def.Submit)
			assert.Equal(t, "qsub -l mem_free=500M", def.Submit.Command)
		})
	}
}

func TestJob_InvalidFormat(t *testing.T) {
	_, err := Job("json")
	assert.Error(t, err)
}

func TestExampleCmd(t *testing.T) {
	buf := &bytes.Buffer{}
	root := &cli.Command{
		Name:           "splitrun",
		Commands:       []*cli.Command{NewCmd()},
		Writer:         buf,
		ErrWriter:      io.Discard,
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}

	require.NoError(t, root.Run(context.Background(), []string{"splitrun", "example", "--format", "hcl"}))
	assert.Contains(t, buf.String(), `submit {`)
}
