// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package generator

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"testing"

	"github.com/matt-FFFFFF/splitrun/internal/runlist"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

const (
	modulePath = "/work/code/tasks.py"
	outputDir  = "/work/out"
	function   = "test_aux"
)

func intRuns(n int) runlist.RunList {
	runs := make(runlist.RunList, n)
	for i := range runs {
		runs[i] = cty.NumberIntVal(int64(i))
	}

	return runs
}

func dirNames(t *testing.T, fs afero.Fs, dir string) []string {
	t.Helper()

	infos, err := afero.ReadDir(fs, dir)
	require.NoError(t, err)

	names := make([]string, len(infos))
	for i, fi := range infos {
		names[i] = fi.Name()
	}

	return names
}

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()

	b, err := afero.ReadFile(fs, path)
	require.NoError(t, err)

	return string(b)
}

func TestGenerate_DerivedLabelsElevenRuns(t *testing.T) {
	fs := afero.NewMemMapFs()
	opts := NewOptions(modulePath, function, outputDir, intRuns(11))
	opts.DeriveLabels = true

	m, err := Generate(context.Background(), fs, opts)
	require.NoError(t, err)
	require.Len(t, m.Artifacts, 11)

	var want []string
	for i := 0; i <= 10; i++ {
		want = append(want, fmt.Sprintf("p%02d_%d.py", i, i), fmt.Sprintf("p%02d_%d.sh", i, i))
	}

	sort.Strings(want)
	assert.Equal(t, want, dirNames(t, fs, outputDir))

	assert.Equal(t, filepath.Join(outputDir, "p00_0.py"), m.Artifacts[0].Launcher)
	assert.Equal(t, filepath.Join(outputDir, "p10_10.sh"), m.Artifacts[10].Wrapper)
	assert.Len(t, m.Wrappers(), 11)
}

func TestGenerate_IndexWidth(t *testing.T) {
	tests := []struct {
		n     int
		first string
		last  string
	}{
		{n: 1, first: "p0.py", last: "p0.py"},
		{n: 10, first: "p0.py", last: "p9.py"},
		{n: 11, first: "p00.py", last: "p10.py"},
		{n: 1000, first: "p000.py", last: "p999.py"},
		{n: 1001, first: "p0000.py", last: "p1000.py"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.n), func(t *testing.T) {
			fs := afero.NewMemMapFs()
			opts := NewOptions(modulePath, function, outputDir, intRuns(tt.n))
			opts.Wrapper = false

			m, err := Generate(context.Background(), fs, opts)
			require.NoError(t, err)

			names := dirNames(t, fs, outputDir)
			require.Len(t, names, tt.n)
			assert.Equal(t, tt.first, names[0])
			assert.Equal(t, tt.last, names[len(names)-1])

			for i, a := range m.Artifacts {
				assert.Equal(t, filepath.Join(outputDir, names[i]), a.Launcher, "sort order must match list order")
				assert.Empty(t, a.Wrapper)
			}
		})
	}
}

func TestGenerate_LauncherAbsolute(t *testing.T) {
	fs := afero.NewMemMapFs()
	runs := runlist.RunList{
		cty.NumberIntVal(3),
		cty.StringVal(`it's "x"`),
		cty.TupleVal([]cty.Value{cty.NumberFloatVal(0.3), cty.StringVal("b")}),
	}

	_, err := Generate(context.Background(), fs, NewOptions(modulePath, function, outputDir, runs))
	require.NoError(t, err)

	assert.Equal(t, `#!/usr/bin/env python3
import os
import sys
sys.path.append("/work/code")
from tasks import *
test_aux(3)
`, readFile(t, fs, filepath.Join(outputDir, "p0.py")))

	assert.Contains(t, readFile(t, fs, filepath.Join(outputDir, "p1.py")), `test_aux("it's \"x\"")`)
	assert.Contains(t, readFile(t, fs, filepath.Join(outputDir, "p2.py")), `test_aux([0.3, "b"])`)

	assert.Equal(t, "#!/usr/bin/env bash\npython3 /work/out/p0.py\n",
		readFile(t, fs, filepath.Join(outputDir, "p0.sh")))
}

func TestGenerate_Relative(t *testing.T) {
	fs := afero.NewMemMapFs()
	opts := NewOptions(modulePath, function, outputDir, intRuns(2))
	opts.RelativePaths = true
	opts.Interpreter = "/opt/python/bin/python3 -u"

	_, err := Generate(context.Background(), fs, opts)
	require.NoError(t, err)

	assert.Equal(t, `#!/usr/bin/env python3
import os
import sys
sys.path.append(os.path.join(os.path.dirname(os.path.realpath(__file__)), "../code"))
from tasks import *
test_aux(1)
`, readFile(t, fs, filepath.Join(outputDir, "p1.py")))

	assert.Equal(t, `#!/usr/bin/env bash
localdir="$( cd "$( dirname "${BASH_SOURCE[0]}" )" >/dev/null 2>&1 && pwd )"
/opt/python/bin/python3 -u "$localdir"/p1.py
`, readFile(t, fs, filepath.Join(outputDir, "p1.sh")))
}

func TestGenerate_Permissions(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := Generate(context.Background(), fs, NewOptions(modulePath, function, outputDir, intRuns(3)))
	require.NoError(t, err)

	for _, name := range dirNames(t, fs, outputDir) {
		fi, err := fs.Stat(filepath.Join(outputDir, name))
		require.NoError(t, err)
		assert.Equal(t, "-rwxr-xr-x", fi.Mode().String(), name)
	}
}

func TestGenerate_WipesExistingOutput(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(filepath.Join(outputDir, "old", "nested"), 0o755))
	require.NoError(t, afero.WriteFile(fs, filepath.Join(outputDir, "p0_stale.py"), []byte("old"), 0o644))
	require.NoError(t, afero.WriteFile(fs, filepath.Join(outputDir, "old", "nested", "x"), []byte("old"), 0o644))

	_, err := Generate(context.Background(), fs, NewOptions(modulePath, function, outputDir, intRuns(2)))
	require.NoError(t, err)

	assert.Equal(t, []string{"p0.py", "p0.sh", "p1.py", "p1.sh"}, dirNames(t, fs, outputDir))
}

func TestGenerate_EmptyRunList(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, filepath.Join(outputDir, "stale.sh"), []byte("old"), 0o644))

	m, err := Generate(context.Background(), fs, NewOptions(modulePath, function, outputDir, nil))
	require.NoError(t, err)
	assert.Empty(t, m.Artifacts)
	assert.Empty(t, dirNames(t, fs, outputDir))
}

func TestGenerate_SuppliedLabels(t *testing.T) {
	fs := afero.NewMemMapFs()
	opts := NewOptions(modulePath, function, outputDir, intRuns(2))
	opts.Labels = []string{"alpha", "beta"}

	m, err := Generate(context.Background(), fs, opts)
	require.NoError(t, err)
	assert.Equal(t, "p1_beta", m.Artifacts[1].ID)
	assert.Equal(t, []string{"p0_alpha.py", "p0_alpha.sh", "p1_beta.py", "p1_beta.sh"}, dirNames(t, fs, outputDir))
}

func TestGenerate_LabelsConflictLeavesOutputAlone(t *testing.T) {
	fs := afero.NewMemMapFs()
	stale := filepath.Join(outputDir, "keep.txt")
	require.NoError(t, afero.WriteFile(fs, stale, []byte("keep"), 0o644))

	opts := NewOptions(modulePath, function, outputDir, intRuns(2))
	opts.Labels = []string{"a", "b"}
	opts.DeriveLabels = true

	_, err := Generate(context.Background(), fs, opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfig)
	assert.ErrorIs(t, err, ErrLabelsConflict)

	assert.Equal(t, []string{"keep.txt"}, dirNames(t, fs, outputDir))
}

func TestGenerate_ConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(o *Options)
		wantErr []error
	}{
		{
			name:    "label count mismatch",
			mutate:  func(o *Options) { o.Labels = []string{"only"} },
			wantErr: []error{runlist.ErrLabelCount},
		},
		{
			name:    "label with separator",
			mutate:  func(o *Options) { o.Labels = []string{"a/b", "c"} },
			wantErr: []error{runlist.ErrInvalidLabel},
		},
		{
			name: "derived label with separator",
			mutate: func(o *Options) {
				o.Runs = runlist.RunList{cty.StringVal("x/y"), cty.StringVal("z")}
				o.DeriveLabels = true
			},
			wantErr: []error{runlist.ErrInvalidLabel},
		},
		{
			name:    "module not a python file",
			mutate:  func(o *Options) { o.ModulePath = "/work/code/tasks.txt" },
			wantErr: []error{ErrModulePath},
		},
		{
			name:    "module name not importable",
			mutate:  func(o *Options) { o.ModulePath = "/work/code/my-tasks.py" },
			wantErr: []error{ErrModulePath},
		},
		{
			name: "several problems reported together",
			mutate: func(o *Options) {
				o.ModulePath = ""
				o.Function = "not valid"
				o.OutputDir = ""
			},
			wantErr: []error{ErrModulePath, ErrFunctionName, ErrOutputDir},
		},
		{
			name: "unknown run value",
			mutate: func(o *Options) {
				o.Runs = runlist.RunList{cty.UnknownVal(cty.String), cty.NumberIntVal(1)}
			},
			wantErr: []error{runlist.ErrUnsupportedValue},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			opts := NewOptions(modulePath, function, outputDir, intRuns(2))
			tt.mutate(opts)

			_, err := Generate(context.Background(), fs, opts)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfig)

			for _, want := range tt.wantErr {
				assert.ErrorIs(t, err, want)
			}

			exists, _ := afero.DirExists(fs, outputDir)
			assert.False(t, exists, "nothing may be written on a configuration error")
		})
	}
}

func TestGenerate_DefaultInterpreter(t *testing.T) {
	fs := afero.NewMemMapFs()
	opts := NewOptions(modulePath, function, outputDir, intRuns(1))
	opts.Interpreter = ""

	_, err := Generate(context.Background(), fs, opts)
	require.NoError(t, err)
	assert.Equal(t, "#!/usr/bin/env bash\npython3 /work/out/p0.py\n", readFile(t, fs, filepath.Join(outputDir, "p0.sh")))
}

func TestGenerate_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Generate(ctx, afero.NewMemMapFs(), NewOptions(modulePath, function, outputDir, intRuns(2)))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerate_WriteError(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())

	_, err := Generate(context.Background(), fs, NewOptions(modulePath, function, outputDir, intRuns(1)))
	assert.ErrorIs(t, err, ErrPrepareOutput)
}

func TestShellQuote(t *testing.T) {
	assert.Equal(t, "/work/out/p0_1.py", shellQuote("/work/out/p0_1.py"))
	assert.Equal(t, "'/my work/p0.py'", shellQuote("/my work/p0.py"))
	assert.Equal(t, `'p0_it'"'"'s.py'`, shellQuote("p0_it's.py"))
}
