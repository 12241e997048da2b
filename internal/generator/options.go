// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package generator

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/splitrun/internal/runlist"
)

// DefaultInterpreter runs the launchers when no interpreter is configured.
const DefaultInterpreter = "python3"

const pythonExt = ".py"

var (
	// ErrConfig is returned when the options are invalid. Nothing is written to disk.
	ErrConfig = errors.New("invalid generator configuration")
	// ErrLabelsConflict is returned when labels are supplied and label derivation is also requested.
	ErrLabelsConflict = errors.New("labels supplied and derive labels requested, choose one")
	// ErrModulePath is returned when the work module path is not a usable Python file.
	ErrModulePath = errors.New("invalid work module path")
	// ErrFunctionName is returned when the function name is not a Python identifier.
	ErrFunctionName = errors.New("invalid function name")
	// ErrOutputDir is returned when no output directory is given.
	ErrOutputDir = errors.New("output directory not set")
)

var pythonIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Options configures a generation run.
type Options struct {
	ModulePath    string          // Path to the Python file that defines Function.
	Function      string          // Function called by every launcher.
	OutputDir     string          // Directory that receives the generated files. It is wiped first.
	Runs          runlist.RunList // One launcher is generated per entry.
	Interpreter   string          // Command used by the wrappers, defaults to python3.
	Wrapper       bool            // Write a bash wrapper next to each launcher.
	RelativePaths bool            // Locate the module and launcher relative to the generated files at run time.
	Labels        []string        // Optional labels, one per run.
	DeriveLabels  bool            // Build labels from the runs themselves.
	Atomic        bool            // Build in a temporary sibling directory and rename it into place.
}

// NewOptions returns options with wrappers enabled and the default interpreter.
func NewOptions(modulePath, function, outputDir string, runs runlist.RunList) *Options {
	return &Options{
		ModulePath:  modulePath,
		Function:    function,
		OutputDir:   outputDir,
		Runs:        runs,
		Interpreter: DefaultInterpreter,
		Wrapper:     true,
	}
}

// plan is the validated, immutable form of Options that the generation loop works from.
type plan struct {
	moduleDir   string
	moduleName  string
	function    string
	outputDir   string
	interpreter string
	wrapper     bool
	relative    bool
	atomic      bool
	jobs        []runlist.Job
	arguments   []string
}

// resolve validates the options and computes everything the generation loop needs.
// All problems are reported together, wrapped in ErrConfig.
func (o *Options) resolve() (*plan, error) {
	var result *multierror.Error

	p := &plan{
		function:    o.Function,
		interpreter: o.Interpreter,
		wrapper:     o.Wrapper,
		relative:    o.RelativePaths,
		atomic:      o.Atomic,
	}

	if p.interpreter == "" {
		p.interpreter = DefaultInterpreter
	}

	if !pythonIdentifier.MatchString(o.Function) {
		result = multierror.Append(result, fmt.Errorf("%w: %q", ErrFunctionName, o.Function))
	}

	if err := p.setModule(o.ModulePath); err != nil {
		result = multierror.Append(result, err)
	}

	if o.OutputDir == "" {
		result = multierror.Append(result, ErrOutputDir)
	} else if abs, err := filepath.Abs(o.OutputDir); err != nil {
		result = multierror.Append(result, fmt.Errorf("%w: %w", ErrOutputDir, err))
	} else {
		p.outputDir = abs
	}

	labels, err := o.labels()
	if err != nil {
		result = multierror.Append(result, err)
	}

	for _, l := range labels {
		if err := runlist.ValidateLabel(l); err != nil {
			result = multierror.Append(result, err)
		}
	}

	if err == nil {
		if p.jobs, err = runlist.Jobs(o.Runs, labels); err != nil {
			result = multierror.Append(result, err)
		}
	}

	p.arguments = make([]string, len(o.Runs))

	for i, entry := range o.Runs {
		lit, err := runlist.PythonLiteral(entry)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("run list entry %d: %w", i, err))
			continue
		}

		p.arguments[i] = lit
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, errors.Join(ErrConfig, err)
	}

	return p, nil
}

func (o *Options) labels() ([]string, error) {
	if !o.DeriveLabels {
		return o.Labels, nil
	}

	if o.Labels != nil {
		return nil, ErrLabelsConflict
	}

	return runlist.DeriveLabels(o.Runs)
}

func (p *plan) setModule(path string) error {
	if path == "" {
		return fmt.Errorf("%w: path not set", ErrModulePath)
	}

	base := filepath.Base(path)
	if filepath.Ext(base) != pythonExt {
		return fmt.Errorf("%w: %s is not a %s file", ErrModulePath, path, pythonExt)
	}

	name := strings.TrimSuffix(base, pythonExt)
	if !pythonIdentifier.MatchString(name) {
		return fmt.Errorf("%w: %q is not an importable module name", ErrModulePath, name)
	}

	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return errors.Join(ErrModulePath, err)
	}

	p.moduleName = name
	p.moduleDir = dir

	return nil
}
