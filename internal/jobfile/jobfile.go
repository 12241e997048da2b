// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package jobfile

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/matt-FFFFFF/splitrun/internal/generator"
	"github.com/matt-FFFFFF/splitrun/internal/runlist"
	"github.com/matt-FFFFFF/splitrun/internal/submitter"
	"github.com/zclconf/go-cty/cty"
)

// ErrDecode is returned when a job file cannot be decoded.
var ErrDecode = errors.New("failed to decode job file")

const hclExt = ".hcl"

// Definition is a decoded job file.
type Definition struct {
	Module        string
	Function      string
	Output        string
	Interpreter   string
	Wrapper       *bool
	RelativePaths bool
	DeriveLabels  bool
	Atomic        bool
	Labels        []string
	Runs          runlist.RunList
	Submit        *Submit
}

// Submit holds the submission settings of a job file.
type Submit struct {
	Command         string
	SetOutputFolder *bool
}

// Load fetches the job file at url and decodes it.
func Load(ctx context.Context, url string) (*Definition, error) {
	b, err := Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	return Decode(url, b)
}

// Decode decodes the job file content. Files named *.hcl are decoded as HCL,
// everything else as YAML.
func Decode(name string, data []byte) (*Definition, error) {
	var (
		def *Definition
		err error
	)

	if fileExt(name) == hclExt {
		def, err = decodeHCL(name, data)
	} else {
		def, err = decodeYAML(data)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, name, err)
	}

	return def, nil
}

type yamlFile struct {
	Module        string      `yaml:"module"`
	Function      string      `yaml:"function"`
	Output        string      `yaml:"output"`
	Interpreter   string      `yaml:"interpreter"`
	Wrapper       *bool       `yaml:"wrapper"`
	RelativePaths bool        `yaml:"relative_paths"`
	DeriveLabels  bool        `yaml:"derive_labels"`
	Atomic        bool        `yaml:"atomic"`
	Labels        []string    `yaml:"labels"`
	Runs          []any       `yaml:"runs"`
	Submit        *yamlSubmit `yaml:"submit"`
}

type yamlSubmit struct {
	Command         string `yaml:"command"`
	SetOutputFolder *bool  `yaml:"set_output_folder"`
}

func decodeYAML(data []byte) (*Definition, error) {
	var f yamlFile
	if err := yaml.UnmarshalWithOptions(data, &f, yaml.Strict()); err != nil {
		return nil, err
	}

	runs, err := runlist.FromGo(f.Runs)
	if err != nil {
		return nil, err
	}

	def := &Definition{
		Module:        f.Module,
		Function:      f.Function,
		Output:        f.Output,
		Interpreter:   f.Interpreter,
		Wrapper:       f.Wrapper,
		RelativePaths: f.RelativePaths,
		DeriveLabels:  f.DeriveLabels,
		Atomic:        f.Atomic,
		Labels:        f.Labels,
		Runs:          runs,
	}

	if f.Submit != nil {
		def.Submit = &Submit{
			Command:         f.Submit.Command,
			SetOutputFolder: f.Submit.SetOutputFolder,
		}
	}

	return def, nil
}

type hclFile struct {
	Module        string     `hcl:"module,optional"`
	Function      string     `hcl:"function,optional"`
	Output        string     `hcl:"output,optional"`
	Interpreter   string     `hcl:"interpreter,optional"`
	Wrapper       *bool      `hcl:"wrapper,optional"`
	RelativePaths bool       `hcl:"relative_paths,optional"`
	DeriveLabels  bool       `hcl:"derive_labels,optional"`
	Atomic        bool       `hcl:"atomic,optional"`
	Labels        []string   `hcl:"labels,optional"`
	Runs          cty.Value  `hcl:"runs,optional"`
	Submit        *hclSubmit `hcl:"submit,block"`
}

type hclSubmit struct {
	Command         string `hcl:"command,optional"`
	SetOutputFolder *bool  `hcl:"set_output_folder,optional"`
}

func decodeHCL(name string, data []byte) (*Definition, error) {
	file, diags := hclsyntax.ParseConfig(data, name, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, diags
	}

	var f hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &f); diags.HasErrors() {
		return nil, diags
	}

	runs, err := runlist.FromValue(f.Runs)
	if err != nil {
		return nil, err
	}

	def := &Definition{
		Module:        f.Module,
		Function:      f.Function,
		Output:        f.Output,
		Interpreter:   f.Interpreter,
		Wrapper:       f.Wrapper,
		RelativePaths: f.RelativePaths,
		DeriveLabels:  f.DeriveLabels,
		Atomic:        f.Atomic,
		Labels:        f.Labels,
		Runs:          runs,
	}

	if f.Submit != nil {
		def.Submit = &Submit{
			Command:         f.Submit.Command,
			SetOutputFolder: f.Submit.SetOutputFolder,
		}
	}

	return def, nil
}

// ParseValue parses a single run list entry written as a YAML flow value,
// such as 3, a or [2, b].
func ParseValue(s string) (cty.Value, error) {
	var raw any
	if err := yaml.Unmarshal([]byte(s), &raw); err != nil {
		return cty.NilVal, fmt.Errorf("%w: run value %q: %w", ErrDecode, s, err)
	}

	v, err := runlist.ToValue(raw)
	if err != nil {
		return cty.NilVal, fmt.Errorf("%w: run value %q: %w", ErrDecode, s, err)
	}

	return v, nil
}

// GeneratorOptions maps the definition onto generator options.
// An empty label list means no labels were supplied.
func (d *Definition) GeneratorOptions() *generator.Options {
	opts := generator.NewOptions(d.Module, d.Function, d.Output, d.Runs)

	if d.Interpreter != "" {
		opts.Interpreter = d.Interpreter
	}

	if d.Wrapper != nil {
		opts.Wrapper = *d.Wrapper
	}

	opts.RelativePaths = d.RelativePaths
	opts.DeriveLabels = d.DeriveLabels
	opts.Atomic = d.Atomic

	if len(d.Labels) > 0 {
		opts.Labels = d.Labels
	}

	return opts
}

// SubmitterOptions maps the definition onto submitter options for the output folder.
func (d *Definition) SubmitterOptions() *submitter.Options {
	opts := submitter.NewOptions(d.Output)

	if d.Submit == nil {
		return opts
	}

	if d.Submit.Command != "" {
		opts.Command = d.Submit.Command
	}

	if d.Submit.SetOutputFolder != nil {
		opts.SetOutputFolder = *d.Submit.SetOutputFolder
	}

	return opts
}
