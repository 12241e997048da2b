// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package generator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/matt-FFFFFF/splitrun/internal/ctxlog"
	"github.com/matt-FFFFFF/splitrun/internal/runlist"
	"github.com/spf13/afero"
)

const (
	// LauncherExt is the extension of generated launchers.
	LauncherExt = ".py"
	// WrapperExt is the extension of generated wrappers.
	WrapperExt = ".sh"
	// sevenFiveFive is the mode of the output directory and every generated file.
	sevenFiveFive = 0o755
)

var (
	// ErrPrepareOutput is returned when the output directory cannot be removed or created.
	ErrPrepareOutput = errors.New("failed to prepare output directory")
	// ErrWrite is returned when a launcher or wrapper cannot be rendered or written.
	ErrWrite = errors.New("failed to write generated file")
)

// Artifact describes the files generated for one job.
type Artifact struct {
	runlist.Job
	Launcher string // Absolute path of the launcher.
	Wrapper  string // Absolute path of the wrapper, empty when wrappers are disabled.
}

// Manifest lists everything a generation run wrote.
type Manifest struct {
	OutputDir string
	Artifacts []Artifact
}

// Wrappers returns the wrapper paths in job order.
func (m *Manifest) Wrappers() []string {
	var res []string

	for _, a := range m.Artifacts {
		if a.Wrapper != "" {
			res = append(res, a.Wrapper)
		}
	}

	return res
}

// Generate validates opts and writes the launchers and wrappers into opts.OutputDir.
//
// Configuration errors are returned before the filesystem is touched. Otherwise the
// output directory is removed and recreated. Filesystem errors abort the run and,
// unless opts.Atomic is set, may leave a partially generated directory behind.
func Generate(ctx context.Context, fs afero.Fs, opts *Options) (*Manifest, error) {
	logger := ctxlog.Logger(ctx).With("component", "generator")

	p, err := opts.resolve()
	if err != nil {
		return nil, err
	}

	logger.Debug("generating jobs",
		"outputDir", p.outputDir,
		"jobs", len(p.jobs),
		"wrapper", p.wrapper,
		"relative", p.relative,
		"atomic", p.atomic,
	)

	if p.atomic {
		return generateAtomic(ctx, fs, p)
	}

	if err := recreateDir(fs, p.outputDir); err != nil {
		return nil, err
	}

	return writeJobs(ctx, fs, p, p.outputDir)
}

// recreateDir removes dir if it is a directory and creates it again, empty.
func recreateDir(fs afero.Fs, dir string) error {
	exists, err := afero.DirExists(fs, dir)
	if err != nil {
		return errors.Join(ErrPrepareOutput, err)
	}

	if exists {
		if err := fs.RemoveAll(dir); err != nil {
			return errors.Join(ErrPrepareOutput, err)
		}
	}

	if err := fs.MkdirAll(dir, sevenFiveFive); err != nil {
		return errors.Join(ErrPrepareOutput, err)
	}

	return nil
}

// generateAtomic writes into a temporary sibling of the output directory and only
// replaces the output directory once every file has been written.
func generateAtomic(ctx context.Context, fs afero.Fs, p *plan) (*Manifest, error) {
	parent := filepath.Dir(p.outputDir)
	if err := fs.MkdirAll(parent, sevenFiveFive); err != nil {
		return nil, errors.Join(ErrPrepareOutput, err)
	}

	tmp, err := afero.TempDir(fs, parent, "."+filepath.Base(p.outputDir)+"-")
	if err != nil {
		return nil, errors.Join(ErrPrepareOutput, err)
	}

	ctxlog.Debug(ctx, "atomic generation", "tmpDir", tmp)

	m, err := writeJobs(ctx, fs, p, tmp)
	if err != nil {
		_ = fs.RemoveAll(tmp)
		return nil, err
	}

	if err := swapDir(fs, tmp, p.outputDir); err != nil {
		_ = fs.RemoveAll(tmp)
		return nil, errors.Join(ErrPrepareOutput, err)
	}

	return m, nil
}

// swapDir replaces dst with src.
func swapDir(fs afero.Fs, src, dst string) error {
	if err := fs.Chmod(src, sevenFiveFive); err != nil {
		return err
	}

	if err := fs.RemoveAll(dst); err != nil {
		return err
	}

	return fs.Rename(src, dst)
}

// writeJobs writes the files for every job into dir.
// The file contents always refer to p.outputDir, which is where the files end up.
func writeJobs(ctx context.Context, fs afero.Fs, p *plan, dir string) (*Manifest, error) {
	m := &Manifest{
		OutputDir: p.outputDir,
		Artifacts: make([]Artifact, 0, len(p.jobs)),
	}

	moduleDir := p.moduleDir
	if p.relative {
		rel, err := filepath.Rel(p.outputDir, p.moduleDir)
		if err != nil {
			return nil, errors.Join(ErrWrite, err)
		}

		moduleDir = filepath.ToSlash(rel)
	}

	for i, job := range p.jobs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		launcherName := job.ID + LauncherExt
		a := Artifact{
			Job:      job,
			Launcher: filepath.Join(p.outputDir, launcherName),
		}

		launcher, err := render(launcherTemplate, launcherData{
			Relative:  p.relative,
			ModuleDir: runlist.PythonString(moduleDir),
			Module:    p.moduleName,
			Function:  p.function,
			Argument:  p.arguments[i],
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrWrite, launcherName, err)
		}

		if err := writeExecutable(fs, filepath.Join(dir, launcherName), launcher); err != nil {
			return nil, err
		}

		if p.wrapper {
			launcherRef := shellQuote(a.Launcher)
			if p.relative {
				launcherRef = shellQuote(launcherName)
			}

			wrapperName := job.ID + WrapperExt

			wrapper, err := render(wrapperTemplate, wrapperData{
				Relative:    p.relative,
				Interpreter: p.interpreter,
				Launcher:    launcherRef,
			})
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrWrite, wrapperName, err)
			}

			if err := writeExecutable(fs, filepath.Join(dir, wrapperName), wrapper); err != nil {
				return nil, err
			}

			a.Wrapper = filepath.Join(p.outputDir, wrapperName)
		}

		m.Artifacts = append(m.Artifacts, a)
	}

	return m, nil
}

// writeExecutable writes data to path and sets the mode explicitly so the umask does not apply.
func writeExecutable(fs afero.Fs, path string, data []byte) error {
	if err := afero.WriteFile(fs, path, data, sevenFiveFive); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
	}

	if err := fs.Chmod(path, sevenFiveFive); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
	}

	return nil
}
