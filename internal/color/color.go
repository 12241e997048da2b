// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package color

import (
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const (
	// NoColor is the environment variable that disables color output.
	NoColor = "NO_COLOR"
	// ForceColor is the environment variable that forces color output.
	ForceColor = "FORCE_COLOR"
)

var enabled = isColorEnabled()

var renderer = newRenderer()

// Styles used across the command line output.
var (
	Success  = renderer.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	Failure  = renderer.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	Skipped  = renderer.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	Unknown  = renderer.NewStyle().Foreground(lipgloss.Color("7"))
	Muted    = renderer.NewStyle().Foreground(lipgloss.Color("7"))
	Emphasis = renderer.NewStyle().Foreground(lipgloss.Color("15"))
	Info     = renderer.NewStyle().Foreground(lipgloss.Color("6"))
	Warning  = renderer.NewStyle().Foreground(lipgloss.Color("3"))
	Alert    = renderer.NewStyle().Foreground(lipgloss.Color("9"))
	Critical = renderer.NewStyle().Foreground(lipgloss.Color("13"))
)

func newRenderer() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(os.Stdout)
	r.SetColorProfile(termenv.ANSI)

	return r
}

// Enabled reports whether color output is enabled for this process.
func Enabled() bool {
	return enabled
}

// Render applies style to str when color output is enabled.
func Render(style lipgloss.Style, str string) string {
	if !enabled {
		return str
	}

	return style.Render(str)
}

// ForLevel returns the style used for a log level.
func ForLevel(level slog.Level) lipgloss.Style {
	switch {
	case level <= slog.LevelDebug:
		return Muted
	case level <= slog.LevelInfo:
		return Info
	case level < slog.LevelError:
		return Warning
	case level <= slog.LevelError+1:
		return Alert
	default:
		return Critical
	}
}

func isColorEnabled() bool {
	if nc := os.Getenv(NoColor); nc != "" {
		return false
	}

	if fc := os.Getenv(ForceColor); fc != "" {
		return true
	}

	return term.IsTerminal(int(os.Stdout.Fd()))
}
