// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package color styles human readable output.
//
// Colour is enabled when stdout is a terminal, unless NO_COLOR is set.
// FORCE_COLOR enables it regardless of the terminal. Styles are lipgloss styles
// bound to a renderer that always emits ANSI codes; Render is the gate that decides
// whether they are applied.
package color
