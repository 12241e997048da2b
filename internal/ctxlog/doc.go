// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ctxlog carries a slog logger in a context.Context.
//
// The default logger writes to stderr through PrettyHandler, a console handler that
// prints a timestamp, a coloured level, the message and the remaining attributes as JSON.
// The level is read from <EXECUTABLE>_LOG_LEVEL, e.g. SPLITRUN_LOG_LEVEL=DEBUG.
package ctxlog
