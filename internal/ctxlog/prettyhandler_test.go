// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrettyHandler_Enabled(t *testing.T) {
	h := NewPrettyHandler(&slog.HandlerOptions{Level: slog.LevelInfo})
	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}

func TestPrettyHandler_Handle(t *testing.T) {
	tests := []struct {
		name    string
		log     func(l *slog.Logger)
		options []Option
		want    []string
		notWant []string
	}{
		{
			name: "message without attributes",
			log:  func(l *slog.Logger) { l.Info("generated jobs") },
			want: []string{"INFO:", "generated jobs"},
			notWant: []string{
				"{",
			},
		},
		{
			name: "attributes rendered as json",
			log:  func(l *slog.Logger) { l.Debug("job", "id", "p00_0", "index", 0) },
			want: []string{"DEBUG:", "job", `"id"`, `"p00_0"`, `"index"`},
		},
		{
			name: "attributes from With and groups",
			log: func(l *slog.Logger) {
				l.With("component", "submitter").WithGroup("job").Warn("failed", "exit", 1)
			},
			want: []string{"WARN:", `"component"`, `"submitter"`, `"job"`, `"exit"`},
		},
		{
			name:    "empty attributes printed on request",
			log:     func(l *slog.Logger) { l.Error("boom") },
			options: []Option{WithOutputEmptyAttrs()},
			want:    []string{"ERROR:", "boom", "{}"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			opts := append([]Option{WithDestinationWriter(buf)}, tt.options...)
			l := slog.New(NewPrettyHandler(&slog.HandlerOptions{Level: slog.LevelDebug}, opts...))

			tt.log(l)

			out := buf.String()
			assert.True(t, strings.HasSuffix(out, "\n"))
			assert.NotContains(t, out, "\x1b[")

			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}

			for _, nw := range tt.notWant {
				assert.NotContains(t, out, nw)
			}
		})
	}
}

func TestPrettyHandler_ReplaceAttrDropsTime(t *testing.T) {
	buf := &bytes.Buffer{}
	h := NewPrettyHandler(&slog.HandlerOptions{
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}

			return a
		},
	}, WithDestinationWriter(buf))

	slog.New(h).Warn("no time")

	assert.Equal(t, "WARN: no time\n", buf.String())
}

func TestPrettyHandler_Colour(t *testing.T) {
	buf := &bytes.Buffer{}
	l := slog.New(NewPrettyHandler(nil, WithDestinationWriter(buf), WithColour()))

	l.Error("coloured")

	assert.Contains(t, buf.String(), "\x1b[")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("write failed")
}

func TestPrettyHandler_WriteError(t *testing.T) {
	h := NewPrettyHandler(nil, WithDestinationWriter(failingWriter{}))

	err := h.Handle(context.Background(), slog.NewRecord(timeZero, slog.LevelError, "msg", 0))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIoWrite)
}

var timeZero = time.Time{}
