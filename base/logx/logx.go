// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logx provides the user-facing log level and a terminal
// [slog.Handler] that colors the level of each record.
package logx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/muesli/termenv"
)

// UserLevel is the verbosity [slog.Level] that the user has selected for
// what logging and printing messages should be shown. Messages at levels
// at or above this level will be shown. It defaults to [slog.LevelInfo],
// [slog.LevelDebug] with the debug build tag, and [slog.LevelWarn] with
// the release build tag.
var UserLevel = func() *slog.LevelVar {
	lv := &slog.LevelVar{}
	lv.Set(defaultUserLevel)
	return lv
}()

// ParseLevel parses the given level name (debug, info, warn, error),
// returning an error for an unknown name.
func ParseLevel(name string) (slog.Level, error) {
	var lv slog.Level
	err := lv.UnmarshalText([]byte(strings.ToUpper(strings.TrimSpace(name))))
	if err != nil {
		return slog.LevelInfo, fmt.Errorf("logx: unknown level %q", name)
	}
	return lv, nil
}

// Handler is a [slog.Handler] that writes one line per record in the form
// "LEVEL message key=value ...", coloring the level tag when the output
// supports it.
type Handler struct {
	out    *termenv.Output
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
	mu     *sync.Mutex
}

// NewHandler returns a new [Handler] writing to the given writer and
// filtering at the given level. If level is nil, [UserLevel] is used.
func NewHandler(w io.Writer, level slog.Leveler) *Handler {
	if level == nil {
		level = UserLevel
	}
	return &Handler{out: termenv.NewOutput(w), level: level, mu: &sync.Mutex{}}
}

// SetDefault installs a [Handler] writing to w as the default slog logger.
func SetDefault(w io.Writer) {
	slog.SetDefault(slog.New(NewHandler(w, nil)))
}

func (h *Handler) Enabled(_ context.Context, lv slog.Level) bool {
	return lv >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	sb.WriteString(h.levelTag(r.Level))
	sb.WriteByte(' ')
	sb.WriteString(r.Message)
	for _, a := range h.attrs {
		writeAttr(&sb, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		for _, qa := range h.qualify([]slog.Attr{a}) {
			writeAttr(&sb, qa)
		}
		return true
	})
	sb.WriteByte('\n')
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, sb.String())
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	nh.attrs = append(append([]slog.Attr{}, h.attrs...), h.qualify(attrs)...)
	return &nh
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := *h
	nh.groups = append(append([]string{}, h.groups...), name)
	return &nh
}

func (h *Handler) qualify(attrs []slog.Attr) []slog.Attr {
	if len(h.groups) == 0 {
		return attrs
	}
	prefix := strings.Join(h.groups, ".") + "."
	res := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		res[i] = slog.Attr{Key: prefix + a.Key, Value: a.Value}
	}
	return res
}

func writeAttr(sb *strings.Builder, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	sb.WriteByte(' ')
	sb.WriteString(a.Key)
	sb.WriteByte('=')
	sb.WriteString(a.Value.Resolve().String())
}

// levelTag returns the colored tag for the given level.
func (h *Handler) levelTag(lv slog.Level) string {
	tag := lv.String()
	st := h.out.String(tag)
	switch {
	case lv >= slog.LevelError:
		st = st.Foreground(h.out.Color("1")).Bold()
	case lv >= slog.LevelWarn:
		st = st.Foreground(h.out.Color("3"))
	case lv >= slog.LevelInfo:
		st = st.Foreground(h.out.Color("4"))
	default:
		st = st.Faint()
	}
	return st.String()
}
