// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package errors

import (
	"bytes"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return buf
}

func TestLog(t *testing.T) {
	buf := captureLogs(t)
	assert.NoError(t, Log(nil))
	assert.Empty(t, buf.String())

	err := fmt.Errorf("bad thing")
	assert.Equal(t, err, Log(err))
	assert.Contains(t, buf.String(), "bad thing")
	assert.Contains(t, buf.String(), "level=ERROR")
}

func TestLog1(t *testing.T) {
	buf := captureLogs(t)
	assert.Equal(t, 3, Log1(3, nil))
	assert.Equal(t, 4, Log1(4, New("oops")))
	assert.Contains(t, buf.String(), "oops")
}

func TestWarn(t *testing.T) {
	buf := captureLogs(t)
	Warn(New("careful"))
	assert.Contains(t, buf.String(), "level=WARN")
}

func TestMust(t *testing.T) {
	assert.NotPanics(t, func() { Must(nil) })
	assert.Panics(t, func() { Must(New("fatal")) })
}

func TestWrapping(t *testing.T) {
	base := New("base")
	err := fmt.Errorf("context: %w", base)
	assert.True(t, Is(err, base))
	assert.True(t, Is(Join(New("other"), err), base))
}
