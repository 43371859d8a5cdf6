// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package nodes provides concrete node kinds built on package tree.
package nodes

import (
	"cogentcore.org/livetree/kinds"
	"cogentcore.org/livetree/tree"
)

// SignalTimeout is emitted by a [Timer] each time it reaches zero.
const SignalTimeout = "timeout"

// TimerProcess is the kind of processing that advances a [Timer].
type TimerProcess int32

const (
	// TimerFrame advances the timer once per frame.
	TimerFrame TimerProcess = iota

	// TimerFixed advances the timer once per fixed step.
	TimerFixed
)

// Timer is a node that counts down from WaitTime while it is inside a
// tree and can process, emitting [SignalTimeout] each time it reaches
// zero. It restarts after each timeout unless it is OneShot.
type Timer struct {
	tree.NodeBase

	// WaitTime is the time in seconds between timeouts.
	WaitTime float64

	// OneShot stops the timer after its first timeout.
	OneShot bool

	// Autostart starts the timer when it becomes ready.
	Autostart bool

	// Process is when the timer advances.
	Process TimerProcess

	// Paused holds the time left without stopping the timer.
	Paused bool

	timeLeft float64
}

func init() {
	kinds.AddValue(&Timer{})
}

func (t *Timer) Init() {
	t.WaitTime = 1
}

// Start starts the timer with the given wait time in seconds, or with
// WaitTime if it is not positive. A running timer is restarted.
func (t *Timer) Start(waitTime float64) {
	if waitTime > 0 {
		t.WaitTime = waitTime
	}
	t.timeLeft = t.WaitTime
	t.setProcessing(true)
}

// Stop stops the timer and clears the time left.
func (t *Timer) Stop() {
	t.timeLeft = 0
	t.setProcessing(false)
}

// IsStopped returns whether the timer is not running.
func (t *Timer) IsStopped() bool {
	return t.timeLeft <= 0
}

// TimeLeft returns the time in seconds until the next timeout, or 0 if
// the timer is stopped.
func (t *Timer) TimeLeft() float64 {
	if t.timeLeft < 0 {
		return 0
	}
	return t.timeLeft
}

// SetProcessMode changes when the timer advances, keeping it running.
func (t *Timer) SetProcessMode(p TimerProcess) {
	if t.Process == p {
		return
	}
	running := !t.IsStopped()
	t.setProcessing(false)
	t.Process = p
	t.setProcessing(running)
}

func (t *Timer) setProcessing(on bool) {
	if t.Process == TimerFixed {
		t.SetProcessing(tree.ProcessFixedInternal, on)
	} else {
		t.SetProcessing(tree.ProcessFrameInternal, on)
	}
}

func (t *Timer) Notification(what tree.Notification) {
	switch what {
	case tree.NotifyReady:
		if t.Autostart {
			t.Start(0)
		}
	case tree.NotifyInternalProcess:
		if t.Process == TimerFrame {
			t.advance(t.ProcessDelta())
		}
	case tree.NotifyInternalFixedProcess:
		if t.Process == TimerFixed {
			t.advance(t.FixedProcessDelta())
		}
	}
}

func (t *Timer) advance(delta float64) {
	if t.Paused || t.IsStopped() {
		return
	}
	t.timeLeft -= delta
	if t.timeLeft > 0 {
		return
	}
	if t.OneShot {
		t.Stop()
	} else {
		t.timeLeft += t.WaitTime
		if t.timeLeft <= 0 {
			t.timeLeft = t.WaitTime
		}
	}
	t.EmitSignal(SignalTimeout)
}
