// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"fmt"
	"strconv"

	"cogentcore.org/livetree/base/bitflag"
)

// ProcessKind is a kind of processing that a node can opt into.
// Each kind is backed by membership in a reserved group.
type ProcessKind int32

const (
	// ProcessFrame delivers [NotifyProcess] once per frame.
	ProcessFrame ProcessKind = iota

	// ProcessFrameInternal delivers [NotifyInternalProcess] once per frame,
	// before [ProcessFrame].
	ProcessFrameInternal

	// ProcessFixed delivers [NotifyFixedProcess] once per fixed step.
	ProcessFixed

	// ProcessFixedInternal delivers [NotifyInternalFixedProcess] once per
	// fixed step, before [ProcessFixed].
	ProcessFixedInternal

	// ProcessInput makes the node an input target of its viewport.
	ProcessInput

	// ProcessUnhandledInput makes the node an unhandled input target of
	// its viewport.
	ProcessUnhandledInput

	// ProcessUnhandledKeyInput makes the node an unhandled key input
	// target of its viewport.
	ProcessUnhandledKeyInput
)

// GroupPrefix is the prefix of the reserved group names used for
// processing and input routing. User group names can not start with it.
const GroupPrefix = "__"

var processGroupNames = [...]string{
	ProcessFrame:             GroupPrefix + "process",
	ProcessFrameInternal:     GroupPrefix + "process_internal",
	ProcessFixed:             GroupPrefix + "fixed_process",
	ProcessFixedInternal:     GroupPrefix + "fixed_process_internal",
	ProcessInput:             GroupPrefix + "vp_input",
	ProcessUnhandledInput:    GroupPrefix + "vp_unhandled_input",
	ProcessUnhandledKeyInput: GroupPrefix + "vp_unhandled_key_input",
}

func (k ProcessKind) String() string {
	if k < 0 || int(k) >= len(processGroupNames) {
		return fmt.Sprintf("ProcessKind(%d)", int32(k))
	}
	return processGroupNames[k][len(GroupPrefix):]
}

// IsInput returns whether the kind routes input through a viewport.
func (k ProcessKind) IsInput() bool {
	return k >= ProcessInput
}

// groupName returns the reserved group that backs the kind. Input kinds
// have one group per viewport.
func (k ProcessKind) groupName(viewport Node) string {
	if !k.IsInput() {
		return processGroupNames[k]
	}
	return processGroupNames[k] + strconv.FormatUint(viewport.AsTree().ID(), 10)
}

// IsProcessing returns whether the node has opted into the given kind
// of processing.
func (n *NodeBase) IsProcessing(kind ProcessKind) bool {
	return bitflag.Has(n.process, kind)
}

// SetProcessing sets whether the node opts into the given kind of
// processing. Frame and fixed processing take effect whenever the node is
// inside a tree. Input processing is scoped to the viewport of the node
// and only applies while it is inside a tree.
func (n *NodeBase) SetProcessing(kind ProcessKind, on bool) {
	if n.IsProcessing(kind) == on {
		return
	}
	bitflag.SetState(&n.process, on, kind)
	if kind.IsInput() {
		if !n.IsInsideTree() || n.viewport == nil {
			return
		}
		if on {
			n.addGroup(kind.groupName(n.viewport), false)
		} else {
			n.removeGroup(kind.groupName(n.viewport))
		}
		return
	}
	if on {
		n.addGroup(kind.groupName(nil), false)
	} else {
		n.removeGroup(kind.groupName(nil))
	}
}

// SetProcess sets whether the node receives [NotifyProcess] every frame.
func (n *NodeBase) SetProcess(on bool) {
	n.SetProcessing(ProcessFrame, on)
}

// SetFixedProcess sets whether the node receives [NotifyFixedProcess]
// every fixed step.
func (n *NodeBase) SetFixedProcess(on bool) {
	n.SetProcessing(ProcessFixed, on)
}

// joinInputGroups adds the node to the input groups of its viewport.
func (n *NodeBase) joinInputGroups() {
	if n.viewport == nil {
		return
	}
	for _, k := range []ProcessKind{ProcessInput, ProcessUnhandledInput, ProcessUnhandledKeyInput} {
		if n.IsProcessing(k) {
			n.addGroup(k.groupName(n.viewport), false)
		}
	}
}

// leaveInputGroups removes the node from the input groups of its viewport.
func (n *NodeBase) leaveInputGroups() {
	if n.viewport == nil {
		return
	}
	for _, k := range []ProcessKind{ProcessInput, ProcessUnhandledInput, ProcessUnhandledKeyInput} {
		if n.IsProcessing(k) {
			n.removeGroup(k.groupName(n.viewport))
		}
	}
}

// ProcessDelta returns the time in seconds since the last frame of the
// tree of the node, or 0 if it is not inside a tree.
func (n *NodeBase) ProcessDelta() float64 {
	if n.tree == nil {
		return 0
	}
	return n.tree.processDelta
}

// FixedProcessDelta returns the fixed step time in seconds of the tree of
// the node, or 0 if it is not inside a tree.
func (n *NodeBase) FixedProcessDelta() float64 {
	if n.tree == nil {
		return 0
	}
	return n.tree.fixedDelta
}
