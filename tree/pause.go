// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import "fmt"

// PauseMode is the pause policy of a node, which determines whether it
// processes while its tree is paused.
type PauseMode int32

const (
	// PauseInherit uses the policy of the closest ancestor that does not
	// inherit. Nodes with no such ancestor stop while paused.
	PauseInherit PauseMode = iota

	// PauseAlwaysStop stops processing while the tree is paused.
	PauseAlwaysStop

	// PauseAlwaysProcess keeps processing while the tree is paused.
	PauseAlwaysProcess
)

var pauseModeNames = [...]string{"Inherit", "AlwaysStop", "AlwaysProcess"}

func (m PauseMode) String() string {
	if m < 0 || int(m) >= len(pauseModeNames) {
		return fmt.Sprintf("PauseMode(%d)", int32(m))
	}
	return pauseModeNames[m]
}

// PauseMode returns the pause policy of the node.
func (n *NodeBase) PauseMode() PauseMode {
	return n.pauseMode
}

// PauseOwner returns the node whose pause policy applies to this node:
// the node itself if it does not inherit, otherwise the closest ancestor
// that does not inherit, or nil.
func (n *NodeBase) PauseOwner() Node {
	return n.pauseOwner
}

// SetPauseMode sets the pause policy of the node. If the node is inside a
// tree and switches between inheriting and not inheriting, the new pause
// owner propagates to the descendants that inherit.
func (n *NodeBase) SetPauseMode(mode PauseMode) {
	if n.pauseMode == mode {
		return
	}
	prevInherits := n.pauseMode == PauseInherit
	n.pauseMode = mode
	if !n.IsInsideTree() || (mode == PauseInherit) == prevInherits {
		return
	}
	var owner Node
	if mode == PauseInherit {
		if n.parent != nil {
			owner = n.parent.AsTree().pauseOwner
		}
	} else {
		owner = n.This
	}
	n.propagatePauseOwner(owner)
}

// propagatePauseOwner sets the pause owner of the node and of its
// descendants down to, but not including, those that do not inherit.
func (n *NodeBase) propagatePauseOwner(owner Node) {
	if n.This != owner && n.pauseMode != PauseInherit {
		return
	}
	n.pauseOwner = owner
	for _, c := range n.children {
		c.AsTree().propagatePauseOwner(owner)
	}
}

// CanProcess returns whether the node processes in the current pause state
// of its tree. It returns false if the node is not inside a tree.
func (n *NodeBase) CanProcess() bool {
	if !n.IsInsideTree() {
		return false
	}
	if !n.tree.IsPaused() {
		return true
	}
	switch n.pauseMode {
	case PauseAlwaysStop:
		return false
	case PauseAlwaysProcess:
		return true
	}
	if n.pauseOwner == nil {
		return false
	}
	return n.pauseOwner.AsTree().pauseMode == PauseAlwaysProcess
}
