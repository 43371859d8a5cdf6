// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import "cogentcore.org/livetree/nodepath"

// Names of the lifecycle signals emitted by every node.
const (
	SignalTreeEntered = "tree_entered"
	SignalTreeExiting = "tree_exiting"
	SignalTreeExited  = "tree_exited"
	SignalRenamed     = "renamed"
)

// setTree moves the node and its descendants out of their current tree, if
// any, and into the given tree, if non-nil. Entering is followed by the
// ready pass when the node has no parent or its parent has already been
// reached by the ready pass.
func (n *NodeBase) setTree(t *Tree) {
	var changedA, changedB *Tree
	if n.tree != nil {
		changedA = n.tree
		n.propagateExitTree()
	}
	n.tree = t
	if t != nil {
		n.propagateEnterTree()
		if n.parent == nil || n.parent.AsTree().HasFlag(ReadyNotified) {
			n.propagateReady()
		}
		changedB = t
	}
	if changedA != nil {
		changedA.treeChanged()
	}
	if changedB != nil && changedB != changedA {
		changedB.treeChanged()
	}
}

// propagateEnterTree brings the node and then its descendants into the
// tree of its parent (or the tree already set on a root). Children added
// by the enter handlers of the node are entered by their own AddChild and
// are skipped by the loop here.
func (n *NodeBase) propagateEnterTree() {
	if n.parent != nil {
		pb := n.parent.AsTree()
		n.tree = pb.tree
		n.depth = pb.depth + 1
	} else {
		n.depth = 1
	}
	if _, ok := n.This.(viewportNode); ok || n.parent == nil {
		n.viewport = n.This
	} else {
		n.viewport = n.parent.AsTree().viewport
	}
	n.state = StateEntering
	n.setFlag(true, InsideTree)
	n.pathCache = nodepath.Path{}

	for _, kv := range n.groups.Order {
		n.tree.addToGroup(kv.Key, n)
	}
	if n.pauseMode == PauseInherit {
		n.pauseOwner = nil
		if n.parent != nil {
			n.pauseOwner = n.parent.AsTree().pauseOwner
		}
	} else {
		n.pauseOwner = n.This
	}
	n.joinInputGroups()

	n.notify(NotifyEnterTree)
	n.EmitSignal(SignalTreeEntered)
	n.tree.nodeAdded(n.This)

	n.blocked++
	for i := 0; i < len(n.children); i++ {
		c := n.children[i].AsTree()
		if !c.IsInsideTree() {
			c.propagateEnterTree()
		}
	}
	n.blocked--
	n.state = StateAttached
}

// propagateReady runs the ready pass over the node and its descendants.
// Each node receives its pending ready notification after all of its
// children have received theirs.
func (n *NodeBase) propagateReady() {
	n.setFlag(true, ReadyNotified)
	n.blocked++
	for i := 0; i < len(n.children); i++ {
		n.children[i].AsTree().propagateReady()
	}
	n.blocked--
	n.state = StateReady
	if n.HasFlag(ReadyFirst) {
		n.setFlag(false, ReadyFirst)
		n.notify(NotifyReady)
	}
}

// propagateExitTree takes the descendants of the node and then the node
// out of its tree, in reverse tree order. The children of the node can not
// change until it is detached.
func (n *NodeBase) propagateExitTree() {
	n.state = StateExiting
	n.blocked++
	for i := len(n.children) - 1; i >= 0; i-- {
		n.children[i].AsTree().propagateExitTree()
	}

	n.EmitSignal(SignalTreeExiting)
	n.notify(NotifyExitTree)

	t := n.tree
	t.nodeRemoved(n.This)
	n.leaveInputGroups()
	for _, kv := range n.groups.Order {
		t.removeFromGroup(kv.Key, n)
	}
	n.pauseOwner = nil
	n.pathCache = nodepath.Path{}
	n.viewport = nil
	t.treeChanged()

	n.setFlag(false, InsideTree, ReadyNotified)
	n.tree = nil
	n.depth = -1
	n.state = StateDetached
	n.blocked--

	n.notify(NotifyExitedTree)
	n.EmitSignal(SignalTreeExited)
}
