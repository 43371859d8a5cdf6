// Copyright (c) 2018, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

// Flags are bit flags for efficient core state of nodes. See the bitflag
// package for using these ordinal values to manipulate the flag field.
type Flags int64

const (
	// InsideTree is set while the node is inside a running tree.
	InsideTree Flags = iota

	// ReadyNotified is set once the ready pass of the current tree
	// membership has reached the node.
	ReadyNotified

	// ReadyFirst is set while the node still has a ready notification
	// pending. It is set on creation and by [NodeBase.RequestReady].
	ReadyFirst

	// ParentOwned is set on children that were added while their
	// parent was running its [Node.Init] method.
	ParentOwned

	// Initializing is set while [Node.Init] runs.
	Initializing

	// QueuedForDeletion is set when the node is in the delete queue.
	QueuedForDeletion

	// Destroyed is set once the node has been destroyed.
	Destroyed
)

// TreeState is the membership state of a node in a tree.
type TreeState int32

const (
	// StateDetached is the state of nodes that are not inside a tree.
	StateDetached TreeState = iota

	// StateEntering is the state of a node while it and its
	// descendants enter the tree.
	StateEntering

	// StateAttached is the state of a node that is inside a tree
	// and has not been reached by the ready pass yet.
	StateAttached

	// StateReady is the state of a node after the ready pass.
	StateReady

	// StateExiting is the state of a node while its descendants
	// and then it exit the tree.
	StateExiting
)

var stateNames = [...]string{"Detached", "Entering", "Attached", "Ready", "Exiting"}

func (s TreeState) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "TreeState(?)"
	}
	return stateNames[s]
}
