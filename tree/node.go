// Copyright (c) 2018, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tree provides the live tree of nodes behind a real-time
// application, centered on the core [Node] interface.
//
// Nodes are attached to a running [Tree] by adding them below its root.
// Attaching and detaching subtrees fires lifecycle notifications in a well
// defined order, keeps the group registry of the tree in sync, and
// maintains the cached paths of the nodes. Notification handlers may not
// restructure the children of a node that is being traversed; such
// requests fail with [ErrInvalidOperation] and should be deferred with
// [Tree.CallDeferred].
package tree

// Node is an interface that all tree nodes satisfy. The core functionality
// of a tree node is defined on [NodeBase], and all higher-level node kinds
// must embed it. This interface only contains the functionality that
// higher-level kinds may need to override. You can call [Node.AsTree]
// to get the [NodeBase] of a Node and access the core tree functionality.
// All values that implement [Node] are pointer values.
type Node interface {

	// AsTree returns the [NodeBase] of this Node. Most core
	// tree functionality is implemented on [NodeBase].
	AsTree() *NodeBase

	// Init is called when the node is first initialized.
	// It is called before the node is added to a parent,
	// so it will not have any parents or siblings.
	// It will be called only once in the lifetime of the node.
	// Children added during Init are owned by the parent
	// and are not copied by [NodeBase.Duplicate], since
	// the copy makes its own in its Init.
	Init()

	// Notification is called synchronously for every lifecycle event of
	// the node, after the tree has updated its own state for the event.
	// It does nothing by default.
	Notification(what Notification)

	// Destroy recursively deletes and destroys the node, all of its children,
	// and all of its children's children, etc. Node kinds can implement this
	// to do additional necessary destruction; if they do, they should call
	// [NodeBase.Destroy] at the end of their implementation.
	Destroy()
}
