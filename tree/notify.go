// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"fmt"

	"cogentcore.org/livetree/nodepath"
)

// Notification is a lifecycle event delivered to a node.
type Notification int32

const (
	// NotifyEnterTree is delivered to a node after it has entered a tree,
	// before any of its children enter.
	NotifyEnterTree Notification = iota

	// NotifyExitTree is delivered to a node that is exiting a tree, after
	// all of its children have exited and before it leaves its groups.
	NotifyExitTree

	// NotifyExitedTree is delivered to a node once it has fully exited.
	NotifyExitedTree

	// NotifyReady is delivered once to a node after all of its
	// descendants have received it.
	NotifyReady

	// NotifyParented is delivered to a node when it is added to a parent.
	NotifyParented

	// NotifyUnparented is delivered to a node when it is removed from
	// its parent.
	NotifyUnparented

	// NotifyMovedInParent is delivered to every child whose index
	// changed because of [NodeBase.MoveChild].
	NotifyMovedInParent

	// NotifyRenamed is delivered to a node when its name changes.
	NotifyRenamed

	// NotifyPathChanged is delivered to a renamed node and all of its
	// descendants.
	NotifyPathChanged

	// NotifyProcess is delivered every frame to processing nodes.
	NotifyProcess

	// NotifyFixedProcess is delivered every fixed step to fixed
	// processing nodes.
	NotifyFixedProcess

	// NotifyInternalProcess is delivered every frame before
	// [NotifyProcess] to internal processing nodes.
	NotifyInternalProcess

	// NotifyInternalFixedProcess is delivered every fixed step before
	// [NotifyFixedProcess] to internal fixed processing nodes.
	NotifyInternalFixedProcess

	// NotifyPaused is delivered to all nodes when the tree is paused.
	NotifyPaused

	// NotifyUnpaused is delivered to all nodes when the tree is unpaused.
	NotifyUnpaused

	// NotifyPredelete is delivered to a node when it is being destroyed,
	// before it is detached from its parent and children.
	NotifyPredelete
)

var notificationNames = [...]string{
	"EnterTree", "ExitTree", "ExitedTree", "Ready", "Parented", "Unparented",
	"MovedInParent", "Renamed", "PathChanged", "Process", "FixedProcess",
	"InternalProcess", "InternalFixedProcess", "Paused", "Unpaused", "Predelete",
}

func (nt Notification) String() string {
	if nt < 0 || int(nt) >= len(notificationNames) {
		return fmt.Sprintf("Notification(%d)", int32(nt))
	}
	return notificationNames[nt]
}

// Notification implements [Node.Notification]. It does nothing.
func (n *NodeBase) Notification(what Notification) {}

// OnNotification adds a listener that is called with every notification
// delivered to the node, after [Node.Notification].
func (n *NodeBase) OnNotification(fun func(what Notification)) {
	n.listeners = append(n.listeners, fun)
}

// notify updates the internal state of the node for the given
// notification and then delivers it.
func (n *NodeBase) notify(what Notification) {
	if what == NotifyPathChanged {
		n.pathCache = nodepath.Path{}
	}
	if n.This != nil {
		n.This.Notification(what)
	}
	// listeners added by a listener are only called for later notifications
	ls := n.listeners
	for _, l := range ls {
		l(what)
	}
}

// PropagateNotification delivers the given notification to the node and
// then to all of its descendants, in tree order. The children of each
// node are guarded while the notification propagates below it.
func (n *NodeBase) PropagateNotification(what Notification) {
	n.blocked++
	n.notify(what)
	for i := 0; i < len(n.children); i++ {
		n.children[i].AsTree().PropagateNotification(what)
	}
	n.blocked--
}
