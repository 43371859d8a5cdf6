// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"fmt"
	"strings"
)

// membership is the record of a node joining a group.
type membership struct {

	// persistent is whether the membership is saved and duplicated with
	// the node.
	persistent bool

	// group is the registry entry of the group while the node is inside
	// a tree, and nil otherwise.
	group *group

	// index is the position of the node in the members of group.
	index int
}

// GroupInfo describes a group that a node has joined.
type GroupInfo struct {
	Name       string
	Persistent bool
}

// AddToGroup adds the node to the group with the given name. Persistent
// memberships are saved and duplicated with the node. Nodes can join
// groups whether or not they are inside a tree; they are registered with
// the tree while they are inside it. Adding the node to a group it is
// already in does nothing. It returns an error wrapping
// [ErrInvalidOperation] for empty names and names with the reserved
// [GroupPrefix].
func (n *NodeBase) AddToGroup(name string, persistent bool) error {
	if name == "" {
		return fmt.Errorf("%w: group names can not be empty", ErrInvalidOperation)
	}
	if strings.HasPrefix(name, GroupPrefix) {
		return fmt.Errorf("%w: group name %q uses the reserved prefix %q", ErrInvalidOperation, name, GroupPrefix)
	}
	n.addGroup(name, persistent)
	return nil
}

// RemoveFromGroup removes the node from the group with the given name.
// It returns an error wrapping [ErrNotFound] if the node is not in it.
func (n *NodeBase) RemoveFromGroup(name string) error {
	if !n.removeGroup(name) {
		return fmt.Errorf("%w: %q is not in group %q", ErrNotFound, n.name, name)
	}
	return nil
}

// addGroup adds the node to the given group, registering it with the
// tree if the node is inside one.
func (n *NodeBase) addGroup(name string, persistent bool) {
	if n.groups.Has(name) {
		return
	}
	m := &membership{persistent: persistent}
	n.groups.Add(name, m)
	if n.IsInsideTree() {
		n.tree.addToGroup(name, n)
	}
}

// removeGroup removes the node from the given group, returning false if
// it was not in it.
func (n *NodeBase) removeGroup(name string) bool {
	if !n.groups.Has(name) {
		return false
	}
	if n.IsInsideTree() {
		n.tree.removeFromGroup(name, n)
	}
	n.groups.DeleteKey(name)
	return true
}

// IsInGroup returns whether the node is in the group with the given name.
func (n *NodeBase) IsInGroup(name string) bool {
	return n.groups.Has(name)
}

// Groups returns the user groups that the node has joined, in the order
// they were joined. Reserved groups are not included.
func (n *NodeBase) Groups() []GroupInfo {
	var gs []GroupInfo
	for _, kv := range n.groups.Order {
		if strings.HasPrefix(kv.Key, GroupPrefix) {
			continue
		}
		gs = append(gs, GroupInfo{Name: kv.Key, Persistent: kv.Value.persistent})
	}
	return gs
}

// HasPersistentGroups returns whether the node is in any persistent group.
func (n *NodeBase) HasPersistentGroups() bool {
	for _, kv := range n.groups.Order {
		if kv.Value.persistent {
			return true
		}
	}
	return false
}
