// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import "slices"

// group is the registry entry of a group in a tree.
type group struct {

	// nodes are the members of the group. They are in tree order unless
	// changed is set.
	nodes []Node

	// changed is whether nodes needs to be sorted into tree order.
	changed bool
}

// addToGroup registers the given node, which must be inside the tree,
// as a member of the given group.
func (t *Tree) addToGroup(name string, nb *NodeBase) {
	g := t.groups[name]
	if g == nil {
		g = &group{}
		t.groups[name] = g
	}
	m := nb.groups.ValueByKey(name)
	m.group = g
	m.index = len(g.nodes)
	g.nodes = append(g.nodes, nb.This)
	g.changed = true
}

// removeFromGroup unregisters the given node from the given group. The
// last member takes the place of the removed one, so the group needs
// sorting afterwards. Empty groups are deleted.
func (t *Tree) removeFromGroup(name string, nb *NodeBase) {
	m := nb.groups.ValueByKey(name)
	g := t.groups[name]
	if m == nil || g == nil || m.group != g {
		return
	}
	last := len(g.nodes) - 1
	if m.index != last {
		moved := g.nodes[last]
		g.nodes[m.index] = moved
		moved.AsTree().groups.ValueByKey(name).index = m.index
		g.changed = true
	}
	g.nodes[last] = nil
	g.nodes = g.nodes[:last]
	m.group = nil
	m.index = -1
	if len(g.nodes) == 0 {
		delete(t.groups, name)
	}
}

// reorderIfDirty sorts the members of the given group into tree order if
// they may be out of order.
func (t *Tree) reorderIfDirty(name string, g *group) {
	if !g.changed {
		return
	}
	slices.SortStableFunc(g.nodes, func(a, b Node) int {
		switch {
		case a.AsTree().IsOrderedAfter(b):
			return 1
		case b.AsTree().IsOrderedAfter(a):
			return -1
		}
		return 0
	})
	for i, k := range g.nodes {
		k.AsTree().groups.ValueByKey(name).index = i
	}
	g.changed = false
}

// NodesInGroup returns the members of the given group in tree order,
// or nil if there is no such group.
func (t *Tree) NodesInGroup(name string) []Node {
	g := t.groups[name]
	if g == nil {
		return nil
	}
	t.reorderIfDirty(name, g)
	return slices.Clone(g.nodes)
}

// HasGroup returns whether the given group has any members in the tree.
func (t *Tree) HasGroup(name string) bool {
	return t.groups[name] != nil
}

// GroupNames returns the names of all groups with members in the tree,
// including reserved groups, sorted by name.
func (t *Tree) GroupNames() []string {
	names := make([]string, 0, len(t.groups))
	for name := range t.groups {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
