// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/gobwas/glob"

	"cogentcore.org/livetree/base/errors"
	"cogentcore.org/livetree/nodepath"
)

// Path returns the absolute path of the node, which is cached until the
// node or one of its ancestors is renamed, moved to another parent, or
// leaves the tree. It returns the empty path if the node is not inside
// a tree.
func (n *NodeBase) Path() nodepath.Path {
	if !n.IsInsideTree() {
		return nodepath.Path{}
	}
	if !n.pathCache.IsEmpty() {
		return n.pathCache
	}
	var names []string
	for k := n; k != nil; {
		names = append(names, k.name)
		if k.parent == nil {
			break
		}
		k = k.parent.AsTree()
	}
	slices.Reverse(names)
	n.pathCache = nodepath.New(names, nil, true)
	return n.pathCache
}

// Resolve returns the node at the given path, or nil if there is none.
// Relative paths start at this node and absolute paths at the root of
// its tree. Sub-names of the path are ignored; see
// [NodeBase.ResolveWithFields]. Resolving an absolute path from a node
// that is not inside a tree logs an error and returns nil.
func (n *NodeBase) Resolve(p nodepath.Path) Node {
	if p.IsAbsolute() && !n.IsInsideTree() {
		errors.Log(fmt.Errorf("%w: can not resolve absolute path %q from %q", ErrDetached, p, n.name))
		return nil
	}
	k, failed := n.walkPath(p)
	if failed >= 0 {
		return nil
	}
	return k
}

// walkPath follows the given path, returning the node it leads to and -1,
// or the last node reached and the index of the name that failed.
func (n *NodeBase) walkPath(p nodepath.Path) (Node, int) {
	var current Node
	var root *NodeBase
	if p.IsAbsolute() {
		root = n
		for root.parent != nil {
			root = root.parent.AsTree()
		}
	} else {
		current = n.This
	}
	for i := range p.NameCount() {
		name := p.Name(i)
		switch {
		case name == nodepath.Current:
		case name == nodepath.Parent:
			if current == nil || current.AsTree().parent == nil {
				return current, i
			}
			current = current.AsTree().parent
		case current == nil:
			if name != root.name {
				return nil, i
			}
			current = root.This
		default:
			next := current.AsTree().ChildByName(name)
			if next == nil {
				return current, i
			}
			current = next
		}
	}
	return current, -1
}

// GetNode is like [NodeBase.Resolve], except that it takes a path string
// and returns an error wrapping [ErrNotFound] if there is no node at the
// path, suggesting the closest name when there is one, or an error
// wrapping [ErrDetached] for absolute paths from a node outside a tree.
func (n *NodeBase) GetNode(path string) (Node, error) {
	p := nodepath.Parse(path)
	if p.IsAbsolute() && !n.IsInsideTree() {
		return nil, fmt.Errorf("%w: can not resolve absolute path %q from %q", ErrDetached, path, n.name)
	}
	k, failed := n.walkPath(p)
	if failed < 0 {
		return k, nil
	}
	err := fmt.Errorf("%w: no node at %q from %q", ErrNotFound, path, n.String())
	if k == nil {
		return nil, err
	}
	if s := closestChildName(k.AsTree(), p.Name(failed)); s != "" {
		err = fmt.Errorf("%w (did you mean %q?)", err, s)
	}
	return nil, err
}

// closestChildName returns the name of the child of the given node that is
// most similar to the given name, or "" if none is similar enough.
func closestChildName(n *NodeBase, name string) string {
	best, bestSim := "", 0.5
	for _, c := range n.children {
		cn := c.AsTree().name
		if sim := strutil.Similarity(name, cn, metrics.NewLevenshtein()); sim > bestSim {
			best, bestSim = cn, sim
		}
	}
	return best
}

// HasNode returns whether there is a node at the given path.
func (n *NodeBase) HasNode(path string) bool {
	k, err := n.GetNode(path)
	return err == nil && k != nil
}

// ResolveWithFields resolves the names of the given path to a node and then
// follows its sub-names through the fields of the node: as long as a field
// holds a non-nil pointer to a struct, it becomes the next value to look in.
// It returns the node, the last value reached through fields (nil if
// none), and the sub-names that were not followed. If lastIsField is set,
// the last sub-name is never followed and is always left over.
func (n *NodeBase) ResolveWithFields(p nodepath.Path, lastIsField bool) (Node, any, []string) {
	k := n.Resolve(p)
	if k == nil {
		return nil, nil, nil
	}
	subs := p.SubNames()
	last := len(subs)
	if lastIsField {
		last--
	}
	fields := n.fieldSource()
	var res any
	j := 0
	for ; j < last; j++ {
		var v any
		var ok bool
		if res == nil {
			v, ok = fields.Get(k, subs[j])
		} else {
			v, ok = fields.Get(res, subs[j])
		}
		if !ok || !isStructPointer(v) {
			break
		}
		res = v
	}
	return k, res, subs[j:]
}

func isStructPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Elem().Kind() == reflect.Struct
}

// FindNode returns the first descendant whose name matches the given glob
// mask (such as "enemy*"), in tree order. If recursive is false, only the
// children are checked. If owned is true, only nodes with an owner are
// considered. It returns nil if there is no match or the mask is invalid.
func (n *NodeBase) FindNode(mask string, recursive, owned bool) Node {
	g, err := glob.Compile(mask)
	if errors.Log(err) != nil {
		return nil
	}
	return n.findNode(g, recursive, owned)
}

func (n *NodeBase) findNode(g glob.Glob, recursive, owned bool) Node {
	for _, c := range n.children {
		cb := c.AsTree()
		if owned && cb.owner == nil {
			continue
		}
		if g.Match(cb.name) {
			return c
		}
		if !recursive {
			continue
		}
		if r := cb.findNode(g, true, owned); r != nil {
			return r
		}
	}
	return nil
}

// IsAncestorOf returns whether this node is a strict ancestor of the given node.
func (n *NodeBase) IsAncestorOf(k Node) bool {
	if k == nil {
		return false
	}
	for p := k.AsTree().parent; p != nil; p = p.AsTree().parent {
		if p.AsTree() == n {
			return true
		}
	}
	return false
}

// CommonParent returns the closest node that is this node or an ancestor
// of it and also the given node or an ancestor of it, or nil if the nodes
// are in different trees.
func (n *NodeBase) CommonParent(k Node) Node {
	if k == nil {
		return nil
	}
	visited := map[*NodeBase]bool{}
	for a := n; a != nil; a = parentBase(a) {
		visited[a] = true
	}
	for b := k.AsTree(); b != nil; b = parentBase(b) {
		if visited[b] {
			return b.This
		}
	}
	return nil
}

func parentBase(n *NodeBase) *NodeBase {
	if n.parent == nil {
		return nil
	}
	return n.parent.AsTree()
}

// PathTo returns the relative path from this node to the given node.
// It returns an error wrapping [ErrNotFound] if the nodes are not in the
// same tree.
func (n *NodeBase) PathTo(k Node) (nodepath.Path, error) {
	if k == nil {
		return nodepath.Path{}, fmt.Errorf("%w: no path to a nil node", ErrNotFound)
	}
	kb := k.AsTree()
	if kb == n {
		return nodepath.Parse(nodepath.Current), nil
	}
	common := n.CommonParent(k)
	if common == nil {
		return nodepath.Path{}, fmt.Errorf("%w: %q and %q are not in the same tree", ErrNotFound, n.name, kb.name)
	}
	cb := common.AsTree()
	var down []string
	for b := kb; b != cb; b = parentBase(b) {
		down = append(down, b.name)
	}
	var names []string
	for a := n; a != cb; a = parentBase(a) {
		names = append(names, nodepath.Parent)
	}
	slices.Reverse(down)
	return nodepath.New(append(names, down...), nil, false), nil
}

// IsOrderedAfter returns whether this node comes after the given node in
// tree order, comparing the indexes of their ancestors from the root down.
// Both nodes must be inside the same tree; otherwise it returns false.
func (n *NodeBase) IsOrderedAfter(k Node) bool {
	if k == nil {
		return false
	}
	kb := k.AsTree()
	if !n.IsInsideTree() || !kb.IsInsideTree() || n.depth < 0 || kb.depth < 0 {
		return false
	}
	this := n.indexStack()
	that := kb.indexStack()
	for i := 0; ; i++ {
		a, b := -2, -2
		if i < len(this) {
			a = this[i]
		}
		if i < len(that) {
			b = that[i]
		}
		switch {
		case a > b:
			return true
		case a < b:
			return false
		case a == -2:
			return false
		}
	}
}

// indexStack returns the indexes of the node and its ancestors,
// from the root down.
func (n *NodeBase) indexStack() []int {
	st := make([]int, n.depth)
	i := n.depth - 1
	for k := n; k != nil && i >= 0; k = parentBase(k) {
		st[i] = k.index
		i--
	}
	return st
}
