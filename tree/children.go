// Copyright (c) 2018, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"fmt"
	"slices"

	"cogentcore.org/livetree/base/errors"
)

// AddChild adds the given child to the end of the children of the node,
// initializing it if needed and making its name unique among its new
// siblings. If the node is inside a tree, the child and its descendants
// enter the tree before AddChild returns; the children of this node can not
// be changed by their notification handlers.
//
// It returns an error wrapping [ErrInvalidOperation] if the child is the
// node itself or one of its ancestors, if the child already has a parent
// or is the root of a tree, or if the children of the node are being
// traversed.
func (n *NodeBase) AddChild(child Node) error {
	return n.addChild(child, false)
}

// AddChildLegible is like [NodeBase.AddChild], except that colliding names
// are always made unique with human readable serial names, regardless of
// the naming policy of the tree.
func (n *NodeBase) AddChildLegible(child Node) error {
	return n.addChild(child, true)
}

func (n *NodeBase) addChild(child Node, legible bool) error {
	if child == nil {
		return fmt.Errorf("%w: adding nil child to %q", ErrInvalidOperation, n.name)
	}
	cb := initNode(child)
	switch {
	case cb == n:
		return fmt.Errorf("%w: can not add %q to itself", ErrInvalidOperation, n.name)
	case cb.parent != nil:
		return fmt.Errorf("%w: can not add %q to %q, it already has parent %q", ErrInvalidOperation, cb.name, n.name, cb.parent.AsTree().name)
	case cb.tree != nil:
		return fmt.Errorf("%w: can not add %q to %q, it is the root of a tree", ErrInvalidOperation, cb.name, n.name)
	case cb.IsAncestorOf(n.This):
		return fmt.Errorf("%w: can not add %q to its descendant %q", ErrInvalidOperation, cb.name, n.name)
	case cb.HasFlag(Destroyed):
		return fmt.Errorf("%w: can not add destroyed node %q", ErrInvalidOperation, cb.name)
	case n.blocked > 0:
		return fmt.Errorf("%w: %q is busy setting up children, can not add %q; use Tree.CallDeferred", ErrInvalidOperation, n.name, cb.name)
	}
	n.validateChildName(cb, legible)
	n.addChildNoCheck(cb)
	return nil
}

// addChildNoCheck adds the given child without validation.
func (n *NodeBase) addChildNoCheck(cb *NodeBase) {
	n.numLifetimeChildren++
	cb.index = len(n.children)
	n.children = append(n.children, cb.This)
	cb.parent = n.This
	cb.setFlag(n.HasFlag(Initializing), ParentOwned)
	cb.notify(NotifyParented)
	if n.tree != nil {
		n.blocked++
		cb.setTree(n.tree)
		n.blocked--
	}
}

// AddChildBelow adds the given child right after the given sibling,
// which must be a child of this node.
func (n *NodeBase) AddChildBelow(sibling, child Node) error {
	if sibling == nil || sibling.AsTree().parent != n.This {
		return fmt.Errorf("%w: can not add below a node that is not a child of %q", ErrInvalidOperation, n.name)
	}
	if err := n.AddChild(child); err != nil {
		return err
	}
	return n.MoveChild(child, sibling.AsTree().index+1)
}

// RemoveChild removes the given child from the node. If the node is inside
// a tree, the child and its descendants exit the tree first. Owners of the
// removed subtree that are no longer ancestors are cleared.
//
// It returns an error wrapping [ErrInvalidOperation] if the child is not a
// child of the node or if the children of the node are being traversed.
func (n *NodeBase) RemoveChild(child Node) error {
	if n.blocked > 0 {
		return fmt.Errorf("%w: %q is busy setting up children, can not remove a child; use Tree.CallDeferred", ErrInvalidOperation, n.name)
	}
	idx := n.childIndex(child)
	if idx < 0 {
		return fmt.Errorf("%w: %v is not a child of %q", ErrInvalidOperation, child, n.name)
	}
	cb := child.AsTree()
	if cb.tree != nil {
		n.blocked++
		cb.setTree(nil)
		n.blocked--
	}
	n.children = slices.Delete(n.children, idx, idx+1)
	for i := idx; i < len(n.children); i++ {
		n.children[i].AsTree().index = i
	}
	cb.parent = nil
	cb.index = -1
	cb.notify(NotifyUnparented)
	cb.propagateValidateOwner()
	return nil
}

// childIndex returns the index of the given child, or -1.
func (n *NodeBase) childIndex(child Node) int {
	if child == nil {
		return -1
	}
	cb := child.AsTree()
	if cb.parent != n.This || cb.index < 0 || cb.index >= len(n.children) || n.children[cb.index] != child {
		return -1
	}
	return cb.index
}

// MoveChild moves the given child to the given index. An index one past
// the last child means the last index. Only the children between the old
// and new index are renumbered, and each of them receives
// [NotifyMovedInParent].
//
// It returns an error wrapping [ErrInvalidOperation] if the child is not a
// child of the node, if the index is out of range, or if the children of
// the node are being traversed.
func (n *NodeBase) MoveChild(child Node, index int) error {
	from := n.childIndex(child)
	switch {
	case from < 0:
		return fmt.Errorf("%w: %v is not a child of %q", ErrInvalidOperation, child, n.name)
	case index < 0 || index > len(n.children):
		return fmt.Errorf("%w: invalid index %d for moving a child of %q", ErrInvalidOperation, index, n.name)
	case n.blocked > 0:
		return fmt.Errorf("%w: %q is busy setting up children, can not move a child; use Tree.CallDeferred", ErrInvalidOperation, n.name)
	}
	if index == len(n.children) {
		index--
	}
	if from == index {
		return nil
	}
	lo, hi := min(from, index), max(from, index)
	n.children = slices.Delete(n.children, from, from+1)
	n.children = slices.Insert(n.children, index, child)
	if n.tree != nil {
		n.tree.treeChanged()
	}
	n.blocked++
	for i := lo; i <= hi; i++ {
		n.children[i].AsTree().index = i
	}
	for i := lo; i <= hi; i++ {
		n.children[i].AsTree().notify(NotifyMovedInParent)
	}
	// the order of the moved subtree relative to other group members changed
	child.AsTree().WalkDown(func(k Node) bool {
		for _, kv := range k.AsTree().groups.Order {
			if kv.Value.group != nil {
				kv.Value.group.changed = true
			}
		}
		return Continue
	})
	n.blocked--
	return nil
}

// Raise moves the node to the end of the children of its parent.
func (n *NodeBase) Raise() error {
	if n.parent == nil {
		return nil
	}
	p := n.parent.AsTree()
	return p.MoveChild(n.This, len(p.children)-1)
}

// RemoveAndSkip removes the node from its parent, moving its owned
// children to the end of the children of the parent. Children without an owner stay
// with the node. Nodes that were owned by this node become owned by its
// owner.
func (n *NodeBase) RemoveAndSkip() error {
	if n.parent == nil {
		return fmt.Errorf("%w: %q has no parent", ErrInvalidOperation, n.name)
	}
	p := n.parent.AsTree()
	if p.blocked > 0 || n.blocked > 0 {
		return fmt.Errorf("%w: can not remove and skip %q while children are being traversed", ErrInvalidOperation, n.name)
	}
	newOwner := n.owner
	type moved struct {
		node   Node
		owners map[Node]Node
	}
	var kids []moved
	for i := 0; i < len(n.children); {
		c := n.children[i]
		if c.AsTree().owner == nil {
			i++
			continue
		}
		m := moved{node: c, owners: map[Node]Node{}}
		c.AsTree().WalkDown(func(k Node) bool {
			if o := k.AsTree().owner; o != nil {
				m.owners[k] = o
			}
			return Continue
		})
		if err := n.RemoveChild(c); err != nil {
			return err
		}
		kids = append(kids, m)
	}
	for _, m := range kids {
		if err := p.AddChild(m.node); err != nil {
			return err
		}
		for k, o := range m.owners {
			if o == n.This {
				o = newOwner
			}
			if o != nil && k.AsTree().owner != o {
				errors.Log(k.AsTree().SetOwner(o))
			}
		}
	}
	return p.RemoveChild(n.This)
}
