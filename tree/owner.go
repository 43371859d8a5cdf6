// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import "fmt"

// Owner returns the owner of the node, or nil.
func (n *NodeBase) Owner() Node {
	return n.owner
}

// SetOwner sets the owner of the node, which must be a strict ancestor of
// it, or nil to clear the owner. The owner marks the node as part of the
// sub-hierarchy rooted at the owner, which is the unit of duplication and
// saving. It returns an error wrapping [ErrInvalidOperation], leaving the
// current owner unchanged, if the owner is not a strict ancestor.
func (n *NodeBase) SetOwner(owner Node) error {
	if owner != nil {
		ob := owner.AsTree()
		if ob == n {
			return fmt.Errorf("%w: %q can not own itself", ErrInvalidOperation, n.name)
		}
		if !ob.IsAncestorOf(n.This) {
			return fmt.Errorf("%w: owner %q is not an ancestor of %q", ErrInvalidOperation, ob.name, n.name)
		}
	}
	n.clearOwner()
	if owner == nil {
		return nil
	}
	ob := owner.AsTree()
	n.owner = owner
	if ob.owned == nil {
		ob.owned = map[Node]struct{}{}
	}
	ob.owned[n.This] = struct{}{}
	return nil
}

// clearOwner removes the node from the owned set of its owner.
func (n *NodeBase) clearOwner() {
	if n.owner == nil {
		return
	}
	delete(n.owner.AsTree().owned, n.This)
	n.owner = nil
}

// OwnedBy returns the node and its descendants that are owned by the
// given node, in tree order.
func (n *NodeBase) OwnedBy(owner Node) []Node {
	var res []Node
	n.WalkDown(func(k Node) bool {
		if kb := k.AsTree(); kb.owner != nil && kb.owner == owner {
			res = append(res, k)
		}
		return Continue
	})
	return res
}

// propagateValidateOwner clears the owner of the node and its descendants
// wherever the owner is no longer a strict ancestor.
func (n *NodeBase) propagateValidateOwner() {
	n.WalkDown(func(k Node) bool {
		kb := k.AsTree()
		if kb.owner != nil && !kb.owner.AsTree().IsAncestorOf(k) {
			kb.clearOwner()
		}
		return Continue
	})
}

// propagateReplaceOwner sets the owner of the node and its descendants that
// are owned by old to owner.
func (n *NodeBase) propagateReplaceOwner(old, owner Node) error {
	var err error
	n.WalkDown(func(k Node) bool {
		kb := k.AsTree()
		if kb.owner == nil || kb.owner != old {
			return Continue
		}
		if err = kb.SetOwner(owner); err != nil {
			return Break
		}
		return Continue
	})
	return err
}
