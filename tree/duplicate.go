// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"fmt"

	"cogentcore.org/livetree/base/errors"
	"cogentcore.org/livetree/kinds"
)

// DuplicateFlags are bit flags that select what [NodeBase.Duplicate]
// copies besides the persisted fields and children.
type DuplicateFlags int64

const (
	// DuplicateSignals copies the persistent signal connections.
	DuplicateSignals DuplicateFlags = 1

	// DuplicateGroups copies the group memberships.
	DuplicateGroups DuplicateFlags = 2

	// DuplicateScripts copies the script field.
	DuplicateScripts DuplicateFlags = 4

	// DuplicateDefault copies everything.
	DuplicateDefault = DuplicateSignals | DuplicateGroups | DuplicateScripts
)

// Instancer is implemented by factories that can build a nested instance
// from the scene file it was instanced from. Without one, nested instances
// are copied as shallow placeholders.
type Instancer interface {
	Instance(sceneFile string) (Node, error)
}

// Duplicate returns a detached deep copy of the node and its descendants,
// constructed by the factory of the tree. The persisted fields are copied,
// with sequences and maps copied by value; see [kinds.DuplicateValue].
// Children created by [Node.Init] are not copied, since the copies create
// their own. The children of nested instances that belong to the instance
// are not copied either, unless the factory is an [Instancer]. Owners
// within the copied subtree are mapped to the copies.
//
// It returns an error wrapping [ErrConstructionFailed] if the factory can
// not build a copy of any node, in which case the partial copy is
// destroyed.
func (n *NodeBase) Duplicate(flags DuplicateFlags) (Node, error) {
	c, err := n.duplicate(flags, true)
	if err != nil {
		return nil, err
	}
	n.duplicateOwners(c)
	if flags&DuplicateSignals != 0 {
		n.duplicateSignals(n.This, c)
	}
	return c, nil
}

// newCopy returns a new initialized node of the same kind as the node.
func (n *NodeBase) newCopy() (Node, error) {
	c, err := n.factory().NewNode(n.This)
	if err != nil {
		if !errors.Is(err, ErrConstructionFailed) {
			err = fmt.Errorf("%w: %w", ErrConstructionFailed, err)
		}
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: no copy of %T", ErrConstructionFailed, n.This)
	}
	initNode(c)
	return c, nil
}

// copyFields copies the persisted fields of the node to the given node.
func (n *NodeBase) copyFields(c Node, scripts bool) error {
	fs := n.fieldSource()
	for _, f := range fs.Fields(n.This) {
		if f.Has(kinds.Script) && !scripts {
			continue
		}
		v, ok := fs.Get(n.This, f.Name)
		if !ok {
			continue
		}
		v, err := kinds.DuplicateValue(f, v)
		if err != nil {
			return fmt.Errorf("copying field %q of %q: %w", f.Name, n.name, err)
		}
		if err := fs.Set(c, f.Name, v); err != nil {
			return err
		}
	}
	return nil
}

// copyState copies the node state that is not held in fields.
func (n *NodeBase) copyState(cb *NodeBase) {
	cb.name = n.name
	cb.sceneFile = n.sceneFile
	cb.SetPauseMode(n.pauseMode)
	for k := ProcessFrame; k <= ProcessUnhandledKeyInput; k++ {
		cb.SetProcessing(k, n.IsProcessing(k))
	}
}

func (n *NodeBase) duplicate(flags DuplicateFlags, top bool) (Node, error) {
	var c Node
	instanced := false
	if n.sceneFile != "" && !top {
		if in, ok := n.factory().(Instancer); ok {
			inst, err := in.Instance(n.sceneFile)
			if err != nil {
				return nil, fmt.Errorf("%w: instancing %q: %w", ErrConstructionFailed, n.sceneFile, err)
			}
			c, instanced = inst, true
			initNode(c)
		}
	}
	if c == nil {
		nc, err := n.newCopy()
		if err != nil {
			return nil, err
		}
		c = nc
	}
	cb := c.AsTree()
	if err := n.copyFields(c, flags&DuplicateScripts != 0); err != nil {
		c.Destroy()
		return nil, err
	}
	n.copyState(cb)
	if flags&DuplicateGroups != 0 {
		for _, g := range n.Groups() {
			if instanced && !g.Persistent {
				continue
			}
			cb.addGroup(g.Name, g.Persistent)
		}
	}
	for i, child := range n.children {
		chb := child.AsTree()
		if chb.HasFlag(ParentOwned) {
			continue
		}
		if n.sceneFile != "" && !top && chb.owner == n.This {
			continue // part of the nested instance
		}
		d, err := chb.duplicate(flags, false)
		if err != nil {
			c.Destroy()
			return nil, err
		}
		if err := cb.AddChild(d); err != nil {
			d.Destroy()
			c.Destroy()
			return nil, err
		}
		if i < cb.NumChildren()-1 {
			errors.Log(cb.MoveChild(d, i))
		}
	}
	return c, nil
}

// duplicateOwners sets the owners of the nodes in the given copy of the
// node to the copies of the owners of the originals, where those owners
// are within the original subtree.
func (n *NodeBase) duplicateOwners(c Node) {
	cb := c.AsTree()
	n.WalkDown(func(k Node) bool {
		kb := k.AsTree()
		o := kb.owner
		if kb == n || o == nil || (o != n.This && !n.IsAncestorOf(o)) {
			return Continue
		}
		kp, err1 := n.PathTo(k)
		op, err2 := n.PathTo(o)
		if err1 != nil || err2 != nil {
			return Continue
		}
		kc, oc := cb.Resolve(kp), cb.Resolve(op)
		if kc != nil && oc != nil && kc.AsTree().owner == nil {
			errors.Log(kc.AsTree().SetOwner(oc))
		}
		return Continue
	})
}

// duplicateSignals copies the persistent connections of the node and its
// descendants in the original subtree to the corresponding nodes of the
// copy. Targets inside the original subtree are mapped to their copies;
// other targets are kept. Connections that can not be copied are logged
// and dropped.
func (n *NodeBase) duplicateSignals(orig, cp Node) {
	ob := orig.AsTree()
	if n != ob && n.owner != orig && n.owner != ob.owner {
		return
	}
	for _, c := range n.Connections() {
		if c.Flags&ConnectPersist == 0 {
			continue
		}
		if err := n.duplicateConnection(c, ob, cp.AsTree()); err != nil {
			n.logger().Warn("dropping signal connection in duplicate", "connection", c, "err", err)
		}
	}
	for _, child := range n.Children() {
		child.AsTree().duplicateSignals(orig, cp)
	}
}

// duplicateConnection copies the given connection from the original
// subtree to the copy.
func (n *NodeBase) duplicateConnection(c *Connection, ob, cb *NodeBase) error {
	if !isAlive(c.Target) {
		return fmt.Errorf("%w: target was destroyed", ErrNotFound)
	}
	p, err := ob.PathTo(n.This)
	if err != nil {
		return err
	}
	source := cb.Resolve(p)
	if source == nil {
		return fmt.Errorf("%w: no copy of source at %q", ErrNotFound, p)
	}
	target := c.Target
	if target == ob.This || ob.IsAncestorOf(target) {
		tp, err := ob.PathTo(target)
		if err != nil {
			return err
		}
		target = cb.Resolve(tp)
		if target == nil {
			return fmt.Errorf("%w: no copy of target at %q", ErrNotFound, tp)
		}
	}
	return source.AsTree().Connect(c.Signal, target, c.Method, c.Flags, c.Binds...)
}

// DuplicateAndReown returns a detached copy of the node whose descendants
// are copied with [NodeBase.DuplicateAndReownInto] semantics. Persistent
// signal connections are copied afterwards. It returns an error wrapping
// [ErrInvalidOperation] for nested instances, and one wrapping
// [ErrConstructionFailed] if a node can not be constructed.
func (n *NodeBase) DuplicateAndReown(remap map[Node]Node) (Node, error) {
	if n.sceneFile != "" {
		return nil, fmt.Errorf("%w: can not reown the instance %q of %q", ErrInvalidOperation, n.name, n.sceneFile)
	}
	c, err := n.newCopy()
	if err != nil {
		return nil, err
	}
	if err := n.copyFields(c, true); err != nil {
		c.Destroy()
		return nil, err
	}
	n.copyState(c.AsTree())
	for _, child := range n.Children() {
		if _, err := child.AsTree().duplicateAndReown(c, remap); err != nil {
			c.Destroy()
			return nil, err
		}
	}
	n.duplicateSignals(n.This, c)
	return c, nil
}

// DuplicateAndReownInto copies the node and its descendants and adds the
// copy to the given parent. The owner of each copy is the copy of the
// original owner after mapping it through the given remap table (or the
// mapped owner itself, if that is an ancestor of the copy). Only nodes
// owned by the owner of their parent are copied; others are left out,
// along with their descendants. Persistent signal connections are copied
// afterwards.
//
// It returns an error wrapping [ErrInvalidOperation] if the node itself
// is not eligible, and one wrapping [ErrConstructionFailed] if a node
// can not be constructed, in which case the partial copy is destroyed.
func (n *NodeBase) DuplicateAndReownInto(newParent Node, remap map[Node]Node) (Node, error) {
	if newParent == nil {
		return nil, fmt.Errorf("%w: no parent for the copy of %q", ErrInvalidOperation, n.name)
	}
	if !n.reownable() {
		return nil, fmt.Errorf("%w: %q is not owned by the owner of its parent", ErrInvalidOperation, n.name)
	}
	c, err := n.duplicateAndReown(newParent, remap)
	if err != nil {
		return nil, err
	}
	n.duplicateSignals(n.This, c)
	return c, nil
}

// reownable returns whether the node is owned by the owner of its parent.
func (n *NodeBase) reownable() bool {
	return n.parent != nil && n.owner == n.parent.AsTree().owner
}

// duplicateAndReown returns nil for nodes that are not reownable.
func (n *NodeBase) duplicateAndReown(newParent Node, remap map[Node]Node) (Node, error) {
	if !n.reownable() {
		return nil, nil
	}
	c, err := n.newCopy()
	if err != nil {
		return nil, err
	}
	cb := c.AsTree()
	if err := n.copyFields(c, true); err != nil {
		c.Destroy()
		return nil, err
	}
	n.copyState(cb)
	if err := newParent.AsTree().AddChild(c); err != nil {
		c.Destroy()
		return nil, err
	}
	owner := n.owner
	if r, ok := remap[owner]; ok {
		owner = r
	}
	if owner != nil && owner != n.This {
		var newOwner Node
		if p, err := n.PathTo(owner); err == nil {
			newOwner = cb.Resolve(p)
		}
		if newOwner == nil && owner.AsTree().IsAncestorOf(c) {
			newOwner = owner
		}
		if newOwner != nil {
			errors.Log(cb.SetOwner(newOwner))
		}
	}
	for _, child := range n.Children() {
		if _, err := child.AsTree().duplicateAndReown(c, remap); err != nil {
			c.Destroy()
			return nil, err
		}
	}
	return c, nil
}

// ReplaceBy puts the given node in the place of this node: it takes over
// the position of this node in its parent, its children, its owner, and
// the nodes it owns. Persistent connections that target this node are
// retargeted to the given node where it has the method. If keepData is
// set, the groups of this node and the persisted fields that both kinds
// have are copied. This node is left detached, without children.
//
// It returns an error wrapping [ErrInvalidOperation] if the given node
// has a parent or the children involved are being traversed.
func (n *NodeBase) ReplaceBy(other Node, keepData bool) error {
	switch {
	case other == nil:
		return fmt.Errorf("%w: replacing %q by nil", ErrInvalidOperation, n.name)
	case other.AsTree() == n:
		return fmt.Errorf("%w: replacing %q by itself", ErrInvalidOperation, n.name)
	case other.AsTree().parent != nil:
		return fmt.Errorf("%w: replacement for %q already has a parent", ErrInvalidOperation, n.name)
	case n.blocked > 0 || (n.parent != nil && n.parent.AsTree().blocked > 0):
		return fmt.Errorf("%w: can not replace %q while children are being traversed", ErrInvalidOperation, n.name)
	}
	ob := initNode(other)
	owned := make([]Node, 0, len(n.owned))
	for o := range n.owned {
		owned = append(owned, o)
	}
	owner := n.owner
	var ownedByOwner []Node
	if owner != nil {
		for _, c := range n.children {
			ownedByOwner = append(ownedByOwner, c.AsTree().OwnedBy(owner)...)
		}
	}

	if keepData {
		for _, g := range n.Groups() {
			ob.addGroup(g.Name, g.Persistent)
		}
		fs := n.fieldSource()
		for _, f := range fs.Fields(n.This) {
			if _, ok := fs.Get(other, f.Name); !ok {
				continue
			}
			if v, ok := fs.Get(n.This, f.Name); ok {
				errors.Log(fs.Set(other, f.Name, v))
			}
		}
	}
	for _, c := range n.IncomingConnections() {
		if c.Flags&ConnectPersist == 0 || !HasMethod(other, c.Method) {
			continue
		}
		removeConnection(c)
		errors.Log(c.Source.AsTree().Connect(c.Signal, other, c.Method, c.Flags, c.Binds...))
	}

	if n.parent != nil {
		p := n.parent.AsTree()
		pos := n.index
		if err := p.RemoveChild(n.This); err != nil {
			return err
		}
		if err := p.AddChild(other); err != nil {
			return err
		}
		errors.Log(p.MoveChild(other, pos))
	}
	for len(n.children) > 0 {
		c := n.children[0]
		if err := n.RemoveChild(c); err != nil {
			return err
		}
		if err := ob.AddChild(c); err != nil {
			return err
		}
	}
	if owner != nil {
		errors.Log(ob.SetOwner(owner))
	}
	for _, o := range owned {
		errors.Log(o.AsTree().SetOwner(other))
	}
	for _, o := range ownedByOwner {
		errors.Log(o.AsTree().SetOwner(owner))
	}
	ob.sceneFile = n.sceneFile
	return nil
}
