// Copyright (c) 2020, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

const (
	// Continue = true can be returned from tree iteration functions to continue
	// processing down the tree, as compared to Break = false which stops this branch.
	Continue = true

	// Break = false can be returned from tree iteration functions to stop processing
	// this branch of the tree.
	Break = false
)

// WalkUp calls the given function on the node and all of its parents.
// It stops walking if the function returns [Break] and returns whether
// walking was finished.
func (n *NodeBase) WalkUp(fun func(n Node) bool) bool {
	for cur := n.This; cur != nil; cur = cur.AsTree().parent {
		if !fun(cur) {
			return false
		}
	}
	return true
}

// WalkDown calls the given function on the node and all of its descendants
// in tree order (depth first). It stops walking the current branch of the
// tree if the function returns [Break]. It is non-recursive. Nodes
// destroyed by the function are skipped.
func (n *NodeBase) WalkDown(fun func(n Node) bool) {
	if n.This == nil {
		return
	}
	tm := map[Node]int{} // traversal map: index of the current child
	start := n.This
	cur := start
	tm[cur] = -1
outer:
	for {
		cb := cur.AsTree()
		if cb.This != nil && fun(cur) && cb.This != nil && cb.HasChildren() {
			tm[cur] = 0
			cur = cb.children[0]
			tm[cur] = -1
			continue
		}
		tm[cur] = len(cb.children)
		// ascend: move to the right and then up
		for {
			cb := cur.AsTree()
			next := tm[cur] + 1
			if next < len(cb.children) {
				tm[cur] = next
				cur = cb.children[next]
				tm[cur] = -1
				continue outer
			}
			delete(tm, cur)
			if cur == start || cb.parent == nil {
				break outer
			}
			cur = cb.parent
		}
	}
}

// WalkDownPost calls the given function on the node and all of its
// descendants, calling it on each node after all of its children. The
// shouldContinue function decides whether the branch below a node is
// visited at all.
func (n *NodeBase) WalkDownPost(shouldContinue func(n Node) bool, fun func(n Node) bool) {
	if n.This == nil || !shouldContinue(n.This) {
		return
	}
	for _, c := range n.Children() {
		c.AsTree().WalkDownPost(shouldContinue, fun)
	}
	if n.This != nil {
		fun(n.This)
	}
}

// WalkDownBreadth calls the given function on the node and all of its
// descendants in breadth-first order. It stops walking the current branch
// of the tree if the function returns [Break].
func (n *NodeBase) WalkDownBreadth(fun func(n Node) bool) {
	queue := []Node{n.This}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == nil || cur.AsTree().This == nil || !fun(cur) {
			continue
		}
		queue = append(queue, cur.AsTree().children...)
	}
}

// Last returns the last node in the tree order of the subtree
// rooted at the given node.
func Last(n Node) Node {
	nb := n.AsTree()
	for nb.HasChildren() {
		nb = nb.children[len(nb.children)-1].AsTree()
	}
	return nb.This
}

// Previous returns the previous node in tree order,
// or nil if this is the root node.
func Previous(n Node) Node {
	nb := n.AsTree()
	if nb.parent == nil {
		return nil
	}
	if nb.index > 0 {
		return Last(nb.parent.AsTree().children[nb.index-1])
	}
	return nb.parent
}

// Next returns the next node in tree order,
// or nil if this is the last node.
func Next(n Node) Node {
	if nb := n.AsTree(); nb.HasChildren() {
		return nb.children[0]
	}
	return NextSibling(n)
}

// NextSibling returns the next sibling of the node, or the next sibling of
// its closest ancestor that has one, or nil.
func NextSibling(n Node) Node {
	for nb := n.AsTree(); nb.parent != nil; nb = nb.parent.AsTree() {
		pb := nb.parent.AsTree()
		if nb.index >= 0 && nb.index < len(pb.children)-1 {
			return pb.children[nb.index+1]
		}
	}
	return nil
}
