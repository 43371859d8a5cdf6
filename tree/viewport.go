// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

// Viewport is a node that scopes input routing for its descendants:
// nodes that opt into input processing join the input groups of their
// closest viewport ancestor. The root of a tree is always a viewport
// scope, whatever its kind. Kinds that need their own scope embed
// Viewport instead of [NodeBase].
type Viewport struct {
	NodeBase
}

// viewportNode is implemented by nodes that embed [Viewport].
type viewportNode interface {
	Node
	isViewport()
}

func (v *Viewport) isViewport() {}

// Viewport returns the node that scopes input routing for this node,
// or nil if it is not inside a tree.
func (n *NodeBase) Viewport() Node {
	return n.viewport
}

// InputTargets returns the nodes inside the given viewport scope that have
// opted into the given kind of input processing, in tree order. It
// returns nil for kinds that are not input kinds.
func (t *Tree) InputTargets(viewport Node, kind ProcessKind) []Node {
	if viewport == nil || !kind.IsInput() {
		return nil
	}
	return t.NodesInGroup(kind.groupName(viewport))
}
