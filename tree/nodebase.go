// Copyright (c) 2018, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync/atomic"

	"cogentcore.org/livetree/base/bitflag"
	"cogentcore.org/livetree/base/errors"
	"cogentcore.org/livetree/base/ordmap"
	"cogentcore.org/livetree/kinds"
	"cogentcore.org/livetree/nodepath"
)

// NodeBase implements the [Node] interface and provides the core functionality
// of the live tree. You must use NodeBase as an embedded struct in all
// higher-level node kinds.
//
// All nodes must be initialized by [New], [NewRoot], [NewTree], or by being
// added to a parent with [NodeBase.AddChild]. This ensures that the
// [NodeBase.This] field is set correctly and the [Node.Init] method is called.
//
// The exported fields of higher-level kinds are their persisted fields,
// which are copied by [NodeBase.Duplicate]. NodeBase keeps all of its own
// state unexported.
type NodeBase struct {

	// This is the value of this Node as its true underlying type. This allows methods
	// defined on base types to call methods defined on higher-level types, which
	// is necessary for notifications and destruction. It is set to nil when
	// the node is destroyed.
	This Node `copier:"-" json:"-" dup:"-"`

	// name is the name of the node, unique among its siblings.
	name string

	// parent is the parent of the node, or nil for roots and detached nodes.
	parent Node

	// children are the children of the node, in order.
	children []Node

	// index is the index of the node in the children of its parent,
	// or -1 if it has no parent.
	index int

	// owner is the ancestor that owns the node, if any.
	owner Node

	// owned are the nodes that this node owns.
	owned map[Node]struct{}

	// depth is the 1-based depth of the node in its tree, or -1 when detached.
	depth int

	// groups are the groups the node has joined, in the order joined.
	groups ordmap.Map[string, *membership]

	// pauseMode is the pause policy of the node.
	pauseMode PauseMode

	// pauseOwner is the node whose pause policy applies to this node.
	pauseOwner Node

	// pathCache is the absolute path of the node, computed on demand.
	pathCache nodepath.Path

	// tree is the tree the node is inside of, if any.
	tree *Tree

	// viewport is the node that scopes input routing for this node.
	viewport Node

	// flags are the [Flags] of the node.
	flags int64

	// process are the [ProcessKind] flags of the node.
	process int64

	// blocked is the number of traversals over the children of the node
	// in progress. Children can not be added, moved, or removed while it
	// is above zero.
	blocked int

	// state is the tree membership state of the node.
	state TreeState

	// id is the unique id of the node.
	id uint64

	// numLifetimeChildren is the number of children that have ever been
	// added to this node.
	numLifetimeChildren uint64

	// uniqueNames is the counter for fast unique child names.
	uniqueNames uint64

	// sceneFile is the scene file the node was instanced from, if any.
	sceneFile string

	// connections are the outgoing signal connections of the node.
	connections []*Connection

	// incoming are the signal connections that target the node.
	incoming []*Connection

	// listeners are the notification listeners of the node.
	listeners []func(what Notification)
}

// lastID is the last node id that was assigned.
var lastID atomic.Uint64

// String implements the [fmt.Stringer] interface by returning the path of
// the node, or its name if it is not inside a tree.
func (n *NodeBase) String() string {
	if n == nil || n.This == nil {
		return "nil"
	}
	if n.IsInsideTree() {
		return n.Path().String()
	}
	return n.name
}

// AsTree returns the [NodeBase] for this Node.
func (n *NodeBase) AsTree() *NodeBase {
	return n
}

// Init implements [Node.Init]. It does nothing.
func (n *NodeBase) Init() {}

// ID returns the unique id of the node.
func (n *NodeBase) ID() uint64 {
	return n.id
}

// Kind returns the [kinds.Kind] of the node, registering it if needed.
func (n *NodeBase) Kind() *kinds.Kind {
	return kinds.ByValue(n.This)
}

// Name returns the name of the node.
func (n *NodeBase) Name() string {
	return n.name
}

// Parent returns the parent of the node, or nil.
func (n *NodeBase) Parent() Node {
	return n.parent
}

// IndexInParent returns the index of the node in the children of its
// parent, or -1 if it has no parent.
func (n *NodeBase) IndexInParent() int {
	return n.index
}

// Depth returns the 1-based depth of the node in its tree,
// or -1 if it is not inside a tree.
func (n *NodeBase) Depth() int {
	return n.depth
}

// HasChildren returns whether the node has any children.
func (n *NodeBase) HasChildren() bool {
	return len(n.children) > 0
}

// NumChildren returns the number of children of the node.
func (n *NodeBase) NumChildren() int {
	return len(n.children)
}

// NumLifetimeChildren returns the number of children that have ever been
// added to the node.
func (n *NodeBase) NumLifetimeChildren() uint64 {
	return n.numLifetimeChildren
}

// Child returns the child of the node at the given index, or nil if the
// index is out of range.
func (n *NodeBase) Child(i int) Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Children returns a new slice with the children of the node.
func (n *NodeBase) Children() []Node {
	return append([]Node(nil), n.children...)
}

// ChildByName returns the child with the given name, or nil.
func (n *NodeBase) ChildByName(name string) Node {
	for _, c := range n.children {
		if c.AsTree().name == name {
			return c
		}
	}
	return nil
}

// Tree returns the tree the node is inside of, or nil.
func (n *NodeBase) Tree() *Tree {
	return n.tree
}

// IsInsideTree returns whether the node is inside a running tree.
func (n *NodeBase) IsInsideTree() bool {
	return n.HasFlag(InsideTree)
}

// IsReady returns whether the node has received its ready notification
// and has not requested another one.
func (n *NodeBase) IsReady() bool {
	return !n.HasFlag(ReadyFirst)
}

// State returns the tree membership state of the node.
func (n *NodeBase) State() TreeState {
	return n.state
}

// IsBlocked returns whether the children of the node are being traversed,
// in which case they can not be changed.
func (n *NodeBase) IsBlocked() bool {
	return n.blocked > 0
}

// HasFlag returns whether the node has the given flag set.
func (n *NodeBase) HasFlag(flag Flags) bool {
	return bitflag.Has(n.flags, flag)
}

// setFlag sets the given flag(s) to the given state.
func (n *NodeBase) setFlag(on bool, flag ...Flags) {
	bitflag.SetState(&n.flags, on, flag...)
}

// SceneFile returns the scene file that the node was instanced from.
// Nodes with a scene file are the roots of nested instances.
func (n *NodeBase) SceneFile() string {
	return n.sceneFile
}

// SetSceneFile sets the scene file that the node was instanced from.
func (n *NodeBase) SetSceneFile(file string) {
	n.sceneFile = file
}

// RequestReady requests that the node receive another ready notification
// the next time the ready pass reaches it.
func (n *NodeBase) RequestReady() {
	n.setFlag(true, ReadyFirst)
}

// logger returns the logger of the tree of the node, or the default logger.
func (n *NodeBase) logger() *slog.Logger {
	if n.tree != nil {
		return n.tree.logger
	}
	return slog.Default()
}

// initNode initializes the given node if it is not already initialized,
// setting [NodeBase.This] and calling [Node.Init].
func initNode(this Node) *NodeBase {
	n := this.AsTree()
	if n.This == this || n.HasFlag(Destroyed) {
		return n
	}
	n.This = this
	n.id = lastID.Add(1)
	n.index = -1
	n.depth = -1
	n.setFlag(true, ReadyFirst)
	n.setFlag(true, Initializing)
	this.Init()
	n.setFlag(false, Initializing)
	return n
}

// InitNode initializes the given node and sets its name, if non-empty.
// It is only needed for nodes that are constructed directly instead of
// with [New] or [NewRoot]; [NodeBase.AddChild] and [NewTree] call it
// automatically.
func InitNode(n Node, name ...string) {
	nb := initNode(n)
	if len(name) > 0 && name[0] != "" {
		errors.Log(nb.SetName(name[0]))
	}
}

// newOfType returns a new instance of the given node type.
func newOfType[T Node]() T {
	typ := reflect.TypeFor[T]()
	if typ.Kind() != reflect.Pointer {
		panic(fmt.Sprintf("tree: node type %v must be a pointer type", typ))
	}
	return reflect.New(typ.Elem()).Interface().(T)
}

// NewRoot returns a new initialized node of the given type with the given
// name, which has no parent and is not inside a tree.
func NewRoot[T Node](name ...string) T {
	n := newOfType[T]()
	InitNode(n, name...)
	return n
}

// New returns a new initialized node of the given type with the given
// name, added as a child of the given parent. Errors from adding the
// child are logged, in which case the node has no parent.
func New[T Node](parent Node, name ...string) T {
	n := NewRoot[T](name...)
	errors.Log(parent.AsTree().AddChild(n))
	return n
}

// Destroy implements [Node.Destroy]. It delivers [NotifyPredelete], clears
// the owner relationships of the node, removes it from its parent,
// destroys all of its children, and disconnects all of its signals.
// It panics with [ErrPreconditionViolated] if the node still has a parent
// or children after that, which happens when it is destroyed while its
// parent or itself is being traversed.
func (n *NodeBase) Destroy() {
	if n.HasFlag(Destroyed) || n.This == nil {
		return
	}
	n.notify(NotifyPredelete)
	errors.Log(n.SetOwner(nil))
	for o := range n.owned {
		errors.Log(o.AsTree().SetOwner(nil))
	}
	if n.parent != nil {
		errors.Log(n.parent.AsTree().RemoveChild(n.This))
	} else if n.tree != nil {
		n.setTree(nil)
	}
	for len(n.children) > 0 {
		c := n.children[0]
		if errors.Log(n.RemoveChild(c)) != nil {
			break
		}
		c.Destroy()
	}
	n.disconnectAll()
	if n.parent != nil || len(n.children) > 0 {
		panic(fmt.Errorf("%w: destroying %q while it still has a parent or children", ErrPreconditionViolated, n.name))
	}
	n.setFlag(true, Destroyed)
	n.listeners = nil
	n.This = nil
}

// isAlive returns whether the given node has been initialized and not destroyed.
func isAlive(n Node) bool {
	if n == nil {
		return false
	}
	nb := n.AsTree()
	return nb.This != nil && !nb.HasFlag(Destroyed)
}
