// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"cogentcore.org/livetree/base/errors"
	"cogentcore.org/livetree/base/ordmap"
	"cogentcore.org/livetree/config"
	"cogentcore.org/livetree/kinds"
)

// Tree is the coordinator of a live tree: it holds the root node, the
// group registry, and the deferred queues, and drives processing frame by
// frame. All nodes inside a tree refer to it. Apart from [Tree.CallDeferred]
// and [Tree.Quit], its methods and those of its nodes must only be called
// from the goroutine that drives its frames.
type Tree struct {
	root     Node
	settings *config.Settings
	naming   config.Naming
	factory  Factory
	fields   FieldSource
	logger   *slog.Logger
	metrics  *Metrics

	// groups is the group registry.
	groups map[string]*group

	// unique are the pending unique group calls.
	unique ordmap.Map[uniqueCall, pendingCall]

	// deleteQueue are the nodes to destroy at the end of the frame.
	deleteQueue []Node

	// messages are the deferred calls, guarded by mu.
	messages []func()
	mu       sync.Mutex

	// callLock is the number of realtime group dispatches in progress.
	callLock int

	// callSkip are the nodes that left the tree during the current
	// realtime group dispatches.
	callSkip map[Node]struct{}

	nodeCount    int
	frame        uint64
	version      uint64
	paused       bool
	quit         atomic.Bool
	processDelta float64
	fixedDelta   float64
	fixedAccum   float64

	onNodeAdded   []func(n Node)
	onNodeRemoved []func(n Node)
	onTreeChanged []func()
}

// Factory constructs new blank nodes of the same kind as existing nodes.
type Factory interface {
	NewNode(like Node) (Node, error)
}

// FieldSource enumerates and accesses the persisted fields of values.
type FieldSource interface {
	Fields(v any) []kinds.Field
	Get(v any, name string) (any, bool)
	Set(v any, name string, value any) error
}

func init() {
	kinds.AddValue(&NodeBase{})
	kinds.AddValue(&Viewport{})
}

// kindsFactory is the default [Factory], which uses the kinds registry.
type kindsFactory struct{}

func (kindsFactory) NewNode(like Node) (Node, error) {
	k := kinds.ByValue(like)
	if k == nil || k.New == nil {
		return nil, fmt.Errorf("%w: no constructor for %T", ErrConstructionFailed, like)
	}
	n, ok := k.New().(Node)
	if !ok || n == nil {
		return nil, fmt.Errorf("%w: kind %s did not construct a node", ErrConstructionFailed, k.Name)
	}
	return n, nil
}

// kindsFields is the default [FieldSource], which uses the kinds package.
type kindsFields struct{}

func (kindsFields) Fields(v any) []kinds.Field              { return kinds.Fields(v) }
func (kindsFields) Get(v any, name string) (any, bool)      { return kinds.Get(v, name) }
func (kindsFields) Set(v any, name string, value any) error { return kinds.Set(v, name, value) }

// fieldSource returns the field source for the node.
func (n *NodeBase) fieldSource() FieldSource {
	if n.tree != nil {
		return n.tree.fields
	}
	return kindsFields{}
}

// factory returns the factory for the node.
func (n *NodeBase) factory() Factory {
	if n.tree != nil {
		return n.tree.factory
	}
	return kindsFactory{}
}

// Option configures a [Tree] in [NewTree].
type Option func(t *Tree)

// WithSettings sets the settings of the tree, including its naming policy
// and fixed step.
func WithSettings(s *config.Settings) Option {
	return func(t *Tree) {
		t.settings = s
		t.naming = s.Naming
	}
}

// WithNaming sets the sibling naming policy of the tree.
func WithNaming(naming config.Naming) Option {
	return func(t *Tree) { t.naming = naming }
}

// WithFactory sets the factory used to construct copies of nodes.
func WithFactory(f Factory) Option {
	return func(t *Tree) { t.factory = f }
}

// WithFields sets the source of the persisted fields of nodes.
func WithFields(f FieldSource) Option {
	return func(t *Tree) { t.fields = f }
}

// WithMetrics sets the metrics that the tree records.
func WithMetrics(m *Metrics) Option {
	return func(t *Tree) { t.metrics = m }
}

// WithLogger sets the logger of the tree.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tree) { t.logger = l }
}

// NewTree returns a new tree with the given root, which enters the tree
// and becomes ready before NewTree returns. The root is initialized if
// needed and named "root" if it has no name. It returns an error wrapping
// [ErrInvalidOperation] if the root has a parent or is already inside a
// tree.
func NewTree(root Node, opts ...Option) (*Tree, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: nil root", ErrInvalidOperation)
	}
	rb := initNode(root)
	if rb.parent != nil || rb.tree != nil {
		return nil, fmt.Errorf("%w: %q can not be the root of a new tree", ErrInvalidOperation, rb.name)
	}
	t := &Tree{
		settings: config.Default(),
		groups:   map[string]*group{},
		callSkip: map[Node]struct{}{},
		factory:  kindsFactory{},
		fields:   kindsFields{},
		logger:   slog.Default(),
	}
	t.naming = t.settings.Naming
	for _, opt := range opts {
		opt(t)
	}
	t.fixedDelta = t.settings.FixedDelta()
	if rb.name == "" {
		rb.name = "root"
	}
	t.root = root
	rb.setTree(t)
	return t, nil
}

// Root returns the root node of the tree.
func (t *Tree) Root() Node {
	return t.root
}

// Settings returns the settings of the tree.
func (t *Tree) Settings() *config.Settings {
	return t.settings
}

// SetSettings replaces the settings of the tree, including its naming
// policy. The new fixed step applies from the next [Tree.Step]. It must be
// called from the goroutine that runs the tree, such as through
// [Tree.CallDeferred].
func (t *Tree) SetSettings(s *config.Settings) {
	t.settings = s
	t.naming = s.Naming
}

// Logger returns the logger of the tree.
func (t *Tree) Logger() *slog.Logger {
	return t.logger
}

// NodeCount returns the number of nodes inside the tree.
func (t *Tree) NodeCount() int {
	return t.nodeCount
}

// Frame returns the number of frames the tree has processed.
func (t *Tree) Frame() uint64 {
	return t.frame
}

// Version returns a number that changes whenever the structure of the tree
// changes: nodes entering or leaving, moving, or being renamed.
func (t *Tree) Version() uint64 {
	return t.version
}

// IsPaused returns whether the tree is paused.
func (t *Tree) IsPaused() bool {
	return t.paused
}

// SetPaused sets whether the tree is paused, delivering [NotifyPaused] or
// [NotifyUnpaused] to every node when it changes. While paused, only
// nodes for which [NodeBase.CanProcess] is true receive processing
// notifications.
func (t *Tree) SetPaused(paused bool) {
	if t.paused == paused {
		return
	}
	t.paused = paused
	what := NotifyUnpaused
	if paused {
		what = NotifyPaused
	}
	if t.root != nil {
		t.root.AsTree().PropagateNotification(what)
	}
}

// Quit requests that the frame loop stop after the current frame.
// It is safe to call from any goroutine.
func (t *Tree) Quit() {
	t.quit.Store(true)
}

// IsQuitting returns whether [Tree.Quit] has been called.
func (t *Tree) IsQuitting() bool {
	return t.quit.Load()
}

// OnNodeAdded adds a function that is called with each node that
// enters the tree.
func (t *Tree) OnNodeAdded(fun func(n Node)) {
	t.onNodeAdded = append(t.onNodeAdded, fun)
}

// OnNodeRemoved adds a function that is called with each node that
// exits the tree.
func (t *Tree) OnNodeRemoved(fun func(n Node)) {
	t.onNodeRemoved = append(t.onNodeRemoved, fun)
}

// OnTreeChanged adds a function that is called whenever the structure of
// the tree changes.
func (t *Tree) OnTreeChanged(fun func()) {
	t.onTreeChanged = append(t.onTreeChanged, fun)
}

func (t *Tree) nodeAdded(n Node) {
	t.nodeCount++
	t.metrics.setNodes(t.nodeCount)
	t.logger.Debug("node entered tree", "node", n)
	for _, f := range t.onNodeAdded {
		f(n)
	}
}

func (t *Tree) nodeRemoved(n Node) {
	t.nodeCount--
	t.metrics.setNodes(t.nodeCount)
	if t.callLock > 0 {
		t.callSkip[n] = struct{}{}
	}
	t.logger.Debug("node exiting tree", "node", n)
	for _, f := range t.onNodeRemoved {
		f(n)
	}
}

func (t *Tree) treeChanged() {
	t.version++
	for _, f := range t.onTreeChanged {
		f()
	}
}

// CallDeferred queues the given function to be called at the next flush
// of the tree, which happens before and after the processing of each
// frame and fixed step. Functions queued while flushing are called in the
// same flush. It is safe to call from any goroutine, and it is the way to
// change the structure of the tree from notification handlers.
func (t *Tree) CallDeferred(fun func()) {
	t.mu.Lock()
	t.messages = append(t.messages, fun)
	t.mu.Unlock()
}

// pushCall queues the given function for the given node, which is skipped
// if the node is destroyed before the flush.
func (t *Tree) pushCall(n Node, fun func()) {
	t.CallDeferred(func() {
		if isAlive(n) {
			fun()
		}
	})
}

// flushMessages calls the deferred functions until there are none left.
func (t *Tree) flushMessages() {
	for {
		t.mu.Lock()
		msgs := t.messages
		t.messages = nil
		t.mu.Unlock()
		if len(msgs) == 0 {
			return
		}
		for _, fun := range msgs {
			fun()
		}
	}
}

// flush runs the pending unique group calls and deferred functions.
func (t *Tree) flush() {
	t.flushUnique()
	t.flushMessages()
}

// QueueDelete queues the node to be destroyed at the end of the current
// frame of its tree. It returns an error wrapping [ErrDetached] if the
// node is not inside a tree.
func (n *NodeBase) QueueDelete() error {
	if !n.IsInsideTree() {
		return fmt.Errorf("%w: can not queue %q for deletion", ErrDetached, n.name)
	}
	if n.HasFlag(QueuedForDeletion) {
		return nil
	}
	n.setFlag(true, QueuedForDeletion)
	n.tree.deleteQueue = append(n.tree.deleteQueue, n.This)
	return nil
}

// IsQueuedForDeletion returns whether the node is queued for deletion.
func (n *NodeBase) IsQueuedForDeletion() bool {
	return n.HasFlag(QueuedForDeletion)
}

// flushDeleteQueue destroys the nodes queued for deletion, including
// those queued by the destruction of others.
func (t *Tree) flushDeleteQueue() {
	for len(t.deleteQueue) > 0 {
		q := t.deleteQueue
		t.deleteQueue = nil
		for _, n := range q {
			if !isAlive(n) {
				continue
			}
			n.Destroy()
			t.metrics.deleted()
		}
	}
}

// Iteration runs one fixed step of the given delta in seconds: it flushes
// the deferred calls, delivers [NotifyInternalFixedProcess] and
// [NotifyFixedProcess] to the nodes that opted into them and can process,
// flushes again, and destroys the nodes queued for deletion. It returns
// whether the tree should quit.
func (t *Tree) Iteration(delta float64) bool {
	t.fixedDelta = delta
	t.flush()
	t.notifyGroupPause(ProcessFixedInternal.groupName(nil), NotifyInternalFixedProcess)
	t.notifyGroupPause(ProcessFixed.groupName(nil), NotifyFixedProcess)
	t.flush()
	t.flushDeleteQueue()
	return t.IsQuitting()
}

// Idle runs one frame of the given delta in seconds: it flushes the
// deferred calls, delivers [NotifyInternalProcess] and [NotifyProcess]
// to the nodes that opted into them and can process, flushes again, and
// destroys the nodes queued for deletion. It returns whether the tree
// should quit.
func (t *Tree) Idle(delta float64) bool {
	start := time.Now()
	t.processDelta = delta
	t.flush()
	t.notifyGroupPause(ProcessFrameInternal.groupName(nil), NotifyInternalProcess)
	t.notifyGroupPause(ProcessFrame.groupName(nil), NotifyProcess)
	t.flush()
	t.flushDeleteQueue()
	t.frame++
	t.metrics.frame(time.Since(start))
	return t.IsQuitting()
}

// DeltaSource provides the time in seconds since the previous frame.
type DeltaSource interface {
	Delta() float64
}

// FixedDelta is a [DeltaSource] that always returns the same delta.
type FixedDelta float64

func (d FixedDelta) Delta() float64 {
	return float64(d)
}

// Clock is a [DeltaSource] that measures wall time between frames.
// The first delta is zero.
type Clock struct {
	last time.Time
}

func (c *Clock) Delta() float64 {
	now := time.Now()
	defer func() { c.last = now }()
	if c.last.IsZero() {
		return 0
	}
	return now.Sub(c.last).Seconds()
}

// Step runs one frame with the delta from the given source, preceded by
// as many fixed steps as fit into the accumulated time. It returns whether
// the tree should quit.
func (t *Tree) Step(src DeltaSource) bool {
	delta := src.Delta()
	fixed := t.settings.FixedDelta()
	t.fixedAccum += delta
	for t.fixedAccum >= fixed {
		t.fixedAccum -= fixed
		if t.Iteration(fixed) {
			return true
		}
	}
	return t.Idle(delta)
}

// Run steps the tree with the given delta source until it quits, the
// context is done, or the given number of frames has run (if frames > 0).
// It returns the error of the context if it is done.
func (t *Tree) Run(ctx context.Context, src DeltaSource, frames int) error {
	for i := 0; frames <= 0 || i < frames; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if t.Step(src) {
			break
		}
	}
	return nil
}

// Finish runs the remaining deferred calls and deletions, takes the root
// out of the tree, and destroys it.
func (t *Tree) Finish() {
	t.flush()
	t.flushDeleteQueue()
	if t.root == nil {
		return
	}
	root := t.root
	t.root = nil
	root.AsTree().setTree(nil)
	root.Destroy()
	if t.settings.QuitOnFinish {
		t.Quit()
	}
	errors.Log(t.checkEmpty())
}

// checkEmpty returns an error if nodes are still registered after the
// root has left the tree.
func (t *Tree) checkEmpty() error {
	if t.nodeCount != 0 || len(t.groups) != 0 {
		return fmt.Errorf("%w: %d nodes and %d groups left after finishing the tree", ErrPreconditionViolated, t.nodeCount, len(t.groups))
	}
	return nil
}
