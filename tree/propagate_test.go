// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "cogentcore.org/livetree/tree"
	"cogentcore.org/livetree/tree/testdata"
)

// newSubtree returns a detached subtree a(a1(a11), a2) recording to ev.
func newSubtree(ev *testdata.Events) *testdata.Recorder {
	a := testdata.NewRecorder(nil, "a", ev)
	a1 := testdata.NewRecorder(a, "a1", ev)
	testdata.NewRecorder(a1, "a11", ev)
	testdata.NewRecorder(a, "a2", ev)
	return a
}

func TestEnterReadyExitOrder(t *testing.T) {
	ev := &testdata.Events{}
	root := testdata.NewRecorder(nil, "root", ev)
	tr, err := NewTree(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"root"}, ev.Names(NotifyEnterTree))
	assert.Equal(t, []string{"root"}, ev.Names(NotifyReady))
	assert.Equal(t, StateReady, root.State())

	a := newSubtree(ev)
	ev.Reset()
	require.NoError(t, root.AddChild(a))
	assert.Equal(t, "a:Parented", ev.List[0])
	assert.Equal(t, []string{"a", "a1", "a11", "a2"}, ev.Names(NotifyEnterTree))
	assert.Equal(t, []string{"a11", "a1", "a2", "a"}, ev.Names(NotifyReady))
	assert.Equal(t, 5, tr.NodeCount())
	a.WalkDown(func(k Node) bool {
		kb := k.AsTree()
		assert.True(t, kb.IsInsideTree())
		assert.True(t, kb.IsReady())
		assert.Equal(t, StateReady, kb.State())
		assert.Equal(t, tr, kb.Tree())
		assert.Equal(t, Node(root), kb.Viewport())
		return Continue
	})
	assert.Equal(t, 2, a.Depth())
	assert.Equal(t, 4, a.Child(0).AsTree().Child(0).AsTree().Depth())

	ev.Reset()
	require.NoError(t, root.RemoveChild(a))
	assert.Equal(t, []string{"a2", "a11", "a1", "a"}, ev.Names(NotifyExitTree))
	assert.Equal(t, []string{"a2", "a11", "a1", "a"}, ev.Names(NotifyExitedTree))
	assert.Equal(t, "a:Unparented", ev.List[len(ev.List)-1])
	assert.Equal(t, 1, tr.NodeCount())
	a.WalkDown(func(k Node) bool {
		kb := k.AsTree()
		assert.False(t, kb.IsInsideTree())
		assert.Nil(t, kb.Tree())
		assert.Equal(t, StateDetached, kb.State())
		assert.Equal(t, -1, kb.Depth())
		assert.True(t, kb.Path().IsEmpty())
		return Continue
	})
}

func TestReadyOnce(t *testing.T) {
	ev := &testdata.Events{}
	root := testdata.NewRecorder(nil, "root", ev)
	_, err := NewTree(root)
	require.NoError(t, err)
	a := newSubtree(ev)
	require.NoError(t, root.AddChild(a))
	require.NoError(t, root.RemoveChild(a))

	ev.Reset()
	require.NoError(t, root.AddChild(a))
	assert.Len(t, ev.Names(NotifyEnterTree), 4)
	assert.Empty(t, ev.Names(NotifyReady))
	require.NoError(t, root.RemoveChild(a))

	a.Child(1).AsTree().RequestReady()
	assert.False(t, a.Child(1).AsTree().IsReady())
	ev.Reset()
	require.NoError(t, root.AddChild(a))
	assert.Equal(t, []string{"a2"}, ev.Names(NotifyReady))
	assert.True(t, a.Child(1).AsTree().IsReady())
}

func TestStatesDuringPasses(t *testing.T) {
	root := NewRoot[*testdata.Recorder]("root")
	_, err := NewTree(root)
	require.NoError(t, err)
	var states []TreeState
	a := testdata.NewRecorder(nil, "a", nil)
	a.Hook = func(r *testdata.Recorder, what Notification) {
		switch what {
		case NotifyEnterTree, NotifyExitTree, NotifyReady, NotifyExitedTree:
			states = append(states, r.State())
		}
	}
	require.NoError(t, root.AddChild(a))
	require.NoError(t, root.RemoveChild(a))
	assert.Equal(t, []TreeState{StateEntering, StateReady, StateExiting, StateDetached}, states)
}

func TestAddDuringEnter(t *testing.T) {
	ev := &testdata.Events{}
	root := testdata.NewRecorder(nil, "root", ev)
	tr, err := NewTree(root)
	require.NoError(t, err)

	var siblingErr error
	var extraState TreeState
	a := testdata.NewRecorder(nil, "a", ev)
	a.Hook = func(r *testdata.Recorder, what Notification) {
		if what != NotifyEnterTree {
			return
		}
		// the parent is busy entering its children
		siblingErr = r.Parent().AsTree().AddChild(NewRoot[*NodeBase]("sibling"))
		tr.CallDeferred(func() {
			testdata.NewRecorder(r.Parent(), "late", ev)
		})
		// children can be added to the entering node itself
		extra := testdata.NewRecorder(r, "extra", ev)
		extraState = extra.State()
	}
	require.NoError(t, root.AddChild(a))
	assert.ErrorIs(t, siblingErr, ErrInvalidOperation)
	assert.Equal(t, StateAttached, extraState)
	assert.Equal(t, []string{"a", "extra"}, ev.Names(NotifyEnterTree))
	assert.Equal(t, []string{"extra", "a"}, ev.Names(NotifyReady))
	assert.Nil(t, root.ChildByName("late"))

	tr.Idle(0)
	assert.NotNil(t, root.ChildByName("late"))
	assert.Equal(t, []string{"a", "late"}, childNames(root))
}

func TestAddDuringExit(t *testing.T) {
	root := NewRoot[*NodeBase]("root")
	tr, err := NewTree(root)
	require.NoError(t, err)

	var exitErr, removedErr error
	var late *NodeBase
	r := testdata.NewRecorder(root, "r", nil)
	tr.OnNodeRemoved(func(n Node) {
		if n == Node(r) {
			removedErr = r.AddChild(NewRoot[*NodeBase]("hooked"))
		}
	})
	r.Hook = func(rr *testdata.Recorder, what Notification) {
		switch what {
		case NotifyExitTree:
			late = NewRoot[*NodeBase]("late")
			exitErr = rr.AddChild(late)
		case NotifyExitedTree:
			// the node is detached, so children no longer enter a tree
			require.NoError(t, rr.AddChild(late))
		}
	}
	require.NoError(t, root.RemoveChild(r))
	assert.ErrorIs(t, exitErr, ErrInvalidOperation)
	assert.ErrorIs(t, removedErr, ErrInvalidOperation)
	assert.Equal(t, 1, tr.NodeCount())
	assert.Equal(t, []string{"late"}, childNames(r))
	assert.False(t, late.IsInsideTree())
	assert.Nil(t, late.Tree())
	tr.Finish()
}

func TestPropagateNotificationAndCall(t *testing.T) {
	ev := &testdata.Events{}
	a := newSubtree(ev)
	ev.Reset()
	a.PropagateNotification(NotifyPaused)
	assert.Equal(t, []string{"a", "a1", "a11", "a2"}, ev.Names(NotifyPaused))

	root := NewRoot[*NodeBase]("root")
	x := New[*testdata.Actor](root, "x")
	mid := New[*NodeBase](x, "mid")
	y := New[*testdata.Actor](mid, "y")
	var order []string
	root.PropagateCall("Record", []any{1}, true)
	assert.Equal(t, []any{1}, x.Args)
	assert.Equal(t, []any{1}, y.Args)

	root.OnNotification(func(what Notification) {
		order = append(order, what.String())
	})
	root.PropagateNotification(NotifyUnpaused)
	assert.Equal(t, []string{"Unpaused"}, order)
}
