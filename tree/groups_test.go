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

// newActors returns a tree with the given number of actors in the
// "enemies" group, joined in reverse order.
func newActors(t *testing.T, n int) (*Tree, []*testdata.Actor) {
	root := NewRoot[*NodeBase]("root")
	tr, err := NewTree(root)
	require.NoError(t, err)
	as := make([]*testdata.Actor, n)
	for i := range as {
		as[i] = New[*testdata.Actor](root)
	}
	for i := n - 1; i >= 0; i-- {
		require.NoError(t, as[i].AddToGroup("enemies", true))
	}
	return tr, as
}

func names(ns []Node) []string {
	var res []string
	for _, n := range ns {
		res = append(res, n.AsTree().Name())
	}
	return res
}

func TestGroupMembership(t *testing.T) {
	n := NewRoot[*NodeBase]("n")
	assert.ErrorIs(t, n.AddToGroup("", false), ErrInvalidOperation)
	assert.ErrorIs(t, n.AddToGroup("__process", false), ErrInvalidOperation)
	require.NoError(t, n.AddToGroup("b", true))
	require.NoError(t, n.AddToGroup("a", false))
	require.NoError(t, n.AddToGroup("b", false)) // already in it
	n.SetProcess(true)
	assert.Equal(t, []GroupInfo{{Name: "b", Persistent: true}, {Name: "a"}}, n.Groups())
	assert.True(t, n.IsInGroup("a"))
	assert.True(t, n.IsInGroup("__process"))
	assert.True(t, n.HasPersistentGroups())

	require.NoError(t, n.RemoveFromGroup("b"))
	assert.ErrorIs(t, n.RemoveFromGroup("b"), ErrNotFound)
	assert.False(t, n.HasPersistentGroups())
}

func TestGroupRegistry(t *testing.T) {
	root := NewRoot[*NodeBase]("root")
	tr, err := NewTree(root)
	require.NoError(t, err)
	a := New[*NodeBase](root, "a")
	b := New[*NodeBase](a, "b")
	c := New[*NodeBase](root, "c")
	require.NoError(t, c.AddToGroup("g", false))
	require.NoError(t, b.AddToGroup("g", false))
	require.NoError(t, a.AddToGroup("g", false))
	assert.Equal(t, []string{"a", "b", "c"}, names(tr.NodesInGroup("g")))

	require.NoError(t, root.MoveChild(c, 0))
	assert.Equal(t, []string{"c", "a", "b"}, names(tr.NodesInGroup("g")))

	// detached members are registered when they enter
	d := NewRoot[*NodeBase]("d")
	require.NoError(t, d.AddToGroup("g", false))
	require.NoError(t, d.AddToGroup("other", false))
	assert.False(t, tr.HasGroup("other"))
	require.NoError(t, b.AddChild(d))
	assert.Equal(t, []string{"c", "a", "b", "d"}, names(tr.NodesInGroup("g")))
	assert.Equal(t, []string{"g", "other"}, tr.GroupNames())

	require.NoError(t, root.RemoveChild(a))
	assert.Equal(t, []string{"c"}, names(tr.NodesInGroup("g")))
	assert.False(t, tr.HasGroup("other"))
	assert.True(t, d.IsInGroup("other"))

	require.NoError(t, c.RemoveFromGroup("g"))
	assert.False(t, tr.HasGroup("g"))
	assert.Nil(t, tr.NodesInGroup("g"))
}

func TestCallGroup(t *testing.T) {
	tr, as := newActors(t, 3)
	for _, a := range as {
		a.Health = 10
	}
	tr.CallGroup("enemies", "take_damage", 3)
	assert.Equal(t, 10, as[0].Health)
	tr.Idle(0)
	for _, a := range as {
		assert.Equal(t, 7, a.Health)
	}

	tr.CallGroupFlags(GroupCallRealtime, "enemies", "TakeDamage", 2.0)
	assert.Equal(t, 5, as[2].Health)

	// unknown groups and members without the method are ignored
	tr.CallGroupFlags(GroupCallRealtime, "nobody", "TakeDamage", 1)
	New[*NodeBase](tr.Root()).AddToGroup("enemies", false)
	tr.CallGroupFlags(GroupCallRealtime, "enemies", "TakeDamage", 1)
	assert.Equal(t, 4, as[0].Health)
}

func TestCallGroupOrder(t *testing.T) {
	tr, as := newActors(t, 3)
	var order []string
	for _, a := range as {
		a.OnNotification(func(what Notification) {
			if what == NotifyPaused {
				order = append(order, a.Name())
			}
		})
	}
	tr.NotifyGroupFlags(GroupCallRealtime, "enemies", NotifyPaused)
	assert.Equal(t, []string{"Actor", "Actor2", "Actor3"}, order)

	order = nil
	tr.NotifyGroupFlags(GroupCallRealtime|GroupCallReverse, "enemies", NotifyPaused)
	assert.Equal(t, []string{"Actor3", "Actor2", "Actor"}, order)

	order = nil
	tr.NotifyGroup("enemies", NotifyPaused)
	assert.Empty(t, order)
	tr.Idle(0)
	assert.Equal(t, []string{"Actor", "Actor2", "Actor3"}, order)
}

func TestCallGroupUnique(t *testing.T) {
	tr, as := newActors(t, 2)
	tr.CallGroupFlags(GroupCallUnique, "enemies", "record", "a")
	tr.CallGroupFlags(GroupCallUnique, "enemies", "record", "b")
	tr.CallGroupFlags(GroupCallUnique|GroupCallRealtime, "enemies", "record", "now")
	assert.Equal(t, []any{"now"}, as[0].Args)
	tr.Idle(0)
	assert.Equal(t, []any{"now", "b"}, as[0].Args)
	assert.Equal(t, []any{"now", "b"}, as[1].Args)
	tr.Idle(0)
	assert.Equal(t, []any{"now", "b"}, as[1].Args)
}

func TestCallGroupMultilevel(t *testing.T) {
	tr, as := newActors(t, 2)
	sub := New[*testdata.Actor](as[0], "sub")
	New[*testdata.Actor](sub, "subsub")
	both := New[*testdata.Actor](as[1], "both")
	require.NoError(t, both.AddToGroup("enemies", false))

	tr.CallGroupFlags(GroupCallRealtime|GroupCallMultilevel, "enemies", "TakeDamage", 1)
	assert.Equal(t, 1, as[0].Hits)
	assert.Equal(t, 1, sub.Hits)
	assert.Equal(t, 1, sub.Child(0).(*testdata.Actor).Hits)
	assert.Equal(t, 1, both.Hits)

	tr.CallGroupFlags(GroupCallRealtime, "enemies", "TakeDamage", 1)
	assert.Equal(t, 1, sub.Hits)
}

func TestCallGroupSkipsRemoved(t *testing.T) {
	ev := &testdata.Events{}
	root := testdata.NewRecorder(nil, "root", ev)
	tr, err := NewTree(root)
	require.NoError(t, err)
	first := testdata.NewRecorder(root, "first", ev)
	second := testdata.NewRecorder(root, "second", ev)
	third := testdata.NewRecorder(root, "third", ev)
	for _, r := range []*testdata.Recorder{first, second, third} {
		require.NoError(t, r.AddToGroup("g", false))
	}
	first.Hook = func(r *testdata.Recorder, what Notification) {
		if what == NotifyPaused {
			require.NoError(t, root.RemoveChild(second))
			require.NoError(t, root.AddChild(second))
		}
	}
	ev.Reset()
	tr.NotifyGroupFlags(GroupCallRealtime, "g", NotifyPaused)
	assert.Equal(t, []string{"first", "third"}, ev.Names(NotifyPaused))

	// the skip set only lasts for the dispatch
	ev.Reset()
	first.Hook = nil
	tr.NotifyGroupFlags(GroupCallRealtime, "g", NotifyPaused)
	assert.Equal(t, []string{"first", "third", "second"}, ev.Names(NotifyPaused))
}

func TestDeferredCallSkipsDestroyed(t *testing.T) {
	tr, as := newActors(t, 2)
	tr.CallGroup("enemies", "TakeDamage", 1)
	as[1].Destroy()
	tr.Idle(0)
	assert.Equal(t, 1, as[0].Hits)
	assert.Equal(t, 0, as[1].Hits)
}

func TestSetGroup(t *testing.T) {
	tr, as := newActors(t, 2)
	New[*NodeBase](tr.Root()).AddToGroup("enemies", false)
	tr.SetGroup("enemies", "Speed", 2)
	assert.Zero(t, as[0].Speed)
	tr.Idle(0)
	assert.Equal(t, 2.0, as[0].Speed)
	tr.SetGroupFlags(GroupCallRealtime, "enemies", "Tags", []string{"boss"})
	assert.Equal(t, []string{"boss"}, as[1].Tags)
}

func TestCall(t *testing.T) {
	a := NewRoot[*testdata.Actor]("a")
	a.Health = 10
	_, err := Call(a, "take_damage", 4)
	require.NoError(t, err)
	assert.Equal(t, 6, a.Health)
	_, err = Call(a, "Record")
	require.NoError(t, err)
	_, err = Call(a, "Record", 1, "x", nil)
	require.NoError(t, err)
	assert.Equal(t, []any{1, "x", nil}, a.Args)

	_, err = Call(a, "Fly")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = Call(a, "TakeDamage")
	assert.ErrorIs(t, err, ErrInvalidOperation)
	_, err = Call(a, "TakeDamage", "lots")
	assert.ErrorIs(t, err, ErrInvalidOperation)
	_, err = Call(nil, "TakeDamage", 1)
	assert.ErrorIs(t, err, ErrInvalidOperation)

	assert.True(t, HasMethod(a, "take_damage"))
	assert.False(t, HasMethod(a, "fly"))
}

func TestInputGroups(t *testing.T) {
	root := NewRoot[*NodeBase]("root")
	tr, err := NewTree(root)
	require.NoError(t, err)
	level := New[*testdata.Level](root, "level")
	a := New[*NodeBase](level, "a")
	b := New[*NodeBase](root, "b")
	a.SetProcessing(ProcessInput, true)
	b.SetProcessing(ProcessInput, true)
	b.SetProcessing(ProcessUnhandledKeyInput, true)

	assert.Equal(t, Node(level), a.Viewport())
	assert.Equal(t, Node(level), level.AsTree().Viewport())
	assert.Equal(t, Node(root), b.Viewport())
	assert.Equal(t, []string{"a"}, names(tr.InputTargets(level, ProcessInput)))
	assert.Equal(t, []string{"b"}, names(tr.InputTargets(root, ProcessInput)))
	assert.Equal(t, []string{"b"}, names(tr.InputTargets(root, ProcessUnhandledKeyInput)))
	assert.Nil(t, tr.InputTargets(root, ProcessFrame))
	assert.Empty(t, a.Groups())

	// input groups follow the viewport
	require.NoError(t, level.RemoveChild(a))
	assert.Nil(t, tr.InputTargets(level, ProcessInput))
	assert.Nil(t, a.Viewport())
	require.NoError(t, root.AddChild(a))
	assert.Equal(t, []string{"b", "a"}, names(tr.InputTargets(root, ProcessInput)))

	a.SetProcessing(ProcessInput, false)
	assert.Equal(t, []string{"b"}, names(tr.InputTargets(root, ProcessInput)))
	assert.True(t, b.IsProcessing(ProcessUnhandledKeyInput))
	assert.False(t, b.IsProcessing(ProcessUnhandledInput))
}
