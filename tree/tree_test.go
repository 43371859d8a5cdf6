// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"cogentcore.org/livetree/config"
	. "cogentcore.org/livetree/tree"
	"cogentcore.org/livetree/tree/testdata"
)

func TestNewTreeErrors(t *testing.T) {
	_, err := NewTree(nil)
	assert.ErrorIs(t, err, ErrInvalidOperation)

	p := NewRoot[*NodeBase]("p")
	c := New[*NodeBase](p, "c")
	_, err = NewTree(c)
	assert.ErrorIs(t, err, ErrInvalidOperation)

	tr, err := NewTree(p)
	require.NoError(t, err)
	assert.Equal(t, Node(p), tr.Root())
	_, err = NewTree(p)
	assert.ErrorIs(t, err, ErrInvalidOperation)
	assert.Equal(t, 2, tr.NodeCount())
	assert.Equal(t, 60, tr.Settings().PhysicsFPS)
	assert.NotNil(t, tr.Logger())
}

func TestIdleOrder(t *testing.T) {
	ev := &testdata.Events{}
	root := testdata.NewRecorder(nil, "root", ev)
	tr, err := NewTree(root)
	require.NoError(t, err)
	n := testdata.NewRecorder(root, "n", ev)
	n.SetProcess(true)
	n.SetProcessing(ProcessFrameInternal, true)
	var delta float64
	n.Hook = func(r *testdata.Recorder, what Notification) {
		if what == NotifyProcess {
			delta = r.ProcessDelta()
			tr.CallDeferred(func() { ev.List = append(ev.List, "after") })
		}
	}
	tr.CallDeferred(func() { ev.List = append(ev.List, "before") })
	ev.Reset()
	assert.False(t, tr.Idle(0.5))
	assert.Equal(t, []string{"before", "n:InternalProcess", "n:Process", "after"}, ev.List)
	assert.Equal(t, 0.5, delta)
	assert.Equal(t, uint64(1), tr.Frame())

	n.SetProcess(false)
	ev.Reset()
	tr.Idle(0.5)
	assert.Equal(t, []string{"n:InternalProcess"}, ev.List)
}

func TestIteration(t *testing.T) {
	ev := &testdata.Events{}
	root := testdata.NewRecorder(nil, "root", ev)
	tr, err := NewTree(root)
	require.NoError(t, err)
	n := testdata.NewRecorder(root, "n", ev)
	n.SetFixedProcess(true)
	n.SetProcessing(ProcessFixedInternal, true)
	ev.Reset()
	tr.Iteration(0.25)
	assert.Equal(t, []string{"n:InternalFixedProcess", "n:FixedProcess"}, ev.List)
	assert.Equal(t, 0.25, n.FixedProcessDelta())
	assert.Equal(t, uint64(0), tr.Frame())
	assert.Zero(t, NewRoot[*NodeBase]().FixedProcessDelta())
}

func TestQueueDelete(t *testing.T) {
	ev := &testdata.Events{}
	root := testdata.NewRecorder(nil, "root", ev)
	tr, err := NewTree(root)
	require.NoError(t, err)
	a := testdata.NewRecorder(root, "a", ev)
	b := testdata.NewRecorder(root, "b", ev)
	a.Hook = func(r *testdata.Recorder, what Notification) {
		if what == NotifyPredelete {
			require.NoError(t, b.QueueDelete())
		}
	}
	assert.ErrorIs(t, NewRoot[*NodeBase]().QueueDelete(), ErrDetached)

	require.NoError(t, a.QueueDelete())
	require.NoError(t, a.QueueDelete())
	assert.True(t, a.IsQueuedForDeletion())
	assert.Equal(t, 3, tr.NodeCount())
	tr.Idle(0)
	assert.True(t, a.HasFlag(Destroyed))
	assert.True(t, b.HasFlag(Destroyed))
	assert.Equal(t, 1, tr.NodeCount())
	assert.Equal(t, []string{"a", "b"}, ev.Names(NotifyPredelete))
}

func TestStep(t *testing.T) {
	ev := &testdata.Events{}
	root := testdata.NewRecorder(nil, "root", ev)
	settings := config.Default()
	settings.PhysicsFPS = 4
	tr, err := NewTree(root, WithSettings(settings))
	require.NoError(t, err)
	root.SetFixedProcess(true)
	root.SetProcess(true)

	count := func() (int, int) {
		f, p := len(ev.Names(NotifyFixedProcess)), len(ev.Names(NotifyProcess))
		ev.Reset()
		return f, p
	}
	tr.Step(FixedDelta(0.5))
	f, p := count()
	assert.Equal(t, 2, f)
	assert.Equal(t, 1, p)
	tr.Step(FixedDelta(0.125))
	f, _ = count()
	assert.Equal(t, 0, f)
	tr.Step(FixedDelta(0.125))
	f, _ = count()
	assert.Equal(t, 1, f)
	assert.Equal(t, uint64(3), tr.Frame())
}

func TestRun(t *testing.T) {
	root := NewRoot[*testdata.Recorder]("root")
	tr, err := NewTree(root)
	require.NoError(t, err)
	require.NoError(t, tr.Run(context.Background(), FixedDelta(0.01), 3))
	assert.Equal(t, uint64(3), tr.Frame())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, tr.Run(ctx, &Clock{}, 0), context.Canceled)
	assert.Equal(t, uint64(3), tr.Frame())

	root.SetProcess(true)
	root.Hook = func(r *testdata.Recorder, what Notification) {
		if what == NotifyProcess && r.Tree().Frame() == 4 {
			r.Tree().Quit()
		}
	}
	require.NoError(t, tr.Run(context.Background(), &Clock{}, 0))
	assert.Equal(t, uint64(5), tr.Frame())
	assert.True(t, tr.IsQuitting())
}

func TestClock(t *testing.T) {
	c := &Clock{}
	assert.Zero(t, c.Delta())
	assert.GreaterOrEqual(t, c.Delta(), 0.0)
}

func TestFinish(t *testing.T) {
	ev := &testdata.Events{}
	root := testdata.NewRecorder(nil, "root", ev)
	tr, err := NewTree(root)
	require.NoError(t, err)
	a := testdata.NewRecorder(root, "a", ev)
	require.NoError(t, a.AddToGroup("g", false))
	ran := false
	tr.CallDeferred(func() { ran = true })
	ev.Reset()
	tr.Finish()
	assert.True(t, ran)
	assert.Equal(t, []string{"a", "root"}, ev.Names(NotifyExitTree))
	assert.Equal(t, []string{"root", "a"}, ev.Names(NotifyPredelete))
	assert.Equal(t, 0, tr.NodeCount())
	assert.False(t, tr.HasGroup("g"))
	assert.Nil(t, tr.Root())
	assert.True(t, tr.IsQuitting())
	tr.Finish()
}

func TestTreeHooks(t *testing.T) {
	root := NewRoot[*NodeBase]("root")
	tr, err := NewTree(root)
	require.NoError(t, err)
	var added, removed []string
	changes := 0
	tr.OnNodeAdded(func(n Node) { added = append(added, n.AsTree().Name()) })
	tr.OnNodeRemoved(func(n Node) { removed = append(removed, n.AsTree().Name()) })
	tr.OnTreeChanged(func() { changes++ })

	a := New[*NodeBase](root, "a")
	New[*NodeBase](a, "b")
	require.NoError(t, root.RemoveChild(a))
	assert.Equal(t, []string{"a", "b"}, added)
	assert.Equal(t, []string{"b", "a"}, removed)
	assert.Positive(t, changes)
}

func TestCallDeferredConcurrent(t *testing.T) {
	root := NewRoot[*NodeBase]("root")
	tr, err := NewTree(root)
	require.NoError(t, err)
	count := 0
	var g errgroup.Group
	for range 8 {
		g.Go(func() error {
			for range 100 {
				tr.CallDeferred(func() { count++ })
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	tr.Idle(0)
	assert.Equal(t, 800, count)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	root := NewRoot[*NodeBase]("root")
	tr, err := NewTree(root, WithMetrics(m))
	require.NoError(t, err)
	a := New[*testdata.Actor](root, "a")
	New[*testdata.Actor](root, "b")
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Nodes))

	require.NoError(t, a.AddToGroup("g", false))
	tr.CallGroup("g", "TakeDamage", 1)
	tr.CallGroupFlags(GroupCallUnique, "g", "TakeDamage", 1)
	require.NoError(t, a.QueueDelete())
	tr.Idle(0.01)
	tr.Idle(0.01)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Frames))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Deleted))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Nodes))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GroupCalls.WithLabelValues("deferred")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GroupCalls.WithLabelValues("unique")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GroupCalls.WithLabelValues("realtime")))
	assert.Equal(t, 2, a.Hits)
	assert.Equal(t, 1, testutil.CollectAndCount(m.FrameSeconds))
}

func TestPrintTree(t *testing.T) {
	root := NewRoot[*NodeBase]("root")
	_, err := NewTree(root)
	require.NoError(t, err)
	a := New[*testdata.Actor](root, "a")
	b := New[*NodeBase](a, "b")
	require.NoError(t, b.SetOwner(root))
	require.NoError(t, a.AddToGroup("enemies", false))
	want := `root (NodeBase)
  a (Actor) groups=[enemies]
    b (NodeBase) owner=../..
`
	assert.Equal(t, want, root.TreeString())
}

func TestSetSettings(t *testing.T) {
	root := NewRoot[*NodeBase]("root")
	tr, err := NewTree(root)
	require.NoError(t, err)
	root.SetFixedProcess(true)
	s := config.Default()
	s.PhysicsFPS = 2
	s.Naming.Separator = config.SeparatorUnderscore
	tr.CallDeferred(func() { tr.SetSettings(s) })
	tr.Step(FixedDelta(0))
	assert.Equal(t, 2, tr.Settings().PhysicsFPS)
	New[*NodeBase](root, "a")
	b := New[*NodeBase](root, "a")
	assert.Equal(t, "a_2", b.Name())
}
