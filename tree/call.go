// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/iancoleman/strcase"

	"cogentcore.org/livetree/base/errors"
)

// GroupCallFlags are bit flags that control how a group call is dispatched.
type GroupCallFlags int64

const (
	// GroupCallDefault calls the members in tree order at the next flush.
	GroupCallDefault GroupCallFlags = 0

	// GroupCallReverse calls the members in reverse tree order.
	GroupCallReverse GroupCallFlags = 1

	// GroupCallRealtime calls the members immediately instead of at the
	// next flush.
	GroupCallRealtime GroupCallFlags = 2

	// GroupCallUnique merges the call with any other call to the same
	// method of the same group before the next flush, so that it happens
	// once with the most recent arguments. It has no effect on realtime
	// calls.
	GroupCallUnique GroupCallFlags = 4

	// GroupCallMultilevel also calls every descendant of each member,
	// whether or not the descendant is in the group itself. Each node is
	// called at most once, and members nested in other members are not
	// called twice.
	GroupCallMultilevel GroupCallFlags = 8
)

// uniqueCall identifies a pending unique group call.
type uniqueCall struct {
	group  string
	method string
}

// pendingCall is the latest state of a pending unique group call.
type pendingCall struct {
	flags GroupCallFlags
	args  []any
}

// CallGroup calls the given method on the members of the given group, in
// tree order, at the next flush. See [Tree.CallGroupFlags].
func (t *Tree) CallGroup(name, method string, args ...any) {
	t.CallGroupFlags(GroupCallDefault, name, method, args...)
}

// CallGroupFlags calls the given method with the given arguments on the
// members of the given group, as determined by the flags. Calls to a group
// with no members do nothing. Members that do not have the method are
// skipped; other call errors are logged. Members that leave the tree
// during a realtime call are skipped. See [Call] for how methods are found.
func (t *Tree) CallGroupFlags(flags GroupCallFlags, name, method string, args ...any) {
	if flags&GroupCallUnique != 0 && flags&GroupCallRealtime == 0 {
		t.unique.Add(uniqueCall{group: name, method: method}, pendingCall{flags: flags, args: args})
		t.metrics.groupCall("unique")
		return
	}
	t.dispatch(flags, name, func(k Node) {
		if !HasMethod(k, method) {
			return
		}
		_, err := Call(k, method, args...)
		errors.Log(err)
	})
}

// NotifyGroup delivers the given notification to the members of the given
// group at the next flush. See [Tree.NotifyGroupFlags].
func (t *Tree) NotifyGroup(name string, what Notification) {
	t.NotifyGroupFlags(GroupCallDefault, name, what)
}

// NotifyGroupFlags delivers the given notification to the members of the
// given group, as determined by the flags. [GroupCallUnique] does not
// apply to notifications.
func (t *Tree) NotifyGroupFlags(flags GroupCallFlags, name string, what Notification) {
	t.dispatch(flags, name, func(k Node) {
		k.AsTree().notify(what)
	})
}

// SetGroup sets the given field to the given value on the members of the
// given group at the next flush. See [Tree.SetGroupFlags].
func (t *Tree) SetGroup(name, field string, value any) {
	t.SetGroupFlags(GroupCallDefault, name, field, value)
}

// SetGroupFlags sets the given field to the given value on the members
// of the given group, as determined by the flags. Members without the
// field are skipped. [GroupCallUnique] does not apply to fields.
func (t *Tree) SetGroupFlags(flags GroupCallFlags, name, field string, value any) {
	t.dispatch(flags, name, func(k Node) {
		if _, ok := t.fields.Get(k, field); !ok {
			return
		}
		errors.Log(t.fields.Set(k, field, value))
	})
}

// dispatch applies the given function to the members of the given group.
func (t *Tree) dispatch(flags GroupCallFlags, name string, fun func(k Node)) {
	g := t.groups[name]
	if g == nil {
		return
	}
	t.reorderIfDirty(name, g)
	nodes := slices.Clone(g.nodes)
	if flags&GroupCallMultilevel != 0 {
		nodes = expandMultilevel(nodes)
	}
	if flags&GroupCallReverse != 0 {
		slices.Reverse(nodes)
	}
	if flags&GroupCallRealtime == 0 {
		t.metrics.groupCall("deferred")
		for _, k := range nodes {
			t.pushCall(k, func() { fun(k) })
		}
		return
	}
	t.metrics.groupCall("realtime")
	t.callLock++
	for _, k := range nodes {
		if _, skip := t.callSkip[k]; skip || !isAlive(k) {
			continue
		}
		fun(k)
	}
	t.callLock--
	if t.callLock == 0 {
		clear(t.callSkip)
	}
}

// expandMultilevel returns the given nodes, each followed by its
// descendants, with every node at most once.
func expandMultilevel(nodes []Node) []Node {
	seen := make(map[Node]bool, len(nodes))
	var res []Node
	for _, k := range nodes {
		k.AsTree().WalkDown(func(d Node) bool {
			if !seen[d] {
				seen[d] = true
				res = append(res, d)
			}
			return Continue
		})
	}
	return res
}

// notifyGroupPause delivers the given notification immediately to the
// members of the given group that can process, in tree order.
func (t *Tree) notifyGroupPause(name string, what Notification) {
	g := t.groups[name]
	if g == nil {
		return
	}
	t.reorderIfDirty(name, g)
	nodes := slices.Clone(g.nodes)
	t.callLock++
	for _, k := range nodes {
		if _, skip := t.callSkip[k]; skip || !isAlive(k) {
			continue
		}
		if !k.AsTree().CanProcess() {
			continue
		}
		k.AsTree().notify(what)
	}
	t.callLock--
	if t.callLock == 0 {
		clear(t.callSkip)
	}
}

// flushUnique runs the pending unique group calls as realtime calls.
// Unique calls made while flushing wait for the next flush.
func (t *Tree) flushUnique() {
	for _, kv := range t.unique.Drain() {
		flags := (kv.Value.flags | GroupCallRealtime) &^ GroupCallUnique
		t.CallGroupFlags(flags, kv.Key.group, kv.Key.method, kv.Value.args...)
	}
}

// methodName returns the name of the method of the given value that
// matches the given name (eg: take_damage or TakeDamage), or "".
func methodName(v reflect.Value, name string) string {
	if v.MethodByName(name).IsValid() {
		return name
	}
	if cn := strcase.ToCamel(name); v.MethodByName(cn).IsValid() {
		return cn
	}
	return ""
}

// HasMethod returns whether the given node has an exported method that
// [Call] can find with the given name.
func HasMethod(n Node, method string) bool {
	return n != nil && methodName(reflect.ValueOf(n), method) != ""
}

// Call calls the exported method with the given name on the given node,
// converting the arguments to the parameter types where needed. The
// method name can be given in Go form (TakeDamage) or snake case
// (take_damage). It returns the results of the method. If the last result
// is a non-nil error, it is also returned as the error. It returns an
// error wrapping [ErrNotFound] if there is no such method and one wrapping
// [ErrInvalidOperation] if the arguments do not fit its parameters.
func Call(n Node, method string, args ...any) ([]any, error) {
	if n == nil {
		return nil, fmt.Errorf("%w: calling %q on a nil node", ErrInvalidOperation, method)
	}
	v := reflect.ValueOf(n)
	name := methodName(v, method)
	if name == "" {
		return nil, fmt.Errorf("%w: %T has no method %q", ErrNotFound, n, method)
	}
	m := v.MethodByName(name)
	mt := m.Type()
	nin := mt.NumIn()
	if (!mt.IsVariadic() && len(args) != nin) || (mt.IsVariadic() && len(args) < nin-1) {
		return nil, fmt.Errorf("%w: %T.%s takes %d arguments, not %d", ErrInvalidOperation, n, name, nin, len(args))
	}
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		var pt reflect.Type
		if mt.IsVariadic() && i >= nin-1 {
			pt = mt.In(nin - 1).Elem()
		} else {
			pt = mt.In(i)
		}
		av, err := convertArg(a, pt)
		if err != nil {
			return nil, fmt.Errorf("%w: argument %d of %T.%s: %w", ErrInvalidOperation, i, n, name, err)
		}
		in[i] = av
	}
	out := m.Call(in)
	res := make([]any, len(out))
	for i, o := range out {
		res[i] = o.Interface()
	}
	if len(res) > 0 {
		if err, ok := res[len(res)-1].(error); ok && err != nil {
			return res, err
		}
	}
	return res, nil
}

// convertArg converts the given argument to the given parameter type.
func convertArg(a any, pt reflect.Type) (reflect.Value, error) {
	if a == nil {
		return reflect.Zero(pt), nil
	}
	av := reflect.ValueOf(a)
	switch {
	case av.Type().AssignableTo(pt):
		return av, nil
	case av.Type().ConvertibleTo(pt) && av.Kind() != reflect.String && pt.Kind() != reflect.String:
		return av.Convert(pt), nil
	}
	return reflect.Value{}, fmt.Errorf("can not use %T as %v", a, pt)
}

// PropagateCall calls the given method on the node and all of its
// descendants that have it, in tree order. If parentFirst is false, each
// node is called after its descendants. Errors are logged.
func (n *NodeBase) PropagateCall(method string, args []any, parentFirst bool) {
	n.blocked++
	if parentFirst && HasMethod(n.This, method) {
		_, err := Call(n.This, method, args...)
		errors.Log(err)
	}
	for i := 0; i < len(n.children); i++ {
		n.children[i].AsTree().PropagateCall(method, args, parentFirst)
	}
	if !parentFirst && HasMethod(n.This, method) {
		_, err := Call(n.This, method, args...)
		errors.Log(err)
	}
	n.blocked--
}
