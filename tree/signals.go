// Copyright (c) 2018, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"fmt"
	"slices"

	"cogentcore.org/livetree/base/errors"
)

// ConnectFlags are bit flags that control a signal connection.
type ConnectFlags int64

const (
	// ConnectDeferred calls the target at the next flush of its tree
	// instead of during the emission.
	ConnectDeferred ConnectFlags = 1

	// ConnectPersist marks a connection that is saved and duplicated
	// with its nodes.
	ConnectPersist ConnectFlags = 2

	// ConnectOneShot disconnects the connection when it is first emitted.
	ConnectOneShot ConnectFlags = 4
)

// Connection connects a named signal of a source node to a method of a
// target node. A connection separates when something happens (the source
// emits the signal), who is told (the target), and what they do (the
// method, called with the emitted arguments followed by the binds).
type Connection struct {
	Source Node
	Target Node
	Signal string
	Method string
	Binds  []any
	Flags  ConnectFlags
}

func (c *Connection) String() string {
	return fmt.Sprintf("%v.%s -> %v.%s", c.Source, c.Signal, c.Target, c.Method)
}

// matches returns whether the connection is the one given.
func (c *Connection) matches(signal string, target Node, method string) bool {
	return c.Signal == signal && c.Target == target && c.Method == method
}

// Connect connects the given signal of the node to the given method of
// the target. It returns an error wrapping [ErrNotFound] if the target
// has no such method and one wrapping [ErrInvalidOperation] if the
// connection already exists.
func (n *NodeBase) Connect(signal string, target Node, method string, flags ConnectFlags, binds ...any) error {
	if target == nil {
		return fmt.Errorf("%w: connecting %q of %q to a nil target", ErrInvalidOperation, signal, n.name)
	}
	if !HasMethod(target, method) {
		return fmt.Errorf("%w: %T has no method %q to connect %q to", ErrNotFound, target, method, signal)
	}
	if n.IsConnected(signal, target, method) {
		return fmt.Errorf("%w: %q of %q is already connected to %q of %q", ErrInvalidOperation, signal, n.name, method, target.AsTree().name)
	}
	c := &Connection{Source: n.This, Target: target, Signal: signal, Method: method, Binds: binds, Flags: flags}
	n.connections = append(n.connections, c)
	tb := target.AsTree()
	tb.incoming = append(tb.incoming, c)
	return nil
}

// Disconnect removes the connection of the given signal of the node to the
// given method of the target. It returns an error wrapping [ErrNotFound]
// if there is no such connection.
func (n *NodeBase) Disconnect(signal string, target Node, method string) error {
	i := slices.IndexFunc(n.connections, func(c *Connection) bool {
		return c.matches(signal, target, method)
	})
	if i < 0 {
		return fmt.Errorf("%w: %q of %q is not connected to %q", ErrNotFound, signal, n.name, method)
	}
	removeConnection(n.connections[i])
	return nil
}

// removeConnection removes the given connection from both of its ends.
func removeConnection(c *Connection) {
	if c.Source != nil {
		sb := c.Source.AsTree()
		sb.connections = slices.DeleteFunc(sb.connections, func(o *Connection) bool { return o == c })
	}
	if c.Target != nil {
		tb := c.Target.AsTree()
		tb.incoming = slices.DeleteFunc(tb.incoming, func(o *Connection) bool { return o == c })
	}
}

// IsConnected returns whether the given signal of the node is connected
// to the given method of the target.
func (n *NodeBase) IsConnected(signal string, target Node, method string) bool {
	return slices.ContainsFunc(n.connections, func(c *Connection) bool {
		return c.matches(signal, target, method)
	})
}

// Connections returns the outgoing connections of the node.
func (n *NodeBase) Connections() []*Connection {
	return slices.Clone(n.connections)
}

// IncomingConnections returns the connections that target the node.
func (n *NodeBase) IncomingConnections() []*Connection {
	return slices.Clone(n.incoming)
}

// EmitSignal calls the targets connected to the given signal of the node
// with the given arguments, in the order they were connected. Targets
// connected during the emission are not called. Call errors are logged.
func (n *NodeBase) EmitSignal(signal string, args ...any) {
	if len(n.connections) == 0 {
		return
	}
	for _, c := range slices.Clone(n.connections) {
		if c.Signal != signal || !isAlive(c.Target) || !slices.Contains(n.connections, c) {
			continue
		}
		if c.Flags&ConnectOneShot != 0 {
			removeConnection(c)
		}
		callArgs := append(slices.Clone(args), c.Binds...)
		target, method := c.Target, c.Method
		call := func() {
			_, err := Call(target, method, callArgs...)
			errors.Log(err)
		}
		if c.Flags&ConnectDeferred != 0 && n.tree != nil {
			n.tree.pushCall(target, call)
			continue
		}
		call()
	}
}

// disconnectAll removes all of the connections from and to the node.
func (n *NodeBase) disconnectAll() {
	for _, c := range slices.Clone(n.connections) {
		removeConnection(c)
	}
	for _, c := range slices.Clone(n.incoming) {
		removeConnection(c)
	}
}
