// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import "cogentcore.org/livetree/base/errors"

var (
	// ErrInvalidOperation is returned when a structural mutation is
	// rejected, such as adding a node to itself, adding a node that
	// already has a parent, or changing the children of a node while
	// they are being traversed. The rejected operation has no effect.
	ErrInvalidOperation = errors.New("tree: invalid operation")

	// ErrNotFound is returned when a path, node, or group does not exist.
	ErrNotFound = errors.New("tree: not found")

	// ErrDetached is returned when an operation needs the node to be
	// inside a tree and it is not.
	ErrDetached = errors.New("tree: node is not inside a tree")

	// ErrConstructionFailed is returned when a new instance of a node kind
	// could not be constructed.
	ErrConstructionFailed = errors.New("tree: construction failed")

	// ErrPreconditionViolated is the value panicked with when a node is
	// destroyed while it still has a parent or children.
	ErrPreconditionViolated = errors.New("tree: precondition violated")
)
