// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"fmt"
	"strconv"
	"strings"

	"cogentcore.org/livetree/config"
)

// nameReplacer removes the characters that can not be part of node names.
var nameReplacer = strings.NewReplacer(":", "", "/", "", "@", "")

// SetName sets the name of the node. The characters ':', '/', and '@' are
// removed, and the name is made unique among the siblings of the node.
// The node and its descendants receive [NotifyPathChanged], and the node
// receives [NotifyRenamed]. It returns an error wrapping
// [ErrInvalidOperation] if the name is empty after removing characters.
func (n *NodeBase) SetName(name string) error {
	name = nameReplacer.Replace(name)
	if name == "" {
		return fmt.Errorf("%w: node names can not be empty", ErrInvalidOperation)
	}
	old := n.name
	n.name = name
	if n.parent != nil {
		n.parent.AsTree().validateChildName(n, false)
	}
	if n.name == old {
		return nil
	}
	n.PropagateNotification(NotifyPathChanged)
	n.notify(NotifyRenamed)
	if n.IsInsideTree() {
		n.EmitSignal(SignalRenamed)
		n.tree.treeChanged()
	}
	return nil
}

// naming returns the naming policy that applies to the children of the node.
func (n *NodeBase) naming() config.Naming {
	if n.tree != nil {
		return n.tree.naming
	}
	return config.DefaultNaming()
}

// validateChildName makes the name of the given child unique among the
// children of the node.
func (n *NodeBase) validateChildName(c *NodeBase, forceLegible bool) {
	naming := n.naming()
	if naming.HumanReadable || forceLegible {
		c.name = n.serialChildName(c, naming)
		return
	}
	unique := c.name != "" && c.name[0] != '@' && !n.hasOtherChildNamed(c, c.name)
	if unique {
		return
	}
	base := c.name
	if base == "" {
		base = c.Kind().ShortName()
	}
	n.uniqueNames++
	c.name = "@" + base + "@" + strconv.FormatUint(n.uniqueNames, 10)
}

// hasOtherChildNamed returns whether a child other than the given one
// has the given name.
func (n *NodeBase) hasOtherChildNamed(c *NodeBase, name string) bool {
	for _, k := range n.children {
		kb := k.AsTree()
		if kb != c && kb.name == name {
			return true
		}
	}
	return false
}

// serialChildName returns a human readable name for the given child that
// is unique among the children of the node. Names that end in the
// separator and a number keep counting from that number with the same
// zero padding; other colliding names get a number starting at 2.
// Empty names are based on the kind name of the child.
func (n *NodeBase) serialChildName(c *NodeBase, naming config.Naming) string {
	name := c.name
	if name == "" {
		name = naming.Casing.Apply(c.Kind().ShortName())
	}

	nums := len(name) - len(strings.TrimRight(name, "0123456789"))
	sep := naming.Separator.Text()
	num := 0
	explicitZero := false
	places := 0
	if nums > 0 && strings.HasSuffix(name[:len(name)-nums], sep) {
		// suffixes that overflow are part of the base name
		if v, err := strconv.Atoi(name[len(name)-nums:]); err == nil {
			num = v
			name = name[:len(name)-nums-len(sep)]
			explicitZero = num == 0
			places = nums
		}
	}
	for {
		attempt := name
		if num > 0 || explicitZero {
			attempt += sep + fmt.Sprintf("%0*d", places, num)
		}
		attempt = strings.TrimSpace(attempt)
		if !n.hasOtherChildNamed(c, attempt) {
			return attempt
		}
		switch {
		case num > 0:
			num++
		case explicitZero:
			num = 1
		default:
			num = 2
		}
	}
}
