// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"fmt"
	"io"
	"strings"

	"cogentcore.org/livetree/base/indent"
)

// PrintTree writes the node and its descendants to the given writer, one
// per line, indented by depth, with their kinds, owners, and groups.
func (n *NodeBase) PrintTree(w io.Writer) error {
	var err error
	n.WalkDown(func(k Node) bool {
		kb := k.AsTree()
		level := 0
		for p := kb; p != n && p.parent != nil; p = p.parent.AsTree() {
			level++
		}
		var sb strings.Builder
		sb.WriteString(indent.Spaces(level, 2))
		fmt.Fprintf(&sb, "%s (%s)", kb.name, kb.Kind().ShortName())
		if kb.owner != nil {
			if p, perr := kb.PathTo(kb.owner); perr == nil {
				fmt.Fprintf(&sb, " owner=%s", p)
			}
		}
		if gs := kb.Groups(); len(gs) > 0 {
			names := make([]string, len(gs))
			for i, g := range gs {
				names[i] = g.Name
			}
			fmt.Fprintf(&sb, " groups=[%s]", strings.Join(names, " "))
		}
		sb.WriteByte('\n')
		if _, err = io.WriteString(w, sb.String()); err != nil {
			return Break
		}
		return Continue
	})
	return err
}

// TreeString returns the output of [NodeBase.PrintTree] as a string.
func (n *NodeBase) TreeString() string {
	var sb strings.Builder
	n.PrintTree(&sb)
	return sb.String()
}
