// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"cogentcore.org/livetree/scenefile"
	"cogentcore.org/livetree/tree"
)

func newPrintCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "print <scene>",
		Short: "Print the tree of a scene",
		Long: `Print loads the scene into a live tree and prints its nodes with their
kinds, owners, and groups. With --format yaml or toml, it prints the
scene packed from the live tree instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := a.load(args[0])
			if err != nil {
				return err
			}
			defer tr.Finish()
			if format == "" {
				return tr.Root().AsTree().PrintTree(cmd.OutOrStdout())
			}
			sc, err := scenefile.Pack(tr.Root())
			if err != nil {
				return err
			}
			b, err := scenefile.Encode(sc, "."+format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "print the packed scene in this format (yaml or toml)")
	return cmd
}

func newFindCmd(a *app) *cobra.Command {
	var owned, shallow bool
	cmd := &cobra.Command{
		Use:   "find <scene> <mask>",
		Short: "Find the first node whose name matches a glob mask",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := a.load(args[0])
			if err != nil {
				return err
			}
			defer tr.Finish()
			n := tr.Root().AsTree().FindNode(args[1], !shallow, owned)
			if n == nil {
				return fmt.Errorf("%w: no node matches %q in %s", tree.ErrNotFound, args[1], filepath.Base(args[0]))
			}
			return printNode(cmd, n)
		},
	}
	cmd.Flags().BoolVar(&owned, "owned", false, "only match nodes that have an owner")
	cmd.Flags().BoolVar(&shallow, "shallow", false, "only match children of the scene root")
	return cmd
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <scene> <path>",
		Short: "Print the node at a path",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := a.load(args[0])
			if err != nil {
				return err
			}
			defer tr.Finish()
			n, err := tr.Root().AsTree().GetNode(args[1])
			if err != nil {
				return err
			}
			return printNode(cmd, n)
		},
	}
}

// printNode prints the absolute path and kind of the given node.
func printNode(cmd *cobra.Command, n tree.Node) error {
	nb := n.AsTree()
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", nb.Path(), nb.Kind().ShortName())
	return err
}
