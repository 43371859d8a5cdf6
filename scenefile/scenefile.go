// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scenefile loads live trees from YAML or TOML scene descriptions
// and packs them back into descriptions.
//
// A scene has one root node. Every other node described in the scene is
// owned by the root, and nodes that instance another scene file own the
// nodes of that scene, so that duplication and packing treat each scene
// as a unit.
package scenefile

import (
	"fmt"
	"path"
	"strings"

	"github.com/iancoleman/strcase"

	"cogentcore.org/livetree/base/errors"
	"cogentcore.org/livetree/config"
	"cogentcore.org/livetree/tree"
)

// ErrCycle is returned when a scene file instances itself, directly or
// through other scene files.
var ErrCycle = errors.New("scenefile: instance cycle")

// Scene is the description of a scene.
type Scene struct {

	// Root is the root node of the scene.
	Root *Node `yaml:"root" toml:"root"`

	// Connections are the persistent signal connections between the nodes
	// of the scene.
	Connections []Connection `yaml:"connections,omitempty" toml:"connections,omitempty"`
}

// Node is the description of one node of a scene.
type Node struct {

	// Name is the name of the node. Empty names are assigned by the
	// naming policy of the tree.
	Name string `yaml:"name,omitempty" toml:"name,omitempty"`

	// Kind is the name of the registered kind of the node, either fully
	// qualified or short (eg: Timer). It defaults to NodeBase, and is
	// ignored for instances.
	Kind string `yaml:"kind,omitempty" toml:"kind,omitempty"`

	// Instance is the scene file that the node is instanced from,
	// relative to the scene file that contains it.
	Instance string `yaml:"instance,omitempty" toml:"instance,omitempty"`

	// Fields are the values of the persisted fields of the node, keyed by
	// field name in Go or snake case.
	Fields map[string]any `yaml:"fields,omitempty" toml:"fields,omitempty"`

	// Groups are the persistent groups of the node.
	Groups []string `yaml:"groups,omitempty" toml:"groups,omitempty"`

	// Pause is the pause mode of the node (inherit, always_stop, or
	// always_process).
	Pause string `yaml:"pause,omitempty" toml:"pause,omitempty"`

	// Process are the kinds of processing the node opts into (process,
	// process_internal, fixed_process, fixed_process_internal, vp_input,
	// vp_unhandled_input, vp_unhandled_key_input).
	Process []string `yaml:"process,omitempty" toml:"process,omitempty"`

	// Children are the children of the node. For instances, they are
	// added after the children of the instanced scene.
	Children []*Node `yaml:"children,omitempty" toml:"children,omitempty"`
}

// Connection is the description of a persistent signal connection.
type Connection struct {

	// From is the path of the source node relative to the scene root.
	From string `yaml:"from" toml:"from"`

	// Signal is the name of the signal.
	Signal string `yaml:"signal" toml:"signal"`

	// To is the path of the target node relative to the scene root.
	To string `yaml:"to" toml:"to"`

	// Method is the name of the method called on the target.
	Method string `yaml:"method" toml:"method"`

	// Binds are extra arguments appended to the signal arguments.
	Binds []any `yaml:"binds,omitempty" toml:"binds,omitempty"`

	// Flags are extra connection flags (deferred, one_shot). Scene
	// connections are always persistent.
	Flags []string `yaml:"flags,omitempty" toml:"flags,omitempty"`
}

// Decode decodes the given scene data according to the given file
// extension (.yaml, .yml, or .toml).
func Decode(data []byte, ext string) (*Scene, error) {
	sc := &Scene{}
	if err := config.Decode(sc, ext, data); err != nil {
		return nil, err
	}
	if sc.Root == nil {
		return nil, errors.New("scenefile: scene has no root")
	}
	return sc, nil
}

// snakeName returns the snake case form of a Go enum name.
func snakeName(s fmt.Stringer) string {
	return strcase.ToSnake(s.String())
}

// ParsePauseMode parses a pause mode as written in a scene file.
func ParsePauseMode(s string) (tree.PauseMode, error) {
	for m := tree.PauseInherit; m <= tree.PauseAlwaysProcess; m++ {
		if snakeName(m) == s {
			return m, nil
		}
	}
	return tree.PauseInherit, fmt.Errorf("scenefile: unknown pause mode %q", s)
}

// ParseProcessKind parses a kind of processing as written in a scene file.
func ParseProcessKind(s string) (tree.ProcessKind, error) {
	for k := tree.ProcessFrame; k <= tree.ProcessUnhandledKeyInput; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return tree.ProcessFrame, fmt.Errorf("scenefile: unknown process kind %q", s)
}

var connectFlagNames = map[string]tree.ConnectFlags{
	"deferred": tree.ConnectDeferred,
	"persist":  tree.ConnectPersist,
	"one_shot": tree.ConnectOneShot,
}

// parseConnectFlags returns the flags of a scene connection, which always
// include [tree.ConnectPersist].
func parseConnectFlags(names []string) (tree.ConnectFlags, error) {
	flags := tree.ConnectPersist
	for _, name := range names {
		f, ok := connectFlagNames[strings.ToLower(name)]
		if !ok {
			return 0, fmt.Errorf("scenefile: unknown connection flag %q", name)
		}
		flags |= f
	}
	return flags, nil
}

// connectFlagStrings returns the names of the flags other than
// [tree.ConnectPersist].
func connectFlagStrings(flags tree.ConnectFlags) []string {
	var res []string
	if flags&tree.ConnectDeferred != 0 {
		res = append(res, "deferred")
	}
	if flags&tree.ConnectOneShot != 0 {
		res = append(res, "one_shot")
	}
	return res
}

// instancePath returns the path of the scene instanced by a node of the
// given scene file. Absolute instance paths are relative to the root of
// the file system of the loader.
func instancePath(file, instance string) string {
	if rest, ok := strings.CutPrefix(instance, "/"); ok {
		return path.Clean(rest)
	}
	return path.Join(path.Dir(file), instance)
}
