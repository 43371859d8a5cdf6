// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package nodepath provides [Path], an immutable description of a route
// through a live tree of nodes.
//
// A path is a sequence of node names separated by slashes, optionally
// followed by sub-names separated by colons that address fields within
// the node that the names resolve to:
//
//	/root/level/player          absolute, starting at the tree root
//	player/../enemy             relative, starting at some node
//	player:texture:size         relative, with two sub-names
//
// The names "." and ".." are reserved and mean the current node and its
// parent. Paths are interned: two paths with the same canonical form share
// the same descriptor, so paths can be compared with == and used as map keys.
package nodepath

import (
	"strings"
	"sync"
	"unique"
)

const (
	// Current is the reserved name for the node a path is resolved from.
	Current = "."

	// Parent is the reserved name for the parent of the current node.
	Parent = ".."

	// Separator separates the names in a path.
	Separator = "/"

	// SubSeparator separates the sub-names that follow the names.
	SubSeparator = ":"
)

// Path is an immutable, comparable route through a tree.
// The zero value is the empty path.
type Path struct {
	d *descriptor
}

// descriptor is the shared, interned contents of a [Path].
type descriptor struct {
	names    []unique.Handle[string]
	subnames []unique.Handle[string]
	absolute bool
	str      string
}

// interned maps canonical path strings to their descriptor. Entries are
// never evicted.
var interned sync.Map

// Parse parses the given string into a [Path]. The descriptor of every
// distinct path is kept for the life of the process. Empty name and sub-name
// segments (as in "a//b") are ignored. Surrounding white space is trimmed.
func Parse(s string) Path {
	s = strings.TrimSpace(s)
	if s == "" {
		return Path{}
	}
	absolute := strings.HasPrefix(s, Separator)
	var subs []string
	if i := strings.Index(s, SubSeparator); i >= 0 {
		subs = strings.Split(s[i+1:], SubSeparator)
		s = s[:i]
	}
	return New(strings.Split(s, Separator), subs, absolute)
}

// New returns a [Path] with the given names and sub-names. Empty names
// and sub-names are skipped. The result is interned like that of [Parse].
func New(names, subnames []string, absolute bool) Path {
	d := &descriptor{absolute: absolute}
	for _, nm := range names {
		if nm != "" {
			d.names = append(d.names, unique.Make(nm))
		}
	}
	for _, sn := range subnames {
		if sn != "" {
			d.subnames = append(d.subnames, unique.Make(sn))
		}
	}
	if !absolute && len(d.names) == 0 && len(d.subnames) == 0 {
		return Path{}
	}
	d.str = d.canonical()
	if got, loaded := interned.LoadOrStore(d.str, d); loaded {
		return Path{d: got.(*descriptor)}
	}
	return Path{d: d}
}

func (d *descriptor) canonical() string {
	var sb strings.Builder
	if d.absolute {
		sb.WriteString(Separator)
	}
	for i, nm := range d.names {
		if i > 0 {
			sb.WriteString(Separator)
		}
		sb.WriteString(nm.Value())
	}
	for _, sn := range d.subnames {
		sb.WriteString(SubSeparator)
		sb.WriteString(sn.Value())
	}
	return sb.String()
}

// IsEmpty returns whether this is the empty path.
func (p Path) IsEmpty() bool {
	return p.d == nil
}

// IsAbsolute returns whether the path starts at the tree root.
func (p Path) IsAbsolute() bool {
	return p.d != nil && p.d.absolute
}

// NameCount returns the number of names in the path.
func (p Path) NameCount() int {
	if p.d == nil {
		return 0
	}
	return len(p.d.names)
}

// Name returns the name at the given index.
func (p Path) Name(i int) string {
	return p.d.names[i].Value()
}

// Names returns a new slice with all of the names in the path.
func (p Path) Names() []string {
	return values(p.nameHandles())
}

func (p Path) nameHandles() []unique.Handle[string] {
	if p.d == nil {
		return nil
	}
	return p.d.names
}

// SubNameCount returns the number of sub-names in the path.
func (p Path) SubNameCount() int {
	if p.d == nil {
		return 0
	}
	return len(p.d.subnames)
}

// SubName returns the sub-name at the given index.
func (p Path) SubName(i int) string {
	return p.d.subnames[i].Value()
}

// SubNames returns a new slice with all of the sub-names in the path.
func (p Path) SubNames() []string {
	if p.d == nil {
		return nil
	}
	return values(p.d.subnames)
}

// String returns the canonical string form of the path.
func (p Path) String() string {
	if p.d == nil {
		return ""
	}
	return p.d.str
}

// WithoutSubNames returns the path with any sub-names removed.
func (p Path) WithoutSubNames() Path {
	if p.SubNameCount() == 0 {
		return p
	}
	return New(p.Names(), nil, p.IsAbsolute())
}

// Simplified returns an equivalent path with "." names removed and
// "name/.." pairs collapsed. Leading ".." names of a relative path are kept.
func (p Path) Simplified() Path {
	if p.d == nil {
		return p
	}
	var res []string
	for _, h := range p.d.names {
		nm := h.Value()
		switch {
		case nm == Current:
		case nm == Parent && len(res) > 0 && res[len(res)-1] != Parent:
			res = res[:len(res)-1]
		default:
			res = append(res, nm)
		}
	}
	if len(res) == 0 && !p.IsAbsolute() && p.SubNameCount() == 0 {
		return New([]string{Current}, nil, false)
	}
	return New(res, p.SubNames(), p.IsAbsolute())
}

// MarshalText implements [encoding.TextMarshaler].
func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (p *Path) UnmarshalText(text []byte) error {
	*p = Parse(string(text))
	return nil
}

func values(hs []unique.Handle[string]) []string {
	res := make([]string, len(hs))
	for i, h := range hs {
		res[i] = h.Value()
	}
	return res
}
