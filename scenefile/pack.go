// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scenefile

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"cogentcore.org/livetree/kinds"
	"cogentcore.org/livetree/tree"
)

// Pack returns the description of the scene rooted at the given node: the
// root and the nodes that it owns, with their non-zero persisted fields,
// persistent groups, and the persistent connections between them. Nested
// instances are described by their scene file, and the nodes that they own
// are left to it.
func Pack(root tree.Node) (*Scene, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: packing a nil root", tree.ErrInvalidOperation)
	}
	p := &packer{root: root.AsTree()}
	sc := &Scene{Root: p.pack(p.root)}
	for _, n := range p.nodes {
		for _, c := range n.Connections() {
			if c.Flags&tree.ConnectPersist == 0 || !p.inScene(c.Target) {
				continue
			}
			from, err := p.root.PathTo(n.This)
			if err != nil {
				return nil, err
			}
			to, err := p.root.PathTo(c.Target)
			if err != nil {
				return nil, err
			}
			sc.Connections = append(sc.Connections, Connection{
				From:   from.String(),
				Signal: c.Signal,
				To:     to.String(),
				Method: c.Method,
				Binds:  c.Binds,
				Flags:  connectFlagStrings(c.Flags),
			})
		}
	}
	return sc, nil
}

// Encode encodes the given scene according to the given file extension
// (.yaml, .yml, or .toml).
func Encode(sc *Scene, ext string) ([]byte, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return yaml.Marshal(sc)
	case ".toml":
		return toml.Marshal(sc)
	}
	return nil, fmt.Errorf("scenefile: unsupported scene file extension %q", ext)
}

type packer struct {
	root  *tree.NodeBase
	nodes []*tree.NodeBase
}

// inScene returns whether the given node is the root or owned by it.
func (p *packer) inScene(n tree.Node) bool {
	if n == nil {
		return false
	}
	return n == p.root.This || n.AsTree().Owner() == p.root.This
}

func (p *packer) pack(nb *tree.NodeBase) *Node {
	p.nodes = append(p.nodes, nb)
	d := &Node{Name: nb.Name()}
	if nb != p.root && nb.SceneFile() != "" {
		d.Instance = "/" + nb.SceneFile()
	} else if k := nb.Kind(); k.Name != kinds.TypeName(reflect.TypeFor[tree.NodeBase]()) {
		d.Kind = k.Name
		if kinds.ByName(k.ShortName()) == k {
			d.Kind = k.ShortName()
		}
	}
	for _, f := range kinds.Fields(nb.This) {
		v, ok := kinds.Get(nb.This, f.Name)
		if !ok || v == nil || reflect.ValueOf(v).IsZero() {
			continue
		}
		if d.Fields == nil {
			d.Fields = map[string]any{}
		}
		d.Fields[strcase.ToSnake(f.Name)] = v
	}
	for _, g := range nb.Groups() {
		if g.Persistent {
			d.Groups = append(d.Groups, g.Name)
		}
	}
	if m := nb.PauseMode(); m != tree.PauseInherit {
		d.Pause = snakeName(m)
	}
	for k := tree.ProcessFrame; k <= tree.ProcessUnhandledKeyInput; k++ {
		if nb.IsProcessing(k) {
			d.Process = append(d.Process, k.String())
		}
	}
	for _, c := range nb.Children() {
		if cb := c.AsTree(); cb.Owner() == p.root.This {
			d.Children = append(d.Children, p.pack(cb))
		}
	}
	return d
}
