// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scenefile

import (
	"fmt"
	"io/fs"
	"maps"
	"path"
	"slices"
	"sync"

	"cogentcore.org/livetree/kinds"
	"cogentcore.org/livetree/tree"
)

// Loader builds live nodes from the scene files of a file system. It is
// a [tree.Factory] and a [tree.Instancer], so that trees using it as
// their factory duplicate nested instances by instancing their scene
// files again. Decoded scene files are cached.
type Loader struct {

	// FS is the file system that scene files are read from.
	FS fs.FS

	mu     sync.Mutex
	scenes map[string]*Scene
}

// NewLoader returns a new loader reading from the given file system.
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{FS: fsys}
}

// Open returns the decoded scene of the given file.
func (l *Loader) Open(file string) (*Scene, error) {
	file = path.Clean(file)
	l.mu.Lock()
	defer l.mu.Unlock()
	if sc, ok := l.scenes[file]; ok {
		return sc, nil
	}
	b, err := fs.ReadFile(l.FS, file)
	if err != nil {
		return nil, err
	}
	sc, err := Decode(b, path.Ext(file))
	if err != nil {
		return nil, fmt.Errorf("scenefile: %s: %w", file, err)
	}
	if l.scenes == nil {
		l.scenes = map[string]*Scene{}
	}
	l.scenes[file] = sc
	return sc, nil
}

// Forget removes the given file from the cache, so that it is read again
// the next time it is loaded.
func (l *Loader) Forget(file string) {
	l.mu.Lock()
	delete(l.scenes, path.Clean(file))
	l.mu.Unlock()
}

// Load returns the detached root of a new live tree built from the given
// scene file.
func (l *Loader) Load(file string) (tree.Node, error) {
	return l.load(path.Clean(file), nil)
}

// Instance implements [tree.Instancer]. It is like [Loader.Load], and
// also records the scene file on the returned root.
func (l *Loader) Instance(sceneFile string) (tree.Node, error) {
	n, err := l.Load(sceneFile)
	if err != nil {
		return nil, err
	}
	n.AsTree().SetSceneFile(path.Clean(sceneFile))
	return n, nil
}

// NewNode implements [tree.Factory] with the kinds registry.
func (l *Loader) NewNode(like tree.Node) (tree.Node, error) {
	return newNode(kinds.ByValue(like))
}

func newNode(k *kinds.Kind) (tree.Node, error) {
	if k == nil || k.New == nil {
		return nil, fmt.Errorf("%w: unknown kind", tree.ErrConstructionFailed)
	}
	n, ok := k.New().(tree.Node)
	if !ok || n == nil {
		return nil, fmt.Errorf("%w: kind %s is not a node", tree.ErrConstructionFailed, k.Name)
	}
	return n, nil
}

func (l *Loader) load(file string, stack []string) (tree.Node, error) {
	if slices.Contains(stack, file) {
		return nil, fmt.Errorf("%w: %s", ErrCycle, file)
	}
	sc, err := l.Open(file)
	if err != nil {
		return nil, err
	}
	b := &builder{loader: l, file: file, stack: slices.Concat(stack, []string{file})}
	root, err := b.build(sc.Root, nil)
	if err == nil {
		err = b.finish(root, sc)
	}
	if err != nil {
		if root != nil {
			root.Destroy()
		}
		return nil, fmt.Errorf("scenefile: %s: %w", file, err)
	}
	return root, nil
}

// builder builds the nodes of one scene file.
type builder struct {
	loader *Loader
	file   string
	stack  []string

	// owned are the nodes to be owned by the root.
	owned []tree.Node
}

// build builds the given node description and its children, adding it to
// the given parent if it is non-nil. A node that is returned with an error
// is the partially built node, which the caller destroys.
func (b *builder) build(d *Node, parent tree.Node) (tree.Node, error) {
	n, err := b.newNode(d)
	if err != nil {
		return nil, err
	}
	nb := n.AsTree()
	if err := b.configure(nb, d); err != nil {
		n.Destroy()
		return nil, err
	}
	if parent != nil {
		if err := parent.AsTree().AddChild(n); err != nil {
			n.Destroy()
			return nil, err
		}
		b.owned = append(b.owned, n)
	}
	for _, cd := range d.Children {
		if _, err := b.build(cd, n); err != nil {
			return n, err
		}
	}
	return n, nil
}

// newNode returns the new node of the given description, which is the
// root of a new instance for instanced nodes.
func (b *builder) newNode(d *Node) (tree.Node, error) {
	if d.Instance != "" {
		file := instancePath(b.file, d.Instance)
		n, err := b.loader.load(file, b.stack)
		if err != nil {
			return nil, err
		}
		n.AsTree().SetSceneFile(file)
		if d.Name != "" {
			if err := n.AsTree().SetName(d.Name); err != nil {
				n.Destroy()
				return nil, err
			}
		}
		return n, nil
	}
	kind := d.Kind
	if kind == "" {
		kind = "NodeBase"
	}
	k := kinds.ByName(kind)
	if k == nil {
		return nil, fmt.Errorf("%w: %w %q", tree.ErrConstructionFailed, kinds.ErrUnknownKind, kind)
	}
	n, err := newNode(k)
	if err != nil {
		return nil, err
	}
	tree.InitNode(n, d.Name)
	return n, nil
}

// configure sets the fields, groups, pause mode, and processing of the
// node from its description.
func (b *builder) configure(nb *tree.NodeBase, d *Node) error {
	for _, name := range slices.Sorted(maps.Keys(d.Fields)) {
		if err := kinds.Set(nb.This, kinds.ParseName(nb.This, name), d.Fields[name]); err != nil {
			return err
		}
	}
	for _, g := range d.Groups {
		if err := nb.AddToGroup(g, true); err != nil {
			return err
		}
	}
	if d.Pause != "" {
		m, err := ParsePauseMode(d.Pause)
		if err != nil {
			return err
		}
		nb.SetPauseMode(m)
	}
	for _, p := range d.Process {
		k, err := ParseProcessKind(p)
		if err != nil {
			return err
		}
		nb.SetProcessing(k, true)
	}
	return nil
}

// finish sets the owners and connections of the scene once all of its
// nodes are in place.
func (b *builder) finish(root tree.Node, sc *Scene) error {
	for _, n := range b.owned {
		if err := n.AsTree().SetOwner(root); err != nil {
			return err
		}
	}
	rb := root.AsTree()
	for _, c := range sc.Connections {
		from, err := rb.GetNode(c.From)
		if err != nil {
			return err
		}
		to, err := rb.GetNode(c.To)
		if err != nil {
			return err
		}
		flags, err := parseConnectFlags(c.Flags)
		if err != nil {
			return err
		}
		if err := from.AsTree().Connect(c.Signal, to, c.Method, flags, c.Binds...); err != nil {
			return err
		}
	}
	return nil
}
