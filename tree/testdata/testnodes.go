// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package testdata provides node kinds for testing the tree package.
package testdata

import (
	"reflect"
	"strings"

	"cogentcore.org/livetree/kinds"
	"cogentcore.org/livetree/tree"
)

// Events records lifecycle notifications as "name:Notification" strings.
type Events struct {
	List []string
}

// Add records the given notification of the given node.
func (e *Events) Add(name string, what tree.Notification) {
	e.List = append(e.List, name+":"+what.String())
}

// Reset clears the recorded notifications.
func (e *Events) Reset() {
	e.List = nil
}

// Names returns the names of the nodes that received the given
// notification, in order.
func (e *Events) Names(what tree.Notification) []string {
	var res []string
	suffix := ":" + what.String()
	for _, s := range e.List {
		if name, ok := strings.CutSuffix(s, suffix); ok {
			res = append(res, name)
		}
	}
	return res
}

// Recorder records its notifications in Events and calls Hook with them.
type Recorder struct {
	tree.NodeBase
	Events *Events                                      `dup:"-"`
	Hook   func(r *Recorder, what tree.Notification) `dup:"-"`
}

func (r *Recorder) Notification(what tree.Notification) {
	if r.Events != nil {
		r.Events.Add(r.Name(), what)
	}
	if r.Hook != nil {
		r.Hook(r, what)
	}
}

// NewRecorder returns a new recorder with the given name that records
// to the given events, added to the given parent if it is non-nil.
func NewRecorder(parent tree.Node, name string, ev *Events) *Recorder {
	r := tree.NewRoot[*Recorder](name)
	r.Events = ev
	if parent != nil {
		parent.AsTree().AddChild(r)
	}
	return r
}

// Texture is a resource held by [Actor].
type Texture struct {
	Path string
}

func (t *Texture) DuplicateResource() any {
	c := *t
	return &c
}

// Actor has fields of the kinds that duplication handles differently,
// and methods for group calls and signals.
type Actor struct {
	tree.NodeBase
	Health  int
	Speed   float64
	Tags    []string
	Stats   map[string]int
	Texture *Texture `dup:"fresh"`
	Shared  *Texture
	Script  string `dup:"script"`
	Hits    int
	Allies  []*Actor
	Args    []any `dup:"-"`
}

// TakeDamage reduces the health by the given amount.
func (a *Actor) TakeDamage(amount int) {
	a.Health -= amount
	a.Hits++
}

// Record records the arguments of the call.
func (a *Actor) Record(args ...any) {
	a.Args = append(a.Args, args...)
}

// Widget creates a part child in Init.
type Widget struct {
	tree.NodeBase
	Label string
}

func (w *Widget) Init() {
	tree.New[*tree.NodeBase](w, "part")
}

// Level is a node with its own input scope.
type Level struct {
	tree.Viewport
}

// Broken is a node kind that the kinds registry can not construct.
type Broken struct {
	tree.NodeBase
}

func init() {
	kinds.AddValue(&Recorder{})
	kinds.AddValue(&Actor{})
	kinds.AddValue(&Widget{})
	kinds.AddValue(&Level{})
	kinds.Add(&kinds.Kind{
		Name: kinds.TypeName(reflect.TypeFor[Broken]()),
		New:  func() any { return nil },
	})
}
