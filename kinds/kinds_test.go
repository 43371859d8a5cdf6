// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kinds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type texture struct {
	Size int
}

func (t *texture) DuplicateResource() any {
	c := *t
	return &c
}

type frameInfo struct {
	Count int
	Next  *texture
}

type base struct {
	Hidden  string `copier:"-"`
	Visible bool
	Speed   float32
}

type sprite struct {
	base
	Speed   float64
	Frames  []string
	Meta    map[string]int
	Texture *texture `dup:"fresh"`
	Info    *frameInfo `dup:"fresh"`
	Shared  *texture
	Links   []*texture
	Script  string `dup:"script"`
	Temp    int    `dup:"-"`
	private int
}

func TestRegistry(t *testing.T) {
	k := ByValue(&sprite{})
	require.NotNil(t, k)
	assert.Equal(t, "cogentcore.org/livetree/kinds.sprite", k.Name)
	assert.Equal(t, "sprite", k.ShortName())
	assert.Equal(t, "sprite", k.IDName)
	assert.NotZero(t, k.ID)
	assert.Same(t, k, ByValue(&sprite{}))
	assert.Same(t, k, ByName("sprite"))
	assert.Same(t, k, ByName(k.Name))

	v, err := New("sprite")
	require.NoError(t, err)
	assert.IsType(t, &sprite{}, v)

	_, err = New("nonexistent")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestFields(t *testing.T) {
	fs := Fields(&sprite{})
	var names []string
	for _, f := range fs {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"Speed", "Frames", "Meta", "Texture", "Info", "Shared", "Links", "Script", "Visible"}, names)

	f, ok := FieldByName(&sprite{}, "Texture")
	require.True(t, ok)
	assert.True(t, f.Has(Storage))
	assert.True(t, f.Has(NoShare))
	assert.False(t, f.Has(Script))

	f, _ = FieldByName(&sprite{}, "Script")
	assert.True(t, f.Has(Script))

	// the outer Speed shadows the embedded one
	f, _ = FieldByName(&sprite{}, "Speed")
	assert.Equal(t, []int{1}, f.Index)
}

func TestGetSet(t *testing.T) {
	s := &sprite{}
	require.NoError(t, Set(s, "Speed", 2))
	assert.Equal(t, 2.0, s.Speed)
	require.NoError(t, Set(s, "Visible", "true"))
	assert.True(t, s.Visible)
	require.NoError(t, Set(s, "Frames", []any{"a", "b"}))
	assert.Equal(t, []string{"a", "b"}, s.Frames)
	require.NoError(t, Set(s, "Texture", map[string]any{"Size": 4}))
	assert.Equal(t, 4, s.Texture.Size)
	require.NoError(t, Set(s, "Texture", nil))
	assert.Nil(t, s.Texture)

	v, ok := Get(s, "Frames")
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, v)
	_, ok = Get(s, "Temp")
	assert.False(t, ok)

	assert.ErrorIs(t, Set(s, "private", 1), ErrNoField)
	assert.Equal(t, "Speed", ParseName(s, "speed"))
	assert.Equal(t, "Visible", ParseName(s, "visible"))
	assert.Equal(t, "nope", ParseName(s, "nope"))
}

func TestDuplicateValue(t *testing.T) {
	frames, _ := FieldByName(&sprite{}, "Frames")
	orig := []string{"a", "b"}
	cp, err := DuplicateValue(frames, orig)
	require.NoError(t, err)
	cs := cp.([]string)
	assert.Equal(t, orig, cs)
	cs[0] = "z"
	assert.Equal(t, "a", orig[0])

	meta, _ := FieldByName(&sprite{}, "Meta")
	om := map[string]int{"x": 1}
	cp, err = DuplicateValue(meta, om)
	require.NoError(t, err)
	cp.(map[string]int)["x"] = 2
	assert.Equal(t, 1, om["x"])

	tex := &texture{Size: 3}
	fresh, _ := FieldByName(&sprite{}, "Texture")
	cp, _ = DuplicateValue(fresh, tex)
	assert.NotSame(t, tex, cp)
	assert.Equal(t, 3, cp.(*texture).Size)

	shared, _ := FieldByName(&sprite{}, "Shared")
	cp, _ = DuplicateValue(shared, tex)
	assert.Same(t, tex, cp)

	info, _ := FieldByName(&sprite{}, "Info")
	fi := &frameInfo{Count: 4, Next: tex}
	cp, err = DuplicateValue(info, fi)
	require.NoError(t, err)
	cfi := cp.(*frameInfo)
	assert.NotSame(t, fi, cfi)
	assert.Equal(t, 4, cfi.Count)
	assert.Same(t, tex, cfi.Next)
}

func TestDuplicateValueSharesElements(t *testing.T) {
	a, b := &texture{Size: 1}, &texture{Size: 2}
	links, _ := FieldByName(&sprite{}, "Links")
	orig := []*texture{a, b}
	cp, err := DuplicateValue(links, orig)
	require.NoError(t, err)
	cs := cp.([]*texture)
	require.Len(t, cs, 2)
	assert.Same(t, a, cs[0])
	assert.Same(t, b, cs[1])
	cs[0] = b
	assert.Same(t, a, orig[0])

	byName := map[string]*texture{"a": a}
	cp, err = DuplicateValue(Field{}, byName)
	require.NoError(t, err)
	cm := cp.(map[string]*texture)
	assert.Same(t, a, cm["a"])
	delete(cm, "a")
	assert.Len(t, byName, 1)
}
