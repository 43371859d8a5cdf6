// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nodepath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	p := Parse("/root/level/player:texture:size")
	assert.True(t, p.IsAbsolute())
	assert.Equal(t, []string{"root", "level", "player"}, p.Names())
	assert.Equal(t, []string{"texture", "size"}, p.SubNames())
	assert.Equal(t, "player", p.Name(2))
	assert.Equal(t, "size", p.SubName(1))
	assert.Equal(t, "/root/level/player:texture:size", p.String())

	r := Parse("player/../enemy")
	assert.False(t, r.IsAbsolute())
	assert.Equal(t, 3, r.NameCount())
	assert.Equal(t, 0, r.SubNameCount())
}

func TestEmpty(t *testing.T) {
	var zero Path
	assert.True(t, zero.IsEmpty())
	assert.True(t, Parse("").IsEmpty())
	assert.True(t, Parse("  ").IsEmpty())
	assert.Equal(t, "", zero.String())
	assert.Equal(t, 0, zero.NameCount())
	assert.Nil(t, zero.SubNames())

	root := Parse("/")
	assert.False(t, root.IsEmpty())
	assert.True(t, root.IsAbsolute())
	assert.Equal(t, 0, root.NameCount())
}

func TestInterned(t *testing.T) {
	a := Parse("a/b/c")
	b := Parse("a//b/c/")
	c := New([]string{"a", "b", "c"}, nil, false)
	assert.True(t, a == b)
	assert.True(t, a == c)
	assert.False(t, a == Parse("/a/b/c"))

	m := map[Path]int{a: 1}
	assert.Equal(t, 1, m[c])
}

func TestSimplified(t *testing.T) {
	assert.Equal(t, "a/c", Parse("a/./b/../c").Simplified().String())
	assert.Equal(t, "../../x", Parse("../../x").Simplified().String())
	assert.Equal(t, ".", Parse("a/..").Simplified().String())
	assert.Equal(t, "/root:field", Parse("/root/a/..:field").Simplified().String())
}

func TestWithoutSubNames(t *testing.T) {
	p := Parse("a/b:c")
	assert.Equal(t, "a/b", p.WithoutSubNames().String())
	q := Parse("a/b")
	assert.True(t, q == q.WithoutSubNames())
}

func TestText(t *testing.T) {
	p := Parse("/x/y")
	b, err := p.MarshalText()
	assert.NoError(t, err)
	var q Path
	assert.NoError(t, q.UnmarshalText(b))
	assert.True(t, p == q)
}
