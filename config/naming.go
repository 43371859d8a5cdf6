// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"strings"

	"github.com/iancoleman/strcase"
)

// NameSeparator is the separator placed between the base name and the
// number of an automatically generated sibling name.
type NameSeparator int32

const (
	// SeparatorNone puts the number right after the base name (Sprite2).
	SeparatorNone NameSeparator = iota

	// SeparatorSpace puts a space before the number (Sprite 2).
	SeparatorSpace

	// SeparatorUnderscore puts an underscore before the number (Sprite_2).
	SeparatorUnderscore

	// SeparatorDash puts a dash before the number (Sprite-2).
	SeparatorDash
)

var separatorNames = []string{"none", "space", "underscore", "dash"}

func (s NameSeparator) String() string {
	if s < 0 || int(s) >= len(separatorNames) {
		return fmt.Sprintf("NameSeparator(%d)", s)
	}
	return separatorNames[s]
}

// Text returns the text that the separator inserts.
func (s NameSeparator) Text() string {
	switch s {
	case SeparatorSpace:
		return " "
	case SeparatorUnderscore:
		return "_"
	case SeparatorDash:
		return "-"
	}
	return ""
}

// MarshalText implements [encoding.TextMarshaler].
func (s NameSeparator) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (s *NameSeparator) UnmarshalText(text []byte) error {
	i, err := parseEnum(string(text), separatorNames)
	if err != nil {
		return fmt.Errorf("config: invalid name separator: %w", err)
	}
	*s = NameSeparator(i)
	return nil
}

// NameCasing is the casing applied to the kind name when it is used as the
// base of an automatically generated sibling name.
type NameCasing int32

const (
	// CasingPascal keeps the kind name as is (AnimatedSprite).
	CasingPascal NameCasing = iota

	// CasingCamel lowers the first letter (animatedSprite).
	CasingCamel

	// CasingSnake converts to snake case (animated_sprite).
	CasingSnake
)

var casingNames = []string{"pascal", "camel", "snake"}

func (c NameCasing) String() string {
	if c < 0 || int(c) >= len(casingNames) {
		return fmt.Sprintf("NameCasing(%d)", c)
	}
	return casingNames[c]
}

// Apply returns the given Pascal case kind name in this casing.
func (c NameCasing) Apply(name string) string {
	switch c {
	case CasingCamel:
		return strcase.ToLowerCamel(name)
	case CasingSnake:
		return strcase.ToSnake(name)
	}
	return strcase.ToCamel(name)
}

// MarshalText implements [encoding.TextMarshaler].
func (c NameCasing) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (c *NameCasing) UnmarshalText(text []byte) error {
	i, err := parseEnum(string(text), casingNames)
	if err != nil {
		return fmt.Errorf("config: invalid name casing: %w", err)
	}
	*c = NameCasing(i)
	return nil
}

func parseEnum(s string, names []string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, nm := range names {
		if nm == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%q is not one of %v", s, names)
}

// Naming is the policy used to make sibling names unique.
type Naming struct {

	// HumanReadable selects serial names like Sprite2 for colliding
	// siblings. Otherwise fast unique names like @Sprite@7 are used.
	HumanReadable bool `toml:"human_readable" yaml:"human_readable" default:"true"`

	// Separator goes between the base name and the number of serial names.
	Separator NameSeparator `toml:"separator" yaml:"separator" default:"none"`

	// Casing is applied to kind names used as the base of serial names.
	Casing NameCasing `toml:"casing" yaml:"casing" default:"pascal"`
}

// DefaultNaming returns the naming policy used when none is configured.
func DefaultNaming() Naming {
	return Naming{HumanReadable: true}
}
