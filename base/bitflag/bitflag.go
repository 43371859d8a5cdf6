// Copyright (c) 2018, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bitflag provides simple bit flag setting, checking, and clearing
// methods that take ordinal bit positions (from const iota enums) and do the
// bit shifting from there. Keeping flags as ordinal lists is much easier to
// maintain than hand-written masks, and the enum types keep call sites typed.
package bitflag

// Ordinal is the constraint satisfied by the enum types that name a bit
// position within a flag field.
type Ordinal interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Mask makes a mask for checking multiple different flags.
func Mask[F Ordinal](flags ...F) int64 {
	var mask int64
	for _, f := range flags {
		mask |= 1 << uint32(f)
	}
	return mask
}

// Set sets bit value(s) for ordinal bit position flags.
func Set[F Ordinal](bits *int64, flags ...F) {
	*bits |= Mask(flags...)
}

// Clear clears bit value(s) for ordinal bit position flags.
func Clear[F Ordinal](bits *int64, flags ...F) {
	*bits &^= Mask(flags...)
}

// SetState sets or clears bit value(s) depending on state (on / off) for
// ordinal bit position flags.
func SetState[F Ordinal](bits *int64, state bool, flags ...F) {
	if state {
		Set(bits, flags...)
	} else {
		Clear(bits, flags...)
	}
}

// Has checks if given bit value is set for ordinal bit position flag.
func Has[F Ordinal](bits int64, flag F) bool {
	return bits&(1<<uint32(flag)) != 0
}

// HasAny checks if any of a set of flags are set for ordinal bit position
// flags (logical OR).
func HasAny[F Ordinal](bits int64, flags ...F) bool {
	return bits&Mask(flags...) != 0
}

// HasAll checks if all of a set of flags are set for ordinal bit position
// flags (logical AND).
func HasAll[F Ordinal](bits int64, flags ...F) bool {
	mask := Mask(flags...)
	return bits&mask == mask
}
