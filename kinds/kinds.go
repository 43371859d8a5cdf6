// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package kinds provides a registry of the concrete kinds of values that
// can be constructed by name, and reflection-based access to their
// persisted fields. The live tree uses it as the factory and field system
// behind node duplication, and scene loaders use it to build nodes from
// descriptions.
package kinds

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/iancoleman/strcase"
)

// ErrUnknownKind is returned when a kind name is not in the registry.
var ErrUnknownKind = errors.New("kinds: unknown kind")

// Kind represents a concrete kind of value.
type Kind struct {

	// Name is the fully package-path-qualified name of the kind
	// (eg: cogentcore.org/livetree/nodes.Timer).
	Name string

	// IDName is the short, package-unqualified, kebab-case name of the kind
	// that is suitable for use in an ID (eg: timer).
	IDName string

	// New returns a new blank instance of the kind, as a pointer.
	New func() any

	// ID is the unique kind ID number, assigned by [Add].
	ID uint64
}

func (k *Kind) String() string {
	return k.Name
}

// ShortName returns the package-unqualified name of the kind (eg: Timer).
func (k *Kind) ShortName() string {
	li := strings.LastIndex(k.Name, ".")
	return k.Name[li+1:]
}

// ReflectType returns the non-pointer [reflect.Type] of the kind.
func (k *Kind) ReflectType() reflect.Type {
	if k.New == nil {
		return nil
	}
	return reflect.TypeOf(k.New()).Elem()
}

var (
	// registry holds all kinds, keyed by [Kind.Name].
	registry = map[string]*Kind{}

	// byShort holds all kinds keyed by [Kind.ShortName]; a nil entry
	// means the short name is ambiguous.
	byShort = map[string]*Kind{}

	registryMu sync.RWMutex

	lastID atomic.Uint64
)

// Add adds the given kind to the registry, assigning its ID and IDName
// if they are not already set. It returns the registered kind, which is
// the existing one if a kind with the same name was already added.
func Add(k *Kind) *Kind {
	registryMu.Lock()
	defer registryMu.Unlock()
	if ex, ok := registry[k.Name]; ok {
		return ex
	}
	k.ID = lastID.Add(1)
	if k.IDName == "" {
		k.IDName = strcase.ToKebab(k.ShortName())
	}
	registry[k.Name] = k
	sn := k.ShortName()
	if _, ok := byShort[sn]; ok {
		byShort[sn] = nil
	} else {
		byShort[sn] = k
	}
	return k
}

// AddValue registers the kind of the given pointer value, using
// [reflect.New] as the constructor.
func AddValue(v any) *Kind {
	typ := reflect.TypeOf(v)
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	return Add(&Kind{
		Name: TypeName(typ),
		New:  func() any { return reflect.New(typ).Interface() },
	})
}

// ByName returns the kind with the given fully qualified name, or with the
// given short name if that is unambiguous. It returns nil if none is found.
func ByName(name string) *Kind {
	registryMu.RLock()
	defer registryMu.RUnlock()
	if k, ok := registry[name]; ok {
		return k
	}
	return byShort[name]
}

// ByValue returns the kind of the given value, registering it with
// [AddValue] if it is not already in the registry.
func ByValue(v any) *Kind {
	typ := reflect.TypeOf(v)
	if typ == nil {
		return nil
	}
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if k := ByName(TypeName(typ)); k != nil {
		return k
	}
	return AddValue(v)
}

// New returns a new instance of the kind with the given name.
func New(name string) (any, error) {
	k := ByName(name)
	if k == nil || k.New == nil {
		return nil, fmt.Errorf("%w %q", ErrUnknownKind, name)
	}
	return k.New(), nil
}

// All returns all of the registered kinds, in no particular order.
func All() []*Kind {
	registryMu.RLock()
	defer registryMu.RUnlock()
	res := make([]*Kind, 0, len(registry))
	for _, k := range registry {
		res = append(res, k)
	}
	return res
}

// TypeName returns the fully package-path-qualified name of the given
// non-pointer type.
func TypeName(typ reflect.Type) string {
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.PkgPath() == "" {
		return typ.String()
	}
	return typ.PkgPath() + "." + typ.Name()
}
