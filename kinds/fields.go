// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kinds

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/jinzhu/copier"
	"github.com/mitchellh/mapstructure"

	"cogentcore.org/livetree/base/bitflag"
)

// ErrNoField is returned when a value has no persisted field with a name.
var ErrNoField = errors.New("kinds: no such field")

// Usage is a bit position in [Field.Usage].
type Usage int32

const (
	// Storage marks a field that is persisted. All enumerated fields have it.
	Storage Usage = iota

	// NoShare marks a field, tagged `dup:"fresh"`, whose value is
	// duplicated instead of shared when its owner is duplicated.
	NoShare

	// Script marks the field, tagged `dup:"script"`, that holds the
	// external script or behavior attached to a value.
	Script
)

// Resource is implemented by values held in fields that can produce a
// fresh, independent duplicate of themselves.
type Resource interface {
	DuplicateResource() any
}

// Field describes one persisted field of a struct kind.
type Field struct {

	// Name is the Go name of the field.
	Name string

	// Index is the index sequence for [reflect.Value.FieldByIndex].
	Index []int

	// Type is the type of the field.
	Type reflect.Type

	// Usage has the [Usage] bits of the field.
	Usage int64
}

// Has returns whether the field has the given usage.
func (f Field) Has(u Usage) bool {
	return bitflag.Has(f.Usage, u)
}

var fieldCache sync.Map // reflect.Type -> []Field

// Fields returns the persisted fields of the given struct pointer value:
// all exported fields, including those promoted from embedded structs,
// except those tagged `copier:"-"` or `dup:"-"`. Outer fields shadow
// promoted fields of the same name.
func Fields(v any) []Field {
	typ := reflect.TypeOf(v)
	for typ != nil && typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ == nil || typ.Kind() != reflect.Struct {
		return nil
	}
	if fs, ok := fieldCache.Load(typ); ok {
		return fs.([]Field)
	}
	var fs []Field
	seen := map[string]bool{}
	collectFields(typ, nil, seen, &fs)
	fieldCache.Store(typ, fs)
	return fs
}

func collectFields(typ reflect.Type, index []int, seen map[string]bool, fs *[]Field) {
	var embeds []reflect.StructField
	for i := range typ.NumField() {
		sf := typ.Field(i)
		if sf.Tag.Get("copier") == "-" || sf.Tag.Get("dup") == "-" {
			continue
		}
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			embeds = append(embeds, sf)
			continue
		}
		if !sf.IsExported() || seen[sf.Name] {
			continue
		}
		seen[sf.Name] = true
		f := Field{Name: sf.Name, Index: append(append([]int{}, index...), i), Type: sf.Type}
		bitflag.Set(&f.Usage, Storage)
		switch sf.Tag.Get("dup") {
		case "fresh":
			bitflag.Set(&f.Usage, NoShare)
		case "script":
			bitflag.Set(&f.Usage, Script)
		}
		*fs = append(*fs, f)
	}
	for _, sf := range embeds {
		collectFields(sf.Type, append(append([]int{}, index...), sf.Index...), seen, fs)
	}
}

// FieldByName returns the persisted field of v with the given name.
func FieldByName(v any, name string) (Field, bool) {
	for _, f := range Fields(v) {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Get returns the value of the persisted field of v with the given name.
func Get(v any, name string) (any, bool) {
	f, ok := FieldByName(v, name)
	if !ok {
		return nil, false
	}
	return reflect.ValueOf(v).Elem().FieldByIndex(f.Index).Interface(), true
}

// Set sets the persisted field of v with the given name to the given value.
// Values that are not directly assignable are converted when possible, and
// otherwise decoded with weak typing (so that, for example, a map read from
// a scene file can fill a struct field).
func Set(v any, name string, value any) error {
	f, ok := FieldByName(v, name)
	if !ok {
		return fmt.Errorf("%w %q in %T", ErrNoField, name, v)
	}
	fv := reflect.ValueOf(v).Elem().FieldByIndex(f.Index)
	if value == nil {
		fv.SetZero()
		return nil
	}
	rv := reflect.ValueOf(value)
	switch {
	case rv.Type().AssignableTo(f.Type):
		fv.Set(rv)
		return nil
	case rv.Type().ConvertibleTo(f.Type) && rv.Kind() != reflect.String && f.Type.Kind() != reflect.String:
		fv.Set(rv.Convert(f.Type))
		return nil
	}
	ptr := reflect.New(f.Type)
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           ptr.Interface(),
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(value); err != nil {
		return fmt.Errorf("kinds: setting field %q of %T: %w", name, v, err)
	}
	fv.Set(ptr.Elem())
	return nil
}

// DuplicateValue returns the value to store in a copy for the given field
// value. Sequences and maps get a new container holding the same elements,
// so that the copy does not alias the original container while references
// to other values stay shared. Values in [NoShare] fields are duplicated:
// a [Resource] duplicates itself, and a plain struct pointer gets a
// field-wise copy. Everything else is shared.
func DuplicateValue(f Field, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	if f.Has(NoShare) {
		if res, ok := value.(Resource); ok {
			return res.DuplicateResource(), nil
		}
		if rv := reflect.ValueOf(value); rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Elem().Kind() == reflect.Struct {
			dst := reflect.New(rv.Elem().Type())
			if err := copier.CopyWithOption(dst.Interface(), value, copier.Option{CaseSensitive: true}); err != nil {
				return nil, err
			}
			return dst.Interface(), nil
		}
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return value, nil
		}
		dst := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		reflect.Copy(dst, rv)
		return dst.Interface(), nil
	case reflect.Map:
		if rv.IsNil() {
			return value, nil
		}
		dst := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			dst.SetMapIndex(iter.Key(), iter.Value())
		}
		return dst.Interface(), nil
	}
	return value, nil
}

// ParseName normalizes the given field name as written in a description
// (eg: wait_time or waitTime) to its Go name (eg: WaitTime) when v has
// such a field, and returns it unchanged otherwise.
func ParseName(v any, name string) string {
	if _, ok := FieldByName(v, name); ok {
		return name
	}
	for _, f := range Fields(v) {
		if strings.EqualFold(f.Name, strings.ReplaceAll(name, "_", "")) {
			return f.Name
		}
	}
	return name
}
