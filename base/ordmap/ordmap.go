// Copyright (c) 2022, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package ordmap implements an ordered map that retains the order of items
added to a slice, while also providing fast key-based map lookup of items.

The live tree uses it wherever iteration order has to be deterministic:
the group membership of a node is listed in the order the groups were
joined, and the per-frame queue of unique group calls is flushed in the
order the calls were first made, even when later calls replace the
arguments of earlier ones.

The slice holds the key and value for items as they are added, and the
map holds the index into the slice. Adding and access are fast, while
deleting is relatively slow, requiring renumbering of the index map.
*/
package ordmap

import (
	"fmt"
	"slices"
	"strings"
)

// KeyValue represents a key-value pair.
type KeyValue[K comparable, V any] struct {
	Key   K
	Value V
}

// Map is a generic ordered map that combines the order of a slice
// and the fast key lookup of a map. The zero value is ready to use.
type Map[K comparable, V any] struct {

	// Order is an ordered list of values and associated keys, in the order added.
	Order []KeyValue[K, V]

	// Map is the key to index mapping.
	Map map[K]int
}

// New returns a new ordered map.
func New[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{Map: make(map[K]int)}
}

// init initializes the map if it isn't already.
func (om *Map[K, V]) init() {
	if om.Map == nil {
		om.Map = make(map[K]int)
	}
}

// Reset resets the map, removing any existing elements.
func (om *Map[K, V]) Reset() {
	om.Map = nil
	om.Order = nil
}

// Add adds a new value for given key. If the key already exists in the map,
// it replaces the value at that existing index, keeping its position;
// otherwise it is added to the end.
func (om *Map[K, V]) Add(key K, val V) {
	om.init()
	if idx, has := om.Map[key]; has {
		om.Order[idx].Value = val
		return
	}
	om.Map[key] = len(om.Order)
	om.Order = append(om.Order, KeyValue[K, V]{Key: key, Value: val})
}

// Has returns whether the given key is in the map.
func (om *Map[K, V]) Has(key K) bool {
	_, has := om.Map[key]
	return has
}

// ValueByKey returns the value corresponding to the given key,
// with a zero value returned for a missing key.
func (om *Map[K, V]) ValueByKey(key K) V {
	v, _ := om.ValueByKeyTry(key)
	return v
}

// ValueByKeyTry returns the value corresponding to the given key,
// with false returned for a missing key.
func (om *Map[K, V]) ValueByKeyTry(key K) (V, bool) {
	if idx, ok := om.Map[key]; ok {
		return om.Order[idx].Value, true
	}
	var zv V
	return zv, false
}

// Len returns the number of items in the map.
func (om *Map[K, V]) Len() int {
	if om == nil {
		return 0
	}
	return len(om.Order)
}

// DeleteKey deletes the item with the given key, returning false if it
// does not find it. Items after it are renumbered.
func (om *Map[K, V]) DeleteKey(key K) bool {
	idx, ok := om.Map[key]
	if !ok {
		return false
	}
	om.Order = slices.Delete(om.Order, idx, idx+1)
	delete(om.Map, key)
	for i := idx; i < len(om.Order); i++ {
		om.Map[om.Order[i].Key] = i
	}
	return true
}

// Keys returns a new slice of the keys in order.
func (om *Map[K, V]) Keys() []K {
	kl := make([]K, len(om.Order))
	for i, kv := range om.Order {
		kl[i] = kv.Key
	}
	return kl
}

// Values returns a new slice of the values in order.
func (om *Map[K, V]) Values() []V {
	vl := make([]V, len(om.Order))
	for i, kv := range om.Order {
		vl[i] = kv.Value
	}
	return vl
}

// Drain returns all of the items in order and resets the map,
// so that items added while the result is processed go into
// a fresh map.
func (om *Map[K, V]) Drain() []KeyValue[K, V] {
	items := om.Order
	om.Reset()
	return items
}

// String returns a string representation of the map in order.
func (om *Map[K, V]) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, kv := range om.Order {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%v: %v", kv.Key, kv.Value)
	}
	sb.WriteByte('}')
	return sb.String()
}
