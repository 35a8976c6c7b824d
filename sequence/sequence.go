// Package sequence adapts Go values into ordered sequences of key/value
// pairs.
//
// Only a closed set of shapes is accepted:
//
//   - slices, arrays and pointers to arrays, keyed by index;
//   - range-over-func values: func(yield func(K, V) bool) yields its own keys,
//     func(yield func(V) bool) is keyed by position;
//   - channels that can be received from, keyed by position;
//   - maps, walked in natural key order (see Of);
//   - values whose All method returns one of the range-over-func shapes.
//
// Strings, numbers, booleans, structs and nil values are not sequences.
package sequence

import (
	"cmp"
	"fmt"
	"iter"
	"reflect"
	"slices"
	"strings"

	"facette.io/natsort"
)

// Seq is the dynamically typed sequence every adapter produces.
type Seq = iter.Seq2[any, any]

// Of adapts v to a Seq. The second result is false when v is not one of
// the accepted shapes. The returned sequence reads v lazily and does not
// copy it, so single-pass sources such as channels stay single-pass.
func Of(v any) (Seq, bool) {
	if s, ok := v.(Seq); ok {
		return s, s != nil
	}

	return ofValue(reflect.ValueOf(v))
}

// IsIterable reports whether Of would accept v. It never reads from v.
func IsIterable(v any) bool {
	return isIterableValue(reflect.ValueOf(v))
}

// Erase turns a typed sequence into a Seq.
func Erase[K, V any](s iter.Seq2[K, V]) Seq {
	return func(yield func(any, any) bool) {
		for k, v := range s {
			if !yield(k, v) {
				return
			}
		}
	}
}

// Indexed turns a sequence of values into a Seq keyed by 0-based position.
func Indexed[V any](s iter.Seq[V]) Seq {
	return func(yield func(any, any) bool) {
		i := 0

		for v := range s {
			if !yield(i, v) {
				return
			}

			i++
		}
	}
}

// Pairs builds a Seq from alternating keys and values:
//
//	sequence.Pairs("a", 1, "b", 2)
//
// It panics if given an odd number of arguments.
func Pairs(kv ...any) Seq {
	if len(kv)%2 != 0 {
		panic(fmt.Sprintf("sequence.Pairs: odd number of arguments (%d)", len(kv)))
	}

	return func(yield func(any, any) bool) {
		for i := 0; i < len(kv); i += 2 {
			if !yield(kv[i], kv[i+1]) {
				return
			}
		}
	}
}

func isIterableValue(rv reflect.Value) bool {
	if !rv.IsValid() {
		return false
	}

	switch rv.Kind() { //nolint:exhaustive
	case reflect.Slice, reflect.Array, reflect.Map:
		return true
	case reflect.Pointer:
		if rv.IsNil() {
			return false
		}

		if rv.Type().Elem().Kind() == reflect.Array {
			return true
		}
	case reflect.Chan:
		return rv.Type().ChanDir()&reflect.RecvDir != 0 && !rv.IsNil()
	case reflect.Func:
		return isRangeFunc(rv.Type()) && !rv.IsNil()
	}

	if all, ok := allMethod(rv); ok {
		return isRangeFunc(all.Type().Out(0))
	}

	return false
}

func ofValue(rv reflect.Value) (Seq, bool) {
	if !isIterableValue(rv) {
		return nil, false
	}

	switch rv.Kind() { //nolint:exhaustive
	case reflect.Slice, reflect.Array:
		return fromSeq2(rv), true
	case reflect.Pointer:
		if rv.Type().Elem().Kind() == reflect.Array {
			return fromSeq2(rv), true
		}
	case reflect.Map:
		return fromMap(rv), true
	case reflect.Chan:
		return fromSeq(rv), true
	case reflect.Func:
		return fromFunc(rv), true
	}

	all, _ := allMethod(rv)

	return func(yield func(any, any) bool) {
		res := all.Call(nil)[0]
		if res.IsNil() {
			return
		}

		fromFunc(res)(yield)
	}, true
}

// isRangeFunc reports whether t is func(func(K, V) bool) or func(func(V) bool).
func isRangeFunc(t reflect.Type) bool {
	return t.Kind() == reflect.Func && (t.CanSeq2() || t.CanSeq())
}

// allMethod finds an All method taking nothing and returning one value.
func allMethod(rv reflect.Value) (reflect.Value, bool) {
	method := rv.MethodByName("All")
	if !method.IsValid() {
		return reflect.Value{}, false
	}

	mt := method.Type()
	if mt.NumIn() != 0 || mt.NumOut() != 1 {
		return reflect.Value{}, false
	}

	return method, true
}

func fromFunc(rv reflect.Value) Seq {
	if rv.Type().CanSeq2() {
		return fromSeq2(rv)
	}

	return fromSeq(rv)
}

func fromSeq2(rv reflect.Value) Seq {
	return func(yield func(any, any) bool) {
		for k, v := range rv.Seq2() {
			if !yield(k.Interface(), v.Interface()) {
				return
			}
		}
	}
}

func fromSeq(rv reflect.Value) Seq {
	return func(yield func(any, any) bool) {
		i := 0

		for v := range rv.Seq() {
			if !yield(i, v.Interface()) {
				return
			}

			i++
		}
	}
}

// fromMap walks a map in natural key order. Entries are read once up
// front, so keys that cannot be looked up again (NaN) keep their values.
func fromMap(rv reflect.Value) Seq {
	return func(yield func(any, any) bool) {
		for _, e := range sortedEntries(rv) {
			if !yield(e.key.Interface(), e.value.Interface()) {
				return
			}
		}
	}
}

type entry struct {
	key   reflect.Value
	value reflect.Value
}

func mapEntries(rv reflect.Value) []entry {
	entries := make([]entry, 0, rv.Len())

	it := rv.MapRange()
	for it.Next() {
		entries = append(entries, entry{key: it.Key(), value: it.Value()})
	}

	return entries
}

// sortedEntries orders map entries by key: integers and floats
// numerically (NaN first), strings naturally ("item2" before "item10"),
// anything else by the natural order of its %v form.
func sortedEntries(rv reflect.Value) []entry {
	entries := mapEntries(rv)

	switch rv.Type().Key().Kind() { //nolint:exhaustive
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		slices.SortFunc(entries, func(a, b entry) int {
			return cmp.Compare(a.key.Int(), b.key.Int())
		})
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		slices.SortFunc(entries, func(a, b entry) int {
			return cmp.Compare(a.key.Uint(), b.key.Uint())
		})
	case reflect.Float32, reflect.Float64:
		// Several NaN keys compare equal; fall back on their values so the
		// order does not depend on the map's random iteration.
		slices.SortFunc(entries, func(a, b entry) int {
			if c := cmp.Compare(a.key.Float(), b.key.Float()); c != 0 {
				return c
			}

			return strings.Compare(fmt.Sprintf("%v", a.value.Interface()), fmt.Sprintf("%v", b.value.Interface()))
		})
	case reflect.String:
		return naturalOrder(entries, func(k reflect.Value) string { return k.String() })
	default:
		return naturalOrder(entries, func(k reflect.Value) string { return fmt.Sprintf("%v", k.Interface()) })
	}

	return entries
}

// naturalOrder sorts entries by natsort on label(key). Entries sharing a
// label keep the relative order in which the map produced them.
func naturalOrder(entries []entry, label func(reflect.Value) string) []entry {
	groups := make(map[string][]entry, len(entries))
	labels := make([]string, 0, len(entries))

	for _, e := range entries {
		l := label(e.key)
		if _, seen := groups[l]; !seen {
			labels = append(labels, l)
		}

		groups[l] = append(groups[l], e)
	}

	natsort.Sort(labels)

	sorted := make([]entry, 0, len(entries))
	for _, l := range labels {
		sorted = append(sorted, groups[l]...)
	}

	return sorted
}
