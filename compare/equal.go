package compare

import (
	"math"
	"reflect"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// looseOptions is the option set behind Equal and Diff.
//
//nolint:gochecknoglobals
var looseOptions = []cmp.Option{
	cmp.Exporter(func(reflect.Type) bool { return true }),
	cmpopts.EquateEmpty(),
	cmpopts.EquateNaNs(),
	cmp.FilterValues(mixedNumbers, cmp.Comparer(numbersEqual)),
}

//nolint:gochecknoglobals
var strictOptions = []cmp.Option{
	cmp.Exporter(func(reflect.Type) bool { return true }),
	cmpopts.EquateNaNs(),
}

// Equal is the default equality relation for sequence elements.
//
// If a has an Equals method accepting b, that method decides. Otherwise
// the values are compared structurally with go-cmp: unexported fields
// are inspected, nil and empty slices or maps are equal, NaN equals NaN,
// and numbers of different types are equal when they hold the same
// value (int(1) equals int64(1) and float64(1)). Values of otherwise
// different types are never equal.
func Equal(a, b any) bool {
	if eq, ok := callEquals(a, b); ok {
		return eq
	}

	return cmp.Equal(a, b, looseOptions...)
}

// Strict is deep equality without any loosening: dynamic types must match
// and nil slices differ from empty ones.
func Strict(a, b any) bool {
	return cmp.Equal(a, b, strictOptions...)
}

// Diff returns a human-readable report of the differences between a and b
// under the options Equal uses. It is empty when there are none.
func Diff(a, b any) string {
	return cmp.Diff(a, b, looseOptions...)
}

// callEquals invokes a.Equals(b) when a has such a method taking b's type
// and a is not a nil pointer.
func callEquals(a, b any) (bool, bool) {
	if a == nil || b == nil {
		return false, false
	}

	rv := reflect.ValueOf(a)

	// A value-receiver method cannot be called through a nil pointer.
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return false, false
	}

	method := rv.MethodByName("Equals")
	if !method.IsValid() {
		return false, false
	}

	mt := method.Type()
	if mt.NumIn() != 1 || mt.NumOut() != 1 || mt.Out(0).Kind() != reflect.Bool {
		return false, false
	}

	arg := reflect.ValueOf(b)
	if !arg.Type().AssignableTo(mt.In(0)) {
		return false, false
	}

	return method.Call([]reflect.Value{arg})[0].Bool(), true
}

type numberClass int

const (
	notNumber numberClass = iota
	signedNumber
	unsignedNumber
	floatNumber
)

func classify(v reflect.Value) numberClass {
	switch v.Kind() { //nolint:exhaustive
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return signedNumber
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return unsignedNumber
	case reflect.Float32, reflect.Float64:
		return floatNumber
	default:
		return notNumber
	}
}

// mixedNumbers selects pairs of numbers whose dynamic types differ.
func mixedNumbers(x, y any) bool {
	vx, vy := reflect.ValueOf(x), reflect.ValueOf(y)
	if !vx.IsValid() || !vy.IsValid() || vx.Type() == vy.Type() {
		return false
	}

	return classify(vx) != notNumber && classify(vy) != notNumber
}

func numbersEqual(x, y any) bool {
	vx, vy := reflect.ValueOf(x), reflect.ValueOf(y)
	cx, cy := classify(vx), classify(vy)

	switch {
	case cx == signedNumber && cy == signedNumber:
		return vx.Int() == vy.Int()
	case cx == unsignedNumber && cy == unsignedNumber:
		return vx.Uint() == vy.Uint()
	case cx == signedNumber && cy == unsignedNumber:
		return vx.Int() >= 0 && uint64(vx.Int()) == vy.Uint()
	case cx == unsignedNumber && cy == signedNumber:
		return vy.Int() >= 0 && uint64(vy.Int()) == vx.Uint()
	}

	fx, fy := toFloat(vx, cx), toFloat(vy, cy)
	if math.IsNaN(fx) && math.IsNaN(fy) {
		return true
	}

	return fx == fy
}

func toFloat(v reflect.Value, class numberClass) float64 {
	switch class { //nolint:exhaustive
	case signedNumber:
		return float64(v.Int())
	case unsignedNumber:
		return float64(v.Uint())
	default:
		return v.Float()
	}
}
