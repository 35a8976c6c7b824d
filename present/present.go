// Package present renders arbitrary values as short strings for failure
// messages.
package present

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/amp-labs/amp-matchers/envutil"
)

// DefaultStringLimit is the rune limit applied to presented strings when
// MATCHER_STRING_LIMIT is not set.
const DefaultStringLimit = 25

// Presenter turns a value into its display form. Implementations must not
// panic, whatever the value.
type Presenter interface {
	Present(value any) string
}

// Func adapts a plain function to the Presenter interface.
type Func func(value any) string

func (f Func) Present(value any) string {
	return f(value)
}

// Options configures the Default presenter.
type Options struct {
	// StringLimit truncates presented strings to this many runes,
	// appending "...". Zero or less means no limit.
	StringLimit int
}

// Default is the standard presenter.
type Default struct {
	opts Options
}

var _ Presenter = (*Default)(nil)

// New returns a Default presenter using opts.
func New(opts Options) *Default {
	return &Default{opts: opts}
}

// FromEnv returns a Default presenter configured from MATCHER_STRING_LIMIT.
func FromEnv() *Default {
	limit := envutil.Int("MATCHER_STRING_LIMIT", envutil.Default(DefaultStringLimit)).
		ValueOrElse(DefaultStringLimit)

	return New(Options{StringLimit: limit})
}

// Value presents v with a presenter configured from the environment.
func Value(v any) string {
	return FromEnv().Present(v)
}

// Present renders value:
//
//	nil              null
//	true             true
//	42               42
//	1.5              1.5 (whole floats keep a trailing .0)
//	"abc"            "abc"
//	[]int{1, 2}      [slice:2]
//	[3]int{}         [array:3]
//	map[string]int{} [map:0]
//	errors.New("x")  [err:*errors.errorString("x")]
//	time.Second      [obj:time.Duration("1s")]
//	struct{}{}       [obj:struct {}]
func (d *Default) Present(value any) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = fmt.Sprintf("[unpresentable:%T]", value)
		}
	}()

	if value == nil {
		return "null"
	}

	if isNilPointer(value) {
		return fmt.Sprintf("[nil:%T]", value)
	}

	switch val := value.(type) {
	case string:
		return d.presentString(val)
	case bool:
		return strconv.FormatBool(val)
	case error:
		return fmt.Sprintf("[err:%T(%s)]", val, d.presentString(val.Error()))
	case fmt.Stringer:
		return fmt.Sprintf("[obj:%T(%s)]", val, d.presentString(val.String()))
	}

	return d.presentReflect(reflect.ValueOf(value))
}

func (d *Default) presentReflect(rv reflect.Value) string {
	typ := rv.Type()

	switch rv.Kind() { //nolint:exhaustive
	case reflect.String:
		return d.presentString(rv.String())
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return presentFloat(rv.Float(), typ.Bits())
	case reflect.Complex64, reflect.Complex128:
		return strconv.FormatComplex(rv.Complex(), 'g', -1, typ.Bits())
	case reflect.Slice:
		return fmt.Sprintf("[slice:%d]", rv.Len())
	case reflect.Array:
		return fmt.Sprintf("[array:%d]", rv.Len())
	case reflect.Map:
		return fmt.Sprintf("[map:%d]", rv.Len())
	case reflect.Chan:
		return fmt.Sprintf("[chan:%s]", typ)
	case reflect.Func:
		return fmt.Sprintf("[func:%s]", typ)
	case reflect.Pointer:
		if rv.IsNil() {
			return fmt.Sprintf("[nil:%s]", typ)
		}

		if typ.Elem().Kind() == reflect.Struct {
			return fmt.Sprintf("[obj:%s]", typ)
		}

		return d.presentReflect(rv.Elem())
	case reflect.Struct:
		return fmt.Sprintf("[obj:%s]", typ)
	default:
		return fmt.Sprintf("[%s]", typ)
	}
}

func (d *Default) presentString(s string) string {
	if d.opts.StringLimit > 0 && utf8.RuneCountInString(s) > d.opts.StringLimit {
		runes := []rune(s)

		return strconv.Quote(string(runes[:d.opts.StringLimit])) + "..."
	}

	return strconv.Quote(s)
}

func presentFloat(f float64, bits int) string {
	s := strconv.FormatFloat(f, 'g', -1, bits)
	if strings.ContainsAny(s, ".eEnN") { // n and N cover Inf and NaN
		return s
	}

	return s + ".0"
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)

	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
