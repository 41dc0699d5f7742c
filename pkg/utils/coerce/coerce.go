package coerce

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/spf13/cast"
)

// ============================================================================
// SAFE COERCION HELPERS
// Expression results are untyped. These helpers turn them into the shape the
// compiler needs without panicking.
// ============================================================================

// ToString renders any value as text. Nil becomes "".
func ToString(input interface{}) string {
	if input == nil {
		return ""
	}
	s, err := cast.ToStringE(input)
	if err != nil {
		return fmt.Sprintf("%v", input)
	}
	return s
}

func ToInt(input interface{}) (int, error) {
	if input == nil {
		return 0, nil
	}
	i, err := cast.ToIntE(input)
	if err != nil {
		return 0, fmt.Errorf("failed to coerce value '%v' (type %T) to int", input, input)
	}
	return i, nil
}

// ToBool accepts true/false, 1/0 and their string forms.
func ToBool(input interface{}) (bool, error) {
	if input == nil {
		return false, nil
	}
	b, err := cast.ToBoolE(input)
	if err != nil {
		return false, fmt.Errorf("failed to coerce value '%v' (type %T) to bool", input, input)
	}
	return b, nil
}

func ToMap(input interface{}) (map[string]interface{}, error) {
	if input == nil {
		return nil, nil
	}
	m, err := cast.ToStringMapE(input)
	if err != nil {
		return nil, fmt.Errorf("failed to coerce value (type %T) to map", input)
	}
	return m, nil
}

// Truthy decides whether a conditional value selects its branch.
// Nil, false, zero numbers and the empty string are false. Every other
// string is true, including "0" and "false".
func Truthy(input interface{}) bool {
	switch v := input.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		f, err := cast.ToFloat64E(v)
		return err != nil || f != 0
	}
	rv := reflect.ValueOf(input)
	if (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) && rv.IsNil() {
		return false
	}
	return true
}

// Sequence returns the elements of a slice or array. Other inputs report false.
func Sequence(input interface{}) ([]interface{}, bool) {
	if input == nil {
		return nil, false
	}
	if s, ok := input.([]interface{}); ok {
		return s, true
	}
	rv := reflect.ValueOf(input)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// Keys returns the property names of a map, struct, slice or array. Map keys
// are sorted, struct fields keep their declaration order and sequences give
// their indices. Other inputs report false.
func Keys(input interface{}) ([]string, bool) {
	if input == nil {
		return nil, false
	}
	rv := reflect.ValueOf(input)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, ToString(k.Interface()))
		}
		sort.Strings(keys)
		return keys, true
	case reflect.Struct:
		t := rv.Type()
		var keys []string
		for i := 0; i < t.NumField(); i++ {
			if t.Field(i).IsExported() {
				keys = append(keys, t.Field(i).Name)
			}
		}
		return keys, true
	case reflect.Slice, reflect.Array:
		keys := make([]string, rv.Len())
		for i := range keys {
			keys[i] = strconv.Itoa(i)
		}
		return keys, true
	}
	return nil, false
}
