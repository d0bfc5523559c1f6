package httplite

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"
)

// JSONer is implemented by values that know how to render themselves as a
// JSON fragment.
type JSONer interface {
	ToJSON() string
}

// ToJSON renders v as single-line JSON. Supported values are strings, all
// integer kinds, slices and arrays of supported values, maps of supported
// values and anything implementing JSONer. Map keys use their string form
// and are emitted in sorted order.
func ToJSON(v any) (string, error) {
	var sb strings.Builder
	if err := writeJSON(&sb, reflect.ValueOf(v)); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func writeJSON(sb *strings.Builder, v reflect.Value) error {
	if !v.IsValid() {
		return fmt.Errorf("%w: nil", ErrUnsupportedJSON)
	}

	if v.CanInterface() {
		if j, ok := v.Interface().(JSONer); ok {
			sb.WriteString(j.ToJSON())
			return nil
		}
	}

	switch v.Kind() {
	case reflect.Interface, reflect.Pointer:
		if v.IsNil() {
			return fmt.Errorf("%w: nil %s", ErrUnsupportedJSON, v.Type())
		}
		return writeJSON(sb, v.Elem())
	case reflect.String:
		return writeJSONString(sb, v.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		sb.WriteString(strconv.FormatInt(v.Int(), 10))
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		sb.WriteString(strconv.FormatUint(v.Uint(), 10))
		return nil
	case reflect.Slice, reflect.Array:
		sb.WriteByte('[')
		for i := 0; i < v.Len(); i++ {
			if i > 0 {
				sb.WriteByte(',')
			}
			if err := writeJSON(sb, v.Index(i)); err != nil {
				return err
			}
		}
		sb.WriteByte(']')
		return nil
	case reflect.Map:
		return writeJSONObject(sb, v)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedJSON, v.Type())
	}
}

func writeJSONObject(sb *strings.Builder, v reflect.Value) error {
	type entry struct {
		key   string
		value reflect.Value
	}

	entries := make([]entry, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		entries = append(entries, entry{key: keyString(iter.Key()), value: iter.Value()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })

	sb.WriteByte('{')
	for i, e := range entries {
		if i > 0 {
			sb.WriteByte(',')
		}
		if err := writeJSONString(sb, e.key); err != nil {
			return err
		}
		sb.WriteByte(':')
		if err := writeJSON(sb, e.value); err != nil {
			return err
		}
	}
	sb.WriteByte('}')
	return nil
}

// keyString returns the string form of a map key
func keyString(k reflect.Value) string {
	if k.Kind() == reflect.Interface && !k.IsNil() {
		k = k.Elem()
	}
	if k.CanInterface() {
		if s, ok := k.Interface().(fmt.Stringer); ok {
			return s.String()
		}
	}
	if k.Kind() == reflect.String {
		return k.String()
	}
	return fmt.Sprint(k.Interface())
}

func writeJSONString(sb *strings.Builder, s string) error {
	b, err := gojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to quote string: %w", err)
	}
	sb.Write(b)
	return nil
}
