package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"time"

	"github.com/goccy/go-yaml"
)

// dateLayout is used when a time.Time lands in the data tree.
const dateLayout = "2006-01-02"

// ParseJSON decodes a JSON document. Numbers keep integer precision.
func ParseJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Value{}, fmt.Errorf("failed to decode JSON data: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Value{}, fmt.Errorf("failed to decode JSON data: unexpected data after offset %d", dec.InputOffset())
	}
	return FromAny(raw)
}

// ParseYAML decodes a YAML document. JSON input is accepted as well.
func ParseYAML(data []byte) (Value, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Value{}, fmt.Errorf("failed to decode YAML data: %w", err)
	}
	return FromAny(raw)
}

// FromAny converts native Go data into a Value. Maps must have string-like
// keys; structs, channels and functions are rejected.
func FromAny(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := x.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q: %w", x.String(), err)
		}
		return Float(f), nil
	case int:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return Float(float64(x)), nil
		}
		return Int(int64(x)), nil
	case float64:
		return Float(x), nil
	case time.Time:
		return String(x.Format(dateLayout)), nil
	case *time.Time:
		if x == nil {
			return Null(), nil
		}
		return String(x.Format(dateLayout)), nil
	case []any:
		items := make([]Value, len(x))
		for i, item := range x {
			conv, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			items[i] = conv
		}
		return Array(items...), nil
	case map[string]any:
		fields := make(map[string]Value, len(x))
		for k, item := range x {
			conv, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("key %q: %w", k, err)
			}
			fields[k] = conv
		}
		return Object(fields), nil
	}
	return fromReflect(reflect.ValueOf(v))
}

// MustFromAny is FromAny for literals in tests and examples.
func MustFromAny(v any) Value {
	conv, err := FromAny(v)
	if err != nil {
		panic(err)
	}
	return conv
}

func fromReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}
		return FromAny(rv.Elem().Interface())
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return FromAny(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Array(), nil
		}
		items := make([]Value, rv.Len())
		for i := range items {
			conv, err := FromAny(rv.Index(i).Interface())
			if err != nil {
				return Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			items[i] = conv
		}
		return Array(items...), nil
	case reflect.Map:
		fields := make(map[string]Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key := fmt.Sprint(iter.Key().Interface())
			conv, err := FromAny(iter.Value().Interface())
			if err != nil {
				return Value{}, fmt.Errorf("key %q: %w", key, err)
			}
			fields[key] = conv
		}
		return Object(fields), nil
	default:
		return Value{}, fmt.Errorf("unsupported data type %s", rv.Type())
	}
}
