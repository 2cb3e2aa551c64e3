package script

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/milk9111/swarm/ecs/component"
	"gopkg.in/yaml.v3"
)

// Binding exposes one component key to scripts under Name. Encode turns an
// instance into a plain map; Decode writes a map back into an instance in
// place. New builds an empty instance for entities that lack the component.
type Binding struct {
	Name   string
	Key    component.ComponentID
	New    func() any
	Encode func(v any) (map[string]any, error)
	Decode func(m map[string]any, v any) error
}

// Bind exposes handle using the struct's yaml tags as script field names,
// the same names the scene manifests use. Scalar fields keep their Go kind:
// a float64 field is always a script float, even when it holds 5.0.
func Bind[T any](name string, handle component.ComponentHandle[*T]) Binding {
	fields := structFields(reflect.TypeFor[T]())
	return Binding{
		Name: name,
		Key:  handle.ID(),
		New:  func() any { return new(T) },
		Encode: func(v any) (map[string]any, error) {
			c, ok := v.(*T)
			if !ok {
				return nil, fmt.Errorf("script: %s holds %T", name, v)
			}
			return encodeFields(reflect.ValueOf(c).Elem(), fields)
		},
		Decode: func(m map[string]any, v any) error {
			c, ok := v.(*T)
			if !ok {
				return fmt.Errorf("script: %s holds %T", name, v)
			}
			return decodeFields(m, reflect.ValueOf(c).Elem(), fields)
		},
	}
}

type field struct {
	key   string
	index int
}

// structFields lists the exported fields of t under their yaml names. A
// non-struct t has no fields.
func structFields(t reflect.Type) []field {
	if t.Kind() != reflect.Struct {
		return nil
	}
	var out []field
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		key, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if key == "-" {
			continue
		}
		if key == "" {
			key = strings.ToLower(f.Name)
		}
		out = append(out, field{key: key, index: i})
	}
	return out
}

func encodeFields(v reflect.Value, fields []field) (map[string]any, error) {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		fv := v.Field(f.index)
		switch fv.Kind() {
		case reflect.Float32, reflect.Float64:
			out[f.key] = fv.Float()
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			out[f.key] = fv.Int()
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			out[f.key] = int64(fv.Uint())
		case reflect.Bool:
			out[f.key] = fv.Bool()
		case reflect.String:
			out[f.key] = fv.String()
		default:
			nested, err := toPlain(fv.Interface())
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", f.key, err)
			}
			out[f.key] = nested
		}
	}
	return out, nil
}

// decodeFields writes the keys present in m into v. Numbers convert to the
// field's kind, so a script int assigned to a float field stays exact.
func decodeFields(m map[string]any, v reflect.Value, fields []field) error {
	for _, f := range fields {
		raw, ok := m[f.key]
		if !ok {
			continue
		}
		fv := v.Field(f.index)
		switch fv.Kind() {
		case reflect.Float32, reflect.Float64:
			n, ok := toFloat(raw)
			if !ok {
				return fmt.Errorf("field %s: want number, got %T", f.key, raw)
			}
			fv.SetFloat(n)
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			n, ok := toFloat(raw)
			if !ok {
				return fmt.Errorf("field %s: want number, got %T", f.key, raw)
			}
			fv.SetInt(int64(n))
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			n, ok := toFloat(raw)
			if !ok || n < 0 {
				return fmt.Errorf("field %s: want non-negative number, got %v", f.key, raw)
			}
			fv.SetUint(uint64(n))
		case reflect.Bool:
			b, ok := raw.(bool)
			if !ok {
				return fmt.Errorf("field %s: want bool, got %T", f.key, raw)
			}
			fv.SetBool(b)
		case reflect.String:
			s, ok := raw.(string)
			if !ok {
				return fmt.Errorf("field %s: want string, got %T", f.key, raw)
			}
			fv.SetString(s)
		default:
			data, err := yaml.Marshal(raw)
			if err != nil {
				return fmt.Errorf("field %s: %w", f.key, err)
			}
			if err := yaml.Unmarshal(data, fv.Addr().Interface()); err != nil {
				return fmt.Errorf("field %s: %w", f.key, err)
			}
		}
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// toPlain converts nested values (slices, maps, structs) into yaml's plain
// form, which tengo can represent.
func toPlain(v any) (any, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
