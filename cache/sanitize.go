package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"math"
	"reflect"
)

// Sanitize walks v recursively and replaces any non-finite float64/float32
// with nil, matching the "before hashing or serializing, non-finite floats
// are replaced with null" rule. It returns a new value safe to marshal.
//
// Sanitize operates on the dynamic shape produced by decoding JSON (maps,
// slices, strings, numbers, bools, nil) as well as typed structs reached
// through reflection, so it can run both on raw upstream payloads and on
// our own response structs.
func Sanitize(v any) any {
	return sanitizeValue(reflect.ValueOf(v))
}

func sanitizeValue(rv reflect.Value) any {
	if !rv.IsValid() {
		return nil
	}
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return f
	case reflect.Interface, reflect.Ptr:
		if rv.IsNil() {
			return nil
		}
		return sanitizeValue(rv.Elem())
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		for _, k := range rv.MapKeys() {
			out[toMapKeyString(k)] = sanitizeValue(rv.MapIndex(k))
		}
		return out
	case reflect.Slice, reflect.Array:
		n := rv.Len()
		out := make([]any, n)
		for i := 0; i < n; i++ {
			out[i] = sanitizeValue(rv.Index(i))
		}
		return out
	case reflect.Struct:
		out := make(map[string]any, rv.NumField())
		rt := rv.Type()
		for i := 0; i < rv.NumField(); i++ {
			field := rt.Field(i)
			if field.PkgPath != "" {
				continue // unexported
			}
			name := jsonFieldName(field)
			if name == "-" {
				continue
			}
			out[name] = sanitizeValue(rv.Field(i))
		}
		return out
	default:
		return rv.Interface()
	}
}

func toMapKeyString(rv reflect.Value) string {
	if rv.Kind() == reflect.String {
		return rv.String()
	}
	b, _ := json.Marshal(rv.Interface())
	return string(b)
}

func jsonFieldName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" {
		return f.Name
	}
	name := tag
	for i, c := range tag {
		if c == ',' {
			name = tag[:i]
			break
		}
	}
	if name == "" {
		return f.Name
	}
	return name
}

// ETag computes a stable hash of a sanitized payload, suitable for
// conditional-GET support. Callers strip volatile fields (timestamps)
// before calling, or pass a value already shaped to exclude them.
func ETag(v any) (string, error) {
	sanitized := Sanitize(v)
	b, err := json.Marshal(sanitized)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return `"` + hex.EncodeToString(sum[:])[:32] + `"`, nil
}
