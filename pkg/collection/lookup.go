package collection

import (
	"reflect"
	"strings"
)

// Lookup resolves a dot path against a record and reports whether a
// value was present. Records may be structs (fields addressed by their
// json names, embedded structs promoted the way encoding/json promotes
// them), string-keyed maps, or pointers to either. A missing key, a
// nil pointer anywhere along the path, or a non-container intermediate
// all read as absent rather than an error.
func Lookup(v any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}

	cur := reflect.ValueOf(v)
	for _, segment := range strings.Split(path, ".") {
		cur = indirect(cur)
		if !cur.IsValid() {
			return nil, false
		}

		switch cur.Kind() {
		case reflect.Map:
			if cur.Type().Key().Kind() != reflect.String {
				return nil, false
			}
			key := reflect.New(cur.Type().Key()).Elem()
			key.SetString(segment)
			cur = cur.MapIndex(key)
			if !cur.IsValid() {
				return nil, false
			}
		case reflect.Struct:
			field, ok := fieldByWireName(cur, segment)
			if !ok {
				return nil, false
			}
			cur = field
		default:
			return nil, false
		}
	}

	cur = indirect(cur)
	if !cur.IsValid() {
		return nil, false
	}
	return cur.Interface(), true
}

// indirect unwraps pointers and interfaces. Nil anywhere yields an
// invalid value, which Lookup treats as absent.
func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// fieldByWireName finds the exported struct field whose json name
// matches, recursing into anonymous embedded structs the way json
// field promotion does. Directly tagged fields win over promoted ones.
func fieldByWireName(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	var embedded []int

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		if field.Anonymous {
			embedded = append(embedded, i)
			continue
		}
		if wireName(field) == name {
			return v.Field(i), true
		}
	}

	for _, i := range embedded {
		ev := indirect(v.Field(i))
		if !ev.IsValid() || ev.Kind() != reflect.Struct {
			continue
		}
		if fv, ok := fieldByWireName(ev, name); ok {
			return fv, true
		}
	}

	return reflect.Value{}, false
}

// wireName returns a field's json name, falling back to the Go name
// for untagged fields.
func wireName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" {
		return field.Name
	}
	name := strings.Split(tag, ",")[0]
	if name == "" || name == "-" {
		return field.Name
	}
	return name
}
