package schema

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ValidationError represents a form validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// ValidateCreate checks a set of field values against the resource's
// create rules: every key must be a form field, required fields must
// be present, enums must match, and for union resources the variant
// tag must be valid with no other variant's fields supplied.
func ValidateCreate(meta *ResourceMetadata, values map[string]string) error {
	if err := rejectUnknown(meta, values); err != nil {
		return err
	}

	variant := ""
	if disc := meta.Discriminator(); disc != nil {
		variant = values[disc.Name]
		if variant == "" {
			return &ValidationError{Field: disc.Name, Message: "is required"}
		}
		if !disc.AllowsValue(variant) {
			return &ValidationError{
				Field:   disc.Name,
				Message: fmt.Sprintf("must be one of %s", strings.Join(disc.Enum, ", ")),
			}
		}
	}

	for i := range meta.Fields {
		f := &meta.Fields[i]
		if f.Required && f.InVariant(variant) && values[f.Name] == "" {
			return &ValidationError{Field: f.Name, Message: "is required"}
		}
	}

	return checkValues(meta, variant, values)
}

// ValidateUpdate checks a set of field values against the resource's
// update rules. Immutable fields are rejected outright. For union
// resources the caller passes the record's current tag so fields from
// other variants are refused.
func ValidateUpdate(meta *ResourceMetadata, variant string, values map[string]string) error {
	if err := rejectUnknown(meta, values); err != nil {
		return err
	}

	for i := range meta.Fields {
		f := &meta.Fields[i]
		if _, present := values[f.Name]; !present {
			continue
		}
		if f.Immutable {
			return &ValidationError{Field: f.Name, Message: "cannot be changed after creation"}
		}
	}

	return checkValues(meta, variant, values)
}

// rejectUnknown refuses keys that are not settable form fields.
func rejectUnknown(meta *ResourceMetadata, values map[string]string) error {
	var unknown []string
	for name := range values {
		f := meta.Field(name)
		if f == nil {
			unknown = append(unknown, name)
			continue
		}
		if !f.Form {
			return &ValidationError{Field: name, Message: "is not settable"}
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return &ValidationError{
			Field:   unknown[0],
			Message: fmt.Sprintf("unknown field for %s", meta.Resource),
		}
	}
	return nil
}

// checkValues runs the per-field constraints shared by create and
// update: variant membership, enum membership and value syntax.
func checkValues(meta *ResourceMetadata, variant string, values map[string]string) error {
	for i := range meta.Fields {
		f := &meta.Fields[i]
		value, present := values[f.Name]
		if !present || value == "" {
			continue
		}
		if variant != "" && !f.InVariant(variant) {
			return &ValidationError{
				Field:   f.Name,
				Message: fmt.Sprintf("only applies to %s records", strings.Join(f.Variant, ", ")),
			}
		}
		if !f.AllowsValue(value) {
			return &ValidationError{
				Field:   f.Name,
				Message: fmt.Sprintf("must be one of %s", strings.Join(f.Enum, ", ")),
			}
		}
		if err := checkSyntax(f, value); err != nil {
			return err
		}
	}
	return nil
}

// checkSyntax verifies the string form of a value can be converted to
// the field's Go type.
func checkSyntax(f *FieldMetadata, value string) error {
	switch kind := derefKind(f.GoType); kind {
	case reflect.String:
		if f.Numeric {
			if _, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err != nil {
				return &ValidationError{Field: f.Name, Message: "must be a number"}
			}
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if _, err := strconv.ParseInt(value, 10, 64); err != nil {
			return &ValidationError{Field: f.Name, Message: "must be an integer"}
		}
	case reflect.Bool:
		if _, err := strconv.ParseBool(value); err != nil {
			return &ValidationError{Field: f.Name, Message: "must be true or false"}
		}
	case reflect.Struct:
		if isTimeType(f.GoType) {
			if _, err := parseTime(value); err != nil {
				return &ValidationError{Field: f.Name, Message: "must be an RFC 3339 timestamp or YYYY-MM-DD date"}
			}
		}
	}
	return nil
}

// BuildPayload converts validated string values into a JSON payload
// keyed by wire name. Empty values are omitted rather than sent as
// empty strings. Validate first; BuildPayload assumes the values
// already passed.
func BuildPayload(meta *ResourceMetadata, values map[string]string) (map[string]any, error) {
	payload := make(map[string]any, len(values))
	for i := range meta.Fields {
		f := &meta.Fields[i]
		value, present := values[f.Name]
		if !present || value == "" {
			continue
		}
		converted, err := convertValue(f, value)
		if err != nil {
			return nil, err
		}
		payload[f.Name] = converted
	}
	return payload, nil
}

// convertValue maps a string form value onto the field's wire type.
// Decimal fields stay strings so precision survives the round trip.
func convertValue(f *FieldMetadata, value string) (any, error) {
	switch kind := derefKind(f.GoType); kind {
	case reflect.String:
		return value, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, &ValidationError{Field: f.Name, Message: "must be an integer"}
		}
		return n, nil
	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, &ValidationError{Field: f.Name, Message: "must be a number"}
		}
		return n, nil
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, &ValidationError{Field: f.Name, Message: "must be true or false"}
		}
		return b, nil
	case reflect.Struct:
		if isTimeType(f.GoType) {
			t, err := parseTime(value)
			if err != nil {
				return nil, &ValidationError{Field: f.Name, Message: "must be an RFC 3339 timestamp or YYYY-MM-DD date"}
			}
			return t, nil
		}
		return nil, fmt.Errorf("unsupported struct field %s", f.Name)
	default:
		return nil, fmt.Errorf("unsupported kind %s for field %s", kind, f.Name)
	}
}

// derefKind returns the field's kind with pointers unwrapped.
func derefKind(t reflect.Type) reflect.Kind {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Kind()
}

// isTimeType reports whether t is time.Time, possibly behind a
// pointer.
func isTimeType(t reflect.Type) bool {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t == reflect.TypeOf(time.Time{})
}

// timeLayouts are the accepted input forms for timestamp fields, in
// order of preference.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTime(value string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", value)
}
