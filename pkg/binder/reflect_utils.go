package binder

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/dmitrymomot/apikit/pkg/schema"
)

var (
	instanceType = reflect.TypeOf((*schema.Instance)(nil))
	uploadType   = reflect.TypeOf((*UploadFile)(nil))
)

// bindToStruct copies validated values into a struct using reflection.
// tagName specifies which struct tag carries the parameter name.
func bindToStruct(v any, tagName string, values map[string]any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return ErrInvalidTarget
	}

	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return ErrInvalidTarget
	}

	rt := rv.Type()

	for i := 0; i < rv.NumField(); i++ {
		field := rv.Field(i)
		fieldType := rt.Field(i)

		// Skip unexported fields
		if !field.CanSet() {
			continue
		}

		paramName, skip := parseFieldTag(fieldType, tagName)
		if skip {
			continue
		}

		value, exists := values[paramName]
		if !exists || value == nil {
			continue
		}

		if err := setFieldValue(field, value); err != nil {
			return fmt.Errorf("field %s: %w", fieldType.Name, err)
		}
	}

	return nil
}

// parseFieldTag parses the struct field tag and returns the parameter name and whether to skip.
func parseFieldTag(field reflect.StructField, tagName string) (paramName string, skip bool) {
	tag := field.Tag.Get(tagName)
	if tag == "" {
		return strings.ToLower(field.Name), false
	}
	if tag == "-" {
		return "", true
	}

	// Handle comma-separated tag options (e.g., "name,omitempty")
	tagParts := strings.Split(tag, ",")
	return tagParts[0], false
}

// setFieldValue assigns an already validated value to a field, converting
// between compatible representations.
func setFieldValue(field reflect.Value, value any) error {
	fieldType := field.Type()
	rv := reflect.ValueOf(value)

	if rv.Type().AssignableTo(fieldType) {
		field.Set(rv)
		return nil
	}

	// Handle pointer types
	if fieldType.Kind() == reflect.Ptr && fieldType != instanceType && fieldType != uploadType {
		if field.IsNil() {
			field.Set(reflect.New(fieldType.Elem()))
		}
		return setFieldValue(field.Elem(), value)
	}

	switch val := value.(type) {
	case *schema.Instance:
		if fieldType.Kind() != reflect.Struct && fieldType.Kind() != reflect.Map {
			return fmt.Errorf("cannot decode model %s into %s", val.Model().Name(), fieldType)
		}
		return val.Decode(field.Addr().Interface())

	case []any:
		if fieldType.Kind() != reflect.Slice {
			return fmt.Errorf("cannot assign list to %s", fieldType)
		}
		return setSliceValue(field, val)

	case map[string]any:
		data, err := json.Marshal(val)
		if err != nil {
			return err
		}
		return json.Unmarshal(data, field.Addr().Interface())
	}

	if isNumber(rv.Kind()) && isNumber(fieldType.Kind()) {
		field.Set(rv.Convert(fieldType))
		return nil
	}

	return fmt.Errorf("cannot assign %T to %s", value, fieldType)
}

// setSliceValue sets slice field values element by element.
func setSliceValue(field reflect.Value, values []any) error {
	slice := reflect.MakeSlice(field.Type(), len(values), len(values))

	for i, value := range values {
		if value == nil {
			continue
		}
		if err := setFieldValue(slice.Index(i), value); err != nil {
			return fmt.Errorf("index %d: %w", i, err)
		}
	}

	field.Set(slice)
	return nil
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
