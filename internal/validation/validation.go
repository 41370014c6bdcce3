// Package validation turns raw request input into typed records and reports
// every rule a record breaks.
//
// A record declares its rules in struct tags:
//
//   - json:"..."       the exact input key; keys are matched case-sensitively.
//   - required:"true"  the key must be present and non-null (an empty string
//     is still a value).
//   - validate:"..."   value rules checked by the go-playground/validator
//     package (email, min, max, gte, datetime, ...).
//
// Fields that are not pointers cannot hold null: a null on them is reported
// as a type error. Optional fields are pointers and a null leaves them nil.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldError describes one broken rule on one field.
type FieldError struct {
	Field      string `json:"field"`
	Constraint string `json:"constraint"`
	Param      string `json:"param,omitempty"`
	Message    string `json:"message"`
}

// Error is returned when a record fails validation. It lists every offending
// field, at most once each, in struct declaration order.
type Error struct {
	Record string       `json:"record"`
	Fields []FieldError `json:"fields"`
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return fmt.Sprintf("%s: %s", e.Record, strings.Join(msgs, ", "))
}

// Has reports whether field failed the given constraint.
func (e *Error) Has(field, constraint string) bool {
	for _, f := range e.Fields {
		if f.Field == field && f.Constraint == constraint {
			return true
		}
	}
	return false
}

var (
	once     sync.Once
	validate *validator.Validate
)

// engine returns the shared validator. validator.Validate caches struct
// metadata and is safe for concurrent use, so one instance serves every call.
func engine() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(jsonName)
	})
	return validate
}

// field is the decode plan for one struct field.
type field struct {
	name     string
	index    int
	required bool
	nullable bool
	typ      reflect.Type
}

var plans sync.Map // reflect.Type → []field

func planFor(t reflect.Type) []field {
	if cached, ok := plans.Load(t); ok {
		return cached.([]field)
	}

	var out []field
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		name := jsonName(sf)
		if !sf.IsExported() || name == "" {
			continue
		}
		out = append(out, field{
			name:     name,
			index:    i,
			required: sf.Tag.Get("required") == "true",
			nullable: sf.Type.Kind() == reflect.Pointer,
			typ:      sf.Type,
		})
	}

	plans.Store(t, out)
	return out
}

func jsonName(sf reflect.StructField) string {
	name := strings.SplitN(sf.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return sf.Name
	}
	return name
}

// Decode fills dst from raw and validates the result.
//
// dst must be a pointer to a record struct that already carries its
// defaults: fields whose key is absent from raw keep whatever value dst had.
// Each present value is decoded on its own, so every type mismatch is
// reported, not just the first. Keys that do not exactly match a json name
// are ignored.
func Decode(record string, raw map[string]any, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("validation.Decode: want non-nil pointer to struct, got %T", dst)
	}
	sv := rv.Elem()
	plan := planFor(sv.Type())

	var fields []FieldError
	for _, f := range plan {
		v, present := raw[f.name]

		switch {
		case !present || (v == nil && f.required):
			if f.required {
				fields = append(fields, requiredError(f.name))
			}
		case v == nil && f.nullable:
			sv.Field(f.index).SetZero()
		case v == nil:
			fields = append(fields, typeError(f))
		default:
			ok, err := assign(sv.Field(f.index), v)
			if err != nil {
				return fmt.Errorf("validation.Decode: field %s: %w", f.name, err)
			}
			if !ok {
				fields = append(fields, typeError(f))
			}
		}
	}

	if err := engine().Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validation.Decode: %w", err)
		}

		// A field already reported as missing or mistyped has nothing left
		// worth checking.
		seen := make(map[string]bool, len(fields))
		for _, f := range fields {
			seen[f.Field] = true
		}
		for _, fe := range verrs {
			if seen[fe.Field()] {
				continue
			}
			seen[fe.Field()] = true
			fields = append(fields, fieldError(fe))
		}
	}

	if len(fields) == 0 {
		return nil
	}

	pos := make(map[string]int, len(plan))
	for i, f := range plan {
		pos[f.name] = i
	}
	sort.SliceStable(fields, func(i, j int) bool {
		return pos[fields[i].Field] < pos[fields[j].Field]
	})

	return &Error{Record: record, Fields: fields}
}

// assign decodes v into fv through its JSON form. It reports false on a type
// mismatch and leaves fv untouched.
func assign(fv reflect.Value, v any) (bool, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return false, err
	}

	target := reflect.New(fv.Type())
	if err := json.Unmarshal(body, target.Interface()); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return false, nil
		}
		return false, err
	}

	fv.Set(target.Elem())
	return true, nil
}

func requiredError(name string) FieldError {
	return FieldError{
		Field:      name,
		Constraint: "required",
		Message:    fmt.Sprintf("field %s is required", name),
	}
}

func typeError(f field) FieldError {
	t := f.typ
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	typ := t.String()
	return FieldError{
		Field:      f.name,
		Constraint: "type",
		Param:      typ,
		Message:    fmt.Sprintf("field %s must be of type %s", f.name, typ),
	}
}

func fieldError(fe validator.FieldError) FieldError {
	out := FieldError{
		Field:      fe.Field(),
		Constraint: fe.ActualTag(),
		Param:      fe.Param(),
	}

	switch fe.ActualTag() {
	case "email":
		out.Message = fmt.Sprintf("field %s must be a valid email address", fe.Field())
	case "min", "gte":
		out.Message = fmt.Sprintf("field %s must be at least %s", fe.Field(), fe.Param())
	case "max", "lte":
		out.Message = fmt.Sprintf("field %s must be at most %s", fe.Field(), fe.Param())
	case "datetime":
		out.Message = fmt.Sprintf("field %s must be a date in the form %s", fe.Field(), fe.Param())
	default:
		out.Message = fmt.Sprintf("field %s is invalid", fe.Field())
	}
	return out
}
