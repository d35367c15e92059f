package validator

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/shandysiswandi/goship/internal/pkg/goerror"
)

// FieldError is a single validation complaint tied to one input field path.
type FieldError = goerror.FieldError

// Kind is the target type a raw value is coerced into before its rules run.
type Kind int

const (
	// KindString accepts JSON strings only.
	KindString Kind = iota
	// KindInt accepts integral numbers and numeric strings ("5").
	KindInt
	// KindTime accepts ISO-8601 (RFC 3339) timestamps.
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "number"
	case KindTime:
		return "datetime"
	default:
		return "string"
	}
}

// Rule declares how one field is coerced and checked.
type Rule struct {
	field      string
	kind       Kind
	tag        string
	required   bool
	def        any
	hasDefault bool
	trim       bool
	messages   map[string]string
}

// String declares a string field checked with the validator v10 tag.
func String(field, tag string) Rule {
	return Rule{field: field, kind: KindString, tag: tag}
}

// Int declares an integer field checked with the validator v10 tag.
func Int(field, tag string) Rule {
	return Rule{field: field, kind: KindInt, tag: tag}
}

// Time declares an ISO-8601 timestamp field.
func Time(field string) Rule {
	return Rule{field: field, kind: KindTime}
}

// Required marks the field as mandatory.
func (r Rule) Required() Rule {
	r.required = true
	return r
}

// Default sets the value used when the field is absent. A field with a default is
// never reported as missing.
func (r Rule) Default(v any) Rule {
	r.def = v
	r.hasDefault = true
	return r
}

// Trim strips surrounding whitespace from a string value after its tag has
// passed, so the tag sees the value as sent. A value that is blank once
// trimmed is reported with the "required" message.
func (r Rule) Trim() Rule {
	r.trim = true
	return r
}

// Message overrides the message reported when the given tag fails. Use "required"
// for a missing field and "type" for a coercion failure.
func (r Rule) Message(tag, msg string) Rule {
	messages := make(map[string]string, len(r.messages)+1)
	for k, v := range r.messages {
		messages[k] = v
	}
	messages[tag] = msg
	r.messages = messages
	return r
}

// Field returns the field name the rule applies to.
func (r Rule) Field() string {
	return r.field
}

// Schema is an ordered set of field rules. Fields not declared are ignored.
type Schema struct {
	rules []Rule
}

// NewSchema builds a schema; rules are evaluated and reported in declaration order.
func NewSchema(rules ...Rule) *Schema {
	return &Schema{rules: append([]Rule{}, rules...)}
}

// Extend returns a new schema with additional rules appended.
func (s *Schema) Extend(rules ...Rule) *Schema {
	return NewSchema(append(append([]Rule{}, s.rules...), rules...)...)
}

// Values holds coerced input keyed by field name. Absent optional fields are not present.
type Values map[string]any

// Has reports whether the field is present.
func (v Values) Has(key string) bool {
	_, ok := v[key]
	return ok
}

// String returns a string field.
func (v Values) String(key string) (string, bool) {
	s, ok := v[key].(string)
	return s, ok
}

// Int returns an integer field.
func (v Values) Int(key string) (int, bool) {
	i, ok := v[key].(int)
	return i, ok
}

// Time returns a timestamp field.
func (v Values) Time(key string) (time.Time, bool) {
	t, ok := v[key].(time.Time)
	return t, ok
}

// Parse coerces raw against schema and checks every rule, collecting all
// violations instead of stopping at the first one.
func (v *V10Validator) Parse(schema *Schema, raw map[string]any) (Values, []FieldError) {
	values := make(Values, len(schema.rules))
	var fieldErrs []FieldError

	for _, rule := range schema.rules {
		rawValue, present := raw[rule.field]
		if !present {
			switch {
			case rule.hasDefault:
				values[rule.field] = rule.def
			case rule.required:
				fieldErrs = append(fieldErrs, FieldError{Field: rule.field, Message: rule.messageFor("required", v.requiredMessage(rule.field))})
			}
			continue
		}

		value, err := coerce(rule.kind, rawValue)
		if err != nil {
			fieldErrs = append(fieldErrs, FieldError{Field: rule.field, Message: rule.messageFor("type", rule.field+" "+err.Error())})
			continue
		}

		if rule.tag != "" {
			if err := v.validate.Var(value, rule.tag); err != nil {
				var validateErrs validator.ValidationErrors
				if !errors.As(err, &validateErrs) || len(validateErrs) == 0 {
					fieldErrs = append(fieldErrs, FieldError{Field: rule.field, Message: err.Error()})
					continue
				}

				fe := validateErrs[0]
				fieldErrs = append(fieldErrs, FieldError{Field: rule.field, Message: rule.messageFor(fe.Tag(), v.message(rule.field, fe))})
				continue
			}
		}

		if str, ok := value.(string); ok && rule.trim {
			if str = strings.TrimSpace(str); str == "" {
				fieldErrs = append(fieldErrs, FieldError{Field: rule.field, Message: rule.messageFor("required", v.requiredMessage(rule.field))})
				continue
			}
			value = str
		}

		values[rule.field] = value
	}

	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	return values, nil
}

func (r Rule) messageFor(tag, fallback string) string {
	if msg, ok := r.messages[tag]; ok {
		return msg
	}
	return fallback
}

func coerce(kind Kind, raw any) (any, error) {
	switch kind {
	case KindInt:
		return coerceInt(raw)
	case KindTime:
		return coerceTime(raw)
	default:
		return coerceString(raw)
	}
}

func coerceString(raw any) (string, error) {
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("expected string, received %s", describe(raw))
	}
	return s, nil
}

func coerceInt(raw any) (int, error) {
	var f float64
	switch val := raw.(type) {
	case int:
		return val, nil
	case int64:
		f = float64(val)
	case float64:
		f = val
	case json.Number:
		n, err := val.Float64()
		if err != nil {
			return 0, fmt.Errorf("expected number, received %q", val.String())
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil || strings.TrimSpace(val) == "" {
			return 0, fmt.Errorf("expected number, received %q", val)
		}
		f = n
	default:
		return 0, fmt.Errorf("expected number, received %s", describe(raw))
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("expected integer, received %v", raw)
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, errors.New("number out of range")
	}

	return int(f), nil
}

func coerceTime(raw any) (time.Time, error) {
	switch val := raw.(type) {
	case time.Time:
		return val, nil
	case string:
		t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(val))
		if err != nil {
			return time.Time{}, fmt.Errorf("expected ISO-8601 datetime, received %q", val)
		}
		return t, nil
	default:
		return time.Time{}, fmt.Errorf("expected ISO-8601 datetime, received %s", describe(raw))
	}
}

func describe(raw any) string {
	switch raw.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, json.Number, int, int64:
		return "number"
	case []any, []string:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", raw)
	}
}
