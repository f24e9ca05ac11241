package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type FieldType string

const (
	FieldText   FieldType = "text"
	FieldNumber FieldType = "number"
	FieldSelect FieldType = "select"
)

// SelectOptions are the only values a select field accepts.
var SelectOptions = []string{"Yes", "No", "Maybe"}

func (t FieldType) Valid() bool {
	switch t {
	case FieldText, FieldNumber, FieldSelect:
		return true
	}
	return false
}

// FieldValue is a custom field value tagged with the type it was checked
// against. Values decoded from JSON are untyped until Resolve is called.
// On the wire a value is always a string.
type FieldValue struct {
	Type   FieldType
	raw    string
	number float64
}

func TextValue(s string) FieldValue { return FieldValue{Type: FieldText, raw: s} }

func NumberValue(f float64) FieldValue {
	return FieldValue{Type: FieldNumber, raw: strconv.FormatFloat(f, 'f', -1, 64), number: f}
}

func SelectValue(option string) FieldValue { return FieldValue{Type: FieldSelect, raw: option} }

// RawFieldValue wraps an unchecked string, e.g. one read back from storage.
func RawFieldValue(s string) FieldValue { return FieldValue{raw: s} }

func (v FieldValue) String() string { return v.raw }

func (v FieldValue) IsEmpty() bool { return v.raw == "" }

// Number reports the numeric value of a resolved number field.
func (v FieldValue) Number() (float64, bool) {
	if v.Type != FieldNumber || v.raw == "" {
		return 0, false
	}
	return v.number, true
}

// Resolve checks the raw value against t and returns the typed value.
// An empty value is accepted for every type and means "not recorded".
func (v FieldValue) Resolve(t FieldType) (FieldValue, error) {
	raw := strings.TrimSpace(v.raw)
	if raw == "" {
		return FieldValue{Type: t}, nil
	}
	switch t {
	case FieldText:
		return TextValue(v.raw), nil
	case FieldNumber:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return FieldValue{}, fmt.Errorf("%q is not a number", v.raw)
		}
		return NumberValue(f), nil
	case FieldSelect:
		for _, opt := range SelectOptions {
			if strings.EqualFold(raw, opt) {
				return SelectValue(opt), nil
			}
		}
		return FieldValue{}, fmt.Errorf("%q is not one of %s", v.raw, strings.Join(SelectOptions, "/"))
	}
	return FieldValue{}, fmt.Errorf("unknown field type %q", t)
}

func (v FieldValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.raw)
}

func (v *FieldValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = FieldValue{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = RawFieldValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("custom field value must be a string or number: %w", err)
	}
	*v = RawFieldValue(n.String())
	return nil
}

// CustomFields maps a normalized field name to its value. Absent keys mean no
// value was recorded.
type CustomFields map[string]FieldValue

// Strings flattens the map to its wire form.
func (c CustomFields) Strings() map[string]string {
	out := make(map[string]string, len(c))
	for k, v := range c {
		out[k] = v.String()
	}
	return out
}

// CustomFieldsFromStrings is the inverse of Strings; values come back untyped.
func CustomFieldsFromStrings(m map[string]string) CustomFields {
	if len(m) == 0 {
		return nil
	}
	out := make(CustomFields, len(m))
	for k, v := range m {
		out[k] = RawFieldValue(v)
	}
	return out
}
