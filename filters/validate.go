package filters

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// Kind is the declared type of a filter field.
type Kind string

const (
	KindList   Kind = "list"
	KindString Kind = "string"
	KindNumber Kind = "number"
)

var schema = map[string]Kind{
	"types":  KindList,
	"genres": KindList,
	"years":  KindList,
	"status": KindString,
	"sort":   KindString,
	"page":   KindNumber,
}

// FieldKind returns the declared kind of a filter field.
func FieldKind(name string) (Kind, bool) {
	kind, ok := schema[name]
	return kind, ok
}

// ValidationError describes the first problem found in a filter record.
type ValidationError struct {
	Field string
	// Want is empty when Field is not part of the schema.
	Want Kind
	Got  string
}

func (e *ValidationError) Error() string {
	if e.Want == "" {
		return fmt.Sprintf("property '%s' is not in filters", e.Field)
	}
	return fmt.Sprintf("type of '%s' must be %s, got %s", e.Field, e.Want, e.Got)
}

// Validate checks raw against the filter schema. Keys are visited in sorted
// order and only the first violation is reported. A nil value counts as an
// absent field. Numbers must be whole and fit in an int.
func Validate(raw map[string]any) error {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		want, ok := FieldKind(key)
		if !ok {
			return &ValidationError{Field: key}
		}

		value := raw[key]
		if value == nil {
			continue
		}
		if got := kindOf(value); got != string(want) {
			return &ValidationError{Field: key, Want: want, Got: got}
		}
		if want == KindNumber {
			if _, err := toInt(value); err != nil {
				return &ValidationError{Field: key, Want: want, Got: err.Error()}
			}
		}
	}

	return nil
}

// kindOf classifies a decoded JSON value or a native Go value. Lists only
// count as lists when every element is a string.
func kindOf(v any) string {
	switch val := v.(type) {
	case string:
		return string(KindString)
	case []string:
		return string(KindList)
	case []any:
		for _, elem := range val {
			if _, ok := elem.(string); !ok {
				return "list of " + kindOf(elem)
			}
		}
		return string(KindList)
	case float64, float32, json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return string(KindNumber)
	case bool:
		return "boolean"
	case map[string]any:
		return "object"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// Decode validates raw and converts it into Filters.
func Decode(raw map[string]any) (Filters, error) {
	var f Filters
	if err := Validate(raw); err != nil {
		return f, err
	}

	f.Types = stringList(raw["types"])
	f.Genres = stringList(raw["genres"])
	f.Years = stringList(raw["years"])
	f.Status, _ = raw["status"].(string)
	f.Sort, _ = raw["sort"].(string)

	if v, ok := raw["page"]; ok && v != nil {
		page, err := toInt(v)
		if err != nil {
			return Filters{}, &ValidationError{Field: "page", Want: KindNumber, Got: err.Error()}
		}
		f.Page = &page
	}

	return f, nil
}

func stringList(v any) []string {
	switch val := v.(type) {
	case []string:
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, elem := range val {
			out = append(out, elem.(string))
		}
		return out
	}
	return nil
}

// toInt converts a whole number of any numeric type to int.
func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int8:
		return int(n), nil
	case int16:
		return int(n), nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case uint:
		return fromUint(uint64(n))
	case uint8:
		return int(n), nil
	case uint16:
		return int(n), nil
	case uint32:
		return fromUint(uint64(n))
	case uint64:
		return fromUint(n)
	case float32:
		return fromFloat(float64(n))
	case float64:
		return fromFloat(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), nil
		}
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("non-integer %s", n)
		}
		return fromFloat(f)
	}
	return 0, fmt.Errorf("%T", v)
}

func fromUint(n uint64) (int, error) {
	if n > math.MaxInt {
		return 0, fmt.Errorf("out-of-range %d", n)
	}
	return int(n), nil
}

// fromFloat rejects fractions and values outside the int range. MaxInt is
// not exactly representable, so the upper bound is exclusive at 2^63.
func fromFloat(f float64) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("non-integer %v", f)
	}
	if f < math.MinInt || f >= math.MaxInt {
		return 0, fmt.Errorf("out-of-range %v", f)
	}
	return int(f), nil
}
