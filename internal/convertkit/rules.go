package convertkit

// Built-in rules covering the identifier types repositories commonly key on:
// strings from path/query variables into numeric, boolean, and UUID ids,
// plus numeric widenings and Stringer flattening

import (
	"context"
	"fmt"
	"reflect"
	"strconv"

	perr "querybind/internal/platform/errors"

	"github.com/google/uuid"
)

var (
	stringType   = reflect.TypeFor[string]()
	uuidType     = reflect.TypeFor[uuid.UUID]()
	stringerType = reflect.TypeFor[fmt.Stringer]()
)

func builtinRules() []Rule {
	return []Rule{
		stringToBasicRule{},
		stringToUUIDRule{},
		numericRule{},
		stringerRule{},
	}
}

// stringToBasicRule parses strings into numeric and boolean kinds
type stringToBasicRule struct{}

func (stringToBasicRule) Matches(src, dst reflect.Type) bool {
	if src != stringType {
		return false
	}
	switch dst.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.Bool, reflect.String:
		return true
	default:
		return false
	}
}

func (stringToBasicRule) Convert(_ context.Context, v any, _, dst reflect.Type) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, perr.Conversionf("expected string source, got %T", v)
	}
	out := reflect.New(dst).Elem()
	switch dst.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, dst.Bits())
		if err != nil {
			return nil, perr.Conversionf("cannot parse %q as %s", s, dst)
		}
		out.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, dst.Bits())
		if err != nil {
			return nil, perr.Conversionf("cannot parse %q as %s", s, dst)
		}
		out.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, dst.Bits())
		if err != nil {
			return nil, perr.Conversionf("cannot parse %q as %s", s, dst)
		}
		out.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, perr.Conversionf("cannot parse %q as %s", s, dst)
		}
		out.SetBool(b)
	case reflect.String:
		// named string types (e.g. type SKU string)
		out.SetString(s)
	default:
		return nil, perr.Conversionf("unsupported target kind %s", dst.Kind())
	}
	return out.Interface(), nil
}

// stringToUUIDRule parses canonical UUID text into uuid.UUID ids
type stringToUUIDRule struct{}

func (stringToUUIDRule) Matches(src, dst reflect.Type) bool {
	return src == stringType && dst == uuidType
}

func (stringToUUIDRule) Convert(_ context.Context, v any, _, _ reflect.Type) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, perr.Conversionf("expected string source, got %T", v)
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, perr.Conversionf("cannot parse %q as uuid", s)
	}
	return id, nil
}

// numericRule widens/narrows between numeric kinds via reflect conversion
type numericRule struct{}

func isNumeric(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func (numericRule) Matches(src, dst reflect.Type) bool {
	return isNumeric(src) && isNumeric(dst) && src.ConvertibleTo(dst)
}

func (numericRule) Convert(_ context.Context, v any, _, dst reflect.Type) (any, error) {
	return reflect.ValueOf(v).Convert(dst).Interface(), nil
}

// stringerRule flattens fmt.Stringer values into plain strings
type stringerRule struct{}

func (stringerRule) Matches(src, dst reflect.Type) bool {
	return dst == stringType && src.Implements(stringerType)
}

func (stringerRule) Convert(_ context.Context, v any, _, _ reflect.Type) (any, error) {
	s, ok := v.(fmt.Stringer)
	if !ok {
		return nil, perr.Conversionf("expected fmt.Stringer source, got %T", v)
	}
	return s.String(), nil
}
