package mcp

import (
	"fmt"
	"math"
)

// Args is the validated, type-narrowed argument bag for one command
// invocation. Lifetime is a single request; it is never persisted.
type Args map[string]interface{}

// Has reports whether the caller supplied (or a default filled) the field.
func (a Args) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// String returns the field as a string when present.
func (a Args) String(key string) (string, bool) {
	v, ok := a[key].(string)
	return v, ok
}

// Int returns the field as an int when present. Values validated as numbers
// are stored as int by ValidateArgs.
func (a Args) Int(key string) (int, bool) {
	v, ok := a[key].(int)
	return v, ok
}

// Bool returns the field as a bool when present.
func (a Args) Bool(key string) (bool, bool) {
	v, ok := a[key].(bool)
	return v, ok
}

// ValidateArgs checks a raw argument bag against a command descriptor and
// returns the typed arguments, or an *InvalidArgumentsError enumerating
// every offending field. Validation is shallow: presence, primitive type,
// and enum membership only. Fields not declared by the descriptor are
// ignored; declared defaults are injected for absent optional fields.
func ValidateArgs(desc CommandDescriptor, raw map[string]interface{}) (Args, error) {
	invalid := &InvalidArgumentsError{Command: desc.Name}
	out := Args{}

	for _, p := range desc.Params {
		v, present := raw[p.Name]
		if !present || v == nil {
			if p.Required {
				invalid.Missing = append(invalid.Missing, p.Name)
			} else if p.Default != nil {
				out[p.Name] = p.Default
			}
			continue
		}
		typed, err := coerceValue(p, v)
		if err != nil {
			invalid.Mismatched = append(invalid.Mismatched, FieldError{Name: p.Name, Reason: err.Error()})
			continue
		}
		out[p.Name] = typed
	}

	if len(invalid.Missing) > 0 || len(invalid.Mismatched) > 0 {
		return nil, invalid
	}
	return out, nil
}

// coerceValue narrows one raw value to the declared primitive type and
// checks enum membership. JSON numbers arrive as float64; numbers are
// stored as int since every numeric argument in the registry is integral.
func coerceValue(p ParamSpec, v interface{}) (interface{}, error) {
	switch p.Type {
	case TypeString:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", v)
		}
		if err := checkEnum(p, s); err != nil {
			return nil, err
		}
		return s, nil

	case TypeNumber:
		var n int
		switch num := v.(type) {
		case float64:
			if num != math.Trunc(num) {
				return nil, fmt.Errorf("expected integer, got %v", num)
			}
			n = int(num)
		case int:
			n = num
		default:
			return nil, fmt.Errorf("expected number, got %T", v)
		}
		if err := checkEnum(p, n); err != nil {
			return nil, err
		}
		return n, nil

	case TypeBoolean:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("expected boolean, got %T", v)
		}
		return b, nil

	default:
		return nil, fmt.Errorf("unsupported parameter type %q", p.Type)
	}
}

func checkEnum(p ParamSpec, v interface{}) error {
	if len(p.Enum) == 0 {
		return nil
	}
	for _, allowed := range p.Enum {
		if allowed == v {
			return nil
		}
	}
	return fmt.Errorf("value %v is not one of %v", v, p.Enum)
}
