package cline

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
)

// Arguments is a read-only view over parsed command line arguments. Every
// value is a string, a bool or absent (nil).
//
// Arguments is built once per invocation and shared, unchanged, by every
// candidate task during resolution.
type Arguments struct {
	values map[string]any
}

// NewArguments makes Arguments from the flags a parser recognised and the
// tokens it did not. Each unknown token becomes a key with no value.
func NewArguments(known map[string]any, unknown []string) *Arguments {
	values := make(map[string]any, len(known)+len(unknown))
	maps.Copy(values, known)
	for _, token := range unknown {
		values[token] = nil
	}
	return &Arguments{values: values}
}

// Has reports whether key was seen at all, with or without a value.
func (a *Arguments) Has(key string) bool {
	_, ok := a.values[key]
	return ok
}

// Keys returns every key in sorted order.
func (a *Arguments) Keys() []string {
	return slices.Sorted(maps.Keys(a.values))
}

// Map returns a copy of the underlying values.
func (a *Arguments) Map() map[string]any {
	return maps.Clone(a.values)
}

func (a *Arguments) lookup(key string) (any, bool) {
	value := a.values[key]
	return value, value != nil
}

// Bool gets key as a boolean.
func (a *Arguments) Bool(key string) (bool, error) {
	value, ok := a.lookup(key)
	if !ok {
		return false, missing(key)
	}
	b, isBool := value.(bool)
	if !isBool {
		return false, wrongType(key, "bool", value)
	}
	return b, nil
}

// BoolOr gets key as a boolean, or def when key is absent. A value of the
// wrong type is still an error.
func (a *Arguments) BoolOr(key string, def bool) (bool, error) {
	if _, ok := a.lookup(key); !ok {
		return def, nil
	}
	return a.Bool(key)
}

// String gets key as a string.
func (a *Arguments) String(key string) (string, error) {
	value, ok := a.lookup(key)
	if !ok {
		return "", missing(key)
	}
	s, isString := value.(string)
	if !isString {
		return "", wrongType(key, "string", value)
	}
	return s, nil
}

// StringOr gets key as a string, or def when key is absent.
func (a *Arguments) StringOr(key, def string) (string, error) {
	if _, ok := a.lookup(key); !ok {
		return def, nil
	}
	return a.String(key)
}

// Integer gets key as a base-10 integer.
func (a *Arguments) Integer(key string) (int, error) {
	s, err := a.String(key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &ArgumentError{Key: key, Reason: fmt.Sprintf("%q is not an integer", s)}
	}
	return n, nil
}

// AssertTrue fails unless key is the boolean true. Argument builders call it
// first to reject arguments meant for another task.
func (a *Arguments) AssertTrue(key string) error {
	b, err := a.Bool(key)
	if err != nil {
		return err
	}
	if !b {
		return &ArgumentError{Key: key, Reason: "is false"}
	}
	return nil
}

// AssertString fails unless the string at key equals one of values.
func (a *Arguments) AssertString(key string, values ...string) error {
	s, err := a.String(key)
	if err != nil {
		return err
	}
	if !slices.Contains(values, s) {
		return &ArgumentError{Key: key, Reason: fmt.Sprintf("is %q, not one of %q", s, values)}
	}
	return nil
}
