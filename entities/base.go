// Package entities contains read-only views over JSON objects returned by the Alma API.
//
// Entities are schema-less: fields are looked up by name at access time and
// only their presence is checked.
package entities

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/alma/alma-go-client/internal/jsonutil"
)

// ErrAttributeNotFound is matched by every *AttributeError.
var ErrAttributeNotFound = errors.New("attribute not found")

// AttributeError reports access to a field missing from an entity.
type AttributeError struct {
	Name string
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("entity has no attribute %q", e.Name)
}

func (e *AttributeError) Is(target error) bool {
	return target == ErrAttributeNotFound
}

// Base wraps a decoded JSON object. The mapping is owned by Base and never mutated.
type Base struct {
	data map[string]any
}

// NewBase takes ownership of data. A nil map is treated as empty.
func NewBase(data map[string]any) Base {
	if data == nil {
		data = map[string]any{}
	}
	return Base{data: data}
}

// Get returns the raw value for name and whether it is present.
func (b Base) Get(name string) (any, bool) {
	v, ok := b.data[name]
	return v, ok
}

// Attr returns the raw value for name or an *AttributeError.
func (b Base) Attr(name string) (any, error) {
	v, ok := b.data[name]
	if !ok {
		return nil, &AttributeError{Name: name}
	}
	return v, nil
}

// Has reports whether name is present.
func (b Base) Has(name string) bool {
	_, ok := b.data[name]
	return ok
}

// RawData returns the underlying mapping verbatim.
func (b Base) RawData() map[string]any {
	return b.data
}

func (b Base) String(name string) (string, error) {
	v, err := b.Attr(name)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", typeError(name, "string", v)
	}
	return s, nil
}

func (b Base) Bool(name string) (bool, error) {
	v, err := b.Attr(name)
	if err != nil {
		return false, err
	}
	x, ok := v.(bool)
	if !ok {
		return false, typeError(name, "bool", v)
	}
	return x, nil
}

func (b Base) Int64(name string) (int64, error) {
	v, err := b.Attr(name)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case json.Number:
		return n.Int64()
	case float64:
		if n != float64(int64(n)) {
			return 0, typeError(name, "integer", v)
		}
		return int64(n), nil
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case interface{ Int64() (int64, error) }:
		return n.Int64()
	default:
		return 0, typeError(name, "integer", v)
	}
}

// Amount reads an integer amount in cents and returns it in currency units,
// e.g. 15000 becomes 150.00.
func (b Base) Amount(name string) (decimal.Decimal, error) {
	v, err := b.Attr(name)
	if err != nil {
		return decimal.Zero, err
	}
	var cents decimal.Decimal
	switch n := v.(type) {
	case json.Number:
		cents, err = decimal.NewFromString(n.String())
	case float64:
		cents = decimal.NewFromFloat(n)
	case int:
		cents = decimal.NewFromInt(int64(n))
	case int64:
		cents = decimal.NewFromInt(n)
	case fmt.Stringer:
		cents, err = decimal.NewFromString(n.String())
	default:
		return decimal.Zero, typeError(name, "number", v)
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("attribute %q: %w", name, err)
	}
	return cents.Shift(-2), nil
}

// Object returns a nested JSON object as a Base.
func (b Base) Object(name string) (Base, error) {
	v, err := b.Attr(name)
	if err != nil {
		return Base{}, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return Base{}, typeError(name, "object", v)
	}
	return NewBase(m), nil
}

// Decode converts the entity into a typed Go value through a JSON round trip.
func (b Base) Decode(out any) error {
	raw, err := jsonutil.Marshal(b.data)
	if err != nil {
		return fmt.Errorf("encode entity: %w", err)
	}
	if err := jsonutil.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode entity: %w", err)
	}
	return nil
}

func typeError(name, want string, got any) error {
	return fmt.Errorf("attribute %q: expected %s, got %T", name, want, got)
}
