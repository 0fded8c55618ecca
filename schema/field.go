package schema

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultTypeName is the C# type of a field declared without one.
const DefaultTypeName = "string"

// NullableMarker marks a declared type as nullable (e.g. "int?").
const NullableMarker = "?"

// Field is a single property binding of a class.
type Field struct {
	// PropertyName is the C# property name. Always set.
	PropertyName string `json:"property" yaml:"property"`
	// TypeName is the declared C# type token, as written. Empty if absent.
	TypeName string `json:"type,omitempty" yaml:"type,omitempty"`
	// ColumnName is the declared Oracle attribute name, as written. Empty if absent.
	ColumnName string `json:"column,omitempty" yaml:"column,omitempty"`
}

// nonNullable is the closed set of C# value types that are bound without
// a null check. Keys are lower-cased.
var nonNullable = map[string]struct{}{
	"bool":            {},
	"short":           {},
	"int":             {},
	"long":            {},
	"decimal":         {},
	"float":           {},
	"double":          {},
	"datetime":        {},
	"system.boolean":  {},
	"system.int16":    {},
	"system.int32":    {},
	"system.int64":    {},
	"system.decimal":  {},
	"system.single":   {},
	"system.double":   {},
	"system.datetime": {},
}

// EffectiveColumnName returns the Oracle attribute the property maps to:
// the declared column, or the property name, upper-cased invariantly.
func (f *Field) EffectiveColumnName() string {
	name := f.ColumnName
	if name == "" {
		name = f.PropertyName
	}
	// Casers carry state and must not be shared between goroutines.
	return cases.Upper(language.Und).String(name)
}

// EffectiveTypeName returns the declared type or DefaultTypeName.
func (f *Field) EffectiveTypeName() string {
	if f.TypeName == "" {
		return DefaultTypeName
	}
	return f.TypeName
}

// IsNonNullable reports whether the field is a non-nullable value type.
// A type carrying the nullable marker is never non-nullable.
func (f *Field) IsNonNullable() bool {
	t := cases.Lower(language.Und).String(f.EffectiveTypeName())
	if strings.Contains(t, NullableMarker) {
		return false
	}
	_, ok := nonNullable[t]
	return ok
}

// IsNullable is the negation of IsNonNullable.
func (f *Field) IsNullable() bool { return !f.IsNonNullable() }
