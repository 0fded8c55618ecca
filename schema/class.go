package schema

// ArraySuffix is appended to the class name to form the wrapper class name
// when a collection type is declared without an explicit wrapper name.
const ArraySuffix = "Array"

// Class is one declared binding target: a record class, its factory and,
// when a collection is declared, an array wrapper with its own factory.
//
// Optional values are empty strings when absent.
type Class struct {
	// Namespace is the explicit C# namespace.
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	// ClassName is the generated record class. Required.
	ClassName string `json:"class" yaml:"class"`
	// RecordTypeName is the Oracle object type, possibly schema-qualified. Required.
	RecordTypeName string `json:"record_type" yaml:"record_type"`
	// CollectionName is the generated array wrapper class.
	CollectionName string `json:"collection,omitempty" yaml:"collection,omitempty"`
	// CollectionTypeName is the Oracle collection type the wrapper maps to.
	CollectionTypeName string `json:"collection_type,omitempty" yaml:"collection_type,omitempty"`
	// FileName overrides the generated file name.
	FileName string `json:"file_name,omitempty" yaml:"file_name,omitempty"`
	// DebuggerDisplayFormat is emitted verbatim in a [DebuggerDisplay] attribute.
	DebuggerDisplayFormat string `json:"debugger_display,omitempty" yaml:"debugger_display,omitempty"`
	// ToStringFormat is emitted verbatim in an interpolated ToString override.
	ToStringFormat string `json:"to_string,omitempty" yaml:"to_string,omitempty"`
	// Fields in declaration order.
	Fields []*Field `json:"fields" yaml:"fields"`
}

// HasCollection reports whether an array wrapper class is declared.
func (c *Class) HasCollection() bool {
	return c.CollectionName != ""
}

// FactoryName returns the name of the record factory class.
func (c *Class) FactoryName() string {
	return c.ClassName + "Factory"
}

// CollectionFactoryName returns the name of the wrapper factory class.
func (c *Class) CollectionFactoryName() string {
	return c.CollectionName + "Factory"
}

// NullableFields returns the number of fields bound with a null check.
func (c *Class) NullableFields() int {
	n := 0
	for _, f := range c.Fields {
		if f.IsNullable() {
			n++
		}
	}
	return n
}
