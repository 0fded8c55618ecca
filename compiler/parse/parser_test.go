package parse

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/oraudt/schema"
)

// fieldsFixture is the field list shared by the separator tests.
var fieldsFixture = []*schema.Field{
	{TypeName: "System.Int32?", PropertyName: "NullableProp", ColumnName: "ORACLENAME"},
	{PropertyName: "PropertyOnly"},
	{TypeName: "int", PropertyName: "PropAndType"},
	{TypeName: "decimal?", PropertyName: "PropAndTypeAndOracle", ColumnName: "ORACLENAME2"},
	{PropertyName: "OtherPropertyOnly"},
}

func TestParseHeader(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  schema.Class
	}{
		{
			name: "record type only",
			input: `
        class MyClass SCHEMA.RECORDTYPE
            Fields [
                Dummy
            ]
        `,
			want: schema.Class{ClassName: "MyClass", RecordTypeName: "SCHEMA.RECORDTYPE"},
		},
		{
			name:  "single line",
			input: `CLASS MyClass SCHEMA.RECORDTYPE FIELDS [ Dummy ]`,
			want:  schema.Class{ClassName: "MyClass", RecordTypeName: "SCHEMA.RECORDTYPE"},
		},
		{
			name: "file name",
			input: `
        class MyClass SCHEMA.RECORDTYPE
                Filename MyFile.g.cs
            Fields [
                Dummy
            ]
        `,
			want: schema.Class{ClassName: "MyClass", RecordTypeName: "SCHEMA.RECORDTYPE", FileName: "MyFile.g.cs"},
		},
		{
			name: "namespace",
			input: `
        class MyClass SCHEMA.RECORDTYPE
            Namespace Some.Name.Space
            Fields [
                Dummy
            ]
        `,
			want: schema.Class{ClassName: "MyClass", RecordTypeName: "SCHEMA.RECORDTYPE", Namespace: "Some.Name.Space"},
		},
		{
			name: "namespace and trailing commas",
			input: "\n        class MyClass SCHEMA.RECORDTYPE  ,  \n" +
				"            Namespace Some.Name.Space   ,   \n" +
				"            Fields [\n                Dummy\n            ]\n",
			want: schema.Class{ClassName: "MyClass", RecordTypeName: "SCHEMA.RECORDTYPE", Namespace: "Some.Name.Space"},
		},
		{
			name: "debugger display",
			input: `
        class MyClass SCHEMA.RECORDTYPE
            DebuggerDisplay "my_debug_spec {Sku}"
            Fields [
                Dummy
            ]
        `,
			want: schema.Class{ClassName: "MyClass", RecordTypeName: "SCHEMA.RECORDTYPE", DebuggerDisplayFormat: "my_debug_spec {Sku}"},
		},
		{
			name: "all clauses",
			input: `
        class MyClass SCHEMA.RECORDTYPE
            Collection MyClassList SCHEMA.COLLECTIONTYPE
            Namespace Some.Name.Space
            Filename MyFile.g.cs
            DebuggerDisplay "my_debug_spec {Sku}"
            ToString "format_something"
            Fields [
                Dummy
            ]
        `,
			want: schema.Class{
				ClassName:             "MyClass",
				RecordTypeName:        "SCHEMA.RECORDTYPE",
				CollectionName:        "MyClassList",
				CollectionTypeName:    "SCHEMA.COLLECTIONTYPE",
				Namespace:             "Some.Name.Space",
				FileName:              "MyFile.g.cs",
				DebuggerDisplayFormat: "my_debug_spec {Sku}",
				ToStringFormat:        "format_something",
			},
		},
		{
			name: "all clauses with trailing commas",
			input: `
        class MyClass SCHEMA.RECORDTYPE, COLLECTION MyClassList SCHEMA.COLLECTIONTYPE,
            DebuggerDisplay "my_debug_spec {Sku}",
            ToString "format_something",
            Fields [
                Dummy
            ]
        `,
			want: schema.Class{
				ClassName:             "MyClass",
				RecordTypeName:        "SCHEMA.RECORDTYPE",
				CollectionName:        "MyClassList",
				CollectionTypeName:    "SCHEMA.COLLECTIONTYPE",
				DebuggerDisplayFormat: "my_debug_spec {Sku}",
				ToStringFormat:        "format_something",
			},
		},
		{
			name:  "escaped quotes",
			input: `CLASS A B TOSTRING "say \"hi\" \\ {X}" FIELDS [ X ]`,
			want:  schema.Class{ClassName: "A", RecordTypeName: "B", ToStringFormat: `say "hi" \ {X}`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			specs, err := Parse(tt.input)
			require.NoError(t, err)
			require.Len(t, specs, 1)
			got := *specs[0]
			require.Len(t, got.Fields, 1)
			got.Fields = nil
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFields(t *testing.T) {
	t.Run("one untyped field", func(t *testing.T) {
		specs, err := Parse(`CLASS MyClass SCHEMA.RECORDTYPE FIELDS [ Dummy ]`)
		require.NoError(t, err)
		require.Len(t, specs, 1)
		require.Len(t, specs[0].Fields, 1)
		assert.Equal(t, &schema.Field{PropertyName: "Dummy"}, specs[0].Fields[0])
	})

	t.Run("spaces and tabs between fields", func(t *testing.T) {
		input := "class MyClass SCHEMA.RECORDTYPE\n" +
			"    Fields [\n" +
			"        FirstProperty   \n" +
			"\t\t\t SecondProperty\t \n" +
			"ThirdProperty   \n" +
			"    ]\n"
		specs, err := Parse(input)
		require.NoError(t, err)
		require.Len(t, specs, 1)
		assert.Equal(t, []*schema.Field{
			{PropertyName: "FirstProperty"},
			{PropertyName: "SecondProperty"},
			{PropertyName: "ThirdProperty"},
		}, specs[0].Fields)
	})

	separators := []struct {
		name  string
		input string
	}{
		{
			name: "newlines",
			input: `
        class MyClass SCHEMA.RECORDTYPE
            Fields [
System.Int32? NullableProp ORACLENAME
                PropertyOnly
                int PropAndType
      decimal? PropAndTypeAndOracle ORACLENAME2
                OtherPropertyOnly
            ]
        `,
		},
		{
			name: "commas and newlines",
			input: `
        class MyClass SCHEMA.RECORDTYPE
            Fields [
System.Int32? NullableProp ORACLENAME ,          PropertyOnly
                int PropAndType
      decimal? PropAndTypeAndOracle ORACLENAME2,OtherPropertyOnly
            ]
        `,
		},
		{
			name: "commas at line end",
			input: `
        class MyClass SCHEMA.RECORDTYPE
            Fields [
System.Int32? NullableProp ORACLENAME    ,          PropertyOnly,
                int PropAndType   ,
      decimal? PropAndTypeAndOracle ORACLENAME2     ,OtherPropertyOnly
            ]
        `,
		},
		{
			name:  "commas only",
			input: `CLASS MyClass SCHEMA.RECORDTYPE FIELDS [System.Int32? NullableProp ORACLENAME, PropertyOnly, int PropAndType, decimal? PropAndTypeAndOracle ORACLENAME2, OtherPropertyOnly]`,
		},
		{
			name: "blank lines and trailing comma",
			input: "CLASS MyClass SCHEMA.RECORDTYPE\nFIELDS [\n\n" +
				"System.Int32? NullableProp ORACLENAME\n\n" +
				"PropertyOnly\r\n" +
				"int PropAndType\n" +
				"decimal? PropAndTypeAndOracle ORACLENAME2\n" +
				"OtherPropertyOnly,\n]",
		},
	}
	for _, tt := range separators {
		t.Run(tt.name, func(t *testing.T) {
			specs, err := Parse(tt.input)
			require.NoError(t, err)
			require.Len(t, specs, 1)
			assert.Equal(t, fieldsFixture, specs[0].Fields)
		})
	}

	t.Run("empty field list", func(t *testing.T) {
		specs, err := Parse("CLASS A B FIELDS [\n]")
		require.NoError(t, err)
		require.Len(t, specs, 1)
		assert.Empty(t, specs[0].Fields)
	})

	t.Run("nullable marker overrides non-nullable type", func(t *testing.T) {
		specs, err := Parse("CLASS A B FIELDS [ System.Int32? NullableProp ORACLENAME\n int Count ]")
		require.NoError(t, err)
		f := specs[0].Fields
		assert.False(t, f[0].IsNonNullable())
		assert.Equal(t, "ORACLENAME", f[0].EffectiveColumnName())
		assert.True(t, f[1].IsNonNullable())
		assert.Equal(t, "COUNT", f[1].EffectiveColumnName())
	})
}

func TestParseDocument(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		for _, input := range []string{"", "   ", "\n\t\n  \r\n"} {
			specs, err := Parse(input)
			require.NoError(t, err)
			assert.Empty(t, specs)
		}
	})

	t.Run("multiple classes in document order", func(t *testing.T) {
		input := `
        class MyClass SCHEMA.RECORDTYPE
            Fields [
System.Int32? NullableProp ORACLENAME
                PropertyOnly
                int PropAndType
      decimal? PropAndTypeAndOracle ORACLENAME2
                OtherPropertyOnly
            ]

        class MyClass2 SCHEMA.RECORDTYPE2
 Namespace Some.Name.Space
        ToString "format_something"
            Fields [
                PropertyOnly2
                int PropAndType2
            ]
        `
		specs, err := Parse(input)
		require.NoError(t, err)
		require.Len(t, specs, 2)

		assert.Equal(t, "MyClass", specs[0].ClassName)
		assert.Empty(t, specs[0].Namespace)
		assert.Equal(t, fieldsFixture, specs[0].Fields)

		assert.Equal(t, "MyClass2", specs[1].ClassName)
		assert.Equal(t, "SCHEMA.RECORDTYPE2", specs[1].RecordTypeName)
		assert.Equal(t, "Some.Name.Space", specs[1].Namespace)
		assert.Equal(t, "format_something", specs[1].ToStringFormat)
		assert.Equal(t, []*schema.Field{
			{PropertyName: "PropertyOnly2"},
			{TypeName: "int", PropertyName: "PropAndType2"},
		}, specs[1].Fields)
	})

	t.Run("byte order mark", func(t *testing.T) {
		specs, err := Parse("\ufeffCLASS A B FIELDS [ X ]")
		require.NoError(t, err)
		require.Len(t, specs, 1)
	})

	t.Run("mixed keyword case", func(t *testing.T) {
		specs, err := Parse("cLaSs A B nAmEsPaCe N fIeLdS [ X ]")
		require.NoError(t, err)
		require.Len(t, specs, 1)
		assert.Equal(t, "N", specs[0].Namespace)
	})
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		line     int
		expected string
	}{
		{"missing record type", "CLASS MyClass\nFIELDS [ X ]", 1, "record type name"},
		{"missing fields", "CLASS A B", 1, "COLLECTION, NAMESPACE, FILENAME, DEBUGGERDISPLAY, TOSTRING or FIELDS"},
		{"missing open bracket", "CLASS A B FIELDS X ]", 1, `"["`},
		{"missing close bracket", "CLASS A B FIELDS [ X\n Y\n", 3, `"]"`},
		{"four identifiers", "CLASS A B FIELDS [\n int X COL extra\n]", 2, `",", newline or "]"`},
		{"unterminated string", "CLASS A B\nTOSTRING \"oops\nFIELDS [ X ]", 2, "closing quote"},
		{"clause out of order", "CLASS A B\nFILENAME F.cs\nNAMESPACE N\nFIELDS [ X ]", 3, "DEBUGGERDISPLAY, TOSTRING or FIELDS"},
		{"not a class", "CLAS A B FIELDS [ X ]", 1, "CLASS"},
		{"keyword prefix", "CLASSA B C FIELDS [ X ]", 1, "CLASS"},
		{"three class identifiers", "CLASS A B C\nFIELDS [ X ]", 1, "FIELDS"},
		{"field starting with digit", "CLASS A B FIELDS [ 1X ]", 1, "field"},
		{"garbage after class", "CLASS A B FIELDS [ X ] junk", 1, "CLASS"},
		{"missing toString value", "CLASS A B TOSTRING\nFIELDS [ X ]", 1, "quoted string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			specs, err := Parse(tt.input)
			require.Error(t, err)
			assert.Nil(t, specs)
			assert.True(t, errors.Is(err, ErrSyntax))
			assert.True(t, IsSyntaxError(err))

			var perr *Error
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.line, perr.Line)
			assert.Contains(t, perr.Expected, tt.expected)
		})
	}

	t.Run("no partial result", func(t *testing.T) {
		specs, err := Parse("CLASS A B FIELDS [ X ]\nCLASS C D FIELDS [ Y")
		require.Error(t, err)
		assert.Nil(t, specs)
	})

	t.Run("message", func(t *testing.T) {
		_, err := Parse("CLASS A B\nFIELDS X")
		require.Error(t, err)
		assert.Equal(t, `oraudt: syntax error at 2:8: expected "[", found "X"`, err.Error())
	})
}

func TestParseOptions(t *testing.T) {
	t.Run("auto collections", func(t *testing.T) {
		input := `
        class MyClass SCHEMA.RECORDTYPE SCHEMA.COLLECTIONTYPE
            DebuggerDisplay "my_debug_spec {Sku}"
            Fields [
                Dummy
            ]
        `
		_, err := Parse(input)
		require.Error(t, err, "third identifier needs auto collections")

		specs, err := Parse(input, WithAutoCollections())
		require.NoError(t, err)
		require.Len(t, specs, 1)
		assert.Equal(t, "MyClassArray", specs[0].CollectionName)
		assert.Equal(t, "SCHEMA.COLLECTIONTYPE", specs[0].CollectionTypeName)
		assert.Equal(t, "my_debug_spec {Sku}", specs[0].DebuggerDisplayFormat)
	})

	t.Run("auto collections without collection type", func(t *testing.T) {
		specs, err := Parse("CLASS A B NAMESPACE N FIELDS [ X ]", WithAutoCollections())
		require.NoError(t, err)
		assert.False(t, specs[0].HasCollection())
		assert.Equal(t, "N", specs[0].Namespace)
	})

	t.Run("explicit collection wins", func(t *testing.T) {
		specs, err := Parse("CLASS A B T1\nCOLLECTION Rows T2\nFIELDS [ X ]", WithAutoCollections())
		require.NoError(t, err)
		assert.Equal(t, "Rows", specs[0].CollectionName)
		assert.Equal(t, "T2", specs[0].CollectionTypeName)
	})

	t.Run("strict keywords", func(t *testing.T) {
		_, err := Parse("class A B FIELDS [ X ]", WithStrictKeywords())
		require.Error(t, err)

		specs, err := Parse("CLASS A B FIELDS [ X ]", WithStrictKeywords())
		require.NoError(t, err)
		assert.Len(t, specs, 1)
	})

	t.Run("parser is reusable", func(t *testing.T) {
		p := NewParser()
		for range 3 {
			specs, err := p.Parse("CLASS A B FIELDS [ X ]")
			require.NoError(t, err)
			assert.Len(t, specs, 1)
		}
	})
}
