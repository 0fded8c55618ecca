package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/oraudt/schema"
)

func TestConfigFileName(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, "MyClass.g.cs", c.FileName(&schema.Class{ClassName: "MyClass"}))
	assert.Equal(t, "MyFile.g.cs", c.FileName(&schema.Class{ClassName: "MyClass", FileName: " MyFile.g.cs\t"}))

	c.Extension = ""
	assert.Equal(t, "MyClass.g.cs", c.FileName(&schema.Class{ClassName: "MyClass"}))
}

func TestConfigNamespace(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, "Fallback", c.Namespace(&schema.Class{}, "Fallback"))
	assert.Equal(t, "Some.Name.Space", c.Namespace(&schema.Class{Namespace: "Some.Name.Space"}, "Fallback"))
	assert.Empty(t, c.Namespace(&schema.Class{}, "  "))
}

func TestConfigFeatureEnabled(t *testing.T) {
	t.Run("returns true for enabled feature", func(t *testing.T) {
		c := &Config{
			Features: []Feature{FeatureNullableDisable},
		}

		enabled, err := c.FeatureEnabled("csharp/nullable-disable")

		assert.NoError(t, err)
		assert.True(t, enabled)
	})

	t.Run("returns false for disabled feature", func(t *testing.T) {
		c := &Config{
			Features: []Feature{FeatureNullableDisable},
		}

		enabled, err := c.FeatureEnabled(FeatureAutoCollections.Name)

		assert.NoError(t, err)
		assert.False(t, enabled)
	})

	t.Run("returns error for unknown feature", func(t *testing.T) {
		c := &Config{}

		_, err := c.FeatureEnabled("nonexistent")

		assert.Error(t, err)
		assert.True(t, IsConfigError(err))
	})
}

func TestConfigFeatureEnabled_AllFeatures(t *testing.T) {
	for _, f := range AllFeatures {
		t.Run(f.Name, func(t *testing.T) {
			c := &Config{Features: []Feature{f}}

			enabled, err := c.FeatureEnabled(f.Name)

			assert.NoError(t, err)
			assert.True(t, enabled)
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()

	assert.Equal(t, defaultHeader, c.Header)
	assert.Equal(t, DefaultExtension, c.Extension)
	assert.Equal(t, DefaultIndent, c.Indent)
	assert.Equal(t, DefaultUsings, c.Usings)
	assert.Empty(t, c.Features)

	c.Usings[0] = "Changed"
	assert.Equal(t, "System", DefaultUsings[0], "defaults are copied")
}

func TestConfigFingerprint(t *testing.T) {
	a, b := DefaultConfig(), DefaultConfig()
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	b.Features = []Feature{FeatureNullableDisable}
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())

	c := DefaultConfig()
	c.Indent = "\t"
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())

	d := DefaultConfig()
	d.Templates = []*Template{MustParse(NewTemplate("factory").Parse("x"))}
	e := DefaultConfig()
	e.Templates = []*Template{MustParse(NewTemplate("factory").Parse("y"))}
	assert.NotEqual(t, d.Fingerprint(), e.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), d.Fingerprint())
}
