package gen

import "strings"

var (
	// FeatureAutoCollections enables the alternative grammar in which a
	// collection type name given as a third identifier on the CLASS line
	// produces a wrapper class named <ClassName>Array.
	FeatureAutoCollections = Feature{
		Name:        "grammar/auto-collections",
		Stage:       Experimental,
		Default:     false,
		Description: "Accepts a collection type on the CLASS line and names the wrapper <ClassName>Array",
	}

	// FeatureNullableDisable emits a "#nullable disable" directive after the
	// file header, so the generated reference-typed properties compile without
	// warnings in projects that enable nullable reference types.
	FeatureNullableDisable = Feature{
		Name:        "csharp/nullable-disable",
		Stage:       Beta,
		Default:     false,
		Description: "Emits #nullable disable at the top of every generated file",
	}

	// AllFeatures holds a list of all feature-flags.
	AllFeatures = []Feature{
		FeatureAutoCollections,
		FeatureNullableDisable,
	}
)

// FeatureStage describes the stage of the codegen feature.
type FeatureStage int

const (
	_ FeatureStage = iota

	// Experimental features are in development and may change or go away.
	Experimental

	// Alpha features are complete, but their output may still change.
	Alpha

	// Beta features are documented, and no breaking changes are expected.
	Beta

	// Stable features are Beta features that have been in use for a while.
	Stable
)

// String returns the lower-case name of the stage.
func (s FeatureStage) String() string {
	switch s {
	case Experimental:
		return "experimental"
	case Alpha:
		return "alpha"
	case Beta:
		return "beta"
	case Stable:
		return "stable"
	default:
		return "unknown"
	}
}

// A Feature of the oraudt codegen.
type Feature struct {
	// Name of the feature.
	Name string

	// Stage of the feature.
	Stage FeatureStage

	// Default values indicates if this feature is enabled by default.
	Default bool

	// A Description of this feature.
	Description string

	// Templates defines list of templates for extending or overriding the
	// default templates while the feature is enabled.
	Templates []*Template
}

// FeatureByName returns the feature registered under name. Matching
// ignores case.
func FeatureByName(name string) (Feature, error) {
	for _, f := range AllFeatures {
		if strings.EqualFold(f.Name, name) {
			return f, nil
		}
	}
	return Feature{}, NewConfigError("Features", name, "unknown feature")
}

// DefaultFeatures returns the features that are enabled by default.
func DefaultFeatures() []Feature {
	var fs []Feature
	for _, f := range AllFeatures {
		if f.Default {
			fs = append(fs, f)
		}
	}
	return fs
}
