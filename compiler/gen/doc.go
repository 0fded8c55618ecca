// Package gen renders oraudt specifications into C# source for ODP.NET
// user-defined type binding.
//
// Each specification produces one file holding, in order:
//
//   - a record class implementing IOracleCustomType and INullable, with one
//     mapped property per field and the FromCustomObject/ToCustomObject
//     conversions;
//   - a factory tagged with the Oracle record type;
//   - when a collection is declared, an array wrapper class binding the
//     whole array at position 0, and its array factory.
//
// Rendering is driven by text/template. The default templates live in the
// template directory and are named "file", "header", "types", "class",
// "factory", "array" and "array/factory"; WithTemplates replaces any of
// them by name. Templates indent with tabs, and the generator expands
// leading tabs with Config.Indent.
//
// # Error Handling
//
// The package uses structured error types:
//
//   - ConfigError: invalid options
//   - GenerationError: failure to render or write one file
//   - ValidationError: a specification that cannot be rendered
//
// Example error handling:
//
//	src, err := gen.Generate(spec, "My.Namespace")
//	if errors.Is(err, gen.ErrGenerationFailed) {
//		var genErr *gen.GenerationError
//		if errors.As(err, &genErr) {
//			log.Printf("class %s: %s", genErr.Class, genErr.Phase)
//		}
//	}
package gen
