package gen

import (
	"strings"
	"text/template"

	"github.com/go-openapi/inflect"
)

// Funcs are the predefined template functions used by the codegen.
var Funcs = template.FuncMap{
	"csharpString": csharpString,
	"indent":       indent,
	"join":         strings.Join,
	"plural":       inflect.Pluralize,
	"trim":         strings.TrimSpace,
}

var csharpEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\r", `\r`,
	"\n", `\n`,
	"\t", `\t`,
)

// csharpString returns s as a regular C# string literal. Braces are kept,
// so the result is also valid inside an interpolated string.
func csharpString(s string) string {
	return `"` + csharpEscaper.Replace(s) + `"`
}

// indent adds one tab to the start of every non-blank line of s.
func indent(s string) string {
	lines := strings.SplitAfter(s, "\n")
	var b strings.Builder
	b.Grow(len(s) + len(lines))
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			b.WriteByte('\t')
		}
		b.WriteString(l)
	}
	return b.String()
}

// expandTabs replaces the leading tabs of every line with unit, and
// strips whitespace from blank lines.
func expandTabs(s, unit string) string {
	lines := strings.SplitAfter(s, "\n")
	var b strings.Builder
	b.Grow(len(s) * 2)
	for _, l := range lines {
		body := strings.TrimLeft(l, "\t")
		if strings.TrimSpace(body) == "" {
			if strings.HasSuffix(l, "\n") {
				b.WriteByte('\n')
			}
			continue
		}
		b.WriteString(strings.Repeat(unit, len(l)-len(body)))
		b.WriteString(body)
	}
	return b.String()
}
