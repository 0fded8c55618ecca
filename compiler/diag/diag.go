// Package diag defines the diagnostics reported while compiling
// specification documents. Diagnostics are plain values returned by each
// stage; the host decides where they go.
package diag

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-openapi/inflect"
)

// Severity of a diagnostic.
type Severity int

// Severities, in increasing order.
const (
	Info Severity = iota
	Warning
	Error
)

// String returns the lower-case name of the severity.
func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "severity(" + strconv.Itoa(int(s)) + ")"
	}
}

// Level maps the severity to a log level.
func (s Severity) Level() slog.Level {
	switch s {
	case Warning:
		return slog.LevelWarn
	case Error:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	v, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseSeverity parses the name of a severity, ignoring case.
func ParseSeverity(name string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "info":
		return Info, nil
	case "warning", "warn":
		return Warning, nil
	case "error":
		return Error, nil
	}
	return 0, fmt.Errorf("oraudt/diag: unknown severity %q", name)
}

// Descriptor describes one kind of diagnostic.
type Descriptor struct {
	Code     string
	Title    string
	Format   string
	Severity Severity
}

// Descriptors reported by the compiler. Codes are stable.
var (
	FoundFile = Descriptor{
		Code:     "ORAUDT01",
		Title:    "Found .oraudt file",
		Format:   "found file %s",
		Severity: Info,
	}
	EmptyFile = Descriptor{
		Code:     "ORAUDT02",
		Title:    ".oraudt file is empty",
		Format:   "the file %s is empty",
		Severity: Warning,
	}
	FoundSpec = Descriptor{
		Code:     "ORAUDT03",
		Title:    "Found specification",
		Format:   "found specification %s with %s",
		Severity: Info,
	}
	NamespaceFallback = Descriptor{
		Code:     "ORAUDT04",
		Title:    "Namespace could not be derived",
		Format:   "could not derive a namespace for %s (%v), using %q",
		Severity: Warning,
	}
	ParseFailed = Descriptor{
		Code:     "ORAUDT05",
		Title:    "Parse failure",
		Format:   "parse failure: %v",
		Severity: Error,
	}
	GenerationFailed = Descriptor{
		Code:     "ORAUDT06",
		Title:    "Generation failure",
		Format:   "generation failure: %v",
		Severity: Error,
	}
	GeneratedFile = Descriptor{
		Code:     "ORAUDT07",
		Title:    "Generated file",
		Format:   "generated %s in namespace %q",
		Severity: Info,
	}
)

// New returns a diagnostic for the document at path.
func (d Descriptor) New(path string, args ...any) Diagnostic {
	return Diagnostic{
		Code:     d.Code,
		Severity: d.Severity,
		Message:  fmt.Sprintf(d.Format, args...),
		Path:     path,
	}
}

// Diagnostic is one reported event.
type Diagnostic struct {
	Code     string   `json:"code" yaml:"code"`
	Severity Severity `json:"severity" yaml:"severity"`
	Message  string   `json:"message" yaml:"message"`
	Path     string   `json:"path,omitempty" yaml:"path,omitempty"`
}

// String formats the diagnostic like a compiler message.
func (d Diagnostic) String() string {
	var b strings.Builder
	if d.Path != "" {
		b.WriteString(d.Path)
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, "%s %s: %s", d.Severity, d.Code, d.Message)
	return b.String()
}

// LogAttrs returns the structured attributes of the diagnostic.
func (d Diagnostic) LogAttrs() []slog.Attr {
	attrs := []slog.Attr{slog.String("code", d.Code)}
	if d.Path != "" {
		attrs = append(attrs, slog.String("path", d.Path))
	}
	return attrs
}

// Log writes the diagnostic to logger at the level of its severity.
func (d Diagnostic) Log(ctx context.Context, logger *slog.Logger) {
	logger.LogAttrs(ctx, d.Severity.Level(), d.Message, d.LogAttrs()...)
}

// List is an ordered list of diagnostics.
type List []Diagnostic

// Add appends diagnostics to the list.
func (l *List) Add(ds ...Diagnostic) {
	*l = append(*l, ds...)
}

// HasErrors reports whether the list holds an error diagnostic.
func (l List) HasErrors() bool {
	return l.Count(Error) > 0
}

// Count returns the number of diagnostics with severity s.
func (l List) Count(s Severity) int {
	n := 0
	for _, d := range l {
		if d.Severity == s {
			n++
		}
	}
	return n
}

// Filter returns the diagnostics with at least the given severity.
func (l List) Filter(min Severity) List {
	var out List
	for _, d := range l {
		if d.Severity >= min {
			out = append(out, d)
		}
	}
	return out
}

// Log writes every diagnostic to logger.
func (l List) Log(ctx context.Context, logger *slog.Logger) {
	for _, d := range l {
		d.Log(ctx, logger)
	}
}

// Fields returns "1 field" or "n fields".
func Fields(n int) string {
	return Count(n, "field")
}

// Count returns n followed by noun, pluralized unless n is one.
func Count(n int, noun string) string {
	if n != 1 {
		noun = inflect.Pluralize(noun)
	}
	return strconv.Itoa(n) + " " + noun
}
