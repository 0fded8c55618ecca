// Package parse implements the grammar of oraudt specification documents.
//
// A document is a sequence of class declarations:
//
//	document  := classDecl*
//	classDecl := "CLASS" ident ident ( "COLLECTION" ident ident )? ","?
//	             ( "NAMESPACE" ident ","? )?
//	             ( "FILENAME" ident ","? )?
//	             ( "DEBUGGERDISPLAY" qstring ","? )?
//	             ( "TOSTRING" qstring ","? )?
//	             "FIELDS" "[" fieldList "]"
//	fieldList := ( field ( fieldSep field )* )?
//	field     := ident ident ident | ident ident | ident
//	fieldSep  := newline | ","
//
// Keywords are case-insensitive. Spaces and tabs only terminate identifiers;
// newlines matter only as field separators. A field is read greedily: up to
// three identifiers before the next separator are taken as type, property
// and column, two as type and property, one as the property alone.
//
// Parsing is all-or-nothing: a syntax error anywhere fails the whole document.
package parse

import (
	"fmt"
	"strings"

	"github.com/syssam/oraudt/schema"
)

// Keywords of the grammar, in clause order.
const (
	KeywordClass           = "CLASS"
	KeywordCollection      = "COLLECTION"
	KeywordNamespace       = "NAMESPACE"
	KeywordFileName        = "FILENAME"
	KeywordDebuggerDisplay = "DEBUGGERDISPLAY"
	KeywordToString        = "TOSTRING"
	KeywordFields          = "FIELDS"
)

// clauses lists the optional clause keywords in the order they must appear.
var clauses = []string{
	KeywordCollection,
	KeywordNamespace,
	KeywordFileName,
	KeywordDebuggerDisplay,
	KeywordToString,
}

// Option configures a Parser.
type Option func(*Parser)

// WithAutoCollections accepts a collection type name as a third identifier
// on the CLASS line. The wrapper class is then named <ClassName>Array.
// An explicit COLLECTION clause is still accepted and takes precedence.
func WithAutoCollections() Option {
	return func(p *Parser) {
		p.autoCollections = true
	}
}

// WithStrictKeywords makes keyword matching case-sensitive: keywords must
// be written in upper case.
func WithStrictKeywords() Option {
	return func(p *Parser) {
		p.strict = true
	}
}

// Parser parses specification documents. A Parser holds no per-document
// state and may be used concurrently.
type Parser struct {
	autoCollections bool
	strict          bool
}

// NewParser returns a Parser configured with opts.
func NewParser(opts ...Option) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Fingerprint identifies the parser settings. Parsers with equal
// fingerprints produce equal results for equal documents.
func (p *Parser) Fingerprint() string {
	return fmt.Sprintf("auto-collections=%t strict=%t", p.autoCollections, p.strict)
}

// Parse parses doc with a Parser configured with opts.
func Parse(doc string, opts ...Option) ([]*schema.Class, error) {
	return NewParser(opts...).Parse(doc)
}

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Parse returns the classes declared in doc, in document order. An empty
// or whitespace-only document yields no classes and no error. On a syntax
// error it returns a nil slice and an *Error.
func (p *Parser) Parse(doc string) ([]*schema.Class, error) {
	doc = newlines.Replace(strings.TrimPrefix(doc, "\ufeff"))
	s := newScanner(doc)
	var classes []*schema.Class
	for {
		s.skipSpace()
		if s.eof() {
			return classes, nil
		}
		c, err := p.class(s)
		if err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
}

func (p *Parser) class(s *scanner) (*schema.Class, error) {
	if !s.keyword(KeywordClass, p.strict) {
		return nil, s.errorf(KeywordClass)
	}
	c := &schema.Class{}
	var err error
	if c.ClassName, err = p.inlineIdent(s, "class name"); err != nil {
		return nil, err
	}
	if c.RecordTypeName, err = p.inlineIdent(s, "record type name"); err != nil {
		return nil, err
	}
	if p.autoCollections {
		s.skipInline()
		if !p.atClause(s) {
			if name, ok := s.ident(); ok {
				c.CollectionName = c.ClassName + schema.ArraySuffix
				c.CollectionTypeName = name
			}
		}
	}
	p.comma(s)

	// A clause out of order is reported by the FIELDS check below.
	for _, kw := range clauses {
		s.skipSpace()
		if !s.keyword(kw, p.strict) {
			continue
		}
		if err := p.clause(s, c, kw); err != nil {
			return nil, err
		}
		p.comma(s)
	}

	s.skipSpace()
	if !s.keyword(KeywordFields, p.strict) {
		return nil, s.errorf(expectedAfter(c))
	}
	if c.Fields, err = p.fields(s); err != nil {
		return nil, err
	}
	return c, nil
}

// clause parses the value of the optional clause introduced by kw.
func (p *Parser) clause(s *scanner, c *schema.Class, kw string) (err error) {
	switch kw {
	case KeywordCollection:
		if c.CollectionName, err = p.inlineIdent(s, "collection class name"); err != nil {
			return err
		}
		c.CollectionTypeName, err = p.inlineIdent(s, "collection type name")
	case KeywordNamespace:
		c.Namespace, err = p.inlineIdent(s, "namespace")
	case KeywordFileName:
		c.FileName, err = p.inlineIdent(s, "file name")
	case KeywordDebuggerDisplay:
		s.skipInline()
		c.DebuggerDisplayFormat, err = s.qstring()
	case KeywordToString:
		s.skipInline()
		c.ToStringFormat, err = s.qstring()
	}
	return err
}

// fields parses the bracketed field list following the FIELDS keyword.
func (p *Parser) fields(s *scanner) ([]*schema.Field, error) {
	s.skipSpace()
	if !s.char('[') {
		return nil, s.errorf(`"["`)
	}
	var fields []*schema.Field
	for {
		skipSeparators(s)
		if s.char(']') {
			return fields, nil
		}
		if s.eof() {
			return nil, s.errorf(`"]"`)
		}
		f, err := p.field(s)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
		s.skipInline()
		if r := s.peek(); r != ',' && r != '\n' && r != ']' {
			return nil, s.errorf(`",", newline or "]"`)
		}
	}
}

// field parses one field, preferring the longest form the line supports.
func (p *Parser) field(s *scanner) (*schema.Field, error) {
	var tokens []string
	for len(tokens) < 3 {
		s.skipInline()
		id, ok := s.ident()
		if !ok {
			break
		}
		tokens = append(tokens, id)
	}
	switch len(tokens) {
	case 1:
		return &schema.Field{PropertyName: tokens[0]}, nil
	case 2:
		return &schema.Field{TypeName: tokens[0], PropertyName: tokens[1]}, nil
	case 3:
		return &schema.Field{TypeName: tokens[0], PropertyName: tokens[1], ColumnName: tokens[2]}, nil
	default:
		return nil, s.errorf("field")
	}
}

// inlineIdent parses an identifier on the current line.
func (p *Parser) inlineIdent(s *scanner, what string) (string, error) {
	s.skipInline()
	id, ok := s.ident()
	if !ok {
		return "", s.errorf(what)
	}
	return id, nil
}

// comma skips an optional trailing comma on the current line.
func (p *Parser) comma(s *scanner) {
	s.skipInline()
	if s.char(',') {
		s.skipInline()
	}
}

// atClause reports whether a clause keyword is next, without consuming it.
func (p *Parser) atClause(s *scanner) bool {
	m := s.save()
	defer s.restore(m)
	for _, kw := range clauses {
		if s.keyword(kw, p.strict) {
			return true
		}
	}
	return s.keyword(KeywordFields, p.strict)
}

// skipSeparators skips whitespace, newlines and commas between fields.
func skipSeparators(s *scanner) {
	for {
		s.skipSpace()
		if !s.char(',') {
			return
		}
	}
}

// expectedAfter describes what may follow the clauses already seen.
func expectedAfter(c *schema.Class) string {
	var next []string
	switch {
	case c.ToStringFormat != "":
	case c.DebuggerDisplayFormat != "":
		next = clauses[4:]
	case c.FileName != "":
		next = clauses[3:]
	case c.Namespace != "":
		next = clauses[2:]
	case c.CollectionName != "":
		next = clauses[1:]
	default:
		next = clauses
	}
	if len(next) == 0 {
		return KeywordFields
	}
	return strings.Join(next, ", ") + " or " + KeywordFields
}
