package compiler

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrNoNamespace is returned by DeriveNamespace when the document path does
// not map to a namespace.
var ErrNoNamespace = errors.New("oraudt: no namespace could be derived")

// DeriveNamespace guesses a namespace from the location of a document.
//
// The directory of path is taken. When it contains module, everything
// before the last occurrence of module is dropped; otherwise the directory
// is made relative to root. Path separators become dots. Both '/' and '\'
// are treated as separators regardless of the host platform.
//
// The result is approximate. It fails when it is empty or a segment is
// not an identifier.
func DeriveNamespace(module, root, path string) (string, error) {
	dir := slash(path)
	if i := strings.LastIndexByte(dir, '/'); i >= 0 {
		dir = dir[:i]
	} else {
		dir = ""
	}
	switch {
	case module != "" && strings.Contains(dir, module):
		dir = dir[strings.LastIndex(dir, module):]
	case root != "" && root != ".":
		r := strings.TrimSuffix(slash(root), "/")
		switch {
		case dir == r:
			dir = ""
		case strings.HasPrefix(dir, r+"/"):
			dir = dir[len(r)+1:]
		}
	}
	ns := strings.Trim(strings.ReplaceAll(dir, "/", "."), ".")
	if ns == "" {
		return "", fmt.Errorf("%w: %q is not below a module directory", ErrNoNamespace, path)
	}
	for _, seg := range strings.Split(ns, ".") {
		if !isIdent(seg) {
			return "", fmt.Errorf("%w: segment %q of %q is not an identifier", ErrNoNamespace, seg, ns)
		}
	}
	return ns, nil
}

func slash(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	return strings.TrimPrefix(p, "./")
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}
