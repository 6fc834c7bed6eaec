// Package transform turns gren compiler output into ES modules for the host bundler.
package transform

import (
	"errors"
	"regexp"

	"go.trai.ch/vgren/internal/core/domain"
	"go.trai.ch/vgren/internal/core/ports"
	"go.trai.ch/zerr"
)

var (
	exportsCall     = regexp.MustCompile(`(?m)^\s*_Platform_export\((.*)\);\n?}`)
	iifeHeader      = regexp.MustCompile(`(?m)\(function\s*\(scope\)\s*\{$`)
	useStrict       = regexp.MustCompile(`(?m)['"]use strict['"];$`)
	exportFunc      = regexp.MustCompile(`(?s)function _Platform_export(.*?)\}\n`)
	mergeExportFunc = regexp.MustCompile(`(?s)function _Platform_mergeExports(.*?)\}\n\s*}`)
	exportStatement = regexp.MustCompile(`(?m)^\s*_Platform_export\(.*;$`)
)

// Transformer implements ports.Transformer with textual rewrites of the compiler output.
type Transformer struct{}

// New creates a Transformer.
func New() *Transformer {
	return &Transformer{}
}

var _ ports.Transformer = (*Transformer)(nil)

// ToESModule rewrites the compiler's IIFE into a module exporting the program as Gren.
// The scope wrapper and the global export helpers are commented out in place so line
// numbers of the compiled code are preserved.
func (t *Transformer) ToESModule(compiled string) (string, error) {
	m := exportsCall.FindStringSubmatch(compiled)
	if m == nil {
		return "", errors.Join(domain.ErrTransformFailed, zerr.New("compiled output has no _Platform_export call"))
	}
	exports := m[1]

	js := replaceFirst(iifeHeader, compiled, "// -- $0")
	js = replaceFirst(useStrict, js, "// -- $0")
	js = exportFunc.ReplaceAllString(js, "/*\n$0\n*/")
	js = mergeExportFunc.ReplaceAllString(js, "/*\n$0\n*/")
	js = replaceFirst(exportStatement, js, "/*\n$0\n*/")

	return js + "\nexport const Gren = " + exports + ";\n  ", nil
}

// replaceFirst replaces the first match of re in s, expanding template like
// Regexp.ReplaceAllString does.
func replaceFirst(re *regexp.Regexp, s, template string) string {
	loc := re.FindStringSubmatchIndex(s)
	if loc == nil {
		return s
	}
	var dst []byte
	dst = re.ExpandString(dst, template, s, loc)
	return s[:loc[0]] + string(dst) + s[loc[1]:]
}
