package domain

import (
	"net/url"
	"strings"
)

const (
	// RawParam marks an asset import of a gren file. Such requests are never compiled.
	RawParam = "raw"

	// AccompanyParam names an additional module compiled together with the requested one.
	AccompanyParam = "with"
)

// ModuleRequest is a classified module identifier as seen by the host loader.
type ModuleRequest struct {
	// ID is the raw module identifier.
	ID string
	// Path is the filesystem path component of the identifier.
	Path string
	// Valid reports whether the identifier names a gren source file owned by vgren.
	Valid bool
	// Accompanies are the unresolved references passed through repeated "with" parameters.
	Accompanies []string
}

// ParseRequest classifies a module identifier.
//
// The identifier is parsed as a URL relative to the filesystem root. It is valid when
// its path ends with the gren source extension and no raw marker is present.
// Identifiers that cannot be parsed are reported as invalid.
func ParseRequest(id string) ModuleRequest {
	base := &url.URL{Scheme: "file", Path: "/"}
	ref, err := url.Parse(id)
	if err != nil {
		return ModuleRequest{ID: id}
	}
	parsed := base.ResolveReference(ref)
	query := parsed.Query()

	return ModuleRequest{
		ID:          id,
		Path:        parsed.Path,
		Valid:       strings.HasSuffix(parsed.Path, SourceExtension) && !query.Has(RawParam),
		Accompanies: query[AccompanyParam],
	}
}

// IsSourceFile reports whether the given path names a gren source file that vgren
// tracks. It applies the same rules as ParseRequest.
func IsSourceFile(path string) bool {
	return ParseRequest(path).Valid
}
