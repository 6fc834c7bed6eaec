package transform

import (
	"regexp"
	"strconv"
	"strings"
)

// AssetMarker prefixes string literals that reference static assets. The gren helper
// package emits it so the asset path can be turned into a bundler import.
const AssetMarker = "[VITE_PLUGIN_HELPER_ASSET]"

var assetLiteral = regexp.MustCompile(`"\[VITE_PLUGIN_HELPER_ASSET\]([^"\n]*)"|'\[VITE_PLUGIN_HELPER_ASSET\]([^'\n]*)'`)

// InjectAssets replaces marked asset literals with identifiers bound by imports
// prepended to the module. Each distinct path is imported once.
func (t *Transformer) InjectAssets(module string) string {
	names := make(map[string]string)
	var imports strings.Builder

	replaced := assetLiteral.ReplaceAllStringFunc(module, func(literal string) string {
		m := assetLiteral.FindStringSubmatch(literal)
		path := m[1]
		if path == "" {
			path = m[2]
		}

		name, ok := names[path]
		if !ok {
			name = "__gren_asset_" + strconv.Itoa(len(names))
			names[path] = name
			imports.WriteString("import " + name + " from " + strconv.Quote(path) + ";\n")
		}
		return name
	})

	if len(names) == 0 {
		return module
	}
	return imports.String() + replaced
}
