package transform

import (
	"encoding/json"
	"regexp"
	"strings"

	"go.trai.ch/vgren/internal/core/domain"
)

var debugBanner = regexp.MustCompile(`(console\.warn\('Compiled in DEBUG mode)`)

const hmrTemplate = `
if (import.meta.hot) {
  const __gren_dependencies = %DEPS%;
  import.meta.hot.on(%EVENT%, (modules) => {
    if (modules.some((url) => __gren_dependencies.includes(url))) {
      console.debug("[vgren] dependency of " + import.meta.url + " changed");
    }
  });
  import.meta.hot.accept((next) => {
    if (!next) import.meta.hot.invalidate();
  });
}
`

// InjectHMR appends hot reload glue. Dependencies are host-relative paths of the
// unit's source files.
func (t *Transformer) InjectHMR(module string, dependencies []string) string {
	if dependencies == nil {
		dependencies = []string{}
	}
	deps, _ := json.Marshal(dependencies)
	event, _ := json.Marshal(domain.HotUpdateDependentsEvent)

	glue := strings.NewReplacer("%DEPS%", string(deps), "%EVENT%", string(event)).Replace(hmrTemplate)
	return module + glue
}

// TrimDebugMessage comments out the debug mode banner gren prints on startup.
func (t *Transformer) TrimDebugMessage(module string) string {
	return replaceFirst(debugBanner, module, "// $1")
}
