package depscan

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/elm"
	"go.trai.ch/zerr"
)

// Gren's module header and import declarations use the Elm syntax, so the Elm grammar
// recovers them even when the rest of the file uses gren-only constructs.
const (
	importNode     = "import_clause"
	moduleNameNode = "upper_case_qid"
	moduleField    = "moduleName"
)

// parseImports returns the module names imported by a gren source file, in order.
func parseImports(ctx context.Context, src []byte) ([]string, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(elm.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, zerr.Wrap(err, "parse gren source")
	}

	root := tree.RootNode()
	var modules []string
	for i := range int(root.NamedChildCount()) {
		child := root.NamedChild(i)
		if child == nil || child.Type() != importNode {
			continue
		}
		if name := importedModule(child); name != nil {
			modules = append(modules, name.Content(src))
		}
	}
	return modules, nil
}

func importedModule(clause *sitter.Node) *sitter.Node {
	if name := clause.ChildByFieldName(moduleField); name != nil {
		return name
	}
	for i := range int(clause.NamedChildCount()) {
		if child := clause.NamedChild(i); child != nil && child.Type() == moduleNameNode {
			return child
		}
	}
	return nil
}
