package ports

// Transformer turns raw compiler output into a module the host can load.
// All methods are pure text-to-text functions.
//
//go:generate go run go.uber.org/mock/mockgen -source=transformer.go -destination=mocks/mock_transformer.go -package=mocks
type Transformer interface {
	// ToESModule wraps compiled output as an ES module exporting the program.
	ToESModule(compiled string) (string, error)
	// InjectAssets rewrites static asset markers into asset imports.
	InjectAssets(module string) string
	// InjectHMR appends hot reload glue accepting updates of the given host-relative dependencies.
	InjectHMR(module string, dependencies []string) string
	// TrimDebugMessage silences the compiler's debug mode banner.
	TrimDebugMessage(module string) string
}
