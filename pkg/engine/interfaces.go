package engine

// ResourceLoader reads raw resources. Paths are already resolved.
type ResourceLoader interface {
	GetRawFragment(path string) (*Fragment, error)
	GetRawText(path string, mime MimeType) (string, error)
}

// ResourceLinker stores content as a standalone resource and returns the
// reference to use from markup. Identical content yields the same reference.
type ResourceLinker interface {
	LinkResource(mime MimeType, content string, srcPath string) (string, error)
}

// Executable is a parsed component script.
type Executable interface {
	Execute(props map[string]any) (map[string]any, error)
}

// Evaluator is the boundary to the expression language.
type Evaluator interface {
	Evaluate(expression string, scope *Scope) (any, error)
	ParseComponentClass(text string) (Executable, error)
	ParseComponentFunction(text string) (Executable, error)
}

// Pipeline is everything a compile run needs from the build around it.
type Pipeline interface {
	ResourceLoader
	ResourceLinker
	Evaluator() Evaluator
	CompileFragment(path string, usage *UsageContext) (*Fragment, error)
	CompileComponent(path string, usage *UsageContext) (*Fragment, error)
}
