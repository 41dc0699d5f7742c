package modules

import "mooltipage/pkg/engine"

// Standard returns the compiler passes in the order they must run.
// m-var hoisting comes first so no binding is evaluated outside the siblings
// it covers. References come after every content pass because they split the
// tree into separately compiled fragments. Scope cleanup is last.
func Standard() []engine.Module {
	return []engine.Module{
		&VarsModule{},
		&SlotModule{},
		&DomLogicModule{},
		&TemplateTextModule{},
		NewMarkdownModule(),
		&StyleModule{},
		&ReferenceModule{},
		&ScopeModule{},
	}
}
