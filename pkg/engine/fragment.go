package engine

import "mooltipage/pkg/dom"

// Fragment is a parsed resource and the tree the compiler rewrites.
type Fragment struct {
	Path string
	Root *dom.Node
}

// Clone returns a fragment with a deep copy of the tree.
func (f *Fragment) Clone() *Fragment {
	return &Fragment{Path: f.Path, Root: f.Root.Clone(true)}
}

// Page is a fragment parsed as a complete HTML document.
type Page struct {
	Fragment
}

type ComponentTemplate struct {
	Root *dom.Node
	Src  string
}

type ComponentScript struct {
	Mode   dom.ScriptMode
	Handle Executable
	Src    string
}

type ComponentStyle struct {
	Content string
	Bind    dom.StyleBind
	Src     string
}

// Component has exactly one template and one script. Style is nil when absent.
type Component struct {
	Fragment
	Template ComponentTemplate
	Script   ComponentScript
	Style    *ComponentStyle
}
