package dom

import "strings"

type NodeType int

const (
	DocumentNode NodeType = iota
	DoctypeNode
	TagNode
	TextNode
	CommentNode
	ConditionalNode
	ForLoopNode
	ScopeNode
	SlotNode
	ReferenceNode
	StyleSectionNode
	ScriptSectionNode
)

var nodeTypeNames = [...]string{
	DocumentNode:      "document",
	DoctypeNode:       "doctype",
	TagNode:           "tag",
	TextNode:          "text",
	CommentNode:       "comment",
	ConditionalNode:   "conditional",
	ForLoopNode:       "for",
	ScopeNode:         "scope",
	SlotNode:          "slot",
	ReferenceNode:     "reference",
	StyleSectionNode:  "style",
	ScriptSectionNode: "script",
}

func (t NodeType) String() string {
	if int(t) < 0 || int(t) >= len(nodeTypeNames) {
		return "unknown"
	}
	return nodeTypeNames[t]
}

type ConditionalKind int

const (
	If ConditionalKind = iota
	ElseIf
	Else
)

// Conditional is one member of an m-if / m-else-if / m-else chain.
// Next points at the following member, which must also be the next sibling.
type Conditional struct {
	Kind       ConditionalKind
	Expression string
	Evaluated  bool
	Truthy     bool
	Next       *Node
}

type LoopKind int

const (
	ForOf LoopKind = iota
	ForIn
)

type Loop struct {
	Kind       LoopKind
	Expression string
	Var        string
	Index      string
}

// Binding carries the state of a Scope node. Its variables live in the node attributes.
type Binding struct {
	// Hoist marks an m-var scope that adopts its following siblings.
	Hoist bool
	// Resolved is set once every attribute holds a final value.
	Resolved bool
	// Compiled marks content that was already compiled by the caller that
	// supplied it. Its text is not evaluated again.
	Compiled bool
}

type ReferenceKind int

const (
	FragmentRef ReferenceKind = iota
	ComponentRef
)

type Reference struct {
	Kind ReferenceKind
	Src  string
}

type StyleKind int

const (
	InlineStyle StyleKind = iota
	ExternalStyle
	CompiledStyle
)

type StyleBind int

const (
	HeadInline StyleBind = iota
	LinkedStylesheet
)

func (b StyleBind) String() string {
	switch b {
	case HeadInline:
		return "head"
	case LinkedStylesheet:
		return "link"
	}
	return "unknown"
}

type Style struct {
	Kind    StyleKind
	Bind    StyleBind
	Content string
	Src     string
}

type ScriptMode int

const (
	ClassMode ScriptMode = iota
	FunctionMode
)

func (m ScriptMode) String() string {
	switch m {
	case ClassMode:
		return "class"
	case FunctionMode:
		return "function"
	}
	return "unknown"
}

type Script struct {
	Mode    ScriptMode
	Content string
	Src     string
}

// Node is a single entry of the document tree. The payload pointer that
// matches Type is set, the others are nil.
type Node struct {
	Type NodeType

	Parent, FirstChild, LastChild, PrevSibling, NextSibling *Node

	// TagName is the element name. Directive nodes keep the tag they were bound from.
	TagName string
	// Data holds text, comment and doctype content, and the name of a Slot.
	Data  string
	Attrs *Attributes

	Conditional *Conditional
	Loop        *Loop
	Binding     *Binding
	Reference   *Reference
	Style       *Style
	Script      *Script
}

func NewDocument() *Node {
	return &Node{Type: DocumentNode}
}

func NewTag(name string) *Node {
	return &Node{Type: TagNode, TagName: strings.ToLower(name), Attrs: NewAttributes()}
}

func NewText(text string) *Node {
	return &Node{Type: TextNode, Data: text}
}

func NewComment(text string) *Node {
	return &Node{Type: CommentNode, Data: text}
}

func NewScope(vars map[string]any) *Node {
	n := &Node{Type: ScopeNode, TagName: "m-scope", Attrs: NewAttributes(), Binding: &Binding{Resolved: true}}
	for _, k := range sortedKeys(vars) {
		n.Attrs.Set(k, vars[k])
	}
	return n
}

func NewStyleSection(style Style) *Node {
	s := style
	return &Node{Type: StyleSectionNode, TagName: "style", Attrs: NewAttributes(), Style: &s}
}

// Attr returns the string form of an attribute, or "" when it is missing or not a string.
func (n *Node) Attr(name string) string {
	s, _ := n.Attrs.GetString(name)
	return s
}

func (n *Node) HasAttr(name string) bool {
	return n.Attrs.Has(name)
}

func (n *Node) IsTag(name string) bool {
	return n.Type == TagNode && n.TagName == name
}

// IsBlank reports whether n is a text node made only of whitespace.
func (n *Node) IsBlank() bool {
	return n.Type == TextNode && strings.TrimSpace(n.Data) == ""
}

// ChildNodes returns a snapshot of the children.
func (n *Node) ChildNodes() []*Node {
	var out []*Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// TextContent concatenates every descendant text node.
func (n *Node) TextContent() string {
	var sb strings.Builder
	var walk func(*Node)
	walk = func(x *Node) {
		if x.Type == TextNode {
			sb.WriteString(x.Data)
			return
		}
		for c := x.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// FindChildTag returns the first tag child with the given name.
// With deep set the whole subtree is searched in document order.
func (n *Node) FindChildTag(name string, deep bool) *Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.IsTag(name) {
			return c
		}
		if deep {
			if found := c.FindChildTag(name, true); found != nil {
				return found
			}
		}
	}
	return nil
}

// Walk visits n and its descendants in pre-order until fn returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if !c.Walk(fn) {
			return false
		}
		c = next
	}
	return true
}

// Describe renders the ancestry of n as "div > m-for > m-if" for diagnostics.
func Describe(n *Node) string {
	var parts []string
	for x := n; x != nil; x = x.Parent {
		if x.Type == DocumentNode {
			continue
		}
		name := x.TagName
		if name == "" {
			name = "#" + x.Type.String()
		}
		parts = append(parts, name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, " > ")
}
