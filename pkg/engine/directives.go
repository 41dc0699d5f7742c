package engine

import (
	"strings"

	"mooltipage/pkg/dom"
)

// bindDirectives converts m-* tags and <style compiled> in the tree into
// their directive node types. Bound nodes are left alone, so it may run twice.
func bindDirectives(root *dom.Node) error {
	for node := root.FirstChild; node != nil; node = node.NextSibling {
		if err := bindNode(node); err != nil {
			d, _ := AsDiagnostic(err)
			return d.At("", "", dom.Describe(node))
		}
		if err := bindDirectives(node); err != nil {
			return err
		}
	}
	return nil
}

func bindNode(n *dom.Node) error {
	if n.Type != dom.TagNode {
		return nil
	}
	switch n.TagName {
	case "m-if", "m-else-if":
		expr, ok := n.Attrs.GetString("?")
		if !ok {
			return Errorf(ErrMissingAttribute, "<%s> requires a ? attribute", n.TagName)
		}
		kind := dom.If
		if n.TagName == "m-else-if" {
			kind = dom.ElseIf
		}
		n.Attrs.Delete("?")
		n.Type = dom.ConditionalNode
		n.Conditional = &dom.Conditional{Kind: kind, Expression: expr}
		if kind != dom.If {
			linkConditional(n)
		}

	case "m-else":
		n.Type = dom.ConditionalNode
		n.Conditional = &dom.Conditional{Kind: dom.Else}
		linkConditional(n)

	case "m-for":
		name, ok := n.Attrs.GetString("var")
		if !ok || strings.TrimSpace(name) == "" {
			return Errorf(ErrMissingAttribute, "<m-for> requires a var attribute")
		}
		of, hasOf := n.Attrs.GetString("of")
		in, hasIn := n.Attrs.GetString("in")
		loop := &dom.Loop{Var: strings.TrimSpace(name), Index: strings.TrimSpace(n.Attr("index"))}
		switch {
		case hasOf && hasIn:
			return Errorf(ErrUnsupportedLoopKind, "<m-for> takes either of or in, not both")
		case hasOf:
			loop.Kind, loop.Expression = dom.ForOf, of
		case hasIn:
			loop.Kind, loop.Expression = dom.ForIn, in
		default:
			return Errorf(ErrMissingAttribute, "<m-for> requires an of or in attribute")
		}
		for _, attr := range []string{"var", "of", "in", "index"} {
			n.Attrs.Delete(attr)
		}
		n.Type = dom.ForLoopNode
		n.Loop = loop

	case "m-scope", "m-var":
		n.Type = dom.ScopeNode
		n.Binding = &dom.Binding{Hoist: n.TagName == "m-var"}

	case "m-slot":
		name := strings.TrimSpace(n.Attr("name"))
		if name == "" {
			name = DefaultSlot
		}
		n.Attrs.Delete("name")
		n.Type = dom.SlotNode
		n.Data = name

	case "m-component", "m-fragment":
		src, ok := n.Attrs.GetString("src")
		if !ok || strings.TrimSpace(src) == "" {
			return Errorf(ErrMissingAttribute, "<%s> requires a src attribute", n.TagName)
		}
		kind := dom.ComponentRef
		if n.TagName == "m-fragment" {
			kind = dom.FragmentRef
		}
		n.Attrs.Delete("src")
		n.Type = dom.ReferenceNode
		n.Reference = &dom.Reference{Kind: kind, Src: strings.TrimSpace(src)}

	case "style":
		if !n.HasAttr("compiled") {
			return nil
		}
		bind, err := parseStyleBind(n.Attr("bind"))
		if err != nil {
			return err
		}
		style := &dom.Style{Kind: dom.InlineStyle, Bind: bind}
		if src, ok := n.Attrs.GetString("src"); ok {
			style.Kind = dom.ExternalStyle
			style.Src = strings.TrimSpace(src)
		} else {
			style.Content = n.TextContent()
		}
		n.DetachChildren()
		n.Type = dom.StyleSectionNode
		n.Style = style
	}
	return nil
}

// linkConditional attaches a m-else-if or m-else to the chain member right
// before it. Whitespace between the two is dropped. Anything else in between
// leaves the node unlinked, which the compiler reports as a broken chain.
func linkConditional(n *dom.Node) {
	for p := n.PrevSibling; p != nil && p.IsBlank(); p = n.PrevSibling {
		p.Detach()
	}
	prev := n.PrevSibling
	if prev == nil || prev.Type != dom.ConditionalNode || prev.Conditional.Kind == dom.Else || prev.Conditional.Next != nil {
		return
	}
	prev.Conditional.Next = n
}

func parseStyleBind(value string) (dom.StyleBind, error) {
	switch strings.TrimSpace(value) {
	case "", "head":
		return dom.HeadInline, nil
	case "link":
		return dom.LinkedStylesheet, nil
	}
	return 0, Errorf(ErrUnknownEnumValue, "unknown style bind %q, expected head or link", value)
}
