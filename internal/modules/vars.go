package modules

import (
	"mooltipage/pkg/dom"
	"mooltipage/pkg/engine"
)

// VarsModule turns m-var into a scope over the rest of its parent: every
// following sibling moves inside it. The bindings were already evaluated by
// the compiler when the node was entered.
type VarsModule struct{}

func (m *VarsModule) Name() string { return "vars" }

func (m *VarsModule) EnterNode(ctx *engine.NodeContext) error {
	node := ctx.Node
	if node.Type != dom.ScopeNode || node.Binding == nil || !node.Binding.Hoist {
		return nil
	}

	var following []*dom.Node
	for s := node.NextSibling; s != nil; s = s.NextSibling {
		following = append(following, s)
	}
	node.AppendChildren(following...)
	node.Binding.Hoist = false
	return nil
}
