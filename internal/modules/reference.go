package modules

import (
	"mooltipage/pkg/dom"
	"mooltipage/pkg/engine"
)

// ReferenceModule replaces m-component and m-fragment references with the
// compiled target. Children wrapped in <m-content slot="name"> fill named
// slots, every other child goes to the default slot. The remaining
// attributes are passed as props.
type ReferenceModule struct{}

func (m *ReferenceModule) Name() string { return "reference" }

func (m *ReferenceModule) EnterNode(ctx *engine.NodeContext) error {
	node := ctx.Node
	if node.Type != dom.ReferenceNode {
		return nil
	}

	usage := engine.NewUsageContext(collectSlots(node))
	for _, key := range node.Attrs.Keys() {
		usage.Props[key], _ = node.Attrs.Get(key)
	}

	src := engine.ResolvePath(node.Reference.Src, ctx.Fragment.Path)
	var (
		frag *engine.Fragment
		err  error
	)
	switch node.Reference.Kind {
	case dom.ComponentRef:
		frag, err = ctx.Pipeline.CompileComponent(src, usage)
	case dom.FragmentRef:
		frag, err = ctx.Pipeline.CompileFragment(src, usage)
	}
	if err != nil {
		return engine.Wrap(engine.ErrResource, err, "cannot compile %s", src)
	}

	ctx.Replace(frag.Root.DetachChildren()...)
	return nil
}

func collectSlots(ref *dom.Node) map[string]*dom.Node {
	slots := make(map[string]*dom.Node)
	slotFor := func(name string) *dom.Node {
		if slots[name] == nil {
			slots[name] = dom.NewDocument()
		}
		return slots[name]
	}

	for _, child := range ref.DetachChildren() {
		if child.IsTag("m-content") {
			name := child.Attr("slot")
			if name == "" {
				name = engine.DefaultSlot
			}
			slotFor(name).AppendChildren(child.DetachChildren()...)
			continue
		}
		if child.IsBlank() && slots[engine.DefaultSlot] == nil {
			continue
		}
		slotFor(engine.DefaultSlot).AppendChild(child)
	}

	// Trailing whitespace alone does not count as default content.
	if def := slots[engine.DefaultSlot]; def != nil {
		for def.LastChild != nil && def.LastChild.IsBlank() {
			def.RemoveChild(def.LastChild)
		}
		if def.FirstChild == nil {
			delete(slots, engine.DefaultSlot)
		}
	}
	return slots
}
