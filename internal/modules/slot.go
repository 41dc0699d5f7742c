package modules

import (
	"mooltipage/pkg/dom"
	"mooltipage/pkg/engine"
)

// SlotModule fills m-slot placeholders with the content supplied by the caller.
// A slot without supplied content keeps its own children as the default.
type SlotModule struct{}

func (m *SlotModule) Name() string { return "slot" }

func (m *SlotModule) EnterNode(ctx *engine.NodeContext) error {
	if ctx.Node.Type != dom.SlotNode {
		return nil
	}

	content := ctx.Usage.SlotContents[ctx.Node.Data]
	if content == nil || content.FirstChild == nil {
		ctx.Remove(true)
		return nil
	}

	// The same content may fill more than one slot, so it is copied. The
	// caller already compiled it, so it is sealed against a second evaluation.
	sealed := dom.NewScope(nil)
	sealed.Binding.Compiled = true
	for c := content.FirstChild; c != nil; c = c.NextSibling {
		sealed.AppendChild(c.Clone(true))
	}
	ctx.Replace(sealed)
	return nil
}
