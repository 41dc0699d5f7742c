package modules

import (
	"mooltipage/pkg/dom"
	"mooltipage/pkg/engine"
)

// TemplateTextModule evaluates {{ }} segments in text and in the attributes
// of tags and references. An attribute made of a single segment keeps the
// typed result, so it can be passed on as a prop. Slot content supplied by a
// caller was evaluated in the caller's scope and is left alone.
type TemplateTextModule struct{}

func (m *TemplateTextModule) Name() string { return "template-text" }

func (m *TemplateTextModule) EnterNode(ctx *engine.NodeContext) error {
	if ctx.InCompiledContent() {
		return nil
	}
	node := ctx.Node
	switch node.Type {
	case dom.TextNode:
		if !engine.HasTemplate(node.Data) {
			return nil
		}
		text, err := ctx.EvaluateString(node.Data)
		if err != nil {
			return err
		}
		node.Data = text
	case dom.TagNode, dom.ReferenceNode:
		for _, key := range node.Attrs.Keys() {
			raw, ok := node.Attrs.GetString(key)
			if !ok || !engine.HasTemplate(raw) {
				continue
			}
			v, err := ctx.Evaluate(raw)
			if err != nil {
				return err
			}
			node.Attrs.Set(key, v)
		}
	}
	return nil
}
