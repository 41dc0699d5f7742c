package modules

import (
	"mooltipage/pkg/dom"
	"mooltipage/pkg/engine"
)

// StyleModule binds style sections into the document, either inline as a
// <style> element or as a linked stylesheet.
type StyleModule struct{}

func (m *StyleModule) Name() string { return "style" }

func (m *StyleModule) EnterNode(ctx *engine.NodeContext) error {
	node := ctx.Node
	if node.Type != dom.StyleSectionNode {
		return nil
	}
	style := node.Style

	content, src := style.Content, ctx.Fragment.Path
	switch style.Kind {
	case dom.ExternalStyle:
		src = engine.ResolvePath(style.Src, ctx.Fragment.Path)
		text, err := ctx.Pipeline.GetRawText(src, engine.MimeCSS)
		if err != nil {
			return engine.Wrap(engine.ErrResource, err, "cannot load stylesheet %s", src)
		}
		content = text
	case dom.CompiledStyle:
		if style.Src != "" {
			src = style.Src
		}
	}

	switch style.Bind {
	case dom.HeadInline:
		el := dom.NewTag("style")
		el.AppendChild(dom.NewText(content))
		ctx.Replace(el)
	case dom.LinkedStylesheet:
		href, err := ctx.Pipeline.LinkResource(engine.MimeCSS, content, src)
		if err != nil {
			return engine.Wrap(engine.ErrResource, err, "cannot link stylesheet from %s", src)
		}
		el := dom.NewTag("link")
		el.Attrs.Set("rel", "stylesheet")
		el.Attrs.Set("href", href)
		ctx.Replace(el)
	default:
		return engine.Errorf(engine.ErrUnsupportedStyleBind, "unsupported style bind %s", style.Bind)
	}
	return nil
}
