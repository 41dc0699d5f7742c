package engine

import (
	"strings"

	"mooltipage/pkg/dom"
)

// ResourceParser turns raw markup into fragments, pages and components.
type ResourceParser struct {
	loader    ResourceLoader
	evaluator Evaluator
}

func NewResourceParser(loader ResourceLoader, evaluator Evaluator) *ResourceParser {
	return &ResourceParser{loader: loader, evaluator: evaluator}
}

// ParseFragment parses html as a body fragment and binds its directives.
func (p *ResourceParser) ParseFragment(path, html string) (*Fragment, error) {
	root, err := dom.ParseFragment(strings.NewReader(html))
	if err != nil {
		return nil, Wrap(ErrResource, err, "cannot parse fragment").At(path, "", "")
	}
	if err := bindDirectives(root); err != nil {
		return nil, located(err, path, "")
	}
	return &Fragment{Path: path, Root: root}, nil
}

// ParsePage parses html as a complete document.
func (p *ResourceParser) ParsePage(path, html string) (*Page, error) {
	root, err := dom.ParseDocument(strings.NewReader(html))
	if err != nil {
		return nil, Wrap(ErrResource, err, "cannot parse page").At(path, "", "")
	}
	if err := bindDirectives(root); err != nil {
		return nil, located(err, path, "")
	}
	return &Page{Fragment: Fragment{Path: path, Root: root}}, nil
}

// ParseComponent reads the top level template, script and style sections of a
// component file, in that order.
func (p *ResourceParser) ParseComponent(path, html string) (*Component, error) {
	root, err := dom.ParseFragment(strings.NewReader(html))
	if err != nil {
		return nil, Wrap(ErrResource, err, "cannot parse component").At(path, "", "")
	}

	template, err := p.parseTemplate(path, root.FindChildTag("template", false))
	if err != nil {
		return nil, located(err, path, "template")
	}
	script, err := p.parseScript(path, root.FindChildTag("script", false))
	if err != nil {
		return nil, located(err, path, "script")
	}
	style, err := p.parseStyle(path, root.FindChildTag("style", false))
	if err != nil {
		return nil, located(err, path, "style")
	}

	return &Component{
		Fragment: Fragment{Path: path, Root: template.Root},
		Template: *template,
		Script:   *script,
		Style:    style,
	}, nil
}

func (p *ResourceParser) parseTemplate(path string, node *dom.Node) (*ComponentTemplate, error) {
	if node == nil {
		return nil, Errorf(ErrMissingRequiredSection, "component has no <template> section")
	}

	if src, ok := node.Attrs.GetString("src"); ok {
		resolved := ResolvePath(src, path)
		frag, err := p.loader.GetRawFragment(resolved)
		if err != nil {
			return nil, Wrap(ErrResource, err, "cannot load template %s", resolved)
		}
		root := frag.Root.Clone(true)
		if err := bindDirectives(root); err != nil {
			return nil, err
		}
		return &ComponentTemplate{Root: root, Src: resolved}, nil
	}

	root := node.CreateSubtreeFromChildren()
	if err := bindDirectives(root); err != nil {
		return nil, err
	}
	return &ComponentTemplate{Root: root}, nil
}

func (p *ResourceParser) parseScript(path string, node *dom.Node) (*ComponentScript, error) {
	if node == nil {
		return nil, Errorf(ErrMissingRequiredSection, "component has no <script> section")
	}

	var mode dom.ScriptMode
	switch strings.TrimSpace(node.Attr("mode")) {
	case "", "class":
		mode = dom.ClassMode
	case "function":
		mode = dom.FunctionMode
	default:
		return nil, Errorf(ErrUnknownEnumValue, "unknown script mode %q, expected class or function", node.Attr("mode"))
	}

	text, src, err := p.sectionText(path, node, MimeJavaScript)
	if err != nil {
		return nil, err
	}

	var handle Executable
	switch mode {
	case dom.ClassMode:
		handle, err = p.evaluator.ParseComponentClass(text)
	case dom.FunctionMode:
		handle, err = p.evaluator.ParseComponentFunction(text)
	default:
		return nil, Errorf(ErrUnsupportedScriptMode, "unsupported script mode %s", mode)
	}
	if err != nil {
		return nil, Wrap(ErrExpression, err, "cannot parse %s script", mode)
	}
	return &ComponentScript{Mode: mode, Handle: handle, Src: src}, nil
}

func (p *ResourceParser) parseStyle(path string, node *dom.Node) (*ComponentStyle, error) {
	if node == nil {
		return nil, nil
	}
	bind, err := parseStyleBind(node.Attr("bind"))
	if err != nil {
		return nil, err
	}
	text, src, err := p.sectionText(path, node, MimeCSS)
	if err != nil {
		return nil, err
	}
	return &ComponentStyle{Content: text, Bind: bind, Src: src}, nil
}

// sectionText returns the content of a script or style section, loaded from
// its src when present. Inline content must be a single text node.
func (p *ResourceParser) sectionText(path string, node *dom.Node, mime MimeType) (string, string, error) {
	if src, ok := node.Attrs.GetString("src"); ok {
		resolved := ResolvePath(src, path)
		text, err := p.loader.GetRawText(resolved, mime)
		if err != nil {
			return "", "", Wrap(ErrResource, err, "cannot load %s", resolved)
		}
		return text, resolved, nil
	}

	child := node.FirstChild
	if child == nil {
		return "", "", Errorf(ErrInvalidSectionContent, "<%s> section is empty", node.TagName)
	}
	if child.Type != dom.TextNode || child.NextSibling != nil {
		return "", "", Errorf(ErrInvalidSectionContent, "<%s> section must contain only text", node.TagName)
	}
	return child.Data, "", nil
}

func located(err error, path, section string) error {
	d, ok := AsDiagnostic(err)
	if !ok {
		d = Diagnostic{Type: "error", Message: err.Error()}
	}
	return d.At(path, section, "")
}
