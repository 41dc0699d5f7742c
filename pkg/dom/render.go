package dom

import (
	"bytes"
	"io"

	"mooltipage/pkg/utils/coerce"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Render serializes the subtree rooted at n. Directive nodes left in the tree
// are transparent: only their children are written.
func Render(w io.Writer, n *Node) error {
	for _, h := range toHTML(n) {
		if err := html.Render(w, h); err != nil {
			return err
		}
	}
	return nil
}

func RenderString(n *Node) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func toHTML(n *Node) []*html.Node {
	switch n.Type {
	case DocumentNode:
		doc := &html.Node{Type: html.DocumentNode}
		appendHTMLChildren(doc, n)
		return []*html.Node{doc}
	case DoctypeNode:
		return []*html.Node{{Type: html.DoctypeNode, Data: n.Data}}
	case TextNode:
		return []*html.Node{{Type: html.TextNode, Data: n.Data}}
	case CommentNode:
		return []*html.Node{{Type: html.CommentNode, Data: n.Data}}
	case TagNode:
		el := &html.Node{Type: html.ElementNode, Data: n.TagName, DataAtom: atom.Lookup([]byte(n.TagName))}
		for _, key := range n.Attrs.Keys() {
			v, _ := n.Attrs.Get(key)
			switch val := v.(type) {
			case nil:
				continue
			case bool:
				if !val {
					continue
				}
				el.Attr = append(el.Attr, html.Attribute{Key: key})
			default:
				el.Attr = append(el.Attr, html.Attribute{Key: key, Val: coerce.ToString(val)})
			}
		}
		appendHTMLChildren(el, n)
		return []*html.Node{el}
	case StyleSectionNode:
		el := &html.Node{Type: html.ElementNode, Data: "style", DataAtom: atom.Style}
		if n.Style != nil && n.Style.Kind != ExternalStyle {
			el.AppendChild(&html.Node{Type: html.TextNode, Data: n.Style.Content})
		}
		return []*html.Node{el}
	case ScriptSectionNode:
		return nil
	}

	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, toHTML(c)...)
	}
	return out
}

func appendHTMLChildren(dst *html.Node, n *Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		for _, h := range toHTML(c) {
			dst.AppendChild(h)
		}
	}
}
