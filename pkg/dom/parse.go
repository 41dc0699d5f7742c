package dom

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseDocument parses a complete HTML page, including the implied html, head and body elements.
func ParseDocument(r io.Reader) (*Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return fromHTML(doc), nil
}

// ParseFragment parses markup as the content of a body element.
func ParseFragment(r io.Reader) (*Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(r, context)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}
	root := NewDocument()
	for _, n := range nodes {
		if c := fromHTML(n); c != nil {
			root.AppendChild(c)
		}
	}
	return root, nil
}

func ParseFragmentString(s string) (*Node, error) {
	return ParseFragment(strings.NewReader(s))
}

func fromHTML(h *html.Node) *Node {
	var n *Node
	switch h.Type {
	case html.DocumentNode:
		n = NewDocument()
	case html.DoctypeNode:
		n = &Node{Type: DoctypeNode, Data: h.Data}
	case html.ElementNode:
		n = NewTag(h.Data)
		for _, a := range h.Attr {
			key := a.Key
			if a.Namespace != "" {
				key = a.Namespace + ":" + a.Key
			}
			n.Attrs.Set(key, a.Val)
		}
	case html.TextNode:
		return NewText(h.Data)
	case html.CommentNode:
		return NewComment(h.Data)
	default:
		return nil
	}
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		if child := fromHTML(c); child != nil {
			n.AppendChild(child)
		}
	}
	return n
}
