package dom

// Clone copies n. The copy is detached and shares no mutable state with n.
// With deep set the subtree is copied too, and conditional chains inside it are
// relinked to the copies. Links that leave the copied subtree are dropped.
func (n *Node) Clone(deep bool) *Node {
	mapping := make(map[*Node]*Node)
	c := n.cloneInto(deep, mapping)
	for orig, copied := range mapping {
		if orig.Conditional == nil || orig.Conditional.Next == nil {
			continue
		}
		copied.Conditional.Next = mapping[orig.Conditional.Next]
	}
	return c
}

func (n *Node) cloneInto(deep bool, mapping map[*Node]*Node) *Node {
	c := &Node{
		Type:    n.Type,
		TagName: n.TagName,
		Data:    n.Data,
		Attrs:   n.Attrs.Clone(),
	}
	if n.Conditional != nil {
		cond := *n.Conditional
		cond.Next = nil
		c.Conditional = &cond
	}
	if n.Loop != nil {
		loop := *n.Loop
		c.Loop = &loop
	}
	if n.Binding != nil {
		b := *n.Binding
		c.Binding = &b
	}
	if n.Reference != nil {
		ref := *n.Reference
		c.Reference = &ref
	}
	if n.Style != nil {
		s := *n.Style
		c.Style = &s
	}
	if n.Script != nil {
		s := *n.Script
		c.Script = &s
	}
	mapping[n] = c

	if deep {
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			c.AppendChild(child.cloneInto(true, mapping))
		}
	}
	return c
}
