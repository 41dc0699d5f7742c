package dom

// The link manipulation below follows golang.org/x/net/html: a node may only
// be inserted while detached, and misuse panics.

func (n *Node) AppendChild(c *Node) {
	if c.Parent != nil || c.PrevSibling != nil || c.NextSibling != nil {
		panic("dom: AppendChild called for an attached child Node")
	}
	last := n.LastChild
	if last != nil {
		last.NextSibling = c
	} else {
		n.FirstChild = c
	}
	n.LastChild = c
	c.Parent = n
	c.PrevSibling = last
}

func (n *Node) PrependChild(c *Node) {
	if n.FirstChild == nil {
		n.AppendChild(c)
		return
	}
	n.InsertBefore(c, n.FirstChild)
}

// AppendChildren detaches each node and appends it to n, in order.
func (n *Node) AppendChildren(nodes ...*Node) {
	for _, c := range nodes {
		c.Detach()
		n.AppendChild(c)
	}
}

// InsertBefore inserts newChild as a child of n, immediately before oldChild.
// A nil oldChild appends.
func (n *Node) InsertBefore(newChild, oldChild *Node) {
	if newChild.Parent != nil || newChild.PrevSibling != nil || newChild.NextSibling != nil {
		panic("dom: InsertBefore called for an attached child Node")
	}
	if oldChild == nil {
		n.AppendChild(newChild)
		return
	}
	if oldChild.Parent != n {
		panic("dom: InsertBefore called with a reference Node of another parent")
	}
	prev := oldChild.PrevSibling
	if prev != nil {
		prev.NextSibling = newChild
	} else {
		n.FirstChild = newChild
	}
	oldChild.PrevSibling = newChild
	newChild.Parent = n
	newChild.PrevSibling = prev
	newChild.NextSibling = oldChild
}

func (n *Node) RemoveChild(c *Node) {
	if c.Parent != n {
		panic("dom: RemoveChild called for a non-child Node")
	}
	if n.FirstChild == c {
		n.FirstChild = c.NextSibling
	}
	if c.NextSibling != nil {
		c.NextSibling.PrevSibling = c.PrevSibling
	}
	if n.LastChild == c {
		n.LastChild = c.PrevSibling
	}
	if c.PrevSibling != nil {
		c.PrevSibling.NextSibling = c.NextSibling
	}
	c.Parent = nil
	c.PrevSibling = nil
	c.NextSibling = nil
}

// Detach unlinks n from its parent. Detaching a free node is a no-op.
func (n *Node) Detach() {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// DetachChildren removes every child of n and returns them in order.
func (n *Node) DetachChildren() []*Node {
	children := n.ChildNodes()
	for _, c := range children {
		n.RemoveChild(c)
	}
	return children
}

// AppendSibling inserts s directly after n.
func (n *Node) AppendSibling(s *Node) {
	if n.Parent == nil {
		panic("dom: AppendSibling called for a Node without parent")
	}
	s.Detach()
	n.Parent.InsertBefore(s, n.NextSibling)
}

// RemoveSelf detaches n. With keepChildren the children take its place in order.
func (n *Node) RemoveSelf(keepChildren bool) {
	if keepChildren && n.Parent != nil {
		parent := n.Parent
		for _, c := range n.DetachChildren() {
			parent.InsertBefore(c, n)
		}
	}
	n.Detach()
}

// ReplaceSelf puts nodes in place of n, then detaches n.
func (n *Node) ReplaceSelf(nodes ...*Node) {
	parent := n.Parent
	if parent == nil {
		panic("dom: ReplaceSelf called for a Node without parent")
	}
	for _, r := range nodes {
		r.Detach()
		parent.InsertBefore(r, n)
	}
	n.Detach()
}

// CreateSubtreeFromChildren moves the children of n under a new document node.
func (n *Node) CreateSubtreeFromChildren() *Node {
	doc := NewDocument()
	doc.AppendChildren(n.DetachChildren()...)
	return doc
}
