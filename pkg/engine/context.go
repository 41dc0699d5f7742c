package engine

import (
	"mooltipage/pkg/dom"
)

// CompileContext is the state of one Compile call.
type CompileContext struct {
	Pipeline Pipeline
	Fragment *Fragment
	Usage    *UsageContext
	// Vars is the innermost lexical scope.
	Vars *Scope

	// pending counts the unresolved conditionals and loops around the current
	// node. Their content is a template, so its bindings are not evaluated yet.
	pending int
	// compiled counts the scopes around the current node that hold content
	// already compiled by a caller.
	compiled int
}

// Evaluate resolves a {{ }} template in the current scope.
func (c *CompileContext) Evaluate(raw string) (any, error) {
	return EvaluateTemplate(c.Pipeline.Evaluator(), raw, c.Vars)
}

func (c *CompileContext) EvaluateString(raw string) (string, error) {
	return EvaluateTemplateString(c.Pipeline.Evaluator(), raw, c.Vars)
}

// InTemplate reports whether the current node sits inside an unresolved conditional or loop.
func (c *CompileContext) InTemplate() bool {
	return c.pending > 0
}

// InCompiledContent reports whether the current node belongs to slot content
// that the caller already compiled.
func (c *CompileContext) InCompiledContent() bool {
	return c.compiled > 0
}

// enter updates the context for node before its handlers run.
func (c *CompileContext) enter(node *dom.Node) (frame, error) {
	switch node.Type {
	case dom.ConditionalNode, dom.ForLoopNode:
		c.pending++
		return frame{pending: true}, nil
	case dom.ScopeNode:
		scope := NewScope(c.Vars)
		if c.pending == 0 {
			if err := c.bind(node, scope); err != nil {
				return frame{}, err
			}
		}
		c.Vars = scope
		f := frame{pushed: true}
		if node.Binding != nil && node.Binding.Compiled {
			c.compiled++
			f.compiled = true
		}
		return f, nil
	}
	return frame{}, nil
}

func (c *CompileContext) exit(f frame) {
	if f.pending {
		c.pending--
	}
	if f.pushed {
		c.Vars = c.Vars.Parent()
	}
	if f.compiled {
		c.compiled--
	}
}

// bind evaluates the attributes of a Scope node into scope. Each binding sees
// the ones declared before it. Results are written back so later passes reuse them.
func (c *CompileContext) bind(node *dom.Node, scope *Scope) error {
	resolved := node.Binding != nil && node.Binding.Resolved
	for _, key := range node.Attrs.Keys() {
		v, _ := node.Attrs.Get(key)
		if raw, ok := v.(string); ok && !resolved {
			val, err := EvaluateTemplate(c.Pipeline.Evaluator(), raw, scope)
			if err != nil {
				return err
			}
			node.Attrs.Set(key, val)
			v = val
		}
		scope.Set(key, v)
	}
	if node.Binding == nil {
		node.Binding = &dom.Binding{}
	}
	node.Binding.Resolved = true
	return nil
}

type frame struct {
	pending  bool
	pushed   bool
	compiled bool
}

// NodeContext is handed to a module for every visited node.
type NodeContext struct {
	*CompileContext
	Node *dom.Node

	detached bool
}

// Remove detaches the node. With keepChildren its children are promoted and
// are visited next in the same pass.
func (n *NodeContext) Remove(keepChildren bool) {
	n.Node.RemoveSelf(keepChildren)
	n.detached = true
}

// Replace puts nodes in place of the current node. They are visited next in the same pass.
func (n *NodeContext) Replace(nodes ...*dom.Node) {
	n.Node.ReplaceSelf(nodes...)
	n.detached = true
}

// SetDeleted tells the walker that the handler detached the node through the tree API.
func (n *NodeContext) SetDeleted() {
	n.detached = true
}
