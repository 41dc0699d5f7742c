package engine

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"mooltipage/pkg/dom"
)

// Module is one compiler pass. EnterNode is called for every node in
// pre-order. A module may rewrite the node through the NodeContext.
type Module interface {
	Name() string
	EnterNode(ctx *NodeContext) error
}

// ExitModule is implemented by modules that also need a post-order callback.
type ExitModule interface {
	ExitNode(ctx *NodeContext) error
}

// Compiler runs a fixed list of modules over a fragment. Each module walks
// the whole tree before the next one starts.
type Compiler struct {
	pipeline Pipeline
	modules  []Module
}

func NewCompiler(pipeline Pipeline, modules ...Module) *Compiler {
	return &Compiler{pipeline: pipeline, modules: modules}
}

func (c *Compiler) Modules() []Module {
	return c.modules
}

// Compile rewrites fragment in place. The passes run on a copy of the tree,
// which replaces fragment.Root only when every pass succeeded.
func (c *Compiler) Compile(fragment *Fragment, usage *UsageContext) (err error) {
	var current Module
	defer func() {
		if r := recover(); r != nil {
			stack := string(debug.Stack())
			section := ""
			if current != nil {
				section = current.Name()
			}
			slog.Error("🔥 PANIC RECOVERED IN COMPILER",
				"panic", r,
				"file", fragment.Path,
				"module", section,
				"stack", stack,
			)
			err = Diagnostic{
				Type:     "panic",
				Message:  fmt.Sprintf("PANIC: %v", r),
				Filename: fragment.Path,
				Section:  section,
			}
		}
	}()

	if usage == nil {
		usage = NewUsageContext(nil)
	}

	root := fragment.Root.Clone(true)
	vars := NewScope(nil)
	for k, v := range usage.Props {
		vars.Set(k, v)
	}
	ctx := &CompileContext{
		Pipeline: c.pipeline,
		Fragment: &Fragment{Path: fragment.Path, Root: root},
		Usage:    usage,
		Vars:     vars,
	}

	for _, m := range c.modules {
		current = m
		if err := c.walkChildren(ctx, m, root); err != nil {
			return err
		}
	}

	fragment.Root = root
	slog.Debug("compiled fragment", "path", fragment.Path, "modules", len(c.modules))
	return nil
}

func (c *Compiler) walkChildren(ctx *CompileContext, m Module, parent *dom.Node) error {
	for node := parent.FirstChild; node != nil; {
		next, err := c.visit(ctx, m, node)
		if err != nil {
			return err
		}
		node = next
	}
	return nil
}

// visit runs m on node and its subtree and returns the node to visit next.
func (c *Compiler) visit(ctx *CompileContext, m Module, node *dom.Node) (*dom.Node, error) {
	parent, prev := node.Parent, node.PrevSibling

	f, err := ctx.enter(node)
	if err != nil {
		return nil, locate(err, ctx, m, node)
	}
	defer ctx.exit(f)

	nc := &NodeContext{CompileContext: ctx, Node: node}
	if err := m.EnterNode(nc); err != nil {
		return nil, locate(err, ctx, m, node)
	}
	if nc.detached || node.Parent != parent {
		return resumeAfter(parent, prev), nil
	}

	if err := c.walkChildren(ctx, m, node); err != nil {
		return nil, err
	}

	if exit, ok := m.(ExitModule); ok {
		if err := exit.ExitNode(nc); err != nil {
			return nil, locate(err, ctx, m, node)
		}
		if nc.detached || node.Parent != parent {
			return resumeAfter(parent, prev), nil
		}
	}
	return node.NextSibling, nil
}

// resumeAfter picks the continuation once the visited node left the tree, so
// promoted or inserted nodes are visited in the same pass.
func resumeAfter(parent, prev *dom.Node) *dom.Node {
	if prev != nil && prev.Parent == parent {
		return prev.NextSibling
	}
	return parent.FirstChild
}

func locate(err error, ctx *CompileContext, m Module, node *dom.Node) error {
	d, ok := AsDiagnostic(err)
	if !ok {
		d = Diagnostic{Type: "error", Message: m.Name() + " failed", Err: err}
	}
	return d.At(ctx.Fragment.Path, m.Name(), dom.Describe(node))
}
