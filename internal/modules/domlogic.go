package modules

import (
	"mooltipage/pkg/dom"
	"mooltipage/pkg/engine"
	"mooltipage/pkg/utils/coerce"
)

// DomLogicModule resolves conditional chains and expands loops.
type DomLogicModule struct{}

func (m *DomLogicModule) Name() string { return "dom-logic" }

func (m *DomLogicModule) EnterNode(ctx *engine.NodeContext) error {
	switch ctx.Node.Type {
	case dom.ConditionalNode:
		if ctx.Node.Conditional.Kind != dom.If {
			// A chain is always consumed from its m-if, so any other member seen here has none.
			return engine.Errorf(engine.ErrBrokenConditionalChain, "<%s> does not follow an m-if or m-else-if", ctx.Node.TagName)
		}
		return compileConditional(ctx)
	case dom.ForLoopNode:
		return compileLoop(ctx)
	}
	return nil
}

func compileConditional(ctx *engine.NodeContext) error {
	var members []*dom.Node
	var winner *dom.Node

	for n := ctx.Node; n != nil; n = n.Conditional.Next {
		if len(members) > 0 {
			prev := members[len(members)-1]
			if n.PrevSibling != prev || n.Type != dom.ConditionalNode || n.Conditional.Kind == dom.If {
				return engine.Errorf(engine.ErrBrokenConditionalChain, "conditional chain is not adjacent at <%s>", n.TagName)
			}
			if prev.Conditional.Kind == dom.Else {
				return engine.Errorf(engine.ErrBrokenConditionalChain, "m-else must end its chain")
			}
		}
		members = append(members, n)

		if winner != nil {
			continue
		}
		cond := n.Conditional
		if cond.Kind == dom.Else {
			cond.Evaluated, cond.Truthy = true, true
			winner = n
			continue
		}
		v, err := ctx.Evaluate(cond.Expression)
		if err != nil {
			return err
		}
		cond.Evaluated, cond.Truthy = true, coerce.Truthy(v)
		if cond.Truthy {
			winner = n
		}
	}

	// Later members go first so the head stays attached until the walker is told.
	for i := len(members) - 1; i > 0; i-- {
		members[i].RemoveSelf(members[i] == winner)
	}
	ctx.Remove(members[0] == winner)
	return nil
}

type iteration struct {
	value any
	index int
}

func compileLoop(ctx *engine.NodeContext) error {
	loop := ctx.Node.Loop
	body := ctx.Node.CreateSubtreeFromChildren()

	source, err := ctx.Evaluate(loop.Expression)
	if err != nil {
		return err
	}

	var iterations []iteration
	switch loop.Kind {
	case dom.ForOf:
		items, _ := coerce.Sequence(source)
		for i, item := range items {
			iterations = append(iterations, iteration{value: item, index: i})
		}
	case dom.ForIn:
		keys, _ := coerce.Keys(source)
		for i, key := range keys {
			iterations = append(iterations, iteration{value: key, index: i})
		}
	default:
		return engine.Errorf(engine.ErrUnsupportedLoopKind, "unsupported loop kind %d", loop.Kind)
	}

	// Each insertion lands right after the loop node, so inserting the last
	// iteration first leaves them in ascending order.
	for i := len(iterations) - 1; i >= 0; i-- {
		it := iterations[i]
		vars := map[string]any{loop.Var: it.value}
		if loop.Index != "" {
			vars[loop.Index] = it.index
		}
		scope := dom.NewScope(vars)
		scope.AppendChildren(body.Clone(true).DetachChildren()...)
		ctx.Node.AppendSibling(scope)
	}

	ctx.Remove(false)
	return nil
}
