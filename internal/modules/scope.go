package modules

import (
	"mooltipage/pkg/dom"
	"mooltipage/pkg/engine"
)

// ScopeModule unwraps the scope nodes left by earlier passes.
type ScopeModule struct{}

func (m *ScopeModule) Name() string { return "scope" }

func (m *ScopeModule) EnterNode(ctx *engine.NodeContext) error {
	if ctx.Node.Type == dom.ScopeNode {
		ctx.Remove(true)
	}
	return nil
}
