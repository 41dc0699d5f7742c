package engine

import "mooltipage/pkg/dom"

// DefaultSlot receives reference content that is not wrapped in a named m-content.
const DefaultSlot = "[default]"

// UsageContext describes how a fragment is being used by its caller.
type UsageContext struct {
	// SlotContents maps slot names to detached document roots holding the content.
	SlotContents map[string]*dom.Node
	// Props are the attributes given on the reference.
	Props map[string]any
}

func NewUsageContext(slots map[string]*dom.Node) *UsageContext {
	if slots == nil {
		slots = make(map[string]*dom.Node)
	}
	return &UsageContext{SlotContents: slots, Props: make(map[string]any)}
}
