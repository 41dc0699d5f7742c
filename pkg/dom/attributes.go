package dom

import "sort"

// Attributes is an insertion ordered attribute map. A value is either the
// literal string from the markup or a typed value produced by evaluation.
type Attributes struct {
	keys   []string
	values map[string]any
}

func NewAttributes() *Attributes {
	return &Attributes{values: make(map[string]any)}
}

func (a *Attributes) Get(name string) (any, bool) {
	if a == nil {
		return nil, false
	}
	v, ok := a.values[name]
	return v, ok
}

// GetString returns the value only when it is still a string.
func (a *Attributes) GetString(name string) (string, bool) {
	v, ok := a.Get(name)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (a *Attributes) Has(name string) bool {
	_, ok := a.Get(name)
	return ok
}

func (a *Attributes) Set(name string, value any) {
	if _, exists := a.values[name]; !exists {
		a.keys = append(a.keys, name)
	}
	a.values[name] = value
}

func (a *Attributes) Delete(name string) {
	if a == nil {
		return
	}
	if _, exists := a.values[name]; !exists {
		return
	}
	delete(a.values, name)
	for i, k := range a.keys {
		if k == name {
			a.keys = append(a.keys[:i], a.keys[i+1:]...)
			break
		}
	}
}

func (a *Attributes) Keys() []string {
	if a == nil {
		return nil
	}
	out := make([]string, len(a.keys))
	copy(out, a.keys)
	return out
}

func (a *Attributes) Len() int {
	if a == nil {
		return 0
	}
	return len(a.keys)
}

// Map returns a copy of the attributes as a plain map.
func (a *Attributes) Map() map[string]any {
	out := make(map[string]any, a.Len())
	if a == nil {
		return out
	}
	for _, k := range a.keys {
		out[k] = a.values[k]
	}
	return out
}

// Clone copies the container. Values are shared, they are treated as immutable.
func (a *Attributes) Clone() *Attributes {
	if a == nil {
		return nil
	}
	c := &Attributes{
		keys:   make([]string, len(a.keys)),
		values: make(map[string]any, len(a.values)),
	}
	copy(c.keys, a.keys)
	for k, v := range a.values {
		c.values[k] = v
	}
	return c
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
