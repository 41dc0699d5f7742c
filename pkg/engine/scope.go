package engine

import (
	"strings"
	"sync"
)

// Scope is one level of lexical variables. Lookups fall back to the parent chain.
type Scope struct {
	mu     sync.RWMutex
	vars   map[string]interface{}
	parent *Scope
}

func NewScope(parent *Scope) *Scope {
	return &Scope{
		vars:   make(map[string]interface{}),
		parent: parent,
	}
}

func (s *Scope) Parent() *Scope {
	return s.parent
}

func (s *Scope) Set(key string, val interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vars[key] = val
}

// Get resolves key in this scope, then in the parents. Dot notation
// (user.name) walks into map values.
func (s *Scope) Get(key string) (interface{}, bool) {
	s.mu.RLock()
	if val, ok := s.vars[key]; ok {
		s.mu.RUnlock()
		return val, true
	}
	parent := s.parent
	s.mu.RUnlock()

	if parent != nil {
		if val, ok := parent.Get(key); ok {
			return val, true
		}
	}

	if !strings.Contains(key, ".") {
		return nil, false
	}

	parts := strings.Split(key, ".")
	current, ok := s.Get(parts[0])
	if !ok || current == nil {
		return nil, false
	}
	for _, part := range parts[1:] {
		m, isMap := current.(map[string]interface{})
		if !isMap {
			return nil, false
		}
		if current, ok = m[part]; !ok {
			return nil, false
		}
		if current == nil {
			return nil, true
		}
	}
	return current, true
}

// ToMap copies the variables of this level only.
func (s *Scope) ToMap() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m := make(map[string]interface{}, len(s.vars))
	for k, v := range s.vars {
		m[k] = v
	}
	return m
}

// Flatten merges the whole chain into one map. Inner bindings shadow outer ones.
func (s *Scope) Flatten() map[string]interface{} {
	if s == nil {
		return map[string]interface{}{}
	}
	m := s.parent.Flatten()
	s.mu.RLock()
	defer s.mu.RUnlock()
	for k, v := range s.vars {
		m[k] = v
	}
	return m
}

func (s *Scope) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.vars {
		delete(s.vars, k)
	}
}
