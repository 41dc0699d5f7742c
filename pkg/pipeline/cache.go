package pipeline

import (
	"sync"

	"mooltipage/pkg/engine"
	"mooltipage/pkg/metrics"
)

type textKey struct {
	path string
	mime engine.MimeType
}

type linkKey struct {
	mime    engine.MimeType
	content string
}

// ResourceCache holds everything a build has loaded or linked, so each
// resource is read, parsed and written once. Reset starts a new build.
type ResourceCache struct {
	mu         sync.RWMutex
	texts      map[textKey]string
	fragments  map[string]*engine.Fragment
	components map[string]*engine.Component
	links      map[linkKey]string
}

func NewResourceCache() *ResourceCache {
	c := &ResourceCache{}
	c.Reset()
	return c
}

func (c *ResourceCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.texts = make(map[textKey]string)
	c.fragments = make(map[string]*engine.Fragment)
	c.components = make(map[string]*engine.Component)
	c.links = make(map[linkKey]string)
}

func (c *ResourceCache) Text(path string, mime engine.MimeType) (string, bool) {
	c.mu.RLock()
	text, ok := c.texts[textKey{path, mime}]
	c.mu.RUnlock()
	metrics.CacheLookup("text", ok)
	return text, ok
}

func (c *ResourceCache) StoreText(path string, mime engine.MimeType, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.texts[textKey{path, mime}] = text
}

func (c *ResourceCache) Fragment(path string) (*engine.Fragment, bool) {
	c.mu.RLock()
	frag, ok := c.fragments[path]
	c.mu.RUnlock()
	metrics.CacheLookup("fragment", ok)
	return frag, ok
}

func (c *ResourceCache) StoreFragment(frag *engine.Fragment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fragments[frag.Path] = frag
}

func (c *ResourceCache) Component(path string) (*engine.Component, bool) {
	c.mu.RLock()
	comp, ok := c.components[path]
	c.mu.RUnlock()
	metrics.CacheLookup("component", ok)
	return comp, ok
}

func (c *ResourceCache) StoreComponent(comp *engine.Component) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.components[comp.Path] = comp
}

func (c *ResourceCache) Link(mime engine.MimeType, content string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	href, ok := c.links[linkKey{mime, content}]
	return href, ok
}

func (c *ResourceCache) StoreLink(mime engine.MimeType, content, href string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.links[linkKey{mime, content}] = href
}
