package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"mooltipage/pkg/engine"
)

// PipelineInterface is where sources are read from and outputs written to.
// Paths are slash separated and relative to the project root.
type PipelineInterface interface {
	GetResource(mime engine.MimeType, path string) (string, error)
	WriteResource(mime engine.MimeType, path string, content string) error
}

// FilesystemInterface reads from InRoot and writes to OutRoot.
// With DryRun set nothing is written.
type FilesystemInterface struct {
	InRoot  string
	OutRoot string
	DryRun  bool

	mu      sync.Mutex
	written []string
}

func NewFilesystemInterface(inRoot, outRoot string) *FilesystemInterface {
	return &FilesystemInterface{InRoot: inRoot, OutRoot: outRoot}
}

func (f *FilesystemInterface) GetResource(mime engine.MimeType, path string) (string, error) {
	data, err := os.ReadFile(filepath.Join(f.InRoot, filepath.FromSlash(path)))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (f *FilesystemInterface) WriteResource(mime engine.MimeType, path string, content string) error {
	f.mu.Lock()
	f.written = append(f.written, path)
	f.mu.Unlock()
	if f.DryRun {
		return nil
	}

	target := filepath.Join(f.OutRoot, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return os.WriteFile(target, []byte(content), 0644)
}

// Written lists every output path in the order it was written.
func (f *FilesystemInterface) Written() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.written))
	copy(out, f.written)
	return out
}

// MemoryInterface keeps sources and outputs in maps. It backs tests and the preview server.
type MemoryInterface struct {
	mu      sync.RWMutex
	sources map[string]string
	outputs map[string]string
}

func NewMemoryInterface(sources map[string]string) *MemoryInterface {
	m := &MemoryInterface{sources: make(map[string]string), outputs: make(map[string]string)}
	for k, v := range sources {
		m.sources[k] = v
	}
	return m
}

func (m *MemoryInterface) SetSource(path, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sources[path] = content
}

func (m *MemoryInterface) GetResource(mime engine.MimeType, path string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	content, ok := m.sources[path]
	if !ok {
		return "", fmt.Errorf("%s: %w", path, os.ErrNotExist)
	}
	return content, nil
}

func (m *MemoryInterface) WriteResource(mime engine.MimeType, path string, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outputs[path] = content
	return nil
}

func (m *MemoryInterface) Output(path string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	content, ok := m.outputs[path]
	return content, ok
}

func (m *MemoryInterface) Outputs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	paths := make([]string, 0, len(m.outputs))
	for p := range m.outputs {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
