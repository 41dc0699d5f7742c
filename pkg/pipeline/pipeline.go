package pipeline

import (
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"mooltipage/internal/modules"
	"mooltipage/pkg/dom"
	"mooltipage/pkg/engine"
	"mooltipage/pkg/eval"
	"mooltipage/pkg/metrics"

	"github.com/gosimple/slug"
	"github.com/zeebo/xxh3"
)

// Pipeline drives a build: it loads and caches resources, compiles pages,
// fragments and components, and links generated resources.
type Pipeline struct {
	iface       PipelineInterface
	evaluator   *eval.Evaluator
	parser      *engine.ResourceParser
	compiler    *engine.Compiler
	cache       *ResourceCache
	linkBase    string
	resourceDir string

	// stack holds the references being compiled, innermost last.
	stack []string
}

type Option func(*Pipeline)

// WithLinkBase sets the prefix of linked resource references. Defaults to "/".
func WithLinkBase(base string) Option {
	return func(p *Pipeline) { p.linkBase = base }
}

// WithResourceDir sets the output directory of linked resources. Defaults to "resources".
func WithResourceDir(dir string) Option {
	return func(p *Pipeline) { p.resourceDir = dir }
}

func WithCache(cache *ResourceCache) Option {
	return func(p *Pipeline) { p.cache = cache }
}

func New(iface PipelineInterface, opts ...Option) *Pipeline {
	p := &Pipeline{
		iface:       iface,
		evaluator:   eval.New(),
		linkBase:    "/",
		resourceDir: "resources",
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.cache == nil {
		p.cache = NewResourceCache()
	}
	p.parser = engine.NewResourceParser(p, p.evaluator)
	p.compiler = engine.NewCompiler(p, modules.Standard()...)
	return p
}

func (p *Pipeline) Evaluator() engine.Evaluator {
	return p.evaluator
}

// Reset clears every cache so the next build sees fresh sources.
func (p *Pipeline) Reset() {
	p.cache.Reset()
	p.evaluator.ClearCache()
	p.stack = nil
}

func (p *Pipeline) GetRawText(resPath string, mime engine.MimeType) (string, error) {
	if text, ok := p.cache.Text(resPath, mime); ok {
		return text, nil
	}
	text, err := p.iface.GetResource(mime, resPath)
	if err != nil {
		return "", engine.Wrap(engine.ErrResource, err, "cannot read %s", resPath)
	}
	p.cache.StoreText(resPath, mime, text)
	return text, nil
}

// GetRawFragment returns a fresh copy of the parsed fragment at resPath.
func (p *Pipeline) GetRawFragment(resPath string) (*engine.Fragment, error) {
	if frag, ok := p.cache.Fragment(resPath); ok {
		return frag.Clone(), nil
	}
	html, err := p.GetRawText(resPath, engine.MimeHTML)
	if err != nil {
		return nil, err
	}
	frag, err := p.parser.ParseFragment(resPath, html)
	if err != nil {
		return nil, err
	}
	p.cache.StoreFragment(frag)
	return frag.Clone(), nil
}

func (p *Pipeline) getComponent(resPath string) (*engine.Component, error) {
	if comp, ok := p.cache.Component(resPath); ok {
		return comp, nil
	}
	html, err := p.GetRawText(resPath, engine.MimeHTML)
	if err != nil {
		return nil, err
	}
	comp, err := p.parser.ParseComponent(resPath, html)
	if err != nil {
		return nil, err
	}
	p.cache.StoreComponent(comp)
	return comp, nil
}

// LinkResource writes content once per (mime, content) pair and returns its reference.
// The file name combines a slug of the source name with a hash of the content.
func (p *Pipeline) LinkResource(mime engine.MimeType, content string, srcPath string) (string, error) {
	if href, ok := p.cache.Link(mime, content); ok {
		metrics.LinkedResource(string(mime), true)
		return href, nil
	}

	base := strings.TrimSuffix(path.Base(srcPath), path.Ext(srcPath))
	name := slug.Make(base)
	if name == "" {
		name = "resource"
	}
	outPath := path.Join(p.resourceDir, fmt.Sprintf("%s-%016x%s", name, xxh3.HashString(content), mime.Extension()))
	if err := p.iface.WriteResource(mime, outPath, content); err != nil {
		return "", engine.Wrap(engine.ErrResource, err, "cannot write %s", outPath)
	}

	href := strings.TrimSuffix(p.linkBase, "/") + "/" + outPath
	p.cache.StoreLink(mime, content, href)
	metrics.LinkedResource(string(mime), false)
	slog.Debug("linked resource", "src", srcPath, "href", href)
	return href, nil
}

// CompilePage compiles the page at resPath, writes it to the same path in the
// output and returns the rendered HTML.
func (p *Pipeline) CompilePage(resPath string) (string, error) {
	start := time.Now()
	html, err := p.compilePage(resPath)
	metrics.ObserveCompile("page", start, err)
	return html, err
}

func (p *Pipeline) compilePage(resPath string) (string, error) {
	source, err := p.GetRawText(resPath, engine.MimeHTML)
	if err != nil {
		return "", err
	}
	page, err := p.parser.ParsePage(resPath, source)
	if err != nil {
		return "", err
	}
	if err := p.enter(resPath); err != nil {
		return "", err
	}
	defer p.leave()

	if err := p.compiler.Compile(&page.Fragment, engine.NewUsageContext(nil)); err != nil {
		return "", err
	}
	html, err := dom.RenderString(page.Root)
	if err != nil {
		return "", engine.Wrap(engine.ErrResource, err, "cannot render %s", resPath)
	}
	if err := p.iface.WriteResource(engine.MimeHTML, resPath, html); err != nil {
		return "", engine.Wrap(engine.ErrResource, err, "cannot write %s", resPath)
	}
	slog.Info("📄 Compiled page", "path", resPath)
	return html, nil
}

func (p *Pipeline) CompileFragment(resPath string, usage *engine.UsageContext) (*engine.Fragment, error) {
	start := time.Now()
	frag, err := p.compileFragment(resPath, usage)
	metrics.ObserveCompile("fragment", start, err)
	return frag, err
}

func (p *Pipeline) compileFragment(resPath string, usage *engine.UsageContext) (*engine.Fragment, error) {
	if err := p.enter(resPath); err != nil {
		return nil, err
	}
	defer p.leave()

	frag, err := p.GetRawFragment(resPath)
	if err != nil {
		return nil, err
	}
	if err := p.compiler.Compile(frag, usage); err != nil {
		return nil, err
	}
	return frag, nil
}

// CompileComponent instantiates the component at resPath. The script runs
// with the usage props, and props plus script fields are bound around the
// template. The component style is placed before the template content.
func (p *Pipeline) CompileComponent(resPath string, usage *engine.UsageContext) (*engine.Fragment, error) {
	start := time.Now()
	frag, err := p.compileComponent(resPath, usage)
	metrics.ObserveCompile("component", start, err)
	return frag, err
}

func (p *Pipeline) compileComponent(resPath string, usage *engine.UsageContext) (*engine.Fragment, error) {
	if err := p.enter(resPath); err != nil {
		return nil, err
	}
	defer p.leave()

	comp, err := p.getComponent(resPath)
	if err != nil {
		return nil, err
	}
	if usage == nil {
		usage = engine.NewUsageContext(nil)
	}

	fields, err := comp.Script.Handle.Execute(usage.Props)
	if err != nil {
		return nil, engine.Wrap(engine.ErrExpression, err, "component script failed").At(resPath, "script", "")
	}

	vars := make(map[string]any, len(usage.Props)+len(fields))
	for k, v := range usage.Props {
		vars[k] = v
	}
	for k, v := range fields {
		vars[k] = v
	}

	root := dom.NewDocument()
	if comp.Style != nil {
		src := comp.Style.Src
		if src == "" {
			src = resPath
		}
		root.AppendChild(dom.NewStyleSection(dom.Style{
			Kind:    dom.CompiledStyle,
			Bind:    comp.Style.Bind,
			Content: comp.Style.Content,
			Src:     src,
		}))
	}
	scope := dom.NewScope(vars)
	scope.AppendChildren(comp.Template.Root.Clone(true).DetachChildren()...)
	root.AppendChild(scope)

	frag := &engine.Fragment{Path: resPath, Root: root}
	if err := p.compiler.Compile(frag, usage); err != nil {
		return nil, err
	}
	return frag, nil
}

func (p *Pipeline) enter(resPath string) error {
	for _, active := range p.stack {
		if active == resPath {
			chain := append(append([]string{}, p.stack...), resPath)
			return engine.Errorf(engine.ErrReferenceCycle, "reference cycle: %s", strings.Join(chain, " -> ")).At(resPath, "", "")
		}
	}
	p.stack = append(p.stack, resPath)
	return nil
}

func (p *Pipeline) leave() {
	p.stack = p.stack[:len(p.stack)-1]
}
