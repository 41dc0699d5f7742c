package engine_test

import (
	"errors"
	"testing"

	"mooltipage/pkg/dom"
	"mooltipage/pkg/engine"
	"mooltipage/pkg/eval"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLoader struct {
	texts     map[string]string
	fragments map[string]string
	calls     []string
}

func (l *fakeLoader) GetRawText(path string, mime engine.MimeType) (string, error) {
	l.calls = append(l.calls, "text:"+path)
	text, ok := l.texts[path]
	if !ok {
		return "", errors.New("not found: " + path)
	}
	return text, nil
}

func (l *fakeLoader) GetRawFragment(path string) (*engine.Fragment, error) {
	l.calls = append(l.calls, "fragment:"+path)
	html, ok := l.fragments[path]
	if !ok {
		return nil, errors.New("not found: " + path)
	}
	root, err := dom.ParseFragmentString(html)
	if err != nil {
		return nil, err
	}
	return &engine.Fragment{Path: path, Root: root}, nil
}

// countingEvaluator records every call that reaches the expression language.
type countingEvaluator struct {
	*eval.Evaluator
	parses int
}

func (c *countingEvaluator) ParseComponentClass(text string) (engine.Executable, error) {
	c.parses++
	return c.Evaluator.ParseComponentClass(text)
}

func (c *countingEvaluator) ParseComponentFunction(text string) (engine.Executable, error) {
	c.parses++
	return c.Evaluator.ParseComponentFunction(text)
}

func newParser() (*engine.ResourceParser, *fakeLoader, *countingEvaluator) {
	loader := &fakeLoader{texts: map[string]string{}, fragments: map[string]string{}}
	ev := &countingEvaluator{Evaluator: eval.New()}
	return engine.NewResourceParser(loader, ev), loader, ev
}

func TestParseComponent(t *testing.T) {
	t.Run("inline sections", func(t *testing.T) {
		p, _, _ := newParser()
		comp, err := p.ParseComponent("components/card.html", `
			<template><div class="card">{{ title }}</div></template>
			<script>title = "x"</script>
			<style bind="link">.card { color: red; }</style>
		`)
		require.NoError(t, err)
		assert.Equal(t, "components/card.html", comp.Path)
		require.NotNil(t, comp.Template.Root.FindChildTag("div", false))
		assert.Equal(t, dom.ClassMode, comp.Script.Mode)
		require.NotNil(t, comp.Style)
		assert.Equal(t, dom.LinkedStylesheet, comp.Style.Bind)
		assert.Contains(t, comp.Style.Content, "color: red")

		fields, err := comp.Script.Handle.Execute(nil)
		require.NoError(t, err)
		assert.Equal(t, "x", fields["title"])
	})

	t.Run("style is optional and defaults to head", func(t *testing.T) {
		p, _, _ := newParser()
		comp, err := p.ParseComponent("c.html", `<template><p>a</p></template><script mode="function">{}</script>`)
		require.NoError(t, err)
		assert.Nil(t, comp.Style)
		assert.Equal(t, dom.FunctionMode, comp.Script.Mode)

		comp, err = p.ParseComponent("c.html", `<template><p>a</p></template><script>a = 1</script><style>p{}</style>`)
		require.NoError(t, err)
		assert.Equal(t, dom.HeadInline, comp.Style.Bind)
	})

	t.Run("external sections resolve against the component", func(t *testing.T) {
		p, loader, _ := newParser()
		loader.texts["components/card.js"] = `label = "from file"`
		loader.texts["shared/card.css"] = `.card{}`
		loader.fragments["components/card.tpl.html"] = `<span>{{ label }}</span>`

		comp, err := p.ParseComponent("components/card.html",
			`<template src="card.tpl.html"></template><script src="./card.js"></script><style src="@/shared/card.css"></style>`)
		require.NoError(t, err)
		assert.Equal(t, "components/card.tpl.html", comp.Template.Src)
		assert.Equal(t, "components/card.js", comp.Script.Src)
		assert.Equal(t, "shared/card.css", comp.Style.Src)
		assert.Equal(t, ".card{}", comp.Style.Content)
		assert.NotNil(t, comp.Template.Root.FindChildTag("span", false))
	})

	t.Run("missing template", func(t *testing.T) {
		p, _, _ := newParser()
		_, err := p.ParseComponent("c.html", `<script>a = 1</script>`)
		assert.ErrorIs(t, err, engine.ErrMissingRequiredSection)
	})

	t.Run("missing script is reported before the style is resolved", func(t *testing.T) {
		p, loader, _ := newParser()
		_, err := p.ParseComponent("c.html", `<template><p></p></template><style src="missing.css"></style>`)
		assert.ErrorIs(t, err, engine.ErrMissingRequiredSection)
		d, ok := engine.AsDiagnostic(err)
		require.True(t, ok)
		assert.Equal(t, "script", d.Section)
		assert.Equal(t, "c.html", d.Filename)
		assert.Empty(t, loader.calls)
	})

	t.Run("unknown script mode never reaches the evaluator", func(t *testing.T) {
		p, loader, ev := newParser()
		_, err := p.ParseComponent("c.html", `<template><p></p></template><script mode="bogus" src="x.js"></script>`)
		assert.ErrorIs(t, err, engine.ErrUnknownEnumValue)
		assert.Zero(t, ev.parses)
		assert.Empty(t, loader.calls)
	})

	t.Run("unknown style bind", func(t *testing.T) {
		p, _, _ := newParser()
		_, err := p.ParseComponent("c.html", `<template><p></p></template><script>a = 1</script><style bind="inline">p{}</style>`)
		assert.ErrorIs(t, err, engine.ErrUnknownEnumValue)
	})

	t.Run("empty inline script", func(t *testing.T) {
		p, _, _ := newParser()
		_, err := p.ParseComponent("c.html", `<template><p></p></template><script></script>`)
		assert.ErrorIs(t, err, engine.ErrInvalidSectionContent)
	})

	t.Run("missing external resource", func(t *testing.T) {
		p, _, _ := newParser()
		_, err := p.ParseComponent("c.html", `<template><p></p></template><script src="nope.js"></script>`)
		assert.ErrorIs(t, err, engine.ErrResource)
	})
}

func TestParseFragmentDirectives(t *testing.T) {
	p, _, _ := newParser()

	t.Run("conditional chain is linked across whitespace", func(t *testing.T) {
		frag, err := p.ParseFragment("f.html", `<m-if ?="{{ a }}">A</m-if>
			<m-else-if ?="{{ b }}">B</m-else-if>
			<m-else>C</m-else>`)
		require.NoError(t, err)

		first := frag.Root.FirstChild
		require.Equal(t, dom.ConditionalNode, first.Type)
		second := first.NextSibling
		third := second.NextSibling
		assert.Same(t, second, first.Conditional.Next)
		assert.Same(t, third, second.Conditional.Next)
		assert.Equal(t, dom.Else, third.Conditional.Kind)
		assert.Equal(t, "{{ a }}", first.Conditional.Expression)
	})

	t.Run("element between members leaves the branch unlinked", func(t *testing.T) {
		frag, err := p.ParseFragment("f.html", `<m-if ?="true">A</m-if><p>x</p><m-else>C</m-else>`)
		require.NoError(t, err)
		assert.Nil(t, frag.Root.FirstChild.Conditional.Next)
	})

	t.Run("loops", func(t *testing.T) {
		frag, err := p.ParseFragment("f.html", `<m-for var="item" of="{{ items }}" index="i">x</m-for><m-for var="k" in="{{ obj }}">y</m-for>`)
		require.NoError(t, err)
		of := frag.Root.FirstChild
		require.Equal(t, dom.ForLoopNode, of.Type)
		assert.Equal(t, dom.Loop{Kind: dom.ForOf, Expression: "{{ items }}", Var: "item", Index: "i"}, *of.Loop)
		in := of.NextSibling
		assert.Equal(t, dom.ForIn, in.Loop.Kind)
		assert.Equal(t, "", in.Loop.Index)
	})

	t.Run("loop without source", func(t *testing.T) {
		_, err := p.ParseFragment("f.html", `<m-for var="x">y</m-for>`)
		assert.ErrorIs(t, err, engine.ErrMissingAttribute)
	})

	t.Run("references slots and styles", func(t *testing.T) {
		frag, err := p.ParseFragment("f.html", `<m-component src="card.html" title="t"></m-component><m-slot></m-slot><style compiled bind="link">a{}</style>`)
		require.NoError(t, err)
		ref := frag.Root.FirstChild
		assert.Equal(t, dom.ReferenceNode, ref.Type)
		assert.Equal(t, dom.ComponentRef, ref.Reference.Kind)
		assert.Equal(t, "card.html", ref.Reference.Src)
		assert.Equal(t, []string{"title"}, ref.Attrs.Keys())

		slot := ref.NextSibling
		assert.Equal(t, dom.SlotNode, slot.Type)
		assert.Equal(t, engine.DefaultSlot, slot.Data)

		style := slot.NextSibling
		assert.Equal(t, dom.StyleSectionNode, style.Type)
		assert.Equal(t, dom.LinkedStylesheet, style.Style.Bind)
		assert.Equal(t, "a{}", style.Style.Content)
	})

	t.Run("plain style is untouched", func(t *testing.T) {
		frag, err := p.ParseFragment("f.html", `<style>a{}</style>`)
		require.NoError(t, err)
		assert.Equal(t, dom.TagNode, frag.Root.FirstChild.Type)
	})
}

func TestParsePage(t *testing.T) {
	p, _, _ := newParser()
	page, err := p.ParsePage("index.html", `<!DOCTYPE html><html><head><title>x</title></head><body><m-if ?="true">y</m-if></body></html>`)
	require.NoError(t, err)
	assert.Equal(t, "index.html", page.Path)
	body := page.Root.FindChildTag("body", true)
	require.NotNil(t, body)
	assert.Equal(t, dom.ConditionalNode, body.FirstChild.Type)
}
