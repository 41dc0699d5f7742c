package engine_test

import (
	"errors"
	"fmt"
	"testing"

	"mooltipage/pkg/engine"
	"mooltipage/pkg/eval"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateTemplate(t *testing.T) {
	ev := eval.New()
	scope := engine.NewScope(nil)
	scope.Set("n", 3)
	scope.Set("items", []any{1, 2})
	scope.Set("user", map[string]any{"name": "Ada"})

	cases := []struct {
		name string
		raw  string
		want any
	}{
		{"plain text", "hello", "hello"},
		{"single expression keeps type", "{{ n + 1 }}", 4},
		{"single expression with padding", "  {{ items }} ", []any{1, 2}},
		{"mixed content is text", "n is {{ n }}!", "n is 3!"},
		{"two expressions", "{{ n }}{{ n }}", "33"},
		{"nested access", "Hi {{ user.name }}", "Hi Ada"},
		{"empty expression", "{{ }}", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := engine.EvaluateTemplate(ev, tc.raw, scope)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("errors carry the expression kind", func(t *testing.T) {
		_, err := engine.EvaluateTemplate(ev, "x {{ 1 + }}", scope)
		assert.ErrorIs(t, err, engine.ErrExpression)
	})

	assert.True(t, engine.HasTemplate("a {{ b }}"))
	assert.False(t, engine.HasTemplate("a { b }"))
}

func TestScope(t *testing.T) {
	root := engine.NewScope(nil)
	root.Set("user", map[string]interface{}{"profile": map[string]interface{}{"name": "Ada"}})
	root.Set("x", 1)
	child := engine.NewScope(root)
	child.Set("x", 2)

	v, ok := child.Get("x")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	v, ok = child.Get("user.profile.name")
	assert.True(t, ok)
	assert.Equal(t, "Ada", v)

	_, ok = child.Get("user.missing")
	assert.False(t, ok)

	assert.Equal(t, map[string]interface{}{"x": 2, "user": root.ToMap()["user"]}, child.Flatten())
	assert.Equal(t, map[string]interface{}{"x": 2}, child.ToMap())

	child.Reset()
	v, _ = child.Get("x")
	assert.Equal(t, 1, v)
}

func TestResolvePath(t *testing.T) {
	cases := map[string][2]string{
		"components/card.html": {"card.html", "components/page.html"},
		"shared/a.css":         {"@/shared/a.css", "deep/nested/page.html"},
		"shared/b.css":         {"../shared/b.css", "pages/index.html"},
		"root.html":            {"root.html", "index.html"},
	}
	for want, in := range cases {
		assert.Equal(t, want, engine.ResolvePath(in[0], in[1]), fmt.Sprintf("%v", in))
	}
}

func TestDiagnostic(t *testing.T) {
	cause := errors.New("disk on fire")
	d := engine.Wrap(engine.ErrResource, cause, "cannot load %s", "a.css").At("page.html", "style", "div > style")

	assert.ErrorIs(t, d, engine.ErrResource)
	assert.ErrorIs(t, d, cause)
	assert.Equal(t, "resource", d.KindName())
	assert.Equal(t, "page.html: [style] cannot load a.css (at div > style): disk on fire", d.Error())

	again := engine.Wrap(engine.ErrExpression, d, "ignored")
	assert.Equal(t, d, again)

	moved := d.At("other.html", "", "")
	assert.Equal(t, "page.html", moved.Filename)
}
