package dom

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFragment(t *testing.T) {
	root, err := ParseFragmentString(`<div class="a" id="x"><m-if ?="{{ ok }}">yes</m-if></div><p>tail</p>`)
	require.NoError(t, err)

	div := root.FirstChild
	require.NotNil(t, div)
	assert.Equal(t, "div", div.TagName)
	assert.Equal(t, []string{"class", "id"}, div.Attrs.Keys())

	mif := div.FirstChild
	require.NotNil(t, mif)
	assert.Equal(t, "m-if", mif.TagName)
	assert.Equal(t, "{{ ok }}", mif.Attr("?"))
	assert.Equal(t, "yes", mif.TextContent())
	assert.Equal(t, "p", div.NextSibling.TagName)
}

func TestParseDocument(t *testing.T) {
	root, err := ParseDocument(strings.NewReader(`<!DOCTYPE html><html><head><title>T</title></head><body><p>x</p></body></html>`))
	require.NoError(t, err)
	require.Equal(t, DoctypeNode, root.FirstChild.Type)
	assert.NotNil(t, root.FindChildTag("title", true))
}

func TestRender(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		src := `<div class="a"><p>hello &amp; bye</p><!-- note --></div>`
		root, err := ParseFragmentString(src)
		require.NoError(t, err)
		out, err := RenderString(root)
		require.NoError(t, err)
		assert.Equal(t, src, out)
	})

	t.Run("typed attributes", func(t *testing.T) {
		root := NewDocument()
		input := NewTag("input")
		input.Attrs.Set("value", 42)
		input.Attrs.Set("disabled", true)
		input.Attrs.Set("hidden", false)
		input.Attrs.Set("title", nil)
		root.AppendChild(input)

		out, err := RenderString(root)
		require.NoError(t, err)
		assert.Equal(t, `<input value="42" disabled=""/>`, out)
	})

	t.Run("directive nodes are transparent", func(t *testing.T) {
		root := NewDocument()
		scope := NewScope(map[string]any{"x": 1})
		scope.AppendChild(NewText("inside"))
		root.AppendChild(scope)

		out, err := RenderString(root)
		require.NoError(t, err)
		assert.Equal(t, "inside", out)
	})
}
