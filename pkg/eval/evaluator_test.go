package eval

import (
	"testing"

	"mooltipage/pkg/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	e := New()
	outer := engine.NewScope(nil)
	outer.Set("count", 2)
	outer.Set("name", "outer")
	inner := engine.NewScope(outer)
	inner.Set("name", "inner")

	t.Run("arithmetic over scope chain", func(t *testing.T) {
		v, err := e.Evaluate("count * 10", inner)
		require.NoError(t, err)
		assert.Equal(t, 20, v)
	})

	t.Run("inner binding shadows outer", func(t *testing.T) {
		v, err := e.Evaluate("name", inner)
		require.NoError(t, err)
		assert.Equal(t, "inner", v)
	})

	t.Run("undefined variable is nil", func(t *testing.T) {
		v, err := e.Evaluate("missing", inner)
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("syntax error", func(t *testing.T) {
		_, err := e.Evaluate("1 +", inner)
		assert.Error(t, err)
	})

	t.Run("programs are cached", func(t *testing.T) {
		_, err := e.Evaluate("count + 1", inner)
		require.NoError(t, err)
		_, ok := e.programs.Load("count + 1")
		assert.True(t, ok)

		e.ClearCache()
		_, ok = e.programs.Load("count + 1")
		assert.False(t, ok)
	})
}

func TestClassScript(t *testing.T) {
	e := New()

	t.Run("fields see props and earlier fields", func(t *testing.T) {
		script, err := e.ParseComponentClass(`
			// greeting for the card
			greeting = "Hello, " + name;
			shout = upper(greeting)
			total = props.count * 2
		`)
		require.NoError(t, err)

		fields, err := script.Execute(map[string]any{"name": "Ada", "count": 4})
		require.NoError(t, err)
		assert.Equal(t, "Hello, Ada", fields["greeting"])
		assert.Equal(t, "HELLO, ADA", fields["shout"])
		assert.Equal(t, 8, fields["total"])
	})

	t.Run("empty script has no fields", func(t *testing.T) {
		script, err := e.ParseComponentClass("\n  \n")
		require.NoError(t, err)
		fields, err := script.Execute(nil)
		require.NoError(t, err)
		assert.Empty(t, fields)
	})

	t.Run("invalid declaration", func(t *testing.T) {
		_, err := e.ParseComponentClass("just an expression")
		assert.Error(t, err)
	})

	t.Run("comment markers inside strings are kept", func(t *testing.T) {
		script, err := e.ParseComponentClass(`url = "https://example.com" // home`)
		require.NoError(t, err)
		fields, err := script.Execute(nil)
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", fields["url"])
	})
}

func TestFunctionScript(t *testing.T) {
	e := New()

	t.Run("returns map", func(t *testing.T) {
		script, err := e.ParseComponentFunction(`{ "label": props.title + "!", "size": len(items) }`)
		require.NoError(t, err)
		fields, err := script.Execute(map[string]any{"title": "Hi", "items": []any{1, 2, 3}})
		require.NoError(t, err)
		assert.Equal(t, "Hi!", fields["label"])
		assert.Equal(t, 3, fields["size"])
	})

	t.Run("non map result", func(t *testing.T) {
		script, err := e.ParseComponentFunction(`42`)
		require.NoError(t, err)
		_, err = script.Execute(nil)
		assert.Error(t, err)
	})

	t.Run("empty script", func(t *testing.T) {
		_, err := e.ParseComponentFunction("  // nothing  ")
		assert.Error(t, err)
	})
}
