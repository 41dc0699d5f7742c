package cli

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"mooltipage/pkg/fastjson"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSite(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		target := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(target), 0755))
		require.NoError(t, os.WriteFile(target, []byte(content), 0644))
	}
	return root
}

var site = map[string]string{
	"index.html":             `<html><body><m-component src="_components/hello.html" name="index"></m-component></body></html>`,
	"blog/post.html":         `<html><body><m-fragment src="@/_partials/note.html"></m-fragment></body></html>`,
	"_components/hello.html": `<template><p>Hello {{ name }}</p></template><script>greeting = "hi"</script><style bind="link">p{color:red}</style>`,
	"_partials/note.html":    `<aside>note</aside>`,
	"notes.txt":              `not a page`,
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("MOOLTIPAGE_IN", "site")
	t.Setenv("MOOLTIPAGE_OUT", "")
	t.Setenv("MOOLTIPAGE_LINK_BASE", "https://cdn.example.com")
	t.Setenv("MOOLTIPAGE_FORMAT_JSON", "true")

	cfg := LoadConfig()
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "site", cfg.InRoot)
	assert.Equal(t, "dist", cfg.OutRoot)
	assert.Equal(t, "https://cdn.example.com", cfg.LinkBase)
	assert.True(t, cfg.FormatJSON)

	t.Setenv("MOOLTIPAGE_FORMAT_JSON", "nope")
	assert.False(t, LoadConfig().FormatJSON)

	cfg = cfg.applyArgs([]string{"in", "--json", "out"})
	assert.Equal(t, "in", cfg.InRoot)
	assert.Equal(t, "out", cfg.OutRoot)
	assert.True(t, cfg.FormatJSON)
}

func TestCollectPages(t *testing.T) {
	root := writeSite(t, site)
	pages, err := CollectPages(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"blog/post.html", "index.html"}, pages)
}

func TestBuild(t *testing.T) {
	in := writeSite(t, site)
	out := filepath.Join(t.TempDir(), "dist")

	manifest, err := Build(Config{InRoot: in, OutRoot: out, LinkBase: "/"})
	require.NoError(t, err)
	assert.Equal(t, []string{"blog/post.html", "index.html"}, manifest.Pages)
	require.Len(t, manifest.Resources, 1)
	assert.Regexp(t, regexp.MustCompile(`^resources/hello-[0-9a-f]{16}\.css$`), manifest.Resources[0])

	index, err := os.ReadFile(filepath.Join(out, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "<p>Hello index</p>")
	assert.Contains(t, string(index), `href="/`+manifest.Resources[0]+`"`)

	post, err := os.ReadFile(filepath.Join(out, "blog", "post.html"))
	require.NoError(t, err)
	assert.Contains(t, string(post), "<aside>note</aside>")

	raw, err := os.ReadFile(filepath.Join(out, manifestName))
	require.NoError(t, err)
	var decoded Manifest
	require.NoError(t, fastjson.Unmarshal(raw, &decoded))
	assert.Equal(t, manifest.Pages, decoded.Pages)
}

func TestCheck(t *testing.T) {
	t.Run("valid site", func(t *testing.T) {
		in := writeSite(t, site)
		out := filepath.Join(t.TempDir(), "dist")
		report, err := Check(Config{InRoot: in, OutRoot: out, LinkBase: "/"})
		require.NoError(t, err)
		assert.True(t, report.Success)
		assert.Equal(t, 2, report.Pages)

		_, err = os.Stat(out)
		assert.True(t, os.IsNotExist(err), "check must not write output")
	})

	t.Run("reports every failing page", func(t *testing.T) {
		in := writeSite(t, map[string]string{
			"a.html": `<m-else>orphan</m-else>`,
			"b.html": `<m-component src="missing.html"></m-component>`,
			"c.html": `<p>fine</p>`,
		})
		report, err := Check(Config{InRoot: in, LinkBase: "/"})
		require.NoError(t, err)
		assert.False(t, report.Success)
		require.Len(t, report.Errors, 2)
		assert.Equal(t, "a.html", report.Errors[0].Page)
		assert.Equal(t, "broken_conditional_chain", report.Errors[0].Kind)
		assert.Equal(t, "b.html", report.Errors[1].Page)
		assert.Equal(t, "resource", report.Errors[1].Kind)

		data, err := fastjson.Marshal(report)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"kind":"broken_conditional_chain"`)
	})
}

func TestPreview(t *testing.T) {
	in := writeSite(t, site)
	srv := httptest.NewServer(NewPreview(in).Router())
	defer srv.Close()

	get := func(t *testing.T, path string) (int, string) {
		t.Helper()
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(body)
	}

	status, body := get(t, "/")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "<p>Hello index</p>")

	href := regexp.MustCompile(`href="(/resources/[^"]+)"`).FindStringSubmatch(body)
	require.Len(t, href, 2)
	status, css := get(t, href[1])
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "p{color:red}", css)

	req, err := http.NewRequest(http.MethodGet, srv.URL+href[1], nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://elsewhere.example.com")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	status, body = get(t, "/blog/post")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "<aside>note</aside>")

	status, _ = get(t, "/missing.html")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = get(t, "/_partials/note.html")
	assert.Equal(t, http.StatusNotFound, status)

	status, body = get(t, "/metrics")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "mooltipage_compiles_total")
}
