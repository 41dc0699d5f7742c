package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"mooltipage/pkg/fastjson"
	"mooltipage/pkg/pipeline"
)

const manifestName = "mooltipage-manifest.json"

// Manifest is written next to the build output.
type Manifest struct {
	Pages      []string `json:"pages"`
	Resources  []string `json:"resources"`
	BuiltAt    string   `json:"built_at"`
	DurationMs int64    `json:"duration_ms"`
}

// CollectPages lists every .html file under root as a slash separated path.
// Files and directories starting with "_" hold components and fragments and are skipped.
func CollectPages(root string) ([]string, error) {
	var pages []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}
		if strings.HasPrefix(d.Name(), "_") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(p), ".html") {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		pages = append(pages, filepath.ToSlash(rel))
		return nil
	})
	sort.Strings(pages)
	return pages, err
}

// Build compiles every page under cfg.InRoot into cfg.OutRoot.
// It stops at the first failing page.
func Build(cfg Config) (*Manifest, error) {
	start := time.Now()
	pages, err := CollectPages(cfg.InRoot)
	if err != nil {
		return nil, fmt.Errorf("collect pages: %w", err)
	}

	fsi := pipeline.NewFilesystemInterface(cfg.InRoot, cfg.OutRoot)
	p := pipeline.New(fsi, pipeline.WithLinkBase(cfg.LinkBase))
	for _, page := range pages {
		if _, err := p.CompilePage(page); err != nil {
			return nil, err
		}
	}

	isPage := make(map[string]bool, len(pages))
	for _, page := range pages {
		isPage[page] = true
	}
	manifest := &Manifest{Pages: pages, Resources: []string{}, BuiltAt: start.UTC().Format(time.RFC3339)}
	for _, written := range fsi.Written() {
		if !isPage[written] {
			manifest.Resources = append(manifest.Resources, written)
		}
	}
	manifest.DurationMs = time.Since(start).Milliseconds()

	data, err := fastjson.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.MkdirAll(cfg.OutRoot, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(cfg.OutRoot, manifestName), data, 0644); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}
	return manifest, nil
}

// HandleBuild compiles a site.
// Usage: mooltipage build [in] [out]
func HandleBuild(args []string) {
	cfg := LoadConfig().applyArgs(args)
	fmt.Printf("🏗️  Building %s -> %s...\n", cfg.InRoot, cfg.OutRoot)

	manifest, err := Build(cfg)
	if err != nil {
		fmt.Printf("❌ Build failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("🚀 Build success! %d pages, %d resources in %dms\n",
		len(manifest.Pages), len(manifest.Resources), manifest.DurationMs)
}
