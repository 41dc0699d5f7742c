package cli

import (
	"fmt"
	"os"

	"mooltipage/pkg/engine"
	"mooltipage/pkg/fastjson"
	"mooltipage/pkg/pipeline"
)

// Report is the result of a check run. Every page is compiled even after a failure.
type Report struct {
	Success bool          `json:"success"`
	Pages   int           `json:"pages"`
	Errors  []ReportEntry `json:"errors"`
}

type ReportEntry struct {
	Page string `json:"page"`
	Kind string `json:"kind"`
	engine.Diagnostic
}

// Check compiles every page under cfg.InRoot without writing anything.
func Check(cfg Config) (*Report, error) {
	pages, err := CollectPages(cfg.InRoot)
	if err != nil {
		return nil, fmt.Errorf("collect pages: %w", err)
	}

	fsi := pipeline.NewFilesystemInterface(cfg.InRoot, cfg.OutRoot)
	fsi.DryRun = true
	p := pipeline.New(fsi, pipeline.WithLinkBase(cfg.LinkBase))

	report := &Report{Pages: len(pages), Errors: []ReportEntry{}}
	for _, page := range pages {
		_, err := p.CompilePage(page)
		if err == nil {
			continue
		}
		d, ok := engine.AsDiagnostic(err)
		if !ok {
			d = engine.Diagnostic{Type: "error", Filename: page}
		}
		d.Message = err.Error()
		report.Errors = append(report.Errors, ReportEntry{Page: page, Kind: d.KindName(), Diagnostic: d})
	}
	report.Success = len(report.Errors) == 0
	return report, nil
}

// HandleCheck validates a site.
// Usage: mooltipage check [--json] [in]
func HandleCheck(args []string) {
	cfg := LoadConfig().applyArgs(args)

	report, err := Check(cfg)
	if err != nil {
		fmt.Printf("❌ Check failed: %v\n", err)
		os.Exit(1)
	}

	if cfg.FormatJSON {
		out, _ := fastjson.MarshalIndent(report, "", "  ")
		fmt.Println(string(out))
		if !report.Success {
			os.Exit(1)
		}
		return
	}

	if !report.Success {
		fmt.Printf("❌ Check Failed (%d of %d pages):\n", len(report.Errors), report.Pages)
		for _, e := range report.Errors {
			fmt.Printf("  - [%s] %s\n", e.Kind, e.Message)
		}
		os.Exit(1)
	}
	fmt.Printf("✅ %d pages valid\n", report.Pages)
}
