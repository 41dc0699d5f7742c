package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"mooltipage/pkg/engine"
	"mooltipage/pkg/logger"
	"mooltipage/pkg/metrics"
	"mooltipage/pkg/middleware"
	"mooltipage/pkg/pipeline"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const compileRequestsPerMinute = 300

// previewInterface reads sources from disk and keeps every output in memory.
type previewInterface struct {
	src *pipeline.FilesystemInterface
	out *pipeline.MemoryInterface
}

func (p *previewInterface) GetResource(mime engine.MimeType, resPath string) (string, error) {
	return p.src.GetResource(mime, resPath)
}

func (p *previewInterface) WriteResource(mime engine.MimeType, resPath string, content string) error {
	return p.out.WriteResource(mime, resPath, content)
}

// Preview compiles pages on request. Sources are re-read for every page so
// edits show up on reload.
type Preview struct {
	mu       sync.Mutex
	pipeline *pipeline.Pipeline
	outputs  *pipeline.MemoryInterface
}

func NewPreview(inRoot string) *Preview {
	iface := &previewInterface{
		src: pipeline.NewFilesystemInterface(inRoot, ""),
		out: pipeline.NewMemoryInterface(nil),
	}
	return &Preview{
		pipeline: pipeline.New(iface, pipeline.WithLinkBase("/")),
		outputs:  iface.out,
	}
}

// Router mounts the preview handlers and /metrics.
func (pv *Preview) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(middleware.Brotli)

	r.Handle("/metrics", promhttp.Handler())

	// Linked resources may be pulled from pages served on another origin.
	r.With(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodHead},
		MaxAge:         300,
	})).Get("/resources/*", pv.serveResource)

	// Every page request is a full compile.
	r.With(httprate.LimitByIP(compileRequestsPerMinute, time.Minute)).Get("/*", pv.servePage)
	return r
}

func (pv *Preview) servePage(w http.ResponseWriter, r *http.Request) {
	resPath := strings.TrimPrefix(path.Clean("/"+chi.URLParam(r, "*")), "/")
	if resPath == "" || strings.HasSuffix(r.URL.Path, "/") {
		resPath = path.Join(resPath, "index.html")
	}
	if path.Ext(resPath) == "" {
		resPath += ".html"
	}
	if strings.HasPrefix(resPath, "_") || strings.Contains(resPath, "/_") {
		http.NotFound(w, r)
		return
	}

	pv.mu.Lock()
	defer pv.mu.Unlock()
	pv.pipeline.Reset()
	if _, err := pv.pipeline.GetRawText(resPath, engine.MimeHTML); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	html, err := pv.pipeline.CompilePage(resPath)
	if err != nil {
		slog.Error("❌ Compile failed", "path", resPath, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, html)
}

func (pv *Preview) serveResource(w http.ResponseWriter, r *http.Request) {
	resPath := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
	content, ok := pv.outputs.Output(resPath)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if ct := mime.TypeByExtension(path.Ext(resPath)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	fmt.Fprint(w, content)
}

// HandleServe starts the preview server.
// Usage: mooltipage serve [in]
func HandleServe(args []string) {
	cfg := LoadConfig().applyArgs(args)
	logger.Setup(cfg.Env)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           NewPreview(cfg.InRoot).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	slog.Info("🌐 Preview server listening", "addr", cfg.Addr, "root", cfg.InRoot)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("❌ Server stopped", "error", err)
		os.Exit(1)
	}
}
