package middleware

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/andybalholm/brotli"
)

var brWriterPool = sync.Pool{
	New: func() interface{} {
		return brotli.NewWriterLevel(nil, brotli.DefaultCompression)
	},
}

// compressible lists the content types the preview server produces.
var compressible = []string{"text/html", "text/css", "text/javascript", "application/javascript", "text/plain"}

type brotliResponseWriter struct {
	http.ResponseWriter
	w           *brotli.Writer
	wroteHeader bool
	compressing bool
}

func (w *brotliResponseWriter) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true

	// Only uncompressed 200 responses with a known text type are compressed.
	if code == http.StatusOK && w.Header().Get("Content-Encoding") == "" && isCompressible(w.Header().Get("Content-Type")) {
		w.compressing = true
		w.Header().Del("Content-Length")
		w.Header().Set("Content-Encoding", "br")
		w.Header().Add("Vary", "Accept-Encoding")
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *brotliResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", http.DetectContentType(b))
		}
		w.WriteHeader(http.StatusOK)
	}
	if !w.compressing {
		return w.ResponseWriter.Write(b)
	}
	return w.w.Write(b)
}

func (w *brotliResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hj, ok := w.ResponseWriter.(http.Hijacker); ok {
		return hj.Hijack()
	}
	return nil, nil, fmt.Errorf("brotliResponseWriter: underlying ResponseWriter does not support Hijacker")
}

func (w *brotliResponseWriter) Flush() {
	if w.compressing {
		w.w.Flush()
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func isCompressible(contentType string) bool {
	ct := strings.ToLower(contentType)
	for _, prefix := range compressible {
		if strings.HasPrefix(ct, prefix) {
			return true
		}
	}
	return false
}

// Brotli compresses compiled pages and linked resources for clients that accept br.
func Brotli(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "br") || w.Header().Get("Content-Encoding") != "" {
			next.ServeHTTP(w, r)
			return
		}

		bw := brWriterPool.Get().(*brotli.Writer)
		defer brWriterPool.Put(bw)
		bw.Reset(w)

		brw := &brotliResponseWriter{ResponseWriter: w, w: bw}
		defer func() {
			if brw.compressing {
				bw.Close()
			}
		}()
		next.ServeHTTP(brw, r)
	})
}
