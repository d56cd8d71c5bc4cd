// Package assets serves static files from a local directory.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/JakeFAU/dealsite-ssr/internal/metrics"
)

// CacheControl is sent with every asset.
const CacheControl = "public, max-age=31536000, immutable"

// ErrNotFound is returned for missing files, directories and paths outside the root.
var ErrNotFound = errors.New("asset not found")

var contentTypes = map[string]string{
	".css":         "text/css; charset=utf-8",
	".js":          "text/javascript; charset=utf-8",
	".mjs":         "text/javascript; charset=utf-8",
	".map":         "application/json",
	".json":        "application/json",
	".webmanifest": "application/manifest+json",
	".html":        "text/html; charset=utf-8",
	".txt":         "text/plain; charset=utf-8",
	".xml":         "application/xml",
	".svg":         "image/svg+xml",
	".png":         "image/png",
	".jpg":         "image/jpeg",
	".jpeg":        "image/jpeg",
	".gif":         "image/gif",
	".webp":        "image/webp",
	".avif":        "image/avif",
	".ico":         "image/x-icon",
	".woff":        "font/woff",
	".woff2":       "font/woff2",
	".ttf":         "font/ttf",
}

// Store resolves request paths to files under a root directory.
type Store struct {
	root string
}

// New creates a Store over root, which must be an existing directory.
func New(root string) (*Store, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("asset root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve asset root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat asset root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("asset root %q is not a directory", root)
	}
	return &Store{root: abs}, nil
}

// Asset is an opened static file. Callers must close File.
type Asset struct {
	File        *os.File
	Info        fs.FileInfo
	ContentType string
}

// Open resolves name, a slash-separated path relative to the root.
func (s *Store) Open(name string) (Asset, error) {
	clean := path.Clean("/" + name)
	full := filepath.Join(s.root, filepath.FromSlash(clean))
	if full != s.root && !strings.HasPrefix(full, s.root+string(filepath.Separator)) {
		return Asset{}, ErrNotFound
	}

	f, err := os.Open(full) //nolint:gosec // confined to root above
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return Asset{}, ErrNotFound
		}
		return Asset{}, fmt.Errorf("open asset: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return Asset{}, fmt.Errorf("stat asset: %w", err)
	}
	if !info.Mode().IsRegular() {
		_ = f.Close()
		return Asset{}, ErrNotFound
	}
	return Asset{File: f, Info: info, ContentType: ContentType(full)}, nil
}

// ContentType maps a file name to its media type: the fixed table first, then the system
// registry, then application/octet-stream.
func ContentType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// Serve writes the asset at name, or a plain 404.
func (s *Store) Serve(w http.ResponseWriter, r *http.Request, name string) {
	asset, err := s.Open(name)
	if err != nil {
		metrics.ObserveAsset("not_found")
		http.NotFound(w, r)
		return
	}
	defer asset.File.Close() //nolint:errcheck // read-only file

	metrics.ObserveAsset("served")
	w.Header().Set("Content-Type", asset.ContentType)
	w.Header().Set("Cache-Control", CacheControl)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	http.ServeContent(w, r, asset.Info.Name(), asset.Info.ModTime(), asset.File)
}
