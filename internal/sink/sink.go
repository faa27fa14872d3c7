// Package sink persists rendered units.
package sink

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"

	"github.com/Ftibw/mongo-modelgen/internal/diagnostic"
)

// Unit is one rendered source file.
type Unit struct {
	QualifiedName string // qualified name of the generated type
	PkgPath       string // import path of the generated package
	Filename      string // base file name
	Content       []byte
}

// Sink accepts rendered units.
type Sink interface {
	Write(ctx context.Context, unit Unit) error
}

// AFS writes units below a base URL, mirroring the package layout of the
// module: a unit of package modulePath/a/b lands in baseURL/a/b.
type AFS struct {
	fs         afs.Service
	baseURL    string
	modulePath string
}

// NewAFS creates an afs-backed sink.
func NewAFS(fs afs.Service, baseURL, modulePath string) *AFS {
	if fs == nil {
		fs = afs.New()
	}

	return &AFS{fs: fs, baseURL: baseURL, modulePath: modulePath}
}

// URL returns the location a unit is written to.
func (s *AFS) URL(unit Unit) (string, error) {
	rel, ok := strings.CutPrefix(unit.PkgPath, s.modulePath)
	if !ok || (rel != "" && !strings.HasPrefix(rel, "/")) {
		return "", fmt.Errorf("package %s is outside module %s", unit.PkgPath, s.modulePath)
	}

	rel = strings.TrimPrefix(rel, "/")
	if rel == "" {
		return url.Join(s.baseURL, unit.Filename), nil
	}

	return url.Join(s.baseURL, rel, unit.Filename), nil
}

// Write uploads the unit.
func (s *AFS) Write(ctx context.Context, unit Unit) error {
	URL, err := s.URL(unit)
	if err != nil {
		return diagnostic.NewUnitError(unit.QualifiedName, diagnostic.CodeSinkWriteFailed,
			fmt.Errorf("%w: %w", diagnostic.ErrSinkWrite, err))
	}

	if err := s.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(unit.Content)); err != nil {
		return diagnostic.NewUnitError(unit.QualifiedName, diagnostic.CodeSinkWriteFailed,
			fmt.Errorf("%w: upload %s: %w", diagnostic.ErrSinkWrite, URL, err))
	}

	return nil
}

// Collector keeps units in memory.
type Collector struct {
	mu    sync.Mutex
	Units []Unit
}

// Write records the unit.
func (c *Collector) Write(_ context.Context, unit Unit) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Units = append(c.Units, unit)

	return nil
}

// Get returns the unit written under filename in package pkgPath.
func (c *Collector) Get(pkgPath, filename string) (Unit, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, u := range c.Units {
		if u.PkgPath == pkgPath && u.Filename == filename {
			return u, true
		}
	}

	return Unit{}, false
}

// Filenames returns the written file names in write order.
func (c *Collector) Filenames() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, 0, len(c.Units))
	for _, u := range c.Units {
		out = append(out, u.Filename)
	}

	return out
}

// Func adapts a function to Sink.
type Func func(ctx context.Context, unit Unit) error

// Write calls f.
func (f Func) Write(ctx context.Context, unit Unit) error {
	return f(ctx, unit)
}
