// Package pipeline wires one generation run: load packages, read the spec
// file, register types, then schedule and emit every unit.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"

	"github.com/Ftibw/mongo-modelgen/internal/analyze"
	"github.com/Ftibw/mongo-modelgen/internal/diagnostic"
	"github.com/Ftibw/mongo-modelgen/internal/gen"
	"github.com/Ftibw/mongo-modelgen/internal/registry"
	"github.com/Ftibw/mongo-modelgen/internal/schedule"
	"github.com/Ftibw/mongo-modelgen/internal/sink"
	"github.com/Ftibw/mongo-modelgen/internal/spec"
)

// Options configures one run.
type Options struct {
	// Dir is the directory package patterns are resolved against.
	Dir string
	// Patterns are the packages to scan. Defaults to "./...".
	Patterns []string
	// SpecURL locates the spec file: a path or any afs URL. Optional.
	SpecURL string
	// OutURL is the base output location. Defaults to the module root.
	OutURL string

	Generator gen.GeneratorConfig
	Logger    *slog.Logger
	FS        afs.Service
	// Sink overrides the afs sink built from OutURL.
	Sink sink.Sink
}

func (o *Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}

	return o.Logger
}

func (o *Options) fs() afs.Service {
	if o.FS == nil {
		o.FS = afs.New()
	}

	return o.FS
}

// Report is the outcome of a run.
type Report struct {
	Diagnostics *diagnostic.Diagnostics
	Schedule    schedule.Result
	// Dirs are the source directories of the loaded packages, sorted.
	Dirs []string
	// Written lists the URLs the afs sink wrote, in order. It stays empty
	// when Options.Sink is set.
	Written []string
}

// Run loads the packages and the spec file and generates every unit.
func Run(ctx context.Context, opts Options) (*Report, error) {
	patterns := opts.Patterns
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	analyzer := analyze.NewAnalyzer()
	analyzer.Dir = opts.Dir

	graph, err := analyzer.LoadPackages(ctx, patterns...)
	if err != nil {
		return nil, err
	}

	specFile, err := LoadSpec(ctx, opts.fs(), opts.SpecURL)
	if err != nil {
		return nil, err
	}

	return Generate(ctx, graph, specFile, opts)
}

// LoadSpec reads the spec file at location. A blank location yields an
// empty file.
func LoadSpec(ctx context.Context, fs afs.Service, location string) (*spec.File, error) {
	if location == "" {
		return &spec.File{}, nil
	}

	return spec.Load(ctx, fs, url.Normalize(location, file.Scheme))
}

// Generate emits every unit for an already loaded graph.
func Generate(ctx context.Context, graph *analyze.TypeGraph, specFile *spec.File, opts Options) (*Report, error) {
	if specFile == nil {
		specFile = &spec.File{}
	}

	logger := opts.logger()
	diags := spec.Validate(specFile, graph)

	var rec *recorder

	out := opts.Sink
	if out == nil {
		s, err := afsSink(graph, opts)
		if err != nil {
			return nil, err
		}

		rec = &recorder{AFS: s}
		out = rec
	}

	session := registry.NewSession(graph, specFile,
		registry.WithLogger(logger),
		registry.WithDiagnostics(diags))

	generator := gen.NewGenerator(opts.Generator, session, out)
	res, err := schedule.New(session, generator).Run(ctx)

	logger.Debug("generation finished",
		slog.Int("types", len(res.Emitted)),
		slog.Int("rounds", res.Rounds),
		slog.Int("errors", len(diags.Errors)),
		slog.Int("warnings", len(diags.Warnings)))

	report := &Report{Diagnostics: diags, Schedule: res, Dirs: packageDirs(graph)}
	if rec != nil {
		report.Written = rec.written
	}

	return report, err
}

// recorder remembers where units were written so a watcher can tell
// generated files from edited sources.
type recorder struct {
	*sink.AFS
	written []string
}

func (r *recorder) Write(ctx context.Context, unit sink.Unit) error {
	if err := r.AFS.Write(ctx, unit); err != nil {
		return err
	}

	if URL, err := r.URL(unit); err == nil {
		r.written = append(r.written, URL)
	}

	return nil
}

func packageDirs(graph *analyze.TypeGraph) []string {
	seen := map[string]bool{}

	var dirs []string

	for _, pkg := range graph.Packages {
		if pkg.Dir != "" && !seen[pkg.Dir] {
			seen[pkg.Dir] = true
			dirs = append(dirs, pkg.Dir)
		}
	}

	sort.Strings(dirs)

	return dirs
}

func afsSink(graph *analyze.TypeGraph, opts Options) (*sink.AFS, error) {
	modulePath, moduleDir, err := Module(graph)
	if err != nil {
		return nil, err
	}

	base := opts.OutURL
	if base == "" {
		base = moduleDir
	}

	return sink.NewAFS(opts.fs(), url.Normalize(base, file.Scheme), modulePath), nil
}

// Module returns the module every loaded package belongs to.
func Module(graph *analyze.TypeGraph) (path, dir string, err error) {
	modules := map[string]string{}
	for _, pkg := range graph.Packages {
		if pkg.ModulePath != "" {
			modules[pkg.ModulePath] = pkg.ModuleDir
		}
	}

	switch len(modules) {
	case 0:
		return "", "", fmt.Errorf("no module found for the loaded packages")
	case 1:
		for p, d := range modules {
			return p, d, nil
		}
	}

	paths := make([]string, 0, len(modules))
	for p := range modules {
		paths = append(paths, p)
	}

	sort.Strings(paths)

	return "", "", fmt.Errorf("packages span several modules: %v", paths)
}
