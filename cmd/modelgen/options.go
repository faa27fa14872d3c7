package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"

	"github.com/Ftibw/mongo-modelgen/internal/gen"
	"github.com/Ftibw/mongo-modelgen/internal/pipeline"
)

// errDiagnostics is returned when a run reported errors. They are logged
// already, so the parser has nothing to add.
var errDiagnostics = errors.New("generation reported errors")

// Options are the top-level commands.
type Options struct {
	Gen *GenCommand `command:"gen" description:"generate metamodels and projections"`
}

// GenCommand runs the generator.
type GenCommand struct {
	Dir      string   `short:"C" long:"dir" env:"MODELGEN_DIR" description:"directory package patterns are resolved against" default:"."`
	Packages []string `short:"p" long:"pkg" env:"MODELGEN_PKG" env-delim:"," description:"package patterns to scan" default:"./..."`
	Spec     string   `short:"s" long:"spec" env:"MODELGEN_SPEC" description:"spec file path or URL"`
	Out      string   `short:"o" long:"out" env:"MODELGEN_OUT" description:"output base URL, the module root when empty"`
	Debug    bool     `short:"d" long:"debug" env:"MODELGEN_DEBUG" description:"log every unit and keep unformatted sources of failed units"`
	Date     bool     `long:"date" env:"MODELGEN_DATE" description:"add the generation date to generated markers"`
	NoMarker bool     `long:"no-marker" description:"leave the generated marker off metamodel units"`
	Watch    bool     `short:"w" long:"watch" description:"regenerate when sources or the spec file change"`
}

func (c *GenCommand) logger() *slog.Logger {
	level := slog.LevelInfo
	if c.Debug {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func (c *GenCommand) pipelineOptions(logger *slog.Logger) pipeline.Options {
	cfg := gen.DefaultGeneratorConfig()
	cfg.AddGeneratedMarker = !c.NoMarker
	cfg.AddGenerationDate = c.Date
	cfg.Debug = c.Debug

	return pipeline.Options{
		Dir:       c.Dir,
		Patterns:  c.Packages,
		SpecURL:   c.Spec,
		OutURL:    c.Out,
		Generator: cfg,
		Logger:    logger,
	}
}

// Execute implements flags.Commander.
func (c *GenCommand) Execute([]string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := c.logger()
	opts := c.pipelineOptions(logger)

	report, err := c.generate(ctx, logger, opts)
	if err != nil && !c.Watch {
		return err
	}

	if c.Watch {
		return watch(ctx, logger, c, opts, report)
	}

	return nil
}

func (c *GenCommand) generate(ctx context.Context, logger *slog.Logger, opts pipeline.Options) (*pipeline.Report, error) {
	report, err := pipeline.Run(ctx, opts)
	if err != nil {
		logger.Error("generation failed", slog.Any("error", err))
		return nil, err
	}

	report.Diagnostics.Log(ctx, logger)

	logger.Info("generation finished",
		slog.Int("types", len(report.Schedule.Emitted)),
		slog.Int("errors", len(report.Diagnostics.Errors)),
		slog.Int("warnings", len(report.Diagnostics.Warnings)))

	if report.Diagnostics.HasErrors() {
		return report, errDiagnostics
	}

	return report, nil
}
