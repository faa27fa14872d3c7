package main

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/viant/afs/url"

	"github.com/Ftibw/mongo-modelgen/internal/pipeline"
)

const settle = 300 * time.Millisecond

// watch reruns the whole generation after sources or the spec file change.
// Files the previous run wrote are ignored so a run never triggers itself.
func watch(ctx context.Context, logger *slog.Logger, c *GenCommand, opts pipeline.Options, report *pipeline.Report) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	state := newWatchState(c)
	state.update(w, logger, report)

	timer := time.NewTimer(settle)
	timer.Stop()

	logger.Info("watching for changes", slog.Int("dirs", len(state.dirs)))

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if state.relevant(ev) {
				logger.Debug("change detected", slog.String("file", ev.Name), slog.String("op", ev.Op.String()))
				timer.Reset(settle)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}

			logger.Warn("watch error", slog.Any("error", err))

		case <-timer.C:
			report, _ = c.generate(ctx, logger, opts)
			state.update(w, logger, report)
		}
	}
}

type watchState struct {
	dirs      map[string]bool
	generated map[string]bool
	spec      string
}

func newWatchState(c *GenCommand) *watchState {
	s := &watchState{dirs: map[string]bool{}, generated: map[string]bool{}}

	if c.Spec != "" && url.Scheme(c.Spec, "file") == "file" {
		if abs, err := filepath.Abs(url.Path(c.Spec)); err == nil {
			s.spec = abs
		}
	}

	if abs, err := filepath.Abs(c.Dir); err == nil {
		s.dirs[abs] = false
	}

	if s.spec != "" {
		s.dirs[filepath.Dir(s.spec)] = false
	}

	return s
}

// update starts watching new package directories and refreshes the set of
// generated files.
func (s *watchState) update(w *fsnotify.Watcher, logger *slog.Logger, report *pipeline.Report) {
	if report != nil {
		for _, dir := range report.Dirs {
			if _, ok := s.dirs[dir]; !ok {
				s.dirs[dir] = false
			}
		}

		clear(s.generated)

		for _, URL := range report.Written {
			s.generated[filepath.Clean(url.Path(URL))] = true
		}
	}

	for dir, watched := range s.dirs {
		if watched {
			continue
		}

		if err := w.Add(dir); err != nil {
			logger.Warn("cannot watch directory", slog.String("dir", dir), slog.Any("error", err))
			continue
		}

		s.dirs[dir] = true
	}
}

func (s *watchState) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}

	name := filepath.Clean(ev.Name)
	if s.generated[name] {
		return false
	}

	if name == s.spec {
		return true
	}

	return filepath.Ext(name) == ".go"
}
