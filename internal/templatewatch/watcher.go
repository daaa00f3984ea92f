// Package templatewatch reloads page templates when their files change on
// disk. Editors often write a file several times per save, so reloads are
// debounced.
package templatewatch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/goliatone/go-bfhl/pkg/render/template"
)

const defaultDebounce = 100 * time.Millisecond

type Option func(*Watcher)

func WithLogger(logger *zap.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithExtension limits reloads to files with ext. The default is ".tpl".
func WithExtension(ext string) Option {
	return func(w *Watcher) {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			return
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		w.ext = ext
	}
}

// WithOnReload registers fn to run after every reload with the last path
// that triggered it.
func WithOnReload(fn func(path string)) Option {
	return func(w *Watcher) {
		w.onReload = fn
	}
}

// Watcher calls Reload on a renderer after template files in dir change.
type Watcher struct {
	dir      string
	reloader template.Reloader
	logger   *zap.Logger
	debounce time.Duration
	ext      string
	onReload func(string)
}

func New(dir string, reloader template.Reloader, opts ...Option) *Watcher {
	w := &Watcher{
		dir:      dir,
		reloader: reloader,
		logger:   zap.NewNop(),
		debounce: defaultDebounce,
		ext:      ".tpl",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w
}

// Run watches until ctx is done. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	if w.reloader == nil {
		return errors.New("templatewatch: reloader is required")
	}
	dir, err := filepath.Abs(w.dir)
	if err != nil {
		return fmt.Errorf("templatewatch: resolve %s: %w", w.dir, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("templatewatch: create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("templatewatch: watch %s: %w", dir, err)
	}
	w.logger.Info("templatewatch: watching templates", zap.String("dir", dir))

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	var last string
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			last = event.Name
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("templatewatch: watcher error", zap.Error(err))

		case <-timer.C:
			w.reloader.Reload()
			w.logger.Info("templatewatch: templates reloaded", zap.String("path", last))
			if w.onReload != nil {
				w.onReload(last)
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !strings.EqualFold(filepath.Ext(event.Name), w.ext) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}
