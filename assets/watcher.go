package assets

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads shader sources when files under shaders/ change and reports
// the changed shader names on Changes. The frame loop drains Changes and
// invalidates its programs, so the engine is never touched from the watcher
// goroutine.
type Watcher struct {
	lib     *Library
	watcher *fsnotify.Watcher
	changes chan string
	logger  *zap.Logger
}

// Watch starts watching the library's shader directory. It requires a library
// created with Open.
func (l *Library) Watch() (*Watcher, error) {
	if l.root == "" {
		return nil, errors.New("watching requires a library opened on a directory")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Join(l.root, shaderDir)); err != nil {
		fw.Close()
		return nil, err
	}

	return &Watcher{
		lib:     l,
		watcher: fw,
		changes: make(chan string, 16),
		logger:  l.logger.Named("watcher"),
	}, nil
}

// Changes delivers the names of reloaded shaders.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Run processes file events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			name, ok := shaderName(event.Name)
			if !ok {
				continue
			}
			w.reload(ctx, name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("File watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload(ctx context.Context, name string) {
	if _, err := w.lib.LoadShader(name); err != nil {
		w.logger.Warn("Shader reload failed", zap.String("shader", name), zap.Error(err))
		return
	}

	select {
	case w.changes <- name:
	case <-ctx.Done():
	}
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func shaderName(file string) (string, bool) {
	ext := filepath.Ext(file)
	switch ext {
	case ".vert", ".frag", ".kage":
		return strings.TrimSuffix(filepath.Base(file), ext), true
	}
	return "", false
}
