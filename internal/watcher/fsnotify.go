// Package watcher reports changes to the files of a directory.
package watcher

import (
	"context"
	"io"
	"log/slog"

	"github.com/fsnotify/fsnotify"

	"filechat/internal/loader"
)

// Operation is the kind of file change.
type Operation int

const (
	FileCreated Operation = iota
	FileModified
	FileDeleted
)

func (o Operation) String() string {
	switch o {
	case FileCreated:
		return "created"
	case FileModified:
		return "modified"
	default:
		return "deleted"
	}
}

// Event is a change to one watched file.
type Event struct {
	Path      string
	Operation Operation
}

// Watcher watches a single directory for files with given extensions.
type Watcher struct {
	watcher    *fsnotify.Watcher
	extensions []string
	logger     *slog.Logger
}

// DefaultExtensions are watched when none are given.
var DefaultExtensions = []string{".txt", ".md", ".pdf", ".docx"}

func New(extensions []string, logger *slog.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Watcher{watcher: w, extensions: extensions, logger: logger}, nil
}

// Watch emits an Event for every create, write, remove or rename of a
// matching file in dir until ctx is done or Stop is called.
func (w *Watcher) Watch(ctx context.Context, dir string) (<-chan Event, error) {
	if err := w.watcher.Add(dir); err != nil {
		return nil, err
	}
	events := make(chan Event, 100)
	go func() {
		defer close(events)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if !loader.HasExtension(ev.Name, w.extensions) {
					continue
				}
				var op Operation
				switch {
				case ev.Has(fsnotify.Create):
					op = FileCreated
				case ev.Has(fsnotify.Write):
					op = FileModified
				case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
					op = FileDeleted
				default:
					continue
				}
				select {
				case events <- Event{Path: ev.Name, Operation: op}:
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.logger.Warn("watch error", "dir", dir, "error", err)
			}
		}
	}()
	return events, nil
}

// Stop releases the underlying watcher and closes the event channel.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}
