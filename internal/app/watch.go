package app

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"ripples/internal/sims/ripples"
)

// Watcher reloads a ripples config file whenever it changes on disk and hands
// the parsed result to the main loop. Only the newest pending config is kept.
type Watcher struct {
	path    string
	fsw     *fsnotify.Watcher
	updates chan ripples.Config
	errs    chan error
	done    chan struct{}
}

// Watch starts watching path. The parent directory is watched so editors that
// replace the file on save are still noticed.
func Watch(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	w := &Watcher{
		path:    abs,
		fsw:     fsw,
		updates: make(chan ripples.Config, 1),
		errs:    make(chan error, 1),
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Updates delivers reloaded configs.
func (w *Watcher) Updates() <-chan ripples.Config { return w.updates }

// Errors delivers reload failures; unread errors are dropped.
func (w *Watcher) Errors() <-chan error { return w.errs }

// Close stops watching and waits for the reload goroutine to exit.
func (w *Watcher) Close() error {
	err := w.fsw.Close()
	<-w.done
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			cfg, err := ripples.LoadFile(w.path)
			if err != nil {
				w.report(err)
				continue
			}
			w.publish(cfg)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.report(err)
		}
	}
}

func (w *Watcher) publish(cfg ripples.Config) {
	select {
	case w.updates <- cfg:
		return
	default:
	}
	select {
	case <-w.updates:
	default:
	}
	w.updates <- cfg
}

func (w *Watcher) report(err error) {
	select {
	case w.errs <- err:
	default:
	}
}
