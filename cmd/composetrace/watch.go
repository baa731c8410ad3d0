package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"
)

// watch runs the scene at path, then runs it again after every change to
// the file until ctx is done.
func watch(ctx context.Context, w io.Writer, path string) error {
	target, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(err, "resolving scene path")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating file watcher")
	}
	defer watcher.Close()
	// Editors often replace the file instead of writing it, so watch the
	// directory and filter on the name.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return errors.Wrapf(err, "watching %s", filepath.Dir(target))
	}

	changes := make(chan struct{}, 1)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case ev, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				select {
				case changes <- struct{}{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				return errors.Wrap(err, "watching scene")
			}
		}
	})
	g.Go(func() error {
		for {
			if err := runOnce(w, path); err != nil {
				fmt.Fprintf(w, "error: %v\n", err)
			}
			fmt.Fprintf(w, "watching %s for changes\n", path)
			select {
			case <-gctx.Done():
				return nil
			case <-changes:
			}
		}
	})
	if err := g.Wait(); err != nil {
		return err
	}
	return runContextErr(ctx)
}
