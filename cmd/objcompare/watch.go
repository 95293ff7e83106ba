package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/craigbuckler/objcompare"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch OLD NEW",
		Short: "Re-compare two documents whenever either file changes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			r := objcompare.NewTextRenderer(cmd.OutOrStdout(),
				objcompare.OptionColor(useColor(cfg, os.Stdout)),
				objcompare.OptionClearScreen(cfg.UI.ClearScreen),
			)
			opts := append(controllerOptions(cfg, logger), objcompare.OptionSideNames(args[0], args[1]))
			c := objcompare.NewController(r, opts...)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w, err := newFileWatcher(c, args[0], args[1], logger)
			if err != nil {
				return err
			}
			defer w.Close()
			return w.Run(ctx)
		},
	}
}

// fileWatcher feeds file changes to a controller, one side per file
type fileWatcher struct {
	c       *objcompare.Controller
	watcher *fsnotify.Watcher
	files   [2]string
	paths   map[string][]objcompare.Side
	log     *slog.Logger
}

func newFileWatcher(c *objcompare.Controller, oldPath, newPath string, logger *slog.Logger) (*fileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	fw := &fileWatcher{
		c:       c,
		watcher: w,
		paths:   map[string][]objcompare.Side{},
		log:     logger,
	}

	// directories are watched rather than files so that editors which save
	// by renaming a temp file over the original keep being tracked
	for side, path := range []string{oldPath, newPath} {
		abs, err := filepath.Abs(path)
		if err != nil {
			w.Close()
			return nil, err
		}
		fw.files[side] = abs
		fw.paths[abs] = append(fw.paths[abs], objcompare.Side(side))
		if err := w.Add(filepath.Dir(abs)); err != nil {
			w.Close()
			return nil, fmt.Errorf("watching %s: %w", path, err)
		}
	}
	return fw, nil
}

// Run loads both files, then re-loads whichever file changes until ctx is
// done
func (fw *fileWatcher) Run(ctx context.Context) error {
	for side, path := range fw.files {
		fw.load(path, objcompare.Side(side))
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			sides, watched := fw.paths[ev.Name]
			if !watched || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) {
				continue
			}
			fw.log.Debug("file event", "path", ev.Name, "op", ev.Op.String())
			for _, side := range sides {
				fw.load(ev.Name, side)
			}
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			fw.log.Warn("watch error", "err", err)
		}
	}
}

// load reads path and enters its text for side. unreadable files are
// entered as empty, which surfaces as an empty-input error row
func (fw *fileWatcher) load(path string, side objcompare.Side) {
	data, err := os.ReadFile(path)
	if err != nil {
		fw.log.Warn("reading file", "path", path, "err", err)
	}
	fw.c.Update(side, string(data))
}

// Close stops watching
func (fw *fileWatcher) Close() error {
	return fw.watcher.Close()
}
