package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"contentcore/internal/store"
)

// importDir replaces the whole content state from per-collection seed files
// (blog.json, projects.json, ...). Files that fail to decode reset their
// bucket to empty and are reported, matching snapshot load semantics.
func (a *app) importDir(ctx context.Context, dir string) error {
	snapshot := store.Snapshot{}
	found := 0
	for _, d := range a.svc.Store().Catalog().Descriptors() {
		path := filepath.Join(dir, d.Bucket()+".json")
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return err
		}
		snapshot[d.Bucket()] = json.RawMessage(data)
		found++
	}
	if found == 0 {
		return fmt.Errorf("no seed files found in %s", dir)
	}

	prior := a.svc.Store().ExportState()
	skipped := a.svc.Store().ImportState(snapshot)
	for _, bucket := range skipped {
		a.logger.Warnw("seed file malformed, bucket reset", "bucket", bucket)
	}

	// An empty transaction pushes the imported state through the durable
	// driver's snapshot path; it also runs the rules engine over the seeds.
	// On failure the previous state comes back, so memory never diverges
	// from the durable snapshot.
	if _, err := a.svc.Store().RunInTransaction(ctx, func(*store.Tx) error { return nil }); err != nil {
		a.svc.Store().ImportState(prior)
		return fmt.Errorf("persist imported state: %w", err)
	}
	a.logger.Infow("import complete", "dir", dir, "buckets", found, "skipped", len(skipped))
	return nil
}

func newImportCommand(a *app) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "import <dir>",
		Short: "Replace content state from per-collection JSON seed files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			if err := a.importDir(cmd.Context(), dir); err != nil {
				return err
			}
			if !watch {
				return nil
			}
			return a.watchDir(cmd.Context(), dir)
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "keep watching the directory and re-import on change")
	return cmd
}

// watchDir re-imports on filesystem events, debounced so editors that write
// in bursts trigger one import.
func (a *app) watchDir(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.logger.Infow("watching for seed changes", "dir", dir)
	var timer *time.Timer
	pending := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if filepath.Ext(event.Name) != ".json" {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(250*time.Millisecond, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Warnw("watch error", "error", err)
		case <-pending:
			if err := a.importDir(ctx, dir); err != nil {
				a.logger.Warnw("re-import failed", "error", err)
			}
		}
	}
}

func newExportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <dir>",
		Short: "Write every collection to a per-collection JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			snapshot := a.svc.Store().ExportState()
			written := 0
			for _, d := range a.svc.Store().Catalog().Descriptors() {
				payload, ok := snapshot[d.Bucket()]
				if !ok {
					continue
				}
				var pretty bytes.Buffer
				if err := json.Indent(&pretty, payload, "", "  "); err != nil {
					return fmt.Errorf("format %s: %w", d.Bucket(), err)
				}
				pretty.WriteByte('\n')
				path := filepath.Join(dir, d.Bucket()+".json")
				if err := os.WriteFile(path, pretty.Bytes(), 0o644); err != nil {
					return err
				}
				written++
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d collection(s) to %s\n", written, dir)
			return nil
		},
	}
}
