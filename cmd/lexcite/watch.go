package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/fsnotify.v1"

	"github.com/coolbeans/lexcite/pkg/engine"
	"github.com/coolbeans/lexcite/pkg/reporter"
)

// watchDebounce coalesces the burst of events an editor save produces.
const watchDebounce = 150 * time.Millisecond

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Rebuild the table of authorities whenever a document changes",
		Long: `Watch prints the table of authorities for a document and prints it again
each time the file is saved. With tables.watch set in the config, edits to
the reference tables trigger a rebuild as well. Stop with Ctrl-C.

Example:
  lexcite watch brief.txt --style alwd`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			e, err := cfg.NewEngine(logger, nil)
			if err != nil {
				return err
			}
			defer e.Store().StopWatch()

			path := args[0]
			var mu sync.Mutex
			render := func() error {
				mu.Lock()
				defer mu.Unlock()
				text, err := readInput(cmd, []string{path})
				if err != nil {
					return err
				}
				result := e.Process(engine.Document{Text: text})
				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "== %s (%s)\n", path, time.Now().Format(time.TimeOnly))
				fmt.Fprint(w, result.Table.Text())
				if result.Report.Flagged > 0 {
					fmt.Fprintf(w, "%d of %d citations flagged\n", result.Report.Flagged, result.Report.Checked)
				}
				return nil
			}
			if err := render(); err != nil {
				return err
			}

			rerender := func() {
				if err := render(); err != nil {
					logger.Warn("Failed to process document", slog.String("path", path), slog.String("error", err.Error()))
				}
			}
			// Reference table edits change the output too.
			e.Store().SetOnChange(func(*reporter.Table) { rerender() })

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			return watchFile(ctx, path, logger, rerender)
		},
	}
	addInputFlags(cmd)
	return cmd
}

// watchFile calls onChange after each settled change to path until ctx is
// done. The parent directory is watched so that editors which replace the
// file on save are still seen.
func watchFile(ctx context.Context, path string, logger *slog.Logger, onChange func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	logger.Debug("Watching document", slog.String("path", abs))

	var pending <-chan time.Time
	var timer *time.Timer
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			pending = timer.C
		case <-pending:
			pending = nil
			onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error", slog.String("error", err.Error()))
		}
	}
}
