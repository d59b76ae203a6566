package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/Rajiv714/FinBot/internal/logger"
)

// watchDebounce coalesces rapid write events for the same file.
const watchDebounce = 500 * time.Millisecond

var ingestWatch bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [dir]",
	Short: "Index documents from a directory into the knowledge base",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureServices(); err != nil {
			return err
		}

		dir := cfg.Documents.Dir
		if len(args) > 0 {
			dir = args[0]
		}
		if dir == "" {
			return fmt.Errorf("no documents directory given and none configured")
		}

		report, err := ingestService.IngestDirectory(cmd.Context(), dir)
		if err != nil {
			return fmt.Errorf("ingesting %s: %w", dir, err)
		}
		cmd.Printf("Ingested %d documents (%d chunks)\n", report.DocumentsProcessed, report.ChunksCreated)

		if ingestWatch {
			return watchDirectory(cmd, dir)
		}
		return nil
	},
}

func init() {
	ingestCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false, "keep watching the directory and re-index changed files")
	rootCmd.AddCommand(ingestCmd)
}

// watchDirectory re-ingests files as they are created or modified.
// Blocks until interrupted.
func watchDirectory(cmd *cobra.Command, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	cmd.Printf("Watching %s for changes (Ctrl-C to stop)\n", dir)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(watchDebounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			info, err := os.Stat(event.Name)
			if err != nil {
				continue
			}
			if info.IsDir() {
				if event.Op&fsnotify.Create != 0 {
					_ = watcher.Add(event.Name)
				}
				continue
			}
			pending[event.Name] = time.Now()

		case <-ticker.C:
			for path, seen := range pending {
				if time.Since(seen) < watchDebounce {
					continue
				}
				delete(pending, path)
				report, err := ingestService.IngestDirectory(cmd.Context(), path)
				if err != nil {
					logger.Warn("Re-ingest of %s failed: %v", path, err)
					continue
				}
				if report.DocumentsProcessed > 0 {
					cmd.Printf("Re-ingested %s (%d chunks)\n", filepath.Base(path), report.ChunksCreated)
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)

		case <-stop:
			cmd.Println("Stopping watcher")
			return nil
		}
	}
}
