package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/standardbeagle/lsc/internal/debug"
)

const watchDebounce = 300 * time.Millisecond

// watchAndClassify runs the job once, then re-runs it whenever the input
// directory or the vocabulary file change. Events are debounced so a burst
// of writes (editors, file copies) triggers one run, not dozens.
func watchAndClassify(ctx context.Context, job *classifyJob) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory containing the input glob and the vocabulary
	// file's directory; watching files directly breaks on atomic saves.
	inputDir := filepath.Dir(job.inputGlob)
	if err := watcher.Add(inputDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", inputDir, err)
	}
	vocabDir := filepath.Dir(job.vocabPath)
	if vocabDir != inputDir {
		if err := watcher.Add(vocabDir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", vocabDir, err)
		}
	}

	if err := job.run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "classification failed: %v\n", err)
	}
	fmt.Println("Watching for changes (Ctrl+C to stop)...")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	d := &debouncedRunner{debounce: watchDebounce}
	runCh := make(chan struct{}, 1)
	d.notify = func() {
		select {
		case runCh <- struct{}{}:
		default:
		}
	}
	defer d.stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-sigCh:
			fmt.Println("\nStopping watch mode")
			return nil
		case <-runCh:
			if err := job.run(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "classification failed: %v\n", err)
			}
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevantEvent(event, job) {
				continue
			}
			debug.LogBatch("watch event: %s\n", event)
			d.schedule()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}

// relevantEvent filters out events that cannot affect the job: output files
// the job itself writes, and unrelated files in watched directories.
func relevantEvent(event fsnotify.Event, job *classifyJob) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}

	name := filepath.Clean(event.Name)
	if name == filepath.Clean(job.vocabPath) {
		return true
	}

	base := filepath.Base(name)
	if job.output != "" && base == filepath.Base(job.output) {
		return false
	}
	if strings.Contains(base, ".classified.") {
		return false
	}

	matched, err := filepath.Match(filepath.Base(job.inputGlob), base)
	return err == nil && matched
}

// debouncedRunner coalesces bursts of schedule calls into one notify after
// a quiet period.
type debouncedRunner struct {
	debounce time.Duration
	notify   func()

	mu    sync.Mutex
	timer *time.Timer
}

func (d *debouncedRunner) schedule() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.debounce, d.notify)
}

func (d *debouncedRunner) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
}
