package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/loghaul/lokiship/pkg/log"
)

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("url = \"http://a\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	reloaded := make(chan FileConfig, 4)
	w := NewWatcher(path, log.NewNoop(), func(fc FileConfig) {
		reloaded <- fc
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte("url = \"http://b\"\n"), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	select {
	case fc := <-reloaded:
		if fc.URL != "http://b" {
			t.Fatalf("expected reloaded url http://b, got %q", fc.URL)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("url = \"http://a\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	reloaded := make(chan FileConfig, 4)
	w := NewWatcher(path, log.NewNoop(), func(fc FileConfig) {
		reloaded <- fc
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer w.Stop()

	other := filepath.Join(dir, "other.toml")
	if err := os.WriteFile(other, []byte("url = \"http://c\"\n"), 0o644); err != nil {
		t.Fatalf("write sibling: %v", err)
	}

	select {
	case fc := <-reloaded:
		t.Fatalf("unexpected reload for sibling write: %+v", fc)
	case <-time.After(DefaultDebounceDelay * 4):
	}
}

func TestWatcherStartMissingDir(t *testing.T) {
	w := NewWatcher(filepath.Join(t.TempDir(), "missing", "config.toml"), log.NewNoop(), func(FileConfig) {})
	if err := w.Start(context.Background()); err == nil {
		w.Stop()
		t.Fatal("expected error watching missing directory")
	}
}
