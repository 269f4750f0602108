package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteDefault(t *testing.T) {
	dir := isolate(t)
	path := DefaultPath()
	if path != filepath.Join(dir, FileName) {
		t.Fatalf("DefaultPath() = %q, want under %q", path, dir)
	}

	created, err := WriteDefault(path)
	if err != nil {
		t.Fatalf("WriteDefault() error: %v", err)
	}
	if !created {
		t.Fatal("WriteDefault() created = false on first call")
	}

	Init()
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want := Default()
	if cfg.Version != want.Version || cfg.Backup != want.Backup ||
		cfg.History != want.History || cfg.Watch != want.Watch || len(cfg.Tools) != 0 {
		t.Errorf("template config = %+v, want defaults %+v", cfg, want)
	}
}

func TestWriteDefault_KeepsExisting(t *testing.T) {
	dir := isolate(t)
	path := writeConfig(t, dir, "backup:\n  retention: 2\n")

	created, err := WriteDefault(path)
	if err != nil {
		t.Fatalf("WriteDefault() error: %v", err)
	}
	if created {
		t.Error("WriteDefault() overwrote an existing file")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "backup:\n  retention: 2\n" {
		t.Errorf("file changed to %q", data)
	}
}
