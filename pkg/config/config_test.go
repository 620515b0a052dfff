package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.TasksDir != "" {
		t.Errorf("Expected empty TasksDir, got %q", cfg.TasksDir)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := Save(&Config{TasksDir: "/home/me/notes"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.TasksDir != "/home/me/notes" {
		t.Errorf("Expected /home/me/notes, got %q", cfg.TasksDir)
	}
}

func TestLoadToleratesCommentsAndTrailingCommas(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "yarmtl")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	content := "{\n  // where the task list lives\n  \"tasks_dir\": \"/home/me/notes\",\n}\n"
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.TasksDir != "/home/me/notes" {
		t.Errorf("Expected /home/me/notes, got %q", cfg.TasksDir)
	}
}

func TestWorkDirPaths(t *testing.T) {
	if got := TasksFile("/tmp/w"); got != "/tmp/w/tasks.md" {
		t.Errorf("TasksFile: got %q", got)
	}
	if got := IndexFile("/tmp/w"); got != "/tmp/w/.sync_metadata.json" {
		t.Errorf("IndexFile: got %q", got)
	}
}
