package index

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFile(t *testing.T) {
	idx, err := Load(filepath.Join(t.TempDir(), ".sync_metadata.json"))
	if err != nil {
		t.Fatalf("Load of missing file failed: %v", err)
	}
	if len(idx.Mappings) != 0 {
		t.Errorf("Expected empty index, got %d mappings", len(idx.Mappings))
	}
}

func TestLoadCorruptFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".sync_metadata.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Expected an error for corrupt content, got nil")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".sync_metadata.json")
	idx, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	entry := Entry{
		TodoistID:    "todoist123",
		LastModified: time.Now().UTC().Truncate(time.Second),
		LastSyncHash: "hash123",
	}
	idx.SetMapping("yarmtl123", entry)
	if err := idx.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	got, ok := reloaded.Mappings["yarmtl123"]
	if !ok {
		t.Fatal("Mapping missing after reload")
	}
	if got.TodoistID != entry.TodoistID || got.LastSyncHash != entry.LastSyncHash {
		t.Errorf("Entry changed across round trip: %+v != %+v", got, entry)
	}
}

func TestSaveIsNoopWhenClean(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".sync_metadata.json")
	idx, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := idx.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Expected no file to be written for a clean index")
	}
}

func TestLookups(t *testing.T) {
	idx, _ := Load(filepath.Join(t.TempDir(), "idx.json"))
	idx.SetMapping("local1", Entry{TodoistID: "remote1", LastSyncHash: "h1"})

	if got, ok := idx.TodoistID("local1"); !ok || got != "remote1" {
		t.Errorf("TodoistID: got %q, %v", got, ok)
	}
	if got, ok := idx.LocalID("remote1"); !ok || got != "local1" {
		t.Errorf("LocalID: got %q, %v", got, ok)
	}
	if got, ok := idx.Hash("local1"); !ok || got != "h1" {
		t.Errorf("Hash: got %q, %v", got, ok)
	}
	if _, ok := idx.TodoistID("missing"); ok {
		t.Error("Expected no mapping for unknown local ID")
	}
}

func TestSetMappingRepairsBijection(t *testing.T) {
	idx, _ := Load(filepath.Join(t.TempDir(), "idx.json"))
	idx.SetMapping("local1", Entry{TodoistID: "remote1"})
	idx.SetMapping("local2", Entry{TodoistID: "remote1"})

	if _, ok := idx.Mappings["local1"]; ok {
		t.Error("Stale entry sharing the remote ID should have been removed")
	}
	if got, ok := idx.LocalID("remote1"); !ok || got != "local2" {
		t.Errorf("Expected remote1 to map to local2, got %q", got)
	}
}

func TestRemoveMappings(t *testing.T) {
	idx, _ := Load(filepath.Join(t.TempDir(), "idx.json"))
	idx.SetMapping("local1", Entry{TodoistID: "remote1"})
	idx.SetMapping("local2", Entry{TodoistID: "remote2"})

	idx.RemoveMapping("local1")
	if _, ok := idx.TodoistID("local1"); ok {
		t.Error("local1 still mapped after RemoveMapping")
	}

	idx.RemoveByTodoistID("remote2")
	if _, ok := idx.LocalID("remote2"); ok {
		t.Error("remote2 still mapped after RemoveByTodoistID")
	}
}
