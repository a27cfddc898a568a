package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/AtlasPack/internal/model"
)

func TestDefaultInventoryPath(t *testing.T) {
	path := DefaultInventoryPath()
	if filepath.Base(path) != "inventory.json" {
		t.Errorf("expected filename inventory.json, got %s", filepath.Base(path))
	}
	if filepath.Dir(path) != DefaultConfigDir() {
		t.Errorf("expected inventory next to the config, got %s", path)
	}
}

func TestSaveAndLoadInventory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	inv := model.Inventory{Presets: []model.PagePreset{
		model.NewPagePreset("Mobile", 1024, 512),
		model.NewPagePreset("Console", 8192, 8192),
	}}

	if err := SaveInventory(path, inv); err != nil {
		t.Fatalf("SaveInventory failed: %v", err)
	}

	loaded, err := LoadInventory(path)
	if err != nil {
		t.Fatalf("LoadInventory failed: %v", err)
	}
	if len(loaded.Presets) != 2 {
		t.Fatalf("expected 2 presets, got %d", len(loaded.Presets))
	}
	if loaded.Presets[1] != inv.Presets[1] {
		t.Errorf("expected %+v, got %+v", inv.Presets[1], loaded.Presets[1])
	}
}

func TestLoadInventoryCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "inventory.json")

	inv, err := LoadInventory(path)
	if err != nil {
		t.Fatalf("LoadInventory failed: %v", err)
	}
	if len(inv.Presets) != len(model.DefaultInventory().Presets) {
		t.Errorf("expected default presets, got %d", len(inv.Presets))
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected the default inventory to be saved: %v", err)
	}
}

func TestLoadInventoryInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	if err := os.WriteFile(path, []byte("[1, 2"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadInventory(path); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestImportInventory(t *testing.T) {
	dir := t.TempDir()
	existing := model.Inventory{Presets: []model.PagePreset{
		{ID: "a", Name: "Small", Width: 512, Height: 512},
	}}
	imported := model.Inventory{Presets: []model.PagePreset{
		{ID: "a", Name: "Small (renamed)", Width: 256, Height: 256},
		{ID: "b", Name: "Strip", Width: 4096, Height: 256},
		{ID: "b", Name: "Strip copy", Width: 4096, Height: 256},
	}}
	path := filepath.Join(dir, "import.json")
	if err := ExportInventory(path, imported); err != nil {
		t.Fatalf("ExportInventory failed: %v", err)
	}

	merged, err := ImportInventory(path, existing)
	if err != nil {
		t.Fatalf("ImportInventory failed: %v", err)
	}

	if len(merged.Presets) != 2 {
		t.Fatalf("expected 2 presets after merge, got %d", len(merged.Presets))
	}
	if merged.Presets[0].Name != "Small" {
		t.Errorf("expected existing preset to win, got %q", merged.Presets[0].Name)
	}
	if merged.Presets[1].Name != "Strip" {
		t.Errorf("expected first imported duplicate to win, got %q", merged.Presets[1].Name)
	}
	if len(existing.Presets) != 1 {
		t.Errorf("expected existing inventory untouched, got %d presets", len(existing.Presets))
	}
}

func TestImportInventoryMissingFile(t *testing.T) {
	existing := model.DefaultInventory()

	got, err := ImportInventory(filepath.Join(t.TempDir(), "nope.json"), existing)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if len(got.Presets) != len(existing.Presets) {
		t.Errorf("expected existing inventory back, got %d presets", len(got.Presets))
	}
}
