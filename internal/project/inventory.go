package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/AtlasPack/internal/model"
)

// DefaultInventoryPath returns ~/.atlaspack/inventory.json.
func DefaultInventoryPath() string {
	return filepath.Join(DefaultConfigDir(), "inventory.json")
}

// SaveInventory writes the preset inventory to path as JSON.
func SaveInventory(path string, inv model.Inventory) error {
	data, err := json.MarshalIndent(inv, "", "  ")
	if err != nil {
		return fmt.Errorf("encode inventory: %w", err)
	}
	return writeFile(path, data)
}

// LoadInventory reads the inventory at path. A missing file is created with
// the default presets.
func LoadInventory(path string) (model.Inventory, error) {
	data, err := readFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			inv := model.DefaultInventory()
			return inv, SaveInventory(path, inv)
		}
		return model.Inventory{}, err
	}
	var inv model.Inventory
	if err := json.Unmarshal(data, &inv); err != nil {
		return model.Inventory{}, fmt.Errorf("parse inventory %s: %w", path, err)
	}
	if inv.Presets == nil {
		inv.Presets = []model.PagePreset{}
	}
	return inv, nil
}

// LoadOrCreateInventory loads the inventory from the default path.
func LoadOrCreateInventory() (model.Inventory, string, error) {
	path := DefaultInventoryPath()
	inv, err := LoadInventory(path)
	return inv, path, err
}

// ExportInventory writes the inventory to a user-chosen file.
func ExportInventory(path string, inv model.Inventory) error {
	return SaveInventory(path, inv)
}

// ImportInventory merges the presets stored at path into existing. Presets
// whose ID is already present are skipped. On error existing is returned
// unchanged.
func ImportInventory(path string, existing model.Inventory) (model.Inventory, error) {
	data, err := readFile(path)
	if err != nil {
		return existing, err
	}
	var imported model.Inventory
	if err := json.Unmarshal(data, &imported); err != nil {
		return existing, fmt.Errorf("parse inventory %s: %w", path, err)
	}
	return mergeInventory(existing, imported), nil
}

func mergeInventory(existing, imported model.Inventory) model.Inventory {
	seen := make(map[string]bool, len(existing.Presets))
	merged := model.Inventory{Presets: append([]model.PagePreset{}, existing.Presets...)}
	for _, p := range existing.Presets {
		seen[p.ID] = true
	}
	for _, p := range imported.Presets {
		if !seen[p.ID] {
			merged.Presets = append(merged.Presets, p)
			seen[p.ID] = true
		}
	}
	return merged
}
