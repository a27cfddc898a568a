package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/piwi3910/AtlasPack/internal/model"
)

// BackupVersion is written into every backup file.
const BackupVersion = "1.0.0"

// ErrInvalidBackup is returned for backup files without a version.
var ErrInvalidBackup = errors.New("invalid backup file: missing version field")

// BackupData is the top-level structure of a full backup.
type BackupData struct {
	Version   string          `json:"version"`
	CreatedAt string          `json:"created_at"`
	Config    model.AppConfig `json:"config"`
	Inventory model.Inventory `json:"inventory"`
}

// ExportAllData writes the config and the preset inventory to a single JSON
// file.
func ExportAllData(exportPath string, config model.AppConfig, inv model.Inventory) error {
	backup := BackupData{
		Version:   BackupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    config,
		Inventory: inv,
	}
	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal backup data: %w", err)
	}
	if err := writeFile(exportPath, data); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a backup written by ExportAllData. Config keys absent
// from the file take their defaults. The caller applies the result.
func ImportAllData(importPath string) (BackupData, error) {
	data, err := readFile(importPath)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}

	backup := BackupData{Config: model.DefaultAppConfig()}
	if err := json.Unmarshal(data, &backup); err != nil {
		return BackupData{}, fmt.Errorf("failed to parse backup file: %w", err)
	}
	if backup.Version == "" {
		return BackupData{}, ErrInvalidBackup
	}
	if backup.Config.RecentProjects == nil {
		backup.Config.RecentProjects = []string{}
	}
	if backup.Inventory.Presets == nil {
		backup.Inventory.Presets = []model.PagePreset{}
	}
	return backup, nil
}
