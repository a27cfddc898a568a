package model

import (
	"fmt"

	"github.com/google/uuid"
)

// PagePreset represents a reusable atlas page size.
type PagePreset struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// NewPagePreset creates a new PagePreset with a generated ID.
func NewPagePreset(name string, width, height int) PagePreset {
	return PagePreset{
		ID:     uuid.New().String()[:8],
		Name:   name,
		Width:  width,
		Height: height,
	}
}

// ApplyToSettings copies the preset page size into the given PackSettings.
func (pp PagePreset) ApplyToSettings(s *PackSettings) {
	s.PageWidth = pp.Width
	s.PageHeight = pp.Height
}

func (pp PagePreset) String() string {
	return fmt.Sprintf("%s (%dx%d)", pp.Name, pp.Width, pp.Height)
}

// Inventory holds the user's saved page presets.
type Inventory struct {
	Presets []PagePreset `json:"presets"`
}

// DefaultInventory returns an inventory populated with common texture sizes.
func DefaultInventory() Inventory {
	return Inventory{
		Presets: []PagePreset{
			NewPagePreset("Small", 512, 512),
			NewPagePreset("Medium", 1024, 1024),
			NewPagePreset("Large", 2048, 2048),
			NewPagePreset("Huge", 4096, 4096),
			NewPagePreset("Wide", 2048, 1024),
		},
	}
}

// FindPresetByID returns a pointer to the preset with the given ID, or nil.
func (inv *Inventory) FindPresetByID(id string) *PagePreset {
	for i := range inv.Presets {
		if inv.Presets[i].ID == id {
			return &inv.Presets[i]
		}
	}
	return nil
}

// FindPresetByName returns a pointer to the first preset with the given name, or nil.
func (inv *Inventory) FindPresetByName(name string) *PagePreset {
	for i := range inv.Presets {
		if inv.Presets[i].Name == name {
			return &inv.Presets[i]
		}
	}
	return nil
}

// PresetNames returns the preset names in inventory order.
func (inv *Inventory) PresetNames() []string {
	names := make([]string, len(inv.Presets))
	for i, p := range inv.Presets {
		names[i] = p.Name
	}
	return names
}
