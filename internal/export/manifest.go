package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/piwi3910/AtlasPack/internal/model"
)

// ManifestVersion is bumped when the manifest layout changes incompatibly.
const ManifestVersion = 1

// Manifest is the engine-facing description of a packed atlas.
type Manifest struct {
	Version  int                `json:"version"`
	Pages    []ManifestPage     `json:"pages"`
	Unplaced []ManifestUnplaced `json:"unplaced,omitempty"`
}

// ManifestPage lists the sprites on one atlas page.
type ManifestPage struct {
	Index     int              `json:"index"`
	Image     string           `json:"image"`
	Width     int              `json:"width"`
	Height    int              `json:"height"`
	Occupancy float64          `json:"occupancy"`
	Sprites   []ManifestSprite `json:"sprites"`
}

// ManifestSprite is one placed sprite. X, Y, W and H are the content rect in
// page pixels; UV is the same rect normalized to the page.
type ManifestSprite struct {
	ID     string   `json:"id"`
	Label  string   `json:"label"`
	X      int      `json:"x"`
	Y      int      `json:"y"`
	W      int      `json:"w"`
	H      int      `json:"h"`
	UV     model.UV `json:"uv"`
	Source string   `json:"source,omitempty"`
}

// ManifestUnplaced is a sprite that did not fit on any page.
type ManifestUnplaced struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// PreviewFileName is the PNG name ExportPreviews uses for page index.
func PreviewFileName(index int) string {
	return fmt.Sprintf("page_%d.png", index)
}

// BuildManifest converts a layout into its manifest form.
func BuildManifest(result model.AtlasResult) Manifest {
	m := Manifest{Version: ManifestVersion, Pages: make([]ManifestPage, 0, len(result.Pages))}

	for _, page := range result.Pages {
		mp := ManifestPage{
			Index:     page.Index,
			Image:     PreviewFileName(page.Index),
			Width:     page.Width,
			Height:    page.Height,
			Occupancy: page.Occupancy(),
			Sprites:   make([]ManifestSprite, 0, len(page.Placements)),
		}
		for _, p := range page.Placements {
			mp.Sprites = append(mp.Sprites, ManifestSprite{
				ID:     p.Sprite.ID,
				Label:  p.Sprite.Label,
				X:      p.Rect.X,
				Y:      p.Rect.Y,
				W:      p.Rect.Width,
				H:      p.Rect.Height,
				UV:     p.UV,
				Source: p.Sprite.Source,
			})
		}
		m.Pages = append(m.Pages, mp)
	}

	for _, s := range result.Unplaced {
		m.Unplaced = append(m.Unplaced, ManifestUnplaced{ID: s.ID, Label: s.Label, Width: s.Width, Height: s.Height})
	}
	return m
}

// WriteManifest encodes the manifest of result to w as indented JSON.
func WriteManifest(w io.Writer, result model.AtlasResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(BuildManifest(result)); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	return nil
}

// ExportManifest writes the manifest of result to path.
func ExportManifest(path string, result model.AtlasResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create manifest: %w", err)
	}
	if err := WriteManifest(f, result); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadManifest decodes a manifest written by WriteManifest.
func ReadManifest(r io.Reader) (Manifest, error) {
	var m Manifest
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return Manifest{}, fmt.Errorf("decode manifest: %w", err)
	}
	if m.Version != ManifestVersion {
		return Manifest{}, fmt.Errorf("unsupported manifest version %d", m.Version)
	}
	return m, nil
}
