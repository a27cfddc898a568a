package model

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/piwi3910/AtlasPack/internal/binpack"
)

// UseDefaultPadding marks a sprite that inherits the padding from PackSettings.
const UseDefaultPadding = -1

// Sprite is a rectangular image to be placed on an atlas page.
type Sprite struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Width    int    `json:"width"`  // px
	Height   int    `json:"height"` // px
	Quantity int    `json:"quantity"`
	Padding  int    `json:"padding"`          // px per side, UseDefaultPadding to inherit
	Source   string `json:"source,omitempty"` // File the sprite was read from, if any
}

func NewSprite(label string, w, h, qty int) Sprite {
	return Sprite{
		ID:       uuid.New().String()[:8],
		Label:    label,
		Width:    w,
		Height:   h,
		Quantity: qty,
		Padding:  UseDefaultPadding,
	}
}

// Area returns the content area in pixels.
func (s Sprite) Area() int {
	return s.Width * s.Height
}

// EffectivePadding resolves the padding for this sprite given the settings default.
func (s Sprite) EffectivePadding(defaultPadding int) int {
	if s.Padding < 0 {
		return max(defaultPadding, 0)
	}
	return s.Padding
}

// PaddedSize returns the size reserved in the packer: content plus padding on every side.
func (s Sprite) PaddedSize(defaultPadding int) binpack.Size {
	pad := s.EffectivePadding(defaultPadding)
	return binpack.NewSize(s.Width+2*pad, s.Height+2*pad)
}

// ExpandSprites returns one sprite per unit of quantity. Copies after the first
// get a "#n" label suffix so they can be told apart in reports.
func ExpandSprites(sprites []Sprite) []Sprite {
	var expanded []Sprite
	for _, s := range sprites {
		for i := 0; i < s.Quantity; i++ {
			cp := s
			cp.Quantity = 1
			if i > 0 {
				cp.Label = fmt.Sprintf("%s#%d", s.Label, i+1)
			}
			expanded = append(expanded, cp)
		}
	}
	return expanded
}

// PackMode selects how the builder feeds sprites to the packer.
type PackMode string

const (
	ModeOnline  PackMode = "online"  // One Insert per sprite, largest first, multi-page fallback
	ModeBatch   PackMode = "batch"   // InsertAll per page, leftovers roll to the next page
	ModeGenetic PackMode = "genetic" // Search over online insertion orders (slower, often denser)
)

// PackModes lists every supported mode.
func PackModes() []PackMode {
	return []PackMode{ModeOnline, ModeBatch, ModeGenetic}
}

// Valid reports whether m is a known mode.
func (m PackMode) Valid() bool {
	switch m {
	case ModeOnline, ModeBatch, ModeGenetic:
		return true
	}
	return false
}

// PackSettings holds the atlas layout configuration.
type PackSettings struct {
	PageWidth     int               `json:"page_width"`  // px
	PageHeight    int               `json:"page_height"` // px
	Heuristic     binpack.Heuristic `json:"heuristic"`
	Padding       int               `json:"padding"` // px per side for sprites without their own padding
	Mode          PackMode          `json:"mode"`
	MaxPages      int               `json:"max_pages"` // 0 = unlimited
	LegacyAreaFit bool              `json:"legacy_area_fit"`
}

func DefaultSettings() PackSettings {
	return PackSettings{
		PageWidth:  2048,
		PageHeight: 2048,
		Heuristic:  binpack.BestShortSideFit,
		Padding:    2,
		Mode:       ModeOnline,
		MaxPages:   0,
	}
}

// UV is the normalized offset and scale of a placement within its page.
// A material samples the atlas at uv*Scale + Offset.
type UV struct {
	OffsetU float64 `json:"offset_u"`
	OffsetV float64 `json:"offset_v"`
	ScaleU  float64 `json:"scale_u"`
	ScaleV  float64 `json:"scale_v"`
}

// ComputeUV returns the UV of r on a pageW x pageH page.
func ComputeUV(r binpack.Rect, pageW, pageH int) UV {
	if pageW <= 0 || pageH <= 0 {
		return UV{}
	}
	w := float64(pageW)
	h := float64(pageH)
	return UV{
		OffsetU: float64(r.X) / w,
		OffsetV: float64(r.Y) / h,
		ScaleU:  float64(r.Width) / w,
		ScaleV:  float64(r.Height) / h,
	}
}

// Placement represents a single sprite placed on an atlas page.
type Placement struct {
	Sprite Sprite       `json:"sprite"`
	Page   int          `json:"page"`
	Rect   binpack.Rect `json:"rect"`   // Content rect, padding removed
	Padded binpack.Rect `json:"padded"` // Rect reserved in the packer
	UV     UV           `json:"uv"`
}

// NewPlacement builds a placement from the padded rect returned by the packer.
func NewPlacement(sprite Sprite, page int, padded binpack.Rect, padding, pageW, pageH int) Placement {
	content := binpack.NewRect(padded.X+padding, padded.Y+padding, padded.Width-2*padding, padded.Height-2*padding)
	return Placement{
		Sprite: sprite,
		Page:   page,
		Rect:   content,
		Padded: padded,
		UV:     ComputeUV(content, pageW, pageH),
	}
}

// PageResult represents one atlas page with its placed sprites.
type PageResult struct {
	Index      int            `json:"index"`
	Width      int            `json:"width"`
	Height     int            `json:"height"`
	Placements []Placement    `json:"placements"`
	Free       []binpack.Rect `json:"free,omitempty"` // Free list of the packer when the page was closed
}

// UsedArea returns the area reserved by placements, padding included.
func (pr PageResult) UsedArea() int {
	total := 0
	for _, p := range pr.Placements {
		total += p.Padded.Area()
	}
	return total
}

// ContentArea returns the area covered by sprite content, padding excluded.
func (pr PageResult) ContentArea() int {
	total := 0
	for _, p := range pr.Placements {
		total += p.Rect.Area()
	}
	return total
}

// TotalArea returns the page area.
func (pr PageResult) TotalArea() int {
	return pr.Width * pr.Height
}

// Occupancy returns the used area ratio in the range 0.0 to 1.0.
func (pr PageResult) Occupancy() float64 {
	ta := pr.TotalArea()
	if ta == 0 {
		return 0
	}
	return float64(pr.UsedArea()) / float64(ta)
}

// AtlasResult holds the full layout.
type AtlasResult struct {
	Pages    []PageResult `json:"pages"`
	Unplaced []Sprite     `json:"unplaced"`
}

// TotalOccupancy returns the used area ratio across all pages.
func (ar AtlasResult) TotalOccupancy() float64 {
	var used, total int
	for _, p := range ar.Pages {
		used += p.UsedArea()
		total += p.TotalArea()
	}
	if total == 0 {
		return 0
	}
	return float64(used) / float64(total)
}

// PlacementCount returns the number of placed sprites across all pages.
func (ar AtlasResult) PlacementCount() int {
	n := 0
	for _, p := range ar.Pages {
		n += len(p.Placements)
	}
	return n
}

// Placements returns every placement in page order.
func (ar AtlasResult) Placements() []Placement {
	var all []Placement
	for _, p := range ar.Pages {
		all = append(all, p.Placements...)
	}
	return all
}

// Project ties everything together for save/load.
type Project struct {
	Name     string       `json:"name"`
	Sprites  []Sprite     `json:"sprites"`
	Settings PackSettings `json:"settings"`
	Result   *AtlasResult `json:"result,omitempty"`
}

func NewProject() Project {
	return Project{
		Name:     "Untitled",
		Sprites:  []Sprite{},
		Settings: DefaultSettings(),
	}
}
