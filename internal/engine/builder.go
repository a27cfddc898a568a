package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/piwi3910/AtlasPack/internal/binpack"
	"github.com/piwi3910/AtlasPack/internal/model"
)

// ErrInvalidSettings is returned by Build when the pack settings cannot produce a layout.
var ErrInvalidSettings = errors.New("engine: invalid pack settings")

// Builder lays sprites out on as many atlas pages as needed.
type Builder struct {
	Settings model.PackSettings
	Genetic  GeneticConfig // Used when Settings.Mode is ModeGenetic
}

func New(settings model.PackSettings) *Builder {
	return &Builder{Settings: settings, Genetic: DefaultGeneticConfig()}
}

// ValidateSettings checks the settings a build depends on.
func ValidateSettings(s model.PackSettings) error {
	switch {
	case s.PageWidth <= 0:
		return fmt.Errorf("%w: page_width must be greater than 0, got %d", ErrInvalidSettings, s.PageWidth)
	case s.PageHeight <= 0:
		return fmt.Errorf("%w: page_height must be greater than 0, got %d", ErrInvalidSettings, s.PageHeight)
	case !s.Heuristic.Valid():
		return fmt.Errorf("%w: unknown heuristic %s", ErrInvalidSettings, s.Heuristic)
	case s.Padding < 0:
		return fmt.Errorf("%w: padding must not be negative, got %d", ErrInvalidSettings, s.Padding)
	case s.MaxPages < 0:
		return fmt.Errorf("%w: max_pages must not be negative, got %d", ErrInvalidSettings, s.MaxPages)
	case s.Mode != "" && !s.Mode.Valid():
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidSettings, s.Mode)
	}
	return nil
}

// Build expands sprite quantities and packs them according to the builder's
// mode. Sprites that cannot be placed are reported in AtlasResult.Unplaced;
// only invalid settings produce an error.
func (b *Builder) Build(sprites []model.Sprite) (model.AtlasResult, error) {
	if err := ValidateSettings(b.Settings); err != nil {
		return model.AtlasResult{}, err
	}

	expanded := model.ExpandSprites(sprites)
	fitting, oversized := b.partitionFitting(expanded)

	var result model.AtlasResult
	var err error
	switch b.Settings.Mode {
	case model.ModeBatch:
		result, err = b.packBatch(fitting)
	case model.ModeGenetic:
		result, err = b.packGenetic(fitting)
	default:
		result, err = b.packOnline(sortByPaddedArea(fitting, b.Settings.Padding), Logger())
	}
	if err != nil {
		return model.AtlasResult{}, err
	}

	result.Unplaced = append(oversized, result.Unplaced...)

	Logger().Info("atlas built",
		"mode", b.mode(),
		"heuristic", b.Settings.Heuristic.String(),
		"pages", len(result.Pages),
		"placed", result.PlacementCount(),
		"unplaced", len(result.Unplaced),
		"occupancy", result.TotalOccupancy(),
	)
	return result, nil
}

func (b *Builder) mode() model.PackMode {
	if b.Settings.Mode == "" {
		return model.ModeOnline
	}
	return b.Settings.Mode
}

// partitionFitting separates sprites that fit on an empty page (after padding)
// from those that never will. Oversized sprites never open a page.
func (b *Builder) partitionFitting(sprites []model.Sprite) (fitting, oversized []model.Sprite) {
	for _, s := range sprites {
		size := s.PaddedSize(b.Settings.Padding)
		if s.Width <= 0 || s.Height <= 0 || size.Width > b.Settings.PageWidth || size.Height > b.Settings.PageHeight {
			Logger().Warn("sprite cannot fit on a page",
				"label", s.Label,
				"width", size.Width,
				"height", size.Height,
				"page_width", b.Settings.PageWidth,
				"page_height", b.Settings.PageHeight,
			)
			oversized = append(oversized, s)
			continue
		}
		fitting = append(fitting, s)
	}
	return fitting, oversized
}

// sortByPaddedArea returns a copy of sprites sorted largest first. Equal areas
// keep their input order.
func sortByPaddedArea(sprites []model.Sprite, defaultPadding int) []model.Sprite {
	sorted := make([]model.Sprite, len(sprites))
	copy(sorted, sprites)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PaddedSize(defaultPadding).Area() > sorted[j].PaddedSize(defaultPadding).Area()
	})
	return sorted
}

// atlasPage pairs a packer with the page result it fills.
type atlasPage struct {
	packer *binpack.Packer
	result model.PageResult
}

func (b *Builder) newPage(index int, log *slog.Logger) (*atlasPage, error) {
	packer := &binpack.Packer{LegacyAreaFit: b.Settings.LegacyAreaFit}
	if err := packer.Init(b.Settings.PageWidth, b.Settings.PageHeight); err != nil {
		return nil, fmt.Errorf("failed to create page %d: %w", index, err)
	}

	log.Debug("opened page", "index", index, "width", b.Settings.PageWidth, "height", b.Settings.PageHeight)
	return &atlasPage{
		packer: packer,
		result: model.PageResult{
			Index:  index,
			Width:  b.Settings.PageWidth,
			Height: b.Settings.PageHeight,
		},
	}, nil
}

// insert tries to place a single sprite on the page.
func (p *atlasPage) insert(s model.Sprite, defaultPadding int, heuristic binpack.Heuristic) bool {
	size := s.PaddedSize(defaultPadding)
	r := p.packer.Insert(size.Width, size.Height, heuristic)
	if !r.Placed() {
		return false
	}
	p.add(s, r, s.EffectivePadding(defaultPadding))
	return true
}

func (p *atlasPage) add(s model.Sprite, padded binpack.Rect, padding int) {
	p.result.Placements = append(p.result.Placements,
		model.NewPlacement(s, p.result.Index, padded, padding, p.result.Width, p.result.Height))
}

func (b *Builder) canOpenPage(open int) bool {
	return b.Settings.MaxPages == 0 || open < b.Settings.MaxPages
}

// packOnline inserts sprites one at a time in the given order. Each sprite is
// tried on every open page in turn; when none accepts it a new page is opened
// and the sprite retried there. Progress goes to log.
func (b *Builder) packOnline(order []model.Sprite, log *slog.Logger) (model.AtlasResult, error) {
	var pages []*atlasPage
	var unplaced []model.Sprite
	limitLogged := false

	for _, s := range order {
		placed := false
		for _, p := range pages {
			if p.insert(s, b.Settings.Padding, b.Settings.Heuristic) {
				placed = true
				break
			}
		}
		if placed {
			continue
		}

		if !b.canOpenPage(len(pages)) {
			if !limitLogged {
				log.Warn("page limit reached", "max_pages", b.Settings.MaxPages)
				limitLogged = true
			}
			unplaced = append(unplaced, s)
			continue
		}

		p, err := b.newPage(len(pages), log)
		if err != nil {
			return model.AtlasResult{}, err
		}
		pages = append(pages, p)
		if !p.insert(s, b.Settings.Padding, b.Settings.Heuristic) {
			unplaced = append(unplaced, s)
		}
	}

	return collect(pages, unplaced), nil
}

// packBatch fills one page at a time with InsertAll, letting the packer choose
// the best remaining sprite at every step. Sprites left over roll to the next page.
func (b *Builder) packBatch(sprites []model.Sprite) (model.AtlasResult, error) {
	var pages []*atlasPage
	remaining := sprites

	for len(remaining) > 0 {
		if !b.canOpenPage(len(pages)) {
			Logger().Warn("page limit reached", "max_pages", b.Settings.MaxPages, "remaining", len(remaining))
			break
		}

		p, err := b.newPage(len(pages), Logger())
		if err != nil {
			return model.AtlasResult{}, err
		}

		sizes := make([]binpack.Size, len(remaining))
		for i, s := range remaining {
			sizes[i] = s.PaddedSize(b.Settings.Padding)
		}

		rects, indices := p.packer.InsertAllIndexed(sizes, b.Settings.Heuristic)
		if len(rects) == 0 {
			break
		}

		placed := make([]bool, len(remaining))
		for i, r := range rects {
			s := remaining[indices[i]]
			p.add(s, r, s.EffectivePadding(b.Settings.Padding))
			placed[indices[i]] = true
		}
		pages = append(pages, p)

		var next []model.Sprite
		for i, s := range remaining {
			if !placed[i] {
				next = append(next, s)
			}
		}
		Logger().Debug("batch page filled", "index", p.result.Index, "placed", len(rects), "remaining", len(next))
		remaining = next
	}

	return collect(pages, remaining), nil
}

func collect(pages []*atlasPage, unplaced []model.Sprite) model.AtlasResult {
	result := model.AtlasResult{Unplaced: unplaced}
	for _, p := range pages {
		page := p.result
		page.Free = p.packer.FreeRects()
		result.Pages = append(result.Pages, page)
	}
	return result
}
