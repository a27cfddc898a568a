package engine

import (
	"fmt"

	"github.com/piwi3910/AtlasPack/internal/binpack"
	"github.com/piwi3910/AtlasPack/internal/model"
	"golang.org/x/sync/errgroup"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.PackSettings
}

// ComparisonResult holds the build result and computed statistics for a single scenario.
type ComparisonResult struct {
	Scenario      ComparisonScenario
	Result        model.AtlasResult
	PagesUsed     int
	Placed        int
	Occupancy     float64 // 0.0 to 1.0 across all pages
	UnplacedCount int
}

// CompareScenarios builds the sprites once per scenario and returns the results
// in scenario order. Each scenario runs on its own builder in its own goroutine.
func CompareScenarios(scenarios []ComparisonScenario, sprites []model.Sprite) ([]ComparisonResult, error) {
	results := make([]ComparisonResult, len(scenarios))

	var g errgroup.Group
	for i, scenario := range scenarios {
		g.Go(func() error {
			result, err := New(scenario.Settings).Build(sprites)
			if err != nil {
				return fmt.Errorf("scenario %q: %w", scenario.Name, err)
			}
			results[i] = ComparisonResult{
				Scenario:      scenario,
				Result:        result,
				PagesUsed:     len(result.Pages),
				Placed:        result.PlacementCount(),
				Occupancy:     result.TotalOccupancy(),
				UnplacedCount: len(result.Unplaced),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// HeuristicScenarios returns one scenario per heuristic for each given mode,
// all based on the given settings. With no modes, the settings' own mode is used.
func HeuristicScenarios(base model.PackSettings, modes ...model.PackMode) []ComparisonScenario {
	if len(modes) == 0 {
		mode := base.Mode
		if mode == "" {
			mode = model.ModeOnline
		}
		modes = []model.PackMode{mode}
	}

	var scenarios []ComparisonScenario
	for _, mode := range modes {
		for _, h := range binpack.Heuristics() {
			s := base
			s.Mode = mode
			s.Heuristic = h
			scenarios = append(scenarios, ComparisonScenario{
				Name:     fmt.Sprintf("%s/%s", mode, h.Abbrev()),
				Settings: s,
			})
		}
	}
	return scenarios
}

// CompareHeuristics builds the sprites with every heuristic and each given mode.
func CompareHeuristics(base model.PackSettings, sprites []model.Sprite, modes ...model.PackMode) ([]ComparisonResult, error) {
	return CompareScenarios(HeuristicScenarios(base, modes...), sprites)
}

// BuildDefaultScenarios generates what-if alternatives around the current settings.
func BuildDefaultScenarios(base model.PackSettings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Settings",
			Settings: base,
		},
	}

	// Try the other feeding strategies
	for _, mode := range model.PackModes() {
		if mode == base.Mode || (base.Mode == "" && mode == model.ModeOnline) {
			continue
		}
		alt := base
		alt.Mode = mode
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("%s mode", mode),
			Settings: alt,
		})
	}

	if base.Padding > 0 {
		noPad := base
		noPad.Padding = 0
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "No Padding",
			Settings: noPad,
		})
	}

	// Double the page width to see whether a wider page saves pages
	wide := base
	wide.PageWidth = base.PageWidth * 2
	scenarios = append(scenarios, ComparisonScenario{
		Name:     fmt.Sprintf("Page %dx%d", wide.PageWidth, wide.PageHeight),
		Settings: wide,
	})

	return scenarios
}

// Best returns the index of the result with the fewest unplaced sprites, then
// fewest pages, then highest occupancy. Earlier results win ties. It returns
// -1 for an empty slice.
func Best(results []ComparisonResult) int {
	best := -1
	for i, r := range results {
		if best < 0 {
			best = i
			continue
		}
		b := results[best]
		switch {
		case r.UnplacedCount != b.UnplacedCount:
			if r.UnplacedCount < b.UnplacedCount {
				best = i
			}
		case r.PagesUsed != b.PagesUsed:
			if r.PagesUsed < b.PagesUsed {
				best = i
			}
		case r.Occupancy > b.Occupancy:
			best = i
		}
	}
	return best
}
