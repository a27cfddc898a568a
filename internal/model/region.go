package model

import (
	"sort"

	"github.com/piwi3910/AtlasPack/internal/binpack"
)

// FreeRegion is an unused rectangle of a page large enough to take a late addition.
// Regions of the same page come from the packer's maximal free list and may overlap.
type FreeRegion struct {
	PageIndex int          `json:"page_index"`
	Rect      binpack.Rect `json:"rect"`
}

// Area returns the area of the region in px².
func (r FreeRegion) Area() int {
	return r.Rect.Area()
}

// MinRegionDimension is the minimum width or height (in px) for a free
// rectangle to be reported as a region. Smaller slivers are waste.
const MinRegionDimension = 16

// DetectFreeRegions returns the free rectangles of a page that are at least
// minDim on each side, largest first. A non-positive minDim uses MinRegionDimension.
func DetectFreeRegions(page PageResult, minDim int) []FreeRegion {
	if minDim <= 0 {
		minDim = MinRegionDimension
	}

	var regions []FreeRegion
	for _, r := range page.Free {
		if r.Width >= minDim && r.Height >= minDim {
			regions = append(regions, FreeRegion{PageIndex: page.Index, Rect: r})
		}
	}

	sort.SliceStable(regions, func(i, j int) bool {
		return regions[i].Area() > regions[j].Area()
	})
	return regions
}

// DetectAllFreeRegions finds free regions across all pages of a result.
func DetectAllFreeRegions(result AtlasResult, minDim int) []FreeRegion {
	var all []FreeRegion
	for _, page := range result.Pages {
		all = append(all, DetectFreeRegions(page, minDim)...)
	}
	return all
}

// LargestFreeRegion returns the biggest region of a page and false if there is none.
func LargestFreeRegion(page PageResult, minDim int) (FreeRegion, bool) {
	regions := DetectFreeRegions(page, minDim)
	if len(regions) == 0 {
		return FreeRegion{}, false
	}
	return regions[0], true
}
