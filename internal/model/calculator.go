package model

import "math"

// PageEstimate holds the result of an up-front page count calculation.
type PageEstimate struct {
	TotalSpriteArea  int     `json:"total_sprite_area"`  // Area of all sprites including padding (px²)
	PageArea         int     `json:"page_area"`          // Area of one page (px²)
	PagesNeededExact float64 `json:"pages_needed_exact"` // Exact fractional number of pages
	PagesNeededMin   int     `json:"pages_needed_min"`   // Minimum pages (ceiling of exact)
	PagesWithWaste   int     `json:"pages_with_waste"`   // Recommended pages including waste factor
	WastePercent     float64 `json:"waste_percent"`      // Waste factor applied (e.g., 15 for 15%)
	Oversized        int     `json:"oversized"`          // Sprites that cannot fit on any page
}

// CalculatePageEstimate computes how many pages a sprite list needs before packing.
// It accounts for padding and an additional waste percentage factor. Sprites
// larger than a page are counted as oversized and left out of the area total.
func CalculatePageEstimate(sprites []Sprite, pageWidth, pageHeight, defaultPadding int, wastePercent float64) PageEstimate {
	est := PageEstimate{WastePercent: wastePercent}

	for _, s := range sprites {
		size := s.PaddedSize(defaultPadding)
		if pageWidth > 0 && pageHeight > 0 && (size.Width > pageWidth || size.Height > pageHeight) {
			est.Oversized += s.Quantity
			continue
		}
		est.TotalSpriteArea += size.Area() * s.Quantity
	}

	pageArea := pageWidth * pageHeight
	if pageArea <= 0 {
		return est
	}
	est.PageArea = pageArea

	exact := float64(est.TotalSpriteArea) / float64(pageArea)
	minPages := int(math.Ceil(exact))

	wasteFactor := 1.0 + (wastePercent / 100.0)
	withWaste := int(math.Ceil(exact * wasteFactor))
	if withWaste < minPages {
		withWaste = minPages
	}

	est.PagesNeededExact = exact
	est.PagesNeededMin = minPages
	est.PagesWithWaste = withWaste
	return est
}
