package engine

import (
	"fmt"

	"github.com/piwi3910/AtlasPack/internal/model"
)

// Violation describes a layout defect found by Validate.
type Violation struct {
	Page    int
	Message string
}

func (v Violation) String() string {
	return fmt.Sprintf("page %d: %s", v.Page, v.Message)
}

// Validate checks that every padded rect lies inside its page, that no two
// padded rects on a page overlap, and that every content rect sits inside its
// padded rect. It returns nil for a valid layout.
func Validate(result model.AtlasResult) []Violation {
	var violations []Violation

	for _, page := range result.Pages {
		for i, p := range page.Placements {
			if p.Page != page.Index {
				violations = append(violations, Violation{page.Index,
					fmt.Sprintf("%q records page %d", p.Sprite.Label, p.Page)})
			}
			if p.Padded.X < 0 || p.Padded.Y < 0 || p.Padded.Right() > page.Width || p.Padded.Bottom() > page.Height {
				violations = append(violations, Violation{page.Index,
					fmt.Sprintf("%q at %v extends outside the %dx%d page", p.Sprite.Label, p.Padded, page.Width, page.Height)})
			}
			if !p.Padded.ContainsRect(p.Rect) {
				violations = append(violations, Violation{page.Index,
					fmt.Sprintf("%q content %v is outside its padded rect %v", p.Sprite.Label, p.Rect, p.Padded)})
			}
			for _, q := range page.Placements[i+1:] {
				if p.Padded.Intersects(q.Padded) {
					violations = append(violations, Violation{page.Index,
						fmt.Sprintf("%q at %v overlaps %q at %v", p.Sprite.Label, p.Padded, q.Sprite.Label, q.Padded)})
				}
			}
		}
	}
	return violations
}
