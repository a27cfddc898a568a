package engine

import (
	"testing"

	"github.com/piwi3910/AtlasPack/internal/binpack"
	"github.com/piwi3910/AtlasPack/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placement(label string, page int, padded binpack.Rect, pad int) model.Placement {
	return model.NewPlacement(model.NewSprite(label, padded.Width-2*pad, padded.Height-2*pad, 1), page, padded, pad, 100, 100)
}

func TestValidate_CleanLayout(t *testing.T) {
	result := model.AtlasResult{Pages: []model.PageResult{{
		Index: 0, Width: 100, Height: 100,
		Placements: []model.Placement{
			placement("a", 0, binpack.NewRect(0, 0, 50, 50), 1),
			placement("b", 0, binpack.NewRect(50, 0, 50, 50), 1),
		},
	}}}

	assert.Nil(t, Validate(result))
}

func TestValidate_Overlap(t *testing.T) {
	result := model.AtlasResult{Pages: []model.PageResult{{
		Index: 2, Width: 100, Height: 100,
		Placements: []model.Placement{
			placement("a", 2, binpack.NewRect(0, 0, 50, 50), 0),
			placement("b", 2, binpack.NewRect(49, 0, 20, 20), 0),
		},
	}}}

	violations := Validate(result)
	require.Len(t, violations, 1)
	assert.Equal(t, 2, violations[0].Page)
	assert.Contains(t, violations[0].String(), "overlaps")
}

func TestValidate_OutsidePage(t *testing.T) {
	result := model.AtlasResult{Pages: []model.PageResult{{
		Width: 100, Height: 100,
		Placements: []model.Placement{
			placement("edge", 0, binpack.NewRect(90, 90, 20, 5), 0),
		},
	}}}

	violations := Validate(result)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0].Message, "outside the 100x100 page")
}

func TestValidate_ContentOutsidePadding(t *testing.T) {
	p := placement("a", 0, binpack.NewRect(0, 0, 20, 20), 0)
	p.Rect = binpack.NewRect(5, 5, 20, 20)

	result := model.AtlasResult{Pages: []model.PageResult{{Width: 100, Height: 100, Placements: []model.Placement{p}}}}

	violations := Validate(result)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0].Message, "content")
}

func TestValidate_WrongPageIndex(t *testing.T) {
	result := model.AtlasResult{Pages: []model.PageResult{{
		Index: 1, Width: 100, Height: 100,
		Placements: []model.Placement{placement("a", 0, binpack.NewRect(0, 0, 10, 10), 0)},
	}}}

	violations := Validate(result)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0].Message, "records page 0")
}
