package export

import (
	"fmt"

	"github.com/piwi3910/AtlasPack/internal/model"
	"github.com/xuri/excelize/v2"
)

// Sheet names written by ExportExcel.
const (
	PlacementsSheet = "Placements"
	PagesSheet      = "Pages"
	UnplacedSheet   = "Unplaced"
)

var placementHeader = []any{"Page", "ID", "Label", "X", "Y", "Width", "Height", "Padding", "U", "V", "Scale U", "Scale V", "Source"}

var pageHeader = []any{"Page", "Width", "Height", "Sprites", "Content Area", "Reserved Area", "Occupancy %"}

// ExportExcel writes a workbook with one row per placement and one row per
// page. Unplaced sprites get a third sheet when there are any.
func ExportExcel(path string, result model.AtlasResult) error {
	if len(result.Pages) == 0 {
		return ErrNoPages
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), PlacementsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E6E6E6"}},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	var placements [][]any
	for _, p := range result.Placements() {
		placements = append(placements, []any{
			p.Page + 1, p.Sprite.ID, p.Sprite.Label,
			p.Rect.X, p.Rect.Y, p.Rect.Width, p.Rect.Height,
			(p.Padded.Width - p.Rect.Width) / 2,
			p.UV.OffsetU, p.UV.OffsetV, p.UV.ScaleU, p.UV.ScaleV,
			p.Sprite.Source,
		})
	}
	if err := writeTable(f, PlacementsSheet, placementHeader, placements, header); err != nil {
		return err
	}

	var pages [][]any
	for _, page := range result.Pages {
		pages = append(pages, []any{
			page.Index + 1, page.Width, page.Height, len(page.Placements),
			page.ContentArea(), page.UsedArea(), page.Occupancy() * 100,
		})
	}
	if err := writeTable(f, PagesSheet, pageHeader, pages, header); err != nil {
		return err
	}

	if len(result.Unplaced) > 0 {
		var rows [][]any
		for _, s := range result.Unplaced {
			rows = append(rows, []any{s.ID, s.Label, s.Width, s.Height})
		}
		if err := writeTable(f, UnplacedSheet, []any{"ID", "Label", "Width", "Height"}, rows, header); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// writeTable fills sheet, creating it if needed, with a styled header row
// followed by rows.
func writeTable(f *excelize.File, sheet string, header []any, rows [][]any, headerStyle int) error {
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet, err)
		}
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("style %s header: %w", sheet, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}
