// Package export writes atlas layouts to files: a JSON manifest for game
// engines, a PDF report, QR-coded sprite labels, an Excel workbook and PNG
// previews of each page.
package export

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/AtlasPack/internal/model"
)

// ErrNoPages is returned by exporters that need at least one atlas page.
var ErrNoPages = errors.New("no pages to export")

type rgb struct {
	R, G, B int
}

// spriteColors is the fill cycle shared by the PDF report and PNG previews.
var spriteColors = []rgb{
	{76, 175, 80},  // green
	{33, 150, 243}, // blue
	{255, 152, 0},  // orange
	{156, 39, 176}, // purple
	{0, 188, 212},  // cyan
	{244, 67, 54},  // red
	{255, 235, 59}, // yellow
	{121, 85, 72},  // brown
}

func colorFor(i int) rgb {
	return spriteColors[i%len(spriteColors)]
}

// A4 landscape, in mm.
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF writes a report with one diagram page per atlas page followed by
// a summary page.
func ExportPDF(path string, result model.AtlasResult, settings model.PackSettings) error {
	if len(result.Pages) == 0 {
		return ErrNoPages
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for _, page := range result.Pages {
		pdf.AddPage()
		renderAtlasPage(pdf, page)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, result, settings)

	return pdf.OutputFileAndClose(path)
}

func renderAtlasPage(pdf *fpdf.Fpdf, page model.PageResult) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Page %d (%d x %d px)", page.Index+1, page.Width, page.Height)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Sprites: %d | Content: %d px | Reserved: %d px | Occupancy: %.1f%%",
		len(page.Placements), page.ContentArea(), page.UsedArea(), page.Occupancy()*100)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight
	scale := math.Min(drawWidth/float64(page.Width), drawHeight/float64(page.Height))

	canvasW := float64(page.Width) * scale
	canvasH := float64(page.Height) * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	pdf.SetFillColor(235, 235, 235)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	for _, region := range model.DetectFreeRegions(page, model.MinRegionDimension) {
		r := region.Rect
		drawHatchPattern(pdf, offsetX+float64(r.X)*scale, offsetY+float64(r.Y)*scale,
			float64(r.Width)*scale, float64(r.Height)*scale)
	}

	for i, p := range page.Placements {
		col := colorFor(i)

		// Padding ring in a pale tint of the sprite color.
		pdf.SetFillColor(255-(255-col.R)/4, 255-(255-col.G)/4, 255-(255-col.B)/4)
		pdf.SetDrawColor(160, 160, 160)
		pdf.SetLineWidth(0.1)
		pdf.Rect(offsetX+float64(p.Padded.X)*scale, offsetY+float64(p.Padded.Y)*scale,
			float64(p.Padded.Width)*scale, float64(p.Padded.Height)*scale, "FD")

		px := offsetX + float64(p.Rect.X)*scale
		py := offsetY + float64(p.Rect.Y)*scale
		pw := float64(p.Rect.Width) * scale
		ph := float64(p.Rect.Height) * scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		if pw > 15 && ph > 8 {
			drawSpriteLabel(pdf, p, px, py, pw, ph)
		}
	}

	drawDimensionAnnotations(pdf, page, offsetX, offsetY, canvasW, canvasH)
	drawSpriteLegend(pdf, page, offsetY+canvasH+5)
}

func drawSpriteLabel(pdf *fpdf.Fpdf, p model.Placement, px, py, pw, ph float64) {
	pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
	pdf.SetTextColor(0, 0, 0)

	label := p.Sprite.Label
	dims := fmt.Sprintf("%dx%d", p.Rect.Width, p.Rect.Height)
	labelW := pdf.GetStringWidth(label)
	dimsW := pdf.GetStringWidth(dims)

	if labelW < pw-2 {
		pdf.SetXY(px+(pw-labelW)/2, py+ph/2-4)
		pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
	}
	if ph > 14 && dimsW < pw-2 {
		pdf.SetXY(px+(pw-dimsW)/2, py+ph/2)
		pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
	}
}

// drawHatchPattern marks a free region with diagonal lines.
func drawHatchPattern(pdf *fpdf.Fpdf, x, y, w, h float64) {
	pdf.SetDrawColor(180, 180, 180)
	pdf.SetLineWidth(0.15)

	const spacing = 4.0
	for d := spacing; d < w+h; d += spacing {
		pdf.Line(x+math.Max(0, d-h), y+math.Min(h, d), x+math.Min(w, d), y+math.Max(0, d-w))
	}
}

func drawDimensionAnnotations(pdf *fpdf.Fpdf, page model.PageResult, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%d px", page.Width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := fmt.Sprintf("%d px", page.Height)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

func drawSpriteLegend(pdf *fpdf.Fpdf, page model.PageResult, y float64) {
	if len(page.Placements) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(30, 4, "Sprites placed:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	x := marginLeft + 32
	maxX := pageWidth - marginRight

	for i, p := range page.Placements {
		label := fmt.Sprintf("%s (%dx%d @ %d,%d)", p.Sprite.Label, p.Rect.Width, p.Rect.Height, p.Rect.X, p.Rect.Y)
		labelW := pdf.GetStringWidth(label) + 6
		if x+labelW > maxX {
			y += 5
			x = marginLeft
		}
		if y > pageHeight-marginBottom {
			break
		}

		col := colorFor(i)
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(x, y+0.5, 3, 3, "F")
		pdf.SetXY(x+4, y)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		x += labelW + 2
	}
}

type summaryItem struct {
	label string
	value string
}

func renderSummaryPage(pdf *fpdf.Fpdf, result model.AtlasResult, settings model.PackSettings) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Atlas Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18
	y = drawItems(pdf, "Overall Statistics", y, []summaryItem{
		{"Pages Used", fmt.Sprintf("%d", len(result.Pages))},
		{"Overall Occupancy", fmt.Sprintf("%.1f%%", result.TotalOccupancy()*100)},
		{"Sprites Placed", fmt.Sprintf("%d", result.PlacementCount())},
		{"Unplaced Sprites", fmt.Sprintf("%d", len(result.Unplaced))},
	})
	y += 5

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Page Breakdown", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{20, 50, 30, 40, 60, 60}
	headers := []string{"Page", "Size", "Sprites", "Occupancy", "Content Area", "Reserved Area"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	x := marginLeft
	for i, h := range headers {
		pdf.SetXY(x, y)
		pdf.CellFormat(colWidths[i], 6, h, "1", 0, "C", true, 0, "")
		x += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, page := range result.Pages {
		row := []string{
			fmt.Sprintf("%d", page.Index+1),
			fmt.Sprintf("%d x %d px", page.Width, page.Height),
			fmt.Sprintf("%d", len(page.Placements)),
			fmt.Sprintf("%.1f%%", page.Occupancy()*100),
			fmt.Sprintf("%d px", page.ContentArea()),
			fmt.Sprintf("%d / %d px", page.UsedArea(), page.TotalArea()),
		}
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		x = marginLeft
		for j, cell := range row {
			pdf.SetXY(x, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			x += colWidths[j]
		}
		y += 6
	}

	if len(result.Unplaced) > 0 {
		y += 8
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "WARNING: Unplaced Sprites", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, s := range result.Unplaced {
			if y > pageHeight-marginBottom-40 {
				pdf.SetXY(marginLeft+5, y)
				pdf.CellFormat(200, 5, "...", "", 0, "L", false, 0, "")
				y += 5
				break
			}
			pdf.SetXY(marginLeft+5, y)
			pdf.CellFormat(200, 5, fmt.Sprintf("- %s: %d x %d px", s.Label, s.Width, s.Height), "", 0, "L", false, 0, "")
			y += 5
		}
	}

	y += 8
	pdf.SetTextColor(0, 0, 0)
	maxPages := "unlimited"
	if settings.MaxPages > 0 {
		maxPages = fmt.Sprintf("%d", settings.MaxPages)
	}
	drawItems(pdf, "Pack Settings", y, []summaryItem{
		{"Page Size", fmt.Sprintf("%d x %d px", settings.PageWidth, settings.PageHeight)},
		{"Heuristic", settings.Heuristic.String()},
		{"Mode", string(settings.Mode)},
		{"Padding", fmt.Sprintf("%d px", settings.Padding)},
		{"Max Pages", maxPages},
	})

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by AtlasPack", "", 0, "C", false, 0, "")
}

// drawItems renders a titled list of label/value pairs and returns the y
// position below it.
func drawItems(pdf *fpdf.Fpdf, title string, y float64, items []summaryItem) float64 {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, title, "", 0, "L", false, 0, "")
	y += 9

	for _, item := range items {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		y += 7
	}
	return y
}

func labelFontSize(w, h float64) float64 {
	switch d := math.Min(w, h); {
	case d > 40:
		return 8
	case d > 20:
		return 7
	default:
		return 6
	}
}
