package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/AtlasPack/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// ErrNoPlacements is returned when a result has pages but nothing on them.
var ErrNoPlacements = errors.New("no sprites placed")

// LabelInfo is the placement record printed on a label and encoded in its
// QR code.
type LabelInfo struct {
	ID     string   `json:"id"`
	Label  string   `json:"label"`
	Page   int      `json:"page"`
	X      int      `json:"x"`
	Y      int      `json:"y"`
	Width  int      `json:"w"`
	Height int      `json:"h"`
	UV     model.UV `json:"uv"`
}

// Avery 5160 on US Letter: 3 columns by 10 rows, sizes in mm.
const (
	labelMarginTop  = 12.7
	labelMarginLeft = 4.8
	labelWidth      = 66.7
	labelHeight     = 25.4
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0
	labelPadding    = 2.0
)

// CollectLabelInfos returns one label record per placement in page order.
func CollectLabelInfos(result model.AtlasResult) []LabelInfo {
	var labels []LabelInfo
	for _, p := range result.Placements() {
		labels = append(labels, LabelInfo{
			ID:     p.Sprite.ID,
			Label:  p.Sprite.Label,
			Page:   p.Page,
			X:      p.Rect.X,
			Y:      p.Rect.Y,
			Width:  p.Rect.Width,
			Height: p.Rect.Height,
			UV:     p.UV,
		})
	}
	return labels
}

// ExportLabels writes a sheet of QR-coded labels, one per placed sprite.
func ExportLabels(path string, result model.AtlasResult) error {
	if len(result.Pages) == 0 {
		return ErrNoPages
	}
	labels := CollectLabelInfos(result)
	if len(labels) == 0 {
		return ErrNoPlacements
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}
		slot := i % labelsPerPage
		x := labelMarginLeft + float64(slot%labelCols)*labelWidth
		y := labelMarginTop + float64(slot/labelCols)*labelHeight

		if err := renderLabel(pdf, fmt.Sprintf("qr_%d", i), x, y, label); err != nil {
			return fmt.Errorf("render label for %q: %w", label.Label, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

func renderLabel(pdf *fpdf.Fpdf, imgName string, x, y float64, info LabelInfo) error {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	payload, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("marshal label info: %w", err)
	}
	qrPNG, err := qrcode.Encode(string(payload), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("generate QR code: %w", err)
	}

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(imgName, opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions(imgName, x+labelWidth-qrSize-labelPadding, y+(labelHeight-qrSize)/2, qrSize, qrSize, false, opts, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4.5, fitText(pdf, info.Label, textW), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	pdf.CellFormat(textW, 3.5, fmt.Sprintf("%d x %d px", info.Width, info.Height), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	pdf.CellFormat(textW, 3, fmt.Sprintf("Page %d @ (%d, %d)", info.Page+1, info.X, info.Y), "", 1, "L", false, 0, "")
	pdf.SetXY(textX, y+labelPadding+12.5)
	pdf.CellFormat(textW, 3, fmt.Sprintf("UV %.4f, %.4f", info.UV.OffsetU, info.UV.OffsetV), "", 1, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// fitText truncates s with an ellipsis so it fits in width w at the current font.
func fitText(pdf *fpdf.Fpdf, s string, w float64) string {
	if pdf.GetStringWidth(s) <= w {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > w {
		s = s[:len(s)-1]
	}
	return s + "..."
}
