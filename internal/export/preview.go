package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	"github.com/piwi3910/AtlasPack/internal/binpack"
	"github.com/piwi3910/AtlasPack/internal/model"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	previewBackground = color.RGBA{40, 40, 40, 255}
	previewFree       = color.RGBA{60, 60, 60, 255}
	previewBorder     = color.RGBA{20, 20, 20, 255}
	previewText       = color.RGBA{0, 0, 0, 255}
)

// RenderPreview draws a page at one image pixel per atlas pixel. Free regions
// are lighter than the background, padding is a pale ring around each
// sprite, and sprites large enough to hold their label get it drawn in a
// bitmap font.
func RenderPreview(page model.PageResult) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, page.Width, page.Height))
	fill(img, img.Bounds(), previewBackground)

	for _, region := range model.DetectFreeRegions(page, 1) {
		fill(img, toImageRect(region.Rect), previewFree)
	}

	for i, p := range page.Placements {
		c := colorFor(i)
		fill(img, toImageRect(p.Padded), color.RGBA{
			uint8(255 - (255-c.R)/3), uint8(255 - (255-c.G)/3), uint8(255 - (255-c.B)/3), 255,
		})
		content := toImageRect(p.Rect)
		fill(img, content, color.RGBA{uint8(c.R), uint8(c.G), uint8(c.B), 255})
		outline(img, content, previewBorder)
		drawLabel(img, content, p.Sprite.Label)
	}
	return img
}

// ExportPreviews writes one PNG per page into dir, creating it if needed, and
// returns the written paths.
func ExportPreviews(dir string, result model.AtlasResult) ([]string, error) {
	if len(result.Pages) == 0 {
		return nil, ErrNoPages
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create preview directory: %w", err)
	}

	paths := make([]string, 0, len(result.Pages))
	for _, page := range result.Pages {
		path := filepath.Join(dir, PreviewFileName(page.Index))
		if err := writePNG(path, RenderPreview(page)); err != nil {
			return paths, fmt.Errorf("page %d: %w", page.Index, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func toImageRect(r binpack.Rect) image.Rectangle {
	return image.Rect(r.X, r.Y, r.Right(), r.Bottom())
}

func fill(img *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func outline(img *image.RGBA, r image.Rectangle, c color.Color) {
	if r.Empty() {
		return
	}
	fill(img, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), c)
	fill(img, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), c)
	fill(img, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), c)
	fill(img, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), c)
}

// drawLabel centres text in r when it fits with a one pixel margin.
func drawLabel(img *image.RGBA, r image.Rectangle, text string) {
	face := basicfont.Face7x13
	d := &font.Drawer{Dst: img, Src: image.NewUniform(previewText), Face: face}

	w := d.MeasureString(text).Ceil()
	h := face.Metrics().Height.Ceil()
	if w+2 > r.Dx() || h+2 > r.Dy() {
		return
	}

	ascent := face.Metrics().Ascent.Ceil()
	x := r.Min.X + (r.Dx()-w)/2
	y := r.Min.Y + (r.Dy()-h)/2 + ascent
	d.Dot = fixed.P(x, y)
	d.DrawString(text)
}
