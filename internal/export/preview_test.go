package export

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/AtlasPack/internal/model"
)

func hasColor(img *image.RGBA, r image.Rectangle, c color.RGBA) bool {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if img.RGBAAt(x, y) == c {
				return true
			}
		}
	}
	return false
}

func TestRenderPreview(t *testing.T) {
	page := buildTestResult().Pages[0]
	img := RenderPreview(page)

	if img.Bounds() != image.Rect(0, 0, 256, 128) {
		t.Fatalf("expected a 256x128 image, got %v", img.Bounds())
	}

	tests := []struct {
		name string
		x, y int
		want color.RGBA
	}{
		{"hero padding", 0, 0, color.RGBA{196, 229, 197, 255}},
		{"hero border", 2, 2, previewBorder},
		{"hero fill", 10, 10, color.RGBA{76, 175, 80, 255}},
		{"free region", 200, 100, previewFree},
		{"background", 75, 30, previewBackground},
	}
	for _, tt := range tests {
		if got := img.RGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("%s at (%d, %d): expected %v, got %v", tt.name, tt.x, tt.y, tt.want, got)
		}
	}
}

func TestRenderPreview_LabelsOnlyWhereTheyFit(t *testing.T) {
	page := buildTestResult().Pages[0]
	img := RenderPreview(page)

	hero := toImageRect(page.Placements[0].Rect).Inset(1)
	if !hasColor(img, hero, previewText) {
		t.Error("expected the hero label to be drawn")
	}
	coin := toImageRect(page.Placements[1].Rect).Inset(1)
	if hasColor(img, coin, previewText) {
		t.Error("expected no label inside the 16x16 coin")
	}
}

func TestExportPreviews(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "previews")

	paths, err := ExportPreviews(dir, buildTestResult())
	if err != nil {
		t.Fatalf("ExportPreviews returned error: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 files, got %d", len(paths))
	}
	if filepath.Base(paths[1]) != "page_1.png" {
		t.Errorf("expected page_1.png, got %s", filepath.Base(paths[1]))
	}

	f, err := os.Open(paths[0])
	if err != nil {
		t.Fatalf("failed to open preview: %v", err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("preview is not a PNG: %v", err)
	}
	if cfg.Width != 256 || cfg.Height != 128 {
		t.Errorf("expected 256x128 preview, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestExportPreviews_EmptyResult(t *testing.T) {
	_, err := ExportPreviews(t.TempDir(), model.AtlasResult{})
	if !errors.Is(err, ErrNoPages) {
		t.Fatalf("expected ErrNoPages, got %v", err)
	}
}
