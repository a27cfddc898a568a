package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/AtlasPack/internal/binpack"
	"github.com/piwi3910/AtlasPack/internal/model"
)

func place(label string, w, h, page, pad int, padded binpack.Rect) model.Placement {
	s := model.NewSprite(label, w, h, 1)
	s.Padding = pad
	return model.NewPlacement(s, page, padded, pad, 256, 128)
}

// buildTestResult returns a hand-made two-page layout on 256x128 pages.
func buildTestResult() model.AtlasResult {
	return model.AtlasResult{
		Pages: []model.PageResult{
			{
				Index: 0, Width: 256, Height: 128,
				Placements: []model.Placement{
					place("hero", 64, 48, 0, 2, binpack.NewRect(0, 0, 68, 52)),
					place("coin", 16, 16, 0, 2, binpack.NewRect(68, 0, 20, 20)),
					place("long", 100, 10, 0, 0, binpack.NewRect(0, 52, 100, 10)),
				},
				Free: []binpack.Rect{
					binpack.NewRect(88, 0, 168, 128),
					binpack.NewRect(0, 62, 256, 66),
				},
			},
			{
				Index: 1, Width: 256, Height: 128,
				Placements: []model.Placement{
					place("bg", 200, 100, 1, 0, binpack.NewRect(0, 0, 200, 100)),
				},
				Free: []binpack.Rect{
					binpack.NewRect(200, 0, 56, 128),
					binpack.NewRect(0, 100, 256, 28),
				},
			},
		},
	}
}

func buildTestSettings() model.PackSettings {
	s := model.DefaultSettings()
	s.PageWidth, s.PageHeight = 256, 128
	return s
}

func requireFile(t *testing.T, path string, minSize int64) []byte {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("file was not created: %v", err)
	}
	if info.Size() < minSize {
		t.Fatalf("file seems too small: %d bytes", info.Size())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return data
}

func TestExportPDF_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atlas.pdf")

	if err := ExportPDF(path, buildTestResult(), buildTestSettings()); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}

	data := requireFile(t, path, 1000)
	if string(data[:4]) != "%PDF" {
		t.Errorf("expected a PDF header, got %q", data[:4])
	}
}

func TestExportPDF_EmptyResult(t *testing.T) {
	err := ExportPDF(filepath.Join(t.TempDir(), "empty.pdf"), model.AtlasResult{}, buildTestSettings())
	if !errors.Is(err, ErrNoPages) {
		t.Fatalf("expected ErrNoPages, got %v", err)
	}
}

func TestExportPDF_WithUnplacedSprites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unplaced.pdf")
	result := buildTestResult()
	for i := 0; i < 60; i++ {
		result.Unplaced = append(result.Unplaced, model.NewSprite(fmt.Sprintf("huge-%d", i), 4096, 4096, 1))
	}
	settings := buildTestSettings()
	settings.MaxPages = 2

	if err := ExportPDF(path, result, settings); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	requireFile(t, path, 1000)
}

func TestExportPDF_ManySprites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "many.pdf")

	page := model.PageResult{Width: 1024, Height: 1024}
	for i := 0; i < 100; i++ {
		x, y := (i%10)*100, (i/10)*100
		page.Placements = append(page.Placements,
			place(fmt.Sprintf("tile_%02d", i), 96, 96, 0, 2, binpack.NewRect(x, y, 100, 100)))
	}

	if err := ExportPDF(path, model.AtlasResult{Pages: []model.PageResult{page}}, buildTestSettings()); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	requireFile(t, path, 1000)
}

func TestLabelFontSize(t *testing.T) {
	tests := []struct {
		w, h float64
		want float64
	}{
		{100, 50, 8},
		{30, 100, 7},
		{15, 9, 6},
	}
	for _, tt := range tests {
		if got := labelFontSize(tt.w, tt.h); got != tt.want {
			t.Errorf("labelFontSize(%v, %v): expected %v, got %v", tt.w, tt.h, tt.want, got)
		}
	}
}
