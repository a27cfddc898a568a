package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/AtlasPack/internal/binpack"
	"github.com/piwi3910/AtlasPack/internal/importer"
	"github.com/piwi3910/AtlasPack/internal/model"
	"github.com/piwi3910/AtlasPack/internal/project"
)

// spriteInput is a loaded sprite list. Settings is set when the input was a
// saved project.
type spriteInput struct {
	Sprites  []model.Sprite
	Settings *model.PackSettings
	Warnings []string
	Errors   []string
}

// loadInput reads sprites from a CSV, Excel, DXF, image or project file, or
// from every image in a directory.
func loadInput(path string) (spriteInput, error) {
	path, err := project.ExpandPath(path)
	if err != nil {
		return spriteInput{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return spriteInput{}, err
	}

	var res importer.ImportResult
	switch ext := strings.ToLower(filepath.Ext(path)); {
	case info.IsDir():
		res = importer.ImportImages(path)
	case ext == project.Extension:
		proj, err := project.LoadProject(path)
		if err != nil {
			return spriteInput{}, err
		}
		return spriteInput{Sprites: proj.Sprites, Settings: &proj.Settings}, nil
	case ext == ".csv" || ext == ".tsv" || ext == ".txt":
		res = importer.ImportCSV(path)
	case ext == ".xlsx" || ext == ".xlsm":
		res = importer.ImportExcel(path)
	case ext == ".dxf":
		res = importer.ImportDXF(path)
	default:
		res = importer.ImportImageFiles([]string{path})
	}

	in := spriteInput{Sprites: res.Sprites, Warnings: res.Warnings, Errors: res.Errors}
	if len(in.Sprites) == 0 {
		if len(in.Errors) > 0 {
			return in, fmt.Errorf("%s: %s", path, in.Errors[0])
		}
		return in, fmt.Errorf("%s: no sprites found", path)
	}
	return in, nil
}

// report prints import warnings and row errors.
func (in spriteInput) report(w io.Writer) {
	for _, msg := range in.Warnings {
		fmt.Fprintln(w, "warning:", msg)
	}
	for _, msg := range in.Errors {
		fmt.Fprintln(w, "error:", msg)
	}
}

// settingsFlags are the pack settings that can be overridden on the command
// line.
type settingsFlags struct {
	preset        string
	width, height int
	heuristic     string
	padding       int
	mode          string
	maxPages      int
	legacyArea    bool
}

func (f *settingsFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.preset, "preset", "p", "", "page size preset name or ID (see the presets command)")
	fs.IntVarP(&f.width, "width", "W", 0, "page width in px")
	fs.IntVarP(&f.height, "height", "H", 0, "page height in px")
	fs.StringVar(&f.heuristic, "heuristic", "", "placement heuristic (BSSF, BLSF, BAF, BL, CP)")
	fs.IntVar(&f.padding, "padding", 0, "padding in px per side for sprites without their own")
	fs.StringVar(&f.mode, "mode", "", "pack mode (online, batch, genetic)")
	fs.IntVar(&f.maxPages, "max-pages", 0, "maximum number of pages, 0 for unlimited")
	fs.BoolVar(&f.legacyArea, "legacy-area-fit", false, "score BestAreaFit the way older packers did")
}

// resolve layers the settings: config defaults, then the project settings if
// any, then the page preset, then flags the user set explicitly.
func (f *settingsFlags) resolve(cmd *cobra.Command, cfg model.AppConfig, fromProject *model.PackSettings) (model.PackSettings, error) {
	s := cfg.Settings()
	if fromProject != nil {
		s = *fromProject
	}

	if f.preset != "" {
		preset, err := findPreset(f.preset)
		if err != nil {
			return s, err
		}
		preset.ApplyToSettings(&s)
	}

	fs := cmd.Flags()
	if fs.Changed("width") {
		s.PageWidth = f.width
	}
	if fs.Changed("height") {
		s.PageHeight = f.height
	}
	if fs.Changed("heuristic") {
		h, err := binpack.ParseHeuristic(f.heuristic)
		if err != nil {
			return s, err
		}
		s.Heuristic = h
	}
	if fs.Changed("padding") {
		s.Padding = f.padding
	}
	if fs.Changed("mode") {
		s.Mode = model.PackMode(strings.ToLower(f.mode))
	}
	if fs.Changed("max-pages") {
		s.MaxPages = f.maxPages
	}
	if fs.Changed("legacy-area-fit") {
		s.LegacyAreaFit = f.legacyArea
	}
	return s, nil
}

// findPreset looks a preset up in the saved inventory by name, then by ID.
func findPreset(key string) (model.PagePreset, error) {
	inv, _, err := project.LoadOrCreateInventory()
	if err != nil {
		return model.PagePreset{}, err
	}
	if p := inv.FindPresetByName(key); p != nil {
		return *p, nil
	}
	if p := inv.FindPresetByID(key); p != nil {
		return *p, nil
	}
	return model.PagePreset{}, fmt.Errorf("unknown preset %q (available: %s)", key, strings.Join(inv.PresetNames(), ", "))
}
