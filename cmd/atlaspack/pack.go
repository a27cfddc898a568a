package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/AtlasPack/internal/engine"
	"github.com/piwi3910/AtlasPack/internal/export"
	"github.com/piwi3910/AtlasPack/internal/model"
	"github.com/piwi3910/AtlasPack/internal/project"
)

const (
	manifestFile = "atlas.json"
	reportFile   = "atlas.pdf"
	labelsFile   = "labels.pdf"
	sheetFile    = "atlas.xlsx"
	recentLimit  = 10
)

type packOptions struct {
	in, out     string
	settings    settingsFlags
	pdf         bool
	labels      bool
	xlsx        bool
	preview     bool
	saveProject string
}

func newPackCmd(global *globalOptions) *cobra.Command {
	opts := &packOptions{}
	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Pack sprites and write the atlas manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPack(cmd, global, opts)
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&opts.in, "in", "i", "", "sprite list, image, image directory or project file")
	fs.StringVarP(&opts.out, "out", "o", ".", "output directory")
	fs.BoolVar(&opts.pdf, "pdf", false, "write a PDF layout report")
	fs.BoolVar(&opts.labels, "labels", false, "write QR code labels as PDF")
	fs.BoolVar(&opts.xlsx, "xlsx", false, "write the placements as an Excel workbook")
	fs.BoolVar(&opts.preview, "preview", false, "write a PNG preview per page")
	fs.StringVar(&opts.saveProject, "save-project", "", "save sprites, settings and result as a project file")
	opts.settings.register(cmd)
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func runPack(cmd *cobra.Command, global *globalOptions, opts *packOptions) error {
	cfg, err := global.loadConfig()
	if err != nil {
		return err
	}
	in, err := loadInput(opts.in)
	in.report(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	settings, err := opts.settings.resolve(cmd, cfg, in.Settings)
	if err != nil {
		return err
	}

	result, err := engine.New(settings).Build(in.Sprites)
	if err != nil {
		return err
	}
	if violations := engine.Validate(result); len(violations) > 0 {
		return fmt.Errorf("layout check failed: %s", violations[0])
	}

	out, err := project.ExpandPath(opts.out)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(out, 0755); err != nil {
		return err
	}
	written, err := writeOutputs(out, result, settings, opts)
	if err != nil {
		return err
	}

	if opts.saveProject != "" {
		path := project.WithExtension(opts.saveProject)
		proj := model.NewProject()
		proj.Name = strings.TrimSuffix(filepath.Base(path), project.Extension)
		proj.Sprites = in.Sprites
		proj.Settings = settings
		proj.Result = &result
		if err := project.SaveProject(path, proj); err != nil {
			return err
		}
		written = append(written, path)
		cfg.AddRecentProject(path, recentLimit)
		if err := project.SaveAppConfig(global.path(), cfg); err != nil {
			return err
		}
	}

	w := cmd.OutOrStdout()
	printSummary(w, result)
	for _, path := range written {
		fmt.Fprintln(w, "wrote", path)
	}
	if len(result.Unplaced) > 0 {
		return fmt.Errorf("%w: %d sprite(s)", errUnplaced, len(result.Unplaced))
	}
	return nil
}

func writeOutputs(dir string, result model.AtlasResult, settings model.PackSettings, opts *packOptions) ([]string, error) {
	var written []string

	path := filepath.Join(dir, manifestFile)
	if err := export.ExportManifest(path, result); err != nil {
		return written, err
	}
	written = append(written, path)

	if len(result.Pages) == 0 {
		return written, nil
	}
	if opts.preview {
		paths, err := export.ExportPreviews(dir, result)
		if err != nil {
			return written, err
		}
		written = append(written, paths...)
	}
	if opts.pdf {
		path := filepath.Join(dir, reportFile)
		if err := export.ExportPDF(path, result, settings); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	if opts.labels {
		path := filepath.Join(dir, labelsFile)
		if err := export.ExportLabels(path, result); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	if opts.xlsx {
		path := filepath.Join(dir, sheetFile)
		if err := export.ExportExcel(path, result); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func printSummary(w io.Writer, result model.AtlasResult) {
	for _, p := range result.Pages {
		fmt.Fprintf(w, "page %d: %dx%d, %d sprite(s), %.1f%% used\n",
			p.Index, p.Width, p.Height, len(p.Placements), p.Occupancy()*100)
	}
	fmt.Fprintf(w, "%d placed on %d page(s), %.1f%% overall\n",
		result.PlacementCount(), len(result.Pages), result.TotalOccupancy()*100)
	for _, s := range result.Unplaced {
		fmt.Fprintf(w, "unplaced: %s (%dx%d)\n", s.Label, s.Width, s.Height)
	}
}
