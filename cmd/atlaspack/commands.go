package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/piwi3910/AtlasPack/internal/binpack"
	"github.com/piwi3910/AtlasPack/internal/engine"
	"github.com/piwi3910/AtlasPack/internal/model"
	"github.com/piwi3910/AtlasPack/internal/project"
)

func newCompareCmd(global *globalOptions) *cobra.Command {
	var (
		in       string
		whatIf   bool
		allModes bool
		settings settingsFlags
	)
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Pack the same sprites with every heuristic and compare the results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := global.loadConfig()
			if err != nil {
				return err
			}
			input, err := loadInput(in)
			input.report(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			base, err := settings.resolve(cmd, cfg, input.Settings)
			if err != nil {
				return err
			}

			var scenarios []engine.ComparisonScenario
			switch {
			case whatIf:
				scenarios = engine.BuildDefaultScenarios(base)
			case allModes:
				scenarios = engine.HeuristicScenarios(base, model.PackModes()...)
			default:
				scenarios = engine.HeuristicScenarios(base)
			}
			results, err := engine.CompareScenarios(scenarios, input.Sprites)
			if err != nil {
				return err
			}
			printComparison(cmd, results)
			return nil
		},
	}
	cmd.Flags().StringVarP(&in, "in", "i", "", "sprite list, image, image directory or project file")
	cmd.Flags().BoolVar(&whatIf, "what-if", false, "compare modes, padding and page size instead of heuristics")
	cmd.Flags().BoolVar(&allModes, "all-modes", false, "compare every heuristic in every pack mode")
	settings.register(cmd)
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func printComparison(cmd *cobra.Command, results []engine.ComparisonResult) {
	best := engine.Best(results)
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tSCENARIO\tPAGES\tPLACED\tUNPLACED\tOCCUPANCY")
	for i, r := range results {
		mark := ""
		if i == best {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%.1f%%\n",
			mark, r.Scenario.Name, r.PagesUsed, r.Placed, r.UnplacedCount, r.Occupancy*100)
	}
	tw.Flush()
}

func newEstimateCmd(global *globalOptions) *cobra.Command {
	var (
		in       string
		waste    float64
		settings settingsFlags
	)
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate the number of pages from the total sprite area",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := global.loadConfig()
			if err != nil {
				return err
			}
			input, err := loadInput(in)
			input.report(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			s, err := settings.resolve(cmd, cfg, input.Settings)
			if err != nil {
				return err
			}

			est := model.CalculatePageEstimate(input.Sprites, s.PageWidth, s.PageHeight, s.Padding, waste)
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "sprite area: %d px² (padding included)\n", est.TotalSpriteArea)
			fmt.Fprintf(w, "page area:   %d px² (%dx%d)\n", est.PageArea, s.PageWidth, s.PageHeight)
			fmt.Fprintf(w, "pages:       %.2f exact, %d minimum, %d with %.0f%% waste\n",
				est.PagesNeededExact, est.PagesNeededMin, est.PagesWithWaste, est.WastePercent)
			if est.Oversized > 0 {
				fmt.Fprintf(w, "oversized:   %d sprite(s) larger than a page\n", est.Oversized)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&in, "in", "i", "", "sprite list, image, image directory or project file")
	cmd.Flags().Float64Var(&waste, "waste", 15, "waste allowance in percent")
	settings.register(cmd)
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func newHeuristicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "heuristics",
		Short: "List the placement heuristics",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, h := range binpack.Heuristics() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-5s %s\n", h.Abbrev(), h)
			}
		},
	}
}

func newPresetsCmd() *cobra.Command {
	var importPath, exportPath string
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List, import or export the page size presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			inv, path, err := project.LoadOrCreateInventory()
			if err != nil {
				return err
			}
			if importPath != "" {
				if inv, err = project.ImportInventory(importPath, inv); err != nil {
					return err
				}
				if err := project.SaveInventory(path, inv); err != nil {
					return err
				}
			}
			if exportPath != "" {
				if err := project.ExportInventory(exportPath, inv); err != nil {
					return err
				}
			}
			for _, p := range inv.Presets {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&importPath, "import", "", "merge presets from a JSON file")
	cmd.Flags().StringVar(&exportPath, "export", "", "write the presets to a JSON file")
	return cmd
}

func newBackupCmd(global *globalOptions) *cobra.Command {
	var restore bool
	cmd := &cobra.Command{
		Use:   "backup FILE",
		Short: "Back up the config and presets to FILE, or restore them with --restore",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if restore {
				backup, err := project.ImportAllData(args[0])
				if err != nil {
					return err
				}
				if err := project.SaveAppConfig(global.path(), backup.Config); err != nil {
					return err
				}
				if err := project.SaveInventory(project.DefaultInventoryPath(), backup.Inventory); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "restored backup from %s (created %s)\n", args[0], backup.CreatedAt)
				return nil
			}

			cfg, err := global.loadConfig()
			if err != nil {
				return err
			}
			inv, _, err := project.LoadOrCreateInventory()
			if err != nil {
				return err
			}
			if err := project.ExportAllData(args[0], cfg, inv); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVar(&restore, "restore", false, "restore from FILE instead of writing it")
	return cmd
}
