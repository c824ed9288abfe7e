package cmd

import (
	"fmt"
	"os"

	"github.com/codemetric/vibe-coding-tracker/fileio"
	"github.com/codemetric/vibe-coding-tracker/logging"
	"github.com/codemetric/vibe-coding-tracker/pricing"
	"github.com/codemetric/vibe-coding-tracker/ui"
	"github.com/codemetric/vibe-coding-tracker/usage"
	"github.com/spf13/cobra"
)

var (
	usageTable   bool
	usageText    bool
	usageJSON    bool
	usageOffline bool
)

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Display token usage and cost by date and model",
	Long: `Aggregate token usage across all providers, price it against the
LiteLLM catalog and display it. Without flags a live TUI refreshes every
second; --table, --text and --json print once and exit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		roots, err := fileio.ResolvePaths()
		if err != nil {
			return err
		}

		if usageOffline {
			cfg.Pricing.Offline = true
		}
		pricingMap := loadPricingMap(roots)

		if !usageTable && !usageText && !usageJSON {
			return ui.NewApp(ui.ModeUsage, roots, pricingMap, cfg.App.RefreshInterval).Run()
		}

		rows, err := usage.Aggregate(roots, pricingMap)
		if err != nil {
			return err
		}

		switch {
		case usageJSON:
			data, err := fileio.MarshalPretty(usage.GroupRowsByDate(rows))
			if err != nil {
				return err
			}
			fmt.Println(string(data))
		case usageText:
			for _, row := range rows {
				fmt.Printf("%s > %s: $%v\n", row.Date, row.Model, row.CostUSD)
			}
		default:
			fmt.Print(ui.RenderUsageTable(rows))
		}
		return nil
	},
}

// loadPricingMap loads the catalog, degrading to nil (all costs $0.00) when
// neither the network nor a cached catalog is available.
func loadPricingMap(roots *fileio.SessionRoots) *pricing.PricingMap {
	catalog := pricing.NewCatalog(roots.AppDir, cfg.Pricing)
	pricingMap, err := catalog.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v. Costs will show as $0.00.\n", err)
		logging.LogWarnf("pricing unavailable: %v", err)
		return nil
	}
	logging.LogDebugf("loaded pricing catalog with %d models", pricingMap.Len())
	return pricingMap
}

func init() {
	usageCmd.Flags().BoolVar(&usageTable, "table", false, "print a static table instead of the live view")
	usageCmd.Flags().BoolVar(&usageText, "text", false, "print plain text lines (date > model: $cost)")
	usageCmd.Flags().BoolVar(&usageJSON, "json", false, "print the per-date JSON with full-precision costs")
	usageCmd.Flags().BoolVar(&usageOffline, "offline", false, "use cached pricing data without fetching")
	rootCmd.AddCommand(usageCmd)
}
