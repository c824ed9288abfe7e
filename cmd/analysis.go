package cmd

import (
	"fmt"

	"github.com/codemetric/vibe-coding-tracker/analysis"
	"github.com/codemetric/vibe-coding-tracker/fileio"
	"github.com/codemetric/vibe-coding-tracker/ui"
	"github.com/spf13/cobra"
)

var (
	analysisPath   string
	analysisOutput string
	analysisTable  bool
	analysisAll    bool
)

var analysisCmd = &cobra.Command{
	Use:   "analysis",
	Short: "Display coding activity by date and model",
	Long: `Aggregate file operations, tool calls and shell commands across all
providers. Without flags a live TUI refreshes every second. --path analyzes
one session file, --all exports every session grouped by provider, --output
writes the result as pretty-printed JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if analysisPath != "" {
			return runSingleFileAnalysis()
		}
		if analysisAll {
			return runProviderGroupedAnalysis()
		}

		roots, err := fileio.ResolvePaths()
		if err != nil {
			return err
		}

		if !analysisTable && analysisOutput == "" {
			return ui.NewApp(ui.ModeAnalysis, roots, nil, cfg.App.RefreshInterval).Run()
		}

		rows, err := analysis.AggregateRows(roots, analysis.SharedCache())
		if err != nil {
			return err
		}

		if analysisOutput != "" {
			if err := fileio.SaveJSONPretty(analysisOutput, rows); err != nil {
				return err
			}
			fmt.Printf("Analysis result saved to: %s\n", analysisOutput)
			return nil
		}

		fmt.Print(ui.RenderAnalysisTable(rows))
		return nil
	},
}

// runSingleFileAnalysis analyzes one explicitly named session file. Unlike
// directory scans, failures here propagate to the exit code.
func runSingleFileAnalysis() error {
	result, err := analysis.AnalyzeSessionFile(analysisPath)
	if err != nil {
		return err
	}
	return printOrSave(result)
}

func runProviderGroupedAnalysis() error {
	roots, err := fileio.ResolvePaths()
	if err != nil {
		return err
	}
	grouped, err := analysis.AggregateByProvider(roots, analysis.SharedCache())
	if err != nil {
		return err
	}
	return printOrSave(grouped)
}

func printOrSave(v any) error {
	if analysisOutput != "" {
		if err := fileio.SaveJSONPretty(analysisOutput, v); err != nil {
			return err
		}
		fmt.Printf("Analysis result saved to: %s\n", analysisOutput)
		return nil
	}
	data, err := fileio.MarshalPretty(v)
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func init() {
	analysisCmd.Flags().StringVar(&analysisPath, "path", "", "analyze a single session file")
	analysisCmd.Flags().StringVar(&analysisOutput, "output", "", "write the result as JSON to this path")
	analysisCmd.Flags().BoolVar(&analysisTable, "table", false, "print a static table instead of the live view")
	analysisCmd.Flags().BoolVar(&analysisAll, "all", false, "export every session grouped by provider as JSON")
	rootCmd.AddCommand(analysisCmd)
}
