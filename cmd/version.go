package cmd

import (
	"fmt"
	"runtime"

	"github.com/codemetric/vibe-coding-tracker/fileio"
	"github.com/codemetric/vibe-coding-tracker/models"
	"github.com/spf13/cobra"
)

var (
	versionJSON bool
	versionText bool
)

type versionInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := versionInfo{
			Version:   models.Version,
			GitCommit: models.GitCommit,
			BuildTime: models.BuildTime,
			GoVersion: runtime.Version(),
			Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		}

		switch {
		case versionJSON:
			data, err := fileio.MarshalPretty(info)
			if err != nil {
				return err
			}
			fmt.Println(string(data))
		case versionText:
			fmt.Println(info.Version)
		default:
			fmt.Printf("vct %s\n", info.Version)
			fmt.Printf("  commit:   %s\n", info.GitCommit)
			fmt.Printf("  built:    %s\n", info.BuildTime)
			fmt.Printf("  go:       %s\n", info.GoVersion)
			fmt.Printf("  platform: %s\n", info.Platform)
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "print version info as JSON")
	versionCmd.Flags().BoolVar(&versionText, "text", false, "print the bare version string")
	rootCmd.AddCommand(versionCmd)
}
