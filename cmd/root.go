package cmd

import (
	"fmt"
	"os"

	"github.com/codemetric/vibe-coding-tracker/config"
	"github.com/codemetric/vibe-coding-tracker/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	logLevel string
	logFile  string
	debug    bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "vct",
	Short: "Vibe Coding Tracker",
	Long: `vct scans the session logs of Claude Code, Codex, Copilot CLI and
Gemini under your home directory, reconstructs per-session activity (token
usage, file operations, shell commands), prices tokens against the LiteLLM
catalog and renders aggregate views.

All analysis is local: session files are never modified and nothing is sent
off-host except the pricing catalog fetch.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfiguration()
		if err != nil {
			return err
		}

		if debug {
			cfg.App.Debug = true
			cfg.App.LogLevel = "debug"
		}
		logging.InitLogger(cfg.App.LogLevel, cfg.App.LogFile, cfg.App.Debug)
		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.vibetrack.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log file path (logs are discarded when unset)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug mode")

	bindFlag("app.log_level", rootCmd.PersistentFlags(), "log-level")
	bindFlag("app.log_file", rootCmd.PersistentFlags(), "log-file")
	bindFlag("app.debug", rootCmd.PersistentFlags(), "debug")
}

func bindFlag(key string, flags *pflag.FlagSet, name string) {
	if err := viper.BindPFlag(key, flags.Lookup(name)); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind %s flag: %v\n", name, err)
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".vibetrack")
	}

	viper.SetEnvPrefix("VCT")
	viper.AutomaticEnv()

	config.SetDefaults(viper.GetViper())

	// Missing config files are fine; the defaults cover everything.
	_ = viper.ReadInConfig()
}

func loadConfiguration() (*config.Config, error) {
	c, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return c, nil
}
