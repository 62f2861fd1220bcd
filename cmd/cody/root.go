package main

import (
	"github.com/spf13/cobra"

	"github.com/bevzzz/cody/internal/version"
)

var (
	repoFlag      string
	formatFlag    string
	logLevelFlag  string
	logFormatFlag string
)

var rootCmd = &cobra.Command{
	Use:   "cody",
	Short: "Cody context engine",
	Long: `Cody is a codebase context retrieval engine. It ranks workspace files and
symbols against free-text queries, merges results from remote context
backends, and resolves selected items into prompt-ready content.`,
	Version: version.Info(),
}

func init() {
	rootCmd.SetVersionTemplate("cody version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&repoFlag, "repo", ".", "Workspace root directory")
	rootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "human", "Output format: human, json, or yaml")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, or error")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "", "Log format: human or json")
}
