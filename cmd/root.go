/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "docs-chat-be",
	Short: "Documentation chat assistant backend",
	Long: `Backend for a documentation chat assistant. Answers questions with
retrieval-augmented generation over a curated documentation corpus and
ingested YouTube video transcripts.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "config/config.yaml", "config file")
}
