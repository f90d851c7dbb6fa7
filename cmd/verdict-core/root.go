package main

import (
	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "verdict-core",
	Short: "Structured legal analysis of unstructured case narratives",
	Long: "verdict-core turns a case narrative into structured legal analysis:\n" +
		"domain classification, statute section mapping, evidence extraction\nand a rendered report.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(sectionsCmd)
	rootCmd.AddCommand(evidenceCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.Version = version
}
