package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/verdict-core/internal/core/domain"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify case text into a legal domain and issue labels",
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := textFlag(cmd)
		if err != nil {
			return err
		}

		a, err := buildApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		result, err := a.orchestrator.Classify(cmd.Context(), text)
		if err != nil {
			return pipelineError(err)
		}
		return printJSON(result)
	},
}

var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "Map a classified issue to ranked statute sections",
	RunE: func(cmd *cobra.Command, args []string) error {
		legalDomain, _ := cmd.Flags().GetString("domain")
		issue, _ := cmd.Flags().GetString("issue")
		secondary, _ := cmd.Flags().GetStringSlice("secondary")

		a, err := buildApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		mapping, err := a.orchestrator.MapSections(cmd.Context(), legalDomain, issue, secondary)
		if err != nil {
			return pipelineError(err)
		}
		return printJSON(mapping)
	},
}

var evidenceCmd = &cobra.Command{
	Use:   "evidence",
	Short: "Extract typed evidence entities from case text",
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := textFlag(cmd)
		if err != nil {
			return err
		}

		a, err := buildApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		bundle, err := a.orchestrator.ExtractEvidence(cmd.Context(), text)
		if err != nil {
			return pipelineError(err)
		}
		return printJSON(bundle)
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render analysis markdown into the per-case report artifacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		markdownArg, _ := cmd.Flags().GetString("markdown")
		caseID, _ := cmd.Flags().GetString("case-id")
		title, _ := cmd.Flags().GetString("title")

		markdownText, err := readArg(markdownArg)
		if err != nil {
			return err
		}

		a, err := buildApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		artifact, err := a.orchestrator.CompileReport(cmd.Context(), markdownText, domain.CaseMetadata{
			CaseID: caseID,
			Title:  title,
		})
		if err != nil {
			return pipelineError(err)
		}
		return printJSON(artifact)
	},
}

func init() {
	classifyCmd.Flags().String("text", "", "Case text (or @path)")
	evidenceCmd.Flags().String("text", "", "Case text (or @path)")

	sectionsCmd.Flags().String("domain", "", "Legal domain (required)")
	sectionsCmd.Flags().String("issue", "", "Primary issue label")
	sectionsCmd.Flags().StringSlice("secondary", nil, "Secondary issue labels")
	_ = sectionsCmd.MarkFlagRequired("domain")

	reportCmd.Flags().String("markdown", "", "Analysis markdown (or @path, required)")
	reportCmd.Flags().String("case-id", "", "Case id keying the artifact directory (required)")
	reportCmd.Flags().String("title", "", "Case title for the report header")
	_ = reportCmd.MarkFlagRequired("markdown")
	_ = reportCmd.MarkFlagRequired("case-id")
}

// textFlag reads the --text flag, expanding an @path reference.
func textFlag(cmd *cobra.Command) (string, error) {
	text, _ := cmd.Flags().GetString("text")
	if text == "" {
		return "", fmt.Errorf("--text is required")
	}
	return readArg(text)
}

// readArg expands "@path" arguments to the file's contents.
func readArg(arg string) (string, error) {
	if !strings.HasPrefix(arg, "@") {
		return arg, nil
	}
	content, err := os.ReadFile(strings.TrimPrefix(arg, "@"))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", strings.TrimPrefix(arg, "@"), err)
	}
	return string(content), nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
