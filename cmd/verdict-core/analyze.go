package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/verdict-core/internal/core/domain"
	"github.com/custodia-labs/verdict-core/internal/core/ports/driving"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full analysis pipeline over one case",
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		statement, _ := cmd.Flags().GetString("statement")
		fir, _ := cmd.Flags().GetString("fir")
		files, _ := cmd.Flags().GetStringArray("file")
		outPath, _ := cmd.Flags().GetString("output")

		statement, err := readArg(statement)
		if err != nil {
			return err
		}
		fir, err = readArg(fir)
		if err != nil {
			return err
		}
		req := driving.AnalyzeCaseRequest{
			Title:         title,
			StatementText: statement,
			FIRText:       fir,
		}
		for _, path := range files {
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			req.Files = append(req.Files, domain.UploadedFile{
				Name:    filepath.Base(path),
				Content: content,
			})
		}

		a, err := buildApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		result, err := a.orchestrator.AnalyzeCase(cmd.Context(), req)
		if err != nil {
			return pipelineError(err)
		}

		if outPath != "" {
			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("write result: %w", err)
			}
		}

		fmt.Printf("Case:      %s\n", result.CaseID)
		fmt.Printf("Domain:    %s (confidence %.2f)\n", result.Classification.Domain, result.Classification.DomainConfidence)
		if result.Classification.PrimaryIssue != "" {
			fmt.Printf("Issue:     %s\n", result.Classification.PrimaryIssue)
		}
		fmt.Printf("Sections:  %d mapped\n", len(result.Sections.Sections))
		fmt.Printf("Evidence:  %d witnesses, %d documents, %d dates, %d locations, %d amounts\n",
			result.Evidence.Summary.TotalWitnesses,
			result.Evidence.Summary.TotalDocuments,
			result.Evidence.Summary.TotalDates,
			result.Evidence.Summary.TotalLocations,
			result.Evidence.Summary.TotalMonetary,
		)
		fmt.Printf("Analysis:  %s\n", result.Narrative.GeneratedVia)
		fmt.Printf("Report:    %s\n", result.Report.PDFPath)
		fmt.Printf("Markdown:  %s\n", result.Report.MarkdownPath)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().String("title", "", "Case title")
	analyzeCmd.Flags().String("statement", "", "Case statement text (or @path)")
	analyzeCmd.Flags().String("fir", "", "FIR text (or @path)")
	analyzeCmd.Flags().StringArray("file", nil, "Uploaded file path (repeatable)")
	analyzeCmd.Flags().String("output", "", "Write the full pipeline result JSON to this path")
}

// pipelineError renders a stage failure with the uniform error contract.
func pipelineError(err error) error {
	var stageErr *domain.StageError
	if errors.As(err, &stageErr) {
		return fmt.Errorf("stage %s failed [%s, correlation %s]: %v",
			stageErr.Stage, stageErr.Kind(), stageErr.CorrelationID, stageErr.Err)
	}
	return err
}
