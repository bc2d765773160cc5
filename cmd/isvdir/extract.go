package main

import (
	"fmt"

	"github.com/kapu/isv-directory/internal/extract"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	extractInput   string
	extractOutputs []string
	extractWorkers int
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Build the profiles document from the partner-landscape DOCX report",
	Long: `Every Heading1 paragraph of the report starts an ISV section. The section
text is scanned for partner types, system integrators, France notes, services,
program highlights and French specialists.`,
	Args: cobra.NoArgs,
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVarP(&extractInput, "input", "i", "", "DOCX report to read")
	extractCmd.Flags().StringSliceVarP(&extractOutputs, "output", "o", []string{"web/data/isv_profiles.json"}, "JSON file(s) to write")
	extractCmd.Flags().IntVar(&extractWorkers, "workers", 0, "Sections processed in parallel (0=auto)")
	_ = extractCmd.MarkFlagRequired("input")
}

func runExtract(cmd *cobra.Command, args []string) error {
	doc, err := extract.NewExtractor(extractWorkers, logger).ExtractFile(extractInput)
	if err != nil {
		return err
	}

	data, err := extract.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode profiles: %w", err)
	}
	if err := extract.WriteFiles(data, extractOutputs...); err != nil {
		return err
	}

	logger.Info("Profiles document written",
		zap.Strings("outputs", extractOutputs),
		zap.Int("profiles", len(doc.Profiles)),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d profiles to %v\n", len(doc.Profiles), extractOutputs)
	return nil
}
