package commands

import (
	"fmt"
	"os"

	"github.com/de-tools/material-atlas/pkg/services/importer"
	"github.com/spf13/cobra"
)

type TemplateCmd struct {
	output string
}

func NewTemplateCmd() *cobra.Command {
	tc := &TemplateCmd{}
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write the CSV import template",
		Args:  cobra.NoArgs,
		RunE:  tc.run,
	}
	cmd.Flags().StringVarP(&tc.output, "output", "o", importer.TemplateFilename, `Output path ("-" for stdout)`)
	return cmd
}

func (tc *TemplateCmd) run(cmd *cobra.Command, _ []string) error {
	if tc.output == "-" {
		return importer.WriteTemplate(cmd.OutOrStdout())
	}

	f, err := os.Create(tc.output)
	if err != nil {
		return fmt.Errorf("failed to create template file: %w", err)
	}
	if err := importer.WriteTemplate(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write template file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Template written to %s\n", tc.output)
	return nil
}
