package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type ImportCmd struct {
	service ServiceProvider
}

func NewImportCmd(service ServiceProvider) *cobra.Command {
	ic := &ImportCmd{service: service}
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import a report from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE:  ic.run,
	}
}

func (ic *ImportCmd) run(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	svc, err := ic.service(cmd.Context())
	if err != nil {
		return err
	}
	report, err := svc.Import(cmd.Context(), f)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Dados do período %s importados com sucesso.\n", report.Period)
	fmt.Fprintf(cmd.OutOrStdout(), "ID: %s\n", report.ID)
	return nil
}
