package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

type ExportCmd struct {
	dir     string
	service ServiceProvider
}

func NewExportCmd(service ServiceProvider) *cobra.Command {
	ec := &ExportCmd{service: service}
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a report as PDF",
		Args:  cobra.ExactArgs(1),
		RunE:  ec.run,
	}
	cmd.Flags().StringVarP(&ec.dir, "output", "o", ".", "Output directory")
	return cmd
}

func (ec *ExportCmd) run(cmd *cobra.Command, args []string) error {
	svc, err := ec.service(cmd.Context())
	if err != nil {
		return err
	}
	doc, err := svc.Export(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if err := os.MkdirAll(ec.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	// periods such as "Janeiro/2025" must not become directories
	path := filepath.Join(ec.dir, strings.ReplaceAll(doc.Filename, "/", "-"))
	if err := os.WriteFile(path, doc.Content, 0o644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d page(s) to %s\n", doc.Pages, path)
	return nil
}
