package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/de-tools/material-atlas/pkg/models/domain"
	"github.com/spf13/cobra"
)

type AddCmd struct {
	period     string
	start      string
	end        string
	ebooks     int
	printed    int
	identities int
	materials  []string
	service    ServiceProvider
}

func NewAddCmd(service ServiceProvider) *cobra.Command {
	ac := &AddCmd{service: service}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Save a manually entered report",
		Args:  cobra.NoArgs,
		RunE:  ac.run,
	}

	cmd.Flags().StringVar(&ac.period, "period", "", "Report period (e.g. Janeiro/2025)")
	cmd.Flags().StringVar(&ac.start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&ac.end, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&ac.ebooks, "ebooks", 0, "Finished e-books")
	cmd.Flags().IntVar(&ac.printed, "printed", 0, "Printed books")
	cmd.Flags().IntVar(&ac.identities, "identities", 0, "Visual identities created")
	cmd.Flags().StringArrayVar(&ac.materials, "material", nil, "Diagrammed material as PLATFORM:PROGRAM:QUANTITY (repeatable)")

	_ = cmd.MarkFlagRequired("period")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func (ac *AddCmd) run(cmd *cobra.Command, _ []string) error {
	materials := make([]domain.DiagrammedMaterial, 0, len(ac.materials))
	for _, raw := range ac.materials {
		m, err := ParseMaterial(raw)
		if err != nil {
			return err
		}
		materials = append(materials, m)
	}

	svc, err := ac.service(cmd.Context())
	if err != nil {
		return err
	}
	report, err := svc.SaveManual(cmd.Context(), domain.ManualEntry{
		Period:           ac.period,
		StartDate:        ac.start,
		EndDate:          ac.end,
		Ebooks:           ac.ebooks,
		PrintedBooks:     ac.printed,
		VisualIdentities: ac.identities,
		Materials:        materials,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Relatório salvo: %s (%s)\n", report.Period, report.ID)
	return nil
}

// ParseMaterial reads PLATFORM:PROGRAM:QUANTITY. The program may itself
// contain colons.
func ParseMaterial(raw string) (domain.DiagrammedMaterial, error) {
	first := strings.Index(raw, ":")
	last := strings.LastIndex(raw, ":")
	if first < 0 || first == last {
		return domain.DiagrammedMaterial{}, domain.NewValidationError("material",
			fmt.Sprintf("%q is not PLATFORM:PROGRAM:QUANTITY", raw))
	}

	quantity, err := strconv.Atoi(strings.TrimSpace(raw[last+1:]))
	if err != nil {
		return domain.DiagrammedMaterial{}, domain.NewValidationError("material",
			fmt.Sprintf("%q has a non-numeric quantity", raw))
	}

	return domain.DiagrammedMaterial{
		Platform: domain.Platform(strings.ToUpper(strings.TrimSpace(raw[:first]))),
		Program:  strings.TrimSpace(raw[first+1 : last]),
		Quantity: quantity,
	}, nil
}
