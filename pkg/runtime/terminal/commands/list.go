package commands

import (
	"github.com/de-tools/material-atlas/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

type ListCmd struct {
	filter   filterFlags
	service  ServiceProvider
	reporter *export.Reporter
}

func NewListCmd(service ServiceProvider, reporter *export.Reporter) *cobra.Command {
	lc := &ListCmd{service: service, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored reports",
		Args:  cobra.NoArgs,
		RunE:  lc.run,
	}
	lc.filter.bind(cmd)
	return cmd
}

func (lc *ListCmd) run(cmd *cobra.Command, _ []string) error {
	f, err := lc.filter.parse()
	if err != nil {
		return err
	}
	svc, err := lc.service(cmd.Context())
	if err != nil {
		return err
	}
	return lc.reporter.List(svc.List(cmd.Context(), f))
}

type StatsCmd struct {
	filter   filterFlags
	service  ServiceProvider
	reporter *export.Reporter
}

func NewStatsCmd(service ServiceProvider, reporter *export.Reporter) *cobra.Command {
	sc := &StatsCmd{service: service, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate statistics",
		Args:  cobra.NoArgs,
		RunE:  sc.run,
	}
	sc.filter.bind(cmd)
	return cmd
}

func (sc *StatsCmd) run(cmd *cobra.Command, _ []string) error {
	f, err := sc.filter.parse()
	if err != nil {
		return err
	}
	svc, err := sc.service(cmd.Context())
	if err != nil {
		return err
	}
	return sc.reporter.Dashboard(svc.Dashboard(cmd.Context(), f))
}

type ShowCmd struct {
	service  ServiceProvider
	reporter *export.Reporter
}

func NewShowCmd(service ServiceProvider, reporter *export.Reporter) *cobra.Command {
	sc := &ShowCmd{service: service, reporter: reporter}
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one report with its narrative",
		Args:  cobra.ExactArgs(1),
		RunE:  sc.run,
	}
}

func (sc *ShowCmd) run(cmd *cobra.Command, args []string) error {
	svc, err := sc.service(cmd.Context())
	if err != nil {
		return err
	}
	report, err := svc.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	n, err := svc.Narrative(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return sc.reporter.Report(report, n)
}
