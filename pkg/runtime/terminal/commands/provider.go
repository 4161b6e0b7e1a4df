package commands

import (
	"context"

	"github.com/de-tools/material-atlas/pkg/models/domain"
	"github.com/de-tools/material-atlas/pkg/services/filter"
	"github.com/de-tools/material-atlas/pkg/services/reports"
	"github.com/spf13/cobra"
)

// ServiceProvider opens the report service on first use.
type ServiceProvider func(ctx context.Context) (reports.Service, error)

type filterFlags struct {
	period   string
	platform string
}

func (f *filterFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.period, "period", "all", "Period window (all, current, last3, last6)")
	cmd.Flags().StringVar(&f.platform, "platform", "all", "Platform (all, AVACEAD, AVAMEC)")
}

func (f *filterFlags) parse() (domain.ReportFilter, error) {
	period, err := filter.ParsePeriod(f.period)
	if err != nil {
		return domain.ReportFilter{}, err
	}
	platform, err := filter.ParsePlatform(f.platform)
	if err != nil {
		return domain.ReportFilter{}, err
	}
	return domain.ReportFilter{Period: period, Platform: platform}, nil
}
