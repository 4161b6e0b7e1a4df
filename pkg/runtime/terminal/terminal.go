package terminal

import (
	"context"
	"io"
	"os"

	"github.com/de-tools/material-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/material-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/material-atlas/pkg/services/reports"
	"github.com/spf13/cobra"
)

// OpenFunc builds the report service from the config file at path. The
// returned close function releases the store.
type OpenFunc func(ctx context.Context, configPath string) (reports.Service, func() error, error)

// ConfigureFunc runs before every command with the config file path and
// returns the context the command runs with, typically carrying a logger
// built from that config.
type ConfigureFunc func(ctx context.Context, configPath string) (context.Context, error)

// CLI represents the command-line interface
type CLI struct {
	open       OpenFunc
	configure  ConfigureFunc
	configPath string
	service    reports.Service
	closer     func() error
	reporter   *export.Reporter
	rootCmd    *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Open      OpenFunc
	Configure ConfigureFunc
	Output    io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		open:      opts.Open,
		configure: opts.Configure,
		reporter:  export.NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	cli.rootCmd.SetOut(opts.Output)
	return cli
}

func (cli *CLI) Execute() error {
	return cli.ExecuteContext(context.Background())
}

// ExecuteContext runs the command line with ctx, which carries the logger.
func (cli *CLI) ExecuteContext(ctx context.Context) error {
	defer cli.close()
	return cli.rootCmd.ExecuteContext(ctx)
}

// SetArgs overrides os.Args, for tests.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "material-atlas",
		Short:         "Teaching material production reports",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cli.configure == nil {
				return nil
			}
			ctx, err := cli.configure(cmd.Context(), cli.configPath)
			if err != nil {
				return err
			}
			cmd.SetContext(ctx)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&cli.configPath, "config", "c", "", "Path to the config file")

	cmd.AddCommand(commands.NewImportCmd(cli.serviceProvider))
	cmd.AddCommand(commands.NewTemplateCmd())
	cmd.AddCommand(commands.NewAddCmd(cli.serviceProvider))
	cmd.AddCommand(commands.NewListCmd(cli.serviceProvider, cli.reporter))
	cmd.AddCommand(commands.NewStatsCmd(cli.serviceProvider, cli.reporter))
	cmd.AddCommand(commands.NewShowCmd(cli.serviceProvider, cli.reporter))
	cmd.AddCommand(commands.NewExportCmd(cli.serviceProvider))

	return cmd
}

func (cli *CLI) serviceProvider(ctx context.Context) (reports.Service, error) {
	if cli.service != nil {
		return cli.service, nil
	}
	svc, closer, err := cli.open(ctx, cli.configPath)
	if err != nil {
		return nil, err
	}
	cli.service, cli.closer = svc, closer
	return svc, nil
}

func (cli *CLI) close() {
	if cli.closer != nil {
		_ = cli.closer()
	}
}
