package terminal

import (
	"context"
	"io"
	"os"

	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/runtime/terminal/commands"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	connect         commands.ConnectFunc
	ranges          commands.RangeResolver
	credentialsPath string
	reporter        *export.Reporter
	rootCmd         *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Connect         commands.ConnectFunc
	Ranges          commands.RangeResolver
	CredentialsPath string
	Output          io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		connect:         opts.Connect,
		ranges:          opts.Ranges,
		credentialsPath: opts.CredentialsPath,
		reporter:        export.NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

// SetArgs overrides os.Args, mostly for tests.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "dashboard-cli",
		Short:         "GA4 reports in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(commands.NewCheckCmd(cli.connect, cli.reporter, cli.credentialsPath))
	cmd.AddCommand(commands.NewKindsCmd(cli.reporter))
	cmd.AddCommand(commands.NewReportCmd(cli.connect, cli.ranges, cli.reporter))

	return cmd
}
