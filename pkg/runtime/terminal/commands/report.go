package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/adapters"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/models/domain"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/runtime/terminal/export"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/analytics"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/notice"
	"github.com/spf13/cobra"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

type ReportCmd struct {
	kind   string
	from   string
	to     string
	output string

	connect  ConnectFunc
	ranges   RangeResolver
	reporter *export.Reporter
	now      func() time.Time
}

func NewReportCmd(connect ConnectFunc, ranges RangeResolver, reporter *export.Reporter) *cobra.Command {
	rc := &ReportCmd{
		connect:  connect,
		ranges:   ranges,
		reporter: reporter,
		now:      time.Now,
	}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run a report and print the normalized table",
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.kind, "kind", "", "Report kind (see the kinds command)")
	cmd.Flags().StringVar(&rc.from, "from", "", "Start date, YYYY-MM-DD")
	cmd.Flags().StringVar(&rc.to, "to", "", "End date, YYYY-MM-DD (at most yesterday)")
	cmd.Flags().StringVarP(&rc.output, "output", "o", outputTable, "Output format: table or json")

	_ = cmd.MarkFlagRequired("kind")

	return cmd
}

func (rc *ReportCmd) run(cmd *cobra.Command, _ []string) error {
	kind, err := analytics.ParseKind(rc.kind)
	if err != nil {
		return err
	}
	if rc.output != outputTable && rc.output != outputJSON {
		return fmt.Errorf("unsupported output format %q", rc.output)
	}

	board := notice.NewBoard()
	ctx, cancel := context.WithTimeout(notice.WithBoard(cmd.Context(), board), 60*time.Second)
	defer cancel()

	var period *domain.DateRange
	if preset, _ := analytics.PresetFor(kind); preset.Mode == domain.ModeStandard {
		resolved := rc.ranges.ResolveRange(ctx, rc.from, rc.to)
		period = &resolved
	}

	client, err := rc.connect(ctx)
	if err != nil {
		rc.reporter.Notices(board.Notices())
		return fmt.Errorf("failed to create GA4 client: %w", err)
	}

	table := client.Report(ctx, kind, period)
	notices := board.Notices()

	if rc.output == outputJSON {
		if err := rc.reporter.JSON(adapters.MapTableDomainToApi(kind, period, table, notices, rc.now().UTC())); err != nil {
			return err
		}
	} else {
		rc.reporter.Notices(notices)
		if err := rc.reporter.Table(string(kind), period, table); err != nil {
			return err
		}
		if kind == analytics.KindBasic {
			if err := rc.reporter.Trend(table, analytics.DimensionDate, analytics.MetricSessions); err != nil {
				return err
			}
		}
	}

	if board.Count(notice.LevelError) > 0 {
		return fmt.Errorf("%s report failed", kind)
	}
	return nil
}
