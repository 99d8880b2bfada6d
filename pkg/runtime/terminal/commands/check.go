package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/models/domain"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/runtime/terminal/export"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/analytics"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/notice"
	"github.com/spf13/cobra"
)

const checkWindowDays = 7

type CheckCmd struct {
	connect         ConnectFunc
	reporter        *export.Reporter
	credentialsPath string
	now             func() time.Time
}

func NewCheckCmd(connect ConnectFunc, reporter *export.Reporter, credentialsPath string) *cobra.Command {
	cc := &CheckCmd{
		connect:         connect,
		reporter:        reporter,
		credentialsPath: credentialsPath,
		now:             time.Now,
	}
	return &cobra.Command{
		Use:   "check",
		Short: "Test the connection to the GA4 property",
		RunE:  cc.run,
	}
}

func (cc *CheckCmd) run(cmd *cobra.Command, _ []string) error {
	board := notice.NewBoard()
	ctx, cancel := context.WithTimeout(notice.WithBoard(cmd.Context(), board), 60*time.Second)
	defer cancel()

	cc.reporter.Printf("🔍 Credentials: %s\n", cc.credentialsPath)

	client, err := cc.connect(ctx)
	cc.reporter.Notices(board.Notices())
	if err != nil {
		return fmt.Errorf("failed to create GA4 client: %w", err)
	}
	cc.reporter.Printf("🔍 Property ID: %s\n", client.PropertyID())
	cc.reporter.Printf("✅ GA4 client created\n")

	fetchBoard := notice.NewBoard()
	ctx = notice.WithBoard(ctx, fetchBoard)

	today := domain.TruncateDay(cc.now())
	period := domain.NewDateRange(today.AddDate(0, 0, -checkWindowDays), today)
	table := client.BasicReport(ctx, period, []string{analytics.MetricActiveUsers}, nil, 1)

	if fetchBoard.Count(notice.LevelError) > 0 {
		cc.reporter.Notices(fetchBoard.Notices())
		return fmt.Errorf("connection test failed")
	}
	cc.reporter.Printf("✅ Connected to GA4\n")

	if table.Empty() {
		cc.reporter.Printf("⚠️  No data available\n")
		return nil
	}
	cc.reporter.Printf("📊 Active users, last %d days: %s\n",
		checkWindowDays, table.Records[0][0].String())
	return nil
}
