package terminal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/models/api"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/models/domain"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/runtime/terminal/commands"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/analytics"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/dashboard"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/notice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	fail       bool
	kind       analytics.ReportKind
	period     *domain.DateRange
	basicCalls int
}

func (f *fakeClient) PropertyID() string { return "42" }

func (f *fakeClient) Report(ctx context.Context, kind analytics.ReportKind, period *domain.DateRange) domain.Table {
	f.kind, f.period = kind, period
	if f.fail {
		notice.FromContext(ctx).Error("Failed to fetch report data: quota exceeded")
		return domain.Table{}
	}
	return domain.Table{
		Columns: []domain.Column{
			{Name: "date", Kind: domain.ColumnDimension},
			{Name: "sessions", Kind: domain.ColumnMetric},
		},
		Records: []domain.Record{
			{domain.DateValue(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)), domain.IntValue(20)},
			{domain.DateValue(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)), domain.IntValue(10)},
		},
	}
}

func (f *fakeClient) BasicReport(
	ctx context.Context,
	_ domain.DateRange,
	_, _ []string,
	_ int64,
) domain.Table {
	f.basicCalls++
	if f.fail {
		notice.FromContext(ctx).Error("Failed to fetch report data: permission denied")
		return domain.Table{}
	}
	return domain.Table{
		Columns: []domain.Column{{Name: "activeUsers", Kind: domain.ColumnMetric}},
		Records: []domain.Record{{domain.IntValue(17)}},
	}
}

func runCLI(t *testing.T, client *fakeClient, connectErr error, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cli := NewCLI(Options{
		Connect: func(context.Context) (commands.Client, error) {
			if connectErr != nil {
				return nil, connectErr
			}
			return client, nil
		},
		Ranges: dashboard.NewRanges(30, func() time.Time {
			return time.Date(2024, 2, 15, 9, 0, 0, 0, time.UTC)
		}),
		CredentialsPath: "credentials.json",
		Output:          &out,
	})
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return out.String(), err
}

func TestCLI_Kinds(t *testing.T) {
	out, err := runCLI(t, &fakeClient{}, nil, "kinds")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[0], "basic"))
	assert.Contains(t, lines[5], "dimensions=[-]")
}

func TestCLI_Report_Table(t *testing.T) {
	client := &fakeClient{}
	out, err := runCLI(t, client, nil, "report", "--kind", "basic", "--from", "2024-01-01", "--to", "2024-01-02")
	require.NoError(t, err)

	assert.Equal(t, analytics.KindBasic, client.kind)
	require.NotNil(t, client.period)
	assert.Equal(t, "2024-01-01..2024-01-02", client.period.String())
	assert.Contains(t, out, "| date       | sessions |")
	assert.Contains(t, out, "sessions per day, 2024-01-01 to 2024-01-02")
}

func TestCLI_Report_RealtimeHasNoPeriod(t *testing.T) {
	client := &fakeClient{}
	_, err := runCLI(t, client, nil, "report", "--kind", "realtime")
	require.NoError(t, err)

	assert.Equal(t, analytics.KindRealtime, client.kind)
	assert.Nil(t, client.period)
}

func TestCLI_Report_JSON(t *testing.T) {
	out, err := runCLI(t, &fakeClient{}, nil, "report", "--kind", "pages", "-o", "json", "--from", "2024-01-01", "--to", "2024-01-31")
	require.NoError(t, err)

	var report api.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "pages", report.Kind)
	assert.Len(t, report.Rows, 2)
}

func TestCLI_Report_FetchFailure(t *testing.T) {
	out, err := runCLI(t, &fakeClient{fail: true}, nil, "report", "--kind", "devices")
	require.Error(t, err)
	assert.Contains(t, out, "quota exceeded")
}

func TestCLI_Report_Invalid(t *testing.T) {
	_, err := runCLI(t, &fakeClient{}, nil, "report", "--kind", "funnels")
	assert.ErrorContains(t, err, "unsupported report kind")

	_, err = runCLI(t, &fakeClient{}, nil, "report", "--kind", "basic", "-o", "xml")
	assert.ErrorContains(t, err, "unsupported output format")

	_, err = runCLI(t, &fakeClient{}, nil, "report")
	assert.Error(t, err)
}

func TestCLI_Check(t *testing.T) {
	tests := []struct {
		name        string
		client      *fakeClient
		connectErr  error
		expectErr   bool
		expectedOut string
	}{
		{
			name:        "connected",
			client:      &fakeClient{},
			expectedOut: "📊 Active users, last 7 days: 17",
		},
		{
			name:        "fetch fails",
			client:      &fakeClient{fail: true},
			expectErr:   true,
			expectedOut: "permission denied",
		},
		{
			name:        "no credentials",
			client:      &fakeClient{},
			connectErr:  errors.New("credentials not found"),
			expectErr:   true,
			expectedOut: "🔍 Credentials: credentials.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, tt.client, tt.connectErr, "check")
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Contains(t, out, tt.expectedOut)
		})
	}
}
