package account

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/models/domain"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/analytics"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

type stubResolver struct {
	creds *google.Credentials
	err   error
	hints []string
}

func (s *stubResolver) Resolve(_ context.Context, pathHint string) (*google.Credentials, credentials.Source, error) {
	s.hints = append(s.hints, pathHint)
	if s.err != nil {
		return nil, "", s.err
	}
	return s.creds, credentials.SourceFile, nil
}

func TestConnector_Connect(t *testing.T) {
	var authHeader, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"metricHeaders": []map[string]any{{"name": "activeUsers", "type": "TYPE_INTEGER"}},
			"rows": []map[string]any{
				{"metricValues": []map[string]any{{"value": "17"}}},
			},
			"rowCount": 1,
		})
	}))
	defer srv.Close()

	resolver := &stubResolver{creds: &google.Credentials{
		ProjectID:   "portfolio",
		TokenSource: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token"}),
	}}
	connector := NewConnector(resolver, "42", "credentials.json", option.WithEndpoint(srv.URL+"/"))

	client, err := connector.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "42", client.PropertyID())
	assert.Equal(t, []string{"credentials.json"}, resolver.hints)

	period := domain.NewDateRange(time.Now().AddDate(0, 0, -7), time.Now())
	table := client.BasicReport(context.Background(), period, []string{analytics.MetricActiveUsers}, nil, 1)

	require.Equal(t, 1, table.Len())
	assert.Equal(t, float64(17), table.Sum(analytics.MetricActiveUsers))
	assert.Equal(t, "Bearer test-token", authHeader)
	assert.Equal(t, "/v1beta/properties/42:runReport", path)
}

func TestConnector_ResolveFailure(t *testing.T) {
	resolver := &stubResolver{err: credentials.ErrCredentialsNotFound}
	connector := NewConnector(resolver, "42", "missing.json")

	_, err := connector.Connect(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, credentials.ErrCredentialsNotFound))

	reporter, err := connector.ClientFactory()(context.Background())
	assert.Nil(t, reporter)
	assert.ErrorIs(t, err, credentials.ErrCredentialsNotFound)
}

func TestConnector_ClientFactoryBuildsDistinctClients(t *testing.T) {
	resolver := &stubResolver{creds: &google.Credentials{
		TokenSource: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "t"}),
	}}
	factory := NewConnector(resolver, "42", "credentials.json").ClientFactory()

	first, err := factory(context.Background())
	require.NoError(t, err)
	second, err := factory(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first.ID(), second.ID())
	assert.Len(t, resolver.hints, 2)
}
