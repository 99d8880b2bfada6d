// Package account connects to the configured GA4 property.
package account

import (
	"context"
	"fmt"

	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/analytics"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/cache"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/credentials"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

type CredentialResolver interface {
	Resolve(ctx context.Context, pathHint string) (*google.Credentials, credentials.Source, error)
}

type Connector struct {
	resolver        CredentialResolver
	propertyID      string
	credentialsPath string
	opts            []option.ClientOption
}

func NewConnector(
	resolver CredentialResolver,
	propertyID, credentialsPath string,
	opts ...option.ClientOption,
) *Connector {
	return &Connector{
		resolver:        resolver,
		propertyID:      propertyID,
		credentialsPath: credentialsPath,
		opts:            opts,
	}
}

// Connect resolves credentials and builds a client for the property. Every
// call goes through full credential resolution.
func (c *Connector) Connect(ctx context.Context) (*analytics.Client, error) {
	creds, source, err := c.resolver.Resolve(ctx, c.credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve GA4 credentials: %w", err)
	}

	opts := append([]option.ClientOption{option.WithCredentials(creds)}, c.opts...)
	client, err := analytics.NewClient(ctx, c.propertyID, opts...)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("property", c.propertyID).
		Str("credentials", string(source)).
		Str("client_id", client.ID()).
		Msg("connected to GA4")
	return client, nil
}

// ClientFactory adapts Connect to the report cache.
func (c *Connector) ClientFactory() cache.ClientFactory {
	return func(ctx context.Context) (cache.Reporter, error) {
		client, err := c.Connect(ctx)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}
