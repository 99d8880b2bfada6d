package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/runtime/terminal"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/runtime/terminal/commands"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/account"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/analytics"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/config"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/credentials"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/dashboard"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(zerolog.WarnLevel).
		With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		logger.Debug().Err(err).Msg("no .env file loaded")
	}
	ctx := logger.WithContext(context.Background())

	settings, err := config.Load(os.Getenv("DASHBOARD_CONFIG"))
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	secrets, err := config.OpenSecretStore(settings.SecretsPath)
	if err != nil {
		return fmt.Errorf("failed to open secret store: %w", err)
	}

	resolver := credentials.NewResolver(secrets, settings.SecretsSection, analytics.ReadonlyScope)
	connector := account.NewConnector(resolver, settings.PropertyID, settings.CredentialsPath)

	cli := terminal.NewCLI(terminal.Options{
		Connect: func(ctx context.Context) (commands.Client, error) {
			client, err := connector.Connect(ctx)
			if err != nil {
				return nil, err
			}
			return client, nil
		},
		Ranges:          dashboard.NewRanges(settings.DefaultDateRange, time.Now),
		CredentialsPath: settings.CredentialsPath,
		Output:          os.Stdout,
	})

	return cli.Execute(ctx)
}
