package main

import (
	"fmt"
	"os"
	"time"

	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/server"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/account"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/analytics"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/cache"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/config"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/credentials"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/dashboard"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the GA4 web analytics dashboard",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to an optional YAML config file; environment variables take precedence")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	settings, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	secrets, err := config.OpenSecretStore(settings.SecretsPath)
	if err != nil {
		return fmt.Errorf("failed to open secret store: %w", err)
	}

	resolver := credentials.NewResolver(secrets, settings.SecretsSection, analytics.ReadonlyScope)
	connector := account.NewConnector(resolver, settings.PropertyID, settings.CredentialsPath)

	reports := cache.New(cache.Options{
		TTL:       settings.CacheTTL,
		NewClient: connector.ClientFactory(),
	})
	svc := dashboard.NewService(reports, settings.DefaultDateRange, time.Now)

	zerolog.Ctx(ctx).Info().
		Str("property", settings.PropertyID).
		Dur("cache_ttl", settings.CacheTTL).
		Int("default_date_range", settings.DefaultDateRange).
		Msg("settings loaded")

	api, err := server.NewWebAPI(server.Config{
		Addr: settings.Server.Addr(),
		Page: settings.Page,
		Dependencies: server.Dependencies{
			Cache:     reports,
			Dashboard: svc,
			Logger:    logger,
		},
	})
	if err != nil {
		return err
	}

	return api.Start()
}
