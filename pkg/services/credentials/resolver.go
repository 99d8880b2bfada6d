package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/config"
	"github.com/isaacmartinez23/portafolio-web-analytics/pkg/services/notice"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2/google"
)

var (
	ErrCredentialsNotFound = errors.New("credentials not found")
	ErrCredentialsInvalid  = errors.New("credentials invalid")
)

type Source string

const (
	SourceSecretStore Source = "secret store"
	SourceFile        Source = "local file"
)

// serviceAccount holds the fields we require before handing the document
// over to the oauth2 library.
type serviceAccount struct {
	Type        string `json:"type"`
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
}

type Resolver struct {
	secrets config.SecretStore
	section string
	scopes  []string
}

func NewResolver(secrets config.SecretStore, section string, scopes ...string) *Resolver {
	return &Resolver{
		secrets: secrets,
		section: section,
		scopes:  scopes,
	}
}

// Resolve looks for service account material in the secret store first and
// falls back to the JSON file at pathHint.
func (r *Resolver) Resolve(ctx context.Context, pathHint string) (*google.Credentials, Source, error) {
	logger := zerolog.Ctx(ctx)
	board := notice.FromContext(ctx)

	if fields, ok := r.secrets.Section(r.section); ok {
		data, err := secretToJSON(fields)
		if err != nil {
			return nil, "", fmt.Errorf("%w: secret store section %q: %v", ErrCredentialsInvalid, r.section, err)
		}
		creds, err := r.parse(ctx, data)
		if err != nil {
			return nil, "", fmt.Errorf("secret store section %q: %w", r.section, err)
		}

		logger.Info().Str("section", r.section).Msg("using credentials from secret store")
		board.Info("Using credentials from the secret store (production)")
		return creds, SourceSecretStore, nil
	}

	data, err := os.ReadFile(pathHint)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, "", fmt.Errorf("%w: no %q section in the secret store and no file at %s",
			ErrCredentialsNotFound, r.section, pathHint)
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to read credentials file %s: %w", pathHint, err)
	}

	creds, err := r.parse(ctx, data)
	if err != nil {
		return nil, "", fmt.Errorf("credentials file %s: %w", pathHint, err)
	}

	logger.Warn().Str("path", pathHint).Msg("using local credentials file")
	board.Warn("Using local credentials file: %s (development)", pathHint)
	return creds, SourceFile, nil
}

func (r *Resolver) parse(ctx context.Context, data []byte) (*google.Credentials, error) {
	var sa serviceAccount
	if err := json.Unmarshal(data, &sa); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCredentialsInvalid, err)
	}
	if sa.Type != "service_account" {
		return nil, fmt.Errorf("%w: expected type service_account, got %q", ErrCredentialsInvalid, sa.Type)
	}
	if sa.ClientEmail == "" || sa.PrivateKey == "" {
		return nil, fmt.Errorf("%w: client_email and private_key are required", ErrCredentialsInvalid)
	}

	creds, err := google.CredentialsFromJSON(ctx, data, r.scopes...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCredentialsInvalid, err)
	}
	return creds, nil
}

// secretToJSON rebuilds the service account document from a flat secret
// section. Private keys stored on a single line keep their newlines escaped.
func secretToJSON(fields map[string]string) ([]byte, error) {
	doc := make(map[string]string, len(fields))
	for k, v := range fields {
		if k == "private_key" {
			v = strings.ReplaceAll(v, `\n`, "\n")
		}
		doc[k] = v
	}
	return json.Marshal(doc)
}
