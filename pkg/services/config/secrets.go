package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/ini.v1"
)

// SecretStore exposes named sections of an INI secrets file.
type SecretStore interface {
	Section(name string) (map[string]string, bool)
}

type iniSecretStore struct {
	cfg *ini.File
}

// OpenSecretStore loads the secrets file at path. A missing file yields an
// empty store rather than an error; local development runs without one.
func OpenSecretStore(path string) (SecretStore, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return emptyStore{}, nil
	}

	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load secrets file %s: %w", path, err)
	}
	return &iniSecretStore{cfg: cfg}, nil
}

func (s *iniSecretStore) Section(name string) (map[string]string, bool) {
	section, err := s.cfg.GetSection(name)
	if err != nil || len(section.Keys()) == 0 {
		return nil, false
	}
	return section.KeysHash(), true
}

type emptyStore struct{}

func (emptyStore) Section(string) (map[string]string, bool) {
	return nil, false
}
