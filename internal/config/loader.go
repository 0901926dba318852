package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Catalog and credentials file names, in lookup order.
var (
	CatalogFileNames     = []string{"catalog.yaml", "catalog.yml", filepath.Join("conf", "base", "catalog.yml")}
	CredentialsFileNames = []string{"credentials.yaml", "credentials.yml", filepath.Join("conf", "local", "credentials.yml")}
)

// FindCatalogFile returns the first catalog file found in dir, or "".
func FindCatalogFile(dir string) string {
	return findFile(dir, CatalogFileNames)
}

// FindCredentialsFile returns the first credentials file found in dir, or "".
func FindCredentialsFile(dir string) string {
	return findFile(dir, CredentialsFileNames)
}

func findFile(dir string, names []string) string {
	for _, name := range names {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// LoadFiles loads a catalog file and a credentials file into k.
// Either path may be empty. The credentials file holds named entries at
// its top level and is merged under the "credentials" key, taking
// precedence over any credentials section of the catalog file.
func LoadFiles(k *koanf.Koanf, catalogPath, credentialsPath string) error {
	if catalogPath != "" {
		if err := k.Load(file.Provider(catalogPath), yaml.Parser()); err != nil {
			return fmt.Errorf("error reading catalog file %s: %w", catalogPath, err)
		}
	}
	if credentialsPath != "" {
		ck := koanf.New(".")
		if err := ck.Load(file.Provider(credentialsPath), yaml.Parser()); err != nil {
			return fmt.Errorf("error reading credentials file %s: %w", credentialsPath, err)
		}
		if err := k.MergeAt(ck, "credentials"); err != nil {
			return fmt.Errorf("failed to merge credentials: %w", err)
		}
	}
	return nil
}

// LoadFromDir loads a Catalog from the catalog and credentials files in dir.
// Returns nil, nil if no catalog file is found (not an error condition).
func LoadFromDir(dir string) (*Catalog, error) {
	catalogPath := FindCatalogFile(dir)
	if catalogPath == "" {
		return nil, nil
	}

	k := koanf.New(".")
	if err := LoadFiles(k, catalogPath, FindCredentialsFile(dir)); err != nil {
		return nil, err
	}

	var cfg Catalog
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode catalog: %w", err)
	}
	ApplyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
