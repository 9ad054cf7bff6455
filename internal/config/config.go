// Package config resolves the process's CLI-arg and environment-variable
// surface into a Config the binary wires up once at startup.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config is the fully resolved startup configuration for cmd/draftserver.
type Config struct {
	StaticPath string
	DataPath   string
	Port       int

	ArchiveMode string
	CatalogPath string
}

// FromArgs parses the binary's three positional arguments:
//
//	draftserver <static-path> <data-path> <port>
//
// and layers in the archive/catalog environment variables read by
// internal/archive.NewServiceFromEnv and this package's CatalogPath.
func FromArgs(args []string) (Config, error) {
	if len(args) != 3 {
		return Config{}, fmt.Errorf("usage: draftserver <static-path> <data-path> <port>")
	}
	port, err := strconv.Atoi(args[2])
	if err != nil || port <= 0 || port > 65535 {
		return Config{}, fmt.Errorf("invalid port %q", args[2])
	}

	cfg := Config{
		StaticPath:  args[0],
		DataPath:    args[1],
		Port:        port,
		ArchiveMode: strings.TrimSpace(os.Getenv("ARCHIVE_MODE")),
		CatalogPath: strings.TrimSpace(os.Getenv("CATALOG_BASELINE_PATH")),
	}
	if cfg.CatalogPath == "" {
		cfg.CatalogPath = cfg.DataPath + "/cards.json"
	}
	return cfg, nil
}

// Addr formats the bind address for http.ListenAndServe.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
