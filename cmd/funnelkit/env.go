package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/funnelkit/internal/cli"
	"github.com/aretw0/funnelkit/internal/config"
	"github.com/aretw0/funnelkit/pkg/domain"
	"github.com/aretw0/funnelkit/pkg/registry"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// env carries what every command needs: config, logger and store.
type env struct {
	cfg     config.Config
	logger  *slog.Logger
	kinds   *registry.Registry
	backend *cli.Backend
}

// setup loads the config, applies the persistent flags and opens the store.
func setup(cmd *cobra.Command) (*env, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("store") {
		cfg.Store.Driver, _ = flags.GetString("store")
	}
	if flags.Changed("dir") {
		cfg.Store.Path, _ = flags.GetString("dir")
	}
	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := cli.NewLogger(cfg.Log)
	if err != nil {
		return nil, err
	}
	kinds := registry.Default()
	backend, err := cli.OpenBackend(cfg.Store, kinds)
	if err != nil {
		return nil, err
	}
	logger.Debug("Store opened", "driver", cfg.Store.Driver, "path", cfg.Store.Path)
	return &env{cfg: cfg, logger: logger, kinds: kinds, backend: backend}, nil
}

func (e *env) Close() {
	if err := e.backend.Close(); err != nil {
		e.logger.Warn("Failed to close store", "err", err)
	}
}

// loadDocument reads ref as a document file when it names one, otherwise
// loads it from the store.
func (e *env) loadDocument(ctx context.Context, ref string) (domain.Document, error) {
	if isDocumentFile(ref) {
		return readDocumentFile(ref)
	}
	return e.backend.Store.Load(ctx, ref)
}

func isDocumentFile(ref string) bool {
	switch strings.ToLower(filepath.Ext(ref)) {
	case ".json", ".yaml", ".yml":
	default:
		return false
	}
	info, err := os.Stat(ref)
	return err == nil && !info.IsDir()
}

func readDocumentFile(path string) (domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Document{}, err
	}
	var doc domain.Document
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &doc)
	} else {
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return domain.Document{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return doc, nil
}

// funnelArg returns the first argument or the default funnel id.
func funnelArg(args []string, fallback string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return fallback
}
