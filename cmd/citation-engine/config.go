// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/tweakr/citation-engine/internal/corpus"
	"github.com/tweakr/citation-engine/internal/oracle"
	"github.com/tweakr/citation-engine/internal/provider"
	"github.com/tweakr/citation-engine/pkg/types"
)

// loadEngineConfig builds the run configuration: defaults, overlaid
// with the YAML config file viper discovered, overlaid with secrets.
func loadEngineConfig() (types.EngineConfig, error) {
	cfg := types.DefaultEngineConfig()

	if path := viper.ConfigFileUsed(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if key := secretDefault("semantic-scholar-api-key", ""); key != "" {
		pc := cfg.Providers["semantic_scholar"]
		if pc.APIKey == "" {
			pc.APIKey = key
			cfg.Providers["semantic_scholar"] = pc
		}
	}

	return cfg, nil
}

// buildProviders assembles the fan-out provider list in merge priority
// order. The local corpus, when configured, goes first: it is free and
// its records were curated by the user. The returned closer releases
// the corpus store.
func buildProviders(cfg types.EngineConfig) ([]provider.Provider, func() error, error) {
	client := &http.Client{Timeout: cfg.Timeout}
	closer := func() error { return nil }

	var providers []provider.Provider
	if cfg.Corpus.Path != "" {
		store, err := corpus.Open(cfg.Corpus)
		if err != nil {
			return nil, nil, fmt.Errorf("opening corpus: %w", err)
		}
		providers = append(providers, &provider.Local{Store: store})
		closer = store.Close
	}

	for _, name := range cfg.ProviderOrder {
		pc, ok := cfg.Providers[name]
		if !ok || !pc.Enabled {
			continue
		}
		switch name {
		case "semantic_scholar":
			providers = append(providers, &provider.SemanticScholar{
				Client:    client,
				UserAgent: cfg.UserAgent,
				APIKey:    pc.APIKey,
				Log:       log,
			})
		case "crossref":
			providers = append(providers, &provider.Crossref{
				Client:    client,
				UserAgent: cfg.UserAgent,
				Email:     secretDefault("crossref-email", ""),
				Log:       log,
			})
		case "openalex":
			providers = append(providers, &provider.OpenAlex{
				Client:    client,
				UserAgent: cfg.UserAgent,
				Email:     secretDefault("openalex-email", ""),
				Log:       log,
			})
		case "arxiv":
			providers = append(providers, &provider.Arxiv{
				Client:    client,
				UserAgent: cfg.UserAgent,
				Log:       log,
			})
		default:
			closer()
			return nil, nil, fmt.Errorf("unknown provider %q in provider_order", name)
		}
	}

	return providers, closer, nil
}

// buildOracle picks the context source: a static file wins over the
// HTTP oracle, and neither configured means no enrichment.
func buildOracle(cfg types.EngineConfig) (oracle.ContextOracle, error) {
	if cfg.Oracle.ContextFile != "" {
		return oracle.LoadStatic(cfg.Oracle.ContextFile)
	}
	if cfg.Oracle.BaseURL != "" {
		ocfg := cfg.Oracle
		if ocfg.Timeout == 0 {
			ocfg.HTTPConfig = cfg.HTTPConfig
		}
		return oracle.NewHTTP(ocfg, log), nil
	}
	return nil, nil
}
