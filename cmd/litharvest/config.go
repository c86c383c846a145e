// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/litharvest/internal/output"
	"github.com/pdiddy/litharvest/internal/secrets"
	"github.com/pdiddy/litharvest/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "litharvest/0.1"
	defaultCacheTTL  = 30 * time.Minute
)

// setDefaults registers the default value of every configuration key. The
// output file names match the files the weekly scripts have always produced.
func setDefaults(v *viper.Viper) {
	v.SetDefault("http.timeout", defaultTimeout)
	v.SetDefault("http.user_agent", defaultUserAgent)
	v.SetDefault("http.cache_ttl", defaultCacheTTL)

	v.SetDefault("keywords_file", "keywords.txt")
	v.SetDefault("output_dir", ".")
	v.SetDefault("missing_marker", output.DefaultMissingMarker)

	v.SetDefault("crossref.file", "crossref_week.csv")
	v.SetDefault("crossref.write_empty", true)
	v.SetDefault("crossref.base_url", "https://api.crossref.org/works")
	v.SetDefault("crossref.rows", 10)
	v.SetDefault("crossref.mailto", "")

	v.SetDefault("pubmed.file", "pubmed_keywords.csv")
	v.SetDefault("pubmed.write_empty", true)
	v.SetDefault("pubmed.base_url", "https://eutils.ncbi.nlm.nih.gov/entrez/eutils")
	v.SetDefault("pubmed.retmax", 10)
	v.SetDefault("pubmed.request_interval", time.Second)

	v.SetDefault("springer.file", "springer_articles_current_week.csv")
	v.SetDefault("springer.write_empty", true)
	v.SetDefault("springer.base_url", "https://api.springernature.com/meta/v2/json")
	v.SetDefault("springer.page_size", 5)

	v.SetDefault("wiley.file", "wiley_week.csv")
	v.SetDefault("wiley.write_empty", false)
	v.SetDefault("wiley.base_url", "https://onlinelibrary.wiley.com/action/sru")
	v.SetDefault("wiley.max_records", 20)
	v.SetDefault("wiley.delay_min", 5*time.Second)
	v.SetDefault("wiley.delay_max", 10*time.Second)
	v.SetDefault("wiley.browser_user_agent", "")
}

// loadConfig decodes the merged configuration and fills in credentials,
// which are never read from the config file.
func loadConfig(v *viper.Viper, store *secrets.Store) (types.HarvestConfig, error) {
	var cfg types.HarvestConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	if cfg.Crossref.Mailto == "" {
		cfg.Crossref.Mailto = store.Get(secrets.CrossrefMailto)
	}
	cfg.PubMed.APIKey = store.Get(secrets.PubMedAPIKey)
	cfg.Springer.APIKey = store.Get(secrets.SpringerAPIKey)
	cfg.Wiley.APIKey = store.Get(secrets.WileyAPIKey)

	if cfg.Wiley.DelayMin > cfg.Wiley.DelayMax {
		return cfg, fmt.Errorf("wiley.delay_min %s exceeds wiley.delay_max %s", cfg.Wiley.DelayMin, cfg.Wiley.DelayMax)
	}
	return cfg, nil
}

// newLogger builds the console logger written to stderr. verbose lowers
// the level to debug.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.DisableCaller = true
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.TimeOnly)
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return l, nil
}
