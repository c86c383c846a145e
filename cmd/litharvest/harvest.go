// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/litharvest/internal/harvest"
	"github.com/pdiddy/litharvest/internal/httputil"
	"github.com/pdiddy/litharvest/internal/keywords"
	"github.com/pdiddy/litharvest/internal/output"
	"github.com/pdiddy/litharvest/internal/source"
	"github.com/pdiddy/litharvest/internal/window"
	"github.com/pdiddy/litharvest/pkg/types"
)

var providerDescriptions = map[string]string{
	source.ProviderCrossref: "Harvest Crossref works for the current week",
	source.ProviderPubMed:   "Harvest PubMed articles for the current week",
	source.ProviderSpringer: "Harvest Springer Nature records for the current week",
	source.ProviderWiley:    "Harvest Wiley Online Library records for the current week",
}

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Harvest every provider for the current week",
	Long: `All runs the crossref, pubmed, springer and wiley harvests one after
another over the same keyword list and date window. A provider that fails
does not prevent the others from running.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHarvest(cmd, source.Providers)
	},
}

func init() {
	for _, provider := range source.Providers {
		provider := provider
		c := &cobra.Command{
			Use:   provider,
			Short: providerDescriptions[provider],
			RunE: func(cmd *cobra.Command, args []string) error {
				return runHarvest(cmd, []string{provider})
			},
		}
		addHarvestFlags(c)
		rootCmd.AddCommand(c)
	}
	addHarvestFlags(allCmd)
	rootCmd.AddCommand(allCmd)
}

func addHarvestFlags(c *cobra.Command) {
	c.Flags().String("format", "csv", "output format: csv or csl (CSL-YAML)")
	c.Flags().String("manifest", "", "write a YAML run manifest to this path")
}

func runHarvest(cmd *cobra.Command, providers []string) error {
	formatFlag, _ := cmd.Flags().GetString("format")
	format, err := output.ParseFormat(formatFlag)
	if err != nil {
		return err
	}
	manifestPath, _ := cmd.Flags().GetString("manifest")

	cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return err
	}

	kws, err := keywords.Load(cfg.KeywordsFile)
	if err != nil {
		logger.Error("cannot read keywords", zap.String("file", cfg.KeywordsFile), zap.Error(err))
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	h := &harvester{
		cfg:    cfg,
		client: httputil.NewClient(nil, cfg.HTTP),
		window: window.Current(time.Now()),
		writer: &output.Writer{
			Dir:           cfg.OutputDir,
			Format:        format,
			MissingMarker: cfg.MissingMarker,
			Logger:        logger,
		},
		log: logger,
		out: cmd.OutOrStdout(),
	}
	h.warnMissingCredentials(providers)

	manifest := output.Manifest{GeneratedAt: time.Now()}
	var errs []error
	for _, p := range providers {
		run, err := h.run(ctx, p, kws)
		if err != nil {
			errs = append(errs, err)
		}
		if run != nil {
			manifest.Runs = append(manifest.Runs, *run)
		}
	}

	if manifestPath != "" {
		if err := output.WriteManifest(manifestPath, manifest); err != nil {
			errs = append(errs, err)
		} else {
			logger.Info("manifest written", zap.String("path", manifestPath))
		}
	}
	return errors.Join(errs...)
}

// harvester holds what the provider runs of one invocation share.
type harvester struct {
	cfg    types.HarvestConfig
	client *httputil.Client
	window types.DateWindow
	writer *output.Writer
	log    *zap.Logger
	out    io.Writer
}

// run harvests one provider and writes its file. Keyword failures are part
// of the result; only configuration and write failures are returned.
func (h *harvester) run(ctx context.Context, provider string, kws []string) (*output.ManifestRun, error) {
	adapter, outCfg, err := h.adapter(provider)
	if err != nil {
		return nil, err
	}

	c := &harvest.Collector{Adapter: adapter, Window: h.window, Logger: h.log}
	res, err := c.Run(ctx, kws)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", provider, err)
	}

	path, err := h.writer.Write(provider, outCfg, res.Records)
	res.WriteSummary(h.out)
	run := output.NewManifestRun(res, path)
	if err != nil {
		h.log.Error("writing output failed", zap.String("provider", provider), zap.Error(err))
		return &run, fmt.Errorf("%s: %w", provider, err)
	}
	return &run, nil
}

func (h *harvester) adapter(provider string) (source.Adapter, types.OutputConfig, error) {
	switch provider {
	case source.ProviderCrossref:
		return source.NewCrossref(h.client, h.cfg.Crossref, h.log), h.cfg.Crossref.OutputConfig, nil
	case source.ProviderPubMed:
		return source.NewPubMed(h.client, h.cfg.PubMed, h.log), h.cfg.PubMed.OutputConfig, nil
	case source.ProviderSpringer:
		return source.NewSpringer(h.client, h.cfg.Springer, h.log), h.cfg.Springer.OutputConfig, nil
	case source.ProviderWiley:
		return source.NewWiley(h.client, h.cfg.Wiley, h.log), h.cfg.Wiley.OutputConfig, nil
	default:
		return nil, types.OutputConfig{}, fmt.Errorf("unknown provider %q", provider)
	}
}

// warnMissingCredentials flags up front the providers whose every keyword
// is going to fail for lack of a key.
func (h *harvester) warnMissingCredentials(providers []string) {
	for _, p := range providers {
		switch {
		case p == source.ProviderSpringer && h.cfg.Springer.APIKey == "":
			h.log.Warn("SPRINGER_API_KEY is not set; every springer keyword will fail")
		case p == source.ProviderWiley && h.cfg.Wiley.APIKey == "":
			h.log.Warn("WILEY_API_KEY is not set; every wiley keyword will fail")
		case p == source.ProviderPubMed && h.cfg.PubMed.APIKey == "":
			h.log.Debug("PUBMED_API_KEY is not set; using the anonymous E-utilities rate")
		}
	}
}
