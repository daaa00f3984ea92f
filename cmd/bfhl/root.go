package main

import (
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-bfhl/internal/config"
	"github.com/goliatone/go-bfhl/internal/logging"
	"github.com/goliatone/go-bfhl/pkg/client"
)

// app carries what the persistent flags resolve to.
type app struct {
	configPath string
	verbose    bool
	apiURL     string

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "bfhl",
		Short: "Submit JSON data and a file to the bfhl API and view filtered results",
		Long: `bfhl posts the "data" array of a JSON document together with a file to
the bfhl API and shows the response filtered by Alphabets, Numbers or
Highest lowercase alphabet.

It can serve the form as a web page, run it in the terminal, or submit once
from the command line.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "path to a YAML config file")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&a.apiURL, "api", "", "base URL of the bfhl API (overrides config and "+config.EnvAPIURL+")")

	root.AddCommand(
		newServeCmd(a),
		newSubmitCmd(a),
		newTUICmd(a),
		newContractCmd(a),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if url := strings.TrimSpace(a.apiURL); url != "" {
		cfg.API.BaseURL = url
	}

	logger, err := logging.New(cfg.Logging, a.verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) client() *client.Client {
	return newClient(a.cfg)
}

func newClient(cfg *config.Config) *client.Client {
	return client.New(
		client.WithBaseURL(cfg.API.BaseURL),
		client.WithPath(cfg.API.Path),
		client.WithTimeout(cfg.APITimeout()),
		client.WithUserAgent(cfg.API.UserAgent),
	)
}

// themeConfig maps the theme section onto a renderer config. It returns nil
// when nothing is configured.
func themeConfig(cfg config.ThemeConfig) *theme.RendererConfig {
	if cfg.Name == "" && cfg.Variant == "" && len(cfg.CSSVars) == 0 && cfg.AssetBase == "" {
		return nil
	}
	out := &theme.RendererConfig{
		Theme:   cfg.Name,
		Variant: cfg.Variant,
		CSSVars: cfg.CSSVars,
	}
	if base := strings.TrimRight(strings.TrimSpace(cfg.AssetBase), "/"); base != "" {
		out.AssetURL = func(key string) string {
			if key == "" {
				return ""
			}
			return base + "/" + strings.TrimLeft(key, "/")
		}
	}
	return out
}
