package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/gqlgo/gqlmodelgen/config"
	"github.com/gqlgo/gqlmodelgen/plugins"
)

var configFilenames = []string{".gqlmodelgen.yml", "gqlmodelgen.yml", ".gqlmodelgen.yaml", "gqlmodelgen.yaml"}

type options struct {
	configFile string
	verbose    bool
}

func run(ctx context.Context, opts options, logOutput io.Writer) error {
	level := zerolog.InfoLevel
	if opts.verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: logOutput, NoColor: true}).Level(level).With().Timestamp().Logger()
	ctx = logger.WithContext(ctx)

	cfgFile := opts.configFile
	if cfgFile == "" {
		found, err := config.FindConfigFile(".", configFilenames)
		if err != nil {
			return fmt.Errorf("failed to find config file: %w", err)
		}
		// paths in the config are relative to the directory that holds it
		if err := os.Chdir(filepath.Dir(found)); err != nil {
			return fmt.Errorf("failed to enter config directory: %w", err)
		}
		cfgFile = found
	}
	logger.Debug().Str("file", cfgFile).Msg("config file")

	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config file: %w", err)
	}

	if err := cfg.LoadSchema(); err != nil {
		return fmt.Errorf("failed to load schema: %w", err)
	}
	logger.Debug().Strs("files", cfg.SchemaFilename).Int("types", len(cfg.Schema.Types)).Msg("schema loaded")

	if err := cfg.LoadQuery(); err != nil {
		return fmt.Errorf("failed to load query: %w", err)
	}
	logger.Info().Int("operations", len(cfg.QueryDocument.Operations)).Int("fragments", len(cfg.QueryDocument.Fragments)).Msg("query loaded")

	if err := plugins.GenerateCode(ctx, cfg); err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}
	return nil
}
