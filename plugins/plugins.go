package plugins

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gqlgo/gqlmodelgen/codegen"
	"github.com/gqlgo/gqlmodelgen/config"
	"github.com/gqlgo/gqlmodelgen/plugins/jsongen"
	"github.com/gqlgo/gqlmodelgen/plugins/querygen"
)

// GenerateCode compiles the loaded query document once per host and runs
// every configured renderer. The logger is taken from ctx.
func GenerateCode(ctx context.Context, cfg *config.Config) error {
	logger := zerolog.Ctx(ctx)

	// querygen
	if cfg.QueryGen.IsDefined() {
		unit, err := compile(ctx, cfg, codegen.DefaultHost)
		if err != nil {
			return err
		}
		logger.Debug().Str("host", unit.Host).Int("operations", len(unit.Operations)).Int("fragments", len(unit.Fragments)).Msg("compiled")

		queryGen := querygen.New(cfg, unit)
		if err := queryGen.Generate(); err != nil {
			return fmt.Errorf("%s failed: %w", queryGen.Name(), err)
		}
		logger.Info().Str("file", cfg.QueryGen.Filename).Msg("generated")
	}

	// jsongen
	if cfg.JSONGen != nil {
		unit, err := compile(ctx, cfg, cfg.JSONGen.Host)
		if err != nil {
			return err
		}
		logger.Debug().Str("host", unit.Host).Int("operations", len(unit.Operations)).Int("fragments", len(unit.Fragments)).Msg("compiled")

		jsonGen := jsongen.New(cfg, unit)
		if err := jsonGen.Generate(); err != nil {
			return fmt.Errorf("%s failed: %w", jsonGen.Name(), err)
		}
		logger.Info().Str("file", cfg.JSONGen.Filename).Msg("generated")
	}

	return nil
}

func compile(ctx context.Context, cfg *config.Config, host string) (*codegen.CompiledUnit, error) {
	opts := codegen.Options{
		PassthroughCustomScalars: cfg.PassthroughCustomScalars,
		Host:                     host,
	}
	unit, err := codegen.CompileConcurrent(ctx, cfg.Schema, cfg.QueryDocument, opts, cfg.Concurrency)
	if err != nil {
		return nil, fmt.Errorf("compile for %s failed: %w", host, err)
	}
	return unit, nil
}
