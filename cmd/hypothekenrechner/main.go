package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"time"

	"github.com/iwvelando/hypothekenrechner/internal/calculation"
	"github.com/iwvelando/hypothekenrechner/internal/config"
	"github.com/iwvelando/hypothekenrechner/internal/logging"
	"github.com/iwvelando/hypothekenrechner/internal/report"
	"github.com/iwvelando/hypothekenrechner/pkg/constants"
	"github.com/iwvelando/hypothekenrechner/pkg/mortgage"
	"github.com/iwvelando/hypothekenrechner/pkg/output"
	"github.com/iwvelando/hypothekenrechner/pkg/rates"
	"github.com/iwvelando/hypothekenrechner/pkg/validation"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	envFile := flag.String("env-file", ".env", "optional file with HYPO_ environment overrides")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	exportDir := flag.String("export-dir", "", "write one HTML report per application into this directory")
	publishRates := flag.Bool("publish-rates", false, "write the static rate table to the redis rate store and exit")
	flag.Parse()

	// Environment overrides must be in place before the config is read
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load env file %s\", \"error\": \"%v\"}\n", *envFile, err)
		return
	}

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		return
	}

	logger, err := logging.NewLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}

	err = validation.ValidateOutputFormat(outputFormat)
	if err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	warnings := conf.ValidateConfiguration()
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	provider, closeProvider, err := conf.RateProvider(ctx, logger)
	if err != nil {
		logger.Fatal("failed to set up rate provider",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	defer func() {
		_ = closeProvider()
	}()

	if *publishRates {
		publish(ctx, logger, conf, provider)
		return
	}

	policy, err := conf.ToPolicy()
	if err != nil {
		logger.Fatal("invalid policy",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	calculator, err := mortgage.NewCalculator(logger, provider, policy)
	if err != nil {
		logger.Fatal("failed to create calculator",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	results, err := calculation.GetCalculations(ctx, logger, *conf, calculator)
	if err != nil {
		logger.Fatal("failed to compute calculations",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	dir := conf.Output.ExportDir
	if *exportDir != "" {
		dir = *exportDir
	}
	if dir != "" {
		generated := time.Now()
		for _, result := range results {
			path, err := report.WriteHTML(dir, result, generated)
			if err != nil {
				logger.Fatal("failed to export report",
					zap.String("op", "main"),
					zap.String("application", result.Name),
					zap.Error(err),
				)
			}
			logger.Info("exported report",
				zap.String("op", "main"),
				zap.String("path", path),
			)
		}
	}

	if err := output.Print(outputFormat, results); err != nil {
		logger.Fatal("failed to write output",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}

// publish seeds the live rate store with the configured static table.
func publish(ctx context.Context, logger *zap.Logger, conf *config.Configuration, provider rates.Provider) {
	redisProvider, ok := provider.(*rates.RedisProvider)
	if !ok {
		logger.Fatal("publishing rates requires rates.source: redis",
			zap.String("op", "main"),
		)
	}

	table, err := conf.RateTable()
	if err != nil {
		logger.Fatal("invalid static rates",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	if err := redisProvider.Publish(ctx, table); err != nil {
		logger.Fatal("failed to publish rates",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
