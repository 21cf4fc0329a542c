package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/iwvelando/payoff-forecast/internal/config"
	"github.com/iwvelando/payoff-forecast/internal/projection"
	"github.com/iwvelando/payoff-forecast/pkg/constants"
	"github.com/iwvelando/payoff-forecast/pkg/output"
	"github.com/iwvelando/payoff-forecast/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	maxMonths := flag.Int("max-months", 0, "simulation horizon override in months")
	rows := flag.Int("rows", 0, "breakdown rows per debt override (0 keeps the configured value)")
	flag.Parse()

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI overrides take precedence over config
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}
	if *maxMonths > 0 {
		conf.Simulation.MaxMonths = *maxMonths
	}
	if *rows > 0 {
		conf.Output.BreakdownRows = *rows
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	debts, err := conf.ToDebts()
	if err != nil {
		logger.Fatal("failed to convert configured debts",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	report, err := projection.NewEngine(logger, conf.Simulation.MaxMonths).ProjectAll(debts)
	if err != nil {
		logger.Fatal("failed to compute projection",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		err = output.PrettyFormat(os.Stdout, report, conf.Output.BreakdownRows)
	case constants.OutputFormatCSV:
		err = output.CsvFormat(os.Stdout, report, conf.Output.BreakdownRows)
	}
	if err != nil {
		logger.Fatal("failed to write output",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
