package main

import (
	"fmt"
	"log/slog"

	output "github.com/detsim/output_go/pkg"
)

func printConfiguration(config output.Configuration, logger *slog.Logger) {
	logger.Info(fmt.Sprintf("Output format: %s", config.OutputFormat), "module", "config")
	logger.Info(fmt.Sprintf("File in: %s", config.FileIn), "module", "config")
	logger.Info(fmt.Sprintf("File out: %s", config.FileOut), "module", "config")
	logger.Info(fmt.Sprintf("Run number: %d", config.RunNumber), "module", "config")
	logger.Info(fmt.Sprintf("Max events: %d", config.MaxEvents), "module", "config")
	logger.Info(fmt.Sprintf("Rollover events: %d", config.RolloverEvents), "module", "config")
	logger.Info(fmt.Sprintf("Write raw: %t", config.WriteRaw), "module", "config")
	logger.Info(fmt.Sprintf("Write digitized: %t", config.WriteDgt), "module", "config")
	logger.Info(fmt.Sprintf("Write raw steps: %t", config.WriteSteps), "module", "config")
	logger.Info(fmt.Sprintf("Write signal: %t", config.WriteSignal), "module", "config")
	logger.Info(fmt.Sprintf("Write quantum: %t", config.WriteQuantum), "module", "config")
	logger.Info(fmt.Sprintf("Write multi digitized: %t", config.WriteMultiDgt), "module", "config")
	logger.Info(fmt.Sprintf("No DB: %t", config.NoDB), "module", "config")
	logger.Info(fmt.Sprintf("Host: %s", config.Host), "module", "config")
	logger.Info(fmt.Sprintf("DB name: %s", config.DBName), "module", "config")
	logger.Info(fmt.Sprintf("Verbosity: %d", config.Verbosity), "module", "config")
	logger.Info(fmt.Sprintf("Number of workers: %d", config.NumWorkers), "module", "config")
	logger.Info(fmt.Sprintf("Parallel: %t", config.Parallel), "module", "config")
	logger.Info(fmt.Sprintf("Compression level: %d", config.CompressionLevel), "module", "config")
}
