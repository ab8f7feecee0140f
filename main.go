package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/google/uuid"

	output "github.com/detsim/output_go/pkg"
)

func main() {
	configFilename := flag.String("config", "", "Configuration file path")
	flag.Parse()

	logger := slog.New(NewHandler(os.Stdout, nil))
	output.SetLogger(&moduleLogger{l: logger})

	config, err := output.LoadConfiguration(*configFilename)
	if err != nil {
		fmt.Println("Error reading configuration file: ", err)
		return
	}
	output.SetConfiguration(config)
	printConfiguration(config, logger)

	banks := output.BankSet{}
	if !config.NoDB {
		dbConn, err := output.ConnectToDatabase(config.User, config.Passwd, config.Host, config.DBName)
		if err != nil {
			logger.Error(fmt.Sprintf("Error connecting to database: %v", err))
			return
		}
		banks, err = output.GetBanksFromDB(dbConn, config.RunNumber)
		if err != nil {
			logger.Error(fmt.Sprintf("Error reading bank schema: %v", err))
			return
		}
	}

	events, err := readEvents(config.FileIn)
	if err != nil {
		logger.Error(fmt.Sprintf("Error reading event dump: %v", err))
		return
	}

	conditions := map[string]string{
		"run_number": fmt.Sprintf("%d", config.RunNumber),
		"run_uuid":   uuid.NewString(),
		"format":     config.OutputFormat,
	}

	registry := output.NewRegistry()

	if config.Parallel && config.NumWorkers > 1 {
		jobs := make(chan workerJob, config.NumWorkers)
		var wg sync.WaitGroup
		for w := 1; w <= config.NumWorkers; w++ {
			wg.Add(1)
			go worker(w, registry, config, banks, conditions, jobs, &wg, logger)
		}
		sendEventsToWorkers(events, config.MaxEvents, jobs)
		wg.Wait()
		return
	}

	writer, err := registry.Resolve(config.OutputFormat)
	if err != nil {
		logger.Error(err.Error())
		return
	}
	container, err := output.NewOutputContainer(config)
	if err != nil {
		logger.Error(err.Error())
		return
	}
	defer func() {
		if err := container.Close(); err != nil {
			logger.Error(err.Error())
		}
	}()

	if err := writer.RecordSimConditions(container, conditions); err != nil {
		logger.Error(err.Error())
		return
	}

	written := 0
	for i, event := range events {
		if i >= config.MaxEvents {
			break
		}
		if err := writeOneEvent(writer, container, event, banks, config); err != nil {
			// the event is lost for this destination, the run goes on
			logger.Error(fmt.Sprintf("Event %d lost: %v", i, err))
			continue
		}
		written++
	}
	logger.Info(fmt.Sprintf("Wrote %d events to %s", written, config.FileOut), "module", "output")
}

// writeOneEvent drives the writer contract for one event: header, generated
// particles, then the enabled per-detector banks, closed by WriteEvent.
func writeOneEvent(writer output.Writer, container *output.OutputContainer,
	event SimEvent, banks output.BankSet, config output.Configuration) error {
	if err := writer.WriteHeader(container, event.Header, banks["header"]); err != nil {
		return err
	}
	if err := writer.WriteGenerated(container, event.generated(), banks); err != nil {
		return err
	}
	for _, detector := range sortedDetectors(event.Hits) {
		hits := convertHits(event.Hits[detector], config)
		detBanks := banks
		if _, ok := banks[detector]; !ok {
			detBanks = output.BankSet{detector: output.BankFromHits(detector, hits)}
		}
		if config.WriteRaw {
			if err := writer.WriteG4RawIntegrated(container, hits, detector, detBanks); err != nil {
				return err
			}
		}
		if config.WriteSteps {
			if err := writer.WriteG4RawAll(container, hits, detector, detBanks); err != nil {
				return err
			}
		}
		if config.WriteDgt {
			if err := writer.WriteG4DgtIntegrated(container, hits, detector, detBanks); err != nil {
				return err
			}
		}
	}
	return writer.WriteEvent(container)
}
