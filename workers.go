package main

import (
	"fmt"
	"log/slog"
	"sync"

	output "github.com/detsim/output_go/pkg"
)

type workerJob struct {
	Index int
	Event SimEvent
}

// worker writes events against its own container and writer. Destinations are
// never shared across goroutines: each worker appends to file_out.wN and the
// contract calls for one event complete before the next event starts.
func worker(id int, registry output.Registry, config output.Configuration, banks output.BankSet,
	conditions map[string]string, jobs <-chan workerJob, wg *sync.WaitGroup, logger *slog.Logger) {
	defer wg.Done()

	cfg := config
	cfg.FileOut = fmt.Sprintf("%s.w%d", config.FileOut, id)

	writer, err := registry.Resolve(cfg.OutputFormat)
	if err != nil {
		logger.Error(fmt.Sprintf("Worker %d: %v", id, err))
		return
	}
	container, err := output.NewOutputContainer(cfg)
	if err != nil {
		logger.Error(fmt.Sprintf("Worker %d: %v", id, err))
		return
	}
	defer func() {
		if err := container.Close(); err != nil {
			logger.Error(fmt.Sprintf("Worker %d: %v", id, err))
		}
	}()

	if err := writer.RecordSimConditions(container, conditions); err != nil {
		logger.Error(fmt.Sprintf("Worker %d: %v", id, err))
		return
	}
	for job := range jobs {
		if err := writeOneEvent(writer, container, job.Event, banks, cfg); err != nil {
			logger.Error(fmt.Sprintf("Worker %d lost event %d: %v", id, job.Index, err))
		}
	}
}

func sendEventsToWorkers(events []SimEvent, maxEvents int, jobs chan<- workerJob) {
	for i, event := range events {
		if i >= maxEvents {
			break
		}
		jobs <- workerJob{Index: i, Event: event}
	}
	close(jobs)
}
