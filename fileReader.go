package main

import (
	"encoding/json"
	"os"
)

// readEvents loads a simulation dump: a JSON array of events.
func readEvents(filename string) ([]SimEvent, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var events []SimEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, err
	}
	return events, nil
}
