package output

import (
	"encoding/json"
	"os"
)

type Configuration struct {
	OutputFormat     string         `json:"output_format"`
	FileIn           string         `json:"file_in"`
	FileOut          string         `json:"file_out"`
	RunNumber        int            `json:"run_number"`
	MaxEvents        int            `json:"max_events"`
	Verbosity        int            `json:"verbosity"`
	RolloverEvents   int            `json:"rollover_events"`
	WriteRaw         bool           `json:"write_raw"`
	WriteDgt         bool           `json:"write_dgt"`
	WriteSteps       bool           `json:"write_steps"`
	WriteSignal      bool           `json:"write_signal"`
	WriteQuantum     bool           `json:"write_quantum"`
	WriteMultiDgt    bool           `json:"write_multi_dgt"`
	NoDB             bool           `json:"no_db"`
	Host             string         `json:"host"`
	User             string         `json:"user"`
	Passwd           string         `json:"pass"`
	DBName           string         `json:"dbname"`
	NumWorkers       int            `json:"num_workers"`
	Parallel         bool           `json:"parallel"`
	UseBlosc         bool           `json:"use_blosc"`
	CompressionLevel int            `json:"compression_level"`
	BloscAlgorithm   BloscAlgorithm `json:"blosc_algorithm"`
	BloscShuffle     BloscShuffle   `json:"blosc_shuffle"`
}

var configuration Configuration

func GetConfiguration() Configuration {
	return configuration
}

func SetConfiguration(config Configuration) {
	configuration = config
}

func LoadConfiguration(filename string) (Configuration, error) {
	var config Configuration

	// Set default values. Digitized output is the only capture category
	// enabled by default.
	config.OutputFormat = "txt"
	config.FileOut = "out"
	config.MaxEvents = 1000000000
	config.Verbosity = 0
	config.RolloverEvents = 0
	config.WriteRaw = false
	config.WriteDgt = true
	config.WriteSteps = false
	config.WriteSignal = false
	config.WriteQuantum = false
	config.WriteMultiDgt = false
	config.NoDB = false
	config.Host = "clasdb.jlab.org"
	config.User = "simreader"
	config.Passwd = "readonly"
	config.DBName = "simconditions"
	config.NumWorkers = 1
	config.Parallel = false
	config.CompressionLevel = 4

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	err = json.Unmarshal(data, &config)
	if err != nil {
		return config, err
	}
	return config, nil
}
