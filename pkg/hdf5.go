package output

import (
	"errors"
	"fmt"

	hdf5 "github.com/next-exp/hdf5-go"
)

const STRLEN = 32

// Compound row types for the event tables. Every per-event table carries the
// event number so a reader can regroup rows into events.

type conditionHDF5 struct {
	param [STRLEN]byte
	value [STRLEN]byte
}

type headerHDF5 struct {
	evt_number int32
	field      [STRLEN]byte
	value      float64
}

type particleHDF5 struct {
	evt_number   int32
	index        int32
	pid          int32
	vx           float64
	vy           float64
	vz           float64
	px           float64
	py           float64
	pz           float64
	time         float64
	multiplicity int32
}

type summaryHDF5 struct {
	evt_number int32
	particle   int32
	detector   [STRLEN]byte
	stat       int32
	etot       float64
	time       float64
	nphe       int32
}

type bankValueHDF5 struct {
	evt_number int32
	detector   [STRLEN]byte
	hit        int32
	variable   [STRLEN]byte
	value      float64
}

type stepValueHDF5 struct {
	evt_number int32
	detector   [STRLEN]byte
	hit        int32
	variable   [STRLEN]byte
	step       int32
	value      float64
}

type signalHDF5 struct {
	evt_number int32
	detector   [STRLEN]byte
	hit        int32
	time       float64
	voltage    float64
}

type quantumHDF5 struct {
	evt_number int32
	detector   [STRLEN]byte
	hit        int32
	bunch      int32
	amplitude  int32
}

type multiDgtHDF5 struct {
	evt_number int32
	detector   [STRLEN]byte
	hit        int32
	variable   [STRLEN]byte
	step       int32
	value      int32
}

func convertToHdf5String(s string) [STRLEN]byte {
	var byteArray [STRLEN]byte
	copy(byteArray[:], s)
	return byteArray
}

func stringFromHdf5(b [STRLEN]byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b[:])
}

// hdf5Table is an extendable dataset plus the number of rows appended so far.
type hdf5Table struct {
	dset *hdf5.Dataset
	rows int
}

// Hdf5Channel is the open structured binary stream: a Run group with the
// simulation conditions and an Events group with one extendable table per
// record kind. Event records are appended atomically by the hdf5 writer.
type Hdf5Channel struct {
	File     *hdf5.File
	Filename string

	RunGroup   *hdf5.Group
	EventGroup *hdf5.Group

	Conditions *hdf5Table
	Headers    *hdf5Table
	Particles  *hdf5Table
	Summaries  *hdf5Table
	Raw        *hdf5Table
	Dgt        *hdf5Table
	Steps      *hdf5Table
	Signal     *hdf5Table
	Quantum    *hdf5Table
	MultiDgt   *hdf5Table

	EvtCounter int
}

func NewHdf5Channel(filename string) (*Hdf5Channel, error) {
	// Set string size for HDF5
	hdf5.SetStringLength(STRLEN)

	if configuration.UseBlosc {
		bloscVersion, bloscDate, err := hdf5.RegisterBlosc()
		if err != nil {
			logger.Error(err.Error())
		} else if configuration.Verbosity > 0 {
			logger.Info(fmt.Sprintf("Blosc version: %v date: %v", bloscVersion, bloscDate), "output")
		}
	}

	f, err := hdf5.CreateFile(filename, hdf5.F_ACC_TRUNC)
	if err != nil {
		return nil, &ErrOpenFile{Filename: filename, Err: err}
	}

	ch := &Hdf5Channel{File: f, Filename: filename}
	if ch.RunGroup, err = createGroup(f, "Run"); err != nil {
		return nil, err
	}
	if ch.EventGroup, err = createGroup(f, "Events"); err != nil {
		return nil, err
	}

	tables := []struct {
		target   **hdf5Table
		name     string
		datatype interface{}
	}{
		{&ch.Conditions, "conditions", conditionHDF5{}},
		{&ch.Headers, "headers", headerHDF5{}},
		{&ch.Particles, "particles", particleHDF5{}},
		{&ch.Summaries, "summaries", summaryHDF5{}},
		{&ch.Raw, "raw", bankValueHDF5{}},
		{&ch.Dgt, "dgtz", bankValueHDF5{}},
		{&ch.Steps, "rawSteps", stepValueHDF5{}},
		{&ch.Signal, "signal", signalHDF5{}},
		{&ch.Quantum, "quantum", quantumHDF5{}},
		{&ch.MultiDgt, "multiDgt", multiDgtHDF5{}},
	}
	for _, t := range tables {
		group := ch.EventGroup
		if t.name == "conditions" {
			group = ch.RunGroup
		}
		table, err := createTable(group, t.name, t.datatype)
		if err != nil {
			return nil, err
		}
		*t.target = table
	}
	return ch, nil
}

func (ch *Hdf5Channel) Close() error {
	var errs []error

	tables := []struct {
		name  string
		table *hdf5Table
	}{
		{"conditions", ch.Conditions},
		{"headers", ch.Headers},
		{"particles", ch.Particles},
		{"summaries", ch.Summaries},
		{"raw", ch.Raw},
		{"dgtz", ch.Dgt},
		{"rawSteps", ch.Steps},
		{"signal", ch.Signal},
		{"quantum", ch.Quantum},
		{"multiDgt", ch.MultiDgt},
	}
	for _, t := range tables {
		if t.table == nil {
			continue
		}
		if err := t.table.dset.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing table %s: %w", t.name, err))
		}
	}
	if err := ch.EventGroup.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing events group: %w", err))
	}
	if err := ch.RunGroup.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing run group: %w", err))
	}
	if err := ch.File.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing file: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func createGroup(file *hdf5.File, groupName string) (*hdf5.Group, error) {
	g, err := file.CreateGroup(groupName)
	if err != nil {
		return nil, &ErrCreateGroup{GroupName: groupName, Err: err}
	}
	return g, nil
}

func createTable(group *hdf5.Group, name string, datatype interface{}) (*hdf5Table, error) {
	dims := []uint{0}
	unlimitedDims := -1 // H5S_UNLIMITED is -1L
	maxDims := []uint{uint(unlimitedDims)}
	fileSpace, err := hdf5.CreateSimpleDataspace(dims, maxDims)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}

	// create property list
	plist, err := hdf5.NewPropList(hdf5.P_DATASET_CREATE)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}

	chunks := []uint{1024}
	plist.SetChunk(chunks)

	// Set compression level
	if configuration.UseBlosc {
		hdf5.ConfigureBloscFilter(plist, configuration.BloscAlgorithm.Code, configuration.CompressionLevel, configuration.BloscShuffle.Code)
	} else {
		plist.SetDeflate(configuration.CompressionLevel)
	}

	// create the memory data type
	dtype, err := hdf5.NewDatatypeFromValue(datatype)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}

	dset, err := group.CreateDatasetWith(name, dtype, fileSpace, plist)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}
	return &hdf5Table{dset: dset}, nil
}

// appendRows extends the table and writes the rows after the last appended
// one. Appending an empty batch is a no-op.
func appendRows[T any](table *hdf5Table, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	length := uint(len(rows))
	dataspace, err := hdf5.CreateSimpleDataspace([]uint{length}, nil)
	if err != nil {
		return err
	}

	// extend
	newsize := []uint{uint(table.rows) + length}
	table.dset.Resize(newsize)
	filespace := table.dset.Space()

	start := []uint{uint(table.rows)}
	count := []uint{length}
	filespace.SelectHyperslab(start, nil, count, nil)

	if err := table.dset.WriteSubset(&rows, dataspace, filespace); err != nil {
		return err
	}
	table.rows += len(rows)

	if err := dataspace.Close(); err != nil {
		return err
	}
	if err := filespace.Close(); err != nil {
		return err
	}
	return nil
}
