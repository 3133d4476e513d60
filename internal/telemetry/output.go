package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"

	"powder/internal/element"
)

// CensusRecord is one row of census.csv: the count of one element at one tick.
type CensusRecord struct {
	Trial   int    `csv:"trial"`
	Tick    uint64 `csv:"tick"`
	Element string `csv:"element"`
	Count   int    `csv:"count"`
}

// PerfRecord is one row of perf.csv.
type PerfRecord struct {
	Trial          int     `csv:"trial"`
	Tick           uint64  `csv:"tick"`
	Samples        int     `csv:"samples"`
	MeanUS         int64   `csv:"mean_us"`
	StdDevUS       int64   `csv:"stddev_us"`
	P50US          int64   `csv:"p50_us"`
	P95US          int64   `csv:"p95_us"`
	MaxUS          int64   `csv:"max_us"`
	TicksPerSecond float64 `csv:"ticks_per_sec"`
}

// CensusRecords flattens c into one record per element.
func CensusRecords(trial int, c Census, reg *element.Registry) []CensusRecord {
	records := make([]CensusRecord, 0, len(c.Counts))
	for id, n := range c.Counts {
		records = append(records, CensusRecord{
			Trial:   trial,
			Tick:    c.Tick,
			Element: reg.MustElement(element.ID(id)).Name,
			Count:   n,
		})
	}
	return records
}

// ToRecord converts the stats into a perf.csv row.
func (s PerfStats) ToRecord(trial int, tick uint64) PerfRecord {
	us := func(d time.Duration) int64 { return d.Microseconds() }
	return PerfRecord{
		Trial:          trial,
		Tick:           tick,
		Samples:        s.Samples,
		MeanUS:         us(s.Mean),
		StdDevUS:       us(s.StdDev),
		P50US:          us(s.P50),
		P95US:          us(s.P95),
		MaxUS:          us(s.Max),
		TicksPerSecond: s.TicksPerSecond,
	}
}

// OutputManager appends census and perf records to CSV files in one
// directory. A nil manager discards everything, so callers need not check
// whether output is enabled.
type OutputManager struct {
	dir        string
	censusFile *os.File
	perfFile   *os.File

	censusHeaderWritten bool
	perfHeaderWritten   bool
}

// NewOutputManager creates dir and opens census.csv and perf.csv inside it.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	f, err := os.Create(filepath.Join(dir, "census.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating census.csv: %w", err)
	}
	om.censusFile = f

	f, err = os.Create(filepath.Join(dir, "perf.csv"))
	if err != nil {
		om.censusFile.Close()
		return nil, fmt.Errorf("creating perf.csv: %w", err)
	}
	om.perfFile = f
	return om, nil
}

// Dir returns the output directory.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// WriteCensus appends records to census.csv.
func (om *OutputManager) WriteCensus(records []CensusRecord) error {
	if om == nil || len(records) == 0 {
		return nil
	}
	if !om.censusHeaderWritten {
		if err := gocsv.Marshal(records, om.censusFile); err != nil {
			return fmt.Errorf("writing census: %w", err)
		}
		om.censusHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.censusFile); err != nil {
		return fmt.Errorf("writing census: %w", err)
	}
	return nil
}

// WritePerf appends one record to perf.csv.
func (om *OutputManager) WritePerf(rec PerfRecord) error {
	if om == nil {
		return nil
	}
	records := []PerfRecord{rec}
	if !om.perfHeaderWritten {
		if err := gocsv.Marshal(records, om.perfFile); err != nil {
			return fmt.Errorf("writing perf: %w", err)
		}
		om.perfHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.perfFile); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// Close closes both files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	err1 := om.censusFile.Close()
	err2 := om.perfFile.Close()
	if err1 != nil {
		return err1
	}
	return err2
}
