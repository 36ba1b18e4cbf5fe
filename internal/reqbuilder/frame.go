package reqbuilder

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	timeColumn    = "datetime"
	dropColumn    = "wind_direction"
	cloudsColumn  = "clouds"
	unknownClouds = "unknown"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Cells read as missing values.
var naValues = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

func isMissing(cell string) bool {
	_, ok := naValues[strings.TrimSpace(cell)]
	return ok
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised datetime %q", s)
}

// column holds one CSV column. Numeric columns keep NaN for missing cells.
type column struct {
	name    string
	numeric bool
	integer bool
	nums    []float64
	strs    []string
}

// frame is the CSV table indexed and sorted by datetime.
type frame struct {
	times   []time.Time
	columns []*column
}

func readFrame(r io.Reader) (*frame, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	timeIdx := -1
	for i, h := range header {
		if h == timeColumn {
			timeIdx = i
		}
	}
	if timeIdx < 0 {
		return nil, fmt.Errorf("csv has no %q column", timeColumn)
	}

	var (
		times []time.Time
		cells [][]string
	)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		t, err := parseTime(rec[timeIdx])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		times = append(times, t)
		cells = append(cells, rec)
	}

	order := make([]int, len(times))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return times[order[i]].Before(times[order[j]])
	})

	f := &frame{times: make([]time.Time, len(order))}
	for i, o := range order {
		f.times[i] = times[o]
	}
	for c, name := range header {
		if c == timeIdx {
			continue
		}
		raw := make([]string, len(order))
		for i, o := range order {
			raw[i] = cells[o][c]
		}
		f.columns = append(f.columns, newColumn(name, raw))
	}
	return f, nil
}

func newColumn(name string, raw []string) *column {
	nums := make([]float64, len(raw))
	numeric, integer := true, true
	for i, cell := range raw {
		if isMissing(cell) {
			nums[i] = math.NaN()
			integer = false
			continue
		}
		s := strings.TrimSpace(cell)
		x, err := strconv.ParseFloat(s, 64)
		if err != nil {
			numeric = false
			break
		}
		if _, err := strconv.ParseInt(s, 10, 64); err != nil {
			integer = false
		}
		nums[i] = x
	}
	if numeric {
		return &column{name: name, numeric: true, integer: integer && len(raw) > 0, nums: nums}
	}
	return &column{name: name, strs: raw}
}

func (f *frame) column(name string) *column {
	for _, c := range f.columns {
		if c.name == name {
			return c
		}
	}
	return nil
}

func (f *frame) drop(name string) {
	for i, c := range f.columns {
		if c.name == name {
			f.columns = append(f.columns[:i], f.columns[i+1:]...)
			return
		}
	}
}

// set adds a column or replaces one with the same name.
func (f *frame) set(c *column) {
	for i, old := range f.columns {
		if old.name == c.name {
			f.columns[i] = c
			return
		}
	}
	f.columns = append(f.columns, c)
}

func (f *frame) missing(names []string) []string {
	var out []string
	for _, n := range names {
		if f.column(n) == nil {
			out = append(out, n)
		}
	}
	return out
}

func (f *frame) len() int {
	return len(f.times)
}
