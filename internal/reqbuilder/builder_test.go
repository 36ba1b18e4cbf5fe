package reqbuilder

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
)

const testCSV = `datetime,PM2.5,temperature,wind_direction,clouds
2024-03-01 02:00:00,,5,N,
2024-03-01 00:00:00,,1,N,clear
2024-03-01 01:00:00,10,,S,cloudy
2024-03-01 04:00:00,30,7,E,clear
2024-03-01 03:00:00,,,W,NaN
2024-03-02 00:00:00,40,,N,cloudy
`

var testColumns = []string{"PM2.5", "temperature", "hour_sin", "is_weekend", "clouds"}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBuild(t *testing.T) {
	cfg := &Config{
		CSVPath: writeCSV(t, testCSV),
		Window:  2,
		Offsets: []int{0, 3},
		Columns: testColumns,
	}
	reqs, err := Build(cfg)
	require.NoError(t, err)
	require.Len(t, reqs, 2)

	type row struct {
		pm, temp, hourSin float64
		weekend           int64
		clouds            string
	}
	expected := [][]row{
		{
			{pm: 10, temp: 1, hourSin: 0, weekend: 0, clouds: "clear"},
			{pm: 10, temp: 3, hourSin: math.Sin(2 * math.Pi / 24), weekend: 0, clouds: "cloudy"},
		},
		{
			{pm: 10 + 20*2.0/3, temp: 6, hourSin: math.Sin(2 * math.Pi * 3 / 24), weekend: 0, clouds: "unknown"},
			{pm: 30, temp: 7, hourSin: math.Sin(2 * math.Pi * 4 / 24), weekend: 0, clouds: "clear"},
		},
	}
	for i, req := range reqs {
		require.Len(t, req.Data, cfg.Window)
		for j, rec := range req.Data {
			exp := expected[i][j]
			require.Equal(t, testColumns, rec.Columns)
			v := rec.Values
			require.Equal(t, kindFloat, v[0].kind, spew.Sdump(rec))
			require.InDelta(t, exp.pm, v[0].num, 1e-9, "request %d row %d PM2.5", i, j)
			require.InDelta(t, exp.temp, v[1].num, 1e-9, "request %d row %d temperature", i, j)
			require.InDelta(t, exp.hourSin, v[2].num, 1e-12, "request %d row %d hour_sin", i, j)
			require.Equal(t, kindInt, v[3].kind)
			require.Equal(t, exp.weekend, int64(v[3].num))
			require.Equal(t, String(exp.clouds), v[4])
		}
	}
}

func TestBuild_Weekend(t *testing.T) {
	cfg := &Config{
		CSVPath: writeCSV(t, testCSV),
		Window:  1,
		Offsets: []int{5},
		Columns: []string{"PM2.5", "temperature", "dow_sin", "dow_cos", "is_weekend"},
	}
	reqs, err := Build(cfg)
	require.NoError(t, err)

	v := reqs[0].Data[0].Values
	require.Equal(t, float64(40), v[0].num)
	// trailing gaps take the last valid value
	require.Equal(t, float64(7), v[1].num)
	require.InDelta(t, math.Sin(2*math.Pi*5/7), v[2].num, 1e-12)
	require.InDelta(t, math.Cos(2*math.Pi*5/7), v[3].num, 1e-12)
	require.Equal(t, Int(1), v[4])
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name     string
		csv      string
		cfg      Config
		expected string
	}{
		{
			name:     "not_enough_rows",
			csv:      testCSV,
			cfg:      Config{Window: 2, Offsets: []int{0, 5}, Columns: testColumns},
			expected: "not enough rows for offset 5",
		},
		{
			name:     "missing_columns",
			csv:      testCSV,
			cfg:      Config{Window: 2, Offsets: []int{0}, Columns: []string{"PM2.5", "rain", "wind_direction"}},
			expected: "missing columns in prepared data: rain, wind_direction",
		},
		{
			name:     "no_datetime",
			csv:      "time,PM2.5\n2024-03-01,1\n",
			cfg:      Config{Window: 1, Offsets: []int{0}, Columns: []string{"PM2.5"}},
			expected: `no "datetime" column`,
		},
		{
			name:     "bad_datetime",
			csv:      "datetime,PM2.5\nyesterday,1\n",
			cfg:      Config{Window: 1, Offsets: []int{0}, Columns: []string{"PM2.5"}},
			expected: "line 2",
		},
		{
			name:     "empty_column",
			csv:      "datetime,PM2.5,rain\n2024-03-01 00:00,1,\n2024-03-01 01:00,2,\n",
			cfg:      Config{Window: 2, Offsets: []int{0}, Columns: []string{"PM2.5", "rain"}},
			expected: `column "rain" has no values`,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := test.cfg
			cfg.CSVPath = writeCSV(t, test.csv)
			_, err := Build(&cfg)
			if err == nil || !strings.Contains(err.Error(), test.expected) {
				t.Errorf("calling Build, err got: %v, expected to contain: %q", err, test.expected)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	req := Request{Data: []Record{{
		Columns: []string{"b", "a", "<c>", "d"},
		Values:  []Value{Float(12), Int(1), String("é<"), {}},
	}}}
	b, err := Encode(req)
	require.NoError(t, err)

	expected := `{
  "data": [
    {
      "b": 12.0,
      "a": 1,
      "<c>": "é<",
      "d": null
    }
  ]
}`
	require.Equal(t, expected, string(b))
}

func TestEncode_NonFinite(t *testing.T) {
	_, err := Encode(Request{Data: []Record{{Columns: []string{"x"}, Values: []Value{Float(math.NaN())}}}})
	require.Error(t, err)
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in       float64
		expected string
	}{
		{in: 12, expected: "12.0"},
		{in: 0.5, expected: "0.5"},
		{in: -3.25, expected: "-3.25"},
		{in: 0, expected: "0.0"},
		{in: math.Copysign(0, -1), expected: "-0.0"},
		{in: 1e-05, expected: "1e-05"},
		{in: 0.0001, expected: "0.0001"},
		{in: 6.123233995736766e-17, expected: "6.123233995736766e-17"},
		{in: 123456789, expected: "123456789.0"},
		{in: 1e16, expected: "1e+16"},
	}
	for _, test := range tests {
		if got := formatFloat(test.in); got != test.expected {
			t.Errorf("formatFloat(%v) got: %q, expected: %q", test.in, got, test.expected)
		}
	}
}

func TestWeekday(t *testing.T) {
	monday := time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		if got := weekday(monday.AddDate(0, 0, i)); got != i {
			t.Errorf("weekday of %v got: %d, expected: %d", monday.AddDate(0, 0, i), got, i)
		}
	}
}

func TestFillNumeric(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name     string
		x, v     []float64
		expected []float64
	}{
		{
			name:     "uneven_spacing",
			x:        []float64{0, 1, 4},
			v:        []float64{0, nan, 8},
			expected: []float64{0, 2, 8},
		},
		{
			name:     "edges",
			x:        []float64{0, 1, 2, 3},
			v:        []float64{nan, 3, nan, nan},
			expected: []float64{3, 3, 3, 3},
		},
		{
			name:     "equal_times",
			x:        []float64{0, 0, 0},
			v:        []float64{1, nan, 5},
			expected: []float64{1, 1, 5},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			fillNumeric(test.x, test.v)
			require.Equal(t, test.expected, test.v)
		})
	}

	empty := []float64{nan, nan}
	fillNumeric([]float64{0, 1}, empty)
	require.True(t, math.IsNaN(empty[0]) && math.IsNaN(empty[1]))
}

func TestRun_Deterministic(t *testing.T) {
	csvPath := writeCSV(t, testCSV)
	run := func() [][]byte {
		dir := t.TempDir()
		paths, err := Run(context.Background(), &Config{
			CSVPath: csvPath,
			OutDir:  dir,
			Window:  2,
			Offsets: []int{0, 2, 4},
			Columns: testColumns,
		})
		require.NoError(t, err)
		require.Equal(t, []string{
			filepath.Join(dir, "request_1.json"),
			filepath.Join(dir, "request_2.json"),
			filepath.Join(dir, "request_3.json"),
		}, paths)

		var out [][]byte
		for _, p := range paths {
			b, err := os.ReadFile(p)
			require.NoError(t, err)
			out = append(out, b)
		}
		return out
	}

	first, second := run(), run()
	for i := range first {
		if !bytes.Equal(first[i], second[i]) {
			t.Errorf("request %d differs between runs:\n%s\n%s", i+1, first[i], second[i])
		}
	}
	require.True(t, bytes.Contains(first[0], []byte(`"PM2.5": 10.0`)), string(first[0]))
}
