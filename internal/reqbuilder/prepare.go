package reqbuilder

import (
	"math"
	"time"
)

// prepare fills gaps and derives the calendar features.
func (f *frame) prepare() {
	f.drop(dropColumn)

	x := make([]float64, f.len())
	for i, t := range f.times {
		x[i] = float64(t.Sub(f.times[0]))
	}
	for _, c := range f.columns {
		if c.numeric {
			fillNumeric(x, c.nums)
		}
	}

	if c := f.column(cloudsColumn); c != nil {
		if c.numeric {
			// a clouds column of numbers stays categorical
			c.strs = make([]string, f.len())
			for i, v := range c.nums {
				if !math.IsNaN(v) {
					c.strs[i] = formatFloat(v)
				}
			}
			c.numeric, c.integer, c.nums = false, false, nil
		}
		for i, s := range c.strs {
			if isMissing(s) {
				c.strs[i] = unknownClouds
			}
		}
	}

	f.addCalendar()
}

// fillNumeric interpolates missing values linearly in time between valid
// neighbours, then fills the edges from the nearest valid value.
func fillNumeric(x, v []float64) {
	prev := -1
	for i := range v {
		if math.IsNaN(v[i]) {
			continue
		}
		switch {
		case prev < 0:
			for j := 0; j < i; j++ {
				v[j] = v[i]
			}
		case i-prev > 1:
			span := x[i] - x[prev]
			for j := prev + 1; j < i; j++ {
				if span == 0 {
					v[j] = v[prev]
					continue
				}
				v[j] = v[prev] + (v[i]-v[prev])*(x[j]-x[prev])/span
			}
		}
		prev = i
	}
	if prev < 0 {
		return
	}
	for j := prev + 1; j < len(v); j++ {
		v[j] = v[prev]
	}
}

func (f *frame) addCalendar() {
	n := f.len()
	cols := map[string][]float64{}
	for _, name := range []string{"hour_sin", "hour_cos", "dow_sin", "dow_cos", "month_sin", "month_cos", "is_weekend"} {
		cols[name] = make([]float64, n)
	}
	for i, t := range f.times {
		hour := float64(t.Hour())
		dow := weekday(t)
		month := float64(t.Month())
		cols["hour_sin"][i] = math.Sin(2 * math.Pi * hour / 24)
		cols["hour_cos"][i] = math.Cos(2 * math.Pi * hour / 24)
		cols["dow_sin"][i] = math.Sin(2 * math.Pi * float64(dow) / 7)
		cols["dow_cos"][i] = math.Cos(2 * math.Pi * float64(dow) / 7)
		cols["month_sin"][i] = math.Sin(2 * math.Pi * month / 12)
		cols["month_cos"][i] = math.Cos(2 * math.Pi * month / 12)
		if dow >= 5 {
			cols["is_weekend"][i] = 1
		}
	}
	for _, name := range []string{"hour_sin", "hour_cos", "dow_sin", "dow_cos", "month_sin", "month_cos"} {
		f.set(&column{name: name, numeric: true, nums: cols[name]})
	}
	f.set(&column{name: "is_weekend", numeric: true, integer: true, nums: cols["is_weekend"]})
}

// weekday counts from Monday = 0.
func weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
