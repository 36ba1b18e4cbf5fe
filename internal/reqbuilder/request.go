package reqbuilder

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Request is the body of one /predict call.
type Request struct {
	Data []Record `json:"data"`
}

// Record is one row of a request. Keys keep the column order.
type Record struct {
	Columns []string
	Values  []Value
}

// Value is a numeric cell, an integer cell or a string cell. A zero Value
// is null.
type Value struct {
	num  float64
	str  string
	kind valueKind
}

type valueKind uint8

const (
	kindNull valueKind = iota
	kindFloat
	kindInt
	kindString
)

func Float(v float64) Value {
	return Value{num: v, kind: kindFloat}
}

func Int(v int64) Value {
	return Value{num: float64(v), kind: kindInt}
}

func String(s string) Value {
	return Value{str: s, kind: kindString}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case kindFloat:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return nil, fmt.Errorf("value %v is not finite", v.num)
		}
		return []byte(formatFloat(v.num)), nil
	case kindInt:
		return []byte(strconv.FormatInt(int64(v.num), 10)), nil
	case kindString:
		return encodeString(v.str)
	default:
		return []byte("null"), nil
	}
}

func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.Columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := encodeString(col)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := r.Values[i].MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col, err)
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func encodeString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// formatFloat prints the shortest representation that round trips, always
// with a fraction or exponent, switching to exponent form below 1e-4 and
// from 1e16.
func formatFloat(v float64) string {
	if v == 0 {
		if math.Signbit(v) {
			return "-0.0"
		}
		return "0.0"
	}
	e := strconv.FormatFloat(v, 'e', -1, 64)
	exp, _ := strconv.Atoi(e[strings.IndexByte(e, 'e')+1:])
	if exp < -4 || exp >= 16 {
		return e
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}

// window cuts rows [offset, offset+size) restricted to columns.
func (f *frame) window(offset, size int, columns []string) (Request, error) {
	if offset < 0 || offset+size > f.len() {
		return Request{}, fmt.Errorf("not enough rows for offset %d: need %d, have %d", offset, size, f.len()-offset)
	}
	cols := make([]*column, len(columns))
	for i, name := range columns {
		cols[i] = f.column(name)
		if cols[i] == nil {
			return Request{}, fmt.Errorf("missing columns in prepared data: %s", name)
		}
	}

	req := Request{Data: make([]Record, size)}
	for r := 0; r < size; r++ {
		row := offset + r
		rec := Record{Columns: columns, Values: make([]Value, len(columns))}
		for i, c := range cols {
			switch {
			case !c.numeric:
				if isMissing(c.strs[row]) {
					continue
				}
				rec.Values[i] = String(c.strs[row])
			case math.IsNaN(c.nums[row]):
				return Request{}, fmt.Errorf("column %q has no values to fill row %d", c.name, row)
			case c.integer:
				rec.Values[i] = Int(int64(c.nums[row]))
			default:
				rec.Values[i] = Float(c.nums[row])
			}
		}
		req.Data[r] = rec
	}
	return req, nil
}
