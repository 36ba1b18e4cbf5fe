package payload

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/airsense/pm10cast/internal/predictor"
)

// Assemble checks the required columns and converts the rows into a table
// ordered as numeric followed by categorical columns. Extra keys are
// ignored.
func Assemble(rows []Row, numeric, categorical []string) (predictor.Table, error) {
	required := make([]string, 0, len(numeric)+len(categorical))
	required = append(required, numeric...)
	required = append(required, categorical...)
	if err := CheckColumns(rows, required); err != nil {
		return predictor.Table{}, err
	}

	t := predictor.Table{
		NumericColumns:     numeric,
		CategoricalColumns: categorical,
		Numeric:            make([][]float64, len(rows)),
		Categorical:        make([][]string, len(rows)),
	}
	for i, r := range rows {
		nums := make([]float64, len(numeric))
		for j, col := range numeric {
			x, err := numericValue(r[col])
			if err != nil {
				return predictor.Table{}, newError(KindValue, fmt.Sprintf("row %d: column '%s' %v", i, col, err))
			}
			nums[j] = x
		}
		cats := make([]string, len(categorical))
		for j, col := range categorical {
			s, err := categoricalValue(r[col])
			if err != nil {
				return predictor.Table{}, newError(KindValue, fmt.Sprintf("row %d: column '%s' %v", i, col, err))
			}
			cats[j] = s
		}
		t.Numeric[i] = nums
		t.Categorical[i] = cats
	}
	return t, nil
}

func numericValue(v interface{}) (float64, error) {
	var (
		x   float64
		err error
	)
	switch n := v.(type) {
	case nil:
		return 0, fmt.Errorf("has no value")
	case json.Number:
		x, err = n.Float64()
	case float64:
		x = n
	case float32:
		x = float64(n)
	case int:
		x = float64(n)
	case int64:
		x = float64(n)
	case bool:
		if n {
			x = 1
		}
	case string:
		x, err = strconv.ParseFloat(strings.TrimSpace(n), 64)
	default:
		return 0, fmt.Errorf("must be a number, got %T", v)
	}
	if err != nil {
		return 0, fmt.Errorf("must be a number: %v", err)
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, fmt.Errorf("must be a finite number")
	}
	return x, nil
}

func categoricalValue(v interface{}) (string, error) {
	switch s := v.(type) {
	case nil:
		return "", fmt.Errorf("has no value")
	case string:
		return s, nil
	case json.Number:
		return s.String(), nil
	case float64:
		return strconv.FormatFloat(s, 'g', -1, 64), nil
	case bool:
		return strconv.FormatBool(s), nil
	default:
		return "", fmt.Errorf("must be a string, got %T", v)
	}
}
