// Package payload validates decoded /predict request bodies and assembles
// their rows into the table the preprocessor expects.
package payload

import (
	"fmt"
	"strings"
)

// MsgInvalidBody is reported for an absent, undecodable or non-object body.
const MsgInvalidBody = "missing JSON body or invalid JSON object"

// Row is one time step of the request window.
type Row = map[string]interface{}

// Validate checks that v is an object whose "data" member is a list of
// exactly window objects, and returns those objects.
func Validate(v interface{}, window int) ([]Row, error) {
	body, ok := v.(map[string]interface{})
	if !ok || body == nil {
		return nil, newError(KindBody, MsgInvalidBody)
	}

	raw, ok := body["data"]
	if !ok {
		return nil, newError(KindData, "missing 'data' field in JSON body")
	}

	data, ok := raw.([]interface{})
	if !ok {
		return nil, newError(KindData, "'data' must be a list of objects (rows)")
	}

	if len(data) != window {
		return nil, newError(KindLength, fmt.Sprintf("'data' must have exactly %d rows, got %d", window, len(data)))
	}

	rows := make([]Row, len(data))
	for i, r := range data {
		row, ok := r.(map[string]interface{})
		if !ok {
			return nil, newError(KindRow, fmt.Sprintf("row %d in 'data' is not an object", i))
		}
		rows[i] = row
	}
	return rows, nil
}

// MissingColumns returns the required columns that no row provides, in the
// order of required.
func MissingColumns(rows []Row, required []string) []string {
	var missing []string
	for _, col := range required {
		if !hasColumn(rows, col) {
			missing = append(missing, col)
		}
	}
	return missing
}

// CheckColumns reports every missing required column at once.
func CheckColumns(rows []Row, required []string) error {
	missing := MissingColumns(rows, required)
	if len(missing) == 0 {
		return nil
	}
	return newError(KindColumns, "missing required columns: "+strings.Join(missing, ", "))
}

func hasColumn(rows []Row, col string) bool {
	for _, r := range rows {
		if _, ok := r[col]; ok {
			return true
		}
	}
	return false
}
