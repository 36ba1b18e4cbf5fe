package preprocess

import (
	"fmt"
)

type HandleUnknown string

const (
	HandleUnknownIgnore HandleUnknown = "ignore"
	HandleUnknownError  HandleUnknown = "error"
)

// OneHotEncoder expands every categorical column into one indicator column
// per known category, in the order the categories are listed.
type OneHotEncoder struct {
	Columns       []string      `json:"columns"`
	Categories    [][]string    `json:"categories"`
	HandleUnknown HandleUnknown `json:"handle_unknown"`

	offsets []int
	lookup  []map[string]int
	width   int
}

func (e *OneHotEncoder) init() error {
	if len(e.Categories) != len(e.Columns) {
		return fmt.Errorf("one-hot: %d category lists for %d columns", len(e.Categories), len(e.Columns))
	}
	switch e.HandleUnknown {
	case "":
		e.HandleUnknown = HandleUnknownError
	case HandleUnknownIgnore, HandleUnknownError:
	default:
		return fmt.Errorf("one-hot: unknown handle_unknown mode %q", e.HandleUnknown)
	}
	e.offsets = make([]int, len(e.Columns))
	e.lookup = make([]map[string]int, len(e.Columns))
	e.width = 0
	for i, cats := range e.Categories {
		if len(cats) == 0 {
			return fmt.Errorf("one-hot: column %q has no categories", e.Columns[i])
		}
		e.offsets[i] = e.width
		e.lookup[i] = make(map[string]int, len(cats))
		for j, c := range cats {
			if _, ok := e.lookup[i][c]; ok {
				return fmt.Errorf("one-hot: duplicate category %q in column %q", c, e.Columns[i])
			}
			e.lookup[i][c] = j
		}
		e.width += len(cats)
	}
	return nil
}

// index returns the output column of value in categorical column col, or -1
// when the value is unknown and unknowns are ignored.
func (e *OneHotEncoder) index(col int, value string) (int, error) {
	if j, ok := e.lookup[col][value]; ok {
		return e.offsets[col] + j, nil
	}
	if e.HandleUnknown == HandleUnknownIgnore {
		return -1, nil
	}
	return 0, fmt.Errorf("found unknown category %q in column %q during transform", value, e.Columns[col])
}
