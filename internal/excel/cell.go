package excel

import (
	"math"
	"strconv"
	"strings"
)

type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
)

func (k CellKind) String() string {
	switch k {
	case CellText:
		return "text"
	case CellNumber:
		return "number"
	default:
		return "empty"
	}
}

// Cell is one spreadsheet value. Numbers keep the parsed value, text keeps
// the raw string; an empty cell carries neither.
type Cell struct {
	Kind  CellKind
	text  string
	value float64
}

func TextCell(text string) Cell {
	if text == "" {
		return Cell{}
	}
	return Cell{Kind: CellText, text: text}
}

func NumberCell(value float64) Cell {
	return Cell{Kind: CellNumber, value: value}
}

func (c Cell) Missing() bool {
	return c.Kind == CellEmpty
}

// String renders the cell the way a loosely typed sheet reader would:
// numbers without trailing zeros, text as stored.
func (c Cell) String() string {
	switch c.Kind {
	case CellNumber:
		return strconv.FormatFloat(c.value, 'f', -1, 64)
	case CellText:
		return c.text
	default:
		return ""
	}
}

// Number coerces the cell to a float. Blank text is zero; text that does
// not parse, or parses to a non-finite value, reports ok=false.
func (c Cell) Number() (float64, bool) {
	switch c.Kind {
	case CellNumber:
		return c.value, true
	case CellText:
		raw := strings.TrimSpace(strings.TrimPrefix(c.text, "\ufeff"))
		if raw == "" {
			return 0, true
		}
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			return 0, false
		}
		return parsed, true
	default:
		return 0, true
	}
}

func cellAt(row []Cell, idx int) Cell {
	if idx < 0 || idx >= len(row) {
		return Cell{}
	}
	return row[idx]
}

// textRow builds cells from plain strings, as produced by csv readers.
func textRow(values []string) []Cell {
	cells := make([]Cell, len(values))
	for i, value := range values {
		cells[i] = TextCell(value)
	}
	return trimTrailingEmpty(cells)
}

func trimTrailingEmpty(cells []Cell) []Cell {
	end := len(cells)
	for end > 0 && cells[end-1].Missing() {
		end--
	}
	return cells[:end]
}
