// Package dataset loads and normalizes tab-separated roast logs.
//
// A loaded Table keeps every raw cell for pass-through output and a cleaned
// float view of the declared numeric columns, with NaN standing in for
// missing or unparseable values. No rows are dropped at load time; callers
// select usable rows per prediction target via CompleteRows.
package dataset

import (
	"math"
	"strings"
)

// Column names as they appear in the roast log header.
const (
	ColProfile   = "Profile"
	ColLevel     = "Level"
	ColMoisture  = "Moisture"
	ColDensity   = "Density [g/l]"
	ColWeight    = "Weight [mg]"
	ColAltitude  = "Altitude"
	ColRoastDate = "Roast Date"
	ColHarvest   = "Harvest"
	ColLoss      = "Loss"
	ColColor     = "Color"
	ColDose      = "Dose [g]"
	ColGrind     = "Grind [°Titus]"

	// ColBeanAge is derived from Roast Date and Harvest on every load.
	ColBeanAge = "Bean Age"
)

// NumericColumns are the raw columns coerced to float64 at load time.
// Altitude and Bean Age are handled separately (range averaging, derivation).
var NumericColumns = []string{
	ColLevel, ColMoisture, ColDensity, ColWeight,
	ColLoss, ColColor, ColDose, ColGrind,
}

// Table is a cleaned roast log: raw cells plus float views of numeric columns.
type Table struct {
	Header []string
	Rows   [][]string

	index map[string]int
	num   map[string][]float64
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// HasColumn reports whether the source table had the named column, or, for
// derived columns, whether the derivation produced one.
func (t *Table) HasColumn(col string) bool {
	if _, ok := t.num[col]; ok {
		return true
	}
	_, ok := t.index[col]
	return ok
}

// Cell returns the raw string cell, or "" for unknown columns.
func (t *Table) Cell(col string, row int) string {
	i, ok := t.index[col]
	if !ok || i >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][i]
}

// Value returns the cleaned numeric value for a column, NaN when missing.
func (t *Table) Value(col string, row int) float64 {
	c, ok := t.num[col]
	if !ok {
		return math.NaN()
	}
	return c[row]
}

// Profile returns the trimmed categorical profile name for a row.
func (t *Table) Profile(row int) string {
	return strings.TrimSpace(t.Cell(ColProfile, row))
}

// CompleteRows returns, in order, the indices of rows where every listed
// column is present: a non-empty string for Profile, a non-NaN value
// otherwise. It is idempotent and involves no randomness; different column
// sets select independent subsets of the same table.
func (t *Table) CompleteRows(cols []string) []int {
	var out []int
rows:
	for r := 0; r < t.Len(); r++ {
		for _, col := range cols {
			if col == ColProfile {
				if t.Profile(r) == "" {
					continue rows
				}
				continue
			}
			if math.IsNaN(t.Value(col, r)) {
				continue rows
			}
		}
		out = append(out, r)
	}
	return out
}
