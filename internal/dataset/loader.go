package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

const daysPerYear = 365.25

// Load reads a tab-separated roast log with a header row and returns a
// cleaned Table. Malformed cells degrade to NaN; the load itself only fails
// on I/O or header errors, never on a bad value.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read header: empty file")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	t := &Table{Header: header, index: map[string]int{}, num: map[string][]float64{}}
	for i, h := range header {
		t.index[strings.TrimSpace(h)] = i
	}

	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", t.Len()+1, err)
		}
		// pad short rows so pass-through output keeps its shape
		if len(rec) < len(header) {
			tmp := make([]string, len(header))
			copy(tmp, rec)
			rec = tmp
		}
		row := make([]string, len(rec))
		copy(row, rec)
		t.Rows = append(t.Rows, row)
	}

	for _, col := range NumericColumns {
		if _, ok := t.index[col]; !ok {
			continue
		}
		vals := make([]float64, t.Len())
		for r := range vals {
			vals[r] = CleanNumber(t.Cell(col, r))
		}
		t.num[col] = vals
	}
	if _, ok := t.index[ColAltitude]; ok {
		vals := make([]float64, t.Len())
		for r := range vals {
			vals[r] = ParseAltitude(t.Cell(ColAltitude, r))
		}
		t.num[ColAltitude] = vals
	}
	t.num[ColBeanAge] = t.deriveBeanAge()

	return t, nil
}

// deriveBeanAge computes years between roast date and Jan 1 of the harvest
// year. A failed date or year parse leaves that row's age NaN; the column is
// all-NaN when either source column is absent.
func (t *Table) deriveBeanAge() []float64 {
	ages := make([]float64, t.Len())
	for i := range ages {
		ages[i] = math.NaN()
	}
	_, hasDate := t.index[ColRoastDate]
	_, hasHarvest := t.index[ColHarvest]
	if !hasDate || !hasHarvest {
		return ages
	}
	for r := range ages {
		d, ok := parseDayFirst(t.Cell(ColRoastDate, r))
		if !ok {
			continue
		}
		year, ok := parseYear(t.Cell(ColHarvest, r))
		if !ok {
			continue
		}
		jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		ages[r] = d.Sub(jan1).Hours() / 24 / daysPerYear
	}
	return ages
}

// sentinels are treated as missing rather than parse failures.
var sentinels = []string{"LOW", "N/A"}

// CleanNumber coerces a cell to float64. A trailing "%" marker is stripped,
// sentinel strings and empty cells are missing, and anything unparseable
// degrades to NaN instead of raising an error.
func CleanNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	for _, sen := range sentinels {
		if strings.EqualFold(s, sen) {
			return math.NaN()
		}
	}
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// ParseAltitude parses a bare altitude or a hyphen range "A-B" as the mean
// of the endpoints that parse. Wholly unparseable input is NaN.
func ParseAltitude(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	if !strings.Contains(s, "-") {
		return CleanNumber(s)
	}
	var sum float64
	var n int
	for _, part := range strings.SplitN(s, "-", 2) {
		if v := CleanNumber(part); !math.IsNaN(v) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// Roast dates follow the day-first convention.
var dateLayouts = []string{"2.1.2006", "2/1/2006", "2-1-2006", "2006-01-02"}

func parseDayFirst(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if y, err := strconv.Atoi(s); err == nil && y > 0 {
		return y, true
	}
	// tolerate "2019.0" style cells
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return int(f), true
	}
	return 0, false
}
