package cds

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Table is a fixed-width CDS table held by column. Int and Float columns
// are both stored as float64 with blanks as NaN; String columns keep the
// trimmed text.
type Table struct {
	Columns []Column
	Rows    int

	floats  map[string][]float64
	strings map[string][]string
}

// ReadTable reads a fixed-width data file laid out by cols.
func ReadTable(
	r io.Reader,
	cols []Column,
) (
	*Table, error,
) {

	t := &Table{
		Columns: cols,
		floats:  map[string][]float64{},
		strings: map[string][]string{},
	}

	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 1024*1024)

	line := 0
	for s.Scan() {
		line++
		text := s.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}

		for _, c := range cols {
			field := strings.TrimSpace(slice(text, c.Start, c.End))

			if c.Kind == String {
				t.strings[c.Label] = append(t.strings[c.Label], field)
				continue
			}

			v := math.NaN()
			if field != "" {
				var err error
				if v, err = strconv.ParseFloat(field, 64); err != nil {
					return nil, fmt.Errorf("cds: line %d, %s: %w", line, c.Label, err)
				}
			}
			t.floats[c.Label] = append(t.floats[c.Label], v)
		}
		t.Rows++
	}
	if err := s.Err(); err != nil {
		return nil, err
	}

	return t, nil
}

func slice(
	text string,
	start, end int,
) (
	string,
) {

	if start-1 >= len(text) {
		return ""
	}
	if end > len(text) {
		end = len(text)
	}
	return text[start-1 : end]
}

// Float returns a numeric column by label.
func (t *Table) Float(label string) ([]float64, bool) {
	v, ok := t.floats[label]
	return v, ok
}

// String returns a text column by label.
func (t *Table) String(label string) ([]string, bool) {
	v, ok := t.strings[label]
	return v, ok
}

// Labels lists the column labels in ReadMe order.
func (t *Table) Labels() []string {
	labels := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		labels[i] = c.Label
	}
	return labels
}

// WithPrefix returns a copy of t whose labels all start with prefix.
func (t *Table) WithPrefix(prefix string) *Table {
	p := &Table{
		Columns: make([]Column, len(t.Columns)),
		Rows:    t.Rows,
		floats:  make(map[string][]float64, len(t.floats)),
		strings: make(map[string][]string, len(t.strings)),
	}
	for i, c := range t.Columns {
		c.Label = prefix + c.Label
		p.Columns[i] = c
	}
	for k, v := range t.floats {
		p.floats[prefix+k] = v
	}
	for k, v := range t.strings {
		p.strings[prefix+k] = v
	}
	return p
}
