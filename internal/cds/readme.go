// Package cds reads tables published by the Strasbourg astronomical Data
// Center: a ReadMe describing byte ranges and a fixed-width data file.
package cds

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// ErrNoDescription is returned when a ReadMe has no byte-by-byte
// description for the requested file.
var ErrNoDescription = errors.New("cds: no byte-by-byte description")

// Kind is the storage class of a column, taken from the Fortran-style
// format code (A, I, F, E).
type Kind int

const (
	String Kind = iota
	Int
	Float
)

// Column is one entry of a byte-by-byte description. Start and End are the
// 1-based inclusive byte positions.
type Column struct {
	Start, End int
	Format     string
	Kind       Kind
	Units      string
	Label      string
	Nullable   bool
}

var (
	byteLine = regexp.MustCompile(`^\s*(\d+)(?:\s*-\s*(\d+))?\s+([AIFE][0-9.]+)\s+(\S+)\s+(\S+)\s*(.*)$`)
	dashes   = regexp.MustCompile(`^-{10,}\s*$`)
)

// ParseReadMe extracts the column layout of dataFile from a CDS ReadMe.
func ParseReadMe(
	r io.Reader,
	dataFile string,
) (
	[]Column, error,
) {

	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 1024*1024)

	// Find the section for dataFile
	found := false
	for s.Scan() {
		line := s.Text()
		if strings.HasPrefix(line, "Byte-by-byte Description of file") && describes(line, dataFile) {
			found = true
			break
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w for %s", ErrNoDescription, dataFile)
	}

	// Skip the rule above the header, the header and the rule below it
	rules := 0
	for rules < 2 && s.Scan() {
		if dashes.MatchString(s.Text()) {
			rules++
		}
	}

	var cols []Column
	for s.Scan() {
		line := s.Text()
		if dashes.MatchString(line) {
			break
		}
		m := byteLine.FindStringSubmatch(line)
		if m == nil {
			// Continuation of the previous explanation
			continue
		}
		col, err := column(m)
		if err != nil {
			return nil, fmt.Errorf("cds: %q: %w", line, err)
		}
		cols = append(cols, col)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w for %s: empty", ErrNoDescription, dataFile)
	}

	return cols, nil
}

func describes(
	header, dataFile string,
) (
	bool,
) {

	_, files, ok := strings.Cut(header, ":")
	if !ok {
		return false
	}
	for _, f := range strings.Fields(files) {
		if f == dataFile {
			return true
		}
	}
	return false
}

func column(
	m []string,
) (
	Column, error,
) {

	start, err := strconv.Atoi(m[1])
	if err != nil {
		return Column{}, err
	}
	end := start
	if m[2] != "" {
		if end, err = strconv.Atoi(m[2]); err != nil {
			return Column{}, err
		}
	}
	if end < start {
		return Column{}, fmt.Errorf("byte range %d-%d", start, end)
	}

	col := Column{
		Start:    start,
		End:      end,
		Format:   m[3],
		Units:    m[4],
		Label:    m[5],
		Nullable: strings.HasPrefix(strings.TrimSpace(m[6]), "?"),
	}

	switch m[3][0] {
	case 'A':
		col.Kind = String
	case 'I':
		col.Kind = Int
	default:
		col.Kind = Float
	}

	return col, nil
}
