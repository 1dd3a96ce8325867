// Package report writes the run log, terminal tables and per-bin exports.
package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// RunDir is the dated log directory for a run:
// <root>/<2006-Jan-02>/<15:04:05>: <note>.
func RunDir(
	root, note string,
	now time.Time,
) (
	string,
) {
	return filepath.Join(root, now.Format("2006-Jan-02"), now.Format("15:04:05")+": "+note)
}

// Log echoes diagnostic lines to out and keeps them for log.txt.
type Log struct {
	Dir string
	// Header, when set, opens log.txt but is not echoed.
	Header string

	out   io.Writer
	lines []string
}

// NewLog returns a Log writing to out and saving under dir. A nil out
// discards the echo.
func NewLog(out io.Writer, dir string) *Log {
	if out == nil {
		out = io.Discard
	}
	return &Log{Dir: dir, out: out}
}

// Println prints the operands separated by spaces.
func (l *Log) Println(a ...any) {
	parts := make([]string, len(a))
	for i, v := range a {
		parts[i] = fmt.Sprint(v)
	}
	l.add(strings.Join(parts, " ") + "\n")
}

// Printf prints a formatted line; a trailing newline is added if missing.
func (l *Log) Printf(format string, a ...any) {
	line := fmt.Sprintf(format, a...)
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	l.add(line)
}

func (l *Log) add(line string) {
	_, _ = io.WriteString(l.out, line)
	l.lines = append(l.lines, line)
}

// Lines returns the lines logged so far.
func (l *Log) Lines() []string {
	return l.lines
}

// Write saves the collected lines to <Dir>/log.txt.
func (l *Log) Write() error {
	lines := l.lines
	if l.Header != "" {
		lines = append([]string{l.Header + "\n"}, lines...)
	}
	return writeLog(l.Dir, lines)
}

func writeLog(
	logpath string,
	logFile []string,
) (
	error,
) {

	if err := os.MkdirAll(logpath, 0755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	txt, err := os.Create(filepath.Join(logpath, "log.txt"))
	if err != nil {
		return fmt.Errorf("creating log: %w", err)
	}

	w := bufio.NewWriter(txt)
	for _, line := range logFile {
		if _, err := w.WriteString(line); err != nil {
			_ = txt.Close()
			return fmt.Errorf("writing log: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		_ = txt.Close()
		return fmt.Errorf("writing log: %w", err)
	}
	return txt.Close()
}
