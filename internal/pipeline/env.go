package pipeline

import (
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/HamletTheHamster/rotation-percentiles/internal/catalog"
	"github.com/HamletTheHamster/rotation-percentiles/internal/report"
)

// Env is where a run reports to.
type Env struct {
	RunID string
	// Log receives the diagnostic lines, echoed to stdout and saved to
	// log.txt.
	Log *report.Log
	// Out receives the optional summary tables.
	Out    io.Writer
	Logger *slog.Logger
}

// NewEnv prepares a run: a fresh id, and a log directory under logsRoot
// named after the current time and note.
func NewEnv(
	out io.Writer,
	logsRoot, note string,
	logger *slog.Logger,
) (
	*Env,
) {

	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.NewString()
	log := report.NewLog(out, report.RunDir(logsRoot, note, time.Now()))
	log.Header = "# run " + id

	return &Env{
		RunID:  id,
		Log:    log,
		Out:    out,
		Logger: logger.With("run", id),
	}
}

// cleanLamost prints the target counts before and after the LAMOST
// preparation, then the median temperature error of what is left.
func cleanLamost(
	env *Env,
	d *Datasets,
) (
	[]catalog.LamostStar,
) {

	env.Log.Println("LAMOST unique KIC targets:", catalog.UniqueKIC(d.Lamost))
	env.Log.Println("LAMOST unique DR2 targets:", catalog.UniqueDR2(d.Lamost))

	lam := catalog.CleanLamost(d.Lamost, d.McQuillan)
	env.Logger.Debug("lamost cleaned", "stars", len(lam), "in_mcquillan", catalog.InMcQuillan(lam))

	env.Log.Println("LAMOST unique KIC targets:", catalog.UniqueKIC(lam))
	env.Log.Println("LAMOST unique DR2 targets:", catalog.UniqueDR2(lam))
	env.Log.Println("Median LAMOST Teff error:", pyFloat(catalog.MedianTeffErr(lam)))

	return lam
}

// pyFloat formats v the way the diagnostics have always been printed:
// shortest round-trip digits, always with a decimal point, and
// exponent notation only outside [1e-4, 1e16).
func pyFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case v == 0:
		if math.Signbit(v) {
			return "-0.0"
		}
		return "0.0"
	}

	a := math.Abs(v)
	if a < 1e-4 || a >= 1e16 {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
