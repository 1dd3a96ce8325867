// Package config holds the settings shared by both figure pipelines.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Defaults.
const (
	DefaultDataDir    = "src/data"
	DefaultFiguresDir = "src/tex/figures"
	DefaultLogsDir    = "plots"
	DefaultFile       = "rotfig.yaml"

	DefaultKOITable  = "https://cdsarc.cds.unistra.fr/ftp/J/ApJ/775/L11/table1.dat"
	DefaultKOIReadme = "https://cdsarc.cds.unistra.fr/ftp/J/ApJ/775/L11/ReadMe"
)

// Config is the resolved run configuration.
type Config struct {
	Paths     Paths     `koanf:"paths"`
	Inputs    Inputs    `koanf:"inputs"`
	Bootstrap Bootstrap `koanf:"bootstrap"`
	Shift     Shift     `koanf:"shift"`

	// Formats are extra image formats written next to every PDF.
	Formats []string `koanf:"formats" validate:"dive,oneof=eps jpg jpeg pdf png svg tif tiff"`

	Verbose bool   `koanf:"verbose"`
	Note    string `koanf:"note"`
}

// Paths are the directories read and written by a run.
type Paths struct {
	Data    string `koanf:"data" validate:"required"`
	Figures string `koanf:"figures" validate:"required"`
	// Cache holds downloaded CDS files; empty means <data>/cache.
	Cache string `koanf:"cache"`
	Logs  string `koanf:"logs" validate:"required"`
}

// Inputs are table file names, relative to Paths.Data unless absolute,
// and the CDS URLs of the KOI rotation table.
type Inputs struct {
	CKS       string `koanf:"cks" validate:"required"`
	Lamost    string `koanf:"lamost" validate:"required"`
	LamostCSV string `koanf:"lamost_csv" validate:"required"`
	McQuillan string `koanf:"mcquillan" validate:"required"`
	Standard  string `koanf:"standard" validate:"required"`
	Rocrit    string `koanf:"rocrit" validate:"required"`
	KOITable  string `koanf:"koi_table" validate:"required,url"`
	KOIReadme string `koanf:"koi_readme" validate:"required,url"`
}

// Bootstrap configures the percentile bootstrap.
type Bootstrap struct {
	Samples  int     `koanf:"samples" validate:"gt=0"`
	Fraction float64 `koanf:"fraction" validate:"gt=0,lte=1"`
	// Seed 0 picks a random seed per run.
	Seed   uint64  `koanf:"seed"`
	Window float64 `koanf:"window" validate:"gt=0"`
	RoMax  float64 `koanf:"ro_max" validate:"gt=0"`
}

// Shift is the temperature calibration offset, in K, added to each
// observed sample before it is compared with the models.
type Shift struct {
	CKS    float64 `koanf:"cks"`
	Lamost float64 `koanf:"lamost"`
}

func defaults() map[string]any {
	return map[string]any{
		"paths.data":         DefaultDataDir,
		"paths.figures":      DefaultFiguresDir,
		"paths.cache":        "",
		"paths.logs":         DefaultLogsDir,
		"inputs.cks":         "cks_merged.parquet",
		"inputs.lamost":      "kepler_lamost.parquet",
		"inputs.lamost_csv":  "kepler_lamost.csv",
		"inputs.mcquillan":   "mcquillan2014_table1.parquet",
		"inputs.standard":    "standard_population.parquet",
		"inputs.rocrit":      "rocrit_population.parquet",
		"inputs.koi_table":   DefaultKOITable,
		"inputs.koi_readme":  DefaultKOIReadme,
		"bootstrap.samples":  100,
		"bootstrap.fraction": 0.5,
		"bootstrap.seed":     0,
		"bootstrap.window":   100.,
		"bootstrap.ro_max":   5. / 3.,
		"shift.cks":          111.,
		"shift.lamost":       116.,
		"formats":            []string{},
		"verbose":            false,
		"note":               "",
	}
}

// DataPath resolves an input name against Paths.Data.
func (c *Config) DataPath(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Paths.Data, name)
}

// FigurePath is the output path of a figure file.
func (c *Config) FigurePath(name string) string {
	return filepath.Join(c.Paths.Figures, name)
}

// CacheDir is where downloaded tables are kept.
func (c *Config) CacheDir() string {
	if c.Paths.Cache != "" {
		return c.Paths.Cache
	}
	return filepath.Join(c.Paths.Data, "cache")
}

var validate = validator.New()

// Validate checks required fields and numeric ranges.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
