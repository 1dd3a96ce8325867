//go:build !gnuplot

package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HamletTheHamster/rotation-percentiles/internal/report"
)

func TestPreview_NotBuilt(t *testing.T) {
	assert.ErrorIs(t, previewPercentiles("x.png", report.Bins{}), ErrNoPreview)

	dir := t.TempDir()
	opts := DefaultPercentileOptions(filepath.Join(dir, "percentiles.pdf"))
	opts.Samples = 5
	opts.Seed = 3
	opts.Preview = filepath.Join(dir, "preview.png")

	_, err := RunPercentiles(context.Background(), testEnv(t, nil), synthetic(), opts)
	require.NoError(t, err)

	_, err = os.Stat(opts.Figure)
	assert.NoError(t, err)
	_, err = os.Stat(opts.Preview)
	assert.True(t, os.IsNotExist(err))
}
