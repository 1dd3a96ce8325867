package main

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const glotPkg = "github.com/Arafatk/glot"

// glot panics at load time without gnuplot, so only the tagged build may
// link it.
func TestGnuplotOnlyWithTag(t *testing.T) {
	if testing.Short() {
		t.Skip("lists dependencies with the go command")
	}
	gobin, err := exec.LookPath("go")
	if err != nil {
		t.Skip("go command not found")
	}

	deps := func(args ...string) string {
		out, err := exec.Command(gobin, append([]string{"list", "-deps"}, args...)...).Output()
		require.NoError(t, err)
		return string(out)
	}

	assert.NotContains(t, deps("."), glotPkg)
	assert.Contains(t, deps("-tags", "gnuplot", "."), glotPkg)
}
