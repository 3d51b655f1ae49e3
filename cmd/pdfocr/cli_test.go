package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverridesOnlyContainGivenFlags(t *testing.T) {
	cli, _, err := parseCLI([]string{"--dpi", "150", "--mode", "all", "--no-progress", "in.pdf"})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"dpi":         150,
		"mode":        "all",
		"no_progress": true,
	}, cli.overrides())
	assert.Contains(t, cli.Input, "in.pdf")
}

func TestNoFlagsNoOverrides(t *testing.T) {
	cli, _, err := parseCLI(nil)
	require.NoError(t, err)
	assert.Empty(t, cli.overrides())
	assert.Empty(t, cli.Input)
}

func TestPageFlags(t *testing.T) {
	cli, _, err := parseCLI([]string{"--first-page", "2", "--last-page", "4", "--temperature", "0.2", "x.pdf"})
	require.NoError(t, err)

	o := cli.overrides()
	assert.Equal(t, 2, o["first_page"])
	assert.Equal(t, 4, o["last_page"])
	assert.InDelta(t, 0.2, o["temperature"], 1e-9)
}
