package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParams(t *testing.T) {
	params, err := parseParams([]string{"sector=saas", "limit=5"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"sector": "saas", "limit": "5"}, params)
}

func TestParseParamsEmptyIsNil(t *testing.T) {
	params, err := parseParams(nil)
	require.NoError(t, err)
	assert.Nil(t, params)
}

func TestParseParamsKeepsEqualsInValue(t *testing.T) {
	params, err := parseParams([]string{"expression=1+1=2"})
	require.NoError(t, err)
	assert.Equal(t, "1+1=2", params["expression"])
}

func TestParseParamsRejectsMalformedPairs(t *testing.T) {
	for _, pair := range []string{"no-separator", "=value"} {
		_, err := parseParams([]string{pair})
		assert.Error(t, err, "pair %q", pair)
	}
}

func TestRootRegistersCommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"check", "tools", "audit", "report", "keys", "state", "demo", "version"} {
		assert.True(t, names[want], "command %q not registered", want)
	}
}
