package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name           string
		args           []string
		expectedOutput string
		expectError    bool
	}{
		{name: "help flag", args: []string{"--help"}, expectedOutput: "EventHub serves a Mason hypermedia API"},
		{name: "short help flag", args: []string{"-h"}, expectedOutput: "EventHub serves a Mason hypermedia API"},
		{name: "invalid flag", args: []string{"--invalid-flag"}, expectedOutput: "unknown flag: --invalid-flag", expectError: true},
		{name: "migrate help", args: []string{"migrate", "--help"}, expectedOutput: "Apply all pending migrations"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newRootCommand()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			if tt.expectError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Contains(t, buf.String(), tt.expectedOutput)
		})
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newRootCommand()

	names := make([]string, 0, len(root.Commands()))
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"serve", "migrate", "seed", "version", "healthcheck"} {
		assert.Contains(t, names, want)
	}
}

func TestLoadConfigAppliesLogFlags(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://eventhub@localhost/eventhub")
	configPath, logLevel, logFormat = "", "debug", "console"
	t.Cleanup(func() { configPath, logLevel, logFormat = "", "", "" })

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestParseSteps(t *testing.T) {
	steps, err := parseSteps(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, steps)

	steps, err = parseSteps([]string{"3"})
	require.NoError(t, err)
	assert.Equal(t, 3, steps)

	for _, bad := range []string{"0", "-2", "many"} {
		_, err := parseSteps([]string{bad})
		assert.Error(t, err, bad)
	}
}
