package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/desk-pet/internal/config"
)

// executeCmd is a helper to execute a cobra command in tests
func executeCmd(cmd *cobra.Command, args ...string) (stdout string, stderr string, err error) {
	bufOut := new(bytes.Buffer)
	bufErr := new(bytes.Buffer)

	cmd.SetOut(bufOut)
	cmd.SetErr(bufErr)
	cmd.SetArgs(args)

	err = cmd.Execute()
	return bufOut.String(), bufErr.String(), err
}

var testNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)

// setupCLI points the config and data directory at a temp dir, pins the
// clock and resets every flag variable. It returns the data directory.
func setupCLI(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.HomeEnv, home)

	previousNow := now
	now = func() time.Time { return testNow }
	t.Cleanup(func() { now = previousNow })

	dataDirFlag = ""
	backendFlag = ""
	jsonOutput = false
	verbose = false
	reminderAt = ""
	reminderIn = 0
	reminderDueOnly = false
	statsFormat = "text"
	statsDays = 7
	statsForce = false
	exportFormat = "md"
	exportOutput = ""
	exportRender = false

	rootCmd.SetIn(bytes.NewBufferString(""))
	return home
}

func TestRootCmd(t *testing.T) {
	require.NotNil(t, rootCmd)
	assert.Equal(t, "deskpet", rootCmd.Use)

	names := make(map[string]bool)
	for _, sub := range rootCmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"run", "start", "reminder", "stats", "export", "config", "mcp"} {
		assert.True(t, names[want], "missing %s command", want)
	}
}

// TestRootCmd_Help tests the --help flag
func TestRootCmd_Help(t *testing.T) {
	setupCLI(t)

	stdout, _, err := executeCmd(rootCmd, "--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "deskpet")
	assert.Contains(t, stdout, "reminder")
}

// TestRootCmd_Flags tests that global flags are registered
func TestRootCmd_Flags(t *testing.T) {
	for _, name := range []string{"data-dir", "backend", "json", "verbose"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), "--%s flag should be registered", name)
	}
	assert.NotNil(t, runCmd.Flags().Lookup("headless"))
	assert.NotNil(t, startCmd.Flags().Lookup("headless"))
}

func TestInitializeServices_Flags(t *testing.T) {
	home := setupCLI(t)

	require.NoError(t, initializeServices())
	assert.Equal(t, home, app.config.Storage.DataDir)
	assert.Equal(t, "json", app.config.Storage.Backend)

	dataDirFlag = t.TempDir()
	backendFlag = "sqlite"
	require.NoError(t, initializeServices())
	assert.Equal(t, dataDirFlag, app.config.Storage.DataDir)
	assert.Equal(t, "sqlite", app.config.Storage.Backend)
}

func TestFormatHours(t *testing.T) {
	tests := []struct {
		hours float64
		want  string
	}{
		{0, "0m"},
		{25.0 / 60, "25m"},
		{1, "1h"},
		{1.5, "1h 30m"},
		{100.0 / 60, "1h 40m"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatHours(tt.hours))
		})
	}
}
