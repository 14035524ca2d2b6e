package cmd

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	expected := []string{"version", "import", "designs", "schemas", "tasks", "serve", "watch"}

	registered := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}

	for _, name := range expected {
		assert.True(t, registered[name], "missing subcommand %s", name)
	}
}

func TestTasksSubcommands(t *testing.T) {
	registered := make(map[string]bool)
	for _, c := range tasksCmd.Commands() {
		registered[c.Name()] = true
	}

	assert.True(t, registered["status"])
	assert.True(t, registered["advance"])
	assert.True(t, registered["can-publish"])
}

func TestPersistentFlags(t *testing.T) {
	names := make(map[string]bool)
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		names[f.Name] = true
	})

	assert.True(t, names["config"])
	assert.True(t, names["log-level"])

	logLevel := rootCmd.PersistentFlags().Lookup("log-level")
	require.NotNil(t, logLevel)
	assert.Equal(t, "info", logLevel.DefValue)
}

func TestImportRequiresChannelFlag(t *testing.T) {
	flag := importCmd.Flags().Lookup("channel")
	require.NotNil(t, flag)

	assert.NotEmpty(t, flag.Annotations[cobra.BashCompOneRequiredFlag])
}

func TestVersionCommandRejectsUnknownFormat(t *testing.T) {
	versionFormat = "xml"
	defer func() { versionFormat = "text" }()

	err := runVersionCommand(versionCmd, nil)
	assert.Error(t, err)
}
