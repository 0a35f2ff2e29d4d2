package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "finder", cmd.Use)
	assert.Contains(t, cmd.Long, "method name")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"compile", "validate", "explain", "test", "history"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	require.NotNil(t, cmd.PersistentFlags().Lookup("log-level"))
}

func TestCommandFlags(t *testing.T) {
	cmd := NewRootCommand()

	tests := []struct {
		command string
		flags   []string
	}{
		{"compile", []string{"output", "db"}},
		{"explain", []string{"returns"}},
		{"test", []string{"update", "filter"}},
		{"history", []string{"db", "run", "method"}},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{tt.command})
			require.NoError(t, err)
			for _, name := range tt.flags {
				assert.NotNil(t, sub.Flags().Lookup(name), "flag --%s", name)
			}
		})
	}
}

func TestFormatValidation(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	_, err := execute(NewRootCommand(), "--format", "invalid", "compile", ".")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := execute(NewRootCommand(), "--log-level", "loud", "compile", ".")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestRootResolvesConfigFile(t *testing.T) {
	dir := writeSchemaDir(t, map[string]string{
		"schema.cue": personSchema,
		"finder.yaml": "compiler:\n  strategies: [count]\n",
	})

	// Only the count strategy is enabled, so the find methods are not
	// finder methods at all and produce warnings rather than plans.
	out, err := execute(NewRootCommand(), "--config", dir+"/finder.yaml", "compile", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Compiled 1 of 3 method(s)")
	assert.Contains(t, out, "E200 warning")
}

func TestRootRejectsBadConfig(t *testing.T) {
	dir := writeSchemaDir(t, map[string]string{
		"finder.yaml": "compiler:\n  strategies: [purge]\n",
	})

	_, err := execute(NewRootCommand(), "--config", dir+"/finder.yaml", "validate", dir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
