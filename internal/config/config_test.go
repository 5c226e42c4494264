package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avetisov/globcat/internal/config"
)

// writeConfigFile writes a YAML configuration fixture.
func writeConfigFile(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// isolateHome points the user home at an empty directory so test runs never
// pick up a developer's real global configuration.
func isolateHome(t *testing.T) string {
	t.Helper()
	homeDirectory := t.TempDir()
	t.Setenv("HOME", homeDirectory)
	return homeDirectory
}

func TestLoadApplicationConfigurationMissingFilesIsEmpty(t *testing.T) {
	isolateHome(t)
	workingDirectory := t.TempDir()

	configuration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{WorkingDirectory: workingDirectory})
	require.NoError(t, loadError)
	assert.Nil(t, configuration.Search.Recursive)
	assert.Empty(t, configuration.Search.Exclude)
	assert.Nil(t, configuration.Output.Summary)
}

func TestLoadApplicationConfigurationReadsLocalFile(t *testing.T) {
	isolateHome(t)
	workingDirectory := t.TempDir()
	writeConfigFile(t, filepath.Join(workingDirectory, ".globcat.yaml"), `
search:
  recursive: true
  exclude:
    - /vendor/
    - /vendor/
    - \.log$
output:
  summary: true
tokens:
  model: gpt-4o-mini
`)

	configuration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{WorkingDirectory: workingDirectory})
	require.NoError(t, loadError)
	require.NotNil(t, configuration.Search.Recursive)
	assert.True(t, *configuration.Search.Recursive)
	assert.Equal(t, []string{"/vendor/", `\.log$`}, configuration.Search.Exclude, "duplicate patterns should collapse")
	require.NotNil(t, configuration.Output.Summary)
	assert.True(t, *configuration.Output.Summary)
	assert.Equal(t, "gpt-4o-mini", configuration.Tokens.Model)
}

func TestLoadApplicationConfigurationLocalOverridesGlobal(t *testing.T) {
	homeDirectory := isolateHome(t)
	workingDirectory := t.TempDir()
	writeConfigFile(t, filepath.Join(homeDirectory, ".globcat", "config.yaml"), `
search:
  recursive: true
output:
  names_only: true
  color: false
`)
	writeConfigFile(t, filepath.Join(workingDirectory, ".globcat.yaml"), `
search:
  recursive: false
`)

	configuration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{WorkingDirectory: workingDirectory})
	require.NoError(t, loadError)
	require.NotNil(t, configuration.Search.Recursive)
	assert.False(t, *configuration.Search.Recursive, "local file should win key by key")
	require.NotNil(t, configuration.Output.NamesOnly)
	assert.True(t, *configuration.Output.NamesOnly, "untouched global keys should survive the merge")
	require.NotNil(t, configuration.Output.Color)
	assert.False(t, *configuration.Output.Color)
}

func TestLoadApplicationConfigurationExplicitPath(t *testing.T) {
	isolateHome(t)
	workingDirectory := t.TempDir()
	writeConfigFile(t, filepath.Join(workingDirectory, "custom.yaml"), `
search:
  directory: /srv/data
`)

	configuration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: "custom.yaml",
	})
	require.NoError(t, loadError)
	assert.Equal(t, "/srv/data", configuration.Search.Directory)
}

func TestLoadApplicationConfigurationRejectsMalformedFile(t *testing.T) {
	isolateHome(t)
	workingDirectory := t.TempDir()
	writeConfigFile(t, filepath.Join(workingDirectory, ".globcat.yaml"), "search: [not a mapping")

	_, loadError := config.LoadApplicationConfiguration(config.LoadOptions{WorkingDirectory: workingDirectory})
	assert.Error(t, loadError)
}
