package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportCommandStructure(t *testing.T) {
	assert.NotNil(t, exportCmd)
	assert.Equal(t, "export", exportCmd.Use)
	assert.NotEmpty(t, exportCmd.Short)
	assert.NotEmpty(t, exportCmd.Long)
	assert.NotNil(t, exportCmd.RunE)
	assert.Contains(t, exportCmd.Long, "Example:")
	assert.NotNil(t, exportCmd.Flags().Lookup("skip-verify"))
}

// writeTestSetup writes a CSV source and a config file pointing at it,
// returning the config path and output directory.
func writeTestSetup(t *testing.T, csvData string) (configPath, outDir string) {
	t.Helper()
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "people.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(csvData), 0644))

	outDir = filepath.Join(dir, "docs")
	configPath = filepath.Join(dir, "docsmith.yaml")
	cfgYAML := fmt.Sprintf(`source:
  location: %s
export:
  output_dir: %s
  filename_key: name
logging:
  level: error
`, csvPath, outDir)
	require.NoError(t, os.WriteFile(configPath, []byte(cfgYAML), 0644))
	return configPath, outDir
}

func TestRunExportEndToEnd(t *testing.T) {
	configPath, outDir := writeTestSetup(t, "name,age,profile_city\nAnn,30,Oslo\nBob,25,Bergen\n")

	originalCfgFile := cfgFile
	defer func() {
		cfgFile = originalCfgFile
		resetOutputWriter()
	}()
	cfgFile = configPath

	var buf bytes.Buffer
	setOutputWriter(&buf)

	require.NoError(t, runExport(exportCmd, nil))

	data, err := os.ReadFile(filepath.Join(outDir, "Ann.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "age: 30")
	assert.Contains(t, string(data), "name: Ann")
	assert.Contains(t, string(data), "profile.city: Oslo")

	assert.FileExists(t, filepath.Join(outDir, "Bob.md"))
	assert.FileExists(t, filepath.Join(outDir, "README.md"))
	assert.Contains(t, buf.String(), "Exported")
}

func TestRunExportMissingConfig(t *testing.T) {
	originalCfgFile := cfgFile
	defer func() { cfgFile = originalCfgFile }()
	cfgFile = filepath.Join(t.TempDir(), "nope.yaml")

	err := runExport(exportCmd, nil)
	assert.ErrorContains(t, err, "failed to load config")
}

func TestRunExportInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "docsmith.yaml")
	// batch_size 0 fails validation
	require.NoError(t, os.WriteFile(configPath, []byte(
		"source:\n  location: people.csv\nprocessing:\n  batch_size: -1\n"), 0644))

	originalCfgFile := cfgFile
	defer func() { cfgFile = originalCfgFile }()
	cfgFile = configPath

	err := runExport(exportCmd, nil)
	assert.ErrorContains(t, err, "invalid configuration")
}
