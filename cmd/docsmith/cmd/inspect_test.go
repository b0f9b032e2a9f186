package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspectCommandStructure(t *testing.T) {
	assert.NotNil(t, inspectCmd)
	assert.Equal(t, "inspect", inspectCmd.Use)
	assert.NotEmpty(t, inspectCmd.Short)
	assert.NotNil(t, inspectCmd.RunE)
}

func TestRunInspect(t *testing.T) {
	configPath, _ := writeTestSetup(t, "name,age\nAnn,30\nBob,25\nCara,\n")

	originalCfgFile := cfgFile
	defer func() {
		cfgFile = originalCfgFile
		resetOutputWriter()
	}()
	cfgFile = configPath

	var buf bytes.Buffer
	setOutputWriter(&buf)

	require.NoError(t, runInspect(inspectCmd, nil))

	out := buf.String()
	assert.Contains(t, out, "Records: 3")
	assert.Contains(t, out, "name")
	assert.Contains(t, out, "age")
	// age is numeric in two of three records
	assert.Contains(t, out, "Numeric Fields")
	assert.Contains(t, out, "min=25")
	assert.Contains(t, out, "max=30")
}
