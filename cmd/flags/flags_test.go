package flags

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("MRV_TEST_RPC=http://10.0.0.1:8545\nMRV_TEST_KEEP=from-file\n"), 0600))

	t.Setenv("MRV_TEST_KEEP", "from-env")
	t.Cleanup(func() { os.Unsetenv("MRV_TEST_RPC") })

	require.NoError(t, LoadDotEnv(envFile, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "http://10.0.0.1:8545", os.Getenv("MRV_TEST_RPC"))
	assert.Equal(t, "from-env", os.Getenv("MRV_TEST_KEEP"))
}
