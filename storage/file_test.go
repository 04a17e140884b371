package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bluecarbon/mrv-dashboard/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileBackend_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "deployed")
	backend, err := NewFileBackend(dir, discardLogger())
	require.NoError(t, err)

	ctx := context.Background()
	assert.True(t, backend.Available(ctx))

	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "directory must not be created before the first write")

	require.NoError(t, backend.Write(ctx, "addresses.json", []byte(`{"token":"0x1"}`)))

	data, err := os.ReadFile(filepath.Join(dir, "addresses.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"token":"0x1"}`, string(data))
}

func TestFileBackend_OverwriteLeavesNoTemporaries(t *testing.T) {
	dir := t.TempDir()
	backend, err := NewFileBackend(dir, discardLogger())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, backend.Write(ctx, "addresses.json", []byte("first")))
	require.NoError(t, backend.Write(ctx, "addresses.json", []byte("second")))

	data, err := backend.Read(ctx, "addresses.json")
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "addresses.json", entries[0].Name())
}

func TestFileBackend_ReadMissing(t *testing.T) {
	backend, err := NewFileBackend(t.TempDir(), discardLogger())
	require.NoError(t, err)

	_, err = backend.Read(context.Background(), "addresses.json")
	assert.ErrorIs(t, err, interfaces.ErrObjectNotFound)
}

func TestFileBackend_RejectsPaths(t *testing.T) {
	backend, err := NewFileBackend(t.TempDir(), discardLogger())
	require.NoError(t, err)

	for _, name := range []string{"", "..", "../escape.json", "sub/dir.json"} {
		assert.Error(t, backend.Write(context.Background(), name, []byte("x")), name)
	}
}

func TestFactory_BackendFor(t *testing.T) {
	factory := NewOutputBackendFactory(discardLogger())
	dir := t.TempDir()

	loc, err := interfaces.NewOutputLocation(dir)
	require.NoError(t, err)
	backend, err := factory.BackendFor(loc)
	require.NoError(t, err)
	assert.Equal(t, "file://"+dir, backend.LocationURI())

	loc, err = interfaces.NewOutputLocation("file://" + dir)
	require.NoError(t, err)
	backend, err = factory.BackendFor(loc)
	require.NoError(t, err)
	assert.IsType(t, &FileBackend{}, backend)

	loc, err = interfaces.NewOutputLocation("s3://AKID:SECRET@deployments/mrv?region=eu-west-1")
	require.NoError(t, err)
	backend, err = factory.BackendFor(loc)
	require.NoError(t, err)
	assert.Equal(t, "s3://AKID:***@deployments/mrv?region=eu-west-1", backend.LocationURI())

	loc, err = interfaces.NewOutputLocation("ipfs://127.0.0.1:5001/mrv/deployed")
	require.NoError(t, err)
	backend, err = factory.BackendFor(loc)
	require.NoError(t, err)
	assert.Equal(t, "ipfs://127.0.0.1:5001/mrv/deployed", backend.LocationURI())
}

func TestFactory_CreateMultiBackend(t *testing.T) {
	factory := NewOutputBackendFactory(discardLogger())
	dirA, dirB := t.TempDir(), t.TempDir()

	locA, err := interfaces.NewOutputLocation(dirA)
	require.NoError(t, err)
	locB, err := interfaces.NewOutputLocation(dirB)
	require.NoError(t, err)

	single, err := factory.CreateMultiBackend([]interfaces.OutputLocation{locA})
	require.NoError(t, err)
	assert.IsType(t, &FileBackend{}, single)

	multi, err := factory.CreateMultiBackend([]interfaces.OutputLocation{locA, locB})
	require.NoError(t, err)
	require.NoError(t, multi.Write(context.Background(), "addresses.json", []byte("{}")))

	for _, dir := range []string{dirA, dirB} {
		_, err := os.Stat(filepath.Join(dir, "addresses.json"))
		assert.NoError(t, err)
	}

	_, err = factory.CreateMultiBackend(nil)
	assert.Error(t, err)
}
