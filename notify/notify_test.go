package notify

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewWriterNotifier(&buf)

	n.Notify(LevelInfo, "Approving project...")
	n.Notify(LevelSuccess, "Project approved successfully\nTx: 0x12345678...")
	n.Notify(LevelWarning, "Please enter tons to approve")
	n.Notify(LevelError, "execution reverted")

	assert.Equal(t, "… Approving project...\n"+
		"✓ Project approved successfully\nTx: 0x12345678...\n"+
		"⚠ Please enter tons to approve\n"+
		"✗ execution reverted\n", buf.String())
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()

	_, ok := r.Last()
	assert.False(t, ok)

	r.Notify(LevelInfo, "Loading projects...")
	r.Notify(LevelSuccess, "Project approved! Tx: 0x12345678...")

	last, ok := r.Last()
	require.True(t, ok)
	assert.Equal(t, LevelSuccess, last.Level)
	assert.Len(t, r.All(), 2)

	drained := r.Drain()
	assert.Len(t, drained, 2)
	assert.Empty(t, r.All())
	assert.NotNil(t, r.Drain())
}

func TestLogNotifierLevels(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	n := NewLogNotifier(log)
	n.Notify(LevelWarning, "Enter a valid tons value")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "Enter a valid tons value", entry["msg"])
	assert.Equal(t, "warning", entry["notification"])
}

func TestMulti(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	Multi{a, b}.Notify(LevelError, "boom")

	assert.Len(t, a.All(), 1)
	assert.Len(t, b.All(), 1)
}
