package recorder

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_Record(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "sample.mp3")
	require.NoError(t, os.WriteFile(src, []byte("ID3 audio"), 0o600))

	out := filepath.Join(dir, "clip.m4a")
	require.NoError(t, (&File{Source: src}).Record(context.Background(), out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "ID3 audio", string(data))
}

func TestFile_Record_Missing(t *testing.T) {
	err := (&File{Source: "/nonexistent.mp3"}).Record(context.Background(), filepath.Join(t.TempDir(), "x"))
	assert.Error(t, err)
}

func TestNewCommand(t *testing.T) {
	_, err := NewCommand("   ")
	assert.ErrorIs(t, err, ErrNoCommand)

	c, err := NewCommand("arecord -f cd")
	require.NoError(t, err)
	assert.Equal(t, []string{"arecord", "-f", "cd", OutputPlaceholder}, c.args)

	c, err = NewCommand("sox -d {out} trim 0 5")
	require.NoError(t, err)
	assert.Equal(t, "{out}", c.args[2])
}

func TestCommand_Record(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires cp and /dev/null")
	}

	c, err := NewCommand("cp /dev/null {out}")
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "clip.wav")
	require.NoError(t, c.Record(context.Background(), out))
	_, err = os.Stat(out)
	assert.NoError(t, err)
}
