package voice

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorderFunc func(ctx context.Context, path string) error

func (f recorderFunc) Record(ctx context.Context, path string) error { return f(ctx, path) }

func withMaxDuration(t *testing.T, d time.Duration) {
	t.Helper()
	prev := maxDuration
	maxDuration = d
	t.Cleanup(func() { maxDuration = prev })
}

func TestCapture_StopsAtCap(t *testing.T) {
	withMaxDuration(t, 50*time.Millisecond)

	// рекордер, который сам никогда не останавливается
	endless := recorderFunc(func(ctx context.Context, path string) error {
		require.NoError(t, os.WriteFile(path, make([]byte, MinSize*2), 0o600))
		<-ctx.Done()
		return ctx.Err()
	})

	clip, err := Capture(context.Background(), endless, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, int64(MinSize*2), clip.Size)
	assert.GreaterOrEqual(t, clip.Duration, 50*time.Millisecond)
	assert.Less(t, clip.Duration, time.Second)

	require.NoError(t, Discard(clip))
	_, err = os.Stat(clip.Path)
	assert.True(t, os.IsNotExist(err))
}

func TestCapture_TooShortDeletesFile(t *testing.T) {
	dir := t.TempDir()
	short := recorderFunc(func(ctx context.Context, path string) error {
		return os.WriteFile(path, make([]byte, 100), 0o600)
	})

	_, err := Capture(context.Background(), short, dir)
	assert.ErrorIs(t, err, ErrTooShort)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCapture_RecorderError(t *testing.T) {
	dir := t.TempDir()
	broken := recorderFunc(func(ctx context.Context, path string) error {
		return errors.New("no microphone")
	})

	_, err := Capture(context.Background(), broken, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no microphone")

	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}

func TestCapture_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rec := recorderFunc(func(ctx context.Context, path string) error {
		cancel()
		<-ctx.Done()
		return ctx.Err()
	})

	_, err := Capture(ctx, rec, t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDiscard_Missing(t *testing.T) {
	assert.NoError(t, Discard(nil))
	assert.NoError(t, Discard(&Clip{Path: "/nonexistent/clip.m4a"}))
}
