package voice

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"
)

const (
	MaxDuration = 5 * time.Second
	// MinSize - записи меньше этого размера считаются слишком короткими
	MinSize = 10240
)

var ErrTooShort = errors.New("recording too short, please speak for a few seconds")

// maxDuration переопределяется в тестах
var maxDuration = MaxDuration

// Recorder пишет звук в файл path, пока не закончит или пока не отменен ctx
type Recorder interface {
	Record(ctx context.Context, path string) error
}

type Clip struct {
	Path     string
	Size     int64
	Duration time.Duration
}

// Capture записывает голос во временный файл в dir. Запись останавливается через MaxDuration.
func Capture(ctx context.Context, rec Recorder, dir string) (*Clip, error) {
	f, err := os.CreateTemp(dir, "voice_*.m4a")
	if err != nil {
		return nil, fmt.Errorf("ошибка создания файла записи: %w", err)
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("ошибка создания файла записи: %w", err)
	}

	recCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	capped := make(chan struct{})
	timer := time.AfterFunc(maxDuration, func() {
		close(capped)
		cancel()
	})
	defer timer.Stop()

	started := time.Now()
	recErr := rec.Record(recCtx, path)
	elapsed := time.Since(started)

	if ctx.Err() != nil {
		_ = os.Remove(path)
		return nil, ctx.Err()
	}

	select {
	case <-capped:
		// остановка по таймеру считается штатным завершением
	default:
		if recErr != nil {
			_ = os.Remove(path)
			return nil, fmt.Errorf("ошибка записи: %w", recErr)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("ошибка чтения записи: %w", err)
	}
	if info.Size() < MinSize {
		_ = os.Remove(path)
		return nil, ErrTooShort
	}

	return &Clip{Path: path, Size: info.Size(), Duration: elapsed}, nil
}

// Discard удаляет файл записи
func Discard(clip *Clip) error {
	if clip == nil || clip.Path == "" {
		return nil
	}
	if err := os.Remove(clip.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("ошибка удаления записи: %w", err)
	}
	return nil
}
