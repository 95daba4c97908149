package recorder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// OutputPlaceholder заменяется в команде на путь к файлу записи
const OutputPlaceholder = "{out}"

var ErrNoCommand = errors.New("recorder command is not configured, use --voice-file")

// Command запускает внешнюю программу записи (arecord, sox, ffmpeg).
// Пример: "arecord -q -f cd -t wav {out}".
type Command struct {
	args []string
}

func NewCommand(command string) (*Command, error) {
	args := strings.Fields(command)
	if len(args) == 0 {
		return nil, ErrNoCommand
	}

	hasOut := false
	for _, a := range args {
		if strings.Contains(a, OutputPlaceholder) {
			hasOut = true
		}
	}
	if !hasOut {
		args = append(args, OutputPlaceholder)
	}
	return &Command{args: args}, nil
}

// Record запускает программу и ждет ее завершения. Отмена ctx останавливает запись.
func (c *Command) Record(ctx context.Context, path string) error {
	args := make([]string, len(c.args))
	for i, a := range c.args {
		args[i] = strings.ReplaceAll(a, OutputPlaceholder, path)
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}

	out, err := cmd.CombinedOutput()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("%s: %w: %s", args[0], err, strings.TrimSpace(string(out)))
	}
	return nil
}

// File копирует готовый аудиофайл вместо записи с микрофона
type File struct {
	Source string
}

func (f *File) Record(ctx context.Context, path string) error {
	src, err := os.Open(f.Source)
	if err != nil {
		return fmt.Errorf("ошибка открытия аудиофайла: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ошибка создания файла записи: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return fmt.Errorf("ошибка копирования аудиофайла: %w", err)
	}
	if err := dst.Close(); err != nil {
		return err
	}
	return ctx.Err()
}
