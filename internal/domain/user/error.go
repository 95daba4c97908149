package user

import (
	"errors"
	"fmt"

	"vera/internal/domain/storage"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrVoiceMissing   = errors.New("voice recording not found")
	ErrRegisterFailed = errors.New("failed to register, please try again")
	ErrLoginFailed    = errors.New("failed to sign in, please try again")
	ErrVoiceFailed    = errors.New("voice authentication failed, please try again")
)

// userFacing оставляет сообщение сервера как есть, а сетевые сбои превращает в общее сообщение
func userFacing(err error, generic error) error {
	if err == nil {
		return nil
	}
	if storage.IsServerError(err) {
		return err
	}
	if errors.Is(err, storage.ErrTransport) {
		return fmt.Errorf("%w: %w", generic, err)
	}
	return err
}
