package storage

import (
	"errors"
	"fmt"
)

// ErrTransport - сеть недоступна, таймаут, ошибка DNS и т.п. Запрос мог не дойти до сервера.
var ErrTransport = errors.New("transport failure")

// ServerError - сервер вернул поле error (или неуспешный статус без тела)
type ServerError struct {
	Status  int
	Message string
}

// Error возвращает сообщение сервера без изменений
func (e *ServerError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned status %d", e.Status)
}

// IsServerError сообщает, что ошибку вернул сервер
func IsServerError(err error) bool {
	var se *ServerError
	return errors.As(err, &se)
}

// StatusOf возвращает HTTP-статус серверной ошибки или 0
func StatusOf(err error) int {
	var se *ServerError
	if errors.As(err, &se) {
		return se.Status
	}
	return 0
}
