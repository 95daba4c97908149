package response

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/goccy/go-json"

	"vera/internal/domain/account"
	"vera/internal/domain/drive"
)

// Error - тело ошибки API: {"error": "..."}
type Error struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) GetStatus() int {
	return e.Status
}

// NewError заменяет стандартный формат ошибок huma (RFC 9457) на {"error": "..."}.
// Подробности валидации дописываются к сообщению.
func NewError(status int, msg string, errs ...error) huma.StatusError {
	for _, err := range errs {
		if err != nil {
			msg += ": " + err.Error()
			break
		}
	}
	return &Error{Status: status, Message: msg}
}

// Fail переводит доменную ошибку в ошибку API с подходящим статусом
func Fail(err error) huma.StatusError {
	var se huma.StatusError
	if errors.As(err, &se) {
		return se
	}
	return &Error{Status: statusOf(err), Message: messageOf(err)}
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, account.ErrInvalidAuth),
		errors.Is(err, account.ErrInvalidToken),
		errors.Is(err, account.ErrVoiceOnly):
		return http.StatusUnauthorized
	case errors.Is(err, account.ErrNotFound),
		errors.Is(err, drive.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, account.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, account.ErrInvalidInput),
		errors.Is(err, account.ErrWrongPassword),
		errors.Is(err, account.ErrPasswordMissing),
		errors.Is(err, account.ErrNoVoiceprint),
		errors.Is(err, drive.ErrInvalidImage),
		errors.Is(err, drive.ErrInvalidName),
		errors.Is(err, drive.ErrEmptyMessage):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// messageOf скрывает детали внутренних ошибок
func messageOf(err error) string {
	if statusOf(err) == http.StatusInternalServerError {
		return "Internal server error"
	}
	return err.Error()
}

// JSON пишет ответ для обработчиков, работающих с net/http напрямую
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Write пишет ошибку в формате API
func Write(w http.ResponseWriter, err error) {
	e := Fail(err)
	JSON(w, e.GetStatus(), map[string]string{"error": e.Error()})
}
