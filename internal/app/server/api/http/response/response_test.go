package response

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"vera/internal/domain/account"
	"vera/internal/domain/drive"
)

func TestFail(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"invalid auth", account.ErrInvalidAuth, http.StatusUnauthorized, "Invalid credentials"},
		{"wrapped not found", fmt.Errorf("load: %w", drive.ErrNotFound), http.StatusNotFound, "load: File not found"},
		{"email taken", account.ErrEmailTaken, http.StatusConflict, "Email already registered"},
		{"bad image", drive.ErrInvalidImage, http.StatusBadRequest, "Invalid image data"},
		{"internal", errors.New("pq: connection refused"), http.StatusInternalServerError, "Internal server error"},
		{"status error", NewError(http.StatusTeapot, "short and stout"), http.StatusTeapot, "short and stout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Fail(tt.err)
			assert.Equal(t, tt.status, e.GetStatus())
			assert.Equal(t, tt.message, e.Error())
		})
	}
}

func TestNewError_Details(t *testing.T) {
	e := NewError(http.StatusUnprocessableEntity, "validation failed", nil, errors.New("email is required"))
	assert.Equal(t, "validation failed: email is required", e.Error())
}

func TestWrite(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, account.ErrEmailTaken)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"Email already registered"}`, rec.Body.String())
}
