package auth

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/exp/slog"
)

type MockAuthorizer struct {
	mock.Mock
}

func (m *MockAuthorizer) Authorize(ctx context.Context, token string) (int64, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(int64), args.Error(1)
}

func TestAuth_Handler(t *testing.T) {
	authorizer := new(MockAuthorizer)
	authorizer.On("Authorize", mock.Anything, "good").Return(int64(7), nil)
	authorizer.On("Authorize", mock.Anything, "bad").Return(int64(0), errors.New("expired"))

	a := New(authorizer, slog.New(slog.NewTextHandler(io.Discard, nil)))
	var seen int64
	h := a.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetUserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "valid", header: "Bearer good", status: http.StatusNoContent},
		{name: "rejected", header: "Bearer bad", status: http.StatusUnauthorized},
		{name: "missing", header: "", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic good", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/user/photo", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusUnauthorized {
				assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
			}
		})
	}
	assert.Equal(t, int64(7), seen)
}

func TestGetUserID(t *testing.T) {
	_, ok := GetUserID(context.Background())
	assert.False(t, ok)

	id, ok := GetUserID(WithUserID(context.Background(), 5))
	assert.True(t, ok)
	assert.Equal(t, int64(5), id)
}
