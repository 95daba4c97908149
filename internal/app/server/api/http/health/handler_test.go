package health

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Name() string {
	return "mock"
}

func (m *MockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func TestHandler_healthCheck(t *testing.T) {
	tests := []struct {
		name    string
		pingErr error
		wantErr bool
	}{
		{name: "storage reachable", pingErr: nil},
		{name: "storage down", pingErr: errors.New("connection refused"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			store := new(MockPinger)
			store.On("Ping", mock.Anything).Return(tt.pingErr)
			handler := NewHandler(store, slog.Default(), huma.Middlewares{})

			// Act
			output, err := handler.healthCheck(context.Background(), &Input{})

			// Assert
			if tt.wantErr {
				var se huma.StatusError
				require.ErrorAs(t, err, &se)
				assert.Equal(t, http.StatusServiceUnavailable, se.GetStatus())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "OK", output.Body.Status)
			assert.Equal(t, "mock", output.Body.Storage)
			store.AssertExpectations(t)
		})
	}
}

func TestHandler_Route(t *testing.T) {
	store := new(MockPinger)
	store.On("Ping", mock.Anything).Return(nil)

	_, api := humatest.New(t)
	NewHandler(store, slog.Default(), huma.Middlewares{}).SetupRoutes(api)

	resp := api.Get("/health")

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"status":"OK"`)
	assert.Contains(t, resp.Body.String(), `"storage":"mock"`)
}
