package locator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vera/internal/domain/location"
)

func TestStatic(t *testing.T) {
	p, err := NewStatic(55.75, 37.62).Locate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, location.Point{Latitude: 55.75, Longitude: 37.62}, p)
}

func TestIPLocator(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","lat":52.52,"lon":13.405,"city":"Berlin"}`))
	}))
	defer srv.Close()

	p, err := NewIPLocator(srv.URL).Locate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, location.Point{Latitude: 52.52, Longitude: 13.405}, p)
}

func TestIPLocator_Fail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"fail","message":"private range"}`))
	}))
	defer srv.Close()

	_, err := NewIPLocator(srv.URL).Locate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "private range")
}

func TestPermission(t *testing.T) {
	assert.NoError(t, Permission{Enabled: true}.Request(context.Background()))
	assert.ErrorIs(t, Permission{}.Request(context.Background()), location.ErrPermissionDenied)
}
