package location

import (
	"context"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"vera/internal/domain/storage/storagetest"
)

func TestService_Update_Defaults(t *testing.T) {
	remote := storagetest.NewRemote()
	svc := NewService(remote, slog.Default())
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }

	require.NoError(t, svc.Update(context.Background(), Sample{Address: "Rue 1", Latitude: 1, Longitude: 2}))

	var sent map[string]any
	require.NoError(t, json.Unmarshal(remote.Doc(locationEndpoint), &sent))
	assert.Equal(t, "manual", sent["source"])
	assert.Equal(t, "2024-06-01T12:00:00.000Z", sent["timestamp"])
}

func TestService_Current(t *testing.T) {
	remote := storagetest.NewRemote()
	remote.PutDoc(locationEndpoint, map[string]any{
		"current_location": map[string]any{"address": "Home", "latitude": 48.85, "longitude": 2.35, "source": "automatic"},
		"location_history": []map[string]any{
			{"address": "Home", "latitude": 48.85, "longitude": 2.35, "start_date": "2024-06-01T00:00:00.000Z", "end_date": nil},
		},
	})

	ov, err := NewService(remote, slog.Default()).Current(context.Background())
	require.NoError(t, err)
	require.NotNil(t, ov.Current)
	assert.Equal(t, SourceAutomatic, ov.Current.Source)
	require.Len(t, ov.History, 1)
	assert.Nil(t, ov.History[0].EndDate)
	assert.Equal(t, "Home", ov.History[0].Address)
}

func TestService_History_Empty(t *testing.T) {
	remote := storagetest.NewRemote()

	history, err := NewService(remote, slog.Default()).History(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)
}
