package location

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

type MockLocator struct{ mock.Mock }

func (m *MockLocator) Locate(ctx context.Context) (Point, error) {
	args := m.Called(ctx)
	return args.Get(0).(Point), args.Error(1)
}

type MockGeocoder struct{ mock.Mock }

func (m *MockGeocoder) Reverse(ctx context.Context, p Point) (*Place, error) {
	args := m.Called(ctx, p)
	place, _ := args.Get(0).(*Place)
	return place, args.Error(1)
}

type MockPermission struct{ mock.Mock }

func (m *MockPermission) Request(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockUpdater struct{ mock.Mock }

func (m *MockUpdater) Update(ctx context.Context, s Sample) error {
	return m.Called(ctx, s).Error(0)
}

type countingMetrics struct {
	ok, failed, denied atomic.Int32
}

func (c *countingMetrics) IncSamples(result string) {
	switch result {
	case "ok":
		c.ok.Add(1)
	case "denied":
		c.denied.Add(1)
	default:
		c.failed.Add(1)
	}
}

type trackerDeps struct {
	locator    *MockLocator
	geocoder   *MockGeocoder
	permission *MockPermission
	updater    *MockUpdater
	metrics    *countingMetrics
}

func newTestTracker(interval time.Duration) (*Tracker, trackerDeps) {
	d := trackerDeps{
		locator:    new(MockLocator),
		geocoder:   new(MockGeocoder),
		permission: new(MockPermission),
		updater:    new(MockUpdater),
		metrics:    new(countingMetrics),
	}
	tr := NewTracker(d.locator, d.geocoder, d.permission, d.updater, d.metrics, interval, slog.Default())
	return tr, d
}

func TestTracker_Refresh_SendsSample(t *testing.T) {
	tr, d := newTestTracker(time.Hour)
	p := Point{Latitude: 48.8584, Longitude: 2.2945}

	d.permission.On("Request", mock.Anything).Return(nil)
	d.locator.On("Locate", mock.Anything).Return(p, nil)
	d.geocoder.On("Reverse", mock.Anything, p).Return(&Place{Address: "Champ de Mars", City: "Paris", Country: "France"}, nil)
	d.updater.On("Update", mock.Anything, mock.MatchedBy(func(s Sample) bool {
		return s.Source == SourceAutomatic && s.Address == "Champ de Mars" && s.City == "Paris" && !s.Timestamp.IsZero()
	})).Return(nil)

	s, err := tr.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Champ de Mars", s.Address)
	assert.Equal(t, "Champ de Mars", tr.Current().Address)
	assert.Equal(t, int32(1), d.metrics.ok.Load())
	d.updater.AssertExpectations(t)
}

func TestTracker_GeocodeFailureFallsBackToCoordinates(t *testing.T) {
	tr, d := newTestTracker(time.Hour)
	p := Point{Latitude: 1.5, Longitude: -2.25}

	d.permission.On("Request", mock.Anything).Return(nil)
	d.locator.On("Locate", mock.Anything).Return(p, nil)
	d.geocoder.On("Reverse", mock.Anything, p).Return(nil, errors.New("rate limited"))
	d.updater.On("Update", mock.Anything, mock.MatchedBy(func(s Sample) bool {
		return s.Address == "1.500000, -2.250000"
	})).Return(nil)

	_, err := tr.Refresh(context.Background())
	require.NoError(t, err)
	d.updater.AssertExpectations(t)
}

func TestTracker_PermissionDenied(t *testing.T) {
	tr, d := newTestTracker(time.Hour)

	var prompts int
	tr.OnPermissionDenied = func() { prompts++ }

	d.permission.On("Request", mock.Anything).Return(ErrPermissionDenied)

	_, err := tr.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.False(t, tr.Enabled())
	assert.Equal(t, 1, prompts)

	// выключенный трекер пропускает тики
	tr.tick(context.Background())
	d.permission.AssertNumberOfCalls(t, "Request", 1)
	d.locator.AssertNotCalled(t, "Locate", mock.Anything)
}

func TestTracker_UpdateFailureKeepsPrevious(t *testing.T) {
	tr, d := newTestTracker(time.Hour)
	p := Point{Latitude: 1, Longitude: 2}

	d.geocoder.On("Reverse", mock.Anything, p).Return(&Place{Address: "Somewhere"}, nil)
	d.updater.On("Update", mock.Anything, mock.Anything).Return(errors.New("server down"))

	_, err := tr.SetManual(context.Background(), "1", "2")
	require.Error(t, err)
	assert.Nil(t, tr.Current())
	assert.Equal(t, int32(1), d.metrics.failed.Load())
}

func TestTracker_SetManual(t *testing.T) {
	tr, d := newTestTracker(time.Hour)
	p := Point{Latitude: 40.7128, Longitude: -74.006}

	d.geocoder.On("Reverse", mock.Anything, p).Return(&Place{Address: "New York"}, nil)
	d.updater.On("Update", mock.Anything, mock.MatchedBy(func(s Sample) bool {
		return s.Source == SourceManual
	})).Return(nil)

	s, err := tr.SetManual(context.Background(), "40.7128", "-74.006")
	require.NoError(t, err)
	assert.Equal(t, "New York", s.Address)

	_, err = tr.SetManual(context.Background(), "abc", "1")
	assert.ErrorIs(t, err, ErrInvalidCoordinates)

	// ручной ввод не требует разрешения
	d.permission.AssertNotCalled(t, "Request", mock.Anything)
}

func TestTracker_Run_SamplesImmediatelyAndStops(t *testing.T) {
	tr, d := newTestTracker(20 * time.Millisecond)
	p := Point{Latitude: 1, Longitude: 1}

	d.permission.On("Request", mock.Anything).Return(nil)
	d.locator.On("Locate", mock.Anything).Return(p, nil)
	d.geocoder.On("Reverse", mock.Anything, p).Return(&Place{Address: "Here"}, nil)
	d.updater.On("Update", mock.Anything, mock.Anything).Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		tr.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return d.metrics.ok.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("tracker did not stop after cancel")
	}
}
