package location

import (
	"errors"

	"vera/internal/domain/storage"
)

var (
	ErrPermissionDenied   = errors.New("location permission denied")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

type Source string

const (
	SourceManual    Source = "manual"
	SourceAutomatic Source = "automatic"
)

// Point - координаты в градусах
type Point struct {
	Latitude  float64
	Longitude float64
}

// Place - результат обратного геокодирования
type Place struct {
	Address string
	City    string
	Country string
}

// Sample - одно измерение местоположения
type Sample struct {
	Address   string            `json:"address"`
	Latitude  float64           `json:"latitude"`
	Longitude float64           `json:"longitude"`
	City      string            `json:"city,omitempty"`
	Country   string            `json:"country,omitempty"`
	Timestamp storage.Timestamp `json:"timestamp"`
	Source    Source            `json:"source"`
}

// HistoryEntry - период пребывания в одном месте. EndDate пуст для текущего места.
type HistoryEntry struct {
	Sample
	StartDate storage.Timestamp  `json:"start_date"`
	EndDate   *storage.Timestamp `json:"end_date"`
}

type Overview struct {
	Current *Sample        `json:"current_location"`
	History []HistoryEntry `json:"location_history"`
}
