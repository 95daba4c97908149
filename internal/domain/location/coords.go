package location

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseCoordinates разбирает широту и долготу, введенные вручную.
// Диапазоны не проверяются, только числовой формат. NaN и бесконечность отклоняются.
func ParseCoordinates(latText, lonText string) (Point, error) {
	lat, err := parseCoordinate(latText)
	if err != nil {
		return Point{}, fmt.Errorf("%w: latitude %q", ErrInvalidCoordinates, latText)
	}
	lon, err := parseCoordinate(lonText)
	if err != nil {
		return Point{}, fmt.Errorf("%w: longitude %q", ErrInvalidCoordinates, lonText)
	}
	return Point{Latitude: lat, Longitude: lon}, nil
}

func parseCoordinate(text string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidCoordinates
	}
	return v, nil
}

// FormatCoordinates используется как адрес, если геокодирование не удалось
func FormatCoordinates(p Point) string {
	return fmt.Sprintf("%.6f, %.6f", p.Latitude, p.Longitude)
}
