package storage

import (
	"bytes"
	"fmt"
	"strconv"
	"time"
)

const isoMillis = "2006-01-02T15:04:05.000Z"

var parseLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp - время в формате ISO-8601 с миллисекундами (UTC), как его пишет мобильный клиент.
// Нулевое значение сериализуется в null.
type Timestamp struct {
	time.Time
}

// Now возвращает текущее время, усеченное до миллисекунд
func Now() Timestamp {
	return At(time.Now())
}

// At приводит время к UTC с точностью до миллисекунд
func At(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC().Truncate(time.Millisecond)}
}

// String форматирует время в ISO-8601 с миллисекундами
func (t Timestamp) String() string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(isoMillis)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(t.String())), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	// Миллисекунды Unix (Date.now())
	if data[0] != '"' {
		ms, err := strconv.ParseInt(string(data), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid timestamp %s: %w", data, err)
		}
		*t = At(time.UnixMilli(ms))
		return nil
	}

	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("invalid timestamp %s: %w", data, err)
	}

	parsed, err := ParseTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTime разбирает время в одном из форматов, которые встречаются в ответах сервера
func ParseTime(s string) (Timestamp, error) {
	if s == "" {
		return Timestamp{}, nil
	}
	for _, layout := range parseLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return At(parsed), nil
		}
	}
	return Timestamp{}, fmt.Errorf("invalid timestamp %q", s)
}
