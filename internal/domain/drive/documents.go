package drive

import (
	"context"
	"time"
)

// Имена JSON-документов внутри папок
const (
	ClothesDocument  = "clothes.json"
	PersonsDocument  = "persons.json"
	CurrentDocument  = "current.json"
	HistoryDocument  = "history.json"
	MessagesDocument = "messages.json"
)

// Item - элемент списка, который сервер хранит как есть
type Item = map[string]any

func (s *Service) Clothes(ctx context.Context, ownerID int64) ([]Item, error) {
	return s.items(ctx, ownerID, ClothesFolder, ClothesDocument)
}

func (s *Service) SaveClothes(ctx context.Context, ownerID int64, items []Item) ([]Item, error) {
	return s.saveItems(ctx, ownerID, ClothesFolder, ClothesDocument, items)
}

func (s *Service) Persons(ctx context.Context, ownerID int64) ([]Item, error) {
	return s.items(ctx, ownerID, PersonsFolder, PersonsDocument)
}

func (s *Service) SavePersons(ctx context.Context, ownerID int64, items []Item) ([]Item, error) {
	return s.saveItems(ctx, ownerID, PersonsFolder, PersonsDocument, items)
}

func (s *Service) items(ctx context.Context, ownerID int64, folder, name string) ([]Item, error) {
	items := make([]Item, 0)
	if err := s.Document(ctx, ownerID, folder, name, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Service) saveItems(ctx context.Context, ownerID int64, folder, name string, items []Item) ([]Item, error) {
	if items == nil {
		items = make([]Item, 0)
	}
	if err := s.SaveDocument(ctx, ownerID, folder, name, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Location - последнее известное местоположение пользователя
type Location struct {
	Address   string    `json:"address"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	City      string    `json:"city,omitempty"`
	Country   string    `json:"country,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
}

// Stay - период пребывания по одному адресу. Открытый период имеет пустой EndDate.
type Stay struct {
	Location
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

func (s *Service) CurrentLocation(ctx context.Context, ownerID int64) (*Location, error) {
	var loc *Location
	if err := s.Document(ctx, ownerID, LocationFolder, CurrentDocument, &loc); err != nil {
		return nil, err
	}
	return loc, nil
}

func (s *Service) LocationHistory(ctx context.Context, ownerID int64) ([]Stay, error) {
	history := make([]Stay, 0)
	if err := s.Document(ctx, ownerID, LocationFolder, HistoryDocument, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// RecordLocation сохраняет местоположение как текущее и обновляет историю.
// Новый адрес закрывает открытый период и начинает следующий, тот же адрес продлевает его.
// Возвращает число периодов в истории.
func (s *Service) RecordLocation(ctx context.Context, ownerID int64, loc Location) (int, error) {
	if loc.Timestamp.IsZero() {
		loc.Timestamp = s.now().UTC()
	}
	if loc.Source == "" {
		loc.Source = "manual"
	}

	history, err := s.LocationHistory(ctx, ownerID)
	if err != nil {
		return 0, err
	}

	last := len(history) - 1
	switch {
	case last >= 0 && history[last].EndDate == nil && history[last].Address == loc.Address:
		start := history[last].StartDate
		history[last] = Stay{Location: loc, StartDate: start}
	default:
		if last >= 0 && history[last].EndDate == nil {
			end := loc.Timestamp
			history[last].EndDate = &end
		}
		history = append(history, Stay{Location: loc, StartDate: loc.Timestamp})
	}

	if err := s.SaveDocument(ctx, ownerID, LocationFolder, CurrentDocument, loc); err != nil {
		return 0, err
	}
	if err := s.SaveDocument(ctx, ownerID, LocationFolder, HistoryDocument, history); err != nil {
		return 0, err
	}
	return len(history), nil
}

// Message - сообщение чата
type Message struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Service) Messages(ctx context.Context, ownerID int64) ([]Message, error) {
	messages := make([]Message, 0)
	if err := s.Document(ctx, ownerID, ChatFolder, MessagesDocument, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// PostMessage добавляет сообщение в историю чата и возвращает сохраненную запись
func (s *Service) PostMessage(ctx context.Context, ownerID int64, content, kind string) (*Message, error) {
	if content == "" {
		return nil, ErrEmptyMessage
	}
	if kind == "" {
		kind = "user"
	}

	messages, err := s.Messages(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	msg := Message{
		ID:        int64(len(messages) + 1),
		UserID:    ownerID,
		Content:   content,
		Type:      kind,
		CreatedAt: s.now().UTC(),
	}
	if n := len(messages); n > 0 && messages[n-1].ID >= msg.ID {
		msg.ID = messages[n-1].ID + 1
	}
	messages = append(messages, msg)

	if err := s.SaveDocument(ctx, ownerID, ChatFolder, MessagesDocument, messages); err != nil {
		return nil, err
	}
	return &msg, nil
}
