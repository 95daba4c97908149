package clothing

import (
	"errors"

	"vera/internal/domain/storage"
)

var ErrNotFound = errors.New("clothing item not found")

// Item - вещь гардероба. После загрузки изображения FileID заполнен, а ImageURI пуст.
type Item struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Category  string            `json:"category"`
	Color     string            `json:"color"`
	Size      string            `json:"size"`
	Brand     string            `json:"brand"`
	Notes     string            `json:"notes"`
	FileID    string            `json:"megaFileId,omitempty"`
	ImageURI  string            `json:"imageUri,omitempty"`
	CreatedAt storage.Timestamp `json:"createdAt"`
}

type document struct {
	Clothes []Item `json:"clothes"`
}

type upgradeResponse struct {
	Message string `json:"message"`
}
