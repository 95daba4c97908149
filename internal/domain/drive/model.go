package drive

import (
	"errors"
	"time"
)

// Папки внутри хранилища пользователя. Пустое имя означает корень.
const (
	RootFolder     = ""
	ImagesFolder   = "images"
	ClothesFolder  = "clothes"
	PersonsFolder  = "persons"
	LocationFolder = "location"
	ChatFolder     = "chat"
)

// Folders создаются при обновлении структуры хранилища
var Folders = []string{ImagesFolder, ClothesFolder, PersonsFolder, LocationFolder, ChatFolder}

var (
	ErrNotFound     = errors.New("File not found")
	ErrInvalidImage = errors.New("Invalid image data")
	ErrInvalidName  = errors.New("Filename is required")
	ErrEmptyMessage = errors.New("Message content is required")
)

type File struct {
	ID        string
	OwnerID   int64
	Folder    string
	Name      string
	MimeType  string
	Data      []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}
