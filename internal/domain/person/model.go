package person

import (
	"errors"

	"vera/internal/domain/storage"
)

var ErrNotFound = errors.New("person not found")

// Person - близкий человек пользователя с фотографией
type Person struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Details   string            `json:"details"`
	FileID    string            `json:"megaFileId,omitempty"`
	ImageURI  string            `json:"imageUri,omitempty"`
	CreatedAt storage.Timestamp `json:"createdAt"`
}

// Patch - изменения записи, nil поля не меняются
type Patch struct {
	Name     *string
	Details  *string
	ImageURI *string
}

type document struct {
	Persons []Person `json:"persons"`
}
