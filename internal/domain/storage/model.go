package storage

import (
	"strings"

	"github.com/google/uuid"
)

// File - запись из списка файлов пользователя в удаленном хранилище
type File struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FindByName возвращает первый файл с указанным именем
func FindByName(files []File, name string) (File, bool) {
	for _, f := range files {
		if f.Name == name {
			return f, true
		}
	}
	return File{}, false
}

// NewID генерирует идентификатор элемента на стороне клиента.
// UUIDv7 упорядочен по времени создания, как и исходные идентификаторы-таймстемпы.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

const fileScheme = "file://"

// IsLocalImage сообщает, что ссылка указывает на еще не загруженный локальный файл
func IsLocalImage(uri string) bool {
	return uri != "" && !strings.HasPrefix(uri, "http://") && !strings.HasPrefix(uri, "https://")
}

// LocalPath убирает схему file:// из ссылки
func LocalPath(uri string) string {
	return strings.TrimPrefix(uri, fileScheme)
}
