package drive

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

const DownloadPath = "/storage/download/"

type Servicer interface {
	UploadData(ctx context.Context, ownerID int64, filename, content string) (string, error)
	UploadImage(ctx context.Context, ownerID int64, folder, filename, imageData string) (string, error)
	Files(ctx context.Context, ownerID int64) ([]File, error)
	Download(ctx context.Context, ownerID int64, id string) (*File, error)
	Delete(ctx context.Context, ownerID int64, id string) error
	UpgradeFolders(ctx context.Context, ownerID int64) (bool, error)
	Document(ctx context.Context, ownerID int64, folder, name string, out any) error
	SaveDocument(ctx context.Context, ownerID int64, folder, name string, in any) error

	Clothes(ctx context.Context, ownerID int64) ([]Item, error)
	SaveClothes(ctx context.Context, ownerID int64, items []Item) ([]Item, error)
	Persons(ctx context.Context, ownerID int64) ([]Item, error)
	SavePersons(ctx context.Context, ownerID int64, items []Item) ([]Item, error)
	CurrentLocation(ctx context.Context, ownerID int64) (*Location, error)
	LocationHistory(ctx context.Context, ownerID int64) ([]Stay, error)
	RecordLocation(ctx context.Context, ownerID int64, loc Location) (int, error)
	Messages(ctx context.Context, ownerID int64) ([]Message, error)
	PostMessage(ctx context.Context, ownerID int64, content, kind string) (*Message, error)
}

var _ Servicer = (*Service)(nil)

// Service - файловое хранилище пользователей dev-сервера
type Service struct {
	repo Repository
	log  *slog.Logger
	now  func() time.Time
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With(slog.String("component", "drive")),
		now:  time.Now,
	}
}

// UploadData сохраняет текстовый документ в корень и возвращает ссылку на скачивание
func (s *Service) UploadData(ctx context.Context, ownerID int64, filename, content string) (string, error) {
	f, err := s.put(ctx, ownerID, RootFolder, filename, mimeOf(filename, "application/json"), []byte(content))
	if err != nil {
		return "", err
	}
	return DownloadPath + f.ID, nil
}

// UploadImage декодирует base64 (допускается префикс data:) и сохраняет картинку
func (s *Service) UploadImage(ctx context.Context, ownerID int64, folder, filename, imageData string) (string, error) {
	if i := strings.Index(imageData, ";base64,"); strings.HasPrefix(imageData, "data:") && i >= 0 {
		imageData = imageData[i+len(";base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(imageData)
	if err != nil || len(data) == 0 {
		return "", ErrInvalidImage
	}

	f, err := s.put(ctx, ownerID, folder, filename, mimeOf(filename, "image/jpeg"), data)
	if err != nil {
		return "", err
	}
	return f.ID, nil
}

func (s *Service) Files(ctx context.Context, ownerID int64) ([]File, error) {
	return s.repo.Files(ctx, ownerID, RootFolder)
}

func (s *Service) Download(ctx context.Context, ownerID int64, id string) (*File, error) {
	return s.repo.File(ctx, ownerID, id)
}

func (s *Service) Delete(ctx context.Context, ownerID int64, id string) error {
	return s.repo.DeleteFile(ctx, ownerID, id)
}

// UpgradeFolders создает недостающие папки. Повторный вызов ничего не меняет.
func (s *Service) UpgradeFolders(ctx context.Context, ownerID int64) (bool, error) {
	upgraded := false
	for _, name := range Folders {
		created, err := s.repo.EnsureFolder(ctx, ownerID, name)
		if err != nil {
			return false, fmt.Errorf("ошибка создания папки %s: %w", name, err)
		}
		upgraded = upgraded || created
	}
	if upgraded {
		s.log.Info("folder structure upgraded", "owner", ownerID)
	}
	return upgraded, nil
}

// Document читает JSON-документ. Отсутствующий документ оставляет out без изменений.
func (s *Service) Document(ctx context.Context, ownerID int64, folder, name string, out any) error {
	f, err := s.repo.FileByName(ctx, ownerID, folder, name)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(f.Data, out); err != nil {
		return fmt.Errorf("ошибка разбора документа %s: %w", name, err)
	}
	return nil
}

func (s *Service) SaveDocument(ctx context.Context, ownerID int64, folder, name string, in any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("ошибка сериализации документа %s: %w", name, err)
	}
	_, err = s.put(ctx, ownerID, folder, name, "application/json", data)
	return err
}

func (s *Service) put(ctx context.Context, ownerID int64, folder, filename, mimeType string, data []byte) (*File, error) {
	name := path.Base(strings.TrimSpace(filename))
	if name == "" || name == "." || name == "/" {
		return nil, ErrInvalidName
	}

	now := s.now().UTC()
	f := &File{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Folder:    folder,
		Name:      name,
		MimeType:  mimeType,
		Data:      data,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.PutFile(ctx, f); err != nil {
		return nil, fmt.Errorf("ошибка сохранения файла: %w", err)
	}
	s.log.Debug("file stored", "owner", ownerID, "folder", folder, "name", name, "size", len(data))
	return f, nil
}

func mimeOf(filename, fallback string) string {
	if t := mime.TypeByExtension(path.Ext(filename)); t != "" {
		return t
	}
	return fallback
}
