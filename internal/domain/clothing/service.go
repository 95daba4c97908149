package clothing

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"vera/internal/domain/storage"
)

const (
	clothesEndpoint = "/storage/clothes"
	imageEndpoint   = "/storage/clothes/image"
	upgradeEndpoint = "/storage/upgrade-folder"
)

type Servicer interface {
	UpgradeFolderStructure(ctx context.Context) error
	Load(ctx context.Context) []Item
	Add(ctx context.Context, item Item) (*Item, error)
	Update(ctx context.Context, item Item) (*Item, error)
	Delete(ctx context.Context, id string) error
	Image(ctx context.Context, fileID string) ([]byte, error)
}

type Service struct {
	remote storage.Remote
	log    *slog.Logger
	now    func() time.Time
}

func NewService(remote storage.Remote, log *slog.Logger) *Service {
	return &Service{
		remote: remote,
		log:    log.With(slog.String("component", "clothing")),
		now:    time.Now,
	}
}

// UpgradeFolderStructure создает на сервере папки для гардероба. Повторный вызов безопасен.
func (s *Service) UpgradeFolderStructure(ctx context.Context) error {
	var resp upgradeResponse
	if err := s.remote.PostJSON(ctx, upgradeEndpoint, struct{}{}, &resp); err != nil {
		return fmt.Errorf("ошибка обновления структуры папок: %w", err)
	}
	s.log.Debug("folder structure upgraded", "message", resp.Message)
	return nil
}

// Load возвращает гардероб. Ошибки не возвращаются, в худшем случае список пуст.
func (s *Service) Load(ctx context.Context) []Item {
	if err := s.UpgradeFolderStructure(ctx); err != nil {
		s.log.Warn("folder upgrade failed", "error", err)
	}

	items, err := s.fetch(ctx)
	if err != nil {
		s.log.Warn("clothes unavailable, using empty list", "error", err)
		return []Item{}
	}
	return items
}

func (s *Service) fetch(ctx context.Context) ([]Item, error) {
	var doc document
	if err := s.remote.GetJSON(ctx, clothesEndpoint, &doc); err != nil {
		return nil, fmt.Errorf("ошибка загрузки гардероба: %w", err)
	}
	if doc.Clothes == nil {
		return []Item{}, nil
	}
	return doc.Clothes, nil
}

func (s *Service) save(ctx context.Context, items []Item) error {
	if err := s.remote.PostJSON(ctx, clothesEndpoint, document{Clothes: items}, nil); err != nil {
		return fmt.Errorf("ошибка сохранения гардероба: %w", err)
	}
	s.log.Info("clothes saved", "count", len(items))
	return nil
}

// Add перечитывает гардероб с сервера, загружает изображение и дописывает вещь в конец
func (s *Service) Add(ctx context.Context, item Item) (*Item, error) {
	items, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	if item.ID == "" {
		item.ID = storage.NewID()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = storage.At(s.now())
	}
	if err := s.attachImage(ctx, &item); err != nil {
		return nil, err
	}

	items = append(items, item)
	if err := s.save(ctx, items); err != nil {
		return nil, err
	}
	return &item, nil
}

// Update заменяет вещь целиком. Если передано новое локальное изображение,
// старое удаляется из хранилища после успешного сохранения.
func (s *Service) Update(ctx context.Context, item Item) (*Item, error) {
	items, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	idx := indexOf(items, item.ID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, item.ID)
	}

	prev := items[idx]
	if item.CreatedAt.IsZero() {
		item.CreatedAt = prev.CreatedAt
	}

	uploaded := storage.IsLocalImage(item.ImageURI)
	if err := s.attachImage(ctx, &item); err != nil {
		return nil, err
	}
	if !uploaded && item.FileID == "" {
		item.FileID = prev.FileID
	}

	items[idx] = item
	if err := s.save(ctx, items); err != nil {
		return nil, err
	}

	if uploaded && prev.FileID != "" && prev.FileID != item.FileID {
		s.deleteImage(ctx, prev.FileID)
	}
	return &item, nil
}

// Delete удаляет изображение вещи (ошибка не мешает удалению) и сохраняет список без нее
func (s *Service) Delete(ctx context.Context, id string) error {
	items, err := s.fetch(ctx)
	if err != nil {
		return err
	}

	idx := indexOf(items, id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if fileID := items[idx].FileID; fileID != "" {
		s.deleteImage(ctx, fileID)
	}

	rest := make([]Item, 0, len(items)-1)
	rest = append(rest, items[:idx]...)
	rest = append(rest, items[idx+1:]...)
	return s.save(ctx, rest)
}

// Image скачивает изображение вещи
func (s *Service) Image(ctx context.Context, fileID string) ([]byte, error) {
	data, err := s.remote.Download(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки изображения: %w", err)
	}
	return data, nil
}

func (s *Service) attachImage(ctx context.Context, item *Item) error {
	if !storage.IsLocalImage(item.ImageURI) {
		return nil
	}

	data, err := storage.ReadImageBase64(item.ImageURI)
	if err != nil {
		return err
	}

	fileID, err := s.remote.UploadImage(ctx, imageEndpoint, storage.ImageUpload{
		Filename:  fmt.Sprintf("clothing_%d.jpg", s.now().UnixMilli()),
		ImageData: data,
	})
	if err != nil {
		return fmt.Errorf("ошибка загрузки изображения: %w", err)
	}

	item.FileID = fileID
	item.ImageURI = ""
	return nil
}

func (s *Service) deleteImage(ctx context.Context, fileID string) {
	if err := s.remote.DeleteFile(ctx, fileID); err != nil {
		s.log.Warn("failed to delete clothing image", "file_id", fileID, "error", err)
	}
}

func indexOf(items []Item, id string) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
