package person

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"vera/internal/domain/storage"
)

const (
	personsEndpoint = "/storage/person"
	imageEndpoint   = "/storage/person/image"
)

type Service struct {
	remote storage.Remote
	log    *slog.Logger
	now    func() time.Time
}

func NewService(remote storage.Remote, log *slog.Logger) *Service {
	return &Service{
		remote: remote,
		log:    log.With(slog.String("component", "person")),
		now:    time.Now,
	}
}

// Load возвращает список людей, при ошибке пустой
func (s *Service) Load(ctx context.Context) []Person {
	persons, err := s.fetch(ctx)
	if err != nil {
		s.log.Warn("persons unavailable, using empty list", "error", err)
		return []Person{}
	}
	return persons
}

func (s *Service) fetch(ctx context.Context) ([]Person, error) {
	var doc document
	if err := s.remote.GetJSON(ctx, personsEndpoint, &doc); err != nil {
		return nil, fmt.Errorf("ошибка загрузки списка людей: %w", err)
	}
	if doc.Persons == nil {
		return []Person{}, nil
	}
	return doc.Persons, nil
}

func (s *Service) save(ctx context.Context, persons []Person) error {
	if err := s.remote.PostJSON(ctx, personsEndpoint, document{Persons: persons}, nil); err != nil {
		return fmt.Errorf("ошибка сохранения списка людей: %w", err)
	}
	return nil
}

func (s *Service) Add(ctx context.Context, name, details, imageURI string) (*Person, error) {
	persons, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	p := Person{
		ID:        storage.NewID(),
		Name:      name,
		Details:   details,
		CreatedAt: storage.At(s.now()),
	}
	if storage.IsLocalImage(imageURI) {
		if p.FileID, err = s.upload(ctx, imageURI); err != nil {
			return nil, err
		}
	}

	persons = append(persons, p)
	if err := s.save(ctx, persons); err != nil {
		return nil, err
	}

	s.log.Info("person added", "id", p.ID)
	return &p, nil
}

// Update применяет изменения. Новое изображение заменяет старое, старое удаляется из хранилища.
func (s *Service) Update(ctx context.Context, id string, patch Patch) (*Person, error) {
	persons, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range persons {
		if persons[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	p := persons[idx]
	oldFileID := p.FileID
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Details != nil {
		p.Details = *patch.Details
	}
	if patch.ImageURI != nil && storage.IsLocalImage(*patch.ImageURI) {
		if p.FileID, err = s.upload(ctx, *patch.ImageURI); err != nil {
			return nil, err
		}
		p.ImageURI = ""
	}

	persons[idx] = p
	if err := s.save(ctx, persons); err != nil {
		return nil, err
	}

	if oldFileID != "" && oldFileID != p.FileID {
		s.deleteImage(ctx, oldFileID)
	}
	return &p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	persons, err := s.fetch(ctx)
	if err != nil {
		return err
	}

	rest := make([]Person, 0, len(persons))
	var found *Person
	for i := range persons {
		if persons[i].ID == id {
			found = &persons[i]
			continue
		}
		rest = append(rest, persons[i])
	}
	if found == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if found.FileID != "" {
		s.deleteImage(ctx, found.FileID)
	}
	return s.save(ctx, rest)
}

func (s *Service) Image(ctx context.Context, fileID string) ([]byte, error) {
	data, err := s.remote.Download(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки фотографии: %w", err)
	}
	return data, nil
}

func (s *Service) upload(ctx context.Context, uri string) (string, error) {
	data, err := storage.ReadImageBase64(uri)
	if err != nil {
		return "", err
	}
	fileID, err := s.remote.UploadImage(ctx, imageEndpoint, storage.ImageUpload{
		Filename:  fmt.Sprintf("person_%d.jpg", s.now().UnixMilli()),
		ImageData: data,
	})
	if err != nil {
		return "", fmt.Errorf("ошибка загрузки фотографии: %w", err)
	}
	return fileID, nil
}

func (s *Service) deleteImage(ctx context.Context, fileID string) {
	if err := s.remote.DeleteFile(ctx, fileID); err != nil {
		s.log.Warn("failed to delete person image", "file_id", fileID, "error", err)
	}
}
