package credential

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"golang.org/x/exp/slog"

	"vera/internal/domain/storage"
)

const uploadImageEndpoint = "/storage/upload-image"

type Servicer interface {
	Load(ctx context.Context) []Credential
	Add(ctx context.Context, item Credential, current []Credential) ([]Credential, error)
	Update(ctx context.Context, id string, patch Patch, current []Credential) ([]Credential, error)
	Delete(ctx context.Context, id string, current []Credential) ([]Credential, error)
	Save(ctx context.Context, list []Credential) error
}

// Patch - частичное обновление записи. Пустые поля не меняются.
type Patch struct {
	Title *string
	Data  Payload
}

type Service struct {
	remote storage.Remote
	sealer Sealer
	log    *slog.Logger
}

// NewService создает сервис учетных данных. sealer может быть nil, тогда карты хранятся открытым текстом.
func NewService(remote storage.Remote, sealer Sealer, log *slog.Logger) *Service {
	return &Service{
		remote: remote,
		sealer: sealer,
		log:    log.With(slog.String("component", "credential")),
	}
}

// Sealed сообщает, шифруются ли данные карт
func (s *Service) Sealed() bool {
	return s.sealer != nil
}

// Load загружает документ с учетными данными. Любая ошибка дает пустой список.
func (s *Service) Load(ctx context.Context) []Credential {
	list, err := s.load(ctx)
	if err != nil {
		s.log.Warn("credentials unavailable, using empty list", "error", err)
		return []Credential{}
	}
	return list
}

func (s *Service) load(ctx context.Context) ([]Credential, error) {
	files, err := s.remote.Files(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка файлов: %w", err)
	}

	file, ok := storage.FindByName(files, FileName)
	if !ok || file.ID == "" {
		s.log.Debug("no credentials document yet")
		return []Credential{}, nil
	}

	data, err := s.remote.Download(ctx, file.ID)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки %s: %w", FileName, err)
	}

	var list []Credential
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("ошибка разбора %s: %w", FileName, err)
	}
	if list == nil {
		list = []Credential{}
	}

	s.open(list)
	s.log.Debug("credentials loaded", "count", len(list))
	return list, nil
}

// Add загружает локальное изображение записи, добавляет запись в начало списка и сохраняет документ
func (s *Service) Add(ctx context.Context, item Credential, current []Credential) ([]Credential, error) {
	if item.Data == nil {
		return nil, ErrEmptyPayload
	}
	if item.ID == "" {
		item.ID = storage.NewID()
	}
	if item.Type == "" {
		item.Type = item.Data.kind()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = storage.Now()
	}
	if indexOf(current, item.ID) >= 0 {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateID, item.ID)
	}

	var err error
	if item.Data, err = s.uploadImage(ctx, item.ID, item.Data); err != nil {
		return nil, err
	}

	list := make([]Credential, 0, len(current)+1)
	list = append(list, item)
	list = append(list, current...)

	if err := s.Save(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// Update заменяет заголовок и/или данные записи
func (s *Service) Update(ctx context.Context, id string, patch Patch, current []Credential) ([]Credential, error) {
	idx := indexOf(current, id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	list := make([]Credential, len(current))
	copy(list, current)

	item := list[idx]
	if patch.Title != nil {
		item.Title = *patch.Title
	}
	if patch.Data != nil {
		data, err := s.uploadImage(ctx, item.ID, patch.Data)
		if err != nil {
			return nil, err
		}
		item.Data = data
		if k := data.kind(); k != "" {
			item.Type = k
		}
	}
	list[idx] = item

	if err := s.Save(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Service) Delete(ctx context.Context, id string, current []Credential) ([]Credential, error) {
	if indexOf(current, id) < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	list := make([]Credential, 0, len(current))
	for _, c := range current {
		if c.ID != id {
			list = append(list, c)
		}
	}

	if err := s.Save(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// Save перезаписывает документ целиком
func (s *Service) Save(ctx context.Context, list []Credential) error {
	sealed, err := s.seal(list)
	if err != nil {
		return err
	}
	if sealed == nil {
		sealed = []Credential{}
	}

	content, err := json.MarshalIndent(sealed, "", "  ")
	if err != nil {
		return fmt.Errorf("ошибка сериализации учетных данных: %w", err)
	}

	link, err := s.remote.UploadData(ctx, FileName, content)
	if err != nil {
		return fmt.Errorf("ошибка сохранения учетных данных: %w", err)
	}

	s.log.Info("credentials saved", "count", len(list), "link", link)
	return nil
}

// uploadImage отправляет локальное изображение и заменяет ссылку на идентификатор файла
func (s *Service) uploadImage(ctx context.Context, id string, p Payload) (Payload, error) {
	switch v := p.(type) {
	case Personal:
		if !storage.IsLocalImage(v.ImageURI) {
			return p, nil
		}
		fileID, err := s.upload(ctx, v.ImageURI, fmt.Sprintf("personal_%s.jpg", id))
		if err != nil {
			return nil, err
		}
		v.FileID, v.ImageURI = fileID, ""
		return v, nil
	case Clothing:
		if !storage.IsLocalImage(v.ImageURI) {
			return p, nil
		}
		fileID, err := s.upload(ctx, v.ImageURI, fmt.Sprintf("clothing_%s.jpg", id))
		if err != nil {
			return nil, err
		}
		v.FileID, v.ImageURI = fileID, ""
		return v, nil
	case Card, Email, Phone, Location, Unknown:
		return p, nil
	}
	return p, nil
}

func (s *Service) upload(ctx context.Context, uri, filename string) (string, error) {
	data, err := storage.ReadImageBase64(uri)
	if err != nil {
		return "", err
	}

	fileID, err := s.remote.UploadImage(ctx, uploadImageEndpoint, storage.ImageUpload{
		Filename:  filename,
		ImageData: data,
		Subfolder: imagesFolder,
	})
	if err != nil {
		return "", fmt.Errorf("ошибка загрузки изображения: %w", err)
	}

	s.log.Debug("image uploaded", "filename", filename, "file_id", fileID)
	return fileID, nil
}

// seal возвращает копию списка с зашифрованными полями карт
func (s *Service) seal(list []Credential) ([]Credential, error) {
	if s.sealer == nil {
		return list, nil
	}

	out := make([]Credential, len(list))
	copy(out, list)
	for i, c := range out {
		card, ok := c.Data.(Card)
		if !ok {
			continue
		}
		sealed, err := sealCard(s.sealer, card)
		if err != nil {
			if errors.Is(err, ErrVaultLocked) {
				return nil, err
			}
			return nil, fmt.Errorf("credential %s: %w", c.ID, err)
		}
		out[i].Data = sealed
	}
	return out, nil
}

// open расшифровывает карты на месте. Если ключ заблокирован, значения остаются зашифрованными.
func (s *Service) open(list []Credential) {
	if s.sealer == nil {
		return
	}
	for i, c := range list {
		card, ok := c.Data.(Card)
		if !ok {
			continue
		}
		opened, err := openCard(s.sealer, card)
		if err != nil {
			s.log.Warn("cannot open card fields", "id", c.ID, "error", err)
			continue
		}
		list[i].Data = opened
	}
}

func indexOf(list []Credential, id string) int {
	for i, c := range list {
		if c.ID == id {
			return i
		}
	}
	return -1
}
