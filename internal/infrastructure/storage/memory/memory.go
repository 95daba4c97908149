package memory

import (
	"context"
	"sort"
	"sync"

	"vera/internal/domain/account"
	"vera/internal/domain/drive"
	"vera/internal/infrastructure/storage"
)

var _ storage.Storage = (*Storage)(nil)

type folderKey struct {
	owner int64
	name  string
}

// Storage хранит данные в памяти процесса. Используется, когда DATABASE_URI не задан.
type Storage struct {
	mu      sync.RWMutex
	nextID  int64
	users   map[int64]*account.User
	files   map[string]*drive.File
	folders map[folderKey]struct{}
}

func New() *Storage {
	return &Storage{
		users:   make(map[int64]*account.User),
		files:   make(map[string]*drive.File),
		folders: make(map[folderKey]struct{}),
	}
}

func (s *Storage) Name() string {
	return "memory"
}

func (s *Storage) Ping(context.Context) error {
	return nil
}

func (s *Storage) Close() error {
	return nil
}

func (s *Storage) CreateUser(_ context.Context, u *account.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == u.Email {
			return account.ErrEmailTaken
		}
	}
	s.nextID++
	u.ID = s.nextID
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *Storage) UserByID(_ context.Context, id int64) (*account.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, account.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *Storage) UserByEmail(_ context.Context, email string) (*account.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, account.ErrNotFound
}

func (s *Storage) UpdateUser(_ context.Context, u *account.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.ID]; !ok {
		return account.ErrNotFound
	}
	for id, other := range s.users {
		if id != u.ID && other.Email == u.Email {
			return account.ErrEmailTaken
		}
	}
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

// DeleteUser удаляет пользователя вместе с его файлами и папками
func (s *Storage) DeleteUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return account.ErrNotFound
	}
	delete(s.users, id)
	for fid, f := range s.files {
		if f.OwnerID == id {
			delete(s.files, fid)
		}
	}
	for k := range s.folders {
		if k.owner == id {
			delete(s.folders, k)
		}
	}
	return nil
}

func (s *Storage) PutFile(_ context.Context, f *drive.File) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.files {
		if existing.OwnerID == f.OwnerID && existing.Folder == f.Folder && existing.Name == f.Name {
			f.ID = existing.ID
			f.CreatedAt = existing.CreatedAt
			break
		}
	}
	cp := *f
	s.files[f.ID] = &cp
	return nil
}

func (s *Storage) File(_ context.Context, ownerID int64, id string) (*drive.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.files[id]
	if !ok || f.OwnerID != ownerID {
		return nil, drive.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (s *Storage) FileByName(_ context.Context, ownerID int64, folder, name string) (*drive.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, f := range s.files {
		if f.OwnerID == ownerID && f.Folder == folder && f.Name == name {
			cp := *f
			return &cp, nil
		}
	}
	return nil, drive.ErrNotFound
}

func (s *Storage) Files(_ context.Context, ownerID int64, folder string) ([]drive.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	files := make([]drive.File, 0)
	for _, f := range s.files {
		if f.OwnerID == ownerID && f.Folder == folder {
			cp := *f
			cp.Data = nil
			files = append(files, cp)
		}
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].CreatedAt.Before(files[j].CreatedAt)
	})
	return files, nil
}

func (s *Storage) DeleteFile(_ context.Context, ownerID int64, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.files[id]
	if !ok || f.OwnerID != ownerID {
		return drive.ErrNotFound
	}
	delete(s.files, id)
	return nil
}

func (s *Storage) EnsureFolder(_ context.Context, ownerID int64, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := folderKey{owner: ownerID, name: name}
	if _, ok := s.folders[key]; ok {
		return false, nil
	}
	s.folders[key] = struct{}{}
	return true, nil
}
