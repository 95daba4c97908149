package drive

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) PutFile(ctx context.Context, f *File) error {
	return m.Called(ctx, f).Error(0)
}

func (m *MockRepository) File(ctx context.Context, ownerID int64, id string) (*File, error) {
	args := m.Called(ctx, ownerID, id)
	f, _ := args.Get(0).(*File)
	return f, args.Error(1)
}

func (m *MockRepository) FileByName(ctx context.Context, ownerID int64, folder, name string) (*File, error) {
	args := m.Called(ctx, ownerID, folder, name)
	f, _ := args.Get(0).(*File)
	return f, args.Error(1)
}

func (m *MockRepository) Files(ctx context.Context, ownerID int64, folder string) ([]File, error) {
	args := m.Called(ctx, ownerID, folder)
	files, _ := args.Get(0).([]File)
	return files, args.Error(1)
}

func (m *MockRepository) DeleteFile(ctx context.Context, ownerID int64, id string) error {
	return m.Called(ctx, ownerID, id).Error(0)
}

func (m *MockRepository) EnsureFolder(ctx context.Context, ownerID int64, name string) (bool, error) {
	args := m.Called(ctx, ownerID, name)
	return args.Bool(0), args.Error(1)
}

func newTestService(repo Repository) *Service {
	return NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestService_UploadData(t *testing.T) {
	repo := new(MockRepository)
	repo.On("PutFile", mock.Anything, mock.MatchedBy(func(f *File) bool {
		return f.Name == "notes.json" && f.Folder == RootFolder && string(f.Data) == `{"a":1}`
	})).Return(nil)

	link, err := newTestService(repo).UploadData(context.Background(), 1, "dir/notes.json", `{"a":1}`)
	require.NoError(t, err)
	assert.Regexp(t, `^/storage/download/[0-9a-f-]{36}$`, link)
	repo.AssertExpectations(t)
}

func TestService_UploadImage(t *testing.T) {
	raw := []byte{0xff, 0xd8, 0xff, 0xe0}
	encoded := base64.StdEncoding.EncodeToString(raw)

	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{name: "plain base64", data: encoded},
		{name: "data url", data: "data:image/jpeg;base64," + encoded},
		{name: "not base64", data: "***", wantErr: ErrInvalidImage},
		{name: "empty", data: "", wantErr: ErrInvalidImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			repo.On("PutFile", mock.Anything, mock.MatchedBy(func(f *File) bool {
				return f.Folder == ClothesFolder && string(f.Data) == string(raw) && f.MimeType == "image/jpeg"
			})).Return(nil)

			id, err := newTestService(repo).UploadImage(context.Background(), 1, ClothesFolder, "shirt.jpg", tt.data)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "PutFile", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, id)
		})
	}
}

func TestService_UploadData_InvalidName(t *testing.T) {
	repo := new(MockRepository)
	_, err := newTestService(repo).UploadData(context.Background(), 1, "  ", "x")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestService_UpgradeFolders(t *testing.T) {
	repo := new(MockRepository)
	for _, name := range Folders {
		repo.On("EnsureFolder", mock.Anything, int64(1), name).Return(true, nil).Once()
		repo.On("EnsureFolder", mock.Anything, int64(1), name).Return(false, nil)
	}
	service := newTestService(repo)

	upgraded, err := service.UpgradeFolders(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, upgraded)

	upgraded, err = service.UpgradeFolders(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, upgraded)
}

func TestService_UpgradeFolders_Error(t *testing.T) {
	repo := new(MockRepository)
	repo.On("EnsureFolder", mock.Anything, int64(1), mock.Anything).Return(false, errors.New("disk full"))

	_, err := newTestService(repo).UpgradeFolders(context.Background(), 1)
	assert.ErrorContains(t, err, "disk full")
}

func TestService_Document(t *testing.T) {
	repo := new(MockRepository)
	repo.On("FileByName", mock.Anything, int64(1), LocationFolder, "missing.json").Return(nil, ErrNotFound)
	repo.On("FileByName", mock.Anything, int64(1), LocationFolder, "current.json").
		Return(&File{Data: []byte(`{"lat":1.5}`)}, nil)
	service := newTestService(repo)

	out := map[string]float64{"lat": 9}
	require.NoError(t, service.Document(context.Background(), 1, LocationFolder, "missing.json", &out))
	assert.Equal(t, 9.0, out["lat"])

	require.NoError(t, service.Document(context.Background(), 1, LocationFolder, "current.json", &out))
	assert.Equal(t, 1.5, out["lat"])
}

func TestService_SaveDocument(t *testing.T) {
	repo := new(MockRepository)
	repo.On("PutFile", mock.Anything, mock.MatchedBy(func(f *File) bool {
		return f.Folder == ChatFolder && f.Name == "history.json" && string(f.Data) == `["hi"]` && f.MimeType == "application/json"
	})).Return(nil)

	err := newTestService(repo).SaveDocument(context.Background(), 1, ChatFolder, "history.json", []string{"hi"})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
