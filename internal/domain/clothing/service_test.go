package clothing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"vera/internal/domain/storage"
	"vera/internal/domain/storage/storagetest"
)

func newTestService(remote *storagetest.Remote) *Service {
	s := NewService(remote, slog.Default())
	s.now = func() time.Time { return time.UnixMilli(1710000000000) }
	return s
}

func writeImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "photo.jpg")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xd8, 0xff, 0xe0}, 0o600))
	return "file://" + path
}

func savedClothes(t *testing.T, remote *storagetest.Remote) []Item {
	t.Helper()
	var doc document
	require.NoError(t, json.Unmarshal(remote.Doc(clothesEndpoint), &doc))
	return doc.Clothes
}

func TestService_Load_UpgradesFirst(t *testing.T) {
	remote := storagetest.NewRemote()
	remote.PutDoc(clothesEndpoint, document{Clothes: []Item{{ID: "1", Name: "Jacket"}}})

	items := newTestService(remote).Load(context.Background())
	require.Len(t, items, 1)
	assert.Equal(t, []string{"POST " + upgradeEndpoint, "GET " + clothesEndpoint}, remote.Calls)
}

func TestService_Load_UpgradeFailureIgnored(t *testing.T) {
	remote := storagetest.NewRemote()
	remote.Errors["POST "+upgradeEndpoint] = &storage.ServerError{Status: 500, Message: "boom"}
	remote.PutDoc(clothesEndpoint, document{Clothes: []Item{{ID: "1"}}})

	items := newTestService(remote).Load(context.Background())
	assert.Len(t, items, 1)
}

func TestService_Load_Degrades(t *testing.T) {
	remote := storagetest.NewRemote()
	remote.Errors["GET "+clothesEndpoint] = errors.Join(storage.ErrTransport, errors.New("no route to host"))

	items := newTestService(remote).Load(context.Background())
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestService_UpgradeIsIdempotent(t *testing.T) {
	remote := storagetest.NewRemote()
	svc := newTestService(remote)

	require.NoError(t, svc.UpgradeFolderStructure(context.Background()))
	require.NoError(t, svc.UpgradeFolderStructure(context.Background()))
}

func TestService_Add_UploadsImage(t *testing.T) {
	remote := storagetest.NewRemote()
	remote.PutDoc(clothesEndpoint, document{Clothes: []Item{{ID: "old", Name: "Scarf"}}})
	svc := newTestService(remote)

	item, err := svc.Add(context.Background(), Item{Name: "Shirt", Color: "blue", ImageURI: writeImage(t)})
	require.NoError(t, err)

	assert.NotEmpty(t, item.ID)
	assert.NotEmpty(t, item.FileID)
	assert.Empty(t, item.ImageURI)
	assert.False(t, item.CreatedAt.IsZero())

	require.Len(t, remote.Images, 1)
	assert.Equal(t, "clothing_1710000000000.jpg", remote.Images[0].Filename)
	assert.Empty(t, remote.Images[0].Subfolder)

	saved := savedClothes(t, remote)
	require.Len(t, saved, 2)
	assert.Equal(t, "old", saved[0].ID)
	assert.Equal(t, item.FileID, saved[1].FileID)
	assert.Empty(t, saved[1].ImageURI)
}

func TestService_Add_ReloadFailureAborts(t *testing.T) {
	remote := storagetest.NewRemote()
	remote.Errors["GET "+clothesEndpoint] = &storage.ServerError{Status: 500, Message: "Internal error"}

	_, err := newTestService(remote).Add(context.Background(), Item{Name: "Shirt"})
	require.Error(t, err)
	assert.NotContains(t, remote.Calls, "POST "+clothesEndpoint)
}

func TestService_Delete_ImageFirst(t *testing.T) {
	remote := storagetest.NewRemote()
	remote.PutDoc(clothesEndpoint, document{Clothes: []Item{
		{ID: "1", Name: "Jacket", FileID: "img-1"},
		{ID: "2", Name: "Boots"},
	}})

	require.NoError(t, newTestService(remote).Delete(context.Background(), "1"))

	assert.Equal(t, []string{"GET " + clothesEndpoint, "DeleteFile img-1", "POST " + clothesEndpoint}, remote.Calls)
	saved := savedClothes(t, remote)
	require.Len(t, saved, 1)
	assert.Equal(t, "2", saved[0].ID)
}

func TestService_Delete_ImageFailureNotFatal(t *testing.T) {
	remote := storagetest.NewRemote()
	remote.Errors["DeleteFile"] = &storage.ServerError{Status: 404, Message: "File not found"}
	remote.PutDoc(clothesEndpoint, document{Clothes: []Item{{ID: "1", FileID: "img-1"}}})

	require.NoError(t, newTestService(remote).Delete(context.Background(), "1"))
	assert.Empty(t, savedClothes(t, remote))
}

func TestService_Delete_NotFound(t *testing.T) {
	remote := storagetest.NewRemote()
	remote.PutDoc(clothesEndpoint, document{Clothes: []Item{{ID: "1"}}})

	err := newTestService(remote).Delete(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotContains(t, remote.Calls, "POST "+clothesEndpoint)
}

func TestService_Update_ReplacesImage(t *testing.T) {
	remote := storagetest.NewRemote()
	created := storage.At(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	remote.PutDoc(clothesEndpoint, document{Clothes: []Item{{ID: "1", Name: "Jacket", FileID: "img-old", CreatedAt: created}}})

	item, err := newTestService(remote).Update(context.Background(), Item{ID: "1", Name: "Coat", ImageURI: writeImage(t)})
	require.NoError(t, err)

	assert.Equal(t, "Coat", item.Name)
	assert.NotEqual(t, "img-old", item.FileID)
	assert.True(t, item.CreatedAt.Equal(created.Time))
	assert.Contains(t, remote.Calls, "DeleteFile img-old")
}

func TestService_Update_KeepsImage(t *testing.T) {
	remote := storagetest.NewRemote()
	remote.PutDoc(clothesEndpoint, document{Clothes: []Item{{ID: "1", Name: "Jacket", FileID: "img-1"}}})

	item, err := newTestService(remote).Update(context.Background(), Item{ID: "1", Name: "Coat"})
	require.NoError(t, err)

	assert.Equal(t, "img-1", item.FileID)
	assert.NotContains(t, remote.Calls, "DeleteFile img-1")
}

func TestService_Update_NotFound(t *testing.T) {
	remote := storagetest.NewRemote()

	_, err := newTestService(remote).Update(context.Background(), Item{ID: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}
