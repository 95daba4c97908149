package person

import (
	"context"
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
	s.now = func() time.Time { return time.UnixMilli(1720000000000) }
	return s
}

func saved(t *testing.T, remote *storagetest.Remote) []Person {
	t.Helper()
	var doc document
	require.NoError(t, json.Unmarshal(remote.Doc(personsEndpoint), &doc))
	return doc.Persons
}

func TestService_Add(t *testing.T) {
	remote := storagetest.NewRemote()
	img := filepath.Join(t.TempDir(), "mom.jpg")
	require.NoError(t, os.WriteFile(img, []byte{1, 2, 3}, 0o600))

	p, err := newTestService(remote).Add(context.Background(), "Mom", "Calls on Sundays", img)
	require.NoError(t, err)

	assert.NotEmpty(t, p.FileID)
	assert.Empty(t, p.ImageURI)
	require.Len(t, remote.Images, 1)
	assert.Equal(t, "person_1720000000000.jpg", remote.Images[0].Filename)

	got := saved(t, remote)
	require.Len(t, got, 1)
	assert.Equal(t, "Mom", got[0].Name)
}

func TestService_Load_Degrades(t *testing.T) {
	remote := storagetest.NewRemote()
	remote.Errors["GET "+personsEndpoint] = &storage.ServerError{Status: 401, Message: "Unauthorized"}

	assert.Empty(t, newTestService(remote).Load(context.Background()))
}

func TestService_Update_DeletesOldImage(t *testing.T) {
	remote := storagetest.NewRemote()
	remote.PutDoc(personsEndpoint, document{Persons: []Person{{ID: "1", Name: "Dad", FileID: "img-old"}}})

	img := filepath.Join(t.TempDir(), "dad.jpg")
	require.NoError(t, os.WriteFile(img, []byte{9}, 0o600))

	name := "Father"
	p, err := newTestService(remote).Update(context.Background(), "1", Patch{Name: &name, ImageURI: &img})
	require.NoError(t, err)

	assert.Equal(t, "Father", p.Name)
	assert.NotEqual(t, "img-old", p.FileID)
	assert.Equal(t, "DeleteFile img-old", remote.Calls[len(remote.Calls)-1])
}

func TestService_Delete(t *testing.T) {
	remote := storagetest.NewRemote()
	remote.Errors["DeleteFile"] = &storage.ServerError{Status: 500, Message: "mega down"}
	remote.PutDoc(personsEndpoint, document{Persons: []Person{{ID: "1", FileID: "img-1"}, {ID: "2"}}})

	require.NoError(t, newTestService(remote).Delete(context.Background(), "1"))

	assert.Equal(t, []string{"GET " + personsEndpoint, "DeleteFile img-1", "POST " + personsEndpoint}, remote.Calls)
	got := saved(t, remote)
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)
}

func TestService_NotFound(t *testing.T) {
	remote := storagetest.NewRemote()
	svc := newTestService(remote)

	_, err := svc.Update(context.Background(), "x", Patch{})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), "x"), ErrNotFound)
}
