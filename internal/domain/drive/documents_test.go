package drive

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// docRepo хранит документы по имени, чего достаточно для операций чтения-изменения-записи
type docRepo struct {
	MockRepository
	docs map[string]*File
}

func newDocRepo() *docRepo {
	return &docRepo{docs: make(map[string]*File)}
}

func (r *docRepo) PutFile(_ context.Context, f *File) error {
	cp := *f
	r.docs[f.Folder+"/"+f.Name] = &cp
	return nil
}

func (r *docRepo) FileByName(_ context.Context, _ int64, folder, name string) (*File, error) {
	f, ok := r.docs[folder+"/"+name]
	if !ok {
		return nil, ErrNotFound
	}
	return f, nil
}

func TestService_RecordLocation(t *testing.T) {
	ctx := context.Background()
	service := newTestService(newDocRepo())
	t0 := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	current, err := service.CurrentLocation(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, current)

	n, err := service.RecordLocation(ctx, 1, Location{Address: "Home", Timestamp: t0})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// тот же адрес продлевает период
	n, err = service.RecordLocation(ctx, 1, Location{Address: "Home", Timestamp: t0.Add(time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = service.RecordLocation(ctx, 1, Location{Address: "Office", Timestamp: t0.Add(2 * time.Hour), Source: "automatic"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	history, err := service.LocationHistory(ctx, 1)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.True(t, t0.Equal(history[0].StartDate))
	require.NotNil(t, history[0].EndDate)
	assert.True(t, t0.Add(2*time.Hour).Equal(*history[0].EndDate))
	assert.Equal(t, "manual", history[0].Source)
	assert.Nil(t, history[1].EndDate)

	current, err = service.CurrentLocation(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "Office", current.Address)
	assert.Equal(t, "automatic", current.Source)
}

func TestService_PostMessage(t *testing.T) {
	ctx := context.Background()
	service := newTestService(newDocRepo())

	_, err := service.PostMessage(ctx, 1, "", "")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	first, err := service.PostMessage(ctx, 1, "hello", "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, "user", first.Type)

	second, err := service.PostMessage(ctx, 1, "again", "user")
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID)

	messages, err := service.Messages(ctx, 1)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "hello", messages[0].Content)
}

func TestService_Clothes(t *testing.T) {
	ctx := context.Background()
	service := newTestService(newDocRepo())

	items, err := service.Clothes(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NotNil(t, items)

	saved, err := service.SaveClothes(ctx, 1, []Item{{"id": "1", "name": "Shirt"}})
	require.NoError(t, err)
	assert.Len(t, saved, 1)

	items, err = service.Clothes(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Shirt", items[0]["name"])

	persons, err := service.Persons(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, persons)
}
