package chat

import (
	"context"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"vera/internal/domain/storage"
	"vera/internal/domain/storage/storagetest"
)

func TestService_Messages(t *testing.T) {
	remote := storagetest.NewRemote()
	remote.PutDoc(messagesEndpoint, map[string]any{
		"messages": []map[string]any{
			{"id": 1, "user_id": 7, "content": "hi", "type": "user", "created_at": "2024-05-01 10:00:00"},
			{"id": 2, "user_id": 7, "content": "hello", "type": "assistant", "created_at": "2024-05-01T10:00:01.000Z"},
		},
	})

	msgs, err := NewService(remote, slog.Default()).Messages(context.Background())
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, TypeAssistant, msgs[1].Type)
	assert.Equal(t, 2024, msgs[0].CreatedAt.Year())
}

func TestService_Messages_Error(t *testing.T) {
	remote := storagetest.NewRemote()
	remote.Errors["GET "+messagesEndpoint] = &storage.ServerError{Status: 401, Message: "Invalid token"}

	_, err := NewService(remote, slog.Default()).Messages(context.Background())
	assert.True(t, storage.IsServerError(err))
}

func TestService_Send(t *testing.T) {
	remote := storagetest.NewRemote()
	remote.Responses[messagesEndpoint] = map[string]any{
		"data": map[string]any{"id": 10, "user_id": 7, "content": "where are my keys?", "type": "user"},
	}

	msg, err := NewService(remote, slog.Default()).Send(context.Background(), "  where are my keys?  ")
	require.NoError(t, err)
	assert.Equal(t, int64(10), msg.ID)

	var sent sendRequest
	require.NoError(t, json.Unmarshal(remote.Doc(messagesEndpoint), &sent))
	assert.Equal(t, sendRequest{Content: "where are my keys?", Type: "user"}, sent)
}

func TestService_Send_Empty(t *testing.T) {
	remote := storagetest.NewRemote()

	_, err := NewService(remote, slog.Default()).Send(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Empty(t, remote.Calls)
}
