package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
	"golang.org/x/oauth2"

	"vera/internal/app/client/config"
	"vera/internal/domain/session"
	"vera/internal/domain/storage"
	"vera/internal/domain/user"
	"vera/internal/infrastructure/metrics"
)

type staticTokens struct {
	token string
	err   error
}

func (s staticTokens) TokenSource(_ context.Context) oauth2.TokenSource {
	return s
}

func (s staticTokens) Token() (*oauth2.Token, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &oauth2.Token{AccessToken: s.token, TokenType: "Bearer"}, nil
}

func newTestClient(t *testing.T, srv *httptest.Server, tokens TokenSourcer) *HTTPClient {
	t.Helper()
	cfg := &config.Config{BaseURL: srv.URL, RequestTimeoutMS: 2000}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHTTPClient(cfg, tokens, metrics.New("test", true), log)
}

func TestHTTPClient_Login(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body user.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ann@example.com", body.Email)

		w.Write([]byte(`{"user":{"id":7,"email":"ann@example.com","username":"ann"},"token":"tok"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, staticTokens{})
	res, err := c.Login(context.Background(), user.LoginRequest{Email: "ann@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "tok", res.Token)
	require.NotNil(t, res.User)
	assert.Equal(t, int64(7), res.User.ID)
}

func TestHTTPClient_ErrorFieldOnSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"Email already registered"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, staticTokens{})
	_, err := c.Register(context.Background(), user.RegisterRequest{Email: "a@b.co", Username: "ab"})
	require.Error(t, err)

	var se *ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusOK, se.Status)
	assert.Equal(t, "Email already registered", err.Error())
	assert.False(t, errors.Is(err, ErrTransport))
}

func TestHTTPClient_StatusWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, staticTokens{token: "tok"})
	_, err := c.Files(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, storage.StatusOf(err))
}

func TestHTTPClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := newTestClient(t, srv, staticTokens{})
	_, err := c.Login(context.Background(), user.LoginRequest{Email: "a@b.co", Password: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.False(t, storage.IsServerError(err))
}

func TestHTTPClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv, staticTokens{})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Login(ctx, user.LoginRequest{Email: "a@b.co", Password: "x"})
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestHTTPClient_BearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.Equal(t, "Vera-CLI/1.0", r.Header.Get("User-Agent"))
		w.Write([]byte(`{"id":3,"email":"x@y.z","username":"x"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, staticTokens{token: "tok-123"})
	p, err := c.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), p.ID)
}

func TestHTTPClient_ProfileEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"user":{"id":4,"email":"q@w.e","username":"q"}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, staticTokens{token: "tok"})
	p, err := c.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), p.ID)
}

func TestHTTPClient_NoTokenSkipsRequest(t *testing.T) {
	for _, tokenErr := range []error{session.ErrNoToken, session.ErrTokenExpired} {
		t.Run(tokenErr.Error(), func(t *testing.T) {
			called := false
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))
			defer srv.Close()

			c := newTestClient(t, srv, staticTokens{err: tokenErr})
			_, err := c.Files(context.Background())
			assert.ErrorIs(t, err, tokenErr)
			assert.False(t, errors.Is(err, ErrTransport))
			assert.False(t, called)
		})
	}
}

func TestHTTPClient_RegisterWithVoice(t *testing.T) {
	voice := filepath.Join(t.TempDir(), "clip.mp3")
	require.NoError(t, os.WriteFile(voice, []byte("ID3-audio"), 0o600))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "ann@example.com", r.FormValue("email"))
		assert.Equal(t, "ann", r.FormValue("username"))
		assert.Empty(t, r.FormValue("cin"))

		f, hdr, err := r.FormFile("voice")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "ID3-audio", string(data))
		assert.Equal(t, "voice_registration_1.mp3", hdr.Filename)
		assert.Equal(t, "audio/mpeg", hdr.Header.Get("Content-Type"))

		w.Write([]byte(`{"user":{"id":1},"token":"t"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, staticTokens{})
	res, err := c.RegisterWithVoice(context.Background(),
		user.RegisterRequest{Email: "ann@example.com", Username: "ann"},
		user.Attachment{Field: "voice", Path: voice, FileName: "voice_registration_1.mp3", ContentType: "audio/mpeg"},
	)
	require.NoError(t, err)
	assert.Equal(t, "t", res.Token)
}

func TestHTTPClient_VerifyVoiceNotVerified(t *testing.T) {
	voice := filepath.Join(t.TempDir(), "clip.mp3")
	require.NoError(t, os.WriteFile(voice, []byte("audio"), 0o600))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/verify-voice", r.URL.Path)
		w.Write([]byte(`{"verified":false,"voice_match":{"similarity":0.41},"message":"no match"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, staticTokens{})
	res, err := c.VerifyVoice(context.Background(), "a@b.co",
		user.Attachment{Field: "voice", Path: voice, FileName: "v.mp3", ContentType: "audio/mp3"})
	require.NoError(t, err)
	assert.False(t, res.Verified)
	assert.InDelta(t, 0.41, res.Similarity(), 1e-9)
}

func TestHTTPClient_StorageEndpoints(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/storage/files", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"files":[{"id":"f1","name":"credentials.json"}]}`))
	})
	mux.HandleFunc("/storage/download/f1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"c1"}]`))
	})
	mux.HandleFunc("/storage/upload-data", func(w http.ResponseWriter, r *http.Request) {
		var body uploadDataBody
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "credentials.json", body.Filename)
		assert.Equal(t, "[]", body.Content)
		w.Write([]byte(`{"file_link":"https://files/f2"}`))
	})
	mux.HandleFunc("/storage/upload-image", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"file_id":12345}`))
	})
	mux.HandleFunc("/storage/delete/f1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.Write([]byte(`{"success":true}`))
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(t, srv, staticTokens{token: "tok"})
	ctx := context.Background()

	files, err := c.Files(ctx)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "f1", files[0].ID)

	data, err := c.Download(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"c1"}]`, string(data))

	link, err := c.UploadData(ctx, "credentials.json", []byte("[]"))
	require.NoError(t, err)
	assert.Equal(t, "https://files/f2", link)

	id, err := c.UploadImage(ctx, "/storage/upload-image", storage.ImageUpload{Filename: "a.jpg", ImageData: "AAAA"})
	require.NoError(t, err)
	assert.Equal(t, "12345", id)

	require.NoError(t, c.DeleteFile(ctx, "f1"))
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "string", body: `{"error":"boom"}`, want: "boom"},
		{name: "object", body: `{"error":{"message":"bad input"}}`, want: "bad input"},
		{name: "false", body: `{"error":false,"data":1}`, want: ""},
		{name: "null", body: `{"error":null}`, want: ""},
		{name: "absent", body: `{"data":1}`, want: ""},
		{name: "array body", body: `[1,2]`, want: ""},
		{name: "not json", body: `plain`, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorMessage([]byte(tt.body)))
		})
	}
}

func TestRouteOf(t *testing.T) {
	assert.Equal(t, "/storage/download/:id", routeOf("/storage/download/abc"))
	assert.Equal(t, "/storage/delete/:id", routeOf("/storage/delete/abc"))
	assert.Equal(t, "/chat/messages", routeOf("/chat/messages"))
}
