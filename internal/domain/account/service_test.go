package account

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

// MockRepository is a mock implementation of the Repository interface for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateUser(ctx context.Context, u *User) error {
	args := m.Called(ctx, u)
	if args.Error(0) == nil {
		u.ID = 42
	}
	return args.Error(0)
}

func (m *MockRepository) UserByID(ctx context.Context, id int64) (*User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*User)
	return u, args.Error(1)
}

func (m *MockRepository) UserByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*User)
	return u, args.Error(1)
}

func (m *MockRepository) UpdateUser(ctx context.Context, u *User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockRepository) DeleteUser(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func newTestService(repo Repository) *Service {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, NewTokens("test-secret", time.Hour), NewPasswordValidator(), 0, log)
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestService_Register(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	mockRepo.On("UserByEmail", mock.Anything, "alice@example.com").Return(nil, ErrNotFound)
	mockRepo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *User) bool {
		return u.Email == "alice@example.com" && u.Username == "Alice" && u.PasswordHash != "" && u.FolderLink != ""
	})).Return(nil)

	u, token, err := service.Register(context.Background(), RegisterInput{
		Email:    " Alice@Example.com ",
		Username: "Alice",
		CIN:      "AB123456",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), u.ID)
	assert.NotEmpty(t, token)

	id, err := service.tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	mockRepo.AssertExpectations(t)
}

func TestService_Register_VoiceOnly(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	mockRepo.On("UserByEmail", mock.Anything, "v@example.com").Return(nil, ErrNotFound)
	mockRepo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *User) bool {
		return u.PasswordHash == "" && string(u.VoicePrint) == "sample"
	})).Return(nil)

	_, _, err := service.Register(context.Background(), RegisterInput{
		Email:    "v@example.com",
		Username: "Vee",
		Voice:    []byte("sample"),
	})
	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestService_Register_EdgeCases(t *testing.T) {
	tests := []struct {
		name    string
		input   RegisterInput
		setup   func(*MockRepository)
		wantErr error
	}{
		{
			name:    "bad email",
			input:   RegisterInput{Email: "nope", Username: "Al", CIN: "1"},
			setup:   func(*MockRepository) {},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "no username",
			input:   RegisterInput{Email: "a@b.co", CIN: "1"},
			setup:   func(*MockRepository) {},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "neither cin nor voice",
			input:   RegisterInput{Email: "a@b.co", Username: "Al"},
			setup:   func(*MockRepository) {},
			wantErr: ErrInvalidInput,
		},
		{
			name:  "email taken",
			input: RegisterInput{Email: "a@b.co", Username: "Al", CIN: "1"},
			setup: func(m *MockRepository) {
				m.On("UserByEmail", mock.Anything, "a@b.co").Return(&User{ID: 1}, nil)
			},
			wantErr: ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockRepository)
			tt.setup(mockRepo)
			service := newTestService(mockRepo)

			_, _, err := service.Register(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
			mockRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
		})
	}
}

func TestService_Register_RepositoryError(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	mockRepo.On("UserByEmail", mock.Anything, "a@b.co").Return(nil, ErrNotFound)
	mockRepo.On("CreateUser", mock.Anything, mock.Anything).Return(errors.New("database error"))

	_, _, err := service.Register(context.Background(), RegisterInput{Email: "a@b.co", Username: "Al", CIN: "1"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database error")
}

func TestService_Login(t *testing.T) {
	withPassword := &User{ID: 7, Email: "a@b.co", PasswordHash: hashOf(t, "AB123456")}
	voiceOnly := &User{ID: 8, Email: "v@b.co", VoicePrint: []byte("x")}

	tests := []struct {
		name     string
		email    string
		password string
		user     *User
		repoErr  error
		wantErr  error
	}{
		{name: "ok", email: "a@b.co", password: "AB123456", user: withPassword},
		{name: "wrong password", email: "a@b.co", password: "nope", user: withPassword, wantErr: ErrInvalidAuth},
		{name: "sentinel on password account", email: "a@b.co", password: VoicePasswordSentinel, user: withPassword, wantErr: ErrInvalidAuth},
		{name: "sentinel on voice-only account", email: "v@b.co", password: VoicePasswordSentinel, user: voiceOnly, wantErr: ErrVoiceOnly},
		{name: "unknown user", email: "x@b.co", password: "p", repoErr: ErrNotFound, wantErr: ErrInvalidAuth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockRepository)
			mockRepo.On("UserByEmail", mock.Anything, tt.email).Return(tt.user, tt.repoErr)
			service := newTestService(mockRepo)

			u, token, err := service.Login(context.Background(), tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.user.ID, u.ID)
			assert.NotEmpty(t, token)
		})
	}
}

func TestService_VerifyVoice(t *testing.T) {
	sample := []byte("the quick brown fox jumps over the lazy dog, repeatedly and loudly")
	u := &User{ID: 9, Email: "v@b.co", VoicePrint: sample}

	mockRepo := new(MockRepository)
	mockRepo.On("UserByEmail", mock.Anything, "v@b.co").Return(u, nil)
	service := newTestService(mockRepo)

	res, err := service.VerifyVoice(context.Background(), "v@b.co", sample)
	require.NoError(t, err)
	assert.True(t, res.Verified)
	assert.InDelta(t, 1.0, res.Similarity, 1e-9)
	assert.NotEmpty(t, res.Token)

	res, err = service.VerifyVoice(context.Background(), "v@b.co", make([]byte, 64))
	require.NoError(t, err)
	assert.False(t, res.Verified)
	assert.Empty(t, res.Token)
	assert.Nil(t, res.User)
}

func TestService_VerifyVoice_NoVoiceprint(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("UserByEmail", mock.Anything, "a@b.co").Return(&User{ID: 1}, nil)
	service := newTestService(mockRepo)

	_, err := service.VerifyVoice(context.Background(), "a@b.co", []byte("x"))
	assert.ErrorIs(t, err, ErrNoVoiceprint)
}

func TestService_ChangePassword(t *testing.T) {
	mockRepo := new(MockRepository)
	u := &User{ID: 3, PasswordHash: hashOf(t, "old-pass1")}
	mockRepo.On("UserByID", mock.Anything, int64(3)).Return(u, nil)
	mockRepo.On("UpdateUser", mock.Anything, u).Return(nil)
	service := newTestService(mockRepo)

	assert.ErrorIs(t, service.ChangePassword(context.Background(), 3, "wrong", "new-pass1"), ErrWrongPassword)
	assert.Error(t, service.ChangePassword(context.Background(), 3, "old-pass1", "short"))

	require.NoError(t, service.ChangePassword(context.Background(), 3, "old-pass1", "new-pass1"))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("new-pass1")))
}

func TestService_ChangeEmail(t *testing.T) {
	mockRepo := new(MockRepository)
	u := &User{ID: 3, Email: "a@b.co", PasswordHash: hashOf(t, "pw")}
	mockRepo.On("UserByID", mock.Anything, int64(3)).Return(u, nil)
	mockRepo.On("UserByEmail", mock.Anything, "taken@b.co").Return(&User{ID: 4}, nil)
	mockRepo.On("UserByEmail", mock.Anything, "new@b.co").Return(nil, ErrNotFound)
	mockRepo.On("UpdateUser", mock.Anything, u).Return(nil)
	service := newTestService(mockRepo)

	_, err := service.ChangeEmail(context.Background(), 3, "new@b.co", "bad")
	assert.ErrorIs(t, err, ErrWrongPassword)

	_, err = service.ChangeEmail(context.Background(), 3, "taken@b.co", "pw")
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = service.ChangeEmail(context.Background(), 3, "not-an-email", "pw")
	assert.ErrorIs(t, err, ErrInvalidInput)

	updated, err := service.ChangeEmail(context.Background(), 3, "new@b.co", "pw")
	require.NoError(t, err)
	assert.Equal(t, "new@b.co", updated.Email)
}

func TestService_Delete(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("UserByID", mock.Anything, int64(5)).Return(&User{ID: 5, PasswordHash: hashOf(t, "pw")}, nil)
	mockRepo.On("DeleteUser", mock.Anything, int64(5)).Return(nil).Once()
	service := newTestService(mockRepo)

	assert.ErrorIs(t, service.Delete(context.Background(), 5, ""), ErrPasswordMissing)
	assert.ErrorIs(t, service.Delete(context.Background(), 5, "bad"), ErrWrongPassword)
	require.NoError(t, service.Delete(context.Background(), 5, "pw"))
	mockRepo.AssertExpectations(t)
}

func TestService_Authorize(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("UserByID", mock.Anything, int64(11)).Return(&User{ID: 11}, nil)
	mockRepo.On("UserByID", mock.Anything, int64(12)).Return(nil, ErrNotFound)
	service := newTestService(mockRepo)

	token, err := service.tokens.Issue(11)
	require.NoError(t, err)
	id, err := service.Authorize(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, int64(11), id)

	gone, err := service.tokens.Issue(12)
	require.NoError(t, err)
	_, err = service.Authorize(context.Background(), gone)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = service.Authorize(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
