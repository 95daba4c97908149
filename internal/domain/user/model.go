package user

import (
	"vera/internal/domain/storage"
)

// VoicePasswordSentinel подставляется вместо пароля, когда пользователь входит по голосу.
// Сервер трактует его как признак голосового входа, а не как обычный пароль.
const VoicePasswordSentinel = "voice-auth"

// Profile - профиль пользователя, кешируемый клиентом
type Profile struct {
	ID                int64             `json:"id"`
	Email             string            `json:"email"`
	Username          string            `json:"username"`
	StorageFolderLink string            `json:"mega_folder_link"`
	CreatedAt         storage.Timestamp `json:"created_at"`
	UpdatedAt         storage.Timestamp `json:"updated_at"`
}

type RegisterRequest struct {
	Email     string `json:"email" validate:"required|email"`
	Username  string `json:"username" validate:"required|minLen:2|maxLen:64"`
	CIN       string `json:"cin,omitempty"`
	VoicePath string `json:"-"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required|email"`
	Password string `json:"password"`
}

// ProfilePatch - частичное обновление профиля, пустые поля не отправляются
type ProfilePatch struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

type ChangeEmailRequest struct {
	Email    string `json:"email" validate:"required|email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required|minLen:8"`
}

type DeleteAccountRequest struct {
	Password string `json:"password"`
}

// AuthResult - ответ регистрации и входа
type AuthResult struct {
	User    *Profile `json:"user"`
	Token   string   `json:"token,omitempty"`
	Message string   `json:"message,omitempty"`
}

type VoiceMatch struct {
	Similarity float64 `json:"similarity"`
}

// VoiceResult - результат голосовой верификации. Verified=false не является ошибкой.
type VoiceResult struct {
	Verified   bool        `json:"verified"`
	VoiceMatch *VoiceMatch `json:"voice_match,omitempty"`
	User       *Profile    `json:"user,omitempty"`
	Token      string      `json:"token,omitempty"`
	Message    string      `json:"message,omitempty"`
}

// Similarity возвращает степень совпадения голоса (0, если сервер ее не прислал)
func (r *VoiceResult) Similarity() float64 {
	if r == nil || r.VoiceMatch == nil {
		return 0
	}
	return r.VoiceMatch.Similarity
}

// Attachment - файл, отправляемый частью multipart-запроса
type Attachment struct {
	Field       string
	Path        string
	FileName    string
	ContentType string
}
