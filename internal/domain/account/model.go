package account

import "time"

// VoicePasswordSentinel - пароль, которым клиент помечает голосовой вход
const VoicePasswordSentinel = "voice-auth"

type User struct {
	ID           int64
	Email        string
	Username     string
	PasswordHash string
	VoicePrint   []byte
	Photo        []byte
	FolderLink   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword сообщает, можно ли войти по паролю
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

type RegisterInput struct {
	Email    string `validate:"required|email"`
	Username string `validate:"required|minLen:2|maxLen:64"`
	CIN      string
	Voice    []byte
}

type VoiceResult struct {
	Verified   bool
	Similarity float64
	User       *User
	Token      string
}
