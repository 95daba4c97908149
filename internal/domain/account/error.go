package account

import "errors"

// Сообщения ошибок уходят клиенту в поле error как есть
var (
	ErrNotFound        = errors.New("User not found")
	ErrEmailTaken      = errors.New("Email already registered")
	ErrInvalidAuth     = errors.New("Invalid credentials")
	ErrVoiceOnly       = errors.New("This account uses voice authentication")
	ErrNoVoiceprint    = errors.New("No voice sample registered for this account")
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidToken    = errors.New("Invalid or expired token")
	ErrWrongPassword   = errors.New("Current password is incorrect")
	ErrPasswordMissing = errors.New("Password is required")
)
