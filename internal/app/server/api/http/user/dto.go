package user

import (
	"time"

	"vera/internal/domain/account"
)

// Profile - представление пользователя в ответах API
type Profile struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	Username   string    `json:"username"`
	FolderLink string    `json:"mega_folder_link"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func profileOf(u *account.User) *Profile {
	if u == nil {
		return nil
	}
	return &Profile{
		ID:         u.ID,
		Email:      u.Email,
		Username:   u.Username,
		FolderLink: u.FolderLink,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

type AuthResponse struct {
	User    *Profile `json:"user"`
	Token   string   `json:"token,omitempty"`
	Message string   `json:"message,omitempty"`
}

type VoiceMatch struct {
	Similarity float64 `json:"similarity"`
}

type VoiceResponse struct {
	Verified   bool        `json:"verified"`
	VoiceMatch *VoiceMatch `json:"voice_match,omitempty"`
	User       *Profile    `json:"user,omitempty"`
	Token      string      `json:"token,omitempty"`
	Message    string      `json:"message,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type UserResponse struct {
	User *Profile `json:"user"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	CIN      string `json:"cin,omitempty"`
}

type loginInput struct {
	Body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
}

type loginOutput struct {
	Body AuthResponse
}

type profileOutput struct {
	Body *Profile
}

type updateProfileInput struct {
	Body struct {
		Username string `json:"username,omitempty"`
		Email    string `json:"email,omitempty"`
	}
}

type userOutput struct {
	Body UserResponse
}

type changeEmailInput struct {
	Body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
}

type changePasswordInput struct {
	Body struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
}

type deleteInput struct {
	Body struct {
		Password string `json:"password,omitempty"`
	}
}

type messageOutput struct {
	Body MessageResponse
}
