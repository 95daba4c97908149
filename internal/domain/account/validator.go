package account

import (
	"fmt"
	"unicode"

	"github.com/gookit/validate"
)

const MinPasswordLen = 8

// Validator - интерфейс для валидации пользовательских данных
type Validator interface {
	ValidateRegister(in RegisterInput) error
	ValidatePassword(password string) error
}

type PasswordValidator struct {
	requireDigit  bool
	requireLetter bool
}

// NewPasswordValidator создает новый валидатор
func NewPasswordValidator() *PasswordValidator {
	return &PasswordValidator{
		requireDigit:  true,
		requireLetter: true,
	}
}

// ValidateRegister валидирует данные для регистрации
func (v *PasswordValidator) ValidateRegister(in RegisterInput) error {
	vd := validate.Struct(&in)
	if !vd.Validate() {
		return fmt.Errorf("%w: %s", ErrInvalidInput, vd.Errors.One())
	}
	if in.CIN == "" && len(in.Voice) == 0 {
		return fmt.Errorf("%w: either cin or voice sample is required", ErrInvalidInput)
	}
	return nil
}

// ValidatePassword валидирует новый пароль
func (v *PasswordValidator) ValidatePassword(password string) error {
	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLen)
	}

	hasLetter := false
	hasDigit := false
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if v.requireLetter && !hasLetter {
		return fmt.Errorf("password must contain at least one letter")
	}
	if v.requireDigit && !hasDigit {
		return fmt.Errorf("password must contain at least one digit")
	}
	return nil
}
