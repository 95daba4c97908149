package user

import (
	"fmt"
	"os"

	"github.com/gookit/validate"
)

// Validator проверяет ввод до обращения к сети
type Validator interface {
	ValidateRegister(req RegisterRequest) error
	ValidateLogin(req LoginRequest) error
	Validate(v interface{}) error
}

type InputValidator struct{}

func NewInputValidator() *InputValidator {
	return &InputValidator{}
}

// ValidateRegister проверяет обязательные поля и наличие файла с голосом
func (iv *InputValidator) ValidateRegister(req RegisterRequest) error {
	if err := iv.Validate(&req); err != nil {
		return err
	}

	if req.VoicePath != "" {
		info, err := os.Stat(req.VoicePath)
		if err != nil || info.IsDir() {
			return fmt.Errorf("%w: %s", ErrVoiceMissing, req.VoicePath)
		}
	}

	return nil
}

func (iv *InputValidator) ValidateLogin(req LoginRequest) error {
	return iv.Validate(&req)
}

// Validate проверяет структуру по тегам validate
func (iv *InputValidator) Validate(v interface{}) error {
	vd := validate.Struct(v)
	if !vd.Validate() {
		return fmt.Errorf("%w: %s", ErrInvalidInput, vd.Errors.One())
	}
	return nil
}
