package credential

import (
	"fmt"
	"strings"
)

// SealedPrefix помечает зашифрованное значение поля
const SealedPrefix = "enc:v1:"

// Sealer шифрует отдельные поля карт перед отправкой в хранилище
type Sealer interface {
	Seal(plain string) (string, error)
	Open(sealed string) (string, error)
	Locked() bool
}

func IsSealed(v string) bool {
	return strings.HasPrefix(v, SealedPrefix)
}

// sealCard шифрует номер карты и CVV. Уже зашифрованные значения не трогаются.
func sealCard(s Sealer, c Card) (Card, error) {
	fields := []*string{&c.CardNumber, &c.CVV}
	for _, f := range fields {
		if *f == "" || IsSealed(*f) {
			continue
		}
		if s.Locked() {
			return c, ErrVaultLocked
		}
		sealed, err := s.Seal(*f)
		if err != nil {
			return c, fmt.Errorf("ошибка шифрования данных карты: %w", err)
		}
		*f = sealed
	}
	return c, nil
}

func openCard(s Sealer, c Card) (Card, error) {
	if s.Locked() {
		return c, nil
	}
	fields := []*string{&c.CardNumber, &c.CVV}
	for _, f := range fields {
		if !IsSealed(*f) {
			continue
		}
		plain, err := s.Open(*f)
		if err != nil {
			return c, fmt.Errorf("ошибка расшифровки данных карты: %w", err)
		}
		*f = plain
	}
	return c, nil
}
