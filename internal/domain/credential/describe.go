package credential

import (
	"fmt"
	"strings"
)

// Describe возвращает короткое описание данных записи для вывода в списке
func Describe(c Credential) string {
	switch v := c.Data.(type) {
	case Card:
		return fmt.Sprintf("%s  %s  exp %s", MaskCardNumber(v.CardNumber), v.CardHolder, v.ExpiryDate)
	case Email:
		return string(v)
	case Phone:
		return string(v)
	case Location:
		if v.Address != "" {
			return v.Address
		}
		return fmt.Sprintf("%.6f, %.6f", v.Latitude, v.Longitude)
	case Personal:
		return joinNonEmpty(v.Name, v.Details, imageMark(v.FileID))
	case Clothing:
		return joinNonEmpty(v.Name, v.Category, v.Color, v.Size, imageMark(v.FileID))
	case Unknown:
		return fmt.Sprintf("<%d bytes of unrecognised data>", len(v.Raw))
	case nil:
		return "<empty>"
	}
	return ""
}

// MaskCardNumber оставляет видимыми последние 4 цифры
func MaskCardNumber(number string) string {
	if IsSealed(number) {
		return "•••• (locked)"
	}
	digits := strings.ReplaceAll(number, " ", "")
	if len(digits) <= 4 {
		return digits
	}
	return "•••• " + digits[len(digits)-4:]
}

func imageMark(fileID string) string {
	if fileID == "" {
		return ""
	}
	return "[image]"
}

func joinNonEmpty(parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " · ")
}
