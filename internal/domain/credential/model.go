package credential

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"

	"vera/internal/domain/storage"
)

// FileName - имя документа с учетными данными в хранилище пользователя
const FileName = "credentials.json"

// imagesFolder - подпапка для изображений, прикрепленных к записям
const imagesFolder = "images"

type Type string

const (
	TypeClothing Type = "clothing"
	TypeCard     Type = "card"
	TypeEmail    Type = "email"
	TypePhone    Type = "phone"
	TypePersonal Type = "personal"
	TypeLocation Type = "location"
)

// Credential - запись хранилища. Data содержит один из вариантов Payload.
type Credential struct {
	ID        string
	Type      Type
	Title     string
	Data      Payload
	CreatedAt storage.Timestamp
}

// Payload реализуют только типы этого пакета
type Payload interface {
	kind() Type
}

type Card struct {
	CardNumber string `json:"cardNumber"`
	CardHolder string `json:"cardHolder"`
	ExpiryDate string `json:"expiryDate"`
	CVV        string `json:"cvv"`
}

type Email string

type Phone string

type Location struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Label     string  `json:"label,omitempty"`
}

type Personal struct {
	Name     string `json:"name"`
	Details  string `json:"details"`
	ImageURI string `json:"imageUri,omitempty"`
	FileID   string `json:"megaFileId,omitempty"`
}

// Clothing встречается только в старых документах, новые вещи хранит пакет clothing
type Clothing struct {
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Color    string `json:"color,omitempty"`
	Size     string `json:"size,omitempty"`
	Brand    string `json:"brand,omitempty"`
	Notes    string `json:"notes,omitempty"`
	ImageURI string `json:"imageUri,omitempty"`
	FileID   string `json:"megaFileId,omitempty"`
}

// Unknown хранит нераспознанные данные без изменений, в компактной записи JSON
type Unknown struct {
	Raw json.RawMessage
}

func (Card) kind() Type     { return TypeCard }
func (Email) kind() Type    { return TypeEmail }
func (Phone) kind() Type    { return TypePhone }
func (Location) kind() Type { return TypeLocation }
func (Personal) kind() Type { return TypePersonal }
func (Clothing) kind() Type { return TypeClothing }
func (Unknown) kind() Type  { return "" }

type document struct {
	ID        string            `json:"id"`
	Type      Type              `json:"type"`
	Title     string            `json:"title"`
	Data      json.RawMessage   `json:"data"`
	CreatedAt storage.Timestamp `json:"createdAt"`
}

func (c Credential) MarshalJSON() ([]byte, error) {
	data, err := encodePayload(c.Data)
	if err != nil {
		return nil, fmt.Errorf("credential %s: %w", c.ID, err)
	}
	return json.Marshal(document{
		ID:        c.ID,
		Type:      c.Type,
		Title:     c.Title,
		Data:      data,
		CreatedAt: c.CreatedAt,
	})
}

func (c *Credential) UnmarshalJSON(b []byte) error {
	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}

	c.ID = doc.ID
	c.Type = doc.Type
	c.Title = doc.Title
	c.CreatedAt = doc.CreatedAt
	c.Data = decodePayload(doc.Type, doc.Data)
	return nil
}

func encodePayload(p Payload) (json.RawMessage, error) {
	switch v := p.(type) {
	case nil:
		return json.RawMessage("null"), nil
	case Unknown:
		if len(v.Raw) == 0 {
			return json.RawMessage("null"), nil
		}
		return v.Raw, nil
	case Card, Email, Phone, Location, Personal, Clothing:
		return json.Marshal(v)
	default:
		return nil, fmt.Errorf("unsupported payload %T", p)
	}
}

// decodePayload разбирает data по полю type. Если тип неизвестен или данные
// не соответствуют типу, возвращается Unknown с исходными байтами.
func decodePayload(t Type, raw json.RawMessage) Payload {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Unknown{}
	}

	var (
		p   Payload
		err error
	)
	switch t {
	case TypeCard:
		var v Card
		err = strictUnmarshal(raw, &v)
		p = v
	case TypeEmail:
		var v Email
		err = json.Unmarshal(raw, &v)
		p = v
	case TypePhone:
		var v Phone
		err = json.Unmarshal(raw, &v)
		p = v
	case TypeLocation:
		var v Location
		err = strictUnmarshal(raw, &v)
		p = v
	case TypePersonal:
		var v Personal
		err = strictUnmarshal(raw, &v)
		p = v
	case TypeClothing:
		var v Clothing
		err = strictUnmarshal(raw, &v)
		p = v
	default:
		err = fmt.Errorf("unknown type %q", t)
	}
	if err != nil {
		return Unknown{Raw: compact(trimmed)}
	}
	return p
}

// compact убирает отступы, которые добавляет MarshalIndent при сохранении документа
func compact(raw []byte) json.RawMessage {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return append(json.RawMessage(nil), raw...)
	}
	return json.RawMessage(buf.Bytes())
}

// strictUnmarshal отклоняет лишние поля, чтобы данные новых версий не терялись при пересохранении
func strictUnmarshal(raw json.RawMessage, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
