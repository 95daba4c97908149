package crypto

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/crypto/argon2"

	"vera/internal/domain/credential"
)

var _ credential.Sealer = (*Vault)(nil)

const (
	// Параметры Argon2id
	argon2Time    = 1
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4
	keyLength     = 32
	saltLength    = 16

	keyVersion   = 1
	keyAlgorithm = "argon2id"

	vaultKeyPermissions = 0o600
)

var (
	ErrVaultNotInitialized = errors.New("vault key is not initialized")
	ErrVaultExists         = errors.New("vault key already exists")
	ErrWrongPassphrase     = errors.New("wrong vault passphrase")
	ErrLocked              = errors.New("vault is locked")
	ErrMalformed           = errors.New("malformed sealed value")
)

// KeyHeader хранится в файле vault.key. Сам ключ данных лежит в нем
// зашифрованным ключом, производным от парольной фразы.
type KeyHeader struct {
	Version    int       `json:"version"`
	Algorithm  string    `json:"algorithm"`
	Salt       string    `json:"salt"`
	Time       uint32    `json:"time"`
	Memory     uint32    `json:"memory"`
	Threads    uint8     `json:"threads"`
	WrappedKey string    `json:"wrapped_key"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Vault шифрует поля карт ключом устройства
type Vault struct {
	keyPath string
	header  KeyHeader
	dataKey []byte
	mu      sync.RWMutex
}

// NewVault создает хранилище ключа. Файл читается, если он уже существует.
func NewVault(keyPath string) (*Vault, error) {
	absPath, err := filepath.Abs(keyPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка определения пути: %w", err)
	}

	v := &Vault{keyPath: absPath}
	if _, err := os.Stat(absPath); err == nil {
		if err := v.loadHeader(); err != nil {
			return nil, fmt.Errorf("ошибка загрузки заголовка ключа: %w", err)
		}
	}
	return v, nil
}

// Init генерирует ключ данных и сохраняет его под парольной фразой.
// Хранилище остается разблокированным.
func (v *Vault) Init(passphrase string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.initialized() {
		return ErrVaultExists
	}

	dataKey, err := randomBytes(keyLength)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	header := KeyHeader{
		Version:   keyVersion,
		Algorithm: keyAlgorithm,
		Time:      argon2Time,
		Memory:    argon2Memory,
		Threads:   argon2Threads,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := wrap(&header, passphrase, dataKey); err != nil {
		return err
	}
	if err := v.saveHeader(header); err != nil {
		clearMemory(dataKey)
		return err
	}

	v.header = header
	v.dataKey = dataKey
	return nil
}

// Unlock расшифровывает ключ данных парольной фразой
func (v *Vault) Unlock(passphrase string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.initialized() {
		return ErrVaultNotInitialized
	}
	if v.dataKey != nil {
		return nil
	}

	dataKey, err := unwrap(v.header, passphrase)
	if err != nil {
		return err
	}
	v.dataKey = dataKey
	return nil
}

// ChangePassphrase перешифровывает ключ данных новой фразой.
// Уже зашифрованные значения остаются читаемыми.
func (v *Vault) ChangePassphrase(oldPassphrase, newPassphrase string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.initialized() {
		return ErrVaultNotInitialized
	}

	dataKey, err := unwrap(v.header, oldPassphrase)
	if err != nil {
		return err
	}
	defer clearMemory(dataKey)

	header := v.header
	header.UpdatedAt = time.Now().UTC()
	if err := wrap(&header, newPassphrase, dataKey); err != nil {
		return err
	}
	if err := v.saveHeader(header); err != nil {
		return err
	}
	v.header = header
	return nil
}

// Lock стирает ключ данных из памяти
func (v *Vault) Lock() {
	v.mu.Lock()
	defer v.mu.Unlock()
	clearMemory(v.dataKey)
	v.dataKey = nil
}

func (v *Vault) Locked() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.dataKey == nil
}

func (v *Vault) IsInitialized() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.initialized()
}

func (v *Vault) Path() string {
	return v.keyPath
}

// Seal шифрует строку и возвращает ее в виде enc:v1:<base64>
func (v *Vault) Seal(plain string) (string, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if v.dataKey == nil {
		return "", ErrLocked
	}
	sealed, err := encryptWithKey(v.dataKey, []byte(plain))
	if err != nil {
		return "", err
	}
	return credential.SealedPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

func (v *Vault) Open(sealed string) (string, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if v.dataKey == nil {
		return "", ErrLocked
	}
	encoded, ok := strings.CutPrefix(sealed, credential.SealedPrefix)
	if !ok {
		return "", ErrMalformed
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	plain, err := decryptWithKey(v.dataKey, raw)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

func (v *Vault) initialized() bool {
	return v.header.WrappedKey != ""
}

func (v *Vault) loadHeader() error {
	data, err := os.ReadFile(v.keyPath)
	if err != nil {
		return fmt.Errorf("ошибка чтения файла ключа: %w", err)
	}

	var header KeyHeader
	if err := json.Unmarshal(data, &header); err != nil {
		return fmt.Errorf("ошибка декодирования файла ключа: %w", err)
	}
	if header.Algorithm != keyAlgorithm {
		return fmt.Errorf("неподдерживаемый алгоритм: %s", header.Algorithm)
	}

	v.header = header
	return nil
}

func (v *Vault) saveHeader(header KeyHeader) error {
	data, err := json.MarshalIndent(header, "", "  ")
	if err != nil {
		return fmt.Errorf("ошибка сериализации: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(v.keyPath), 0o700); err != nil {
		return fmt.Errorf("ошибка создания директории: %w", err)
	}
	if err := os.WriteFile(v.keyPath, data, vaultKeyPermissions); err != nil {
		return fmt.Errorf("ошибка записи файла: %w", err)
	}
	return nil
}

// wrap генерирует новую соль и шифрует ключ данных ключом из парольной фразы
func wrap(header *KeyHeader, passphrase string, dataKey []byte) error {
	salt, err := randomBytes(saltLength)
	if err != nil {
		return err
	}

	kek := argon2.IDKey([]byte(passphrase), salt, header.Time, header.Memory, header.Threads, keyLength)
	defer clearMemory(kek)

	wrapped, err := encryptWithKey(kek, dataKey)
	if err != nil {
		return fmt.Errorf("ошибка шифрования ключа: %w", err)
	}

	header.Salt = base64.StdEncoding.EncodeToString(salt)
	header.WrappedKey = base64.StdEncoding.EncodeToString(wrapped)
	return nil
}

func unwrap(header KeyHeader, passphrase string) ([]byte, error) {
	salt, err := base64.StdEncoding.DecodeString(header.Salt)
	if err != nil {
		return nil, fmt.Errorf("ошибка декодирования соли: %w", err)
	}
	wrapped, err := base64.StdEncoding.DecodeString(header.WrappedKey)
	if err != nil {
		return nil, fmt.Errorf("ошибка декодирования ключа: %w", err)
	}

	kek := argon2.IDKey([]byte(passphrase), salt, header.Time, header.Memory, header.Threads, keyLength)
	defer clearMemory(kek)

	dataKey, err := decryptWithKey(kek, wrapped)
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	return dataKey, nil
}
