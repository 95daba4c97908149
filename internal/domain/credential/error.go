package credential

import "errors"

var (
	ErrNotFound     = errors.New("credential not found")
	ErrDuplicateID  = errors.New("credential with this id already exists")
	ErrEmptyPayload = errors.New("credential data is empty")
	ErrVaultLocked  = errors.New("vault is locked: card data cannot be saved unencrypted")
)
