package siws

import (
	"bytes"
	"errors"
)

const (
	minNonceLength   = 8
	minAddressLength = 32
	maxAddressLength = 44
)

var ValidChainIDs = [...]string{
	"mainnet",
	"testnet",
	"devnet",
	"localnet",
	"solana:mainnet",
	"solana:testnet",
	"solana:devnet",
}

var (
	ErrMissingRequiredField = errors.New("siws: domain and address are required")
	ErrUnsupportedVersion   = errors.New("siws: unsupported version")
	ErrInvalidNonce         = errors.New("siws: nonce must be at least 8 alphanumeric characters")
	ErrEmptyStatement       = errors.New("siws: statement is empty")
	ErrInvalidAddress       = errors.New("siws: address must be 32-44 alphanumeric characters")
	ErrInvalidChainID       = errors.New("siws: unknown chain id")
)

// Validate 校验字段取值；可选字段仅在出现时检查
func (m *Message) Validate() error {
	if m.Domain == nil || m.Address == nil {
		return ErrMissingRequiredField
	}
	if m.Version != nil && string(m.Version) != "1" {
		return ErrUnsupportedVersion
	}
	if m.Nonce != nil && (len(m.Nonce) < minNonceLength || !IsAlphanumeric(m.Nonce)) {
		return ErrInvalidNonce
	}
	if m.Statement != nil && len(m.Statement) == 0 {
		return ErrEmptyStatement
	}
	if n := len(m.Address); n < minAddressLength || n > maxAddressLength || !IsAlphanumeric(m.Address) {
		return ErrInvalidAddress
	}
	if m.ChainID != nil && !IsValidChainID(m.ChainID) {
		return ErrInvalidChainID
	}
	return nil
}

// IsAlphanumeric 仅 ASCII 字母与数字，空值视为合法
func IsAlphanumeric(b []byte) bool {
	for _, ch := range b {
		switch {
		case ch >= '0' && ch <= '9':
		case ch >= 'a' && ch <= 'z':
		case ch >= 'A' && ch <= 'Z':
		default:
			return false
		}
	}
	return true
}

// IsValidChainID 与白名单逐字节完全相等
func IsValidChainID(id []byte) bool {
	for _, valid := range ValidChainIDs {
		if bytes.Equal(id, []byte(valid)) {
			return true
		}
	}
	return false
}
