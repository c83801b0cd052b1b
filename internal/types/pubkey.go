package types

import (
	"fmt"

	"github.com/mr-tron/base58"
)

// PubkeySize 公钥固定长度（字节）
const PubkeySize = 32

type Pubkey [PubkeySize]byte

func (p Pubkey) String() string {
	return base58.Encode(p[:])
}

func (p Pubkey) Equals(other Pubkey) bool {
	return p == other
}

// ShortString 返回截断的展示形式：前 7 位 + ".." + 后 7 位，用于小屏幕摘要
func (p Pubkey) ShortString() string {
	s := p.String()
	if len(s) <= 16 {
		return s
	}
	return s[:7] + ".." + s[len(s)-7:]
}

// PubkeyFromBytes 从借用的 32 字节构造 Pubkey（拷贝），长度不符时返回 error
func PubkeyFromBytes(b []byte) (Pubkey, error) {
	var p Pubkey
	if len(b) != PubkeySize {
		return p, fmt.Errorf("invalid pubkey length: got %d, want %d", len(b), PubkeySize)
	}
	copy(p[:], b)
	return p, nil
}

// TryPubkeyFromBase58 解析 base58 字符串为 Pubkey，失败时返回 error（用于不信任输入路径）
func TryPubkeyFromBase58(s string) (Pubkey, error) {
	data, err := base58.Decode(s)
	if err != nil {
		return Pubkey{}, fmt.Errorf("failed to decode base58 pubkey %q: %w", s, err)
	}
	if len(data) != PubkeySize {
		return Pubkey{}, fmt.Errorf("invalid pubkey length: got %d, want %d, input=%q", len(data), PubkeySize, s)
	}
	var p Pubkey
	copy(p[:], data)
	return p, nil
}

// PubkeyFromBase58 用于常量初始化，输入非法时直接 panic
func PubkeyFromBase58(s string) Pubkey {
	p, err := TryPubkeyFromBase58(s)
	if err != nil {
		panic(err)
	}
	return p
}
