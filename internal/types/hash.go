package types

import (
	"fmt"

	"github.com/mr-tron/base58"
)

// HashSize blockhash / 消息哈希长度（字节）
const HashSize = 32

type Hash [HashSize]byte

func (h Hash) String() string {
	return base58.Encode(h[:])
}

func (h Hash) Equals(other Hash) bool {
	return h == other
}

func HashFromBase58(s string) (Hash, error) {
	var h Hash
	data, err := base58.Decode(s)
	if err != nil {
		return h, err
	}
	if len(data) != HashSize {
		return h, fmt.Errorf("invalid hash length: got %d, want %d", len(data), HashSize)
	}
	copy(h[:], data)
	return h, nil
}

// ApplicationDomainSize 链下消息 application domain 长度
const ApplicationDomainSize = 32

// ApplicationDomain 链下消息头中的 application domain（原始 32 字节）
type ApplicationDomain [ApplicationDomainSize]byte

func (d ApplicationDomain) String() string {
	return base58.Encode(d[:])
}

// IsEmpty 全 0 表示调用方未提供 application domain
func (d ApplicationDomain) IsEmpty() bool {
	return d == ApplicationDomain{}
}
