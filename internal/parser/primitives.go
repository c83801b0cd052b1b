package parser

import (
	"encoding/binary"
	"math"

	"ledger-sol-parser/internal/types"
)

// MaxSizedStringLength sized string 声明长度上限，防止恶意长度字段
const MaxSizedStringLength = math.MaxUint16

type Option uint8

const (
	OptionNone Option = 0
	OptionSome Option = 1
)

// SizedString u64 长度前缀字符串，Data 借用原缓冲区
type SizedString struct {
	Data []byte
}

func (s SizedString) Len() int {
	return len(s.Data)
}

func (s SizedString) String() string {
	return string(s.Data)
}

// Pubkeys 借用的连续公钥数组视图（n * 32 字节）
type Pubkeys []byte

func (p Pubkeys) Len() int {
	return len(p) / types.PubkeySize
}

func (p Pubkeys) At(i int) *types.Pubkey {
	return (*types.Pubkey)(p[i*types.PubkeySize : (i+1)*types.PubkeySize])
}

// Index 返回 pubkey 在数组中的下标，不存在时 ok=false
func (p Pubkeys) Index(key types.Pubkey) (int, bool) {
	for i := 0; i < p.Len(); i++ {
		if *p.At(i) == key {
			return i, true
		}
	}
	return 0, false
}

func ReadU8(c *Cursor) (uint8, error) {
	b, err := c.Read(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func ReadU16(c *Cursor) (uint16, error) {
	b, err := c.Read(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func ReadU32(c *Cursor) (uint32, error) {
	b, err := c.Read(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func ReadU64(c *Cursor) (uint64, error) {
	b, err := c.Read(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func ReadI64(c *Cursor) (int64, error) {
	v, err := ReadU64(c)
	if err != nil {
		return 0, err
	}
	return int64(v), nil
}

// ReadLength 解码 compact-u16 风格的变长长度，只支持 1 或 2 字节：
//   - b0 最高位为 0：值为 b0
//   - b0 最高位为 1：再读 b1，值为 (b0 & 0x7f) | (b1 & 0x7f) << 7；b1 最高位仍为 1 视为非法
func ReadLength(c *Cursor) (int, error) {
	mark := c.Snapshot()
	b0, err := ReadU8(c)
	if err != nil {
		return 0, err
	}
	value := int(b0 & 0x7f)
	if b0&0x80 == 0 {
		return value, nil
	}

	b1, err := ReadU8(c)
	if err != nil {
		c.Restore(mark)
		return 0, err
	}
	if b1&0x80 != 0 {
		c.Restore(mark)
		return 0, ErrInvalidLength
	}
	return value | int(b1&0x7f)<<7, nil
}

// ReadOption 只接受 0 / 1 两个标签字节，其余值返回 ErrInvalidOption 且游标不动
func ReadOption(c *Cursor) (Option, error) {
	mark := c.Snapshot()
	b, err := ReadU8(c)
	if err != nil {
		return OptionNone, err
	}
	switch Option(b) {
	case OptionNone, OptionSome:
		return Option(b), nil
	default:
		c.Restore(mark)
		return OptionNone, ErrInvalidOption
	}
}

// ReadOptionInto 与 ReadOption 相同，但只在成功时写入 out
func ReadOptionInto(c *Cursor, out *Option) error {
	v, err := ReadOption(c)
	if err != nil {
		return err
	}
	*out = v
	return nil
}

// ReadPubkey 返回指向原缓冲区的 32 字节公钥
func ReadPubkey(c *Cursor) (*types.Pubkey, error) {
	b, err := c.Read(types.PubkeySize)
	if err != nil {
		return nil, err
	}
	return (*types.Pubkey)(b), nil
}

// ReadPubkeys 读取 n 个连续公钥；长度溢出在 Read 之前检查
func ReadPubkeys(c *Cursor, n int) (Pubkeys, error) {
	if n < 0 || n > c.Remaining()/types.PubkeySize {
		return nil, ErrTruncated
	}
	b, err := c.Read(n * types.PubkeySize)
	if err != nil {
		return nil, err
	}
	return Pubkeys(b), nil
}

func ReadHash(c *Cursor) (*types.Hash, error) {
	b, err := c.Read(types.HashSize)
	if err != nil {
		return nil, err
	}
	return (*types.Hash)(b), nil
}

// ReadData compact 长度前缀的不透明数据
func ReadData(c *Cursor) ([]byte, error) {
	mark := c.Snapshot()
	n, err := ReadLength(c)
	if err != nil {
		return nil, err
	}
	data, err := c.Read(n)
	if err != nil {
		c.Restore(mark)
		return nil, err
	}
	return data, nil
}

// ReadSizedString u64 小端长度 + 字节内容。
// 长度超过 MaxSizedStringLength 返回 ErrStringTooLong，超过剩余长度返回 ErrTruncated，两种情况游标均不动。
func ReadSizedString(c *Cursor) (SizedString, error) {
	mark := c.Snapshot()
	n, err := ReadU64(c)
	if err != nil {
		return SizedString{}, err
	}
	if n > MaxSizedStringLength {
		c.Restore(mark)
		return SizedString{}, ErrStringTooLong
	}
	data, err := c.Read(int(n))
	if err != nil {
		c.Restore(mark)
		return SizedString{}, err
	}
	return SizedString{Data: data}, nil
}
