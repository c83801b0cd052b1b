package parser

import (
	"fmt"

	"ledger-sol-parser/internal/types"
)

// versionPrefixMask versioned message 首字节最高位为 1，低 7 位为版本号
const versionPrefixMask = 0x80

// PubkeysHeader 消息头中的签名 / 只读账户计数
type PubkeysHeader struct {
	NumRequiredSignatures       uint8
	NumReadonlySignedAccounts   uint8
	NumReadonlyUnsignedAccounts uint8
	PubkeysLength               int
}

// MessageHeader 交易消息的固定前缀部分，Pubkeys / RecentBlockhash 均借用原缓冲区
type MessageHeader struct {
	Versioned          bool
	Version            uint8
	PubkeysHeader      PubkeysHeader
	Pubkeys            Pubkeys
	RecentBlockhash    *types.Hash
	InstructionsLength int
}

// Instruction 链上单条指令的信封：程序下标、账户下标数组、不透明数据
type Instruction struct {
	ProgramIDIndex uint8
	Accounts       []byte
	Data           []byte
}

func ReadPubkeysHeader(c *Cursor) (PubkeysHeader, error) {
	mark := c.Snapshot()
	var h PubkeysHeader
	var err error
	if h.NumRequiredSignatures, err = ReadU8(c); err != nil {
		return PubkeysHeader{}, err
	}
	if h.NumReadonlySignedAccounts, err = ReadU8(c); err != nil {
		c.Restore(mark)
		return PubkeysHeader{}, err
	}
	if h.NumReadonlyUnsignedAccounts, err = ReadU8(c); err != nil {
		c.Restore(mark)
		return PubkeysHeader{}, err
	}
	if h.PubkeysLength, err = ReadLength(c); err != nil {
		c.Restore(mark)
		return PubkeysHeader{}, err
	}
	return h, nil
}

// ReadMessageHeader 解析 legacy / v0 消息头。只支持 version 0。
// 地址查找表位于指令之后，由上层消息解码处理。
func ReadMessageHeader(c *Cursor) (*MessageHeader, error) {
	mark := c.Snapshot()
	header, err := readMessageHeader(c)
	if err != nil {
		c.Restore(mark)
		return nil, err
	}
	return header, nil
}

func readMessageHeader(c *Cursor) (*MessageHeader, error) {
	header := &MessageHeader{}

	// 1. 可选版本前缀
	first, err := c.Peek(1)
	if err != nil {
		return nil, err
	}
	if first[0]&versionPrefixMask != 0 {
		prefix, _ := ReadU8(c)
		header.Versioned = true
		header.Version = prefix &^ versionPrefixMask
		if header.Version != 0 {
			return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, header.Version)
		}
	}

	// 2. 账户计数
	pubkeysHeader, err := ReadPubkeysHeader(c)
	if err != nil {
		return nil, err
	}
	header.PubkeysHeader = pubkeysHeader

	// 3. 账户公钥与 blockhash
	if header.Pubkeys, err = ReadPubkeys(c, pubkeysHeader.PubkeysLength); err != nil {
		return nil, err
	}
	if header.RecentBlockhash, err = ReadHash(c); err != nil {
		return nil, err
	}

	// 4. 指令数量
	if header.InstructionsLength, err = ReadLength(c); err != nil {
		return nil, err
	}
	return header, nil
}

// ReadInstruction 解析一条 compiled instruction：u8 程序下标 + compact 账户下标数组 + compact 数据
func ReadInstruction(c *Cursor) (*Instruction, error) {
	mark := c.Snapshot()
	ix := &Instruction{}
	var err error

	if ix.ProgramIDIndex, err = ReadU8(c); err != nil {
		return nil, err
	}
	if ix.Accounts, err = ReadData(c); err != nil {
		c.Restore(mark)
		return nil, err
	}
	if ix.Data, err = ReadData(c); err != nil {
		c.Restore(mark)
		return nil, err
	}
	return ix, nil
}

// Validate 校验程序下标与所有账户下标都落在消息账户表内
func (ix *Instruction) Validate(header *MessageHeader) error {
	n := header.PubkeysHeader.PubkeysLength
	if int(ix.ProgramIDIndex) >= n {
		return fmt.Errorf("%w: program index %d, accounts %d", ErrInvalidAccountIndex, ix.ProgramIDIndex, n)
	}
	for _, idx := range ix.Accounts {
		if int(idx) >= n {
			return fmt.Errorf("%w: account index %d, accounts %d", ErrInvalidAccountIndex, idx, n)
		}
	}
	return nil
}

// ProgramID 返回指令调用的程序地址；调用前须已通过 Validate
func (ix *Instruction) ProgramID(header *MessageHeader) *types.Pubkey {
	return header.Pubkeys.At(int(ix.ProgramIDIndex))
}
