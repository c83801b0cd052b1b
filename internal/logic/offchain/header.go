package offchain

import (
	"bytes"
	"errors"

	"ledger-sol-parser/internal/consts"
	"ledger-sol-parser/internal/parser"
	"ledger-sol-parser/internal/types"
)

// 消息格式
const (
	FormatRestrictedASCII uint8 = 0
	FormatLimitedUTF8     uint8 = 1
	FormatExtendedUTF8    uint8 = 2 // 不支持
)

var ErrInvalidSigningDomain = errors.New("offchain: invalid signing domain")

// Header 链下消息头，ApplicationDomain / Signers 借用原缓冲区
//
//	signing domain(16) | version(1) | application domain(32) | format(1) |
//	signer count(1) | signers(32*n) | length(u16 LE)
type Header struct {
	Version           uint8
	ApplicationDomain *types.ApplicationDomain
	Format            uint8
	Signers           parser.Pubkeys
	Length            uint16
}

// ParseHeader 解析消息头，成功后游标位于消息正文起始处；失败时游标不动
func ParseHeader(c *parser.Cursor) (*Header, error) {
	mark := c.Snapshot()
	h, err := parseHeader(c)
	if err != nil {
		c.Restore(mark)
		return nil, err
	}
	return h, nil
}

func parseHeader(c *parser.Cursor) (*Header, error) {
	domain, err := c.Read(len(consts.OffchainSigningDomain))
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(domain, []byte(consts.OffchainSigningDomain)) {
		return nil, ErrInvalidSigningDomain
	}

	var h Header
	if h.Version, err = parser.ReadU8(c); err != nil {
		return nil, err
	}

	app, err := c.Read(types.ApplicationDomainSize)
	if err != nil {
		return nil, err
	}
	h.ApplicationDomain = (*types.ApplicationDomain)(app)

	if h.Format, err = parser.ReadU8(c); err != nil {
		return nil, err
	}

	count, err := parser.ReadU8(c)
	if err != nil {
		return nil, err
	}
	if h.Signers, err = parser.ReadPubkeys(c, int(count)); err != nil {
		return nil, err
	}

	if h.Length, err = parser.ReadU16(c); err != nil {
		return nil, err
	}
	return &h, nil
}
