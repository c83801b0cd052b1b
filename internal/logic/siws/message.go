package siws

import (
	"bytes"
	"errors"
	"fmt"

	"ledger-sol-parser/internal/parser"
	"ledger-sol-parser/internal/pkg/logger"
)

// Preamble domain 之后、以空格分隔的固定句子
const Preamble = "wants you to sign in with your Solana account:"

const (
	LabelURI            = "URI"
	LabelVersion        = "Version"
	LabelChainID        = "Chain ID"
	LabelNonce          = "Nonce"
	LabelIssuedAt       = "Issued At"
	LabelExpirationTime = "Expiration Time"
	LabelNotBefore      = "Not Before"
	LabelRequestID      = "Request ID"
	LabelResources      = "Resources"

	resourcePrefix = "- "
)

var (
	ErrParserInUse           = errors.New("siws: parser already used")
	ErrInvalidPreamble       = errors.New("siws: invalid preamble")
	ErrInvalidSeparator      = errors.New("siws: field must be followed by \": \"")
	ErrMissingResourcePrefix = errors.New("siws: resources must start with \"- \"")
)

// Message 解析结果，所有字段借用原缓冲区；nil 表示字段缺失
type Message struct {
	Domain         []byte
	Address        []byte
	Statement      []byte
	URI            []byte
	Version        []byte
	ChainID        []byte
	Nonce          []byte
	IssuedAt       []byte
	ExpirationTime []byte
	NotBefore      []byte
	RequestID      []byte

	Resources     [MaxResources][]byte
	ResourceCount int

	// resourcesText 资源过多时计数文本的存放处
	resourcesText [32]byte
}

// namedField 命名字段标签与 Message 中目标字段的绑定
type namedField struct {
	label string
	dst   func(m *Message) *[]byte
}

var namedFields = [...]namedField{
	{LabelURI, func(m *Message) *[]byte { return &m.URI }},
	{LabelVersion, func(m *Message) *[]byte { return &m.Version }},
	{LabelChainID, func(m *Message) *[]byte { return &m.ChainID }},
	{LabelNonce, func(m *Message) *[]byte { return &m.Nonce }},
	{LabelIssuedAt, func(m *Message) *[]byte { return &m.IssuedAt }},
	{LabelExpirationTime, func(m *Message) *[]byte { return &m.ExpirationTime }},
	{LabelNotBefore, func(m *Message) *[]byte { return &m.NotBefore }},
	{LabelRequestID, func(m *Message) *[]byte { return &m.RequestID }},
}

type state uint8

const (
	stateIdle state = iota
	stateParsed
	stateDone
)

// Parser 在一块缓冲区上执行一次 SIWS 解析，并持有该次解析的 ChangeLog。
// 生命周期：NewParser -> Parse -> (成功时) Rollback；失败时 Parse 已自动回滚。
type Parser struct {
	buf   []byte
	log   ChangeLog
	state state
}

func NewParser(buf []byte) *Parser {
	return &Parser{buf: buf}
}

// Parse 解析消息。失败时缓冲区已恢复为原始字节；
// 成功时终止符保留在缓冲区中，返回的视图在 Rollback 之前有效。
func (p *Parser) Parse() (*Message, error) {
	if p.state != stateIdle {
		return nil, ErrParserInUse
	}

	c := parser.NewCursor(p.buf)
	mark := c.Snapshot()
	t := &tokenizer{c: c, log: &p.log}

	msg := &Message{}
	if err := msg.parse(t); err != nil {
		logger.Debugf("[SIWS] 非 SIWS 消息: %v, offset=%d, size=%d", err, c.Offset(), len(p.buf))
		c.Restore(mark)
		p.log.Rollback(p.buf)
		p.state = stateDone
		return nil, err
	}
	p.state = stateParsed
	return msg, nil
}

// Rollback 在成功解析后恢复原始字节，之后 Message 中的视图不再以 0x00 结尾。
// 只对成功的解析生效一次，重复调用无副作用。
func (p *Parser) Rollback() {
	if p.state != stateParsed {
		return
	}
	p.log.Rollback(p.buf)
	p.state = stateDone
}

// Changes 当前保留的改写次数
func (p *Parser) Changes() int {
	return p.log.Len()
}

func (m *Message) parse(t *tokenizer) error {
	// 1. domain 到第一个空格为止
	domain, err := t.parseTo(' ')
	if err != nil {
		return fmt.Errorf("domain: %w", err)
	}
	m.Domain = domain

	// 2. 固定前导句，逐字节比对
	line, err := t.skipLine(false)
	if err != nil {
		return fmt.Errorf("preamble: %w", err)
	}
	if !bytes.Equal(line, []byte(Preamble)) {
		return ErrInvalidPreamble
	}

	// 3. address
	address, err := t.parseTo('\n')
	if err != nil {
		return fmt.Errorf("address: %w", err)
	}
	m.Address = address

	// 4. 剩余超过 1 字节时继续解析 statement 与命名字段；单个结尾 LF 视为最小消息
	if parseAdvanced && t.c.Remaining() > 1 {
		if err := m.parseBody(t); err != nil {
			return err
		}
	}

	return m.Validate()
}

func (m *Message) parseBody(t *tokenizer) error {
	if _, err := t.skipLine(true); err != nil {
		return fmt.Errorf("statement separator: %w", err)
	}
	statement, err := t.parseTo('\n')
	if err != nil {
		return fmt.Errorf("statement: %w", err)
	}
	m.Statement = statement
	if _, err := t.skipLine(true); err != nil {
		return fmt.Errorf("fields separator: %w", err)
	}
	return m.parseFields(t)
}

// parseFields 逐行匹配命名字段，未知行忽略；剩余不足 2 字节时结束
func (m *Message) parseFields(t *tokenizer) error {
	for {
		line, err := t.parseTo('\n')
		if errors.Is(err, parser.ErrTruncated) {
			return nil
		}
		if err != nil {
			return err
		}

		for i := range namedFields {
			f := &namedFields[i]
			value, ok, err := matchField(line, f.label)
			if err != nil {
				return fmt.Errorf("%s: %w", f.label, err)
			}
			if ok {
				*f.dst(m) = value
			}
		}

		if bytes.HasPrefix(line, []byte(LabelResources)) {
			if err := m.parseResources(t); err != nil {
				return err
			}
		}
	}
}

// matchField 大小写敏感的前缀匹配；命中后必须紧跟 ": "
func matchField(line []byte, label string) ([]byte, bool, error) {
	if !bytes.HasPrefix(line, []byte(label)) {
		return nil, false, nil
	}
	rest := line[len(label):]
	if len(rest) < 2 || rest[0] != ':' || rest[1] != ' ' {
		return nil, false, ErrInvalidSeparator
	}
	return rest[2:], true, nil
}

// parseResources 收集 "- " 开头的行，至多 MaxResources 条。
// 标记行之后的第一行必须带前缀；重复的 Resources 段覆盖之前的列表。
// 收满后 tokenizer 冻结，改写次数不会超过 ChangeLogCapacity 的预算。
func (m *Message) parseResources(t *tokenizer) error {
	m.Resources = [MaxResources][]byte{}
	m.ResourceCount = 0

	for m.ResourceCount < MaxResources {
		rest := t.c.Bytes()
		if len(rest) <= len(resourcePrefix) || !bytes.HasPrefix(rest, []byte(resourcePrefix)) {
			if m.ResourceCount == 0 {
				return ErrMissingResourcePrefix
			}
			return nil
		}
		line, err := t.parseTo('\n')
		if err != nil {
			return err
		}
		m.Resources[m.ResourceCount] = line[len(resourcePrefix):]
		m.ResourceCount++
	}
	// 列表已满，之后的行不再改写缓冲区
	t.frozen = true
	return nil
}
