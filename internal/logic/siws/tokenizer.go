package siws

import (
	"bytes"
	"errors"

	"ledger-sol-parser/internal/parser"
)

const terminator = 0x00

var (
	ErrMissingDelimiter = errors.New("siws: line delimiter not found")
	ErrLineNotEmpty     = errors.New("siws: expected empty line")
)

// tokenizer 在调用方缓冲区上原地切分：分隔符被改写为 0x00 并记入 ChangeLog。
// 返回的 token 均为缓冲区子切片，只在改写保留期间有效。
// frozen 置位后只切分不改写，token 由切片长度界定。
type tokenizer struct {
	c      *parser.Cursor
	log    *ChangeLog
	frozen bool
}

// terminate 把当前位置之后第 idx 个字节改为终止符，先记录后改写
func (t *tokenizer) terminate(rest []byte, idx int) error {
	if t.frozen {
		return nil
	}
	if err := t.log.Append(t.c.Offset()+idx, rest[idx]); err != nil {
		return err
	}
	rest[idx] = terminator
	return nil
}

// parseTo 读取到 delim 为止的 token 并越过 delim。
// 剩余不足 2 字节时失败；找不到 delim 时剩余全部字节即为 token。
func (t *tokenizer) parseTo(delim byte) ([]byte, error) {
	if err := t.c.PeekLength(2); err != nil {
		return nil, err
	}
	rest := t.c.Bytes()
	idx := bytes.IndexByte(rest, delim)
	if idx < 0 {
		return t.c.Read(len(rest))
	}
	if err := t.terminate(rest, idx); err != nil {
		return nil, err
	}
	tok, err := t.c.Read(idx + 1)
	if err != nil {
		return nil, err
	}
	return tok[:idx], nil
}

// skipLine 越过一整行并返回行内容（不含 LF）。
// 必须找到 LF；mustBeEmpty 为 true 时行内容须为空。
func (t *tokenizer) skipLine(mustBeEmpty bool) ([]byte, error) {
	if err := t.c.PeekLength(2); err != nil {
		return nil, err
	}
	rest := t.c.Bytes()
	idx := bytes.IndexByte(rest, '\n')
	if idx < 0 {
		return nil, ErrMissingDelimiter
	}
	if mustBeEmpty && idx > 0 {
		return nil, ErrLineNotEmpty
	}
	if err := t.terminate(rest, idx); err != nil {
		return nil, err
	}
	line, err := t.c.Read(idx + 1)
	if err != nil {
		return nil, err
	}
	return line[:idx], nil
}
