package parser

// Cursor 是对调用方缓冲区的只读、带边界检查的游标视图。
// Cursor 只借用 data，不拥有也不拷贝；所有 primitive 解码器只能通过 Read / PeekLength 访问数据。
//
// 不变量：0 <= pos <= len(data)，剩余长度 = len(data) - pos。
type Cursor struct {
	data []byte
	pos  int
}

// Mark 记录游标位置，用于解析失败后的整体回滚
type Mark int

func NewCursor(buf []byte) *Cursor {
	return &Cursor{data: buf}
}

// Read 返回接下来的 n 个字节（子切片，不拷贝）并前移游标。
// n 超出剩余长度时返回 ErrTruncated，游标保持不变。
func (c *Cursor) Read(n int) ([]byte, error) {
	if err := c.PeekLength(n); err != nil {
		return nil, err
	}
	// 限制 cap，防止调用方 append 覆盖后续字节
	out := c.data[c.pos : c.pos+n : c.pos+n]
	c.pos += n
	return out, nil
}

// Peek 返回接下来的 n 个字节但不前移游标
func (c *Cursor) Peek(n int) ([]byte, error) {
	if err := c.PeekLength(n); err != nil {
		return nil, err
	}
	return c.data[c.pos : c.pos+n : c.pos+n], nil
}

// PeekLength 检查是否还剩至少 n 个字节，不前移游标
func (c *Cursor) PeekLength(n int) error {
	if n < 0 || n > c.Remaining() {
		return ErrTruncated
	}
	return nil
}

func (c *Cursor) IsEmpty() bool {
	return c.Remaining() == 0
}

func (c *Cursor) Remaining() int {
	return len(c.data) - c.pos
}

// Offset 下一个待读字节在底层缓冲区中的绝对偏移
func (c *Cursor) Offset() int {
	return c.pos
}

// Bytes 剩余字节的借用视图
func (c *Cursor) Bytes() []byte {
	return c.data[c.pos:]
}

func (c *Cursor) Snapshot() Mark {
	return Mark(c.pos)
}

// Restore 回到 Snapshot 时的位置；只能回退到同一缓冲区上取得的 Mark
func (c *Cursor) Restore(m Mark) {
	if int(m) < 0 || int(m) > len(c.data) {
		panic("parser: restore mark out of range")
	}
	c.pos = int(m)
}
