package siws

import (
	"errors"
)

// separatorLines 前导句与两处空行各占一次改写
const separatorLines = 3

// ChangeLogCapacity 一次解析最多允许的原地改写次数
const ChangeLogCapacity = MaxResources + FieldsCount + separatorLines

var ErrChangeLogFull = errors.New("siws: too many delimiter rewrites")

// Change 一次原地改写：缓冲区偏移与被覆盖的原始字节
type Change struct {
	Offset   int
	Original byte
}

// ChangeLog 定长改写记录。每条记录指向不同偏移，回放顺序无关。
type ChangeLog struct {
	changes [ChangeLogCapacity]Change
	n       int
}

// Append 记录一次改写；容量耗尽时返回 ErrChangeLogFull，调用方应放弃本次解析
func (l *ChangeLog) Append(offset int, original byte) error {
	if l.n >= len(l.changes) {
		return ErrChangeLogFull
	}
	l.changes[l.n] = Change{Offset: offset, Original: original}
	l.n++
	return nil
}

// Rollback 把所有原始字节写回 buf 并清空记录
func (l *ChangeLog) Rollback(buf []byte) {
	for i := 0; i < l.n; i++ {
		ch := l.changes[i]
		buf[ch.Offset] = ch.Original
	}
	l.n = 0
}

func (l *ChangeLog) Len() int {
	return l.n
}

// At 返回第 i 条记录
func (l *ChangeLog) At(i int) Change {
	return l.changes[i]
}
