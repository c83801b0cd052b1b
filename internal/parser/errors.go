package parser

import "errors"

// 所有解码错误都是可恢复的输入错误，调用方直接向上返回即可
var (
	ErrTruncated           = errors.New("parser: buffer truncated")
	ErrInvalidLength       = errors.New("parser: invalid compact length")
	ErrInvalidOption       = errors.New("parser: invalid option tag")
	ErrStringTooLong       = errors.New("parser: sized string too long")
	ErrUnsupportedVersion  = errors.New("parser: unsupported message version")
	ErrInvalidAccountIndex = errors.New("parser: account index out of range")
)
