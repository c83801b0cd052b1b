package summary

import (
	"ledger-sol-parser/internal/parser"
	"ledger-sol-parser/internal/types"
)

// Kind 摘要条目的值类型，KindNone 表示槽位未使用
type Kind uint8

const (
	KindNone Kind = iota
	KindAmount
	KindTokenAmount
	KindI64
	KindU64
	KindPubkey
	KindHash
	KindString
	KindExtendedString
	KindSizedString
	KindTimestamp
	KindApplicationDomain
)

var kindNames = [...]string{
	KindNone:              "none",
	KindAmount:            "amount",
	KindTokenAmount:       "token_amount",
	KindI64:               "i64",
	KindU64:               "u64",
	KindPubkey:            "pubkey",
	KindHash:              "hash",
	KindString:            "string",
	KindExtendedString:    "extended_string",
	KindSizedString:       "sized_string",
	KindTimestamp:         "timestamp",
	KindApplicationDomain: "application_domain",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// TokenAmount 带符号与精度的代币数量
type TokenAmount struct {
	Value    uint64
	Symbol   string
	Decimals uint8
}

// Item 一条待展示的摘要记录。引用类字段（pubkey / hash / text / domain）借用解析缓冲区，不拷贝。
type Item struct {
	Title string
	Kind  Kind

	u64         uint64
	i64         int64
	tokenAmount TokenAmount
	pubkey      *types.Pubkey
	hash        *types.Hash
	text        []byte
	domain      *types.ApplicationDomain
}

func (it *Item) Used() bool {
	return it.Kind != KindNone
}

func (it *Item) SetAmount(title string, lamports uint64) {
	it.Kind = KindAmount
	it.Title = title
	it.u64 = lamports
}

func (it *Item) SetTokenAmount(title string, value uint64, symbol string, decimals uint8) {
	it.Kind = KindTokenAmount
	it.Title = title
	it.tokenAmount = TokenAmount{Value: value, Symbol: symbol, Decimals: decimals}
}

func (it *Item) SetI64(title string, value int64) {
	it.Kind = KindI64
	it.Title = title
	it.i64 = value
}

func (it *Item) SetU64(title string, value uint64) {
	it.Kind = KindU64
	it.Title = title
	it.u64 = value
}

func (it *Item) SetPubkey(title string, value *types.Pubkey) {
	it.Kind = KindPubkey
	it.Title = title
	it.pubkey = value
}

func (it *Item) SetHash(title string, value *types.Hash) {
	it.Kind = KindHash
	it.Title = title
	it.hash = value
}

func (it *Item) SetString(title string, value []byte) {
	it.Kind = KindString
	it.Title = title
	it.text = value
}

// SafeSetString value 为 nil（字段缺失）时不写入，返回是否写入
func (it *Item) SafeSetString(title string, value []byte) bool {
	if value == nil {
		return false
	}
	it.SetString(title, value)
	return true
}

// SetExtendedString 长文本，由 UI 直接分页展示整段内容
func (it *Item) SetExtendedString(title string, value []byte) {
	it.Kind = KindExtendedString
	it.Title = title
	it.text = value
}

func (it *Item) SetSizedString(title string, value parser.SizedString) {
	it.Kind = KindSizedString
	it.Title = title
	it.text = value.Data
}

// SetTimestamp unix 秒
func (it *Item) SetTimestamp(title string, value int64) {
	it.Kind = KindTimestamp
	it.Title = title
	it.i64 = value
}

func (it *Item) SetApplicationDomain(title string, value *types.ApplicationDomain) {
	it.Kind = KindApplicationDomain
	it.Title = title
	it.domain = value
}
