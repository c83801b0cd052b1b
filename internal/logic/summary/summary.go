package summary

import (
	"errors"

	"ledger-sol-parser/internal/types"
)

const (
	// NumGeneralItems 通用槽位数量，超出时调用方需自行降级（例如把多条资源合并为计数）
	NumGeneralItems = 16

	// maxItems primary + general + nonce account + nonce authority + fee payer
	maxItems = NumGeneralItems + 4

	FeePayerTitle = "Fee payer"
)

var (
	ErrNoPrimaryItem = errors.New("summary: primary item not set")
	ErrItemInUse     = errors.New("summary: item already in use")
	ErrPoolExhausted = errors.New("summary: general items exhausted")
	ErrItemNotFound  = errors.New("summary: display index out of range")
	ErrUnknownKind   = errors.New("summary: unknown item kind")
	ErrMissingValue  = errors.New("summary: item has no value")
)

// Summary 一笔交易 / 消息的摘要构建器。
// 由调用方独占持有：Reset -> 填充 -> Finalize -> 按下标渲染 -> 下一次 Reset。
// 每个槽位在一次生命周期内只能从未使用变为已使用一次。
type Summary struct {
	primary        Item
	feePayer       Item
	nonceAccount   Item
	nonceAuthority Item
	general        [NumGeneralItems]Item
}

func New() *Summary {
	return &Summary{}
}

// Reset 清空所有槽位，开始新的摘要
func (s *Summary) Reset() {
	*s = Summary{}
}

func asUnused(it *Item) *Item {
	if it.Used() {
		return nil
	}
	return it
}

// Primary 返回未使用的 primary 槽位，已使用时返回 nil
func (s *Summary) Primary() *Item {
	return asUnused(&s.primary)
}

func (s *Summary) FeePayer() *Item {
	return asUnused(&s.feePayer)
}

func (s *Summary) NonceAccount() *Item {
	return asUnused(&s.nonceAccount)
}

func (s *Summary) NonceAuthority() *Item {
	return asUnused(&s.nonceAuthority)
}

// General 按槽位顺序返回第一个未使用的通用槽位，池耗尽时返回 nil
func (s *Summary) General() *Item {
	for i := range s.general {
		if !s.general[i].Used() {
			return &s.general[i]
		}
	}
	return nil
}

// GeneralCount 已使用的通用槽位数量
func (s *Summary) GeneralCount() int {
	count := 0
	for i := range s.general {
		if s.general[i].Used() {
			count++
		}
	}
	return count
}

// GeneralFree 剩余可用的通用槽位数量
func (s *Summary) GeneralFree() int {
	return NumGeneralItems - s.GeneralCount()
}

// MustGeneral 与 General 相同，但池耗尽时返回 ErrPoolExhausted
func (s *Summary) MustGeneral() (*Item, error) {
	it := s.General()
	if it == nil {
		return nil, ErrPoolExhausted
	}
	return it, nil
}

func (s *Summary) SetFeePayerPubkey(pubkey *types.Pubkey) error {
	it := s.FeePayer()
	if it == nil {
		return ErrItemInUse
	}
	it.SetPubkey(FeePayerTitle, pubkey)
	return nil
}

// walk 以固定展示顺序遍历已使用槽位：
//
//	primary -> general[0..n] -> nonce account -> nonce authority -> fee payer
//
// Finalize 与 FindItem 共用这一顺序，fn 返回 false 时停止。
func (s *Summary) walk(fn func(it *Item) bool) {
	if s.primary.Used() && !fn(&s.primary) {
		return
	}
	for i := range s.general {
		if s.general[i].Used() && !fn(&s.general[i]) {
			return
		}
	}
	for _, it := range []*Item{&s.nonceAccount, &s.nonceAuthority, &s.feePayer} {
		if it.Used() && !fn(it) {
			return
		}
	}
}

// Finalize 返回按展示顺序排列的条目类型列表；primary 未设置时失败
func (s *Summary) Finalize() ([]Kind, error) {
	if !s.primary.Used() {
		return nil, ErrNoPrimaryItem
	}
	kinds := make([]Kind, 0, maxItems)
	s.walk(func(it *Item) bool {
		kinds = append(kinds, it.Kind)
		return true
	})
	return kinds, nil
}

// FindItem 把从 0 开始的展示下标解析为槽位，顺序与 Finalize 完全一致
func (s *Summary) FindItem(index int) (*Item, bool) {
	if index < 0 {
		return nil, false
	}
	var found *Item
	current := 0
	s.walk(func(it *Item) bool {
		if current == index {
			found = it
			return false
		}
		current++
		return true
	})
	return found, found != nil
}
