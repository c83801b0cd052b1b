package summary

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"ledger-sol-parser/internal/consts"
)

type DisplayFlags uint8

const (
	DisplayFlagNone        DisplayFlags = 0
	DisplayFlagLongPubkeys DisplayFlags = 1 << 0
)

const timestampLayout = "2006-01-02 15:04:05"

// DisplayItem 渲染指定展示下标对应条目的标题与正文
func (s *Summary) DisplayItem(index int, flags DisplayFlags) (title string, text string, err error) {
	it, ok := s.FindItem(index)
	if !ok {
		return "", "", fmt.Errorf("%w: %d", ErrItemNotFound, index)
	}
	text, err = it.render(flags)
	if err != nil {
		return "", "", err
	}
	return it.Title, text, nil
}

func (it *Item) render(flags DisplayFlags) (string, error) {
	switch it.Kind {
	case KindAmount:
		return FormatTokenAmount(it.u64, "SOL", consts.SOLDecimals), nil
	case KindTokenAmount:
		return FormatTokenAmount(it.tokenAmount.Value, it.tokenAmount.Symbol, it.tokenAmount.Decimals), nil
	case KindI64:
		return strconv.FormatInt(it.i64, 10), nil
	case KindU64:
		return strconv.FormatUint(it.u64, 10), nil
	case KindPubkey:
		if it.pubkey == nil {
			return "", ErrMissingValue
		}
		if flags&DisplayFlagLongPubkeys != 0 {
			return it.pubkey.String(), nil
		}
		return it.pubkey.ShortString(), nil
	case KindHash:
		if it.hash == nil {
			return "", ErrMissingValue
		}
		return it.hash.String(), nil
	case KindString, KindExtendedString, KindSizedString:
		return string(it.text), nil
	case KindTimestamp:
		return time.Unix(it.i64, 0).UTC().Format(timestampLayout), nil
	case KindApplicationDomain:
		if it.domain == nil {
			return "", ErrMissingValue
		}
		return it.domain.String(), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKind, it.Kind)
	}
}

// FormatTokenAmount 按精度输出十进制数量并去掉小数末尾的 0，symbol 非空时追加在空格后
func FormatTokenAmount(value uint64, symbol string, decimals uint8) string {
	s := strconv.FormatUint(value, 10)
	if d := int(decimals); d > 0 {
		if len(s) <= d {
			s = strings.Repeat("0", d-len(s)+1) + s
		}
		intPart := s[:len(s)-d]
		frac := strings.TrimRight(s[len(s)-d:], "0")
		s = intPart
		if frac != "" {
			s += "." + frac
		}
	}
	if symbol == "" {
		return s
	}
	return s + " " + symbol
}
