package siws

import (
	"strconv"

	"ledger-sol-parser/internal/logic/summary"
)

const (
	TitleDomain    = "Domain"
	TitleAddress   = "Address"
	TitleStatement = "Statement"
	TitleResource  = "Resource"
	TitleResources = "Resources"
)

// AddSummary 每个出现的字段占用一条通用条目。
// 剩余槽位容纳不下全部资源时，资源合并为一条 "N resources" 计数条目。
func (m *Message) AddSummary(s *summary.Summary) error {
	fields := [...]struct {
		title string
		value []byte
	}{
		{TitleDomain, m.Domain},
		{TitleAddress, m.Address},
		{TitleStatement, m.Statement},
		{LabelURI, m.URI},
		{LabelVersion, m.Version},
		{LabelChainID, m.ChainID},
		{LabelNonce, m.Nonce},
		{LabelIssuedAt, m.IssuedAt},
		{LabelExpirationTime, m.ExpirationTime},
		{LabelNotBefore, m.NotBefore},
		{LabelRequestID, m.RequestID},
	}
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		item, err := s.MustGeneral()
		if err != nil {
			return err
		}
		item.SetString(f.title, f.value)
	}

	if m.ResourceCount == 0 {
		return nil
	}
	if s.GeneralFree() >= m.ResourceCount {
		for i := 0; i < m.ResourceCount; i++ {
			s.General().SetString(TitleResource, m.Resources[i])
		}
		return nil
	}

	item, err := s.MustGeneral()
	if err != nil {
		return err
	}
	text := strconv.AppendInt(m.resourcesText[:0], int64(m.ResourceCount), 10)
	text = append(text, " resources"...)
	item.SetString(TitleResources, text)
	return nil
}
