package computebudget

import (
	"ledger-sol-parser/internal/logic/summary"
)

const (
	TitleUnitLimit = "Unit limit"
	TitleUnitPrice = "Unit price"
	TitleHeapFrame = "Heap frame"
)

// AddSummary 将指令写入摘要的通用条目
func AddSummary(ix Instruction, s *summary.Summary) error {
	item, err := s.MustGeneral()
	if err != nil {
		return err
	}
	switch v := ix.(type) {
	case RequestHeapFrame:
		item.SetU64(TitleHeapFrame, uint64(v.Bytes))
	case ChangeUnitLimit:
		item.SetU64(TitleUnitLimit, uint64(v.Units))
	case ChangeUnitPrice:
		item.SetU64(TitleUnitPrice, uint64(v.Units))
	default:
		return ErrInvalidInstructionKind
	}
	return nil
}
