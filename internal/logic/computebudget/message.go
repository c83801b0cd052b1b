package computebudget

import (
	"fmt"

	"ledger-sol-parser/internal/logic/summary"
	"ledger-sol-parser/internal/parser"
	"ledger-sol-parser/internal/pkg/logger"
)

// SummarizeMessage 遍历交易消息中的指令，把 ComputeBudget 指令写入摘要，返回写入条数。
// 其它程序的指令跳过；任一结构错误拒绝整条消息。
func SummarizeMessage(buf []byte, s *summary.Summary) (int, error) {
	c := parser.NewCursor(buf)
	header, err := parser.ReadMessageHeader(c)
	if err != nil {
		return 0, fmt.Errorf("message header: %w", err)
	}

	count := 0
	for i := 0; i < header.InstructionsLength; i++ {
		ix, err := parser.ReadInstruction(c)
		if err != nil {
			return 0, fmt.Errorf("instruction %d: %w", i, err)
		}
		if err := ix.Validate(header); err != nil {
			return 0, fmt.Errorf("instruction %d: %w", i, err)
		}
		if !IsComputeBudgetProgram(*ix.ProgramID(header)) {
			continue
		}

		decoded, err := Parse(ix)
		if err != nil {
			return 0, fmt.Errorf("instruction %d: %w", i, err)
		}
		if err := AddSummary(decoded, s); err != nil {
			return 0, err
		}
		count++
	}

	logger.Debugf("[ComputeBudget] 消息指令数=%d, compute budget 指令数=%d", header.InstructionsLength, count)
	return count, nil
}
