package computebudget

import (
	"errors"
	"fmt"

	"github.com/blocto/solana-go-sdk/program/cmptbdgprog"
	"github.com/near/borsh-go"

	"ledger-sol-parser/internal/consts"
	"ledger-sol-parser/internal/pkg/logger"
	"ledger-sol-parser/internal/parser"
	"ledger-sol-parser/internal/types"
)

// 合约源代码:
// https://github.com/solana-program/compute-budget/blob/main/interface/src/instruction.rs

var ErrInvalidInstructionKind = errors.New("compute budget: invalid instruction kind")

// Kind 指令类型标签（指令数据首字节）。
// RequestUnits(0) 已被链上废弃，不在可接受集合内。
type Kind uint8

const (
	KindRequestHeapFrame = Kind(cmptbdgprog.InstructionRequestHeapFrame)
	KindChangeUnitLimit  = Kind(cmptbdgprog.InstructionSetComputeUnitLimit)
	KindChangeUnitPrice  = Kind(cmptbdgprog.InstructionSetComputeUnitPrice)
)

// payloadSize 三种指令的负载均为一个 u32
const payloadSize = 4

// Instruction 解析结果，具体类型为 RequestHeapFrame / ChangeUnitLimit / ChangeUnitPrice 之一
type Instruction interface {
	Kind() Kind
}

type RequestHeapFrame struct {
	Bytes uint32
}

type ChangeUnitLimit struct {
	Units uint32
}

type ChangeUnitPrice struct {
	Units uint32
}

func (RequestHeapFrame) Kind() Kind { return KindRequestHeapFrame }
func (ChangeUnitLimit) Kind() Kind  { return KindChangeUnitLimit }
func (ChangeUnitPrice) Kind() Kind  { return KindChangeUnitPrice }

// IsComputeBudgetProgram 判断程序地址是否为 ComputeBudget 程序
func IsComputeBudgetProgram(programID types.Pubkey) bool {
	return programID == consts.ComputeBudgetProgram
}

// parseKind 读取并校验指令类型；失败时不返回任何类型
func parseKind(c *parser.Cursor) (Kind, error) {
	tag, err := parser.ReadU8(c)
	if err != nil {
		return 0, err
	}
	switch Kind(tag) {
	case KindRequestHeapFrame, KindChangeUnitLimit, KindChangeUnitPrice:
		return Kind(tag), nil
	default:
		// 包含已废弃的 RequestUnits(0)
		return 0, fmt.Errorf("%w: %d", ErrInvalidInstructionKind, tag)
	}
}

// Parse 解析 ComputeBudget 指令数据（程序 ID 由调用方判定）。
// 格式：[0]=指令类型，[1:5]=u32 小端负载；负载之后的多余字节忽略。
func Parse(ix *parser.Instruction) (Instruction, error) {
	c := parser.NewCursor(ix.Data)

	kind, err := parseKind(c)
	if err != nil {
		logger.Warnf("[ComputeBudget] 指令类型非法: %v, data_len=%d", err, len(ix.Data))
		return nil, err
	}

	payload, err := c.Read(payloadSize)
	if err != nil {
		logger.Warnf("[ComputeBudget] 指令数据过短: kind=%d, got=%d, expect>=%d",
			kind, len(ix.Data), 1+payloadSize)
		return nil, err
	}

	switch kind {
	case KindRequestHeapFrame:
		return decodePayload[RequestHeapFrame](payload)
	case KindChangeUnitLimit:
		return decodePayload[ChangeUnitLimit](payload)
	case KindChangeUnitPrice:
		return decodePayload[ChangeUnitPrice](payload)
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidInstructionKind, kind)
	}
}

// decodePayload 按 borsh 布局解码 u32 负载（小端）
func decodePayload[T Instruction](payload []byte) (Instruction, error) {
	var v T
	if err := borsh.Deserialize(&v, payload); err != nil {
		logger.Warnf("[ComputeBudget] 负载解码失败: %v", err)
		return nil, err
	}
	return v, nil
}
