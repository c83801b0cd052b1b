package consts

import (
	"ledger-sol-parser/internal/types"
)

// 公钥形式的地址常量（types.Pubkey），用于指令程序 ID 比对
var (
	SystemProgram        types.Pubkey
	ComputeBudgetProgram types.Pubkey
)

// init 自动将 base58 字符串地址转换为 types.Pubkey
func init() {
	SystemProgram = types.PubkeyFromBase58(SystemProgramStr)
	ComputeBudgetProgram = types.PubkeyFromBase58(ComputeBudgetProgramIdStr)
}
