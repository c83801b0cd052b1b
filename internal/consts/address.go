package consts

// Base58 地址常量（可读性高，适合配置与日志使用）
const (
	//  Programs
	SystemProgramStr          = "11111111111111111111111111111111"
	ComputeBudgetProgramIdStr = "ComputeBudget111111111111111111111111111111"
)
