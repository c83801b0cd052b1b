package consts

// 链下消息（offchain message）相关常量
const (
	// OffchainSigningDomain 链下消息固定前缀 "\xffsolana offchain"
	OffchainSigningDomain = "\xffsolana offchain"

	// MaxOffchainMessageLength 支持的最大链下消息长度（含消息头）
	// PACKET_DATA_SIZE(1232) - 签名域(16) - 版本(1) - 格式(1) - 长度(2)
	MaxOffchainMessageLength = 1232 - 16 - 1 - 3

	// SOLDecimals lamports 到 SOL 的精度
	SOLDecimals = 9
)
