//go:build siws_small

package siws

// 内存受限的目标只解析 domain 与 address
const (
	MaxResources  = 2
	FieldsCount   = 2
	parseAdvanced = false
)
