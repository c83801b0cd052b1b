//go:build !siws_small

package siws

const (
	// MaxResources Resources 列表最多收集的条目数，超出部分按普通行继续解析
	MaxResources = 10

	// FieldsCount 可能被切分的字段行数：domain、address、statement、8 个命名字段与 Resources 标记行
	FieldsCount = 12

	// parseAdvanced 是否解析 statement 及其后的命名字段
	parseAdvanced = true
)
