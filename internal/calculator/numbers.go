package calculator

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/newdynamo/SSRPMS/internal/model"
)

// parseNumber 宽松解析数值：空值或无法解析时为 0
func parseNumber(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// itemNumber 读取数据项数值
func itemNumber(items model.Items, key string) decimal.Decimal {
	return parseNumber(items[key])
}

// hasValue 数据项非空
func hasValue(items model.Items, key string) bool {
	return strings.TrimSpace(items[key]) != ""
}

// formatFixed 保留两位小数
func formatFixed(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// floorZero 存量不得为负
func floorZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// formatZoneDiff 时差保留一位小数，去掉多余的 0（"9"、"5.5"、"-3"）
// 恰好在中间时向正无穷取整：-0.25 -> "-0.2"
func formatZoneDiff(d decimal.Decimal) string {
	ten := decimal.NewFromInt(10)
	return d.Mul(ten).Add(decimal.NewFromFloat(0.5)).Floor().Div(ten).String()
}
