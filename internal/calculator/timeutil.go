package calculator

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TimeLayout 报告中日期时间的标准格式
const TimeLayout = "2006-01-02 15:04"

var timeLayouts = []string{
	TimeLayout,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
	time.RFC3339,
}

// ParseTime 解析报告时间，无法解析时返回零值与 false
//
// 不带时区的时间按字面值处理（以 UTC 承载），仅用于相互比较与加减。
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatTime 按 YYYY-MM-DD HH:mm 输出
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// hoursDuration 小时数 -> 时长（精确到秒）
func hoursDuration(h decimal.Decimal) time.Duration {
	return time.Duration(h.Mul(decimal.NewFromInt(3600)).Round(0).IntPart()) * time.Second
}

// durationHours 时长 -> 小时数
func durationHours(d time.Duration) decimal.Decimal {
	return decimal.NewFromInt(int64(d / time.Second)).Div(decimal.NewFromInt(3600))
}
