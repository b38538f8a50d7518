package calculator

import (
	"fmt"
	"strings"
	"time"

	"github.com/newdynamo/SSRPMS/internal/model"
)

// ReconcileTime 根据被编辑的字段重算 LT/UTC/ZD 中的另一个（UTC = LT − ZD）
//
//   - 编辑 ZD 或 LT，且另一者存在：重算 UTC
//   - 编辑 UTC，且 LT 存在：重算 ZD，保留一位小数
//
// 每次编辑只更新一个关联字段；缺少配对字段时保留原值。返回是否有修改。
func ReconcileTime(items model.Items, changed string) bool {
	if items == nil {
		return false
	}

	lt, ltOK := ParseTime(items[model.ItemLocalTime])
	zdRaw := strings.TrimSpace(items[model.ItemZoneDiff])

	switch changed {
	case model.ItemZoneDiff, model.ItemLocalTime:
		if !ltOK || zdRaw == "" {
			return false
		}
		utc := lt.Add(-hoursDuration(parseNumber(zdRaw)))
		return setItem(items, model.ItemUTC, FormatTime(utc))

	case model.ItemUTC:
		utc, utcOK := ParseTime(items[model.ItemUTC])
		if !ltOK || !utcOK {
			return false
		}
		return setItem(items, model.ItemZoneDiff, formatZoneDiff(durationHours(lt.Sub(utc))))
	}
	return false
}

func setItem(items model.Items, key, value string) bool {
	if items[key] == value {
		return false
	}
	items[key] = value
	return true
}

// 正午报告事件
var noonEvents = map[string]bool{"EV05": true, "EV06": true}

// isNoonTask 正午报告中的正午任务，时间固定为 noonHour:00
func isNoonTask(evCode string, t model.TCode) bool {
	return noonEvents[evCode] && strings.Contains(strings.ToLower(t.Name), "noon")
}

func noonValue(date string, noonHour int) string {
	return fmt.Sprintf("%s %02d:00", date, noonHour)
}

// normalizeNoonTasks 正午任务只保留日期部分，时间固定
func normalizeNoonTasks(draft *model.Report, codes *model.CodeData, noonHour int) {
	ev, ok := codes.FindEvent(draft.EVCode)
	if !ok || !noonEvents[ev.Code] {
		return
	}
	for _, code := range ev.ValidTCodes {
		t, ok := codes.FindTask(code)
		if !ok || !isNoonTask(ev.Code, t) {
			continue
		}
		val := strings.TrimSpace(draft.Tasks[code])
		if val == "" {
			continue
		}
		date := strings.Fields(strings.Replace(val, "T", " ", 1))[0]
		draft.Tasks[code] = noonValue(date, noonHour)
	}
}

// SyncEventTime 将当前事件第一个有值的时间任务同步到 LT (R003)，并按 LT 重算 UTC
//
// 正午报告的正午任务为空时先填入 "<today> noonHour:00"。返回是否有修改。
func SyncEventTime(draft *model.Report, codes *model.CodeData, now time.Time, noonHour int) bool {
	ev, ok := codes.FindEvent(draft.EVCode)
	if !ok {
		return false
	}

	changed := false
	source := ""
	for _, code := range timeTaskCodes(ev.ValidTCodes) {
		t, ok := codes.FindTask(code)
		if !ok {
			continue
		}
		val := strings.TrimSpace(draft.Tasks[code])
		if val == "" && isNoonTask(ev.Code, t) {
			val = noonValue(now.Format("2006-01-02"), noonHour)
			draft.Tasks[code] = val
			changed = true
		}
		if val != "" {
			source = val
			break
		}
	}
	if source == "" {
		return changed
	}

	if draft.Items[model.ItemLocalTime] != source {
		draft.Items[model.ItemLocalTime] = source
		ReconcileTime(draft.Items, model.ItemLocalTime)
		changed = true
	}
	return changed
}

// NormalizeVoyageNo 航次号格式 "NNN-L"：三位数字，可选一个字母后缀
func NormalizeVoyageNo(v string) string {
	var clean []rune
	for _, r := range strings.ToUpper(v) {
		if isDigit(r) || (r >= 'A' && r <= 'Z') {
			clean = append(clean, r)
		}
	}

	var digits []rune
	for i := 0; i < len(clean) && i < 3; i++ {
		if isDigit(clean[i]) {
			digits = append(digits, clean[i])
		}
	}
	out := string(digits)
	if len(digits) == 3 && len(clean) > 3 && clean[3] >= 'A' && clean[3] <= 'Z' {
		out += "-" + string(clean[3])
	}
	return out
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
