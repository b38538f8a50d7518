package calculator

import (
	"time"

	"github.com/newdynamo/SSRPMS/internal/model"
)

// ResolveUTC 报告的 UTC 时刻：优先 R004，否则 R003 − R009
func ResolveUTC(items model.Items) (time.Time, bool) {
	if t, ok := ParseTime(items[model.ItemUTC]); ok {
		return t, true
	}
	lt, ok := ParseTime(items[model.ItemLocalTime])
	if !ok || !hasValue(items, model.ItemZoneDiff) {
		return time.Time{}, false
	}
	return lt.Add(-hoursDuration(itemNumber(items, model.ItemZoneDiff))), true
}

// calculateOperationTime R200 = 本次与上次 UTC 之差（小时），为负时忽略
func calculateOperationTime(items model.Items, prev *model.Report) {
	if prev == nil {
		return
	}
	last, ok := ResolveUTC(prev.Items)
	if !ok {
		return
	}
	cur, ok := ResolveUTC(items)
	if !ok {
		return
	}
	diff := cur.Sub(last)
	if diff < 0 {
		return
	}
	items[model.ItemOperationTime] = formatFixed(durationHours(diff))
}
