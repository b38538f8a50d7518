package calculator

import (
	"sort"
	"strings"
	"time"

	"github.com/newdynamo/SSRPMS/internal/model"
)

// timeTaskCodes 可作为事件时间的任务代码（以 T 开头，排除 T46），按字典序升序
func timeTaskCodes(codes []string) []string {
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		if strings.HasPrefix(c, "T") && c != model.TaskLastEvent {
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}

// primaryTaskValue 第一个非空的时间类任务值
func primaryTaskValue(tasks map[string]string) string {
	keys := make([]string, 0, len(tasks))
	for k := range tasks {
		keys = append(keys, k)
	}
	for _, k := range timeTaskCodes(keys) {
		if v := strings.TrimSpace(tasks[k]); v != "" {
			return v
		}
	}
	return ""
}

// EventTime 报告的有效事件时间
//
// 取字典序第一个有值的时间类任务，否则取提交时间。无法解析时为零值（排在最前）。
func EventTime(r *model.Report) time.Time {
	if r == nil {
		return time.Time{}
	}
	raw := primaryTaskValue(r.Tasks)
	if raw == "" {
		raw = r.SubmittedAt
	}
	t, _ := ParseTime(raw)
	return t
}

// EventTimeText 事件时间原文（导出用），与 EventTime 取值来源一致
func EventTimeText(r *model.Report) string {
	if r == nil {
		return ""
	}
	if v := primaryTaskValue(r.Tasks); v != "" {
		return v
	}
	return r.SubmittedAt
}

// DraftEventTime 草稿自身的事件时间：LT (R003)，其次任务时间，都没有时为 now
func DraftEventTime(draft *model.Report, now time.Time) time.Time {
	if draft == nil {
		return now
	}
	if t, ok := ParseTime(draft.Items[model.ItemLocalTime]); ok {
		return t
	}
	if t, ok := ParseTime(primaryTaskValue(draft.Tasks)); ok {
		return t
	}
	return now
}

// PreviousReport 查找同船、有效事件时间严格早于 at 的最近一份报告
//
// 同船按 R001 与船名匹配；excludeID 为正在编辑的报告。没有候选时返回 nil。
func PreviousReport(reports []*model.Report, ship *model.Ship, at time.Time, excludeID string) *model.Report {
	if ship == nil {
		return nil
	}

	var best *model.Report
	var bestTime time.Time
	for _, r := range reports {
		if r == nil || r.ShipName() != ship.Name {
			continue
		}
		if excludeID != "" && r.ID == excludeID {
			continue
		}
		t := EventTime(r)
		if !t.Before(at) {
			continue
		}
		if best == nil || t.After(bestTime) {
			best, bestTime = r, t
		}
	}
	return best
}

// LastEventSummary 上一事件摘要（T46）："<时间> (<事件代码>)"，无上一报告时为空
func LastEventSummary(prev *model.Report) string {
	if prev == nil {
		return ""
	}
	when := prev.SubmittedAt
	if t := EventTime(prev); !t.IsZero() {
		when = FormatTime(t)
	}
	return when + " (" + prev.EVCode + ")"
}
