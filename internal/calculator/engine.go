// Package calculator 报告派生计算
//
// Engine.Derive 在一次同步调用中按固定顺序完成全部自动计算，输入草稿不会被修改，
// 对同一输入重复调用结果一致。
package calculator

import (
	"errors"
	"time"

	"github.com/newdynamo/SSRPMS/internal/model"
)

// DefaultNoonHour 正午报告默认时刻
const DefaultNoonHour = 12

// Options 引擎选项
type Options struct {
	NoonHour int              // 正午任务固定的小时
	Now      func() time.Time // 时钟，测试时可替换
}

// Engine 派生计算引擎
type Engine struct {
	codes    *model.CodeData
	noonHour int
	now      func() time.Time
}

// NewEngine 创建引擎
func NewEngine(codes *model.CodeData, opts Options) *Engine {
	e := &Engine{codes: codes, noonHour: opts.NoonHour, now: opts.Now}
	if e.noonHour <= 0 || e.noonHour > 23 {
		e.noonHour = DefaultNoonHour
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// DeriveInput 派生计算输入
type DeriveInput struct {
	Draft    *model.Report   `json:"draft"`
	Ship     *model.Ship     `json:"-"` // 已解析的有效配置
	Previous *model.Report   `json:"previous,omitempty"`
	Reports  []*model.Report `json:"-"` // Previous 为空时用于查找上一报告
	EditID   string          `json:"editId,omitempty"`

	OneEngineOperation bool `json:"oneEngineOperation"`

	// ChangedCode 本次编辑的 T-Code/R-Code（可为空），ChangedValue 为其新值
	ChangedCode  string `json:"changedCode,omitempty"`
	ChangedValue string `json:"changedValue,omitempty"`
}

// DeriveResult 派生计算结果
type DeriveResult struct {
	Draft    *model.Report `json:"draft"`
	Previous *model.Report `json:"previous"`
	Layout   *Layout       `json:"layout,omitempty"`
}

// ErrNoDraft 缺少草稿
var ErrNoDraft = errors.New("draft report is required")

// Derive 单次有序派生：
// 船名 → 事件时间同步与 T46 → LT/UTC/ZD → 上一报告 → 消耗汇总 → 燃料/滑油/淡水存量 → 主机里程与滑失率 → 作业时间
func (e *Engine) Derive(in DeriveInput) (*DeriveResult, error) {
	if in.Draft == nil {
		return nil, ErrNoDraft
	}

	draft := in.Draft.Clone()
	if draft.Items == nil {
		draft.Items = model.Items{}
	}
	if draft.Tasks == nil {
		draft.Tasks = map[string]string{}
	}
	now := e.now()

	applyChange(draft, in.ChangedCode, in.ChangedValue)

	if in.Ship != nil {
		draft.Items[model.ItemVesselName] = in.Ship.Name
	}
	if in.ChangedCode == model.ItemVoyageNo {
		draft.Items[model.ItemVoyageNo] = NormalizeVoyageNo(draft.Items[model.ItemVoyageNo])
	}

	// 编辑数据项时以编辑值为准，不从任务时间回填 LT
	normalizeNoonTasks(draft, e.codes, e.noonHour)
	if in.ChangedCode == "" || isTaskCode(in.ChangedCode) {
		SyncEventTime(draft, e.codes, now, e.noonHour)
	}

	ReconcileTime(draft.Items, in.ChangedCode)

	prev := in.Previous
	if prev == nil {
		prev = PreviousReport(in.Reports, in.Ship, DraftEventTime(draft, now), in.EditID)
	}
	if ev, ok := e.codes.FindEvent(draft.EVCode); ok && containsCode(ev.ValidTCodes, model.TaskLastEvent) {
		draft.Tasks[model.TaskLastEvent] = LastEventSummary(prev)
	}

	if in.Ship != nil {
		rollupConsumption(draft.Items, in.Ship)
		rollupFuel(draft.Items, in.Ship, prev)
		rollupLube(draft.Items, in.Ship, prev)
		rollupWater(draft.Items, in.Ship, prev)
		calculateMileage(draft.Items, in.Ship, prev, resolveMileageCodes(e.codes), in.OneEngineOperation)
	}
	calculateOperationTime(draft.Items, prev)

	result := &DeriveResult{Draft: draft, Previous: prev}
	if layout, ok := ExpandLayout(e.codes, in.Ship, draft.EVCode, prev); ok {
		result.Layout = layout
	}
	return result, nil
}

// applyChange 写入本次编辑的值（T-Code 写入 tasks，其余写入 items）
func applyChange(draft *model.Report, code, value string) {
	if code == "" {
		return
	}
	if isTaskCode(code) {
		draft.Tasks[code] = value
		return
	}
	draft.Items[code] = value
}

// isTaskCode T 加数字开头（区别于 TANK_ 组合键）
func isTaskCode(code string) bool {
	return len(code) > 1 && code[0] == 'T' && isDigit(rune(code[1]))
}

func containsCode(list []string, code string) bool {
	for _, c := range list {
		if c == code {
			return true
		}
	}
	return false
}
