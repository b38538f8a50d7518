package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// MCode 区域分类
type MCode struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// EVCode 事件定义
type EVCode struct {
	Code        string   `json:"code"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	MCode       string   `json:"mCode"`
	Priority    int      `json:"priority,omitempty"` // 越小越常用
	ValidTCodes []string `json:"validTCodes"`
	ValidRCodes []string `json:"validRCodes"`
}

// TCode 任务（时间节点）定义
type TCode struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Priority    int    `json:"priority,omitempty"`
	Unit        string `json:"unit,omitempty"`
}

// RCode 数据项定义
type RCode struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type"` // number / string / text
	Unit        string `json:"unit"`
	Priority    int    `json:"priority,omitempty"`
	Group       string `json:"group,omitempty"`
}

// ECode 装备定义
type ECode struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	Applicability string `json:"applicability"`
	NumberRange   string `json:"numberRange"` // 如 "1-4"
}

// FCode 燃料定义
type FCode struct {
	Code   string  `json:"code"`
	Name   string  `json:"name"`
	LCV    float64 `json:"lcv"`
	Remark string  `json:"remark,omitempty"`
}

// LCode 滑油定义
type LCode struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Remark string `json:"remark,omitempty"`
}

// WCode 淡水定义
type WCode struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Unit        string `json:"unit"`
	Priority    int    `json:"priority,omitempty"`
}

// CodeData 全部代码目录
type CodeData struct {
	MCodes  []MCode  `json:"mCodes"`
	EVCodes []EVCode `json:"evCodes"`
	TCodes  []TCode  `json:"tCodes"`
	RCodes  []RCode  `json:"rCodes"`
	ECodes  []ECode  `json:"eCodes"`
	FCodes  []FCode  `json:"fCodes"`
	LCodes  []LCode  `json:"lCodes"`
	WCodes  []WCode  `json:"wCodes"`
}

// DefaultPriority 未设置优先级时的排序权重
const DefaultPriority = 99

// EffectivePriority 0 视为未设置
func EffectivePriority(p int) int {
	if p <= 0 {
		return DefaultPriority
	}
	return p
}

// FindEvent 按代码查找事件
func (c *CodeData) FindEvent(code string) (EVCode, bool) {
	if c == nil {
		return EVCode{}, false
	}
	for _, ev := range c.EVCodes {
		if ev.Code == code {
			return ev, true
		}
	}
	return EVCode{}, false
}

// FindTask 按代码查找任务
func (c *CodeData) FindTask(code string) (TCode, bool) {
	if c == nil {
		return TCode{}, false
	}
	for _, t := range c.TCodes {
		if t.Code == code {
			return t, true
		}
	}
	return TCode{}, false
}

// FindItem 按代码查找数据项
func (c *CodeData) FindItem(code string) (RCode, bool) {
	if c == nil {
		return RCode{}, false
	}
	for _, r := range c.RCodes {
		if r.Code == code {
			return r, true
		}
	}
	return RCode{}, false
}

// FindItemByName 按名称查找数据项，names 按顺序匹配
func (c *CodeData) FindItemByName(names ...string) (RCode, bool) {
	if c == nil {
		return RCode{}, false
	}
	for _, r := range c.RCodes {
		for _, n := range names {
			if r.Name == n {
				return r, true
			}
		}
	}
	return RCode{}, false
}

// EquipmentName 装备显示名，未定义时返回代码本身
func (c *CodeData) EquipmentName(code string) string {
	if c != nil {
		for _, e := range c.ECodes {
			if e.Code == code && e.Name != "" {
				return e.Name
			}
		}
	}
	return code
}

// FuelName 燃料显示名
func (c *CodeData) FuelName(code string) string {
	if c != nil {
		for _, f := range c.FCodes {
			if f.Code == code && f.Name != "" {
				return f.Name
			}
		}
	}
	return code
}

// LubeName 滑油显示名
func (c *CodeData) LubeName(code string) string {
	if c != nil {
		for _, l := range c.LCodes {
			if l.Code == code && l.Name != "" {
				return l.Name
			}
		}
	}
	return code
}

// SortedEvents 按优先级排序的事件列表
func (c *CodeData) SortedEvents() []EVCode {
	if c == nil {
		return nil
	}
	out := append([]EVCode(nil), c.EVCodes...)
	sort.SliceStable(out, func(i, j int) bool {
		return EffectivePriority(out[i].Priority) < EffectivePriority(out[j].Priority)
	})
	return out
}

// NextCode 生成下一个代码：prefix 后接最大编号 + 1，至少两位（"T01"、"R134"）
func NextCode(prefix string, existing []string) string {
	highest := 0
	for _, code := range existing {
		if !strings.HasPrefix(code, prefix) {
			continue
		}
		n, err := strconv.Atoi(code[len(prefix):])
		if err != nil || n < 0 {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s%02d", prefix, highest+1)
}

// Codes 按前缀返回对应目录的全部代码
func (c *CodeData) Codes(prefix string) []string {
	if c == nil {
		return nil
	}
	var out []string
	switch prefix {
	case "M":
		for _, x := range c.MCodes {
			out = append(out, x.Code)
		}
	case "EV":
		for _, x := range c.EVCodes {
			out = append(out, x.Code)
		}
	case "T":
		for _, x := range c.TCodes {
			out = append(out, x.Code)
		}
	case "R":
		for _, x := range c.RCodes {
			out = append(out, x.Code)
		}
	case "E":
		for _, x := range c.ECodes {
			out = append(out, x.Code)
		}
	case "F":
		for _, x := range c.FCodes {
			out = append(out, x.Code)
		}
	case "L":
		for _, x := range c.LCodes {
			out = append(out, x.Code)
		}
	case "W":
		for _, x := range c.WCodes {
			out = append(out, x.Code)
		}
	}
	return out
}
