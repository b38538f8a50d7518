// Package itemkey 数据项组合键
//
// 按燃料、装备台号、舱号展开的数据项以组合键保存在报告 items 中。
// 计算引擎与 Excel 导入导出必须使用同一套规则，否则汇总会静默取到 0。
package itemkey

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/newdynamo/SSRPMS/internal/model"
)

// Kind 组合键类型
type Kind int

const (
	KindPlain       Kind = iota // R001
	KindResource                // R030_F01 / R126_L01
	KindUnit                    // R133_2
	KindRunningHour             // RH_R067_E01_1
	KindTank                    // TANK_R091_cargo_3
	KindConsumption             // CONS_E01_1_F01
)

const (
	prefixRunningHour = "RH"
	prefixTank        = "TANK"
	prefixConsumption = "CONS"
	sep               = "_"
)

// Key 解析后的组合键
type Key struct {
	Kind      Kind
	Base      string // R-Code（CONS 为空，固定对应燃料消耗）
	Resource  string // F/L-Code
	Equipment string // E-Code
	Tank      model.TankKind
	Unit      int
}

// String 组合键字符串
func (k Key) String() string {
	switch k.Kind {
	case KindResource:
		return Resource(k.Base, k.Resource)
	case KindUnit:
		return Unit(k.Base, k.Unit)
	case KindRunningHour:
		return RunningHour(k.Base, k.Equipment, k.Unit)
	case KindTank:
		return Tank(k.Base, k.Tank, k.Unit)
	case KindConsumption:
		return Consumption(k.Equipment, k.Unit, k.Resource)
	default:
		return k.Base
	}
}

// Resource 按燃料/滑油展开: R030_F01
func Resource(base, resource string) string {
	return base + sep + resource
}

// Unit 按主机台号展开: R133_2
func Unit(base string, unit int) string {
	return base + sep + strconv.Itoa(unit)
}

// RunningHour 按装备台号展开: RH_R067_E01_1
func RunningHour(base, equipment string, unit int) string {
	return strings.Join([]string{prefixRunningHour, base, equipment, strconv.Itoa(unit)}, sep)
}

// Tank 按舱号展开: TANK_R091_cargo_3
func Tank(base string, kind model.TankKind, unit int) string {
	return strings.Join([]string{prefixTank, base, string(kind), strconv.Itoa(unit)}, sep)
}

// Consumption 装备-台号-燃料消耗: CONS_E01_1_F01
func Consumption(equipment string, unit int, fuel string) string {
	return strings.Join([]string{prefixConsumption, equipment, strconv.Itoa(unit), fuel}, sep)
}

// IsConsumption 是否为消耗矩阵单元格
func IsConsumption(key string) bool {
	return strings.HasPrefix(key, prefixConsumption+sep)
}

// Parse 解析组合键
func Parse(key string) (Key, error) {
	parts := strings.Split(key, sep)
	switch {
	case len(parts) == 1:
		if key == "" {
			return Key{}, fmt.Errorf("empty key")
		}
		return Key{Kind: KindPlain, Base: key}, nil

	case parts[0] == prefixConsumption:
		if len(parts) != 4 {
			return Key{}, fmt.Errorf("invalid consumption key %q", key)
		}
		unit, err := parseUnit(parts[2])
		if err != nil {
			return Key{}, fmt.Errorf("invalid consumption key %q: %w", key, err)
		}
		return Key{Kind: KindConsumption, Equipment: parts[1], Unit: unit, Resource: parts[3]}, nil

	case parts[0] == prefixRunningHour:
		if len(parts) != 4 {
			return Key{}, fmt.Errorf("invalid running hour key %q", key)
		}
		unit, err := parseUnit(parts[3])
		if err != nil {
			return Key{}, fmt.Errorf("invalid running hour key %q: %w", key, err)
		}
		return Key{Kind: KindRunningHour, Base: parts[1], Equipment: parts[2], Unit: unit}, nil

	case parts[0] == prefixTank:
		if len(parts) != 4 {
			return Key{}, fmt.Errorf("invalid tank key %q", key)
		}
		kind := model.TankKind(parts[2])
		if kind != model.TankCargo && kind != model.TankBallast {
			return Key{}, fmt.Errorf("invalid tank kind in %q", key)
		}
		unit, err := parseUnit(parts[3])
		if err != nil {
			return Key{}, fmt.Errorf("invalid tank key %q: %w", key, err)
		}
		return Key{Kind: KindTank, Base: parts[1], Tank: kind, Unit: unit}, nil

	case len(parts) == 2:
		if unit, err := strconv.Atoi(parts[1]); err == nil {
			if unit <= 0 {
				return Key{}, fmt.Errorf("invalid unit in %q", key)
			}
			return Key{Kind: KindUnit, Base: parts[0], Unit: unit}, nil
		}
		return Key{Kind: KindResource, Base: parts[0], Resource: parts[1]}, nil
	}

	return Key{}, fmt.Errorf("unrecognized key %q", key)
}

func parseUnit(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("unit must be positive: %d", n)
	}
	return n, nil
}

// Header Excel 列头："<key> (<label>)"
func Header(key, label string) string {
	if label == "" {
		return key
	}
	return key + " (" + label + ")"
}

// FromHeader 从列头取出组合键（第一个空格之前）
func FromHeader(header string) string {
	header = strings.TrimSpace(header)
	if i := strings.IndexByte(header, ' '); i >= 0 {
		return header[:i]
	}
	return header
}
