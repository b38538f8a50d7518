package calculator

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/newdynamo/SSRPMS/internal/itemkey"
	"github.com/newdynamo/SSRPMS/internal/model"
)

// mileageCodes 主机里程相关数据项代码（按名称在目录中查找）
type mileageCodes struct {
	todayEngMile  string
	totalEngMile  string // 为空时不计算总里程
	todayDistance string
	todaySlip     string
}

func resolveMileageCodes(codes *model.CodeData) mileageCodes {
	mc := mileageCodes{
		todayEngMile:  itemkey.TodayEngMile,
		todayDistance: model.ItemTodayDistance,
		todaySlip:     itemkey.TodaySlip,
	}
	if r, ok := codes.FindItemByName("Today Eng.Mile", "Eng.Mile", "Eng.Mile(STBD)"); ok {
		mc.todayEngMile = r.Code
	}
	if r, ok := codes.FindItemByName("Total Eng.Mile", "Distance", "Distance(STBD)"); ok {
		mc.totalEngMile = r.Code
	}
	if r, ok := codes.FindItemByName("Today Distance"); ok {
		mc.todayDistance = r.Code
	}
	if r, ok := codes.FindItemByName("Today Slip", "Slip"); ok {
		mc.todaySlip = r.Code
	}
	return mc
}

// propellerPitch 螺距（船舶自定义字段），未配置时为 0
func propellerPitch(ship *model.Ship) decimal.Decimal {
	if ship == nil || ship.CustomValues == nil {
		return decimal.Zero
	}
	return parseNumber(ship.CustomValues[model.CustomFieldPropellerPitch])
}

// MultiEngine 多主机（M/E 已安装且台数 > 1）
func MultiEngine(ship *model.Ship) bool {
	return ship != nil && ship.InstalledUnits(itemkey.EquipmentMainEngine) > 1
}

// calculateMileage 主机里程与滑失率
//
// 单主机：今日里程 = (本次计数 − 上次计数) × 螺距，仅在上次计数 > 0 时计算；
// 总里程 = (本次计数 − 起始计数) × 螺距。多主机：各台 R133_<n> 增量求和
// （单机运行）或按台数平均，不计算总里程。螺距未配置时全部跳过。
func calculateMileage(items model.Items, ship *model.Ship, prev *model.Report, codes mileageCodes, oneEngine bool) {
	pitch := propellerPitch(ship)
	if !pitch.IsPositive() {
		return
	}

	if MultiEngine(ship) {
		count := ship.InstalledUnits(itemkey.EquipmentMainEngine)
		sum := decimal.Zero
		for i := 1; i <= count; i++ {
			key := itemkey.Unit(itemkey.TotalRevCounter, i)
			if !hasValue(items, key) {
				continue
			}
			cur := itemNumber(items, key)
			last := decimal.Zero
			if prev != nil {
				last = itemNumber(prev.Items, key)
			}
			if cur.IsPositive() && last.IsPositive() {
				if d := cur.Sub(last); !d.IsNegative() {
					sum = sum.Add(d)
				}
			}
		}

		today := sum
		if !oneEngine {
			today = sum.Div(decimal.NewFromInt(int64(count)))
		}
		items[codes.todayEngMile] = formatFixed(today.Mul(pitch))
	} else {
		curRaw := items[itemkey.TotalRevCounter]
		if !hasValue(items, itemkey.TotalRevCounter) {
			curRaw = items[itemkey.StopRevCounter]
		}
		if strings.TrimSpace(curRaw) == "" {
			return
		}
		cur := parseNumber(curRaw)

		if prev != nil {
			lastRaw := prev.Items[itemkey.TotalRevCounter]
			if !hasValue(prev.Items, itemkey.TotalRevCounter) {
				lastRaw = prev.Items[itemkey.StopRevCounter]
			}
			if last := parseNumber(lastRaw); last.IsPositive() {
				if d := cur.Sub(last); !d.IsNegative() {
					items[codes.todayEngMile] = formatFixed(d.Mul(pitch))
				}
			}
		}

		if codes.totalEngMile != "" {
			start := itemNumber(items, itemkey.StartRevCounter)
			if d := cur.Sub(start); !d.IsNegative() {
				items[codes.totalEngMile] = formatFixed(d.Mul(pitch))
			}
		}
	}

	calculateSlip(items, codes)
}

// calculateSlip 滑失率 = (主机里程 − 对地航程) / 主机里程 × 100
// 主机里程 > 0 且填写了对地航程时计算
func calculateSlip(items model.Items, codes mileageCodes) {
	if !hasValue(items, codes.todayEngMile) || !hasValue(items, codes.todayDistance) {
		return
	}
	eng := itemNumber(items, codes.todayEngMile)
	if !eng.IsPositive() {
		return
	}
	dist := itemNumber(items, codes.todayDistance)
	slip := eng.Sub(dist).Div(eng).Mul(decimal.NewFromInt(100))
	items[codes.todaySlip] = formatFixed(slip)
}
