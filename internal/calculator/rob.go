package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/newdynamo/SSRPMS/internal/itemkey"
	"github.com/newdynamo/SSRPMS/internal/model"
)

// consumptionMode 装备消耗矩阵模式：至少一台已安装装备配置了可用燃料
func consumptionMode(ship *model.Ship) bool {
	if ship == nil {
		return false
	}
	for _, eq := range ship.Equipment {
		if eq.Installed && eq.Count > 0 && len(eq.ValidFuels) > 0 {
			return true
		}
	}
	return false
}

// AggregateConsumption 按燃料汇总全部 CONS_<E>_<n>_<F> 单元格
func AggregateConsumption(items model.Items) map[string]decimal.Decimal {
	totals := map[string]decimal.Decimal{}
	for key, val := range items {
		if !itemkey.IsConsumption(key) {
			continue
		}
		k, err := itemkey.Parse(key)
		if err != nil {
			continue
		}
		totals[k.Resource] = totals[k.Resource].Add(parseNumber(val))
	}
	return totals
}

// rollupConsumption 由 CONS_<E>_<n>_<F> 明细重算 R031_<F>，每次从零开始
//
// 草稿中没有任何明细且船舶不是矩阵模式时，保留直接填写的 R031_<F>。
func rollupConsumption(items model.Items, ship *model.Ship) {
	if !hasConsumptionCells(items) && !consumptionMode(ship) {
		return
	}
	totals := AggregateConsumption(items)
	for _, f := range ship.Fuels {
		items[itemkey.Resource(itemkey.FuelConsumption, f.Code)] = formatFixed(totals[f.Code])
	}
	for fuel, total := range totals {
		items[itemkey.Resource(itemkey.FuelConsumption, fuel)] = formatFixed(total)
	}
}

func hasConsumptionCells(items model.Items) bool {
	for key := range items {
		if itemkey.IsConsumption(key) {
			return true
		}
	}
	return false
}

// previousRob 上一报告的存量，没有时取初始存量
func previousRob(prev *model.Report, key string, res model.ResourceConfig) decimal.Decimal {
	if prev != nil && hasValue(prev.Items, key) {
		return itemNumber(prev.Items, key)
	}
	return decimal.NewFromFloat(res.InitialRobValue())
}

// rollupFuel R030_<F> = max(0, 上次存量 − R031_<F> + R056_<F>)
func rollupFuel(items model.Items, ship *model.Ship, prev *model.Report) {
	for _, f := range ship.Fuels {
		robKey := itemkey.Resource(itemkey.FuelROB, f.Code)
		cons := itemNumber(items, itemkey.Resource(itemkey.FuelConsumption, f.Code))
		bunker := itemNumber(items, itemkey.Resource(itemkey.FuelBunkered, f.Code))

		rob := previousRob(prev, robKey, f).Sub(cons).Add(bunker)
		items[robKey] = formatFixed(floorZero(rob))
	}
}

// rollupLube R126_<L> = max(0, 上次存量 − R124_<L> + R122_<L>)
func rollupLube(items model.Items, ship *model.Ship, prev *model.Report) {
	for _, l := range ship.LubeOils {
		robKey := itemkey.Resource(itemkey.LubeROB, l.Code)
		cons := itemNumber(items, itemkey.Resource(itemkey.LubeConsumption, l.Code))
		supplied := itemNumber(items, itemkey.Resource(itemkey.LubeSupplied, l.Code))

		rob := previousRob(prev, robKey, l).Sub(cons).Add(supplied)
		items[robKey] = formatFixed(floorZero(rob))
	}
}

// rollupWater 淡水存量 = max(0, 上次存量 + Σ加项 − Σ减项)，未定义规则的淡水类型忽略
func rollupWater(items model.Items, ship *model.Ship, prev *model.Report) {
	for _, w := range ship.Waters {
		rule, ok := itemkey.WaterBalances[w.Code]
		if !ok {
			continue
		}

		change := decimal.Zero
		for _, code := range rule.Minus {
			change = change.Sub(itemNumber(items, code))
		}
		for _, code := range rule.Plus {
			change = change.Add(itemNumber(items, code))
		}

		rob := previousRob(prev, rule.ROB, w).Add(change)
		items[rule.ROB] = formatFixed(floorZero(rob))
	}
}
