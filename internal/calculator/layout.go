package calculator

import (
	"sort"
	"strconv"

	"github.com/newdynamo/SSRPMS/internal/itemkey"
	"github.com/newdynamo/SSRPMS/internal/model"
)

// GroupOrder 数据项分组的固定顺序，其余分组按名称排在后面
var GroupOrder = []string{"Common", "Conditions", "Weather", "Cargo Operation", "Cargo Monitoring", "ETC", "Consumable", "Engine"}

const defaultGroup = "Other"

// TaskSpec 任务输入项
type TaskSpec struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	FixedNoon   bool   `json:"fixedNoon,omitempty"` // 时间固定为正午
	ReadOnly    bool   `json:"readOnly,omitempty"`
}

// FieldSpec 数据项输入框
type FieldSpec struct {
	Key      string `json:"key"`
	BaseCode string `json:"baseCode"`
	Label    string `json:"label"`
	Unit     string `json:"unit,omitempty"`
	Type     string `json:"type,omitempty"`
	Group    string `json:"group"`
	ReadOnly bool   `json:"readOnly,omitempty"`
}

// ItemGroup 分组
type ItemGroup struct {
	Name   string      `json:"name"`
	Fields []FieldSpec `json:"fields"`
}

// MatrixCell 消耗矩阵单元格
type MatrixCell struct {
	Fuel     string `json:"fuel"`
	Key      string `json:"key,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`
}

// MatrixRow 一台装备
type MatrixRow struct {
	Equipment string       `json:"equipment"`
	Unit      int          `json:"unit"`
	Label     string       `json:"label"`
	Cells     []MatrixCell `json:"cells"`
}

// ConsumptionMatrix 装备 × 燃料消耗矩阵
type ConsumptionMatrix struct {
	Fuels []string    `json:"fuels"`
	Rows  []MatrixRow `json:"rows"`
}

// FuelStatusRow 燃料存量一览
type FuelStatusRow struct {
	Fuel           string `json:"fuel"`
	Name           string `json:"name"`
	PreviousROB    string `json:"previousRob"`
	ConsumptionKey string `json:"consumptionKey"`
	BunkerKey      string `json:"bunkerKey"`
	ROBKey         string `json:"robKey"`
}

// Layout 某船某事件的输入布局
type Layout struct {
	Event       model.EVCode       `json:"event"`
	Tasks       []TaskSpec         `json:"tasks"`
	Groups      []ItemGroup        `json:"groups"`
	Consumption *ConsumptionMatrix `json:"consumption,omitempty"`
	FuelStatus  []FuelStatusRow    `json:"fuelStatus,omitempty"`
	MultiEngine bool               `json:"multiEngine"` // 显示单机运行开关
}

// 自动计算、只读的数据项
var readOnlyItems = map[string]bool{
	model.ItemOperationTime: true,
	itemkey.TodaySlip:       true,
}

// ExpandLayout 按事件定义与船舶有效配置展开输入项
//
// 运行小时类按已安装装备台数展开，舱类按舱数展开，R031 在矩阵模式下展开为消耗矩阵。
// 未安装、台数为 0 或舱数为 0 时不产生输入项。淡水项仅在船舶配置了对应淡水类型时出现。
func ExpandLayout(codes *model.CodeData, ship *model.Ship, evCode string, prev *model.Report) (*Layout, bool) {
	ev, ok := codes.FindEvent(evCode)
	if !ok {
		return nil, false
	}

	layout := &Layout{Event: ev, MultiEngine: MultiEngine(ship)}
	layout.Tasks = expandTasks(codes, ev)

	grouped := map[string][]model.RCode{}
	fuelStatus := false
	for _, code := range ev.ValidRCodes {
		r, ok := codes.FindItem(code)
		if !ok {
			continue
		}
		switch r.Code {
		case itemkey.FuelROB, itemkey.FuelConsumption, itemkey.FuelBunkered:
			fuelStatus = true
		}
		g := r.Group
		if g == "" {
			g = defaultGroup
		}
		grouped[g] = append(grouped[g], r)
	}

	matrixMode := consumptionMode(ship)
	for _, name := range sortGroups(grouped) {
		items := grouped[name]
		sort.SliceStable(items, func(i, j int) bool {
			return model.EffectivePriority(items[i].Priority) < model.EffectivePriority(items[j].Priority)
		})

		group := ItemGroup{Name: name}
		for _, r := range items {
			group.Fields = append(group.Fields, expandItem(codes, ship, r, name, matrixMode)...)
			if r.Code == itemkey.FuelConsumption && matrixMode && layout.Consumption == nil {
				layout.Consumption = buildMatrix(codes, ship)
			}
		}
		if len(group.Fields) > 0 {
			layout.Groups = append(layout.Groups, group)
		}
	}

	if fuelStatus && ship != nil {
		for _, f := range ship.Fuels {
			robKey := itemkey.Resource(itemkey.FuelROB, f.Code)
			layout.FuelStatus = append(layout.FuelStatus, FuelStatusRow{
				Fuel:           f.Code,
				Name:           codes.FuelName(f.Code),
				PreviousROB:    formatFixed(previousRob(prev, robKey, f)),
				ConsumptionKey: itemkey.Resource(itemkey.FuelConsumption, f.Code),
				BunkerKey:      itemkey.Resource(itemkey.FuelBunkered, f.Code),
				ROBKey:         robKey,
			})
		}
	}

	return layout, true
}

func expandTasks(codes *model.CodeData, ev model.EVCode) []TaskSpec {
	tasks := make([]model.TCode, 0, len(ev.ValidTCodes))
	for _, code := range ev.ValidTCodes {
		if t, ok := codes.FindTask(code); ok {
			tasks = append(tasks, t)
		}
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return model.EffectivePriority(tasks[i].Priority) < model.EffectivePriority(tasks[j].Priority)
	})

	out := make([]TaskSpec, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, TaskSpec{
			Key:         t.Code,
			Label:       t.Name,
			Description: t.Description,
			FixedNoon:   isNoonTask(ev.Code, t),
			ReadOnly:    t.Code == model.TaskLastEvent,
		})
	}
	return out
}

func sortGroups(grouped map[string][]model.RCode) []string {
	rank := func(name string) int {
		for i, g := range GroupOrder {
			if g == name {
				return i
			}
		}
		return len(GroupOrder)
	}

	names := make([]string, 0, len(grouped))
	for name := range grouped {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ri, rj := rank(names[i]), rank(names[j])
		if ri != rj {
			return ri < rj
		}
		return names[i] < names[j]
	})
	return names
}

// expandItem 单个数据项展开为若干输入框
func expandItem(codes *model.CodeData, ship *model.Ship, r model.RCode, group string, matrixMode bool) []FieldSpec {
	field := func(key, label string, readOnly bool) FieldSpec {
		return FieldSpec{
			Key:      key,
			BaseCode: r.Code,
			Label:    label,
			Unit:     r.Unit,
			Type:     r.Type,
			Group:    group,
			ReadOnly: readOnly,
		}
	}

	if w, ok := itemkey.WaterOwner(r.Code); ok {
		if ship == nil || !ship.HasWater(w) {
			return nil
		}
		return []FieldSpec{field(r.Code, r.Name, r.Code == itemkey.WaterBalances[w].ROB)}
	}

	if eqs, ok := itemkey.RunningHourEquipment[r.Code]; ok {
		var out []FieldSpec
		if ship == nil {
			return nil
		}
		for _, eCode := range eqs {
			n := ship.InstalledUnits(eCode)
			for i := 1; i <= n; i++ {
				label := codes.EquipmentName(eCode) + " No." + strconv.Itoa(i) + " " + r.Name
				out = append(out, field(itemkey.RunningHour(r.Code, eCode, i), label, false))
			}
		}
		return out
	}

	if kind, ok := itemkey.TankItems[r.Code]; ok {
		var out []FieldSpec
		if ship == nil {
			return nil
		}
		for i := 1; i <= ship.TankCounts.Count(kind); i++ {
			label := r.Name + " - " + tankLabel(kind) + " Tank No." + strconv.Itoa(i)
			out = append(out, field(itemkey.Tank(r.Code, kind, i), label, false))
		}
		return out
	}

	if itemkey.IsFuelExpandable(r.Code) {
		if ship == nil {
			return nil
		}
		var out []FieldSpec
		for _, f := range ship.Fuels {
			readOnly := r.Code == itemkey.FuelROB || (r.Code == itemkey.FuelConsumption && matrixMode)
			label := r.Name + " - " + codes.FuelName(f.Code)
			out = append(out, field(itemkey.Resource(r.Code, f.Code), label, readOnly))
		}
		return out
	}

	if itemkey.IsLubeExpandable(r.Code) {
		if ship == nil {
			return nil
		}
		var out []FieldSpec
		for _, l := range ship.LubeOils {
			label := r.Name + " - " + codes.LubeName(l.Code)
			out = append(out, field(itemkey.Resource(r.Code, l.Code), label, r.Code == itemkey.LubeROB))
		}
		return out
	}

	if r.Code == itemkey.TotalRevCounter && MultiEngine(ship) {
		var out []FieldSpec
		for i := 1; i <= ship.InstalledUnits(itemkey.EquipmentMainEngine); i++ {
			label := codes.EquipmentName(itemkey.EquipmentMainEngine) + " #" + strconv.Itoa(i) + " " + r.Name
			out = append(out, field(itemkey.Unit(r.Code, i), label, false))
		}
		return out
	}

	return []FieldSpec{field(r.Code, r.Name, readOnlyItems[r.Code])}
}

func tankLabel(kind model.TankKind) string {
	if kind == model.TankCargo {
		return "Cargo"
	}
	return "Ballast"
}

// buildMatrix 行：已安装且配置了燃料的装备 × 台数；列：各装备可用燃料的并集
func buildMatrix(codes *model.CodeData, ship *model.Ship) *ConsumptionMatrix {
	m := &ConsumptionMatrix{}
	seen := map[string]bool{}
	var equipment []model.EquipmentConfig
	for _, eq := range ship.Equipment {
		if !eq.Installed || eq.Count <= 0 || len(eq.ValidFuels) == 0 {
			continue
		}
		equipment = append(equipment, eq)
		for _, f := range eq.ValidFuels {
			if !seen[f] {
				seen[f] = true
				m.Fuels = append(m.Fuels, f)
			}
		}
	}

	for _, eq := range equipment {
		valid := make(map[string]bool, len(eq.ValidFuels))
		for _, f := range eq.ValidFuels {
			valid[f] = true
		}
		for i := 1; i <= eq.Count; i++ {
			row := MatrixRow{
				Equipment: eq.Code,
				Unit:      i,
				Label:     codes.EquipmentName(eq.Code) + " #" + strconv.Itoa(i),
			}
			for _, f := range m.Fuels {
				if valid[f] {
					row.Cells = append(row.Cells, MatrixCell{Fuel: f, Key: itemkey.Consumption(eq.Code, i, f)})
				} else {
					row.Cells = append(row.Cells, MatrixCell{Fuel: f, Disabled: true})
				}
			}
			m.Rows = append(m.Rows, row)
		}
	}
	return m
}
