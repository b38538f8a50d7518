package itemkey

import (
	"strconv"
	"strings"

	"github.com/newdynamo/SSRPMS/internal/model"
)

// Limits 模板展开上限（无具体船舶时使用）
type Limits struct {
	CargoTanks   int
	BallastTanks int
}

// DefaultLimits 默认舱数上限
func DefaultLimits() Limits {
	return Limits{CargoTanks: 24, BallastTanks: 30}
}

// Count 指定舱类型上限
func (l Limits) Count(kind model.TankKind) int {
	switch kind {
	case model.TankCargo:
		return l.CargoTanks
	case model.TankBallast:
		return l.BallastTanks
	default:
		return 0
	}
}

// Column 表格列
type Column struct {
	Key   string
	Label string
	Task  bool // T-Code 列，值写入 report.tasks
}

// Header 列头文本
func (c Column) Header() string {
	return Header(c.Key, c.Label)
}

// MaxUnits 从 ECode.numberRange 取最大台数："1-4" -> 4，"2" -> 2，无法解析时为 1
func MaxUnits(numberRange string) int {
	numberRange = strings.TrimSpace(numberRange)
	if numberRange == "" {
		return 1
	}
	parts := strings.Split(numberRange, "-")
	n, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1]))
	if err != nil || n <= 0 {
		return 1
	}
	return n
}

// TemplateColumns 按全部代码目录生成所有可能的列（任务列在前，数据项随后）
func TemplateColumns(codes *model.CodeData, limits Limits) []Column {
	if codes == nil {
		return nil
	}

	eMax := make(map[string]int, len(codes.ECodes))
	for _, e := range codes.ECodes {
		eMax[e.Code] = MaxUnits(e.NumberRange)
	}
	unitsOf := func(eCode string) int {
		if n, ok := eMax[eCode]; ok {
			return n
		}
		return 1
	}

	cols := make([]Column, 0, len(codes.TCodes)+len(codes.RCodes))
	for _, t := range codes.TCodes {
		cols = append(cols, Column{Key: t.Code, Label: t.Name, Task: true})
	}

	for _, r := range codes.RCodes {
		if eqs, ok := RunningHourEquipment[r.Code]; ok {
			for _, eCode := range eqs {
				eName := codes.EquipmentName(eCode)
				for i := 1; i <= unitsOf(eCode); i++ {
					cols = append(cols, Column{
						Key:   RunningHour(r.Code, eCode, i),
						Label: r.Name + " - " + eName + " #" + strconv.Itoa(i),
					})
				}
			}
			continue
		}

		if kind, ok := TankItems[r.Code]; ok {
			for i := 1; i <= limits.Count(kind); i++ {
				cols = append(cols, Column{
					Key:   Tank(r.Code, kind, i),
					Label: r.Name + " - " + string(kind) + " #" + strconv.Itoa(i),
				})
			}
			continue
		}

		if r.Code == FuelConsumption {
			for _, f := range codes.FCodes {
				cols = append(cols, Column{Key: Resource(r.Code, f.Code), Label: r.Name + " - " + f.Name})
			}
			for _, e := range codes.ECodes {
				for i := 1; i <= unitsOf(e.Code); i++ {
					for _, f := range codes.FCodes {
						cols = append(cols, Column{
							Key:   Consumption(e.Code, i, f.Code),
							Label: r.Name + " - " + e.Name + " #" + strconv.Itoa(i) + " - " + f.Name,
						})
					}
				}
			}
			continue
		}

		if IsFuelExpandable(r.Code) {
			for _, f := range codes.FCodes {
				cols = append(cols, Column{Key: Resource(r.Code, f.Code), Label: r.Name + " - " + f.Name})
			}
			continue
		}

		if IsLubeExpandable(r.Code) {
			for _, l := range codes.LCodes {
				cols = append(cols, Column{Key: Resource(r.Code, l.Code), Label: r.Name + " - " + l.Name})
			}
			continue
		}

		cols = append(cols, Column{Key: r.Code, Label: r.Name})
		if r.Code == TotalRevCounter {
			for i := 1; i <= unitsOf(EquipmentMainEngine); i++ {
				cols = append(cols, Column{
					Key:   Unit(r.Code, i),
					Label: r.Name + " - " + codes.EquipmentName(EquipmentMainEngine) + " #" + strconv.Itoa(i),
				})
			}
		}
	}

	return cols
}
