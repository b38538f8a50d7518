package itemkey

import "github.com/newdynamo/SSRPMS/internal/model"

// 燃料相关数据项
const (
	FuelROB         = "R030"
	FuelConsumption = "R031"
	FuelBunkered    = "R056"
	FuelOther1      = "R057"
	FuelOther2      = "R058"

	LubeSupplied    = "R122"
	LubeConsumption = "R124"
	LubeROB         = "R126"

	StartRevCounter = "R037"
	TodayEngMile    = "R073"
	TodaySlip       = "R081"
	TotalRevCounter = "R133"
	StopRevCounter  = "R201"
)

// 装备代码
const (
	EquipmentMainEngine = "E01"
)

// FuelExpandable 按燃料展开的数据项
var FuelExpandable = []string{FuelROB, FuelConsumption, FuelBunkered, FuelOther1, FuelOther2}

// LubeExpandable 按滑油展开的数据项
var LubeExpandable = []string{LubeSupplied, LubeConsumption, LubeROB}

// RunningHourEquipment 运行小时/功率/计数器类数据项 -> 装备
//
// R133/R037 不在此表：转速计数器由主机里程计算直接读取，多主机时按 R133_<n> 展开。
var RunningHourEquipment = map[string][]string{
	"R067": {"E01"},        // M/E R/H
	"R078": {"E01"},        // M/E Power
	"R070": {"E01"},        // Stop.Eng
	"R085": {"E02", "E05"}, // M/BLR / A/BLR R/H
	"R113": {"E03"},        // D/G R/H
	"R114": {"E03"},        // D/G Power
	"R115": {"E09"},        // Shaft Gen R/H
	"R152": {"E09"},        // Shaft Gen Power
	"R155": {"E04"},        // T/G R/H
	"R156": {"E04"},        // T/G Power
	"R112": {"E10"},        // ALS
}

// TankItems 按舱展开的数据项
var TankItems = map[string]model.TankKind{
	"R091": model.TankCargo,   // Cargo Tank Temp
	"R098": model.TankCargo,   // Tank Pressure
	"R151": model.TankCargo,   // Tank Pressure (LNG)
	"R053": model.TankBallast, // Ballast Qty
}

// WaterBalance 淡水存量规则：ROB 项、减项、加项
type WaterBalance struct {
	ROB   string
	Minus []string
	Plus  []string
}

// WaterBalances 按淡水类型的存量规则
var WaterBalances = map[string]WaterBalance{
	"W01": {ROB: "R127", Minus: []string{"R123"}, Plus: []string{"R032", "R033", "R138"}},
	"W02": {ROB: "R158", Minus: []string{"R157"}, Plus: []string{"R159"}},
	"W03": {ROB: "R129", Minus: []string{"R128"}, Plus: []string{"R130"}},
}

// WaterOwner 返回数据项所属淡水类型
func WaterOwner(code string) (string, bool) {
	for w, b := range WaterBalances {
		if b.ROB == code {
			return w, true
		}
		for _, c := range b.Minus {
			if c == code {
				return w, true
			}
		}
		for _, c := range b.Plus {
			if c == code {
				return w, true
			}
		}
	}
	return "", false
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// IsFuelExpandable 是否按燃料展开
func IsFuelExpandable(code string) bool {
	return contains(FuelExpandable, code)
}

// IsLubeExpandable 是否按滑油展开
func IsLubeExpandable(code string) bool {
	return contains(LubeExpandable, code)
}
