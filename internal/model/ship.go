package model

// EquipmentConfig 船舶装备配置（同一船舶内按 Code 唯一）
type EquipmentConfig struct {
	Code       string   `json:"code"`                 // E-Code
	Installed  bool     `json:"installed"`            // 是否安装
	Count      int      `json:"count"`                // 台数
	ValidFuels []string `json:"validFuels,omitempty"` // 该装备可使用的燃料 F-Code
}

// ResourceConfig 燃料/滑油/淡水配置
type ResourceConfig struct {
	Code       string   `json:"code"`
	InitialRob *float64 `json:"initialRob,omitempty"` // 交船时存量，仅在无历史报告时使用
}

// InitialRobValue 返回初始存量，未设置时为 0
func (r ResourceConfig) InitialRobValue() float64 {
	if r.InitialRob == nil {
		return 0
	}
	return *r.InitialRob
}

// TankCounts 货舱/压载舱数量
type TankCounts struct {
	Cargo   int `json:"cargo"`
	Ballast int `json:"ballast"`
}

// TankKind 舱类型
type TankKind string

const (
	TankCargo   TankKind = "cargo"
	TankBallast TankKind = "ballast"
)

// Count 返回指定类型的舱数量
func (t *TankCounts) Count(kind TankKind) int {
	if t == nil {
		return 0
	}
	switch kind {
	case TankCargo:
		return t.Cargo
	case TankBallast:
		return t.Ballast
	default:
		return 0
	}
}

// Ship 船舶配置
type Ship struct {
	Yard         string  `json:"yard"`
	HullNo       string  `json:"hullNo"`
	Name         string  `json:"name"`
	Code         string  `json:"code"`
	Class        string  `json:"class"`
	Flag         string  `json:"flag"`
	DeliveryDate string  `json:"deliveryDate"`
	Cargo        string  `json:"cargo"`
	DWT          float64 `json:"dwt"`

	Equipment  []EquipmentConfig `json:"equipment,omitempty"`
	Fuels      []ResourceConfig  `json:"fuels,omitempty"`
	LubeOils   []ResourceConfig  `json:"lubeOils,omitempty"`
	Waters     []ResourceConfig  `json:"waters,omitempty"`
	TankCounts *TankCounts       `json:"tankCounts,omitempty"`

	// ConfigSourceShipID 非空时，结构配置（装备、燃料等）取自该船舶（按 Code）
	ConfigSourceShipID string `json:"configSourceShipId,omitempty"`

	// CustomValues 自定义字段取值（Key 为全局自定义字段名）
	CustomValues map[string]string `json:"customValues,omitempty"`
}

// CustomFieldPropellerPitch 螺旋桨螺距自定义字段名
const CustomFieldPropellerPitch = "Propeller Pitch"

// FindEquipment 查找装备配置
func (s *Ship) FindEquipment(code string) (EquipmentConfig, bool) {
	for _, eq := range s.Equipment {
		if eq.Code == code {
			return eq, true
		}
	}
	return EquipmentConfig{}, false
}

// InstalledUnits 返回已安装装备的台数，未安装或未配置时返回 0
func (s *Ship) InstalledUnits(code string) int {
	eq, ok := s.FindEquipment(code)
	if !ok || !eq.Installed || eq.Count < 0 {
		return 0
	}
	return eq.Count
}

// HasWater 判断是否配置了指定淡水类型
func (s *Ship) HasWater(code string) bool {
	for _, w := range s.Waters {
		if w.Code == code {
			return true
		}
	}
	return false
}

// Clone 深拷贝船舶配置
func (s *Ship) Clone() *Ship {
	if s == nil {
		return nil
	}
	out := *s
	if s.Equipment != nil {
		out.Equipment = make([]EquipmentConfig, len(s.Equipment))
		for i, eq := range s.Equipment {
			eq.ValidFuels = append([]string(nil), eq.ValidFuels...)
			out.Equipment[i] = eq
		}
	}
	out.Fuels = cloneResources(s.Fuels)
	out.LubeOils = cloneResources(s.LubeOils)
	out.Waters = cloneResources(s.Waters)
	if s.TankCounts != nil {
		tc := *s.TankCounts
		out.TankCounts = &tc
	}
	if s.CustomValues != nil {
		out.CustomValues = make(map[string]string, len(s.CustomValues))
		for k, v := range s.CustomValues {
			out.CustomValues[k] = v
		}
	}
	return &out
}

func cloneResources(in []ResourceConfig) []ResourceConfig {
	if in == nil {
		return nil
	}
	out := make([]ResourceConfig, len(in))
	for i, r := range in {
		if r.InitialRob != nil {
			v := *r.InitialRob
			r.InitialRob = &v
		}
		out[i] = r
	}
	return out
}
