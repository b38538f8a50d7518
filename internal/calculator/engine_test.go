package calculator

import (
	"reflect"
	"testing"
	"time"

	"github.com/newdynamo/SSRPMS/internal/model"
)

func rob(v float64) *float64 { return &v }

var fixedNow = time.Date(2024, 6, 5, 8, 0, 0, 0, time.UTC)

func testCodes() *model.CodeData {
	return &model.CodeData{
		MCodes: []model.MCode{{Code: "M01", Name: "At Sea"}},
		EVCodes: []model.EVCode{
			{
				Code:        "EV01",
				Name:        "Departure",
				MCode:       "M01",
				ValidTCodes: []string{"T02", "T01", "T46"},
				ValidRCodes: []string{
					"R001", "R003", "R004", "R009", "R005", "R013",
					"R030", "R031", "R056", "R122", "R124", "R126",
					"R127", "R123", "R032", "R158",
					"R067", "R091", "R053", "R133", "R037", "R073", "R081", "R200",
				},
			},
			{
				Code:        "EV05",
				Name:        "Noon Report",
				MCode:       "M01",
				ValidTCodes: []string{"T10"},
				ValidRCodes: []string{"R001", "R003"},
			},
		},
		TCodes: []model.TCode{
			{Code: "T01", Name: "SBE", Priority: 2},
			{Code: "T02", Name: "COSP", Priority: 1},
			{Code: "T10", Name: "Noon"},
			{Code: "T46", Name: "Last Event", Priority: 1},
		},
		RCodes: []model.RCode{
			{Code: "R001", Name: "Vessel Name", Group: "Common", Priority: 1},
			{Code: "R003", Name: "LT", Group: "Common", Priority: 2},
			{Code: "R004", Name: "UTC", Group: "Common", Priority: 3},
			{Code: "R005", Name: "Voyage No", Group: "Common", Priority: 4},
			{Code: "R009", Name: "ZD", Group: "Common", Priority: 5},
			{Code: "R013", Name: "Today Distance", Group: "Engine"},
			{Code: "R030", Name: "Fuel ROB", Group: "Consumable"},
			{Code: "R031", Name: "Fuel Cons", Group: "Consumable"},
			{Code: "R056", Name: "Bunkered", Group: "Consumable"},
			{Code: "R122", Name: "LO Supplied", Group: "Consumable"},
			{Code: "R124", Name: "LO Cons", Group: "Consumable"},
			{Code: "R126", Name: "LO ROB", Group: "Consumable"},
			{Code: "R127", Name: "FW ROB", Group: "Consumable"},
			{Code: "R123", Name: "FW Cons", Group: "Consumable"},
			{Code: "R032", Name: "FW Produced", Group: "Consumable"},
			{Code: "R158", Name: "DW ROB", Group: "Consumable"},
			{Code: "R067", Name: "R/H", Group: "Engine"},
			{Code: "R091", Name: "Cargo Temp", Group: "Cargo Monitoring"},
			{Code: "R053", Name: "Ballast Qty", Group: "Weather"},
			{Code: "R133", Name: "Total Revo", Group: "Engine"},
			{Code: "R037", Name: "Start Revo", Group: "Engine"},
			{Code: "R073", Name: "Today Eng.Mile", Group: "Engine"},
			{Code: "R074", Name: "Total Eng.Mile", Group: "Engine"},
			{Code: "R081", Name: "Today Slip", Group: "Engine"},
			{Code: "R200", Name: "Operation Time", Group: "Misc"},
		},
		ECodes: []model.ECode{
			{Code: "E01", Name: "M/E", NumberRange: "1-2"},
			{Code: "E03", Name: "D/G", NumberRange: "1-4"},
		},
		FCodes: []model.FCode{{Code: "F01", Name: "HFO"}, {Code: "F02", Name: "MGO"}},
		LCodes: []model.LCode{{Code: "L01", Name: "MECO"}},
	}
}

func newTestEngine() *Engine {
	return NewEngine(testCodes(), Options{Now: func() time.Time { return fixedNow }})
}

func hfoShip() *model.Ship {
	return &model.Ship{
		Code:     "S1",
		Name:     "OCEAN STAR",
		Fuels:    []model.ResourceConfig{{Code: "F01", InitialRob: rob(100)}},
		LubeOils: []model.ResourceConfig{{Code: "L01", InitialRob: rob(20)}},
		Waters:   []model.ResourceConfig{{Code: "W01", InitialRob: rob(50)}},
	}
}

func derive(t *testing.T, in DeriveInput) *model.Report {
	t.Helper()
	res, err := newTestEngine().Derive(in)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	return res.Draft
}

func TestFuelRobScenarios(t *testing.T) {
	tests := []struct {
		name  string
		prev  *model.Report
		items model.Items
		want  string
	}{
		{
			name:  "无上一报告时取初始存量",
			items: model.Items{"R031_F01": "30", "R056_F01": "10"},
			want:  "80.00",
		},
		{
			name:  "存量不得为负",
			prev:  &model.Report{Items: model.Items{"R001": "OCEAN STAR", "R030_F01": "80.00"}},
			items: model.Items{"R031_F01": "85", "R056_F01": "0"},
			want:  "0.00",
		},
		{
			name:  "非数字输入按 0 处理",
			items: model.Items{"R031_F01": "abc", "R056_F01": ""},
			want:  "100.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := derive(t, DeriveInput{
				Draft:    &model.Report{EVCode: "EV01", Items: tt.items},
				Ship:     hfoShip(),
				Previous: tt.prev,
			})
			if got := draft.Items["R030_F01"]; got != tt.want {
				t.Fatalf("R030_F01 = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRobFloorProperty(t *testing.T) {
	values := []string{"0", "1", "99.5", "1000", "-5"}
	for _, cons := range values {
		for _, supply := range values {
			draft := derive(t, DeriveInput{
				Draft: &model.Report{EVCode: "EV01", Items: model.Items{
					"R031_F01": cons, "R056_F01": supply,
					"R124_L01": cons, "R122_L01": supply,
					"R123": cons, "R032": supply,
				}},
				Ship: hfoShip(),
			})
			for _, key := range []string{"R030_F01", "R126_L01", "R127"} {
				if parseNumber(draft.Items[key]).IsNegative() {
					t.Fatalf("%s negative for cons=%s supply=%s: %s", key, cons, supply, draft.Items[key])
				}
			}
		}
	}
}

func TestLubeAndWaterRob(t *testing.T) {
	ship := hfoShip()
	ship.Waters = append(ship.Waters, model.ResourceConfig{Code: "W09", InitialRob: rob(1)})

	draft := derive(t, DeriveInput{
		Draft: &model.Report{EVCode: "EV01", Items: model.Items{
			"R124_L01": "2.5", "R122_L01": "10",
			"R123": "12", "R032": "3", "R033": "4", "R138": "1",
		}},
		Ship: ship,
	})

	if got := draft.Items["R126_L01"]; got != "27.50" {
		t.Errorf("R126_L01 = %s, want 27.50", got)
	}
	// 50 - 12 + 3 + 4 + 1
	if got := draft.Items["R127"]; got != "46.00" {
		t.Errorf("R127 = %s, want 46.00", got)
	}
	if _, ok := draft.Items["R158"]; ok {
		t.Errorf("water kinds not configured on the ship must not be rolled up")
	}

	prev := &model.Report{Items: model.Items{"R126_L01": "5", "R127": "10"}}
	draft = derive(t, DeriveInput{
		Draft:    &model.Report{EVCode: "EV01", Items: model.Items{"R124_L01": "1"}},
		Ship:     ship,
		Previous: prev,
	})
	if got := draft.Items["R126_L01"]; got != "4.00" {
		t.Errorf("R126_L01 with previous = %s, want 4.00", got)
	}
	if got := draft.Items["R127"]; got != "10.00" {
		t.Errorf("R127 with previous = %s, want 10.00", got)
	}
}

func TestConsumptionAggregation(t *testing.T) {
	ship := hfoShip()
	ship.Fuels = append(ship.Fuels, model.ResourceConfig{Code: "F02", InitialRob: rob(40)})
	ship.Equipment = []model.EquipmentConfig{
		{Code: "E01", Installed: true, Count: 1, ValidFuels: []string{"F01"}},
		{Code: "E03", Installed: true, Count: 2, ValidFuels: []string{"F01", "F02"}},
	}

	draft := derive(t, DeriveInput{
		Draft: &model.Report{EVCode: "EV01", Items: model.Items{
			"CONS_E01_1_F01": "20.5",
			"CONS_E03_1_F01": "1.25",
			"CONS_E03_2_F01": "x",
			"CONS_E03_1_F02": "3",
			"CONS_E03_2_F02": "2",
			"R031_F01":       "999",
		}},
		Ship: ship,
	})

	if got := draft.Items["R031_F01"]; got != "21.75" {
		t.Errorf("R031_F01 = %s, want 21.75", got)
	}
	if got := draft.Items["R031_F02"]; got != "5.00" {
		t.Errorf("R031_F02 = %s, want 5.00", got)
	}
	if got := draft.Items["R030_F01"]; got != "78.25" {
		t.Errorf("R030_F01 = %s, want 78.25", got)
	}
	if got := draft.Items["R030_F02"]; got != "35.00" {
		t.Errorf("R030_F02 = %s, want 35.00", got)
	}
}

func TestConsumptionCellsWithoutEquipment(t *testing.T) {
	tests := []struct {
		name     string
		items    model.Items
		wantCons string
		wantRob  string
	}{
		{"明细汇总", model.Items{"CONS_E01_1_F01": "30"}, "30.00", "70.00"},
		{"明细覆盖直接填写", model.Items{"CONS_E01_1_F01": "12.5", "CONS_E03_2_F01": "2.5", "R031_F01": "40"}, "15.00", "85.00"},
		{"无明细时保留直接填写", model.Items{"R031_F01": "10"}, "10", "90.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := derive(t, DeriveInput{
				Draft: &model.Report{EVCode: "EV01", Items: tt.items},
				Ship:  hfoShip(),
			})
			if got := draft.Items["R031_F01"]; got != tt.wantCons {
				t.Errorf("R031_F01 = %q, want %q", got, tt.wantCons)
			}
			if got := draft.Items["R030_F01"]; got != tt.wantRob {
				t.Errorf("R030_F01 = %q, want %q", got, tt.wantRob)
			}
		})
	}
}

func TestReconcileTime(t *testing.T) {
	tests := []struct {
		name    string
		items   model.Items
		changed string
		key     string
		want    string
	}{
		{"编辑时差", model.Items{"R003": "2024-06-01 12:00", "R009": "9"}, "R009", "R004", "2024-06-01 03:00"},
		{"编辑当地时间", model.Items{"R003": "2024-06-01T02:00", "R009": "5.5"}, "R003", "R004", "2024-05-31 20:30"},
		{"负时差", model.Items{"R003": "2024-06-01 12:00", "R009": "-4"}, "R003", "R004", "2024-06-01 16:00"},
		{"编辑UTC", model.Items{"R003": "2024-06-01 12:00", "R004": "2024-06-01 06:30"}, "R004", "R009", "5.5"},
		{"编辑UTC整数", model.Items{"R003": "2024-06-01 12:00", "R004": "2024-06-01 03:00"}, "R004", "R009", "9"},
		{"负半数向上取整", model.Items{"R003": "2024-06-01 12:00", "R004": "2024-06-01 12:15"}, "R004", "R009", "-0.2"},
		{"正半数向上取整", model.Items{"R003": "2024-06-01 12:15", "R004": "2024-06-01 12:00"}, "R004", "R009", "0.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !ReconcileTime(tt.items, tt.changed) {
				t.Fatalf("expected an update")
			}
			if got := tt.items[tt.key]; got != tt.want {
				t.Fatalf("%s = %s, want %s", tt.key, got, tt.want)
			}
		})
	}
}

func TestReconcileTimeMissingCompanion(t *testing.T) {
	items := model.Items{"R009": "9"}
	if ReconcileTime(items, "R009") {
		t.Fatalf("no LT, nothing to recompute")
	}
	items = model.Items{"R003": "2024-06-01 12:00", "R004": "bad"}
	if ReconcileTime(items, "R004") {
		t.Fatalf("unparseable UTC must not update ZD")
	}
	if items["R009"] != "" {
		t.Fatalf("ZD should stay untouched")
	}
}

func TestZoneDiffRoundTrip(t *testing.T) {
	for _, zd := range []string{"9", "-5", "5.5", "-9.5", "0", "12", "3.3"} {
		items := model.Items{"R003": "2024-02-29 23:45", "R009": zd}
		ReconcileTime(items, "R009")
		items["R009"] = ""
		ReconcileTime(items, "R004")
		if !parseNumber(items["R009"]).Equal(parseNumber(zd)) {
			t.Errorf("round trip for %s gave %s", zd, items["R009"])
		}
	}
}

func TestDeriveTimeSync(t *testing.T) {
	draft := derive(t, DeriveInput{
		Draft: &model.Report{
			EVCode: "EV01",
			Tasks:  map[string]string{"T01": "2024-06-01 12:00", "T02": "2024-06-01 14:00"},
			Items:  model.Items{"R009": "9"},
		},
		Ship: hfoShip(),
	})
	if got := draft.Items["R003"]; got != "2024-06-01 12:00" {
		t.Fatalf("R003 = %s, want the lexically first task", got)
	}
	if got := draft.Items["R004"]; got != "2024-06-01 03:00" {
		t.Fatalf("R004 = %s", got)
	}
	if got := draft.Items["R001"]; got != "OCEAN STAR" {
		t.Fatalf("R001 = %s", got)
	}
}

func TestDeriveEditedLocalTimeWins(t *testing.T) {
	draft := derive(t, DeriveInput{
		Draft: &model.Report{
			EVCode: "EV01",
			Tasks:  map[string]string{"T01": "2024-06-01 12:00"},
			Items:  model.Items{"R009": "2"},
		},
		Ship:         hfoShip(),
		ChangedCode:  "R003",
		ChangedValue: "2024-06-01 18:00",
	})
	if got := draft.Items["R003"]; got != "2024-06-01 18:00" {
		t.Fatalf("edited LT overwritten: %s", got)
	}
	if got := draft.Items["R004"]; got != "2024-06-01 16:00" {
		t.Fatalf("R004 = %s", got)
	}
}

func TestNoonDefault(t *testing.T) {
	draft := derive(t, DeriveInput{
		Draft: &model.Report{EVCode: "EV05"},
		Ship:  hfoShip(),
	})
	if got := draft.Tasks["T10"]; got != "2024-06-05 12:00" {
		t.Fatalf("T10 = %s", got)
	}
	if got := draft.Items["R003"]; got != "2024-06-05 12:00" {
		t.Fatalf("R003 = %s", got)
	}

	draft = derive(t, DeriveInput{
		Draft:        &model.Report{EVCode: "EV05"},
		Ship:         hfoShip(),
		ChangedCode:  "T10",
		ChangedValue: "2024-06-03T17:45",
	})
	if got := draft.Tasks["T10"]; got != "2024-06-03 12:00" {
		t.Fatalf("noon task must be fixed to 12:00, got %s", got)
	}
}

func TestEventTime(t *testing.T) {
	r := &model.Report{
		Tasks:       map[string]string{"T46": "2020-01-01 00:00", "T05": "2024-06-02 10:00", "T03": "", "T04": "2024-06-03 10:00"},
		SubmittedAt: "2024-07-01T00:00:00Z",
	}
	want := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)
	if got := EventTime(r); !got.Equal(want) {
		t.Fatalf("EventTime = %v, want %v", got, want)
	}

	r = &model.Report{Tasks: map[string]string{"T46": "2020-01-01 00:00"}, SubmittedAt: "2024-07-01T00:00:00Z"}
	if got := EventTime(r); !got.Equal(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("fallback to submittedAt failed: %v", got)
	}

	r = &model.Report{Tasks: map[string]string{"T01": "garbage"}}
	if got := EventTime(r); !got.IsZero() {
		t.Fatalf("invalid time should be zero, got %v", got)
	}
}

func TestPreviousReport(t *testing.T) {
	ship := hfoShip()
	reports := []*model.Report{
		{ID: "a", Items: model.Items{"R001": "OCEAN STAR"}, Tasks: map[string]string{"T01": "2024-06-01 00:00"}},
		{ID: "b", Items: model.Items{"R001": "OCEAN STAR"}, Tasks: map[string]string{"T01": "2024-06-03 00:00"}},
		{ID: "c", Items: model.Items{"R001": "OTHER"}, Tasks: map[string]string{"T01": "2024-06-04 00:00"}},
		{ID: "d", Items: model.Items{"R001": "OCEAN STAR"}, Tasks: map[string]string{"T01": "2024-06-05 00:00"}},
		{ID: "e", Items: model.Items{"R001": "OCEAN STAR"}, Tasks: map[string]string{"T01": "bad"}},
	}
	at := time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC)

	if got := PreviousReport(reports, ship, at, ""); got == nil || got.ID != "b" {
		t.Fatalf("expected b, got %+v", got)
	}
	if got := PreviousReport(reports, ship, at, "b"); got == nil || got.ID != "a" {
		t.Fatalf("expected a when b is being edited, got %+v", got)
	}
	// 严格早于
	if got := PreviousReport(reports, ship, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), ""); got == nil || got.ID != "a" {
		t.Fatalf("expected a, got %+v", got)
	}
	if got := PreviousReport(reports[2:3], ship, at, ""); got != nil {
		t.Fatalf("other ships must be ignored, got %+v", got)
	}
}

func TestDeriveUsesReportSet(t *testing.T) {
	reports := []*model.Report{
		{ID: "old", EVCode: "EV01", Items: model.Items{"R001": "OCEAN STAR", "R030_F01": "60"}, Tasks: map[string]string{"T01": "2024-06-01 00:00"}},
	}
	res, err := newTestEngine().Derive(DeriveInput{
		Draft:   &model.Report{EVCode: "EV01", Items: model.Items{"R003": "2024-06-02 00:00", "R031_F01": "10"}},
		Ship:    hfoShip(),
		Reports: reports,
	})
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if res.Previous == nil || res.Previous.ID != "old" {
		t.Fatalf("previous report not resolved")
	}
	if got := res.Draft.Items["R030_F01"]; got != "50.00" {
		t.Fatalf("R030_F01 = %s", got)
	}
	if got := res.Draft.Tasks["T46"]; got != "2024-06-01 00:00 (EV01)" {
		t.Fatalf("T46 = %q", got)
	}
}

func multiEngineShip() *model.Ship {
	ship := hfoShip()
	ship.Equipment = []model.EquipmentConfig{{Code: "E01", Installed: true, Count: 2}}
	ship.CustomValues = map[string]string{model.CustomFieldPropellerPitch: "6.5"}
	return ship
}

func TestMultiEngineMileage(t *testing.T) {
	prev := &model.Report{Items: model.Items{"R133_1": "1000"}}
	items := model.Items{"R133_1": "1100", "R133_2": "500", "R013": "300"}

	tests := []struct {
		name      string
		oneEngine bool
		want      string
	}{
		{"平均", false, "325.00"}, // (100 + 0) / 2 * 6.5
		{"单机运行求和", true, "650.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := derive(t, DeriveInput{
				Draft:              &model.Report{EVCode: "EV01", Items: items},
				Ship:               multiEngineShip(),
				Previous:           prev,
				OneEngineOperation: tt.oneEngine,
			})
			if got := draft.Items["R073"]; got != tt.want {
				t.Fatalf("R073 = %s, want %s", got, tt.want)
			}
			if _, ok := draft.Items["R074"]; ok {
				t.Fatalf("total eng.mile is not calculated for multi-engine ships")
			}
		})
	}
}

func TestSingleEngineMileageAndSlip(t *testing.T) {
	ship := hfoShip()
	ship.CustomValues = map[string]string{model.CustomFieldPropellerPitch: "5"}
	prev := &model.Report{Items: model.Items{"R133": "1000"}}

	draft := derive(t, DeriveInput{
		Draft:    &model.Report{EVCode: "EV01", Items: model.Items{"R133": "1050", "R037": "900", "R013": "200"}},
		Ship:     ship,
		Previous: prev,
	})
	if got := draft.Items["R073"]; got != "250.00" {
		t.Errorf("R073 = %s, want 250.00", got)
	}
	if got := draft.Items["R074"]; got != "750.00" {
		t.Errorf("R074 = %s, want 750.00", got)
	}
	// (250 - 200) / 250 * 100
	if got := draft.Items["R081"]; got != "20.00" {
		t.Errorf("R081 = %s, want 20.00", got)
	}

	// 上次计数为 0 时不计算今日里程
	draft = derive(t, DeriveInput{
		Draft:    &model.Report{EVCode: "EV01", Items: model.Items{"R201": "1050"}},
		Ship:     ship,
		Previous: &model.Report{Items: model.Items{"R133": "0"}},
	})
	if _, ok := draft.Items["R073"]; ok {
		t.Errorf("today eng.mile must not be computed without a positive previous counter")
	}
	if got := draft.Items["R074"]; got != "5250.00" {
		t.Errorf("R074 = %s, want 5250.00", got)
	}
}

func TestSlipRequiresDistance(t *testing.T) {
	ship := hfoShip()
	ship.CustomValues = map[string]string{model.CustomFieldPropellerPitch: "0.01"}

	draft := derive(t, DeriveInput{
		Draft:    &model.Report{EVCode: "EV01", Items: model.Items{"R133": "1100"}},
		Ship:     ship,
		Previous: &model.Report{Items: model.Items{"R133": "1000"}},
	})
	if got := draft.Items["R073"]; got != "1.00" {
		t.Fatalf("R073 = %s, want 1.00", got)
	}
	if got, ok := draft.Items["R081"]; ok {
		t.Fatalf("R081 = %q, slip needs an entered distance over ground", got)
	}
}

func TestMileageRequiresPitch(t *testing.T) {
	draft := derive(t, DeriveInput{
		Draft:    &model.Report{EVCode: "EV01", Items: model.Items{"R133": "1050"}},
		Ship:     hfoShip(),
		Previous: &model.Report{Items: model.Items{"R133": "1000"}},
	})
	for _, key := range []string{"R073", "R074", "R081"} {
		if _, ok := draft.Items[key]; ok {
			t.Errorf("%s must stay blank without propeller pitch", key)
		}
	}
}

func TestOperationTime(t *testing.T) {
	tests := []struct {
		name string
		prev model.Items
		cur  model.Items
		want string
	}{
		{"UTC", model.Items{"R004": "2024-06-01 00:00"}, model.Items{"R004": "2024-06-02 06:30"}, "30.50"},
		{"LT减时差", model.Items{"R003": "2024-06-01 09:00", "R009": "9"}, model.Items{"R004": "2024-06-01 12:00"}, "12.00"},
		{"负值忽略", model.Items{"R004": "2024-06-02 00:00"}, model.Items{"R004": "2024-06-01 00:00"}, ""},
		{"无法解析", model.Items{"R003": "2024-06-01 09:00"}, model.Items{"R004": "2024-06-01 12:00"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := tt.cur.Clone()
			calculateOperationTime(items, &model.Report{Items: tt.prev})
			if got := items["R200"]; got != tt.want {
				t.Fatalf("R200 = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDeriveIdempotent(t *testing.T) {
	ship := multiEngineShip()
	ship.Fuels = append(ship.Fuels, model.ResourceConfig{Code: "F02"})
	ship.Equipment[0].ValidFuels = []string{"F01", "F02"}
	reports := []*model.Report{
		{ID: "p", EVCode: "EV01", Items: model.Items{"R001": "OCEAN STAR", "R030_F01": "70", "R133_1": "900", "R133_2": "950", "R004": "2024-05-31 00:00"}, Tasks: map[string]string{"T01": "2024-05-31 09:00"}},
	}
	in := DeriveInput{
		Draft: &model.Report{
			EVCode: "EV01",
			Tasks:  map[string]string{"T01": "2024-06-01 12:00"},
			Items: model.Items{
				"R009": "9", "CONS_E01_1_F01": "5", "CONS_E01_2_F02": "1",
				"R133_1": "1000", "R133_2": "1060", "R013": "600", "R124_L01": "1",
			},
		},
		Ship:    ship,
		Reports: reports,
	}

	engine := newTestEngine()
	first, err := engine.Derive(in)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	in.Draft = first.Draft
	second, err := engine.Derive(in)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if !reflect.DeepEqual(first.Draft, second.Draft) {
		t.Fatalf("second pass changed the draft:\nfirst:  %+v\nsecond: %+v", first.Draft, second.Draft)
	}
	if first.Draft.Items["R031_F01"] != "5.00" || first.Draft.Items["R030_F01"] != "65.00" {
		t.Fatalf("unexpected fuel figures: %+v", first.Draft.Items)
	}
	if first.Draft.Items["R200"] != "27.00" {
		t.Fatalf("R200 = %s", first.Draft.Items["R200"])
	}
}

func TestDeriveDoesNotMutateInput(t *testing.T) {
	draft := &model.Report{EVCode: "EV01", Items: model.Items{"R031_F01": "5"}}
	derive(t, DeriveInput{Draft: draft, Ship: hfoShip()})
	if _, ok := draft.Items["R030_F01"]; ok {
		t.Fatalf("input draft was mutated")
	}
	if _, err := newTestEngine().Derive(DeriveInput{}); err != ErrNoDraft {
		t.Fatalf("expected ErrNoDraft, got %v", err)
	}
}

func TestNormalizeVoyageNo(t *testing.T) {
	tests := map[string]string{
		"123a":   "123-A",
		"123-A":  "123-A",
		"12":     "12",
		"1a2b3":  "12",
		"1234":   "123",
		"045-bx": "045-B",
	}
	for in, want := range tests {
		if got := NormalizeVoyageNo(in); got != want {
			t.Errorf("NormalizeVoyageNo(%q) = %q, want %q", in, got, want)
		}
	}
}
