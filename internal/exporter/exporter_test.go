package exporter

import (
	"testing"
	"time"

	"github.com/newdynamo/SSRPMS/internal/itemkey"
	"github.com/newdynamo/SSRPMS/internal/model"
)

func testCodes() *model.CodeData {
	return &model.CodeData{
		TCodes: []model.TCode{{Code: "T01", Name: "EOSP"}},
		RCodes: []model.RCode{
			{Code: "R005", Name: "Voyage No"},
			{Code: "R030", Name: "Fuel ROB"},
			{Code: "R067", Name: "ME R/H"},
		},
		ECodes: []model.ECode{{Code: "E01", Name: "M/E", NumberRange: "1-2"}},
		FCodes: []model.FCode{{Code: "F01", Name: "HFO"}},
	}
}

func indexOf(row []string, v string) int {
	for i, c := range row {
		if c == v {
			return i
		}
	}
	return -1
}

func TestTemplateHeaders(t *testing.T) {
	f, err := NewExporter(itemkey.Limits{}).Template(testCodes())
	if err != nil {
		t.Fatalf("template: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetTemplate)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("template should only contain the header row, got %d rows", len(rows))
	}
	header := rows[0]
	for i, h := range MetadataHeaders() {
		if header[i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, header[i], h)
		}
	}
	for _, want := range []string{
		"T01 (EOSP)",
		"R005 (Voyage No)",
		"R030_F01 (Fuel ROB - HFO)",
		"RH_R067_E01_1 (ME R/H - M/E #1)",
		"RH_R067_E01_2 (ME R/H - M/E #2)",
	} {
		if indexOf(header, want) < 0 {
			t.Errorf("missing header %q", want)
		}
	}
}

func TestExportRows(t *testing.T) {
	reports := []*model.Report{{
		ID:     "r-1",
		MCode:  "M02",
		EVCode: "EV01",
		Tasks:  map[string]string{"T01": "2024-06-01 10:00"},
		Items: model.Items{
			"R001":          "ALPHA",
			"R030_F01":      "80.00",
			"RH_R067_E01_2": "23.5",
			"R999":          "legacy",
		},
	}}

	var last ProgressEvent
	f, err := NewExporter(itemkey.DefaultLimits()).Export(reports, testCodes(), func(p ProgressEvent) { last = p })
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	defer f.Close()

	if last.Percent != 100 {
		t.Fatalf("final progress = %+v", last)
	}

	rows, err := f.GetRows(SheetReports)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d", len(rows))
	}
	header, row := rows[0], rows[1]

	cell := func(h string) string {
		i := indexOf(header, h)
		if i < 0 || i >= len(row) {
			return ""
		}
		return row[i]
	}

	tests := []struct {
		header string
		want   string
	}{
		{HeaderID, "r-1"},
		{HeaderShip, "ALPHA"},
		{HeaderEventCode, "EV01"},
		{HeaderMCode, "M02"},
		{HeaderEventTime, "2024-06-01 10:00"},
		{"T01 (EOSP)", "2024-06-01 10:00"},
		{"R030_F01 (Fuel ROB - HFO)", "80.00"},
		{"RH_R067_E01_2 (ME R/H - M/E #2)", "23.5"},
		{"R999", "legacy"},
	}
	for _, tt := range tests {
		if got := cell(tt.header); got != tt.want {
			t.Errorf("%s = %q, want %q", tt.header, got, tt.want)
		}
	}
	if header[len(header)-1] != "R999" {
		t.Fatalf("unknown keys should be appended last, got %q", header[len(header)-1])
	}
}

func TestFileName(t *testing.T) {
	got := FileName(time.Date(2024, 6, 5, 8, 0, 0, 0, time.UTC))
	if got != "Event_Reports_2024-06-05.xlsx" {
		t.Fatalf("FileName = %s", got)
	}
}
