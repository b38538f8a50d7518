package exporter

import (
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/newdynamo/SSRPMS/internal/calculator"
	"github.com/newdynamo/SSRPMS/internal/itemkey"
	"github.com/newdynamo/SSRPMS/internal/model"
)

// 元数据列（导入时按列头识别）
const (
	HeaderID        = "ID (Do Not Edit)"
	HeaderShip      = "Ship (R001)"
	HeaderEventCode = "Event Code"
	HeaderMCode     = "M Code"
	HeaderEventTime = "Event Time"
)

// 工作表名称
const (
	SheetReports  = "Reports"
	SheetTemplate = "Template"
)

// MetadataHeaders 固定在最前面的元数据列
func MetadataHeaders() []string {
	return []string{HeaderID, HeaderShip, HeaderEventCode, HeaderMCode, HeaderEventTime}
}

// Exporter 报告导出器
//
// 列由代码目录展开得到（任务列、数据项列、各类组合键列），与空白模板一致，
// 导出文件可以直接再导入。
type Exporter struct {
	limits itemkey.Limits
}

// NewExporter 创建导出器，limits 为舱数展开上限
func NewExporter(limits itemkey.Limits) *Exporter {
	if limits.CargoTanks <= 0 || limits.BallastTanks <= 0 {
		def := itemkey.DefaultLimits()
		if limits.CargoTanks <= 0 {
			limits.CargoTanks = def.CargoTanks
		}
		if limits.BallastTanks <= 0 {
			limits.BallastTanks = def.BallastTanks
		}
	}
	return &Exporter{limits: limits}
}

// Export 导出报告到新工作簿（单个 Reports 表）
func (e *Exporter) Export(reports []*model.Report, codes *model.CodeData, progress func(ProgressEvent)) (*excelize.File, error) {
	reportProgress(progress, 0, "准备列")

	cols := itemkey.TemplateColumns(codes, e.limits)
	cols = append(cols, extraColumns(reports, cols)...)

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetReports); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("创建工作表失败: %w", err)
	}

	if err := writeHeader(f, SheetReports, cols); err != nil {
		_ = f.Close()
		return nil, err
	}

	total := len(reports)
	for i, r := range reports {
		row := make([]interface{}, 0, len(cols)+5)
		row = append(row, r.ID, r.ShipName(), r.EVCode, r.MCode, calculator.EventTimeText(r))
		for _, c := range cols {
			if c.Task {
				row = append(row, r.Tasks[c.Key])
				continue
			}
			row = append(row, r.Items[c.Key])
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(SheetReports, cell, &row); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("写入第 %d 行失败: %w", i+2, err)
		}

		if total > 0 && (i+1)%50 == 0 {
			reportProgress(progress, 5+90*(i+1)/total, "写入报告")
		}
	}

	f.SetActiveSheet(0)
	reportProgress(progress, 100, "完成")
	return f, nil
}

// Template 生成空白导入模板（只有列头）
func (e *Exporter) Template(codes *model.CodeData) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetTemplate); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("创建工作表失败: %w", err)
	}
	if err := writeHeader(f, SheetTemplate, itemkey.TemplateColumns(codes, e.limits)); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

// extraColumns 报告中存在但目录展开不到的键，按字典序追加在末尾，避免导出丢数据
func extraColumns(reports []*model.Report, known []itemkey.Column) []itemkey.Column {
	seen := make(map[string]bool, len(known)+1)
	seen[model.ItemVesselName] = true
	for _, c := range known {
		seen[c.Key] = true
	}

	var taskKeys, itemKeys []string
	for _, r := range reports {
		for k := range r.Tasks {
			if !seen[k] && k != "" {
				seen[k] = true
				taskKeys = append(taskKeys, k)
			}
		}
		for k := range r.Items {
			if !seen[k] && k != "" {
				seen[k] = true
				itemKeys = append(itemKeys, k)
			}
		}
	}
	sort.Strings(taskKeys)
	sort.Strings(itemKeys)

	out := make([]itemkey.Column, 0, len(taskKeys)+len(itemKeys))
	for _, k := range taskKeys {
		out = append(out, itemkey.Column{Key: k, Task: true})
	}
	for _, k := range itemKeys {
		out = append(out, itemkey.Column{Key: k})
	}
	return out
}

func writeHeader(f *excelize.File, sheet string, cols []itemkey.Column) error {
	header := make([]interface{}, 0, len(cols)+5)
	for _, h := range MetadataHeaders() {
		header = append(header, h)
	}
	for _, c := range cols {
		header = append(header, c.Header())
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("写入列头失败: %w", err)
	}

	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", style); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 18); err != nil {
		return err
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// FileName 导出文件名：Event_Reports_<日期>.xlsx
func FileName(now time.Time) string {
	return "Event_Reports_" + now.Format("2006-01-02") + ".xlsx"
}

// TemplateFileName 模板文件名
const TemplateFileName = "Event_Report_Template.xlsx"
