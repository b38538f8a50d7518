package importer

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/newdynamo/SSRPMS/internal/exporter"
	"github.com/newdynamo/SSRPMS/internal/itemkey"
	"github.com/newdynamo/SSRPMS/internal/model"
)

// ParseResult 工作簿解析结果
type ParseResult struct {
	Sheet     string
	TotalRows int // 数据行数（不含列头）
	Reports   []*model.Report
	Errors    []string
}

// ParseWorkbook 解析第一个工作表
func ParseWorkbook(f *excelize.File) (*ParseResult, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("工作簿中没有工作表")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("读取 Sheet %s 失败: %w", sheets[0], err)
	}
	res := ParseRows(rows)
	res.Sheet = sheets[0]
	return res, nil
}

// columnKind 列归属
type columnKind int

const (
	columnIgnored columnKind = iota
	columnID
	columnShip
	columnEventCode
	columnMCode
	columnTask
	columnItem
)

type column struct {
	kind columnKind
	key  string
}

// classify 按列头判断列归属：元数据列按全名匹配，其余取第一个空格前的键
func classify(header string) column {
	header = strings.TrimSpace(header)
	switch header {
	case exporter.HeaderID:
		return column{kind: columnID}
	case exporter.HeaderShip:
		return column{kind: columnShip, key: model.ItemVesselName}
	case exporter.HeaderEventCode:
		return column{kind: columnEventCode}
	case exporter.HeaderMCode:
		return column{kind: columnMCode}
	case exporter.HeaderEventTime, "":
		return column{kind: columnIgnored}
	}

	key := itemkey.FromHeader(header)
	switch {
	case isTaskKey(key):
		return column{kind: columnTask, key: key}
	case isItemKey(key):
		return column{kind: columnItem, key: key}
	default:
		return column{kind: columnIgnored}
	}
}

// isTaskKey T 后跟数字，如 T01、T46
func isTaskKey(key string) bool {
	if len(key) < 2 || key[0] != 'T' || strings.Contains(key, "_") {
		return false
	}
	for i := 1; i < len(key); i++ {
		if key[i] < '0' || key[i] > '9' {
			return false
		}
	}
	return true
}

func isItemKey(key string) bool {
	for _, p := range []string{"RH_", "CONS_", "TANK_"} {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return len(key) > 1 && key[0] == 'R' && key[1] >= '0' && key[1] <= '9'
}

// ParseRows 第一行为列头，其余每行一份报告；空单元格不写入
func ParseRows(rows [][]string) *ParseResult {
	res := &ParseResult{Reports: []*model.Report{}}
	if len(rows) == 0 {
		return res
	}

	cols := make([]column, len(rows[0]))
	for i, h := range rows[0] {
		cols[i] = classify(h)
	}

	for n, row := range rows[1:] {
		rowNum := n + 2
		if isBlankRow(row) {
			continue
		}
		res.TotalRows++

		r := &model.Report{Tasks: map[string]string{}, Items: model.Items{}}
		for i, cell := range row {
			if i >= len(cols) {
				break
			}
			value := strings.TrimSpace(cell)
			if value == "" {
				continue
			}
			c := cols[i]
			switch c.kind {
			case columnID:
				r.ID = value
			case columnEventCode:
				r.EVCode = value
			case columnMCode:
				r.MCode = value
			case columnShip, columnItem:
				r.Items[c.key] = value
			case columnTask:
				r.Tasks[c.key] = value
			}
		}

		if r.ID == "" && r.EVCode == "" {
			res.Errors = append(res.Errors, fmt.Sprintf("第 %d 行缺少事件代码，已跳过", rowNum))
			continue
		}
		// 空映射置 nil，合并更新时保留原值
		if len(r.Tasks) == 0 {
			r.Tasks = nil
		}
		if len(r.Items) == 0 {
			r.Items = nil
		}
		res.Reports = append(res.Reports, r)
	}
	return res
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
