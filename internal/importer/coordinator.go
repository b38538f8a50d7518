package importer

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/newdynamo/SSRPMS/internal/store"
)

// Coordinator 导入协调器
type Coordinator struct {
	store *store.Store
}

// NewCoordinator 创建导入协调器
func NewCoordinator(store *store.Store) *Coordinator {
	return &Coordinator{store: store}
}

// ImportOptions 导入选项
type ImportOptions struct {
	FilePath string
	Filename string // 原始文件名（用于展示），为空时取 FilePath 的文件名
	DryRun   bool   // 只解析不写入
}

// ProgressEvent 进度事件
type ProgressEvent struct {
	Type      string      `json:"type"`      // start/info/warning/done/error
	Message   string      `json:"message"`   // 事件消息
	Data      interface{} `json:"data"`      // 附加数据
	Timestamp time.Time   `json:"timestamp"` // 时间戳
}

// ImportSummary 导入汇总（done 事件的 Data）
type ImportSummary struct {
	Filename  string        `json:"filename"`
	Sheet     string        `json:"sheet"`
	TotalRows int           `json:"totalRows"`
	Parsed    int           `json:"parsed"`
	Created   int           `json:"created"`
	Updated   int           `json:"updated"`
	Errors    []string      `json:"errors"`
	Duration  time.Duration `json:"duration"`
}

// Import 执行导入，返回进度通道
func (c *Coordinator) Import(opts ImportOptions) <-chan ProgressEvent {
	progressChan := make(chan ProgressEvent, 100)

	go func() {
		defer close(progressChan)
		c.doImport(opts, progressChan)
	}()

	return progressChan
}

func (c *Coordinator) doImport(opts ImportOptions, progressChan chan ProgressEvent) {
	startTime := time.Now()
	filename := opts.Filename
	if filename == "" {
		filename = filepath.Base(opts.FilePath)
	}

	c.sendProgress(progressChan, ProgressEvent{
		Type:    "start",
		Message: "开始导入 Excel 文件",
		Data: map[string]string{
			"filename": filename,
		},
		Timestamp: time.Now(),
	})

	file, err := excelize.OpenFile(opts.FilePath)
	if err != nil {
		c.sendFinal(progressChan, ProgressEvent{
			Type:      "error",
			Message:   fmt.Sprintf("打开文件失败: %v", err),
			Timestamp: time.Now(),
		})
		return
	}
	defer file.Close()

	parsed, err := ParseWorkbook(file)
	if err != nil {
		c.sendFinal(progressChan, ProgressEvent{
			Type:      "error",
			Message:   fmt.Sprintf("解析失败: %v", err),
			Timestamp: time.Now(),
		})
		return
	}

	summary := &ImportSummary{
		Filename:  filename,
		Sheet:     parsed.Sheet,
		TotalRows: parsed.TotalRows,
		Parsed:    len(parsed.Reports),
		Errors:    parsed.Errors,
	}

	c.sendProgress(progressChan, ProgressEvent{
		Type:    "info",
		Message: fmt.Sprintf("Sheet \"%s\" 解析出 %d 份报告", parsed.Sheet, len(parsed.Reports)),
		Data: map[string]interface{}{
			"sheet_name": parsed.Sheet,
			"reports":    len(parsed.Reports),
		},
		Timestamp: time.Now(),
	})
	for _, msg := range parsed.Errors {
		c.sendProgress(progressChan, ProgressEvent{
			Type:      "warning",
			Message:   msg,
			Timestamp: time.Now(),
		})
	}

	if !opts.DryRun && len(parsed.Reports) > 0 {
		res, err := c.store.UpsertReports(parsed.Reports)
		if err != nil {
			c.sendFinal(progressChan, ProgressEvent{
				Type:      "error",
				Message:   fmt.Sprintf("保存报告失败: %v", err),
				Timestamp: time.Now(),
			})
			return
		}
		summary.Created = res.Created
		summary.Updated = res.Updated
		for _, id := range res.Skipped {
			msg := fmt.Sprintf("报告 %s 不存在且缺少事件代码，已跳过", id)
			summary.Errors = append(summary.Errors, msg)
			c.sendProgress(progressChan, ProgressEvent{
				Type:      "warning",
				Message:   msg,
				Timestamp: time.Now(),
			})
		}
	}

	summary.Duration = time.Since(startTime)

	c.sendFinal(progressChan, ProgressEvent{
		Type:      "done",
		Message:   fmt.Sprintf("导入完成：新增 %d，更新 %d", summary.Created, summary.Updated),
		Data:      summary,
		Timestamp: time.Now(),
	})
}

// sendProgress 发送进度事件
func (c *Coordinator) sendProgress(ch chan ProgressEvent, event ProgressEvent) {
	select {
	case ch <- event:
	default:
		// 通道已满，丢弃事件
	}
}

// sendFinal 结束事件必须送达
func (c *Coordinator) sendFinal(ch chan ProgressEvent, event ProgressEvent) {
	ch <- event
}
