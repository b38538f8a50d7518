package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/newdynamo/SSRPMS/internal/exporter"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type exportProgressEvent struct {
	Type      string      `json:"type"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// buildContentDisposition 附件下载头（含 RFC 5987 文件名）
func buildContentDisposition(filename string) string {
	return fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", filename, url.PathEscape(filename))
}

// ExportReports 直接下载报告 Excel
// GET /api/reports/export?ship=<船名>
func (h *Handler) ExportReports(c *gin.Context) {
	reports, err := h.store.ListReports(strings.TrimSpace(c.Query("ship")))
	if err != nil {
		abortWithError(c, err)
		return
	}
	codes, err := h.store.Codes()
	if err != nil {
		abortWithError(c, err)
		return
	}

	file, err := h.exporter.Export(reports, codes, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "导出失败: " + err.Error()})
		return
	}
	defer file.Close()

	c.Header("Content-Disposition", buildContentDisposition(exporter.FileName(time.Now())))
	c.Header("Content-Type", xlsxContentType)
	if err := file.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}

// DownloadTemplate 空白导入模板
// GET /api/reports/template
func (h *Handler) DownloadTemplate(c *gin.Context) {
	codes, err := h.store.Codes()
	if err != nil {
		abortWithError(c, err)
		return
	}
	file, err := h.exporter.Template(codes)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "生成模板失败: " + err.Error()})
		return
	}
	defer file.Close()

	c.Header("Content-Disposition", buildContentDisposition(exporter.TemplateFileName))
	c.Header("Content-Type", xlsxContentType)
	if err := file.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}

// ExportStream 导出 Excel（SSE 进度 + 完成后提供下载地址）
// POST /api/reports/export/stream?ship=<船名>
func (h *Handler) ExportStream(c *gin.Context) {
	ship := strings.TrimSpace(c.Query("ship"))
	reports, err := h.store.ListReports(ship)
	if err != nil {
		abortWithError(c, err)
		return
	}
	codes, err := h.store.Codes()
	if err != nil {
		abortWithError(c, err)
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "不支持流式响应"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	send := func(event exportProgressEvent) {
		b, err := json.Marshal(event)
		if err != nil {
			return
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", b)
		flusher.Flush()
	}

	send(exportProgressEvent{
		Type:    "start",
		Message: "开始导出",
		Data: map[string]any{
			"ship":    ship,
			"reports": len(reports),
		},
		Timestamp: time.Now(),
	})

	lastPercent := -1
	progressFn := func(p exporter.ProgressEvent) {
		if p.Percent == lastPercent {
			return
		}
		lastPercent = p.Percent
		send(exportProgressEvent{
			Type:      "progress",
			Message:   p.Stage,
			Data:      map[string]any{"percent": p.Percent},
			Timestamp: time.Now(),
		})
	}

	file, err := h.exporter.Export(reports, codes, progressFn)
	if err != nil {
		send(exportProgressEvent{
			Type:      "error",
			Message:   "导出失败: " + err.Error(),
			Data:      map[string]any{},
			Timestamp: time.Now(),
		})
		return
	}
	defer file.Close()

	dir := h.dir("exports")
	if err := os.MkdirAll(dir, 0755); err != nil {
		send(exportProgressEvent{
			Type:      "error",
			Message:   "创建导出目录失败: " + err.Error(),
			Data:      map[string]any{},
			Timestamp: time.Now(),
		})
		return
	}
	filename := exporter.FileName(time.Now())
	path := filepath.Join(dir, uuid.NewString()+".xlsx")
	if err := file.SaveAs(path); err != nil {
		send(exportProgressEvent{
			Type:      "error",
			Message:   "写入导出文件失败: " + err.Error(),
			Data:      map[string]any{},
			Timestamp: time.Now(),
		})
		_ = os.Remove(path)
		return
	}

	token := h.downloads.put(path, filename, 10*time.Minute)
	send(exportProgressEvent{
		Type:    "done",
		Message: "导出完成",
		Data: map[string]any{
			"percent":     100,
			"downloadUrl": "/api/reports/export/download/" + token,
		},
		Timestamp: time.Now(),
	})
}

// DownloadExport 下载导出的 Excel 文件（一次性）
// GET /api/reports/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	token := c.Param("token")
	item, ok := h.downloads.get(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "下载链接已失效"})
		return
	}

	if _, err := os.Stat(item.filePath); err != nil {
		h.downloads.delete(token)
		c.JSON(http.StatusNotFound, gin.H{"error": "导出文件不存在"})
		return
	}

	c.Header("Content-Disposition", buildContentDisposition(item.filename))
	c.Header("Content-Type", xlsxContentType)
	c.File(item.filePath)

	h.downloads.delete(token)
	_ = os.Remove(item.filePath)
}
