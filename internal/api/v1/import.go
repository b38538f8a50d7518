package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/newdynamo/SSRPMS/internal/importer"
)

// ImportReports 导入报告 Excel (SSE 流式响应)
// POST /api/reports/import
func (h *Handler) ImportReports(c *gin.Context) {
	uploaded, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未找到上传文件"})
		return
	}

	dir := h.dir("uploads")
	if err := os.MkdirAll(dir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "创建上传目录失败"})
		return
	}
	path := filepath.Join(dir, uuid.NewString()+filepath.Ext(uploaded.Filename))
	if err := c.SaveUploadedFile(uploaded, path); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存文件失败"})
		return
	}
	defer os.Remove(path)

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "不支持流式响应"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	progressChan := importer.NewCoordinator(h.store).Import(importer.ImportOptions{
		FilePath: path,
		Filename: uploaded.Filename,
		DryRun:   c.PostForm("dryRun") == "true",
	})

	// SSE 格式: data: {json}\n\n
	for event := range progressChan {
		eventData, err := json.Marshal(event)
		if err != nil {
			continue
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", eventData)
		flusher.Flush()
	}
}
