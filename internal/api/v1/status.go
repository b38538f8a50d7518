package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/newdynamo/SSRPMS/internal/calculator"
	"github.com/newdynamo/SSRPMS/internal/model"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Initialized bool   `json:"initialized"` // 是否已配置船舶和事件目录
	Backend     string `json:"backend"`     // 存储后端
	Ships       int    `json:"ships"`       // 船舶数
	Reports     int    `json:"reports"`     // 报告数
	Events      int    `json:"events"`      // 事件定义数
	LastReport  string `json:"lastReport"`  // 最近报告的事件时间
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	ships, err := h.store.Ships()
	if err != nil {
		abortWithError(c, err)
		return
	}
	reports, err := h.store.ListReports("")
	if err != nil {
		abortWithError(c, err)
		return
	}
	codes, err := h.store.Codes()
	if err != nil {
		abortWithError(c, err)
		return
	}

	resp := StatusResponse{
		Initialized: len(ships) > 0 && len(codes.EVCodes) > 0,
		Backend:     h.store.BackendKind(),
		Ships:       len(ships),
		Reports:     len(reports),
		Events:      len(codes.EVCodes),
	}
	if len(reports) > 0 {
		if t := calculator.EventTime(reports[0]); !t.IsZero() {
			resp.LastReport = calculator.FormatTime(t)
		}
	}
	c.JSON(http.StatusOK, resp)
}

// Backup 立即备份全部文档
// POST /api/backup
func (h *Handler) Backup(c *gin.Context) {
	dir, err := h.store.Backup(h.dir("backups"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "dir": dir})
}

// DashboardEntry 看板：每船最近一次事件
type DashboardEntry struct {
	ShipCode      string        `json:"shipCode"`
	ShipName      string        `json:"shipName"`
	ReportCount   int           `json:"reportCount"`
	LastEvent     string        `json:"lastEvent"`     // EV-Code
	LastEventName string        `json:"lastEventName"` // 事件名称，未定义时为代码
	EventTime     string        `json:"eventTime"`
	Location      string        `json:"location"` // R006
	VoyageNo      string        `json:"voyageNo"` // R005
	Latest        *model.Report `json:"latest,omitempty"`
}

// GetDashboard 看板数据
// GET /api/dashboard?ship=<代码或船名>
func (h *Handler) GetDashboard(c *gin.Context) {
	ships, err := h.store.Ships()
	if err != nil {
		abortWithError(c, err)
		return
	}
	reports, err := h.store.ListReports("")
	if err != nil {
		abortWithError(c, err)
		return
	}
	codes, err := h.store.Codes()
	if err != nil {
		abortWithError(c, err)
		return
	}

	filter := c.Query("ship")
	entries := make([]DashboardEntry, 0, len(ships))
	for _, s := range ships {
		if filter != "" && filter != s.Code && filter != s.Name {
			continue
		}
		entries = append(entries, dashboardEntry(s, reports, codes))
	}
	if filter != "" && len(entries) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "船舶不存在: " + filter})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ships": entries, "generatedAt": time.Now().UTC().Format(time.RFC3339)})
}

// dashboardEntry reports 已按事件时间倒序
func dashboardEntry(s *model.Ship, reports []*model.Report, codes *model.CodeData) DashboardEntry {
	e := DashboardEntry{ShipCode: s.Code, ShipName: s.Name}
	for _, r := range reports {
		if r.ShipName() != s.Name {
			continue
		}
		e.ReportCount++
		if e.Latest != nil {
			continue
		}
		e.Latest = r
		e.LastEvent = r.EVCode
		e.LastEventName = r.EVCode
		if ev, ok := codes.FindEvent(r.EVCode); ok && ev.Name != "" {
			e.LastEventName = ev.Name
		}
		if t := calculator.EventTime(r); !t.IsZero() {
			e.EventTime = calculator.FormatTime(t)
		}
		e.Location = r.Items[model.ItemPosition]
		e.VoyageNo = r.Items[model.ItemVoyageNo]
	}
	return e
}
