package v1

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/newdynamo/SSRPMS/internal/calculator"
	"github.com/newdynamo/SSRPMS/internal/fleet"
	"github.com/newdynamo/SSRPMS/internal/model"
	"github.com/newdynamo/SSRPMS/internal/store"
)

// ListReports 报告历史（按事件时间倒序）
// GET /api/reports?ship=<船名>
func (h *Handler) ListReports(c *gin.Context) {
	reports, err := h.store.ListReports(strings.TrimSpace(c.Query("ship")))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, reports)
}

// GetReport 单份报告
// GET /api/reports/:id
func (h *Handler) GetReport(c *gin.Context) {
	r, err := h.store.GetReport(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// CreateReport 提交报告
// POST /api/reports
func (h *Handler) CreateReport(c *gin.Context) {
	var in model.Report
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求数据: " + err.Error()})
		return
	}
	if strings.TrimSpace(in.EVCode) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "evCode is required"})
		return
	}

	r, err := h.store.CreateReport(&in)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "reportId": r.ID, "report": r})
}

// UpdateReport 合并更新报告
// PUT /api/reports/:id
func (h *Handler) UpdateReport(c *gin.Context) {
	var patch model.Report
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求数据: " + err.Error()})
		return
	}
	r, err := h.store.UpdateReport(c.Param("id"), &patch)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "report": r})
}

// DeleteReport 删除报告
// DELETE /api/reports/:id
func (h *Handler) DeleteReport(c *gin.Context) {
	if err := h.store.DeleteReport(c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeriveRequest 派生计算请求
//
// shipCode 为空时按草稿 R001 船名解析船舶；previous 为空时从已保存的报告中查找。
type DeriveRequest struct {
	calculator.DeriveInput
	ShipCode string `json:"shipCode,omitempty"`
}

// Derive 对草稿执行全部自动计算（不保存）
// POST /api/reports/derive
func (h *Handler) Derive(c *gin.Context) {
	var req DeriveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求数据: " + err.Error()})
		return
	}
	if req.Draft == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": calculator.ErrNoDraft.Error()})
		return
	}

	codes, err := h.store.Codes()
	if err != nil {
		abortWithError(c, err)
		return
	}

	in := req.DeriveInput
	switch {
	case req.ShipCode != "":
		ship, err := h.store.EffectiveShip(req.ShipCode)
		if err != nil {
			abortWithError(c, err)
			return
		}
		in.Ship = ship
	case req.Draft.ShipName() != "":
		// 船名未配置时只做与船舶无关的计算
		ship, err := h.store.EffectiveShipByName(req.Draft.ShipName())
		if err != nil && !errors.Is(err, fleet.ErrShipNotFound) {
			abortWithError(c, err)
			return
		}
		in.Ship = ship
	}

	if in.Previous == nil {
		reports, err := h.store.AllReports()
		if err != nil {
			abortWithError(c, err)
			return
		}
		in.Reports = reports
	}

	result, err := h.engine(codes).Derive(in)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetLayout 指定船舶与事件的输入布局
// GET /api/reports/layout?ship=<代码或船名>&ev=<EV-Code>&at=<时间>&exclude=<报告ID>
func (h *Handler) GetLayout(c *gin.Context) {
	evCode := strings.TrimSpace(c.Query("ev"))
	if evCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少参数 ev"})
		return
	}

	codes, err := h.store.Codes()
	if err != nil {
		abortWithError(c, err)
		return
	}

	var ship *model.Ship
	var prev *model.Report
	if name := strings.TrimSpace(c.Query("ship")); name != "" {
		ship, err = h.resolveShip(name)
		if err != nil {
			abortWithError(c, err)
			return
		}
		prev, err = h.layoutPrevious(c, ship)
		if err != nil {
			abortWithError(c, err)
			return
		}
	}

	layout, ok := calculator.ExpandLayout(codes, ship, evCode, prev)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "未定义的事件代码: " + evCode})
		return
	}
	c.JSON(http.StatusOK, layout)
}

// layoutPrevious 布局的上一报告：编辑已有报告时按 at/exclude 取时间上更早的报告，
// 新建报告时取该船最近一份
func (h *Handler) layoutPrevious(c *gin.Context, ship *model.Ship) (*model.Report, error) {
	at, hasAt := calculator.ParseTime(c.Query("at"))
	exclude := strings.TrimSpace(c.Query("exclude"))
	if !hasAt && exclude == "" {
		prev, err := h.store.LatestReport(ship.Name)
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return prev, err
	}

	reports, err := h.store.AllReports()
	if err != nil {
		return nil, err
	}
	if !hasAt {
		at = time.Now().UTC()
	}
	return calculator.PreviousReport(reports, ship, at, exclude), nil
}

// GetPrevious 时间上早于 at 的同船最近一份报告
// GET /api/reports/previous?ship=<代码或船名>&at=<时间>&exclude=<报告ID>
func (h *Handler) GetPrevious(c *gin.Context) {
	name := strings.TrimSpace(c.Query("ship"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少参数 ship"})
		return
	}
	ship, err := h.resolveShip(name)
	if err != nil {
		abortWithError(c, err)
		return
	}
	reports, err := h.store.AllReports()
	if err != nil {
		abortWithError(c, err)
		return
	}

	at, ok := calculator.ParseTime(c.Query("at"))
	if !ok {
		at = time.Now().UTC()
	}
	prev := calculator.PreviousReport(reports, ship, at, c.Query("exclude"))
	if prev == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "没有更早的报告"})
		return
	}
	c.JSON(http.StatusOK, prev)
}
