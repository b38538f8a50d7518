package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/newdynamo/SSRPMS/internal/model"
	"github.com/newdynamo/SSRPMS/internal/store"
)

// ListShips 船舶列表（原始配置）
// GET /api/ships
func (h *Handler) ListShips(c *gin.Context) {
	ships, err := h.store.Ships()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ships)
}

// SaveShips 覆盖船舶列表
// POST /api/ships
func (h *Handler) SaveShips(c *gin.Context) {
	var ships []*model.Ship
	if err := c.ShouldBindJSON(&ships); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求数据: " + err.Error()})
		return
	}
	if err := h.store.SaveShips(ships); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetEffectiveShip 继承解析后的有效配置
// GET /api/ships/:code/effective
func (h *Handler) GetEffectiveShip(c *gin.Context) {
	ship, err := h.store.EffectiveShip(c.Param("code"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ship)
}

// GetCustomFields 自定义字段
// GET /api/ship-custom-fields
func (h *Handler) GetCustomFields(c *gin.Context) {
	fields, err := h.store.CustomFields()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, fields)
}

// SaveCustomFields 覆盖自定义字段
// POST /api/ship-custom-fields
func (h *Handler) SaveCustomFields(c *gin.Context) {
	var fields []string
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求数据: " + err.Error()})
		return
	}
	if err := h.store.SaveCustomFields(fields); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetCodes 全部代码目录
// GET /api/codes
func (h *Handler) GetCodes(c *gin.Context) {
	codes, err := h.store.Codes()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, codes)
}

// GetEvents 新建报告时的事件选择列表（常用事件在前）
// GET /api/codes/events
func (h *Handler) GetEvents(c *gin.Context) {
	codes, err := h.store.Codes()
	if err != nil {
		abortWithError(c, err)
		return
	}
	events := codes.SortedEvents()
	if events == nil {
		events = []model.EVCode{}
	}
	c.JSON(http.StatusOK, events)
}

// codePrefixes 可自动编号的代码前缀
var codePrefixes = map[string]bool{"M": true, "EV": true, "T": true, "R": true, "E": true, "F": true, "L": true, "W": true}

// NextCode 下一个可用代码
// GET /api/codes/next?prefix=T
func (h *Handler) NextCode(c *gin.Context) {
	prefix := strings.ToUpper(strings.TrimSpace(c.Query("prefix")))
	if !codePrefixes[prefix] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未知的代码前缀: " + prefix})
		return
	}
	codes, err := h.store.Codes()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": model.NextCode(prefix, codes.Codes(prefix))})
}

// catalogValue 目录文档对应的类型化容器
func catalogValue(doc string) interface{} {
	switch doc {
	case store.DocMCodes:
		return &[]model.MCode{}
	case store.DocEVCodes:
		return &[]model.EVCode{}
	case store.DocTCodes:
		return &[]model.TCode{}
	case store.DocRCodes:
		return &[]model.RCode{}
	case store.DocECodes:
		return &[]model.ECode{}
	case store.DocFCodes:
		return &[]model.FCode{}
	case store.DocLCodes:
		return &[]model.LCode{}
	case store.DocWCodes:
		return &[]model.WCode{}
	default:
		return &[]map[string]interface{}{}
	}
}

// GetCatalog 单个目录
// GET /api/<catalog>
func (h *Handler) GetCatalog(doc string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v := catalogValue(doc)
		if err := h.store.LoadDocument(doc, v); err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

// SaveCatalog 覆盖单个目录
// POST /api/<catalog>
func (h *Handler) SaveCatalog(doc string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v := catalogValue(doc)
		if err := c.ShouldBindJSON(v); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求数据: " + err.Error()})
			return
		}
		if err := h.store.SaveDocument(doc, v); err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// GetMarket 市场行情
// GET /api/market
func (h *Handler) GetMarket(c *gin.Context) {
	items, err := h.store.Market()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}
