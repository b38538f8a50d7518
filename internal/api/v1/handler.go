package v1

import (
	"errors"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/newdynamo/SSRPMS/internal/calculator"
	"github.com/newdynamo/SSRPMS/internal/exporter"
	"github.com/newdynamo/SSRPMS/internal/fleet"
	"github.com/newdynamo/SSRPMS/internal/itemkey"
	"github.com/newdynamo/SSRPMS/internal/model"
	"github.com/newdynamo/SSRPMS/internal/store"
)

// Options 处理器选项
type Options struct {
	DataDir  string         // uploads/ exports/ backups/ 所在目录
	NoonHour int            // 正午报告默认时刻
	Limits   itemkey.Limits // 模板舱数上限
}

// Handler API 处理器
type Handler struct {
	store     *store.Store
	opts      Options
	exporter  *exporter.Exporter
	downloads *exportDownloadStore
}

// NewHandler 创建 API 处理器
func NewHandler(store *store.Store, opts Options) *Handler {
	return &Handler{
		store:     store,
		opts:      opts,
		exporter:  exporter.NewExporter(opts.Limits),
		downloads: newExportDownloadStore(),
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)
	router.POST("/backup", h.Backup)

	// 船舶配置
	router.GET("/ships", h.ListShips)
	router.POST("/ships", h.SaveShips)
	router.GET("/ships/:code/effective", h.GetEffectiveShip)
	router.GET("/ship-custom-fields", h.GetCustomFields)
	router.POST("/ship-custom-fields", h.SaveCustomFields)

	// 代码目录
	router.GET("/codes", h.GetCodes)
	router.GET("/codes/next", h.NextCode)
	router.GET("/codes/events", h.GetEvents)
	for segment, doc := range store.CatalogDocuments {
		router.GET("/"+segment, h.GetCatalog(doc))
		router.POST("/"+segment, h.SaveCatalog(doc))
	}

	// 市场行情
	router.GET("/market", h.GetMarket)

	// 事件报告
	router.GET("/reports", h.ListReports)
	router.POST("/reports", h.CreateReport)
	router.POST("/reports/derive", h.Derive)
	router.GET("/reports/layout", h.GetLayout)
	router.GET("/reports/previous", h.GetPrevious)
	router.GET("/reports/export", h.ExportReports)
	router.POST("/reports/export/stream", h.ExportStream)
	router.GET("/reports/export/download/:token", h.DownloadExport)
	router.GET("/reports/template", h.DownloadTemplate)
	router.POST("/reports/import", h.ImportReports)
	router.GET("/reports/:id", h.GetReport)
	router.PUT("/reports/:id", h.UpdateReport)
	router.DELETE("/reports/:id", h.DeleteReport)

	// 看板
	router.GET("/dashboard", h.GetDashboard)
}

// dir 数据目录下的子目录
func (h *Handler) dir(name string) string {
	return filepath.Join(h.opts.DataDir, name)
}

// engine 按当前代码目录创建派生引擎（目录可能被设置页面修改）
func (h *Handler) engine(codes *model.CodeData) *calculator.Engine {
	return calculator.NewEngine(codes, calculator.Options{NoonHour: h.opts.NoonHour})
}

// resolveShip 按代码或船名解析有效配置
func (h *Handler) resolveShip(codeOrName string) (*model.Ship, error) {
	ship, err := h.store.EffectiveShip(codeOrName)
	if err == nil {
		return ship, nil
	}
	if !errors.Is(err, fleet.ErrShipNotFound) {
		return nil, err
	}
	return h.store.EffectiveShipByName(codeOrName)
}

// statusOf 错误 -> HTTP 状态码
func statusOf(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, fleet.ErrShipNotFound):
		return http.StatusNotFound
	case errors.Is(err, fleet.ErrConfigCycle), errors.Is(err, fleet.ErrInvalidConfig):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(statusOf(err), gin.H{"error": err.Error()})
}
