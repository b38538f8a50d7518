package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	v1 "github.com/newdynamo/SSRPMS/internal/api/v1"
	"github.com/newdynamo/SSRPMS/internal/config"
	"github.com/newdynamo/SSRPMS/internal/store"
)

// Server HTTP服务器
type Server struct {
	router  *gin.Engine
	store   *store.Store
	v1      *v1.Handler
	dataDir string
}

// NewServer 创建服务器：打开存储、按配置备份、注册路由
func NewServer(cfg *config.AppConfig) (*Server, error) {
	devMode := cfg.Server.DevMode
	if !devMode {
		gin.SetMode(gin.ReleaseMode)
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("创建数据目录失败: %w", err)
	}

	st, err := store.Open(cfg.Data.Backend, dataDir)
	if err != nil {
		return nil, fmt.Errorf("打开存储失败: %w", err)
	}
	st.SetDefaultMCode(cfg.Report.DefaultMCode)

	if cfg.Data.AutoBackup {
		if dir, err := st.Backup(filepath.Join(dataDir, "backups")); err != nil {
			log.Printf("启动备份失败: %v", err)
		} else if dir != "" {
			log.Printf("已备份数据到 %s", dir)
		}
	}

	s := &Server{
		router: gin.Default(),
		store:  st,
		v1: v1.NewHandler(st, v1.Options{
			DataDir:  dataDir,
			NoonHour: cfg.Report.NoonHour,
			Limits:   cfg.Excel.Limits(),
		}),
		dataDir: dataDir,
	}

	s.setupRoutes(devMode, cfg.Server.StaticDir)

	return s, nil
}

// setupRoutes 设置路由
func (s *Server) setupRoutes(devMode bool, staticDir string) {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	api := s.router.Group("/api")
	{
		s.v1.RegisterRoutes(api)
	}

	switch {
	case devMode:
		// 开发模式：代理到前端开发服务器
		s.router.NoRoute(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/api/") {
				c.JSON(http.StatusNotFound, gin.H{"error": "接口不存在"})
				return
			}
			c.Redirect(http.StatusTemporaryRedirect, "http://localhost:5173"+c.Request.URL.Path)
		})
	case staticDir != "":
		s.serveStatic(staticDir)
	default:
		s.router.NoRoute(func(c *gin.Context) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		})
	}
}

// serveStatic 前端构建产物：存在的文件直接返回，其余路径回退到 index.html（SPA 路由）
func (s *Server) serveStatic(dir string) {
	index := filepath.Join(dir, "index.html")
	s.router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "接口不存在"})
			return
		}
		p := filepath.Join(dir, filepath.Clean("/"+c.Request.URL.Path))
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			c.File(p)
			return
		}
		c.File(index)
	})
}

// Run 启动服务器
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Handler 返回 http.Handler（用于测试）
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close 关闭存储（每次写入都已落盘，无需额外保存）
func (s *Server) Close() error {
	return s.store.Close()
}

// DataDir 数据目录
func (s *Server) DataDir() string {
	return s.dataDir
}
