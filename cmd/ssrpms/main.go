package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/newdynamo/SSRPMS/internal/config"
	"github.com/newdynamo/SSRPMS/internal/server"
	"github.com/newdynamo/SSRPMS/internal/util"
)

var (
	port    = flag.Int("port", 0, "服务端口 (config.toml 优先；仅当未显式配置 port 时生效)")
	devMode = flag.Bool("dev", false, "开发模式")
	dataDir = flag.String("dataDir", "", "数据目录 (覆盖配置文件)")
	backend = flag.String("backend", "", "存储后端 json/sqlite/memory (覆盖配置文件)")
	noOpen  = flag.Bool("no-browser", false, "启动后不自动打开浏览器")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  SSRPMS - 船舶事件报告系统")
	fmt.Println("==========================================")

	// 加载配置
	cfg, info, err := config.LoadConfigWithInfo()
	if err != nil {
		log.Printf("加载配置失败，使用默认配置: %v", err)
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{}
	}

	// 命令行参数覆盖配置
	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}
	if *backend != "" {
		cfg.Data.Backend = *backend
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}
	fmt.Printf("数据目录: %s (%s)\n", srv.DataDir(), cfg.Data.Backend)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	go func() {
		fmt.Printf("服务启动中，监听端口 %d ...\n", cfg.Server.Port)
		if err := srv.Run(addr); err != nil {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	switch {
	case cfg.Server.DevMode:
		fmt.Printf("开发模式: 请访问 %s\n", url)
	case *noOpen || cfg.Server.StaticDir == "":
		fmt.Printf("API 地址: %s/api\n", url)
	default:
		fmt.Printf("正在打开浏览器: %s\n", url)
		if err := util.OpenBrowserWithFallback(url); err != nil {
			fmt.Printf("无法自动打开浏览器，请手动访问: %s\n", url)
		}
	}

	fmt.Println("\n按 Ctrl+C 停止服务...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\n正在关闭服务...")
	if err := srv.Close(); err != nil {
		log.Printf("关闭存储失败: %v", err)
	}
}
