package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/newdynamo/SSRPMS/internal/itemkey"
)

// AppConfig 应用配置
type AppConfig struct {
	Server ServerConfig `toml:"server"`
	Data   DataConfig   `toml:"data"`
	Report ReportConfig `toml:"report"`
	Excel  ExcelConfig  `toml:"excel"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port      int    `toml:"port"`
	DevMode   bool   `toml:"dev_mode"`
	StaticDir string `toml:"static_dir"` // 前端构建产物目录，为空时不提供页面
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir    string `toml:"data_dir"`
	Backend    string `toml:"backend"` // json / sqlite / memory
	AutoBackup bool   `toml:"auto_backup"`
}

// ReportConfig 报告计算配置
type ReportConfig struct {
	DefaultMCode string `toml:"default_m_code"`
	NoonHour     int    `toml:"noon_hour"`
}

// ExcelConfig Excel 模板展开上限
type ExcelConfig struct {
	MaxCargoTanks   int `toml:"max_cargo_tanks"`
	MaxBallastTanks int `toml:"max_ballast_tanks"`
}

// Limits 转换为模板展开上限
func (e ExcelConfig) Limits() itemkey.Limits {
	return itemkey.Limits{CargoTanks: e.MaxCargoTanks, BallastTanks: e.MaxBallastTanks}
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string // 实际读取的配置文件，未找到时为空
	PortSpecified bool
}

// 环境变量前缀
const envPrefix = "SSRPMS_"

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	limits := itemkey.DefaultLimits()
	return &AppConfig{
		Server: ServerConfig{
			Port:    8500,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir:    "data",
			Backend:    "json",
			AutoBackup: true,
		},
		Report: ReportConfig{
			DefaultMCode: "M01",
			NoonHour:     12,
		},
		Excel: ExcelConfig{
			MaxCargoTanks:   limits.CargoTanks,
			MaxBallastTanks: limits.BallastTanks,
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfigWithInfo 从可执行文件同目录的 config.toml 加载配置，再叠加 .env 与环境变量
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}
	return LoadFrom(exeDir)
}

// LoadFrom 从指定目录加载 config.toml 与 .env
func LoadFrom(dir string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{}
	config := DefaultConfig()

	// .env 不覆盖已存在的环境变量
	_ = godotenv.Load(filepath.Join(dir, ".env"))

	configPath := filepath.Join(dir, "config.toml")
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		info.Path = configPath
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, err
		}
	case os.IsNotExist(err):
		// 配置文件不存在，使用默认配置
	default:
		return nil, info, err
	}

	if applyEnv(config) {
		info.PortSpecified = info.PortSpecified || os.Getenv(envPrefix+"PORT") != ""
	}
	return config, info, nil
}

// applyEnv SSRPMS_* 环境变量覆盖，返回是否有覆盖
func applyEnv(config *AppConfig) bool {
	applied := false
	str := func(name string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(envPrefix + name)); v != "" {
			*dst = v
			applied = true
		}
	}
	num := func(name string, dst *int) {
		if v := strings.TrimSpace(os.Getenv(envPrefix + name)); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
				applied = true
			}
		}
	}
	flag := func(name string, dst *bool) {
		if v := strings.TrimSpace(os.Getenv(envPrefix + name)); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
				applied = true
			}
		}
	}

	num("PORT", &config.Server.Port)
	flag("DEV_MODE", &config.Server.DevMode)
	str("STATIC_DIR", &config.Server.StaticDir)
	str("DATA_DIR", &config.Data.DataDir)
	str("BACKEND", &config.Data.Backend)
	flag("AUTO_BACKUP", &config.Data.AutoBackup)
	str("DEFAULT_M_CODE", &config.Report.DefaultMCode)
	num("NOON_HOUR", &config.Report.NoonHour)
	num("MAX_CARGO_TANKS", &config.Excel.MaxCargoTanks)
	num("MAX_BALLAST_TANKS", &config.Excel.MaxBallastTanks)
	return applied
}

// LoadConfig 从 config.toml 加载配置
// 配置文件位于可执行文件同目录下
func LoadConfig() (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo()
	return config, err
}

// SaveConfig 保存配置到 config.toml
func SaveConfig(config *AppConfig, dir string) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.toml"), data, 0644)
}

// ResolveDataDir 数据目录：绝对路径原样使用，相对路径以可执行文件目录为基准
func ResolveDataDir(config *AppConfig) string {
	if filepath.IsAbs(config.Data.DataDir) {
		return config.Data.DataDir
	}
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, config.Data.DataDir)
}

// EnsureDataDir 确保数据目录及 uploads/exports/backups 子目录存在
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := ResolveDataDir(config)

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	subdirs := []string{"uploads", "exports", "backups"}
	for _, subdir := range subdirs {
		path := filepath.Join(dataDir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", err
		}
	}

	return dataDir, nil
}
