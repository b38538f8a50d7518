package store

import (
	"errors"
	"fmt"
)

// ErrNotFound 文档或记录不存在
var ErrNotFound = errors.New("not found")

// 文档名称（JSON 后端即 <name>.json）
const (
	DocShips        = "ships"
	DocReports      = "reports"
	DocCustomFields = "ship_custom_fields"
	DocMarket       = "market_data"

	DocMCodes  = "m_codes"
	DocEVCodes = "ev_codes"
	DocTCodes  = "t_codes"
	DocRCodes  = "r_codes"
	DocECodes  = "e_codes"
	DocFCodes  = "f_codes"
	DocLCodes  = "l_codes"
	DocWCodes  = "w_codes"
)

// Backend 整文档读写：每次读取完整快照，每次保存整体覆盖
type Backend interface {
	// Load 读取文档，不存在时返回 ErrNotFound
	Load(name string) ([]byte, error)
	// Save 覆盖写入文档
	Save(name string, data []byte) error
	// Names 已存在的文档名
	Names() ([]string, error)
	// Kind 后端类型
	Kind() string
	Close() error
}

// 后端类型
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// OpenBackend 按类型打开后端
func OpenBackend(kind, dataDir string) (Backend, error) {
	switch kind {
	case "", BackendJSON:
		return NewFileBackend(dataDir)
	case BackendSQLite:
		return NewSQLiteBackend(sqlitePath(dataDir))
	case BackendMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", kind)
	}
}
