package store

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaFS embed.FS

// SQLiteFileName 数据目录下的数据库文件
const SQLiteFileName = "ssrpms.db"

func sqlitePath(dataDir string) string {
	return filepath.Join(dataDir, SQLiteFileName)
}

// SQLiteBackend 文档存放在 SQLite 的 documents 表中
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend 打开数据库并初始化表结构
func NewSQLiteBackend(dbPath string) (*SQLiteBackend, error) {
	// 确保 data 目录存在
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite 建议单连接
	db.SetMaxIdleConns(1)

	b := &SQLiteBackend{db: db}
	if err := b.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return b, nil
}

func (b *SQLiteBackend) initSchema() error {
	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema.sql: %w", err)
	}
	if _, err := b.db.Exec(string(schemaSQL)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// Load 读取文档
func (b *SQLiteBackend) Load(name string) ([]byte, error) {
	var body string
	err := b.db.QueryRow("SELECT body FROM documents WHERE name = ?", name).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load %s: %w", name, err)
	}
	return []byte(body), nil
}

// Save 覆盖写入文档
func (b *SQLiteBackend) Save(name string, data []byte) error {
	_, err := b.db.Exec(`
		INSERT INTO documents (name, body) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = CURRENT_TIMESTAMP
	`, name, string(data))
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", name, err)
	}
	return nil
}

// Names 已存在的文档
func (b *SQLiteBackend) Names() ([]string, error) {
	rows, err := b.db.Query("SELECT name FROM documents ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Kind 后端类型
func (b *SQLiteBackend) Kind() string { return BackendSQLite }

// Close 关闭数据库连接
func (b *SQLiteBackend) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}
