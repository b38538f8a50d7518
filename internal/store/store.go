// Package store 报告与配置的持久化
//
// 每个集合作为一个完整文档读写：读取得到一致快照，保存整体覆盖（后写者生效）。
// 同一进程内的读改写由互斥锁串行化。
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/newdynamo/SSRPMS/internal/model"
)

// Store 文档存储
type Store struct {
	backend      Backend
	mu           sync.Mutex
	defaultMCode string
}

// New 基于指定后端创建 Store
func New(backend Backend) *Store {
	return &Store{backend: backend, defaultMCode: model.DefaultMCode}
}

// SetDefaultMCode 事件未定义区域时使用的区域代码
func (s *Store) SetDefaultMCode(code string) {
	if code == "" {
		return
	}
	s.mu.Lock()
	s.defaultMCode = code
	s.mu.Unlock()
}

// Open 按类型打开数据目录
func Open(kind, dataDir string) (*Store, error) {
	backend, err := OpenBackend(kind, dataDir)
	if err != nil {
		return nil, err
	}
	return New(backend), nil
}

// Close 关闭后端
func (s *Store) Close() error {
	return s.backend.Close()
}

// BackendKind 后端类型
func (s *Store) BackendKind() string {
	return s.backend.Kind()
}

// loadLocked 读取文档到 out，文档不存在时保持 out 不变
func (s *Store) loadLocked(name string, out interface{}) error {
	data, err := s.backend.Load(name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

func (s *Store) saveLocked(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	data = append(data, '\n')
	if err := s.backend.Save(name, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// LoadDocument 读取任意文档
func (s *Store) LoadDocument(name string, out interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(name, out)
}

// SaveDocument 覆盖写入任意文档
func (s *Store) SaveDocument(name string, v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(name, v)
}

// Backup 将全部文档复制到 dir/<时间戳>/，返回备份目录；没有任何文档时不备份，返回空串
func (s *Store) Backup(dir string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names, err := s.backend.Names()
	if err != nil {
		return "", fmt.Errorf("failed to list documents: %w", err)
	}
	if len(names) == 0 {
		return "", nil
	}

	target := filepath.Join(dir, time.Now().Format("20060102-150405"))
	for _, name := range names {
		data, err := s.backend.Load(name)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", name, err)
		}
		if err := writeFileAtomic(filepath.Join(target, name+".json"), data); err != nil {
			return "", fmt.Errorf("failed to back up %s: %w", name, err)
		}
	}
	return target, nil
}
