package store

import (
	"sort"
	"sync"
)

// MemoryBackend 内存文档存储（进程退出即丢失，用于测试和演示）
type MemoryBackend struct {
	docs map[string][]byte
	mu   sync.RWMutex
}

// NewMemoryBackend 创建内存存储
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{docs: make(map[string][]byte)}
}

// Load 读取文档副本
func (b *MemoryBackend) Load(name string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, ok := b.docs[name]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

// Save 覆盖文档（保存副本，调用方后续修改不影响存储）
func (b *MemoryBackend) Save(name string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.docs[name] = append([]byte(nil), data...)
	return nil
}

// Names 已存在的文档名
func (b *MemoryBackend) Names() ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	names := make([]string, 0, len(b.docs))
	for name := range b.docs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Kind 后端类型
func (b *MemoryBackend) Kind() string { return BackendMemory }

// Close 无需释放资源
func (b *MemoryBackend) Close() error { return nil }
