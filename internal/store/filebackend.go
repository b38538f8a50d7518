package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileBackend 每个文档一个 JSON 文件
type FileBackend struct {
	dir string
}

// NewFileBackend 创建文件后端，目录不存在时自动创建
func NewFileBackend(dir string) (*FileBackend, error) {
	if dir == "" {
		return nil, errors.New("data directory is required")
	}
	if err := ensureDir(dir); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

func (b *FileBackend) path(name string) string {
	return filepath.Join(b.dir, name+".json")
}

// Load 读取文档
func (b *FileBackend) Load(name string) ([]byte, error) {
	data, err := os.ReadFile(b.path(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Save 先写临时文件再重命名，避免写到一半的文件被读到
func (b *FileBackend) Save(name string, data []byte) error {
	return writeFileAtomic(b.path(name), data)
}

// Names 已存在的文档
func (b *FileBackend) Names() ([]string, error) {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// Kind 后端类型
func (b *FileBackend) Kind() string { return BackendJSON }

// Close 无需释放资源
func (b *FileBackend) Close() error { return nil }

func ensureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

func writeFileAtomic(path string, data []byte) error {
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
