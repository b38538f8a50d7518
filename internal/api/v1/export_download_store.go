package v1

import (
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

type exportDownload struct {
	filePath  string
	filename  string
	expiresAt time.Time
}

// exportDownloadStore 一次性下载令牌，过期的文件随令牌一起清理
type exportDownloadStore struct {
	mu    sync.Mutex
	items map[string]exportDownload
}

func newExportDownloadStore() *exportDownloadStore {
	return &exportDownloadStore{
		items: make(map[string]exportDownload),
	}
}

func (s *exportDownloadStore) put(filePath, filename string, ttl time.Duration) (token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked(time.Now())

	token = uuid.NewString()
	s.items[token] = exportDownload{
		filePath:  filePath,
		filename:  filename,
		expiresAt: time.Now().Add(ttl),
	}
	return token
}

func (s *exportDownloadStore) get(token string) (exportDownload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked(time.Now())

	v, ok := s.items[token]
	return v, ok
}

func (s *exportDownloadStore) delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, token)
}

func (s *exportDownloadStore) purgeExpiredLocked(now time.Time) {
	for k, v := range s.items {
		if now.After(v.expiresAt) {
			delete(s.items, k)
			_ = os.Remove(v.filePath)
		}
	}
}
