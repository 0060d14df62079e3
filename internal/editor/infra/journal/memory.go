package journal

import (
	"context"
	"sync"

	"LevelEditor/internal/editor/app"
)

// DefaultMemoryCap 是内存 journal 默认保留的记录数。
const DefaultMemoryCap = 256

// Memory 把保存记录保存在内存里，超过容量时丢弃最旧的。
type Memory struct {
	mu     sync.Mutex
	cap    int
	nextID uint64
	recs   []app.SaveRecord
}

func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = DefaultMemoryCap
	}
	return &Memory{cap: capacity}
}

func (m *Memory) Record(ctx context.Context, rec app.SaveRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	rec.ID = m.nextID
	m.recs = append(m.recs, rec)
	if over := len(m.recs) - m.cap; over > 0 {
		m.recs = append(m.recs[:0:0], m.recs[over:]...)
	}
	return nil
}

// Recent 按时间倒序返回最多 limit 条记录，limit <= 0 时返回全部。
func (m *Memory) Recent(ctx context.Context, limit int) ([]app.SaveRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.recs)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]app.SaveRecord, 0, n)
	for i := len(m.recs) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, m.recs[i])
	}
	return out, nil
}
