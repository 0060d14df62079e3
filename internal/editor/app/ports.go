package app

import (
	"context"
	"time"
)

// LevelStore 读写关卡文件。路径不存在时 Read 返回 ErrLevelNotFound。
type LevelStore interface {
	Read(ctx context.Context, path string) ([]byte, error)
	Write(ctx context.Context, path string, data []byte) error
	List(ctx context.Context) ([]string, error)
}

// SaveRecord 是一次保存的记录。
type SaveRecord struct {
	ID                  uint64    `json:"id"`
	Path                string    `json:"path"`
	Size                int       `json:"size"`
	EntityCount         int       `json:"entity_count"`
	TilesPassthrough    bool      `json:"tiles_passthrough"`
	EntitiesPassthrough bool      `json:"entities_passthrough"`
	Lossy               bool      `json:"lossy"`
	SavedAt             time.Time `json:"saved_at"`
}

// Journal 记录保存历史。
type Journal interface {
	Record(ctx context.Context, rec SaveRecord) error
	Recent(ctx context.Context, limit int) ([]SaveRecord, error)
}

// EventPublisher 向前端推送事件。
type EventPublisher interface {
	Broadcast(name string, data any)
}

// DefsLoader 读取最新的 tile/实体定义表。
type DefsLoader interface {
	LoadDefs() (tiles, spawns map[int]string)
}

// 推送事件名。
const (
	EventLevelLoaded  = "level.loaded"
	EventLevelSaved   = "level.saved"
	EventLevelChanged = "level.changed"
	EventDefsReloaded = "defs.reloaded"
)
