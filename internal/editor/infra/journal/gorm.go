package journal

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"LevelEditor/internal/editor/app"
	"LevelEditor/internal/shared/config"
	"LevelEditor/internal/shared/logs"
	"LevelEditor/modules/kit/logx"
)

// saveRow 是 level_saves 表的一行。
type saveRow struct {
	ID                  uint64    `gorm:"primaryKey;autoIncrement"`
	Path                string    `gorm:"size:512;index"`
	Size                int       `gorm:"not null"`
	EntityCount         int       `gorm:"not null"`
	TilesPassthrough    bool      `gorm:"not null"`
	EntitiesPassthrough bool      `gorm:"not null"`
	Lossy               bool      `gorm:"not null"`
	SavedAt             time.Time `gorm:"index;not null"`
}

func (saveRow) TableName() string {
	return "level_saves"
}

func toRow(rec app.SaveRecord) saveRow {
	return saveRow{
		ID:                  rec.ID,
		Path:                rec.Path,
		Size:                rec.Size,
		EntityCount:         rec.EntityCount,
		TilesPassthrough:    rec.TilesPassthrough,
		EntitiesPassthrough: rec.EntitiesPassthrough,
		Lossy:               rec.Lossy,
		SavedAt:             rec.SavedAt,
	}
}

func (r saveRow) record() app.SaveRecord {
	return app.SaveRecord{
		ID:                  r.ID,
		Path:                r.Path,
		Size:                r.Size,
		EntityCount:         r.EntityCount,
		TilesPassthrough:    r.TilesPassthrough,
		EntitiesPassthrough: r.EntitiesPassthrough,
		Lossy:               r.Lossy,
		SavedAt:             r.SavedAt,
	}
}

// Gorm 把保存记录写到 MySQL。
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

// Migrate 创建或更新 level_saves 表。
func (g *Gorm) Migrate(ctx context.Context) error {
	return g.db.WithContext(ctx).AutoMigrate(&saveRow{})
}

func (g *Gorm) Record(ctx context.Context, rec app.SaveRecord) error {
	row := toRow(rec)
	return g.db.WithContext(ctx).Create(&row).Error
}

func (g *Gorm) Recent(ctx context.Context, limit int) ([]app.SaveRecord, error) {
	var rows []saveRow
	if err := recentQuery(g.db.WithContext(ctx), limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]app.SaveRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.record())
	}
	return out, nil
}

func recentQuery(tx *gorm.DB, limit int) *gorm.DB {
	tx = tx.Model(&saveRow{}).Order("saved_at DESC").Order("id DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	return tx
}

// OpenMySQL 按配置打开 MySQL 连接。
func OpenMySQL(cfg config.JournalConfig, log logx.Logger) (*gorm.DB, error) {
	log = logx.Component(log, "journal")
	level := logger.Warn
	if cfg.ShowSQL {
		level = logger.Info
	}
	gcfg := &gorm.Config{
		Logger: logs.NewGormLogger(log, level, 200*time.Millisecond),
	}

	// username:password@protocol(address)/dbname?charset=utf8&parseTime=True&loc=Local
	db, err := gorm.Open(mysql.Open(cfg.DSN), gcfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxConn)
	sqlDB.SetMaxIdleConns(cfg.MaxIdle)
	if cfg.MaxLife > 0 {
		sqlDB.SetConnMaxLifetime(cfg.MaxLife)
	}

	log.Info("open journal db success", zap.Int("max_conn", cfg.MaxConn), zap.Int("max_idle", cfg.MaxIdle))
	return db, nil
}

// Open 按 driver 选择实现。返回的 close 函数用于释放连接。
func Open(ctx context.Context, cfg config.JournalConfig, log logx.Logger) (app.Journal, func() error, error) {
	if cfg.Driver != "mysql" {
		return NewMemory(DefaultMemoryCap), func() error { return nil }, nil
	}
	db, err := OpenMySQL(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return finishOpen(ctx, db, NewGorm(db).Migrate)
}

// finishOpen 迁移表结构，失败时关闭已经打开的连接池。
func finishOpen(ctx context.Context, db *gorm.DB, migrate func(context.Context) error) (app.Journal, func() error, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	if err := migrate(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("migrate journal: %w", err)
	}
	return NewGorm(db), sqlDB.Close, nil
}
