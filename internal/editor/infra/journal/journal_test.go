package journal

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"LevelEditor/internal/editor/app"
	"LevelEditor/internal/shared/config"
	"LevelEditor/modules/kit/logx"
)

func TestMemory_倒序与容量(t *testing.T) {
	m := NewMemory(2)
	ctx := context.Background()
	for _, p := range []string{"a.lvl", "b.lvl", "c.lvl"} {
		if err := m.Record(ctx, app.SaveRecord{Path: p}); err != nil {
			t.Fatal(err)
		}
	}
	recs, _ := m.Recent(ctx, 0)
	if len(recs) != 2 || recs[0].Path != "c.lvl" || recs[1].Path != "b.lvl" || recs[0].ID != 3 {
		t.Fatalf("recs=%+v", recs)
	}
	recs, _ = m.Recent(ctx, 1)
	if len(recs) != 1 || recs[0].Path != "c.lvl" {
		t.Fatalf("recs=%+v", recs)
	}
}

// dryRunDB 不连接数据库，只用来生成 SQL。
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "user:pw@tcp(127.0.0.1:3306)/levels?parseTime=True",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return db
}

func TestGorm_生成的SQL(t *testing.T) {
	db := dryRunDB(t)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var rows []saveRow
		return recentQuery(tx, 5).Find(&rows)
	})
	if !strings.Contains(sql, "FROM `level_saves`") || !strings.Contains(sql, "ORDER BY saved_at DESC,id DESC LIMIT 5") {
		t.Fatalf("sql=%s", sql)
	}

	sql = db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		row := toRow(app.SaveRecord{Path: "a.lvl", Size: 10, SavedAt: time.Unix(0, 0)})
		return tx.Create(&row)
	})
	if !strings.HasPrefix(sql, "INSERT INTO `level_saves`") || !strings.Contains(sql, "'a.lvl'") {
		t.Fatalf("sql=%s", sql)
	}
}

func TestSaveRow_转换(t *testing.T) {
	rec := app.SaveRecord{ID: 7, Path: "x.lvl", Size: 3, EntityCount: 2, Lossy: true, SavedAt: time.Unix(100, 0)}
	if got := toRow(rec).record(); got != rec {
		t.Fatalf("got=%+v want=%+v", got, rec)
	}
}

func TestOpen_memory(t *testing.T) {
	j, closeFn, err := Open(context.Background(), config.JournalConfig{Driver: "memory"}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, ok := j.(*Memory); !ok {
		t.Fatalf("journal=%T", j)
	}
	if err := closeFn(); err != nil {
		t.Fatal(err)
	}
}

func TestFinishOpen_迁移失败时关闭连接池(t *testing.T) {
	db := dryRunDB(t)
	boom := errors.New("boom")

	j, closeFn, err := finishOpen(context.Background(), db, func(context.Context) error { return boom })
	if !errors.Is(err, boom) || j != nil || closeFn != nil {
		t.Fatalf("j=%v err=%v", j, err)
	}
	sqlDB, _ := db.DB()
	if err := sqlDB.PingContext(context.Background()); err == nil || !strings.Contains(err.Error(), "database is closed") {
		t.Fatalf("连接池应已关闭, ping err=%v", err)
	}
}

func TestFinishOpen_成功返回关闭函数(t *testing.T) {
	db := dryRunDB(t)
	j, closeFn, err := finishOpen(context.Background(), db, func(context.Context) error { return nil })
	if err != nil || j == nil {
		t.Fatalf("j=%v err=%v", j, err)
	}
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
