package app

import (
	"context"
	"encoding/binary"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"LevelEditor/internal/level/codec"
	"LevelEditor/internal/level/defs"
	"LevelEditor/internal/level/domain"
	"LevelEditor/modules/kit/logx"
)

type fakeStore struct {
	mu       sync.Mutex
	files    map[string][]byte
	writeErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{files: make(map[string][]byte)}
}

func (f *fakeStore) Read(ctx context.Context, path string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.files[path]
	if !ok {
		return nil, ErrLevelNotFound.WithData("path", path)
	}
	return data, nil
}

func (f *fakeStore) Write(ctx context.Context, path string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.files[path] = append([]byte(nil), data...)
	return nil
}

func (f *fakeStore) List(ctx context.Context) ([]string, error) {
	return nil, nil
}

type fakeJournal struct {
	recs []SaveRecord
	err  error
}

func (j *fakeJournal) Record(ctx context.Context, rec SaveRecord) error {
	if j.err != nil {
		return j.err
	}
	j.recs = append(j.recs, rec)
	return nil
}

func (j *fakeJournal) Recent(ctx context.Context, limit int) ([]SaveRecord, error) {
	return j.recs, j.err
}

type fakeEvents struct {
	names []string
}

func (e *fakeEvents) Broadcast(name string, data any) {
	e.names = append(e.names, name)
}

type fakeDefs struct {
	tiles, spawns map[int]string
}

func (d fakeDefs) LoadDefs() (map[int]string, map[int]string) {
	return d.tiles, d.spawns
}

// levelFile 生成一个单层、无 group 的 10×10 关卡文件，tile 值为文件下标 % 27。
func levelFile(spawns ...domain.EntitySpawn) []byte {
	le := binary.LittleEndian
	var b []byte
	for _, v := range []int32{2, 10, 10, 1, int32(len(spawns)), 0, 0, 0, 0} {
		b = le.AppendUint32(b, uint32(v))
	}
	for _, name := range []string{"spawns.gon", "tiles.gon"} {
		b = le.AppendUint32(b, uint32(len(name)))
		b = append(b, name...)
	}
	b = le.AppendUint32(b, 0)
	b = le.AppendUint32(b, 0)
	for i := 0; i < domain.GridCells; i++ {
		b = le.AppendUint16(b, uint16(i%27))
	}
	for _, s := range spawns {
		b = le.AppendUint16(b, uint16(s.X))
		b = le.AppendUint16(b, uint16(s.Y))
		b = le.AppendUint16(b, s.ID)
		b = append(b, s.Wave, s.Reserved)
	}
	return b
}

func newService(t *testing.T, opts ...Option) (*EditorService, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	store.files["a.lvl"] = levelFile(domain.EntitySpawn{X: 1, Y: 2, ID: 2050, Wave: 1})
	catalog := defs.NewCatalog(map[int]string{6: "Lava"}, map[int]string{2050: "Goblin"})
	return NewEditorService(store, catalog, logx.Nop(), opts...), store
}

func TestEditorService_加载编辑保存(t *testing.T) {
	journal := &fakeJournal{}
	events := &fakeEvents{}
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s, store := newService(t, WithJournal(journal), WithEvents(events), WithClock(func() time.Time { return fixed }))
	ctx := context.Background()

	res, err := s.Load(ctx, "a.lvl")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if res.Status != "Tiles: 100  Entities: 1" {
		t.Fatalf("status=%q", res.Status)
	}

	// 文件 (1,2) 在编辑器里是 (1,7)
	view := s.View()
	cell := view.Cells[7*domain.GridSize+1]
	if cell.X != 1 || cell.Y != 7 || cell.EntityLabel != "Goblin" {
		t.Fatalf("cell=%+v", cell)
	}

	if _, err := s.SetTile(0, 0, 6); err != nil {
		t.Fatalf("SetTile: %v", err)
	}
	if _, err := s.AddEntity(1, 7, "0x802", "3"); err != nil {
		t.Fatalf("AddEntity: %v", err)
	}
	view = s.View()
	if got := view.Cells[0]; got.TileLabel != "Lava (6)" || got.Color != "#dc2626" {
		t.Fatalf("cell0=%+v", got)
	}
	if got := view.Cells[7*domain.GridSize+1].EntityLabel; got != "Goblin*" {
		t.Fatalf("label=%q", got)
	}
	if s.Status() != "Tiles: 100  Entities: 2" {
		t.Fatalf("status=%q", s.Status())
	}

	saved, err := s.Save(ctx)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.Report.TilesPassthrough || saved.Report.EntitiesPassthrough || saved.Report.EntityCount != 2 {
		t.Fatalf("report=%+v", saved.Report)
	}
	again, err := codec.Decode(store.files["a.lvl"])
	if err != nil {
		t.Fatalf("重新解码: %v", err)
	}
	if got, _ := again.TileAt(0, 0); got != 6 || again.EntityCount() != 2 {
		t.Fatalf("tile=%d entities=%d", got, again.EntityCount())
	}

	if len(journal.recs) != 1 || journal.recs[0].Path != "a.lvl" || !journal.recs[0].SavedAt.Equal(fixed) {
		t.Fatalf("journal=%+v", journal.recs)
	}
	want := []string{EventLevelLoaded, EventLevelChanged, EventLevelChanged, EventLevelSaved}
	if len(events.names) != len(want) {
		t.Fatalf("events=%v", events.names)
	}
	for i := range want {
		if events.names[i] != want[i] {
			t.Fatalf("events=%v", events.names)
		}
	}
}

func TestEditorService_SaveAs改变路径(t *testing.T) {
	s, store := newService(t)
	ctx := context.Background()
	if _, err := s.Load(ctx, "a.lvl"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SaveAs(ctx, ""); !errors.Is(err, ErrPathRequired) {
		t.Fatalf("err=%v", err)
	}
	if _, err := s.SaveAs(ctx, "b.lvl"); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	if s.View().Path != "b.lvl" {
		t.Fatalf("path=%q", s.View().Path)
	}
	if string(store.files["b.lvl"]) != string(store.files["a.lvl"]) {
		t.Fatalf("未编辑时另存应与原文件一致")
	}
}

func TestEditorService_错误(t *testing.T) {
	s, store := newService(t)
	ctx := context.Background()

	if _, err := s.Save(ctx); !errors.Is(err, ErrPathRequired) {
		t.Fatalf("新建关卡无路径 err=%v", err)
	}
	if _, err := s.SaveAs(ctx, "c.lvl"); !errors.Is(err, codec.ErrNotLoaded) {
		t.Fatalf("新建关卡保存 err=%v", err)
	}
	if _, err := s.Load(ctx, "missing.lvl"); !errors.Is(err, ErrLevelNotFound) {
		t.Fatalf("err=%v", err)
	}
	store.files["bad.lvl"] = []byte{1, 2, 3}
	if _, err := s.Load(ctx, "bad.lvl"); !errors.Is(err, codec.ErrTruncated) {
		t.Fatalf("err=%v", err)
	}
	if s.View().Path != "" {
		t.Fatalf("加载失败不应替换当前关卡")
	}
	if _, err := s.SetTile(10, 0, 1); !errors.Is(err, domain.ErrOutOfGrid) {
		t.Fatalf("err=%v", err)
	}
	if _, err := s.PlaceEntity(0, 0, "zz", ""); !errors.Is(err, ErrInvalidNumber) {
		t.Fatalf("err=%v", err)
	}
	if _, err := s.PlaceEntity(0, 0, "70000", ""); !errors.Is(err, ErrInvalidNumber) {
		t.Fatalf("err=%v", err)
	}

	if _, err := s.Load(ctx, "a.lvl"); err != nil {
		t.Fatal(err)
	}
	store.writeErr = errors.New("disk full")
	_, err := s.Save(ctx)
	if !errors.Is(err, ErrUnavailable) || !errors.Is(err, store.writeErr) {
		t.Fatalf("err=%v", err)
	}
}

func TestEditorService_有损保存记警告且journal失败不影响保存(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	store := newFakeStore()
	// 两层的文件：编辑 tile 后只能写回第 0 层
	data := levelFile()
	binary.LittleEndian.PutUint32(data[12:], 2)
	for i := 0; i < domain.GridCells; i++ {
		data = binary.LittleEndian.AppendUint16(data, 500)
	}
	store.files["two.lvl"] = data

	journal := &fakeJournal{err: errors.New("db down")}
	s := NewEditorService(store, nil, logx.NewZapLogger(zap.New(core)), WithJournal(journal))
	ctx := context.Background()
	if _, err := s.Load(ctx, "two.lvl"); err != nil {
		t.Fatal(err)
	}
	_, _ = s.ClearTile(3, 3)

	res, err := s.Save(ctx)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if res.Report.DroppedLayers != 1 {
		t.Fatalf("report=%+v", res.Report)
	}
	if recorded.FilterMessage("level saved with dropped data").Len() != 1 {
		t.Fatalf("缺少有损保存警告")
	}
	if recorded.FilterField(zap.String("err_type", "sys")).Len() != 1 {
		t.Fatalf("journal 失败应记一条系统错误日志")
	}
	if _, err := s.History(ctx, 10); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err=%v", err)
	}
}

func TestEditorService_ReloadDefs(t *testing.T) {
	events := &fakeEvents{}
	s, _ := newService(t, WithEvents(events), WithDefs(fakeDefs{
		tiles:  map[int]string{1: "Water", 2: "Grass"},
		spawns: map[int]string{},
	}))
	tiles, spawns := s.ReloadDefs(context.Background())
	if tiles != 2 || spawns != 0 {
		t.Fatalf("tiles=%d spawns=%d", tiles, spawns)
	}
	if s.Catalog().TileLabel(2) != "Grass (2)" {
		t.Fatalf("label=%q", s.Catalog().TileLabel(2))
	}
	if len(events.names) != 1 || events.names[0] != EventDefsReloaded {
		t.Fatalf("events=%v", events.names)
	}
}

func TestEditorService_New(t *testing.T) {
	s, _ := newService(t)
	_, _ = s.Load(context.Background(), "a.lvl")
	view := s.New(context.Background())
	if view.Loaded || view.Path != "" || view.Status != "Tiles: 100  Entities: 0" || len(view.Cells) != domain.GridCells {
		t.Fatalf("view=%+v", view)
	}
}

func TestParseNumbers(t *testing.T) {
	cases := map[string]uint16{"2050": 2050, "0x802": 2050, " 0o17 ": 15, "0b11": 3, "0": 0}
	for in, want := range cases {
		got, err := ParseEntityID(in)
		if err != nil || got != want {
			t.Fatalf("ParseEntityID(%q)=%d,%v", in, got, err)
		}
	}
	for _, in := range []string{"", "-1", "65536", "abc"} {
		if _, err := ParseEntityID(in); !errors.Is(err, ErrInvalidNumber) {
			t.Fatalf("ParseEntityID(%q) err=%v", in, err)
		}
	}
	if v, err := ParseExtra(""); err != nil || v != 0 {
		t.Fatalf("ParseExtra(\"\")=%d,%v", v, err)
	}
	if v, err := ParseExtra("-0x10"); err != nil || v != -16 {
		t.Fatalf("ParseExtra=%d,%v", v, err)
	}
	if _, err := ParseExtra("1.5"); !errors.Is(err, ErrInvalidNumber) {
		t.Fatalf("err=%v", err)
	}
}
