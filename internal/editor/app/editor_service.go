package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"LevelEditor/internal/level/codec"
	"LevelEditor/internal/level/defs"
	"LevelEditor/internal/level/domain"
	"LevelEditor/modules/kit/logx"
)

// EditorService 持有一个编辑会话：当前关卡、定义表和保存路径。所有操作串行执行。
type EditorService struct {
	mu    sync.Mutex
	level *domain.Level

	store   LevelStore
	journal Journal
	events  EventPublisher
	catalog *defs.Catalog
	defs    DefsLoader
	log     logx.Logger
	now     func() time.Time
}

type Option func(*EditorService)

func WithJournal(j Journal) Option {
	return func(s *EditorService) { s.journal = j }
}

func WithEvents(p EventPublisher) Option {
	return func(s *EditorService) { s.events = p }
}

func WithDefs(l DefsLoader) Option {
	return func(s *EditorService) { s.defs = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *EditorService) { s.now = now }
}

func NewEditorService(store LevelStore, catalog *defs.Catalog, log logx.Logger, opts ...Option) *EditorService {
	if catalog == nil {
		catalog = defs.NewCatalog(nil, nil)
	}
	log = logx.Component(log, "editor")
	s := &EditorService{
		level:   domain.NewLevel(),
		store:   store,
		catalog: catalog,
		log:     log,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *EditorService) publish(name string, data any) {
	if s.events != nil {
		s.events.Broadcast(name, data)
	}
}

// Catalog 返回当前定义表。
func (s *EditorService) Catalog() *defs.Catalog {
	return s.catalog
}

// New 丢弃当前关卡，换成空白关卡。空白关卡没有加载快照，不能直接保存。
func (s *EditorService) New(ctx context.Context) LevelView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.level = domain.NewLevel()
	view := s.viewLocked()
	s.publish(EventLevelChanged, view)
	return view
}

// Load 读取并解码关卡文件。失败时当前关卡保持不变。
func (s *EditorService) Load(ctx context.Context, path string) (*LoadResult, error) {
	if path == "" {
		return nil, ErrPathRequired
	}
	data, err := s.store.Read(ctx, path)
	if err != nil {
		return nil, storeError(err, path)
	}
	d, err := codec.DecodeDetailed(data)
	if err != nil {
		return nil, err
	}
	d.Level.Path = path

	s.mu.Lock()
	s.level = d.Level
	res := &LoadResult{
		Path:       path,
		Status:     d.Level.Status(),
		Layout:     d.Layout,
		TileGroups: d.TileGroups,
		Stray:      d.Level.StrayCount(),
	}
	s.mu.Unlock()

	s.log.WithContext(ctx).Info("level loaded",
		zap.String("path", path),
		zap.Int("size", len(data)),
		zap.Int32("layers", d.Level.Header.LayerCount),
		zap.Int("entities", d.Level.EntityCount()),
		zap.Int("tile_groups", d.TileGroups),
	)
	s.publish(EventLevelLoaded, res)
	return res, nil
}

// Save 写回当前关卡的路径。
func (s *EditorService) Save(ctx context.Context) (*SaveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.level.Path == "" {
		return nil, ErrPathRequired
	}
	return s.saveLocked(ctx, s.level.Path)
}

// SaveAs 写到新路径，成功后当前路径随之改变。
func (s *EditorService) SaveAs(ctx context.Context, path string) (*SaveResult, error) {
	if path == "" {
		return nil, ErrPathRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.saveLocked(ctx, path)
	if err != nil {
		return nil, err
	}
	s.level.Path = path
	return res, nil
}

func (s *EditorService) saveLocked(ctx context.Context, path string) (*SaveResult, error) {
	out, report, err := codec.Encode(s.level)
	if err != nil {
		return nil, err
	}
	if err := s.store.Write(ctx, path, out); err != nil {
		return nil, storeError(err, path)
	}

	log := s.log.WithContext(ctx)
	if report.Lossy() {
		log.Warn("level saved with dropped data",
			zap.String("path", path),
			zap.Int("dropped_layers", report.DroppedLayers),
			zap.Int("dropped_entity_groups", report.DroppedEntityGroups),
		)
	}
	log.Info("level saved",
		zap.String("path", path),
		zap.Int("size", report.Size),
		zap.Int("entities", report.EntityCount),
		zap.Bool("tiles_passthrough", report.TilesPassthrough),
		zap.Bool("entities_passthrough", report.EntitiesPassthrough),
	)

	if s.journal != nil {
		rec := SaveRecord{
			Path:                path,
			Size:                report.Size,
			EntityCount:         report.EntityCount,
			TilesPassthrough:    report.TilesPassthrough,
			EntitiesPassthrough: report.EntitiesPassthrough,
			Lossy:               report.Lossy(),
			SavedAt:             s.now(),
		}
		// 文件已经写成功，记录失败只记日志
		if err := s.journal.Record(ctx, rec); err != nil {
			logx.ReportError(ctx, s.log, "journal record", ErrUnavailable.WithCause(err))
		}
	}

	res := &SaveResult{Path: path, Report: report}
	s.publish(EventLevelSaved, res)
	return res, nil
}

// History 返回最近的保存记录，没有配置 journal 时为空。
func (s *EditorService) History(ctx context.Context, limit int) ([]SaveRecord, error) {
	if s.journal == nil {
		return nil, nil
	}
	recs, err := s.journal.Recent(ctx, limit)
	if err != nil {
		return nil, ErrUnavailable.WithCause(err)
	}
	return recs, nil
}

// Levels 列出存储中的关卡文件。
func (s *EditorService) Levels(ctx context.Context) ([]string, error) {
	names, err := s.store.List(ctx)
	if err != nil {
		return nil, ErrUnavailable.WithCause(err)
	}
	return names, nil
}

func (s *EditorService) edit(fn func(l *domain.Level) error) (LevelView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s.level); err != nil {
		return LevelView{}, err
	}
	view := s.viewLocked()
	s.publish(EventLevelChanged, view)
	return view, nil
}

func (s *EditorService) SetTile(x, y int, id uint16) (LevelView, error) {
	return s.edit(func(l *domain.Level) error { return l.SetTile(x, y, id) })
}

func (s *EditorService) ClearTile(x, y int) (LevelView, error) {
	return s.edit(func(l *domain.Level) error { return l.ClearTile(x, y) })
}

// PlaceEntity 用一个实体替换格子上的所有实体。id 和 extra 是文本，接受进制前缀。
func (s *EditorService) PlaceEntity(x, y int, idText, extraText string) (LevelView, error) {
	id, extra, err := parseEntity(idText, extraText)
	if err != nil {
		return LevelView{}, err
	}
	return s.edit(func(l *domain.Level) error { return l.PlaceEntity(x, y, id, extra) })
}

// AddEntity 在格子上追加一个实体。
func (s *EditorService) AddEntity(x, y int, idText, extraText string) (LevelView, error) {
	id, extra, err := parseEntity(idText, extraText)
	if err != nil {
		return LevelView{}, err
	}
	return s.edit(func(l *domain.Level) error { return l.AddEntity(x, y, id, extra) })
}

func (s *EditorService) ClearEntities(x, y int) (LevelView, error) {
	return s.edit(func(l *domain.Level) error {
		_, err := l.ClearEntities(x, y)
		return err
	})
}

func parseEntity(idText, extraText string) (uint16, int, error) {
	id, err := ParseEntityID(idText)
	if err != nil {
		return 0, 0, err
	}
	extra, err := ParseExtra(extraText)
	if err != nil {
		return 0, 0, err
	}
	return id, extra, nil
}

// Status 是状态栏文本 "Tiles: N  Entities: M"。
func (s *EditorService) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level.Status()
}

// View 返回当前关卡的快照。
func (s *EditorService) View() LevelView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *EditorService) viewLocked() LevelView {
	l := s.level
	cells := make([]CellView, 0, len(l.Tiles))
	for y := 0; y < l.Height(); y++ {
		for x := 0; x < l.Width(); x++ {
			tile, _ := l.TileAt(x, y)
			ents := l.EntitiesAt(x, y)
			ids := make([]int, len(ents))
			for i, e := range ents {
				ids[i] = int(e.ID)
			}
			cells = append(cells, CellView{
				X:           x,
				Y:           y,
				Tile:        tile,
				TileLabel:   s.catalog.TileLabel(int(tile)),
				Color:       s.catalog.Color(int(tile)),
				Arrow:       defs.Arrow(int(tile)),
				Entities:    ents,
				EntityLabel: s.catalog.EntityLabel(ids),
			})
		}
	}
	return LevelView{
		Path:   l.Path,
		Loaded: l.Loaded(),
		Header: l.Header,
		Status: l.Status(),
		Cells:  cells,
	}
}

// ReloadDefs 重新读取定义文件并替换定义表。没有配置 DefsLoader 时什么也不做。
func (s *EditorService) ReloadDefs(ctx context.Context) (tiles, spawns int) {
	if s.defs == nil {
		return s.catalog.Counts()
	}
	t, sp := s.defs.LoadDefs()
	s.catalog.Replace(t, sp)
	tiles, spawns = s.catalog.Counts()
	s.log.WithContext(ctx).Info("defs reloaded", zap.Int("tiles", tiles), zap.Int("spawns", spawns))
	s.publish(EventDefsReloaded, map[string]int{"tiles": tiles, "spawns": spawns})
	return tiles, spawns
}

// storeError 保留输入类错误（例如文件不存在），其它存储错误包装为系统错误。
func storeError(err error, path string) error {
	if errors.Is(err, ErrLevelNotFound) {
		return err
	}
	return ErrUnavailable.WithData("path", path).WithCause(err)
}
