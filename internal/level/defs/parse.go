// Package defs 读取 tiles.gon / spawns.gon 这类花括号定义文件，只提取编辑器需要的 id → 名称映射。
//
// 解析是容错的：无法识别的内容直接跳过，从不返回错误。
package defs

import (
	"fmt"
	"io"

	"github.com/spf13/afero"
)

// DefaultTileFile 和 DefaultSpawnFile 是默认的定义文件名。
const (
	DefaultTileFile  = "tiles.gon"
	DefaultSpawnFile = "spawns.gon"
)

// matchClose 返回从 start 开始、初始深度为 1 时与之配对的 `}` 下标，没有则返回 -1。
func matchClose(toks []token, start int) int {
	depth := 1
	for i := start; i < len(toks); i++ {
		switch toks[i].kind {
		case tokOpen:
			depth++
		case tokClose:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// eachEntry 找出所有顶层的 `<int> { ... }` 条目，按文件顺序回调。
// 非整数开头的顶层块整块跳过；没有闭合的条目不回调。
func eachEntry(toks []token, fn func(id int, body []token)) {
	for i := 0; i < len(toks); {
		t := toks[i]
		if id, ok := entryID(t); ok && i+1 < len(toks) && toks[i+1].kind == tokOpen {
			end := matchClose(toks, i+2)
			if end < 0 {
				return
			}
			fn(id, toks[i+2:end])
			i = end + 1
			continue
		}
		if t.kind == tokOpen {
			end := matchClose(toks, i+1)
			if end < 0 {
				return
			}
			i = end + 1
			continue
		}
		i++
	}
}

// nameAfter 判断 toks[i] 是否是 `name "<text>"`。
func nameAfter(toks []token, i int) (string, bool) {
	if toks[i].kind != tokWord || toks[i].text != "name" || i+1 >= len(toks) || toks[i+1].kind != tokString {
		return "", false
	}
	return toks[i+1].text, true
}

func tileName(body []token) string {
	name := ""
	depth := 0
	for i := 0; i < len(body); i++ {
		switch body[i].kind {
		case tokOpen:
			depth++
			continue
		case tokClose:
			depth--
			continue
		}
		if depth != 0 || body[i].text != "editor" || i+1 >= len(body) || body[i+1].kind != tokOpen {
			continue
		}
		end := matchClose(body, i+2)
		if end < 0 {
			end = len(body)
		}
		inner := body[i+2 : end]
		innerDepth := 0
		for j := range inner {
			switch inner[j].kind {
			case tokOpen:
				innerDepth++
			case tokClose:
				innerDepth--
			}
			if innerDepth != 0 {
				continue
			}
			if v, ok := nameAfter(inner, j); ok {
				name = v
			}
		}
		i = end
	}
	return name
}

func spawnName(body []token) string {
	for i := range body {
		if v, ok := nameAfter(body, i); ok {
			return v
		}
	}
	return ""
}

// ParseTileDefs 解析 tile 定义。名称只取条目直属 editor 块里的 name，
// 没有名称的条目记为 "Tile <id>"。id 重复时后出现的覆盖先出现的。
func ParseTileDefs(r io.Reader) map[int]string {
	out := make(map[int]string)
	src, err := io.ReadAll(r)
	if err != nil && len(src) == 0 {
		return out
	}
	eachEntry(lex(src), func(id int, body []token) {
		name := tileName(body)
		if name == "" {
			name = fmt.Sprintf("Tile %d", id)
		}
		out[id] = name
	})
	return out
}

// ParseSpawnDefs 解析实体定义。名称取条目内任意深度第一个 name，没有名称的条目丢弃。
func ParseSpawnDefs(r io.Reader) map[int]string {
	out := make(map[int]string)
	src, err := io.ReadAll(r)
	if err != nil && len(src) == 0 {
		return out
	}
	eachEntry(lex(src), func(id int, body []token) {
		if name := spawnName(body); name != "" {
			out[id] = name
		}
	})
	return out
}

// Loader 从给定文件系统读取定义文件。
type Loader struct {
	Fs afero.Fs
}

// NewLoader 返回读取本地磁盘的 Loader。
func NewLoader() *Loader {
	return &Loader{Fs: afero.NewOsFs()}
}

// Tiles 读取 tile 定义；文件不存在或不可读时返回空表。
func (l *Loader) Tiles(path string) map[int]string {
	return l.load(path, ParseTileDefs)
}

// Spawns 读取实体定义；文件不存在或不可读时返回空表。
func (l *Loader) Spawns(path string) map[int]string {
	return l.load(path, ParseSpawnDefs)
}

func (l *Loader) load(path string, parse func(io.Reader) map[int]string) map[int]string {
	f, err := l.Fs.Open(path)
	if err != nil {
		return make(map[int]string)
	}
	defer f.Close()
	return parse(f)
}

func LoadTileDefs(path string) map[int]string {
	return NewLoader().Tiles(path)
}

func LoadSpawnDefs(path string) map[int]string {
	return NewLoader().Spawns(path)
}

// Exists 报告定义文件是否存在，用于区分空文件和缺失的文件。
func (l *Loader) Exists(path string) bool {
	ok, err := afero.Exists(l.Fs, path)
	return err == nil && ok
}

// FileSource 从固定的两个路径读取定义表。
type FileSource struct {
	Loader     *Loader
	TilesPath  string
	SpawnsPath string
}

func (s FileSource) LoadDefs() (tiles, spawns map[int]string) {
	l := s.Loader
	if l == nil {
		l = NewLoader()
	}
	return l.Tiles(s.TilesPath), l.Spawns(s.SpawnsPath)
}
