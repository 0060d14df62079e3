package domain

import (
	"cmp"
	"slices"
)

// EntityRecordSize 是不带 RandomGroup 的实体记录字节数。
const EntityRecordSize = 8

// EntitySpawn 是文件原生坐标下的一条实体记录。
type EntitySpawn struct {
	X        int16        `json:"x" yaml:"x"`
	Y        int16        `json:"y" yaml:"y"`
	ID       uint16       `json:"id" yaml:"id"`
	Wave     uint8        `json:"wave" yaml:"wave"`
	Reserved uint8        `json:"reserved" yaml:"reserved"`
	Group    *RandomGroup `json:"group,omitempty" yaml:"group,omitempty"`
}

// Placement 是编辑器中某个格子上的一个实体。Extra 对应文件中的 wave 字节，写回时只保留低 8 位。
type Placement struct {
	ID    uint16 `json:"id" yaml:"id"`
	Extra int    `json:"extra" yaml:"extra"`
}

// spawnKey 是保存时比较实体列表用的键：位置 + id + wave。
type spawnKey struct {
	x, y int16
	id   uint16
	wave uint8
}

func keyOf(e EntitySpawn) spawnKey {
	return spawnKey{x: e.X, y: e.Y, id: e.ID, wave: e.Wave}
}

func compareKey(a, b spawnKey) int {
	return cmp.Or(
		cmp.Compare(a.y, b.y),
		cmp.Compare(a.x, b.x),
		cmp.Compare(a.id, b.id),
		cmp.Compare(a.wave, b.wave),
	)
}

// SameSpawns 判断两份实体列表在忽略顺序、RandomGroup 和 reserved 字节的前提下是否相同。
func SameSpawns(a, b []EntitySpawn) bool {
	if len(a) != len(b) {
		return false
	}
	ka := make([]spawnKey, len(a))
	kb := make([]spawnKey, len(b))
	for i := range a {
		ka[i] = keyOf(a[i])
		kb[i] = keyOf(b[i])
	}
	slices.SortFunc(ka, compareKey)
	slices.SortFunc(kb, compareKey)
	return slices.Equal(ka, kb)
}
