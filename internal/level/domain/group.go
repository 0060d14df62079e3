package domain

// FallbackTileID 是空 RandomGroup 的解析结果。
const FallbackTileID uint16 = 0

// Candidate 是 RandomGroup 中的一个候选项。Weight 只随数据携带，解析时不参与。
type Candidate struct {
	ID     uint16 `json:"id" yaml:"id"`
	Weight uint16 `json:"weight" yaml:"weight"`
}

// RandomGroup 紧跟在哨兵 id 之后：count(uint8) rollIndex(uint8) count×(id, weight)。
type RandomGroup struct {
	RollIndex  uint8       `json:"roll_index" yaml:"roll_index"`
	Candidates []Candidate `json:"candidates" yaml:"candidates"`
}

// Resolve 返回该组在文件生成时已经确定的结果。
func (g *RandomGroup) Resolve() uint16 {
	if g == nil {
		return FallbackTileID
	}
	return ResolveGroup(g.Candidates, g.RollIndex)
}

// ResolveGroup 按位置取 candidates[roll mod len]；空列表返回 FallbackTileID。
// 随机结果在生成关卡时已写入 roll，这里不做任何加权抽样。
func ResolveGroup(candidates []Candidate, roll uint8) uint16 {
	if len(candidates) == 0 {
		return FallbackTileID
	}
	return candidates[int(roll)%len(candidates)].ID
}
